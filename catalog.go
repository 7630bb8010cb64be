package cpuinfo

// FeatureDescription is the catalog entry of a feature.
type FeatureDescription struct {
	// Name is the short name, unique within the feature's class.
	Name string
	// Detail is a one-line description.
	Detail string
}

// LookupFeature returns the catalog entry of f. The second value is false
// when f has no description.
func LookupFeature(f Feature) (FeatureDescription, bool) {
	d, ok := featureCatalog[f]
	return d, ok
}

var vendorNames = map[Vendor]string{
	VendorUnknown:   "Unknown",
	VendorAMD:       "AMD",
	VendorCentaur:   "Centaur",
	VendorCyrix:     "Cyrix",
	VendorIBM:       "IBM",
	VendorIntel:     "Intel",
	VendorMotorola:  "Motorola",
	VendorMIPS:      "MIPS",
	VendorNexGen:    "NexGen",
	VendorNSC:       "National Semiconductor",
	VendorPMC:       "PMC Sierra",
	VendorRise:      "Rise",
	VendorSiS:       "SiS",
	VendorTransmeta: "Transmeta",
	VendorUMC:       "UMC",
	VendorPASemi:    "P.A. Semi",
	VendorARM:       "ARM",
	VendorBroadcom:  "Broadcom",
	VendorCavium:    "Cavium",
	VendorFujitsu:   "Fujitsu",
	VendorHiSilicon: "HiSilicon",
	VendorNVIDIA:    "NVIDIA",
	VendorQualcomm:  "Qualcomm",
	VendorApple:     "Apple",
	VendorAmpere:    "Ampere",
	VendorMarvell:   "Marvell",
	VendorHygon:     "Hygon",
}

var socketNames = map[Socket]string{
	Socket478: "Socket 478",
	Socket479: "Socket 479",
	Socket604: "Socket 604",
	Socket771: "Socket LGA771",
	Socket775: "Socket LGA775",
	Socket754: "Socket 754",
	Socket939: "Socket 939",
	Socket940: "Socket 940",
	SocketAM2: "Socket AM2",
	SocketF:   "Socket F (1207)",
	SocketS1:  "Socket S1 (638)",
}

var cacheTypeNames = map[CacheType]string{
	CacheTypeUnknown: "unknown",
	CacheTypeData:    "data",
	CacheTypeCode:    "code",
	CacheTypeUnified: "unified",
	CacheTypeTrace:   "trace",
}

var featureCatalog = map[Feature]FeatureDescription{
	Feature64Bit:        {"64bit", "64-bit capable"},
	FeatureSIMD:         {"simd", "SIMD instructions"},
	FeaturePopcount:     {"popcount", "Population count instruction"},
	FeatureCrypto:       {"crypto", "Cryptographic instructions"},
	FeatureLittleEndian: {"little-endian", "Little endian byte order"},
	FeatureBigEndian:    {"big-endian", "Big endian byte order"},
	FeatureMiddleEndian: {"middle-endian", "Middle endian byte order"},

	FeatureX86AC:            {"ac", "Alignment Check"},
	FeatureX86CPUID:         {"cpuid", "CPUID instruction"},
	FeatureX86FPU:           {"fpu", "Floating Point Unit"},
	FeatureX86VME:           {"vme", "Virtual Mode Extension"},
	FeatureX86DE:            {"de", "Debugging Extension"},
	FeatureX86PSE:           {"pse", "Page Size Extension"},
	FeatureX86TSC:           {"tsc", "Time Stamp Counter"},
	FeatureX86MSR:           {"msr", "Model Specific Registers"},
	FeatureX86PAE:           {"pae", "Physical Address Extension"},
	FeatureX86MCE:           {"mce", "Machine Check Exception"},
	FeatureX86CX8:           {"cx8", "CMPXCHG8 instruction"},
	FeatureX86APIC:          {"apic", "On-chip APIC hardware"},
	FeatureX86SEP:           {"sep", "SYSENTER/SYSEXIT"},
	FeatureX86MTRR:          {"mtrr", "Memory Type Range Registers"},
	FeatureX86PGE:           {"pge", "Page Global Enable"},
	FeatureX86MCA:           {"mca", "Machine Check Architecture"},
	FeatureX86CMOV:          {"cmov", "CMOV instruction"},
	FeatureX86PAT:           {"pat", "Page Attribute Table"},
	FeatureX86PSE36:         {"pse36", "36-bit PSEs"},
	FeatureX86PSN:           {"psn", "Processor Serial Number"},
	FeatureX86CLFLUSH:       {"clflush", "CLFLUSH instruction"},
	FeatureX86DS:            {"ds", "Debug Store"},
	FeatureX86ACPI:          {"acpi", "ACPI via MSR"},
	FeatureX86FXSR:          {"fxsr", "FXSAVE and FXSTOR instructions"},
	FeatureX86SS:            {"ss", "CPU self snoop"},
	FeatureX86HTT:           {"htt", "Hyper-Threading"},
	FeatureX86IA64:          {"ia64", "IA-64 processor"},
	FeatureX86PBE:           {"pbe", "Pending Break Enable"},
	FeatureX86MMX:           {"mmx", "MMX Technology"},
	FeatureX86MMXExt:        {"mmxext", "AMD MMX extensions"},
	FeatureX863DNow:         {"3dnow", "3DNow! instructions"},
	FeatureX863DNowExt:      {"3dnowext", "AMD 3DNow! extensions"},
	FeatureX863DNowPrefetch: {"3dnowprefetch", "3DNow! prefetch instructions"},
	FeatureX86SSE:           {"sse", "SSE Technology"},
	FeatureX86SSE2:          {"sse2", "SSE2 Technology"},
	FeatureX86SSE3:          {"sse3", "SSE3 Technology"},
	FeatureX86SSSE3:         {"ssse3", "SSSE3 Technology"},
	FeatureX86SSE41:         {"sse4.1", "SSE4.1 Technology"},
	FeatureX86SSE42:         {"sse4.2", "SSE4.2 Technology"},
	FeatureX86SSE4A:         {"sse4a", "SSE4A Technology"},
	FeatureX86SSE5:          {"sse5", "SSE5 Technology"},
	FeatureX86MisalignSSE:   {"misalignsse", "Misaligned SSE mode"},
	FeatureX86VMX:           {"vmx", "Intel Virtualization Technology"},
	FeatureX86SVM:           {"svm", "AMD Secure Virtual Machine"},
	FeatureX86LM:            {"lm", "Long Mode (64-bit capable)"},
	FeatureX86LAHF64:        {"lahf_lm", "LAHF/SAHF Supported in 64-bit mode"},
	FeatureX86POPCNT:        {"popcnt", "POPCNT instruction"},
	FeatureX86TSCDeadline:   {"tsc_deadline", "TSC-Deadline timer mode"},
	FeatureX86ABM:           {"abm", "Advanced Bit Manipulation"},
	FeatureX86BSFCC:         {"bsf_cc", "BSF instruction clobbers condition codes"},
	FeatureX86TM:            {"tm", "Thermal Monitor"},
	FeatureX86TM2:           {"tm2", "Thermal Monitor 2"},
	FeatureX86EIST:          {"eist", "Enhanced Intel SpeedStep Technology"},
	FeatureX86NX:            {"nx", "Execute Disable"},
	FeatureX86DTES64:        {"dtes64", "64-bit Debug Store"},
	FeatureX86MONITOR:       {"monitor", "MONITOR/MWAIT instructions"},
	FeatureX86DSCPL:         {"ds_cpl", "CPL Qualified Debug Store"},
	FeatureX86SMX:           {"smx", "Safer Mode Extensions"},
	FeatureX86CNXTID:        {"cnxt_id", "L1 Context ID"},
	FeatureX86CX16:          {"cx16", "CMPXCHG16B instruction"},
	FeatureX86XTPR:          {"xtpr", "Send Task Priority Messages"},
	FeatureX86PDCM:          {"pdcm", "Performance Capabilities MSR"},
	FeatureX86PCID:          {"pcid", "Process Context Identifiers"},
	FeatureX86DCA:           {"dca", "Direct Cache Access"},
	FeatureX86X2APIC:        {"x2apic", "x2APIC feature"},
	FeatureX86MOVBE:         {"movbe", "MOVBE instruction"},
	FeatureX86XSAVE:         {"xsave", "XSAVE/XRSTOR/XSETBV/XGETBV instructions"},
	FeatureX86OSXSAVE:       {"osxsave", "XSAVE enabled by OS"},
	FeatureX86PCLMULQDQ:     {"pclmulqdq", "PCLMULQDQ instruction"},
	FeatureX86FMA:           {"fma", "Fused Multiply Add"},
	FeatureX86AES:           {"aes", "Advanced Encryption Standard instructions"},
	FeatureX86AVX:           {"avx", "Advanced Vector Extensions"},
	FeatureX86F16C:          {"f16c", "16-bit FP conversion instructions"},
	FeatureX86Hypervisor:    {"hypervisor", "Running under a hypervisor"},
	FeatureX86CMPLegacy:     {"cmp_legacy", "Core multi-processing legacy mode"},
	FeatureX86ExtAPIC:       {"extapic", "Extended APIC space"},
	FeatureX86CR8Legacy:     {"cr8_legacy", "CR8 in 32-bit mode"},
	FeatureX86OSVW:          {"osvw", "OS Visible Workaround"},
	FeatureX86IBS:           {"ibs", "Instruction Based Sampling"},
	FeatureX86SKINIT:        {"skinit", "SKINIT/STGI instructions"},
	FeatureX86WDT:           {"wdt", "Watchdog timer"},
	FeatureX86LWP:           {"lwp", "Light Weight Profiling"},
	FeatureX86FMA4:          {"fma4", "4 operands MAC instructions"},
	FeatureX86NodeIDMSR:     {"nodeid_msr", "NodeId MSR"},
	FeatureX86TBM:           {"tbm", "Trailing Bit Manipulation"},
	FeatureX86TopoExt:       {"topoext", "Topology extensions CPUID leafs"},
	FeatureX86FFXSR:         {"ffxsr", "FXSAVE/FXRSTOR optimizations"},
	FeatureX86Page1GB:       {"pdpe1gb", "1 GB pages"},
	FeatureX86RDTSCP:        {"rdtscp", "RDTSCP instruction"},
	FeatureX86RDRAND:        {"rdrand", "RDRAND instruction"},
	FeatureX86BMI1:          {"bmi1", "Bit Manipulation Instruction Set 1"},
	FeatureX86AVX2:          {"avx2", "Advanced Vector Extensions 2"},
	FeatureX86BMI2:          {"bmi2", "Bit Manipulation Instruction Set 2"},
	FeatureX86ERMS:          {"erms", "Enhanced REP MOVSB/STOSB"},
	FeatureX86AVX512F:       {"avx512f", "AVX-512 Foundation"},
	FeatureX86AVX512DQ:      {"avx512dq", "AVX-512 Doubleword and Quadword"},
	FeatureX86RDSEED:        {"rdseed", "RDSEED instruction"},
	FeatureX86ADX:           {"adx", "Multi-Precision Add-Carry"},
	FeatureX86SHA:           {"sha_ni", "SHA extensions"},
	FeatureX86AVX512BW:      {"avx512bw", "AVX-512 Byte and Word"},
	FeatureX86AVX512VL:      {"avx512vl", "AVX-512 Vector Length"},
	FeatureX86GFNI:          {"gfni", "Galois Field instructions"},
	FeatureX86VAES:          {"vaes", "Vector AES instructions"},
	FeatureX86VPCLMULQDQ:    {"vpclmulqdq", "Vector carry-less multiplication"},

	FeatureIA64LB: {"lb", "Long branch brl instruction"},
	FeatureIA64SD: {"sd", "Spontaneous deferral"},
	FeatureIA64AO: {"ao", "16-byte atomic operations"},

	FeaturePPCVMX:     {"vmx", "Vector instruction set (AltiVec, VMX)"},
	FeaturePPCFSQRT:   {"fsqrt", "Floating-point square root (general purpose optional)"},
	FeaturePPCFSEL:    {"fsel", "Floating-point select (graphics optional)"},
	FeaturePPCMFCRF:   {"mfcrf", "Move from one condition register field"},
	FeaturePPCPOPCNTB: {"popcntb", "Population count bytes"},
	FeaturePPCFRIZ:    {"friz", "Floating-point round to integer"},
	FeaturePPCMFPGPR:  {"mfpgpr", "Move between FPRs and GPRs"},

	FeatureARMSWP:      {"swp", "SWP instruction (atomic read-modify-write)"},
	FeatureARMHalf:     {"half", "Half-word loads and stores"},
	FeatureARMThumb:    {"thumb", "Thumb (16-bit instruction set)"},
	FeatureARM26Bit:    {"26bit", "26-Bit Model (Processor status register folded into program counter)"},
	FeatureARMFastMult: {"fastmult", "32x32->64-bit multiplication"},
	FeatureARMFPA:      {"fpa", "Floating point accelerator"},
	FeatureARMVFP:      {"vfp", "Vector Floating Point"},
	FeatureARMEDSP:     {"edsp", "DSP extensions (the 'e' variant of the ARM9 CPUs, and all others above)"},
	FeatureARMJava:     {"java", "Jazelle (Java bytecode accelerator)"},
	FeatureARMIWMMXT:   {"iwmmxt", "SIMD instructions similar to Intel MMX"},
	FeatureARMCrunch:   {"crunch", "MaverickCrunch coprocessor"},
	FeatureARMThumbEE:  {"thumbee", "ThumbEE"},
	FeatureARMNEON:     {"neon", "Advanced SIMD/NEON"},
	FeatureARMVFPv3:    {"vfpv3", "VFP version 3"},
	FeatureARMVFPv3D16: {"vfpv3d16", "VFP version 3 with 16 D-registers"},
	FeatureARMTLS:      {"tls", "TLS register"},
	FeatureARMVFPv4:    {"vfpv4", "VFP version 4 with fast context switching"},
	FeatureARMIDIVA:    {"idiva", "SDIV and UDIV hardware division in ARM mode"},
	FeatureARMIDIVT:    {"idivt", "SDIV and UDIV hardware division in Thumb mode"},
	FeatureARMVFPD32:   {"vfpd32", "VFP with 32 D-registers"},
	FeatureARMLPAE:     {"lpae", "Large Physical Address Extension (>4GB physical memory on 32-bit architecture)"},
	FeatureARMEvtStrm:  {"evtstrm", "Kernel event stream using generic architected timer"},
	FeatureARMIDIV:     {"idiv", "SDIV and UDIV hardware division in both ARM and Thumb mode"},

	FeatureAArch64FP:          {"fp", "Floating point"},
	FeatureAArch64ASIMD:       {"asimd", "Advanced SIMD"},
	FeatureAArch64EvtStrm:     {"evtstrm", "Kernel event stream using generic architected timer"},
	FeatureAArch64CryptoAES:   {"aes", "AES instructions"},
	FeatureAArch64CryptoPMULL: {"pmull", "Polynomial multiply long instructions"},
	FeatureAArch64CryptoSHA1:  {"sha1", "SHA-1 instructions"},
	FeatureAArch64CryptoSHA2:  {"sha2", "SHA-2 instructions"},
	FeatureAArch64CryptoCRC32: {"crc32", "CRC-32 instructions"},
	FeatureAArch64Atomics:     {"atomics", "Large System Extensions atomic instructions"},
	FeatureAArch64FPHP:        {"fphp", "Half-precision floating point"},
	FeatureAArch64ASIMDHP:     {"asimdhp", "Advanced SIMD half-precision"},
	FeatureAArch64CPUID:       {"cpuid", "EL0 access to ID registers"},
	FeatureAArch64ASIMDRDM:    {"asimdrdm", "Advanced SIMD rounding double multiply accumulate"},
	FeatureAArch64JSCVT:       {"jscvt", "JavaScript conversion instruction"},
	FeatureAArch64FCMA:        {"fcma", "Floating point complex number addition and multiplication"},
	FeatureAArch64LRCPC:       {"lrcpc", "Weaker release consistency instructions"},

	FeatureARMCrypto:      {"armcrypto", "Any ARM cryptographic extension"},
	FeatureARMCryptoAES:   {"aes", "AES instructions"},
	FeatureARMCryptoPMULL: {"pmull", "Polynomial multiply long instructions"},
	FeatureARMCryptoSHA1:  {"sha1", "SHA-1 instructions"},
	FeatureARMCryptoSHA2:  {"sha2", "SHA-2 instructions"},
	FeatureARMCryptoCRC32: {"crc32", "CRC-32 instructions"},
}
