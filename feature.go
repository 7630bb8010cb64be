package cpuinfo

import "fmt"

// Class is the high-order byte of a [Feature]. Each architecture family owns
// one class; sub-extensions such as the ARM cryptographic instructions own
// their own class chained after the family they extend.
type Class uint8

const (
	ClassCommon    Class = 0x00
	ClassX86       Class = 'X'
	ClassIA64      Class = 'I'
	ClassPPC       Class = 'P'
	ClassMIPS      Class = 'M'
	ClassARM       Class = 'a'
	ClassAArch64   Class = 'b'
	ClassARMCrypto Class = 'c'
)

// Feature identifies a processor capability.
//
// The high byte is the [Class] tag and the low byte the offset of the
// feature within its class. Use [Feature.Class] for O(1) class membership.
type Feature int

const (
	// FeatureArchMask selects the class tag of a feature.
	FeatureArchMask Feature = 0xff00
	// FeatureMask selects the offset of a feature within its class.
	FeatureMask Feature = 0x00ff
)

// Common features are derived from architecture-specific bits and exist on
// every architecture.
const (
	// FeatureCommon is the resolved marker of the common class.
	FeatureCommon Feature = iota
	// Feature64Bit reports a 64-bit capable processor.
	Feature64Bit
	// FeatureSIMD reports any SIMD instruction set.
	FeatureSIMD
	// FeaturePopcount reports integer population count support.
	FeaturePopcount
	// FeatureCrypto reports any cryptographic instruction.
	FeatureCrypto
	FeatureLittleEndian
	FeatureBigEndian
	FeatureMiddleEndian
	featureCommonMax
)

// x86 features, detected from CPUID.
const (
	// FeatureX86 is the resolved marker of the x86 class.
	FeatureX86 Feature = Feature(ClassX86)<<8 + iota
	FeatureX86AC
	FeatureX86CPUID
	FeatureX86FPU
	FeatureX86VME
	FeatureX86DE
	FeatureX86PSE
	FeatureX86TSC
	FeatureX86MSR
	FeatureX86PAE
	FeatureX86MCE
	FeatureX86CX8
	FeatureX86APIC
	FeatureX86SEP
	FeatureX86MTRR
	FeatureX86PGE
	FeatureX86MCA
	FeatureX86CMOV
	FeatureX86PAT
	FeatureX86PSE36
	FeatureX86PSN
	FeatureX86CLFLUSH
	FeatureX86DS
	FeatureX86ACPI
	FeatureX86FXSR
	FeatureX86SS
	FeatureX86HTT
	FeatureX86IA64
	FeatureX86PBE
	FeatureX86MMX
	FeatureX86MMXExt
	FeatureX863DNow
	FeatureX863DNowExt
	FeatureX863DNowPrefetch
	FeatureX86SSE
	FeatureX86SSE2
	FeatureX86SSE3
	FeatureX86SSSE3
	FeatureX86SSE41
	FeatureX86SSE42
	FeatureX86SSE4A
	FeatureX86SSE5
	FeatureX86MisalignSSE
	FeatureX86VMX
	FeatureX86SVM
	FeatureX86LM
	FeatureX86LAHF64
	FeatureX86POPCNT
	FeatureX86TSCDeadline
	FeatureX86ABM
	// FeatureX86BSFCC is a processor quirk with no CPUID bit. It is never
	// reported.
	FeatureX86BSFCC
	FeatureX86TM
	FeatureX86TM2
	FeatureX86EIST
	FeatureX86NX
	FeatureX86DTES64
	FeatureX86MONITOR
	FeatureX86DSCPL
	FeatureX86SMX
	FeatureX86CNXTID
	FeatureX86CX16
	FeatureX86XTPR
	FeatureX86PDCM
	FeatureX86PCID
	FeatureX86DCA
	FeatureX86X2APIC
	FeatureX86MOVBE
	FeatureX86XSAVE
	FeatureX86OSXSAVE
	FeatureX86PCLMULQDQ
	FeatureX86FMA
	FeatureX86AES
	FeatureX86AVX
	FeatureX86F16C
	FeatureX86Hypervisor
	FeatureX86CMPLegacy
	FeatureX86ExtAPIC
	FeatureX86CR8Legacy
	FeatureX86OSVW
	FeatureX86IBS
	FeatureX86SKINIT
	FeatureX86WDT
	FeatureX86LWP
	FeatureX86FMA4
	FeatureX86NodeIDMSR
	FeatureX86TBM
	FeatureX86TopoExt
	FeatureX86FFXSR
	FeatureX86Page1GB
	FeatureX86RDTSCP
	FeatureX86RDRAND
	FeatureX86BMI1
	FeatureX86AVX2
	FeatureX86BMI2
	FeatureX86ERMS
	FeatureX86AVX512F
	FeatureX86AVX512DQ
	FeatureX86RDSEED
	FeatureX86ADX
	FeatureX86SHA
	FeatureX86AVX512BW
	FeatureX86AVX512VL
	FeatureX86GFNI
	FeatureX86VAES
	FeatureX86VPCLMULQDQ
	featureX86Max
)

// IA-64 features.
const (
	FeatureIA64 Feature = Feature(ClassIA64)<<8 + iota
	FeatureIA64LB
	FeatureIA64SD
	FeatureIA64AO
	featureIA64Max
)

// PowerPC features, detected from the PPC_FEATURE_* aux vector bits.
const (
	FeaturePPC Feature = Feature(ClassPPC)<<8 + iota
	FeaturePPCVMX
	FeaturePPCFSQRT
	FeaturePPCFSEL
	FeaturePPCMFCRF
	FeaturePPCPOPCNTB
	FeaturePPCFRIZ
	FeaturePPCMFPGPR
	featurePPCMax

	FeaturePPCGPOPT  = FeaturePPCFSQRT
	FeaturePPCGFXOPT = FeaturePPCFSEL
	FeaturePPCFPRND  = FeaturePPCFRIZ
)

// MIPS defines no features yet.
const (
	FeatureMIPS Feature = Feature(ClassMIPS)<<8 + iota
	featureMIPSMax
)

// 32-bit ARM features. Offsets follow the HWCAP_* bit order.
const (
	FeatureARM Feature = Feature(ClassARM)<<8 + iota
	FeatureARMSWP
	FeatureARMHalf
	FeatureARMThumb
	FeatureARM26Bit
	FeatureARMFastMult
	FeatureARMFPA
	FeatureARMVFP
	FeatureARMEDSP
	FeatureARMJava
	FeatureARMIWMMXT
	FeatureARMCrunch
	FeatureARMThumbEE
	FeatureARMNEON
	FeatureARMVFPv3
	FeatureARMVFPv3D16
	FeatureARMTLS
	FeatureARMVFPv4
	FeatureARMIDIVA
	FeatureARMIDIVT
	FeatureARMVFPD32
	FeatureARMLPAE
	FeatureARMEvtStrm
	FeatureARMIDIV
	featureARMMax
)

// AArch64 features. The class continues the ARM numbering ramp.
const (
	FeatureAArch64      Feature = Feature(ClassAArch64) << 8
	FeatureAArch64Begin Feature = FeatureAArch64 | (featureARMMax & FeatureMask)
)

const (
	FeatureAArch64FP Feature = FeatureAArch64Begin + 1 + iota
	FeatureAArch64ASIMD
	FeatureAArch64EvtStrm
	// FeatureAArch64CryptoAES through FeatureAArch64CryptoCRC32 mirror
	// HWCAP bits 3 to 7. Each one is always set together with its
	// arm-crypto counterpart.
	FeatureAArch64CryptoAES
	FeatureAArch64CryptoPMULL
	FeatureAArch64CryptoSHA1
	FeatureAArch64CryptoSHA2
	FeatureAArch64CryptoCRC32
	FeatureAArch64Atomics
	FeatureAArch64FPHP
	FeatureAArch64ASIMDHP
	FeatureAArch64CPUID
	FeatureAArch64ASIMDRDM
	FeatureAArch64JSCVT
	FeatureAArch64FCMA
	FeatureAArch64LRCPC
	featureAArch64Max
)

// ARM cryptographic extension, shared by ARM and AArch64 and chained after
// AArch64.
const (
	// FeatureARMCrypto is set when any ARM cryptographic primitive is present.
	FeatureARMCrypto      Feature = Feature(ClassARMCrypto) << 8
	FeatureARMCryptoBegin Feature = FeatureARMCrypto | (featureAArch64Max & FeatureMask)
)

const (
	FeatureARMCryptoAES Feature = FeatureARMCryptoBegin + 1 + iota
	FeatureARMCryptoPMULL
	FeatureARMCryptoSHA1
	FeatureARMCryptoSHA2
	FeatureARMCryptoCRC32
	featureARMCryptoMax
)

// Class returns the class tag of f.
func (f Feature) Class() Class {
	return Class((f & FeatureArchMask) >> 8)
}

// Offset returns the position of f within its class.
func (f Feature) Offset() int {
	return int(f & FeatureMask)
}

// Valid reports whether f names a feature of a known class: an id in the
// class's (Begin, Max) range or the class aggregate. Resolved markers are
// not features.
func (f Feature) Valid() bool {
	ci, ok := LookupClass(f.Class())
	if !ok {
		return false
	}
	return ci.Contains(f)
}

// QualifiedName returns "<class>:<name>", unique across all classes.
func (f Feature) QualifiedName() string {
	ci, ok := LookupClass(f.Class())
	if !ok {
		return f.String()
	}
	return ci.Name + ":" + f.String()
}

func (f Feature) String() string {
	if d, ok := featureCatalog[f]; ok {
		return d.Name
	}
	return fmt.Sprintf("Feature(%#04x)", int(f))
}

// MarshalText renders f by its qualified name.
func (f Feature) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, f)
	}
	return []byte(f.QualifiedName()), nil
}

// UnmarshalText parses a name accepted by [ParseFeature].
func (f *Feature) UnmarshalText(text []byte) error {
	parsed, err := ParseFeature(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (c Class) String() string {
	if ci, ok := LookupClass(c); ok {
		return ci.Name
	}
	return fmt.Sprintf("Class(%#02x)", uint8(c))
}
