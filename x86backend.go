package cpuinfo

import "errors"

var errNoCPUID = errors.New("cpuid instruction not available")

// X86 returns the backend for 386 and amd64 processors. A nil src reads
// CPUID on the running processor.
func X86(src RawSource) *Backend {
	return &Backend{
		name:     "x86",
		classes:  []classSpec{x86Spec},
		source:   src,
		osSource: func(string) RawSource { return readCPUID },
		host:     probeX86Host,
	}
}

// readCPUID reads the identification leaves the x86 class maps. Leaves
// beyond the reported maximum are left zero.
func readCPUID() (RawCaps, error) {
	if !hasCPUID {
		return RawCaps{}, errNoCPUID
	}
	r := RawCaps{CPUID: true}
	r.MaxLeaf, _, _, _ = cpuidex(0, 0)
	if r.MaxLeaf >= 1 {
		_, _, r.Leaf1ECX, r.Leaf1EDX = cpuidex(1, 0)
	}
	if r.MaxLeaf >= 7 {
		_, r.Leaf7EBX, r.Leaf7ECX, _ = cpuidex(7, 0)
	}
	if maxExt, _, _, _ := cpuidex(0x80000000, 0); maxExt >= 0x80000001 {
		_, _, r.ExtECX, r.ExtEDX = cpuidex(0x80000001, 0)
	}
	return r, nil
}

var x86Spec = classSpec{
	class: ClassX86,
	bits: []bitMap{
		{FeatureX86FPU, srcLeaf1EDX, 0},
		{FeatureX86VME, srcLeaf1EDX, 1},
		{FeatureX86DE, srcLeaf1EDX, 2},
		{FeatureX86PSE, srcLeaf1EDX, 3},
		{FeatureX86TSC, srcLeaf1EDX, 4},
		{FeatureX86MSR, srcLeaf1EDX, 5},
		{FeatureX86PAE, srcLeaf1EDX, 6},
		{FeatureX86MCE, srcLeaf1EDX, 7},
		{FeatureX86CX8, srcLeaf1EDX, 8},
		{FeatureX86APIC, srcLeaf1EDX, 9},
		{FeatureX86SEP, srcLeaf1EDX, 11},
		{FeatureX86MTRR, srcLeaf1EDX, 12},
		{FeatureX86PGE, srcLeaf1EDX, 13},
		{FeatureX86MCA, srcLeaf1EDX, 14},
		{FeatureX86CMOV, srcLeaf1EDX, 15},
		{FeatureX86PAT, srcLeaf1EDX, 16},
		{FeatureX86PSE36, srcLeaf1EDX, 17},
		{FeatureX86PSN, srcLeaf1EDX, 18},
		{FeatureX86CLFLUSH, srcLeaf1EDX, 19},
		{FeatureX86DS, srcLeaf1EDX, 21},
		{FeatureX86ACPI, srcLeaf1EDX, 22},
		{FeatureX86MMX, srcLeaf1EDX, 23},
		{FeatureX86FXSR, srcLeaf1EDX, 24},
		{FeatureX86SSE, srcLeaf1EDX, 25},
		{FeatureX86SSE2, srcLeaf1EDX, 26},
		{FeatureX86SS, srcLeaf1EDX, 27},
		{FeatureX86HTT, srcLeaf1EDX, 28},
		{FeatureX86TM, srcLeaf1EDX, 29},
		{FeatureX86IA64, srcLeaf1EDX, 30},
		{FeatureX86PBE, srcLeaf1EDX, 31},

		{FeatureX86SSE3, srcLeaf1ECX, 0},
		{FeatureX86PCLMULQDQ, srcLeaf1ECX, 1},
		{FeatureX86DTES64, srcLeaf1ECX, 2},
		{FeatureX86MONITOR, srcLeaf1ECX, 3},
		{FeatureX86DSCPL, srcLeaf1ECX, 4},
		{FeatureX86VMX, srcLeaf1ECX, 5},
		{FeatureX86SMX, srcLeaf1ECX, 6},
		{FeatureX86EIST, srcLeaf1ECX, 7},
		{FeatureX86TM2, srcLeaf1ECX, 8},
		{FeatureX86SSSE3, srcLeaf1ECX, 9},
		{FeatureX86CNXTID, srcLeaf1ECX, 10},
		{FeatureX86FMA, srcLeaf1ECX, 12},
		{FeatureX86CX16, srcLeaf1ECX, 13},
		{FeatureX86XTPR, srcLeaf1ECX, 14},
		{FeatureX86PDCM, srcLeaf1ECX, 15},
		{FeatureX86PCID, srcLeaf1ECX, 17},
		{FeatureX86DCA, srcLeaf1ECX, 18},
		{FeatureX86SSE41, srcLeaf1ECX, 19},
		{FeatureX86SSE42, srcLeaf1ECX, 20},
		{FeatureX86X2APIC, srcLeaf1ECX, 21},
		{FeatureX86MOVBE, srcLeaf1ECX, 22},
		{FeatureX86POPCNT, srcLeaf1ECX, 23},
		{FeatureX86TSCDeadline, srcLeaf1ECX, 24},
		{FeatureX86AES, srcLeaf1ECX, 25},
		{FeatureX86XSAVE, srcLeaf1ECX, 26},
		{FeatureX86OSXSAVE, srcLeaf1ECX, 27},
		{FeatureX86AVX, srcLeaf1ECX, 28},
		{FeatureX86F16C, srcLeaf1ECX, 29},
		{FeatureX86RDRAND, srcLeaf1ECX, 30},
		{FeatureX86Hypervisor, srcLeaf1ECX, 31},

		{FeatureX86NX, srcExtEDX, 20},
		{FeatureX86MMXExt, srcExtEDX, 22},
		{FeatureX86FFXSR, srcExtEDX, 25},
		{FeatureX86Page1GB, srcExtEDX, 26},
		{FeatureX86RDTSCP, srcExtEDX, 27},
		{FeatureX86LM, srcExtEDX, 29},
		{FeatureX863DNowExt, srcExtEDX, 30},
		{FeatureX863DNow, srcExtEDX, 31},

		{FeatureX86LAHF64, srcExtECX, 0},
		{FeatureX86CMPLegacy, srcExtECX, 1},
		{FeatureX86SVM, srcExtECX, 2},
		{FeatureX86ExtAPIC, srcExtECX, 3},
		{FeatureX86CR8Legacy, srcExtECX, 4},
		{FeatureX86ABM, srcExtECX, 5},
		{FeatureX86SSE4A, srcExtECX, 6},
		{FeatureX86MisalignSSE, srcExtECX, 7},
		{FeatureX863DNowPrefetch, srcExtECX, 8},
		{FeatureX86OSVW, srcExtECX, 9},
		{FeatureX86IBS, srcExtECX, 10},
		{FeatureX86SSE5, srcExtECX, 11},
		{FeatureX86SKINIT, srcExtECX, 12},
		{FeatureX86WDT, srcExtECX, 13},
		{FeatureX86LWP, srcExtECX, 15},
		{FeatureX86FMA4, srcExtECX, 16},
		{FeatureX86NodeIDMSR, srcExtECX, 19},
		{FeatureX86TBM, srcExtECX, 21},
		{FeatureX86TopoExt, srcExtECX, 22},

		{FeatureX86BMI1, srcLeaf7EBX, 3},
		{FeatureX86AVX2, srcLeaf7EBX, 5},
		{FeatureX86BMI2, srcLeaf7EBX, 8},
		{FeatureX86ERMS, srcLeaf7EBX, 9},
		{FeatureX86AVX512F, srcLeaf7EBX, 16},
		{FeatureX86AVX512DQ, srcLeaf7EBX, 17},
		{FeatureX86RDSEED, srcLeaf7EBX, 18},
		{FeatureX86ADX, srcLeaf7EBX, 19},
		{FeatureX86SHA, srcLeaf7EBX, 29},
		{FeatureX86AVX512BW, srcLeaf7EBX, 30},
		{FeatureX86AVX512VL, srcLeaf7EBX, 31},

		{FeatureX86GFNI, srcLeaf7ECX, 8},
		{FeatureX86VAES, srcLeaf7ECX, 9},
		{FeatureX86VPCLMULQDQ, srcLeaf7ECX, 10},
	},
	rules: []rule{
		// A processor that executes CPUID also has a writable EFLAGS.AC
		// (486 and later). The reported maximum leaf may be 0.
		ruleAll(FeatureX86CPUID, srcCPUID, 1),
		ruleAll(FeatureX86AC, srcCPUID, 1),
	},
	simd: []Feature{
		FeatureX86MMX, FeatureX86SSE, FeatureX86SSE2, FeatureX86SSE3, FeatureX86SSSE3,
		FeatureX86SSE41, FeatureX86SSE42, FeatureX86AVX, FeatureX86AVX2, FeatureX86AVX512F,
	},
	popcount: []Feature{FeatureX86POPCNT, FeatureX86ABM},
	crypto: []Feature{
		FeatureX86AES, FeatureX86PCLMULQDQ, FeatureX86SHA, FeatureX86VAES, FeatureX86VPCLMULQDQ,
	},
	longMode: []Feature{FeatureX86LM},
}
