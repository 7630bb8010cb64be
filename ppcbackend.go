package cpuinfo

import "golang.org/x/sys/cpu"

// PPC_FEATURE_* bits of AT_HWCAP, from <asm/cputable.h>.
const (
	ppcFeature64       = 0x40000000
	ppcFeatureAltivec  = 0x10000000
	ppcFeatureFPU      = 0x08000000
	ppcFeaturePower4   = 0x00080000
	ppcFeaturePower5   = 0x00040000
	ppcFeaturePower5P  = 0x00020000
	ppcFeatureCell     = 0x00010000
	ppcFeatureArch205  = 0x00001000
	ppcFeaturePA6T     = 0x00000800
	ppcFeaturePower6X  = 0x00000200
	ppcFeatureGPOPTAny = ppcFeaturePower4 | ppcFeaturePower5 | ppcFeaturePower5P |
		ppcFeatureCell | ppcFeaturePA6T | ppcFeatureArch205
)

// PPC returns the backend for PowerPC processors of the host byte order.
// A nil src reads HWCAP.
func PPC(src RawSource) *Backend {
	goarch := "ppc64le"
	if cpu.IsBigEndian {
		goarch = "ppc64"
	}
	return ppcBackend(goarch, src)
}

func ppcBackend(goarch string, src RawSource) *Backend {
	return &Backend{
		name:    "ppc",
		classes: []classSpec{ppcSpec},
		source:  src,
		osSource: func(root string) RawSource {
			return hwcapSource(root, goarch, nil)
		},
		host:          probeLinuxHost,
		bigEndian:     goarch == "ppc64",
		fallbackModel: "PowerPC",
	}
}

// PowerPC exposes no one-to-one feature bits; every row is derived from
// the processor generation flags.
var ppcSpec = classSpec{
	class: ClassPPC,
	rules: []rule{
		ruleAny(FeaturePPCVMX, srcHWCAP, ppcFeatureAltivec),
		ruleAny(FeaturePPCFSQRT, srcHWCAP, ppcFeatureGPOPTAny),
		ruleAny(FeaturePPCFSEL, srcHWCAP, ppcFeatureFPU),
		ruleAny(FeaturePPCMFCRF, srcHWCAP, ppcFeatureGPOPTAny),
		ruleAny(FeaturePPCPOPCNTB, srcHWCAP, ppcFeaturePower5|ppcFeaturePower5P|ppcFeatureArch205),
		ruleAny(FeaturePPCFRIZ, srcHWCAP, ppcFeaturePower5P|ppcFeatureArch205),
		ruleAny(FeaturePPCMFPGPR, srcHWCAP, ppcFeaturePower6X),
		ruleAny(Feature64Bit, srcHWCAP, ppcFeature64),
	},
	simd:     []Feature{FeaturePPCVMX},
	popcount: []Feature{FeaturePPCPOPCNTB},
}
