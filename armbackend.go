package cpuinfo

import (
	"fmt"
	"runtime"
)

// ARM returns the backend for 32-bit ARM processors. A nil src reads the
// HWCAP and HWCAP2 aux vector words.
func ARM(src RawSource) *Backend {
	return &Backend{
		name:    "arm",
		classes: []classSpec{armSpec, armCryptoSpec},
		source:  src,
		osSource: func(root string) RawSource {
			return hwcapSource(root, "arm", armHWCAPFromCPU)
		},
		host:          probeLinuxHost,
		fallbackModel: "ARM",
	}
}

// AArch64 returns the backend for 64-bit ARM processors. The cryptographic
// extension is reported in HWCAP itself.
func AArch64(src RawSource) *Backend {
	return &Backend{
		name:    "aarch64",
		classes: []classSpec{aarch64Spec, aarch64CryptoSpec},
		source:  src,
		osSource: func(root string) RawSource {
			return hwcapSource(root, "arm64", func() (uint64, uint64) {
				return aarch64HWCAPFromCPU(), 0
			})
		},
		host:          probeLinuxHost,
		fallbackModel: "ARM",
	}
}

// hwcapSource reads the aux vector under root. On the running host of the
// matching GOARCH, golang.org/x/sys/cpu rebuilds the words when the vector
// is unreadable. A live read on a different architecture is refused: the
// words would belong to another encoding.
func hwcapSource(root, goarch string, fallback func() (uint64, uint64)) RawSource {
	return func() (RawCaps, error) {
		live := isDefaultRoot(root)
		native := runtime.GOARCH == goarch
		if live && !native {
			return RawCaps{}, fmt.Errorf("%s capabilities on %s host: %w", goarch, runtime.GOARCH, errNoAuxv)
		}
		hwcap, hwcap2, err := readHWCAP(root, goarch)
		if err != nil {
			if !live || fallback == nil {
				return RawCaps{}, err
			}
			hwcap, hwcap2 = fallback()
		}
		return RawCaps{HWCAP: hwcap, HWCAP2: hwcap2}, nil
	}
}

var armSpec = classSpec{
	class: ClassARM,
	bits:  ramp(FeatureARMSWP, FeatureARMEvtStrm, srcHWCAP, 0),
	rules: []rule{
		// HWCAP_IDIVA | HWCAP_IDIVT
		ruleAll(FeatureARMIDIV, srcHWCAP, 1<<17|1<<18),
	},
	simd: []Feature{FeatureARMIWMMXT, FeatureARMNEON},
}

var armCryptoFeatures = []Feature{
	FeatureARMCryptoAES, FeatureARMCryptoPMULL, FeatureARMCryptoSHA1,
	FeatureARMCryptoSHA2, FeatureARMCryptoCRC32,
}

var armCryptoSpec = classSpec{
	class:  ClassARMCrypto,
	bits:   ramp(FeatureARMCryptoAES, FeatureARMCryptoCRC32, srcHWCAP2, 0),
	crypto: armCryptoFeatures,
}

var aarch64Spec = classSpec{
	class: ClassAArch64,
	bits:  ramp(FeatureAArch64FP, FeatureAArch64LRCPC, srcHWCAP, 0),
	rules: []rule{
		ruleAlways(Feature64Bit),
	},
	simd: []Feature{FeatureAArch64ASIMD},
}

// HWCAP_AES through HWCAP_CRC32 are bits 3 to 7.
var aarch64CryptoSpec = classSpec{
	class:  ClassARMCrypto,
	bits:   ramp(FeatureARMCryptoAES, FeatureARMCryptoCRC32, srcHWCAP, 3),
	crypto: armCryptoFeatures,
}
