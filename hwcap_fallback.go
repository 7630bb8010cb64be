package cpuinfo

import "golang.org/x/sys/cpu"

// armHWCAPFromCPU rebuilds 32-bit ARM HWCAP/HWCAP2 words from the feature
// flags golang.org/x/sys/cpu exposes, for platforms where the auxiliary
// vector cannot be read directly.
func armHWCAPFromCPU() (hwcap, hwcap2 uint64) {
	flags := []bool{
		cpu.ARM.HasSWP, cpu.ARM.HasHALF, cpu.ARM.HasTHUMB, cpu.ARM.Has26BIT,
		cpu.ARM.HasFASTMUL, cpu.ARM.HasFPA, cpu.ARM.HasVFP, cpu.ARM.HasEDSP,
		cpu.ARM.HasJAVA, cpu.ARM.HasIWMMXT, cpu.ARM.HasCRUNCH, cpu.ARM.HasTHUMBEE,
		cpu.ARM.HasNEON, cpu.ARM.HasVFPv3, cpu.ARM.HasVFPv3D16, cpu.ARM.HasTLS,
		cpu.ARM.HasVFPv4, cpu.ARM.HasIDIVA, cpu.ARM.HasIDIVT, cpu.ARM.HasVFPD32,
		cpu.ARM.HasLPAE, cpu.ARM.HasEVTSTRM,
	}
	crypto := []bool{
		cpu.ARM.HasAES, cpu.ARM.HasPMULL, cpu.ARM.HasSHA1, cpu.ARM.HasSHA2, cpu.ARM.HasCRC32,
	}
	return packBits(flags), packBits(crypto)
}

// aarch64HWCAPFromCPU rebuilds the AArch64 HWCAP word from golang.org/x/sys/cpu.
func aarch64HWCAPFromCPU() uint64 {
	return packBits([]bool{
		cpu.ARM64.HasFP, cpu.ARM64.HasASIMD, cpu.ARM64.HasEVTSTRM, cpu.ARM64.HasAES,
		cpu.ARM64.HasPMULL, cpu.ARM64.HasSHA1, cpu.ARM64.HasSHA2, cpu.ARM64.HasCRC32,
		cpu.ARM64.HasATOMICS, cpu.ARM64.HasFPHP, cpu.ARM64.HasASIMDHP, cpu.ARM64.HasCPUID,
		cpu.ARM64.HasASIMDRDM, cpu.ARM64.HasJSCVT, cpu.ARM64.HasFCMA, cpu.ARM64.HasLRCPC,
	})
}

func packBits(flags []bool) uint64 {
	var w uint64
	for i, ok := range flags {
		if ok {
			w |= 1 << i
		}
	}
	return w
}
