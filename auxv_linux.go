//go:build linux

package cpuinfo

import "golang.org/x/sys/unix"

// processHWCAP reads the capability words from the running process's
// auxiliary vector.
func processHWCAP() (hwcap, hwcap2 uint64, err error) {
	vec, err := unix.Auxv()
	if err != nil {
		return 0, 0, err
	}
	if len(vec) == 0 {
		return 0, 0, errNoAuxv
	}
	for _, kv := range vec {
		switch kv[0] {
		case atHWCAP:
			hwcap = uint64(kv[1])
		case atHWCAP2:
			hwcap2 = uint64(kv[1])
		}
	}
	return hwcap, hwcap2, nil
}

// machine returns the kernel's machine name (e.g., "aarch64").
func machine() string {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uname.Machine[:])
}
