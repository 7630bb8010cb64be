//go:build !linux

package cpuinfo

import "runtime"

// processHWCAP is unavailable off Linux; backends fall back to the
// capability bits golang.org/x/sys/cpu derives for the platform.
func processHWCAP() (hwcap, hwcap2 uint64, err error) {
	return 0, 0, errNoAuxv
}

func machine() string {
	return runtime.GOARCH
}
