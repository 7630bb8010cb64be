//go:build !386 && !amd64

package cpuinfo

func cpuidex(op, op2 uint32) (eax, ebx, ecx, edx uint32) {
	return 0, 0, 0, 0
}

const hasCPUID = false
