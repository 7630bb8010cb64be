//go:build 386 || amd64

package cpuinfo

// cpuidex executes CPUID with EAX=op and ECX=op2.
func cpuidex(op, op2 uint32) (eax, ebx, ecx, edx uint32)

const hasCPUID = true
