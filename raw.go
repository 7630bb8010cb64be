package cpuinfo

import "fmt"

// RawCaps is a point-in-time snapshot of the raw capability sources a
// backend reads: the ELF auxiliary vector capability words and the x86
// CPUID identification registers. Fields a platform does not expose are 0.
type RawCaps struct {
	HWCAP  uint64
	HWCAP2 uint64

	// CPUID is set when the CPUID instruction executed, whatever maximum
	// leaf it reported.
	CPUID    bool
	MaxLeaf  uint32
	Leaf1ECX uint32
	Leaf1EDX uint32
	Leaf7EBX uint32
	Leaf7ECX uint32
	ExtECX   uint32
	ExtEDX   uint32
}

// RawSource reads a [RawCaps] snapshot. Backends call it at most once per
// feature class per descriptor.
type RawSource func() (RawCaps, error)

// source names one word of a RawCaps.
type source uint8

const (
	srcHWCAP source = iota
	srcHWCAP2
	srcMaxLeaf
	srcLeaf1ECX
	srcLeaf1EDX
	srcLeaf7EBX
	srcLeaf7ECX
	srcExtECX
	srcExtEDX
	srcCPUID
)

func (r RawCaps) word(s source) uint64 {
	switch s {
	case srcHWCAP:
		return r.HWCAP
	case srcHWCAP2:
		return r.HWCAP2
	case srcMaxLeaf:
		return uint64(r.MaxLeaf)
	case srcLeaf1ECX:
		return uint64(r.Leaf1ECX)
	case srcLeaf1EDX:
		return uint64(r.Leaf1EDX)
	case srcLeaf7EBX:
		return uint64(r.Leaf7EBX)
	case srcLeaf7ECX:
		return uint64(r.Leaf7ECX)
	case srcExtECX:
		return uint64(r.ExtECX)
	case srcExtEDX:
		return uint64(r.ExtEDX)
	case srcCPUID:
		if r.CPUID {
			return 1
		}
	}
	return 0
}

func (s source) String() string {
	switch s {
	case srcHWCAP:
		return "AT_HWCAP"
	case srcHWCAP2:
		return "AT_HWCAP2"
	case srcMaxLeaf:
		return "CPUID.0:EAX"
	case srcLeaf1ECX:
		return "CPUID.1:ECX"
	case srcLeaf1EDX:
		return "CPUID.1:EDX"
	case srcLeaf7EBX:
		return "CPUID.7:EBX"
	case srcLeaf7ECX:
		return "CPUID.7:ECX"
	case srcExtECX:
		return "CPUID.80000001h:ECX"
	case srcExtEDX:
		return "CPUID.80000001h:EDX"
	case srcCPUID:
		return "CPUID"
	}
	return fmt.Sprintf("source(%d)", uint8(s))
}
