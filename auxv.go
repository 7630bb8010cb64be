package cpuinfo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ELF auxiliary vector keys, from <linux/auxvec.h>.
const (
	atNull   = 0
	atHWCAP  = 16
	atHWCAP2 = 26
)

var errNoAuxv = errors.New("auxiliary vector not available")

// readHWCAP returns the HWCAP and HWCAP2 words of a goarch process. With the
// default root the running process's vector is used; otherwise
// <root>/proc/self/auxv is parsed with the word size and byte order of
// goarch, which allows analysing a vector captured on another machine.
func readHWCAP(root, goarch string) (hwcap, hwcap2 uint64, err error) {
	wordSize, order, err := auxvLayout(goarch)
	if err != nil {
		return 0, 0, err
	}
	if root == "" || root == "/" {
		if hwcap, hwcap2, err = processHWCAP(); err == nil {
			return hwcap, hwcap2, nil
		}
	}
	data, ferr := os.ReadFile(filepath.Join(rootOrDefault(root), "proc", "self", "auxv"))
	if ferr != nil {
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %w", err, ferr)
		}
		return 0, 0, ferr
	}
	return parseAuxv(data, wordSize, order)
}

// auxvLayout returns the word size and byte order of the auxiliary vector
// of a Linux goarch process.
func auxvLayout(goarch string) (int, binary.ByteOrder, error) {
	switch goarch {
	case "arm":
		return 4, binary.LittleEndian, nil
	case "arm64", "ppc64le":
		return 8, binary.LittleEndian, nil
	case "ppc64":
		return 8, binary.BigEndian, nil
	}
	return 0, nil, fmt.Errorf("auxv: no known layout for GOARCH %q", goarch)
}

// parseAuxv decodes a raw auxiliary vector made of (key, value) word pairs
// terminated by AT_NULL.
func parseAuxv(data []byte, wordSize int, order binary.ByteOrder) (hwcap, hwcap2 uint64, err error) {
	if wordSize != 4 && wordSize != 8 {
		return 0, 0, fmt.Errorf("auxv: unsupported word size %d", wordSize)
	}
	pair := 2 * wordSize
	if len(data)%pair != 0 {
		return 0, 0, fmt.Errorf("auxv: truncated vector (%d bytes)", len(data))
	}
	word := func(b []byte) uint64 {
		if wordSize == 4 {
			return uint64(order.Uint32(b))
		}
		return order.Uint64(b)
	}
	for off := 0; off < len(data); off += pair {
		key := word(data[off:])
		val := word(data[off+wordSize:])
		switch key {
		case atNull:
			return hwcap, hwcap2, nil
		case atHWCAP:
			hwcap = val
		case atHWCAP2:
			hwcap2 = val
		}
	}
	return hwcap, hwcap2, nil
}
