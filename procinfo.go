package cpuinfo

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// procCPUInfo holds the identification fields parsed from /proc/cpuinfo.
// Only the first value of each key is kept; on SMP systems every processor
// block repeats the same identification.
type procCPUInfo struct {
	raw        map[string]string
	processors int
}

// readProcCPUInfo parses <root>/proc/cpuinfo.
func readProcCPUInfo(root string) (*procCPUInfo, error) {
	f, err := os.Open(filepath.Join(rootOrDefault(root), "proc", "cpuinfo"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseProcCPUInfo(f)
}

// parseProcCPUInfo parses "key : value" lines. Blank lines separate
// processor blocks; lines without a colon are ignored.
func parseProcCPUInfo(r io.Reader) (*procCPUInfo, error) {
	pi := &procCPUInfo{raw: make(map[string]string)}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "processor" {
			pi.processors++
		}
		if _, seen := pi.raw[key]; !seen {
			pi.raw[key] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pi, nil
}

// get returns the first non-empty value among keys.
func (pi *procCPUInfo) get(keys ...string) string {
	if pi == nil {
		return ""
	}
	for _, k := range keys {
		if v := pi.raw[k]; v != "" {
			return v
		}
	}
	return ""
}

// model returns the processor name. x86 uses "model name", 32-bit ARM
// kernels "Processor", MIPS "cpu model" and PowerPC "cpu".
func (pi *procCPUInfo) model() string {
	return pi.get("model name", "Processor", "cpu model", "cpu")
}

// mhz returns the clock frequency, or 0.
// x86 reports "cpu MHz : 2246.624", PowerPC "clock : 3000.000000MHz".
func (pi *procCPUInfo) mhz() int {
	v := pi.get("cpu MHz", "clock")
	v = strings.TrimSuffix(strings.TrimSpace(v), "MHz")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return 0
	}
	return int(f + 0.5)
}

// vendor maps the vendor fields of the different architectures.
func (pi *procCPUInfo) vendor() Vendor {
	if v, ok := x86Vendors[pi.get("vendor_id")]; ok {
		return v
	}
	if impl := pi.get("CPU implementer"); impl != "" {
		code, err := strconv.ParseUint(strings.TrimPrefix(impl, "0x"), 16, 8)
		if err == nil {
			if v, ok := armImplementers[uint8(code)]; ok {
				return v
			}
		}
	}
	cpuName := pi.get("cpu")
	switch {
	case strings.Contains(cpuName, "PA6T"):
		return VendorPASemi
	case strings.HasPrefix(cpuName, "POWER"), strings.HasPrefix(cpuName, "PPC970"), strings.Contains(cpuName, "Cell"):
		return VendorIBM
	case strings.HasPrefix(cpuName, "74"), strings.HasPrefix(cpuName, "e500"), strings.HasPrefix(cpuName, "e6500"):
		return VendorMotorola
	}
	if strings.Contains(pi.get("cpu model"), "MIPS") {
		return VendorMIPS
	}
	return VendorUnknown
}

// topology returns cores per package and threads per core from the
// "cpu cores" and "siblings" fields (x86 only).
func (pi *procCPUInfo) topology() (cores, threads int, ok bool) {
	cores, err := strconv.Atoi(pi.get("cpu cores"))
	if err != nil || cores < 1 {
		return 0, 0, false
	}
	siblings, err := strconv.Atoi(pi.get("siblings"))
	if err != nil || siblings < cores {
		return cores, 1, true
	}
	return cores, siblings / cores, true
}

var x86Vendors = map[string]Vendor{
	"GenuineIntel": VendorIntel,
	"AuthenticAMD": VendorAMD,
	"AMDisbetter!": VendorAMD,
	"CentaurHauls": VendorCentaur,
	"CyrixInstead": VendorCyrix,
	"NexGenDriven": VendorNexGen,
	"Geode by NSC": VendorNSC,
	"RiseRiseRise": VendorRise,
	"SiS SiS SiS":  VendorSiS,
	"GenuineTMx86": VendorTransmeta,
	"TransmetaCPU": VendorTransmeta,
	"UMC UMC UMC":  VendorUMC,
	"HygonGenuine": VendorHygon,
}

// armImplementers maps the MIDR implementer code.
var armImplementers = map[uint8]Vendor{
	0x41: VendorARM,
	0x42: VendorBroadcom,
	0x43: VendorCavium,
	0x46: VendorFujitsu,
	0x48: VendorHiSilicon,
	0x4d: VendorMotorola,
	0x4e: VendorNVIDIA,
	0x50: VendorAmpere,
	0x51: VendorQualcomm,
	0x56: VendorMarvell,
	0x61: VendorApple,
	0x69: VendorIntel,
	0xc0: VendorAmpere,
}
