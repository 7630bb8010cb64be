package cpuinfo

import (
	"log/slog"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// hostInfo is the identification metadata gathered once per descriptor.
type hostInfo struct {
	machine string
	vendor  Vendor
	model   string
	mhz     int
	socket  Socket
	cores   int
	threads int
	caches  []CacheDescriptor
}

func unknownHost() hostInfo {
	return hostInfo{socket: SocketUnknown, cores: 1, threads: 1}
}

// hostProbe gathers hostInfo relative to a filesystem root.
type hostProbe func(root string, logger *slog.Logger) hostInfo

// probeLinuxHost reads /proc/cpuinfo and sysfs. Every source is optional;
// missing values keep their unknown sentinel.
func probeLinuxHost(root string, logger *slog.Logger) hostInfo {
	hi := unknownHost()

	pi, err := readProcCPUInfo(root)
	if err != nil {
		logger.Debug("proc cpuinfo unavailable", "root", rootOrDefault(root), "error", err)
	}
	hi.model = pi.model()
	hi.vendor = pi.vendor()

	hi.mhz = sysfsFrequencyMHz(root)
	if hi.mhz == 0 {
		hi.mhz = pi.mhz()
	}

	if cores, threads, ok := sysfsTopology(root); ok {
		hi.cores, hi.threads = cores, threads
	} else if cores, threads, ok := pi.topology(); ok {
		hi.cores, hi.threads = cores, threads
	} else if n, err := possibleCPUs(root); err == nil && n > 0 {
		hi.cores = n
	} else if err != nil {
		logger.Debug("possible cpus unavailable", "error", err)
	}

	caches, err := sysfsCaches(root)
	if err != nil {
		logger.Debug("cache enumeration incomplete", "error", err)
	}
	hi.caches = caches

	return hi
}

// probeX86Host overlays what CPUID itself reports on top of the OS view.
// The overlay only applies to the running host: under an alternate root the
// CPUID of this machine says nothing about the captured tree.
func probeX86Host(root string, logger *slog.Logger) hostInfo {
	hi := probeLinuxHost(root, logger)
	if !isDefaultRoot(root) || !hasCPUID {
		return hi
	}

	c := cpuid.CPU
	if name := strings.TrimSpace(c.BrandName); name != "" {
		hi.model = name
	}
	if v, ok := x86Vendors[strings.TrimSpace(c.VendorString)]; ok {
		hi.vendor = v
	}
	if c.Hz > 0 {
		hi.mhz = int(c.Hz / 1_000_000)
	}
	if c.PhysicalCores > 0 {
		hi.cores = c.PhysicalCores
		hi.threads = max(c.ThreadsPerCore, 1)
	}

	var caches []CacheDescriptor
	for _, cc := range []struct {
		typ   CacheType
		level int
		bytes int
	}{
		{CacheTypeData, 1, c.Cache.L1D},
		{CacheTypeCode, 1, c.Cache.L1I},
		{CacheTypeUnified, 2, c.Cache.L2},
		{CacheTypeUnified, 3, c.Cache.L3},
	} {
		if cc.bytes > 0 {
			caches = append(caches, CacheDescriptor{Type: cc.typ, Level: cc.level, SizeKB: cc.bytes / 1024})
		}
	}
	if len(caches) > 0 {
		hi.caches = caches
	}

	return hi
}
