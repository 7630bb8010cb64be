package cpuinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cilium/ebpf"
)

const defaultRoot = "/"

func rootOrDefault(root string) string {
	if root == "" {
		return defaultRoot
	}
	return root
}

func isDefaultRoot(root string) bool {
	return root == "" || root == defaultRoot
}

// cpuSysfsPath returns <root>/sys/devices/system/cpu/<elem...>.
func cpuSysfsPath(root string, elem ...string) string {
	return filepath.Join(append([]string{rootOrDefault(root), "sys", "devices", "system", "cpu"}, elem...)...)
}

// readSysfsString reads a sysfs attribute and trims surrounding whitespace.
func readSysfsString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// readSysfsInt reads a sysfs attribute holding a decimal integer.
func readSysfsInt(path string) (int64, error) {
	val, err := readSysfsString(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// countCPUList counts the CPUs of a kernel CPU list such as "0-3,8-11".
func countCPUList(list string) (int, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return 0, nil
	}
	n := 0
	for _, part := range strings.Split(list, ",") {
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(lo)
		if err != nil {
			return 0, fmt.Errorf("cpu list %q: %w", list, err)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(hi); err != nil {
				return 0, fmt.Errorf("cpu list %q: %w", list, err)
			}
		}
		if last < first {
			return 0, fmt.Errorf("cpu list %q: descending range %s", list, part)
		}
		n += last - first + 1
	}
	return n, nil
}

// readCPUListCount reads the first existing CPU list attribute among paths.
func readCPUListCount(paths ...string) (int, error) {
	var lastErr error = os.ErrNotExist
	for _, p := range paths {
		val, err := readSysfsString(p)
		if err != nil {
			lastErr = err
			continue
		}
		return countCPUList(val)
	}
	return 0, lastErr
}

// sysfsFrequencyMHz reads the maximum frequency of cpu0 from cpufreq.
// Values are in kHz. Returns 0 if cpufreq is not available.
func sysfsFrequencyMHz(root string) int {
	for _, name := range []string{"cpuinfo_max_freq", "scaling_max_freq"} {
		khz, err := readSysfsInt(cpuSysfsPath(root, "cpu0", "cpufreq", name))
		if err == nil && khz > 0 {
			return int(khz / 1000)
		}
	}
	return 0
}

// sysfsTopology derives cores per package and threads per core from the
// cpu0 sibling lists.
func sysfsTopology(root string) (cores, threads int, ok bool) {
	threads, err := readCPUListCount(
		cpuSysfsPath(root, "cpu0", "topology", "core_cpus_list"),
		cpuSysfsPath(root, "cpu0", "topology", "thread_siblings_list"),
	)
	if err != nil || threads < 1 {
		return 0, 0, false
	}
	logical, err := readCPUListCount(
		cpuSysfsPath(root, "cpu0", "topology", "package_cpus_list"),
		cpuSysfsPath(root, "cpu0", "topology", "core_siblings_list"),
	)
	if err != nil || logical < threads {
		return 0, 0, false
	}
	return logical / threads, threads, true
}

// possibleCPUs returns the number of CPUs the kernel may bring online.
// On the running host cilium/ebpf's cached view of the possible CPU list
// is used; under an alternate root the list is read from it.
func possibleCPUs(root string) (int, error) {
	if isDefaultRoot(root) {
		return ebpf.PossibleCPU()
	}
	return readCPUListCount(cpuSysfsPath(root, "possible"))
}

// sysfsCaches enumerates cpu0/cache/index* in index order.
func sysfsCaches(root string) ([]CacheDescriptor, error) {
	var caches []CacheDescriptor
	for i := 0; ; i++ {
		dir := cpuSysfsPath(root, "cpu0", "cache", "index"+strconv.Itoa(i))
		if _, err := os.Stat(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return caches, nil
			}
			return caches, err
		}

		level, err := readSysfsInt(filepath.Join(dir, "level"))
		if err != nil {
			return caches, fmt.Errorf("cache index%d: %w", i, err)
		}
		kind, err := readSysfsString(filepath.Join(dir, "type"))
		if err != nil {
			return caches, fmt.Errorf("cache index%d: %w", i, err)
		}
		size, err := readSysfsString(filepath.Join(dir, "size"))
		if err != nil {
			return caches, fmt.Errorf("cache index%d: %w", i, err)
		}
		kb, err := parseCacheSize(size)
		if err != nil {
			return caches, fmt.Errorf("cache index%d: %w", i, err)
		}

		caches = append(caches, CacheDescriptor{
			Type:   sysfsCacheType(kind),
			Level:  int(level),
			SizeKB: kb,
		})
	}
}

func sysfsCacheType(kind string) CacheType {
	switch kind {
	case "Data":
		return CacheTypeData
	case "Instruction":
		return CacheTypeCode
	case "Unified":
		return CacheTypeUnified
	default:
		return CacheTypeUnknown
	}
}

// parseCacheSize parses sysfs cache sizes such as "32K" or "8M" into KB.
func parseCacheSize(s string) (int, error) {
	mult := 1
	switch {
	case strings.HasSuffix(s, "K"):
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		s, mult = strings.TrimSuffix(s, "M"), 1024
	case strings.HasSuffix(s, "G"):
		s, mult = strings.TrimSuffix(s, "G"), 1024*1024
	default:
		// Plain bytes.
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("cache size %q: %w", s, err)
		}
		return n / 1024, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("cache size %q: %w", s, err)
	}
	return n * mult, nil
}
