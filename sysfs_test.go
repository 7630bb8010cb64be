package cpuinfo

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates files relative to root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

const cpuDir = "sys/devices/system/cpu/"

func TestCountCPUList(t *testing.T) {
	tests := []struct {
		list    string
		want    int
		wantErr bool
	}{
		{"0", 1, false},
		{"0-3", 4, false},
		{"0-3,8-11", 8, false},
		{"0,2,4-5\n", 4, false},
		{"", 0, false},
		{"3-1", 0, true},
		{"a-b", 0, true},
		{"0-", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			got, err := countCPUList(tt.list)
			if (err != nil) != tt.wantErr {
				t.Fatalf("countCPUList(%q) error = %v, wantErr %v", tt.list, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("countCPUList(%q) = %d, want %d", tt.list, got, tt.want)
			}
		})
	}
}

func TestParseCacheSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"32K", 32, false},
		{"8M", 8192, false},
		{"1G", 1024 * 1024, false},
		{"65536", 64, false},
		{"K", 0, true},
		{"lots", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCacheSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCacheSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseCacheSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSysfsFrequencyMHz(t *testing.T) {
	root := t.TempDir()
	if got := sysfsFrequencyMHz(root); got != 0 {
		t.Errorf("sysfsFrequencyMHz(empty) = %d, want 0", got)
	}

	writeTree(t, root, map[string]string{
		cpuDir + "cpu0/cpufreq/scaling_max_freq": "2400000\n",
	})
	if got := sysfsFrequencyMHz(root); got != 2400 {
		t.Errorf("sysfsFrequencyMHz(scaling) = %d, want 2400", got)
	}

	writeTree(t, root, map[string]string{
		cpuDir + "cpu0/cpufreq/cpuinfo_max_freq": "3600000\n",
	})
	if got := sysfsFrequencyMHz(root); got != 3600 {
		t.Errorf("sysfsFrequencyMHz(cpuinfo) = %d, want 3600", got)
	}
}

func TestSysfsTopology(t *testing.T) {
	t.Run("current names", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			cpuDir + "cpu0/topology/core_cpus_list":    "0,8\n",
			cpuDir + "cpu0/topology/package_cpus_list": "0-15\n",
		})
		cores, threads, ok := sysfsTopology(root)
		if !ok || cores != 8 || threads != 2 {
			t.Errorf("sysfsTopology() = (%d, %d, %v), want (8, 2, true)", cores, threads, ok)
		}
	})

	t.Run("legacy names", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			cpuDir + "cpu0/topology/thread_siblings_list": "0\n",
			cpuDir + "cpu0/topology/core_siblings_list":   "0-3\n",
		})
		cores, threads, ok := sysfsTopology(root)
		if !ok || cores != 4 || threads != 1 {
			t.Errorf("sysfsTopology() = (%d, %d, %v), want (4, 1, true)", cores, threads, ok)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, _, ok := sysfsTopology(t.TempDir()); ok {
			t.Error("sysfsTopology() on an empty root should not be ok")
		}
	})
}

func TestPossibleCPUs_AlternateRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{cpuDir + "possible": "0-7\n"})

	n, err := possibleCPUs(root)
	if err != nil {
		t.Fatalf("possibleCPUs() error = %v", err)
	}
	if n != 8 {
		t.Errorf("possibleCPUs() = %d, want 8", n)
	}

	if _, err := possibleCPUs(t.TempDir()); err == nil {
		t.Error("possibleCPUs() without a possible list should fail")
	}
}

func TestSysfsCaches(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		cpuDir + "cpu0/cache/index0/level": "1\n",
		cpuDir + "cpu0/cache/index0/type":  "Data\n",
		cpuDir + "cpu0/cache/index0/size":  "48K\n",
		cpuDir + "cpu0/cache/index1/level": "1\n",
		cpuDir + "cpu0/cache/index1/type":  "Instruction\n",
		cpuDir + "cpu0/cache/index1/size":  "32K\n",
		cpuDir + "cpu0/cache/index2/level": "2\n",
		cpuDir + "cpu0/cache/index2/type":  "Unified\n",
		cpuDir + "cpu0/cache/index2/size":  "1280K\n",
		cpuDir + "cpu0/cache/index3/level": "3\n",
		cpuDir + "cpu0/cache/index3/type":  "Unified\n",
		cpuDir + "cpu0/cache/index3/size":  "24M\n",
		// Not reached: enumeration stops at the first gap.
		cpuDir + "cpu0/cache/index5/level": "4\n",
	})

	got, err := sysfsCaches(root)
	if err != nil {
		t.Fatalf("sysfsCaches() error = %v", err)
	}
	want := []CacheDescriptor{
		{Type: CacheTypeData, Level: 1, SizeKB: 48},
		{Type: CacheTypeCode, Level: 1, SizeKB: 32},
		{Type: CacheTypeUnified, Level: 2, SizeKB: 1280},
		{Type: CacheTypeUnified, Level: 3, SizeKB: 24 * 1024},
	}
	if len(got) != len(want) {
		t.Fatalf("sysfsCaches() returned %d caches, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cache %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSysfsCaches_Malformed(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		cpuDir + "cpu0/cache/index0/level": "1\n",
		cpuDir + "cpu0/cache/index0/type":  "Data\n",
		cpuDir + "cpu0/cache/index0/size":  "32K\n",
		cpuDir + "cpu0/cache/index1/level": "two\n",
	})

	got, err := sysfsCaches(root)
	if err == nil {
		t.Fatal("sysfsCaches() expected error for a malformed level")
	}
	if len(got) != 1 {
		t.Errorf("sysfsCaches() kept %d caches before the error, want 1", len(got))
	}
}

func TestProbeLinuxHost(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("empty root", func(t *testing.T) {
		hi := probeLinuxHost(t.TempDir(), logger)
		if hi.vendor != VendorUnknown || hi.model != "" || hi.mhz != 0 {
			t.Errorf("probeLinuxHost(empty) = %+v, want unknown identification", hi)
		}
		if hi.socket != SocketUnknown || hi.cores != 1 || hi.threads != 1 {
			t.Errorf("probeLinuxHost(empty) topology = %+v, want 1 core, 1 thread", hi)
		}
		if len(hi.caches) != 0 {
			t.Errorf("probeLinuxHost(empty) caches = %v, want none", hi.caches)
		}
	})

	t.Run("sysfs preferred over proc", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"proc/cpuinfo": x86CPUInfo,

			cpuDir + "cpu0/cpufreq/cpuinfo_max_freq":   "4600000\n",
			cpuDir + "cpu0/topology/core_cpus_list":    "0-1\n",
			cpuDir + "cpu0/topology/package_cpus_list": "0-7\n",
			cpuDir + "cpu0/cache/index0/level":         "2\n",
			cpuDir + "cpu0/cache/index0/type":          "Unified\n",
			cpuDir + "cpu0/cache/index0/size":          "256K\n",
		})
		hi := probeLinuxHost(root, logger)
		if hi.vendor != VendorIntel {
			t.Errorf("vendor = %s, want Intel", hi.vendor)
		}
		if hi.mhz != 4600 {
			t.Errorf("mhz = %d, want 4600", hi.mhz)
		}
		if hi.cores != 4 || hi.threads != 2 {
			t.Errorf("topology = (%d, %d), want (4, 2)", hi.cores, hi.threads)
		}
		if len(hi.caches) != 1 || hi.caches[0].SizeKB != 256 {
			t.Errorf("caches = %v, want one 256K cache", hi.caches)
		}
	})

	t.Run("proc fallback", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"proc/cpuinfo": x86CPUInfo})
		hi := probeLinuxHost(root, logger)
		if hi.mhz != 3192 {
			t.Errorf("mhz = %d, want 3192", hi.mhz)
		}
		if hi.cores != 6 || hi.threads != 2 {
			t.Errorf("topology = (%d, %d), want (6, 2)", hi.cores, hi.threads)
		}
	})

	t.Run("possible cpus fallback", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"proc/cpuinfo":      armCPUInfo,
			cpuDir + "possible": "0-3\n",
		})
		hi := probeLinuxHost(root, logger)
		if hi.vendor != VendorARM {
			t.Errorf("vendor = %s, want ARM", hi.vendor)
		}
		if hi.cores != 4 || hi.threads != 1 {
			t.Errorf("topology = (%d, %d), want (4, 1)", hi.cores, hi.threads)
		}
	})
}

func TestNew_HostMetadataFromRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"proc/cpuinfo": ppcCPUInfo})

	d, err := New(WithBackend(PPC(staticSource(RawCaps{}))), WithRoot(root))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	if d.Vendor() != VendorIBM {
		t.Errorf("Vendor() = %s, want IBM", d.Vendor())
	}
	if d.Frequency() != 3800 {
		t.Errorf("Frequency() = %d, want 3800", d.Frequency())
	}

	empty, err := New(WithBackend(PPC(staticSource(RawCaps{}))), WithRoot(t.TempDir()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer empty.Close()
	if empty.Model() != "PowerPC" {
		t.Errorf("Model() = %q, want fallback %q", empty.Model(), "PowerPC")
	}
	if empty.Cores() != 1 || empty.Threads() != 1 {
		t.Errorf("Cores()/Threads() = %d/%d, want 1/1", empty.Cores(), empty.Threads())
	}
}
