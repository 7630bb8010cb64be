package cpuinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const x86CPUInfo = `processor	: 0
vendor_id	: GenuineIntel
cpu family	: 6
model		: 158
model name	: Intel(R) Core(TM) i7-8700 CPU @ 3.20GHz
cpu MHz		: 3191.998
siblings	: 12
cpu cores	: 6
flags		: fpu vme de pse tsc msr pae mce cx8

processor	: 1
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i7-8700 CPU @ 3.20GHz
cpu MHz		: 800.000
siblings	: 12
cpu cores	: 6
`

const armCPUInfo = `Processor	: ARMv7 Processor rev 4 (v7l)
processor	: 0
BogoMIPS	: 38.40
Features	: half thumb fastmult vfp edsp neon vfpv3 tls vfpv4 idiva idivt
CPU implementer	: 0x41
CPU architecture: 7
CPU variant	: 0x0
CPU part	: 0xd03

processor	: 1
CPU implementer	: 0x41
`

const ppcCPUInfo = `processor	: 0
cpu		: POWER9 (architected), altivec supported
clock		: 3800.000000MHz
revision	: 2.3 (pvr 004e 1203)

timebase	: 512000000
platform	: pSeries
`

func TestParseProcCPUInfo(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		model      string
		vendor     Vendor
		mhz        int
		processors int
	}{
		{"x86", x86CPUInfo, "Intel(R) Core(TM) i7-8700 CPU @ 3.20GHz", VendorIntel, 3192, 2},
		{"arm", armCPUInfo, "ARMv7 Processor rev 4 (v7l)", VendorARM, 0, 2},
		{"ppc", ppcCPUInfo, "POWER9 (architected), altivec supported", VendorIBM, 3800, 1},
		{"empty", "", "", VendorUnknown, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi, err := parseProcCPUInfo(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("parseProcCPUInfo() error = %v", err)
			}
			if got := pi.model(); got != tt.model {
				t.Errorf("model() = %q, want %q", got, tt.model)
			}
			if got := pi.vendor(); got != tt.vendor {
				t.Errorf("vendor() = %s, want %s", got, tt.vendor)
			}
			if got := pi.mhz(); got != tt.mhz {
				t.Errorf("mhz() = %d, want %d", got, tt.mhz)
			}
			if pi.processors != tt.processors {
				t.Errorf("processors = %d, want %d", pi.processors, tt.processors)
			}
		})
	}
}

func TestProcCPUInfo_FirstValueWins(t *testing.T) {
	pi, err := parseProcCPUInfo(strings.NewReader(x86CPUInfo))
	if err != nil {
		t.Fatalf("parseProcCPUInfo() error = %v", err)
	}
	// The second processor block reports a throttled clock.
	if got := pi.get("cpu MHz"); got != "3191.998" {
		t.Errorf("get(cpu MHz) = %q, want first block value", got)
	}
}

func TestProcCPUInfo_Topology(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		cores   int
		threads int
		ok      bool
	}{
		{"hyperthreaded", "cpu cores : 6\nsiblings : 12\n", 6, 2, true},
		{"no siblings", "cpu cores : 4\n", 4, 1, true},
		{"inconsistent siblings", "cpu cores : 4\nsiblings : 2\n", 4, 1, true},
		{"missing", "model name : x\n", 0, 0, false},
		{"zero cores", "cpu cores : 0\n", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi, err := parseProcCPUInfo(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("parseProcCPUInfo() error = %v", err)
			}
			cores, threads, ok := pi.topology()
			if cores != tt.cores || threads != tt.threads || ok != tt.ok {
				t.Errorf("topology() = (%d, %d, %v), want (%d, %d, %v)", cores, threads, ok, tt.cores, tt.threads, tt.ok)
			}
		})
	}
}

func TestProcCPUInfo_Vendor(t *testing.T) {
	tests := []struct {
		input string
		want  Vendor
	}{
		{"vendor_id : AuthenticAMD\n", VendorAMD},
		{"vendor_id : HygonGenuine\n", VendorHygon},
		{"vendor_id : SiS SiS SiS\n", VendorSiS},
		{"CPU implementer : 0x61\n", VendorApple},
		{"CPU implementer : 0xzz\n", VendorUnknown},
		{"cpu : PA6T, altivec supported\n", VendorPASemi},
		{"cpu : 7447A, altivec supported\n", VendorMotorola},
		{"cpu model : MIPS 24Kc V7.4\n", VendorMIPS},
		{"vendor_id : Unheard Of\n", VendorUnknown},
	}
	for _, tt := range tests {
		pi, err := parseProcCPUInfo(strings.NewReader(tt.input))
		if err != nil {
			t.Fatalf("parseProcCPUInfo(%q) error = %v", tt.input, err)
		}
		if got := pi.vendor(); got != tt.want {
			t.Errorf("vendor(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestProcCPUInfo_NilReceiver(t *testing.T) {
	var pi *procCPUInfo
	if pi.model() != "" || pi.mhz() != 0 || pi.vendor() != VendorUnknown {
		t.Error("nil procCPUInfo should report nothing")
	}
	if _, _, ok := pi.topology(); ok {
		t.Error("nil procCPUInfo topology should not be ok")
	}
}

func TestReadProcCPUInfo(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "proc"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "proc", "cpuinfo"), []byte(ppcCPUInfo), 0o644); err != nil {
		t.Fatal(err)
	}

	pi, err := readProcCPUInfo(root)
	if err != nil {
		t.Fatalf("readProcCPUInfo() error = %v", err)
	}
	if got := pi.vendor(); got != VendorIBM {
		t.Errorf("vendor() = %s, want IBM", got)
	}

	if _, err := readProcCPUInfo(t.TempDir()); err == nil {
		t.Error("readProcCPUInfo() on an empty root should fail")
	}
}
