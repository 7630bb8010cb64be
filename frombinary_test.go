package cpuinfo

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime/debug"
	"strings"
	"testing"
)

func buildInfo(settings ...string) *debug.BuildInfo {
	info := &debug.BuildInfo{}
	for i := 0; i+1 < len(settings); i += 2 {
		info.Settings = append(info.Settings, debug.BuildSetting{Key: settings[i], Value: settings[i+1]})
	}
	return info
}

func TestRequirementsFromBuildInfo_DedupAndStableOrder(t *testing.T) {
	got, err := requirementsFromBuildInfo(buildInfo("GOARCH", "arm64", "GOARM64", "v8.1,lse,crypto"))
	if err != nil {
		t.Fatalf("requirementsFromBuildInfo() error = %v", err)
	}

	want := FeatureGroup{
		Feature64Bit,
		FeatureLittleEndian,
		FeatureAArch64FP,
		FeatureAArch64ASIMD,
		FeatureAArch64Atomics,
		FeatureARMCryptoAES,
		FeatureARMCryptoPMULL,
		FeatureARMCryptoSHA1,
		FeatureARMCryptoSHA2,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("requirementsFromBuildInfo() = %v, want %v", got, want)
	}
}

func TestRequirementsFromBuildInfo_Levels(t *testing.T) {
	tests := []struct {
		name     string
		settings []string
		has      []Feature
		lacks    []Feature
	}{
		{"amd64 default", []string{"GOARCH", "amd64"}, []Feature{FeatureX86SSE2, FeatureX86LM, Feature64Bit}, []Feature{FeatureX86SSE3}},
		{"amd64 v2", []string{"GOARCH", "amd64", "GOAMD64", "v2"}, []Feature{FeatureX86SSE2, FeatureX86POPCNT, FeatureX86SSE42}, []Feature{FeatureX86AVX}},
		{"amd64 v3", []string{"GOARCH", "amd64", "GOAMD64", "v3"}, []Feature{FeatureX86SSE42, FeatureX86AVX2, FeatureX86BMI2}, []Feature{FeatureX86AVX512F}},
		{"amd64 v4", []string{"GOARCH", "amd64", "GOAMD64", "v4"}, []Feature{FeatureX86AVX2, FeatureX86AVX512VL}, nil},
		{"386 sse2", []string{"GOARCH", "386", "GO386", "sse2"}, []Feature{FeatureX86SSE2}, []Feature{Feature64Bit}},
		{"386 softfloat", []string{"GOARCH", "386", "GO386", "softfloat"}, []Feature{FeatureLittleEndian}, []Feature{FeatureX86SSE2}},
		{"arm 7", []string{"GOARCH", "arm", "GOARM", "7"}, []Feature{FeatureARMVFP, FeatureARMVFPv3}, nil},
		{"arm 6", []string{"GOARCH", "arm", "GOARM", "6,hardfloat"}, []Feature{FeatureARMVFP}, []Feature{FeatureARMVFPv3}},
		{"arm softfloat", []string{"GOARCH", "arm", "GOARM", "7,softfloat"}, nil, []Feature{FeatureARMVFP}},
		{"arm64 v8.0", []string{"GOARCH", "arm64"}, []Feature{FeatureAArch64ASIMD}, []Feature{FeatureAArch64Atomics, FeatureARMCryptoAES}},
		{"arm64 v9.0", []string{"GOARCH", "arm64", "GOARM64", "v9.0"}, []Feature{FeatureAArch64Atomics}, nil},
		{"ppc64 power9", []string{"GOARCH", "ppc64", "GOPPC64", "power9"}, []Feature{FeatureBigEndian, FeaturePPCVMX}, []Feature{FeatureLittleEndian}},
		{"ppc64le", []string{"GOARCH", "ppc64le"}, []Feature{FeatureLittleEndian, FeaturePPCPOPCNTB}, nil},
		{"s390x", []string{"GOARCH", "s390x"}, []Feature{FeatureBigEndian, Feature64Bit}, nil},
		{"mipsle", []string{"GOARCH", "mipsle"}, []Feature{FeatureLittleEndian}, []Feature{Feature64Bit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := requirementsFromBuildInfo(buildInfo(tt.settings...))
			if err != nil {
				t.Fatalf("requirementsFromBuildInfo() error = %v", err)
			}
			set := make(map[Feature]bool, len(got))
			for _, r := range got {
				set[r.(Feature)] = true
			}
			for _, f := range tt.has {
				if !set[f] {
					t.Errorf("missing %s", f.QualifiedName())
				}
			}
			for _, f := range tt.lacks {
				if set[f] {
					t.Errorf("unexpected %s", f.QualifiedName())
				}
			}
		})
	}
}

func TestRequirementsFromBuildInfo_FailClosed(t *testing.T) {
	tests := []struct {
		name    string
		info    *debug.BuildInfo
		wantErr string
	}{
		{"nil build info", nil, "nil build info"},
		{"no GOARCH", buildInfo("GOOS", "linux"), "no GOARCH"},
		{"unknown GOARCH", buildInfo("GOARCH", "vax"), `unknown GOARCH "vax"`},
		{"unknown GOAMD64", buildInfo("GOARCH", "amd64", "GOAMD64", "v5"), `unknown GOAMD64 level "v5"`},
		{"malformed GOAMD64", buildInfo("GOARCH", "amd64", "GOAMD64", "3"), "unknown GOAMD64 level"},
		{"unknown GO386", buildInfo("GOARCH", "386", "GO386", "387"), "unknown GO386 mode"},
		{"unknown GOARM", buildInfo("GOARCH", "arm", "GOARM", "8"), "unknown GOARM level"},
		{"unknown GOARM float", buildInfo("GOARCH", "arm", "GOARM", "7,fast"), "unknown GOARM float mode"},
		{"unknown GOARM64", buildInfo("GOARCH", "arm64", "GOARM64", "v8.10"), "unknown GOARM64 version"},
		{"unknown GOARM64 option", buildInfo("GOARCH", "arm64", "GOARM64", "v8.2,sve"), "unknown GOARM64 option"},
		{"unknown GOPPC64", buildInfo("GOARCH", "ppc64le", "GOPPC64", "power7"), "unknown GOPPC64 level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := requirementsFromBuildInfo(tt.info)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFromBinary_PathValidationAndParseErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := FromBinary("   ")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "empty path") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FromBinary(filepath.Join(t.TempDir(), "missing"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "read build info") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("not a Go binary", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "script.sh")
		if err := os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0o755); err != nil {
			t.Fatalf("write file: %v", err)
		}
		_, err := FromBinary(path)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "read build info") {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestFromBinary_TestExecutable(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Skipf("os.Executable: %v", err)
	}
	reqs, err := FromBinary(exe)
	if err != nil && strings.Contains(err.Error(), "no GOARCH") {
		t.Skip("test binary carries no build settings")
	}
	if err != nil {
		t.Fatalf("FromBinary(%s) error = %v", exe, err)
	}
	if len(reqs) == 0 {
		t.Fatal("FromBinary() returned no requirements")
	}
	// The test binary was built for the machine running it.
	if err := Check(reqs...); err != nil {
		t.Errorf("Check(FromBinary(self)) error = %v", err)
	}
}
