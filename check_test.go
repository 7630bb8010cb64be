package cpuinfo

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeRequirements(t *testing.T) {
	rs := normalizeRequirements([]Requirement{
		FeatureSIMD,
		FeatureGroup{
			FeatureX86SSE2,
			AnyOf{FeatureX86AVX2, FeatureAArch64ASIMD},
			nil,
		},
		FeatureGroup{
			FeatureSIMD, // duplicate
			FeatureCrypto,
		},
		// Duplicate of the alternative above, reordered.
		AnyOf{FeatureAArch64ASIMD, FeatureX86AVX2, FeatureX86AVX2},
		// A single alternative is a plain requirement.
		AnyOf{Feature64Bit},
	})

	if !reflect.DeepEqual(rs.features, []Feature{
		FeatureSIMD,
		FeatureX86SSE2,
		FeatureCrypto,
		Feature64Bit,
	}) {
		t.Fatalf("features = %#v", rs.features)
	}

	if !reflect.DeepEqual(rs.alternatives, []AnyOf{
		{FeatureX86AVX2, FeatureAArch64ASIMD},
	}) {
		t.Fatalf("alternatives = %#v", rs.alternatives)
	}
}

func TestCheck_Satisfied(t *testing.T) {
	d := newTestDescriptor(t, AArch64(staticSource(RawCaps{HWCAP: 1<<0 | 1<<1 | 1<<3})))

	err := d.Check(
		FeatureSIMD,
		FeatureCrypto,
		FeatureGroup{FeatureAArch64FP, FeatureARMCryptoAES},
		AnyOf{FeatureX86AVX2, FeatureAArch64ASIMD},
	)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
}

func TestCheck_MissingFeature(t *testing.T) {
	d := newTestDescriptor(t, AArch64(staticSource(RawCaps{HWCAP: 1 << 0})))

	tests := []struct {
		name       string
		req        Requirement
		wantName   string
		wantReason string
	}{
		{"class feature", FeatureARMCryptoSHA2, "arm-crypto:sha2", "not reported by the aarch64 capability source"},
		{"common feature", FeatureSIMD, "common:simd", "no SIMD instruction set reported"},
		{"crypto", FeatureCrypto, "common:crypto", "no cryptographic instruction reported"},
		{"byte order", FeatureBigEndian, "common:big-endian", "processor runs with a different byte order"},
		{"foreign class", FeatureX86SSE2, "x86:sse2", "x86 feature; the aarch64 backend does not provide it"},
		{"unknown", FeatureGroup{Feature(0x7f01)}, "Feature(0x7f01)", "unknown feature"},
		{"alternatives", AnyOf{FeatureX86AVX2, FeaturePPCVMX}, "any of ppc:vmx, x86:avx2", "none of the alternatives is supported"},
		{"empty alternatives", AnyOf{}, "any of ", "empty alternative set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Check(tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			var fe *FeatureError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FeatureError, got %T", err)
			}
			if fe.Feature != tt.wantName {
				t.Errorf("FeatureError.Feature = %q, want %q", fe.Feature, tt.wantName)
			}
			if fe.Reason != tt.wantReason {
				t.Errorf("FeatureError.Reason = %q, want %q", fe.Reason, tt.wantReason)
			}
		})
	}
}

func TestCheck_FirstFailureWins(t *testing.T) {
	d := newTestDescriptor(t, X86(staticSource(RawCaps{CPUID: true, MaxLeaf: 1})))

	err := d.Check(FeatureX86CPUID, FeatureX86AVX, FeatureX86SSE2)
	var fe *FeatureError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FeatureError, got %v", err)
	}
	if fe.Feature != "x86:avx" {
		t.Errorf("FeatureError.Feature = %q, want x86:avx", fe.Feature)
	}
}

func TestDiagnose(t *testing.T) {
	d := newTestDescriptor(t, ARM(staticSource(RawCaps{HWCAP: 1 << 12})))

	tests := []struct {
		feature Feature
		want    string
	}{
		{FeatureARMNEON, "supported"},
		{FeatureSIMD, "supported"},
		{FeatureLittleEndian, "supported"},
		{FeatureARMIDIV, "not reported by the arm capability source"},
		{FeatureARMCrypto, "no ARM cryptographic extension reported"},
		{Feature64Bit, "processor does not report 64-bit mode"},
		{FeatureAArch64ASIMD, "aarch64 feature; the arm backend does not provide it"},
		{FeatureARM, "unknown feature"},
	}
	for _, tt := range tests {
		t.Run(tt.feature.String(), func(t *testing.T) {
			if got := d.Diagnose(tt.feature); got != tt.want {
				t.Errorf("Diagnose(%s) = %q, want %q", tt.feature.QualifiedName(), got, tt.want)
			}
		})
	}
}

func TestCheck_SourceErrorWrapped(t *testing.T) {
	boom := errors.New("no vector")
	d := newTestDescriptor(t, ARM(func() (RawCaps, error) { return RawCaps{}, boom }))

	err := d.Check(FeatureCrypto)
	if !errors.Is(err, boom) {
		t.Fatalf("Check() error = %v, want wrapped source error", err)
	}
	if !strings.Contains(err.Error(), "capability source unavailable") {
		t.Errorf("Check() error = %q missing reason", err)
	}
}

func TestCheck_Package(t *testing.T) {
	err := Check(FeatureGroup{Feature(999)})
	if err == nil {
		t.Fatal("expected error")
	}

	var fe *FeatureError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FeatureError, got %T", err)
	}
	if fe.Feature != "Feature(0x03e7)" {
		t.Fatalf("FeatureError.Feature = %q", fe.Feature)
	}
	if fe.Reason != "unknown feature" {
		t.Fatalf("FeatureError.Reason = %q", fe.Reason)
	}

	if err := Check(FeatureLittleEndian, FeatureBigEndian); err == nil {
		t.Error("a processor cannot run both byte orders")
	}
}
