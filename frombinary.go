package cpuinfo

import (
	"debug/buildinfo"
	"fmt"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
)

// FromBinary derives the processor features a Go binary was compiled to
// require, from the build settings recorded in it (GOARCH and the
// architecture level variables GOAMD64, GO386, GOARM, GOARM64, GOPPC64).
//
// Contract:
//   - Determinism: output is deduplicated and ordered by feature id
//   - Unknown handling: fail closed (return error for unknown GOARCH or levels)
//
// Returned requirements are directly consumable by [Check].
func FromBinary(path string) (FeatureGroup, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("from binary: empty path")
	}

	info, err := buildinfo.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("from binary %q: read build info: %w", path, err)
	}

	reqs, err := requirementsFromBuildInfo(info)
	if err != nil {
		return nil, fmt.Errorf("from binary %q: %w", path, err)
	}
	return reqs, nil
}

func requirementsFromBuildInfo(info *debug.BuildInfo) (FeatureGroup, error) {
	if info == nil {
		return nil, fmt.Errorf("nil build info")
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	goarch := settings["GOARCH"]
	if goarch == "" {
		return nil, fmt.Errorf("build info records no GOARCH")
	}

	features, err := archRequirements(goarch, settings)
	if err != nil {
		return nil, err
	}

	if be, ok := bigEndianArch[goarch]; ok && be {
		features = append(features, FeatureBigEndian)
	} else {
		features = append(features, FeatureLittleEndian)
	}

	slices.Sort(features)
	features = slices.Compact(features)

	reqs := make(FeatureGroup, 0, len(features))
	for _, f := range features {
		reqs = append(reqs, f)
	}
	return reqs, nil
}

func archRequirements(goarch string, settings map[string]string) ([]Feature, error) {
	switch goarch {
	case "amd64":
		return goamd64Features(settings["GOAMD64"])
	case "386":
		return go386Features(settings["GO386"])
	case "arm":
		return goarmFeatures(settings["GOARM"])
	case "arm64":
		return goarm64Features(settings["GOARM64"])
	case "ppc64", "ppc64le":
		return goppc64Features(settings["GOPPC64"])
	}
	if _, ok := bigEndianArch[goarch]; !ok {
		return nil, fmt.Errorf("unknown GOARCH %q", goarch)
	}
	if wideArch[goarch] {
		return []Feature{Feature64Bit}, nil
	}
	return nil, nil
}

var goamd64Levels = [][]Feature{
	{
		Feature64Bit, FeatureX86LM, FeatureX86FPU, FeatureX86CX8, FeatureX86CMOV,
		FeatureX86FXSR, FeatureX86MMX, FeatureX86SSE, FeatureX86SSE2,
	},
	{
		FeatureX86CX16, FeatureX86LAHF64, FeatureX86POPCNT, FeatureX86SSE3,
		FeatureX86SSSE3, FeatureX86SSE41, FeatureX86SSE42,
	},
	{
		FeatureX86AVX, FeatureX86AVX2, FeatureX86BMI1, FeatureX86BMI2, FeatureX86F16C,
		FeatureX86FMA, FeatureX86ABM, FeatureX86MOVBE, FeatureX86OSXSAVE,
	},
	{
		FeatureX86AVX512F, FeatureX86AVX512BW, FeatureX86AVX512DQ, FeatureX86AVX512VL,
	},
}

// goamd64Features accumulates the levels up to v1..v4. Empty means v1.
func goamd64Features(level string) ([]Feature, error) {
	if level == "" {
		level = "v1"
	}
	n, err := strconv.Atoi(strings.TrimPrefix(level, "v"))
	if !strings.HasPrefix(level, "v") || err != nil || n < 1 || n > len(goamd64Levels) {
		return nil, fmt.Errorf("unknown GOAMD64 level %q", level)
	}
	var out []Feature
	for _, l := range goamd64Levels[:n] {
		out = append(out, l...)
	}
	return out, nil
}

func go386Features(mode string) ([]Feature, error) {
	switch mode {
	case "", "sse2":
		return []Feature{FeatureX86FPU, FeatureX86SSE, FeatureX86SSE2}, nil
	case "softfloat":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown GO386 mode %q", mode)
}

// goarmFeatures maps GOARM=5|6|7 with an optional ",softfloat" or
// ",hardfloat" suffix.
func goarmFeatures(v string) ([]Feature, error) {
	if v == "" {
		return nil, nil
	}
	level, float, _ := strings.Cut(v, ",")
	switch float {
	case "", "hardfloat", "softfloat":
	default:
		return nil, fmt.Errorf("unknown GOARM float mode %q", v)
	}
	switch level {
	case "5", "6", "7":
	default:
		return nil, fmt.Errorf("unknown GOARM level %q", v)
	}
	if float == "softfloat" || level == "5" {
		return nil, nil
	}
	if level == "6" {
		return []Feature{FeatureARMVFP}, nil
	}
	return []Feature{FeatureARMVFP, FeatureARMVFPv3}, nil
}

// goarm64Features maps GOARM64=v8.{0-9}|v9.{0-5} with optional ",lse" and
// ",crypto" suffixes.
func goarm64Features(v string) ([]Feature, error) {
	if v == "" {
		v = "v8.0"
	}
	parts := strings.Split(v, ",")
	major, minor, ok := strings.Cut(strings.TrimPrefix(parts[0], "v"), ".")
	maj, err1 := strconv.Atoi(major)
	mnr, err2 := strconv.Atoi(minor)
	if !strings.HasPrefix(parts[0], "v") || !ok || err1 != nil || err2 != nil ||
		(maj == 8 && (mnr < 0 || mnr > 9)) || (maj == 9 && (mnr < 0 || mnr > 5)) || (maj != 8 && maj != 9) {
		return nil, fmt.Errorf("unknown GOARM64 version %q", v)
	}

	out := []Feature{Feature64Bit, FeatureAArch64FP, FeatureAArch64ASIMD}
	if maj > 8 || mnr >= 1 {
		out = append(out, FeatureAArch64Atomics)
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "lse":
			out = append(out, FeatureAArch64Atomics)
		case "crypto":
			out = append(out, FeatureARMCryptoAES, FeatureARMCryptoPMULL, FeatureARMCryptoSHA1, FeatureARMCryptoSHA2)
		default:
			return nil, fmt.Errorf("unknown GOARM64 option %q in %q", opt, v)
		}
	}
	return out, nil
}

// goppc64Features maps GOPPC64=power8|power9|power10. Every level implies
// the POWER5+ generation features.
func goppc64Features(v string) ([]Feature, error) {
	switch v {
	case "", "power8", "power9", "power10":
		return []Feature{
			Feature64Bit, FeaturePPCVMX, FeaturePPCFSQRT, FeaturePPCFSEL,
			FeaturePPCMFCRF, FeaturePPCPOPCNTB, FeaturePPCFRIZ,
		}, nil
	}
	return nil, fmt.Errorf("unknown GOPPC64 level %q", v)
}
