package cpuinfo

import (
	"fmt"
	"strings"
)

// Check validates the specified requirements against the host processor
// and returns a *[FeatureError] for the first unsatisfied requirement, or
// nil if all are met.
func Check(required ...Requirement) error {
	d, err := New()
	if err != nil {
		return fmt.Errorf("create descriptor: %w", err)
	}
	defer d.Close()

	return d.Check(required...)
}

// Check validates the specified requirements and returns a *[FeatureError]
// for the first unsatisfied requirement, or nil if all are met.
func (d *Descriptor) Check(required ...Requirement) error {
	rs := normalizeRequirements(required)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()

	for _, f := range rs.features {
		if !f.Valid() {
			return &FeatureError{Feature: f.String(), Reason: "unknown feature"}
		}
		if !d.hasFeatureLocked(f) {
			return &FeatureError{
				Feature: f.QualifiedName(),
				Reason:  d.diagnoseLocked(f),
				Err:     d.sourceErrLocked(f),
			}
		}
	}

	for _, alt := range rs.alternatives {
		names := make([]string, 0, len(alt))
		satisfied := false
		for _, f := range alt {
			names = append(names, f.QualifiedName())
			if f.Valid() && d.hasFeatureLocked(f) {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}
		reason := "none of the alternatives is supported"
		if len(alt) == 0 {
			reason = "empty alternative set"
		}
		return &FeatureError{
			Feature: "any of " + strings.Join(names, ", "),
			Reason:  reason,
		}
	}

	return nil
}

// Diagnose returns a human-readable explanation of why f is not supported,
// or "supported" if it is. Calling it resolves the class of f.
func (d *Descriptor) Diagnose(f Feature) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()

	if f.Valid() && d.hasFeatureLocked(f) {
		return "supported"
	}
	return d.diagnoseLocked(f)
}

func (d *Descriptor) diagnoseLocked(f Feature) string {
	if !f.Valid() {
		return "unknown feature"
	}

	c := f.Class()
	if c != ClassCommon && d.arch.featureTable(c) == nil {
		return fmt.Sprintf("%s feature; the %s backend does not provide it", c, d.backend.name)
	}
	if err := d.sourceErrLocked(f); err != nil {
		return "capability source unavailable"
	}

	switch f {
	case Feature64Bit:
		return "processor does not report 64-bit mode"
	case FeatureSIMD:
		return "no SIMD instruction set reported"
	case FeaturePopcount:
		return "no population count instruction and no SIMD instruction set reported"
	case FeatureCrypto:
		return "no cryptographic instruction reported"
	case FeatureARMCrypto:
		return "no ARM cryptographic extension reported"
	case FeatureBigEndian, FeatureLittleEndian, FeatureMiddleEndian:
		return "processor runs with a different byte order"
	}
	return fmt.Sprintf("not reported by the %s capability source", d.backend.name)
}

// sourceErrLocked returns the error the raw source of f's class returned,
// if any. Common features report the first class error.
func (d *Descriptor) sourceErrLocked(f Feature) error {
	if f.Class() != ClassCommon {
		return d.arch.errs[f.Class()]
	}
	for _, c := range d.backend.Classes() {
		if err := d.arch.errs[c]; err != nil {
			return err
		}
	}
	return nil
}
