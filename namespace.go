package cpuinfo

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ClassInfo describes the numbering range of a feature [Class].
type ClassInfo struct {
	Class Class
	// Name is the short class name used by [Feature.QualifiedName].
	Name string
	// Begin is the resolved marker of the class. Feature ids of the class
	// start right after it.
	Begin Feature
	// Max is exclusive and never a valid feature.
	Max Feature
	// Base is the class this one continues when Extends is true.
	Base    Class
	Extends bool
	// Aggregate is an extra id outside [Begin, Max) set when any member of
	// the class is present.
	Aggregate    Feature
	HasAggregate bool
}

// Contains reports whether f is a feature of the class: an id after the
// resolved marker and before Max, or the aggregate.
func (ci ClassInfo) Contains(f Feature) bool {
	if f.Class() != ci.Class {
		return false
	}
	if ci.HasAggregate && f == ci.Aggregate {
		return true
	}
	return f > ci.Begin && f < ci.Max
}

// Features returns the features of the class in numbering order, excluding
// the resolved marker and including the aggregate, if any.
func (ci ClassInfo) Features() []Feature {
	out := make([]Feature, 0, int(ci.Max-ci.Begin))
	if ci.HasAggregate {
		out = append(out, ci.Aggregate)
	}
	for f := ci.Begin + 1; f < ci.Max; f++ {
		out = append(out, f)
	}
	return out
}

// size is the number of bits a vector for this class needs.
func (ci ClassInfo) size() int {
	return ci.Max.Offset()
}

var namespace = mustNamespace([]ClassInfo{
	{Class: ClassCommon, Name: "common", Begin: FeatureCommon, Max: featureCommonMax},
	{Class: ClassX86, Name: "x86", Begin: FeatureX86, Max: featureX86Max},
	{Class: ClassIA64, Name: "ia64", Begin: FeatureIA64, Max: featureIA64Max},
	{Class: ClassPPC, Name: "ppc", Begin: FeaturePPC, Max: featurePPCMax},
	{Class: ClassMIPS, Name: "mips", Begin: FeatureMIPS, Max: featureMIPSMax},
	{Class: ClassARM, Name: "arm", Begin: FeatureARM, Max: featureARMMax},
	{
		Class: ClassAArch64, Name: "aarch64",
		Begin: FeatureAArch64Begin, Max: featureAArch64Max,
		Base: ClassARM, Extends: true,
	},
	{
		Class: ClassARMCrypto, Name: "arm-crypto",
		Begin: FeatureARMCryptoBegin, Max: featureARMCryptoMax,
		Base: ClassAArch64, Extends: true,
		Aggregate: FeatureARMCrypto, HasAggregate: true,
	},
})

type classTable struct {
	order []ClassInfo
	index map[Class]ClassInfo
}

func mustNamespace(infos []ClassInfo) classTable {
	if err := validateNamespace(infos); err != nil {
		panic(fmt.Sprintf("cpuinfo: invalid feature namespace: %v", err))
	}
	t := classTable{
		order: infos,
		index: make(map[Class]ClassInfo, len(infos)),
	}
	for _, ci := range infos {
		t.index[ci.Class] = ci
	}
	return t
}

// validateNamespace checks the namespace invariants: unique tags, ranges
// carrying their own tag, chained classes starting at the masked end of
// their base, and no overlap between a chained class and its base.
func validateNamespace(infos []ClassInfo) error {
	seen := make(map[Class]ClassInfo, len(infos))
	for _, ci := range infos {
		if _, dup := seen[ci.Class]; dup {
			return fmt.Errorf("class %#02x: duplicate tag", uint8(ci.Class))
		}
		if ci.Begin.Class() != ci.Class {
			return fmt.Errorf("class %s: begin %#04x carries tag %#02x", ci.Name, int(ci.Begin), uint8(ci.Begin.Class()))
		}
		if ci.Max.Class() != ci.Class && ci.Max != Feature(ci.Class)<<8+0x100 {
			return fmt.Errorf("class %s: max %#04x outside class", ci.Name, int(ci.Max))
		}
		if ci.Max <= ci.Begin {
			return fmt.Errorf("class %s: empty range [%#04x, %#04x)", ci.Name, int(ci.Begin), int(ci.Max))
		}
		if ci.HasAggregate && (ci.Aggregate.Class() != ci.Class || (ci.Aggregate >= ci.Begin && ci.Aggregate < ci.Max)) {
			return fmt.Errorf("class %s: aggregate %#04x collides with range", ci.Name, int(ci.Aggregate))
		}
		if ci.Extends {
			base, ok := seen[ci.Base]
			if !ok {
				return fmt.Errorf("class %s: base class %#02x not declared before it", ci.Name, uint8(ci.Base))
			}
			want := Feature(ci.Class)<<8 | base.Max&FeatureMask
			if ci.Begin != want {
				return fmt.Errorf("class %s: begin %#04x, want %#04x continuing %s", ci.Name, int(ci.Begin), int(want), base.Name)
			}
			if ci.Begin.Offset() < base.Max.Offset() && ci.Max.Offset() > base.Begin.Offset() {
				return fmt.Errorf("class %s: range overlaps base %s", ci.Name, base.Name)
			}
		}
		seen[ci.Class] = ci
	}
	return nil
}

// Classes returns the class table in declaration order.
func Classes() []ClassInfo {
	return slices.Clone(namespace.order)
}

// LookupClass returns the description of class c.
func LookupClass(c Class) (ClassInfo, bool) {
	ci, ok := namespace.index[c]
	return ci, ok
}

// Features returns every valid feature of every class, in namespace order.
func Features() []Feature {
	var out []Feature
	for _, ci := range namespace.order {
		out = append(out, ci.Features()...)
	}
	return out
}

// ErrUnknownFeature is returned by [ParseFeature] for names without a match.
var ErrUnknownFeature = errors.New("unknown feature")

// ParseFeature resolves a feature name, case-insensitively. Qualified names
// ("x86:sse2") always resolve; bare names ("sse2") resolve when only one
// class defines them.
func ParseFeature(name string) (Feature, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("%w: empty name", ErrUnknownFeature)
	}

	var matches []Feature
	for _, f := range Features() {
		if strings.ToLower(f.QualifiedName()) == name {
			return f, nil
		}
		if strings.ToLower(f.String()) == name {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	case 1:
		return matches[0], nil
	default:
		qualified := make([]string, 0, len(matches))
		for _, f := range matches {
			qualified = append(qualified, f.QualifiedName())
		}
		return 0, fmt.Errorf("%w: %q is ambiguous (%s)", ErrUnknownFeature, name, strings.Join(qualified, ", "))
	}
}
