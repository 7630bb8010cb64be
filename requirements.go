package cpuinfo

import "slices"

// Requirement describes a gate condition consumable by [Check].
//
// Built-in implementations include:
//   - [Feature]
//   - [FeatureGroup]
//   - [AnyOf]
type Requirement interface {
	isRequirement()
}

// FeatureGroup is a reusable set of [Requirement] items, all of which
// must hold.
type FeatureGroup []Requirement

// AnyOf is satisfied when at least one of its features is supported.
// An empty AnyOf is never satisfied.
type AnyOf []Feature

func (Feature) isRequirement()      {}
func (FeatureGroup) isRequirement() {}
func (AnyOf) isRequirement()        {}

type requirementSet struct {
	features     []Feature
	alternatives []AnyOf

	seenFeatures map[Feature]struct{}
}

func normalizeRequirements(required []Requirement) requirementSet {
	rs := requirementSet{
		seenFeatures: map[Feature]struct{}{},
	}
	for _, req := range required {
		rs.add(req)
	}
	return rs
}

func (rs *requirementSet) add(req Requirement) {
	switch r := req.(type) {
	case Feature:
		if _, ok := rs.seenFeatures[r]; ok {
			return
		}
		rs.seenFeatures[r] = struct{}{}
		rs.features = append(rs.features, r)
	case FeatureGroup:
		for _, nested := range r {
			if nested == nil {
				continue
			}
			rs.add(nested)
		}
	case AnyOf:
		if len(r) == 1 {
			rs.add(r[0])
			return
		}
		alt := slices.Clone(r)
		slices.Sort(alt)
		alt = slices.Compact(alt)
		if slices.ContainsFunc(rs.alternatives, func(a AnyOf) bool { return slices.Equal(a, alt) }) {
			return
		}
		rs.alternatives = append(rs.alternatives, alt)
	}
}
