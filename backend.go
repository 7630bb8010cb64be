package cpuinfo

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"golang.org/x/sys/cpu"
)

// Backend is the capability provider of one architecture: the feature
// classes it owns, how their bits derive from the raw capability source,
// and how identification metadata is gathered.
//
// Backends are immutable and may be shared by any number of descriptors.
type Backend struct {
	name    string
	classes []classSpec
	// source overrides the OS source when set.
	source   RawSource
	osSource func(root string) RawSource
	host     hostProbe

	bigEndian bool
	// wide reports a 64-bit processor without any class evidence. Backends
	// owning classes derive it from their long-mode bits instead.
	wide          bool
	fallbackModel string
}

// Name returns the architecture name of the backend (e.g., "x86", "aarch64").
func (b *Backend) Name() string {
	return b.name
}

// Classes returns the feature classes the backend resolves, in resolution order.
func (b *Backend) Classes() []Class {
	out := make([]Class, 0, len(b.classes))
	for _, cs := range b.classes {
		out = append(out, cs.class)
	}
	return out
}

func (b *Backend) lookup(c Class) (*classSpec, bool) {
	for i := range b.classes {
		if b.classes[i].class == c {
			return &b.classes[i], true
		}
	}
	return nil, false
}

func (b *Backend) rawSource(root string) RawSource {
	if b.source != nil {
		return b.source
	}
	if b.osSource != nil {
		return b.osSource(root)
	}
	return nil
}

// Generic returns a backend without architecture-specific feature classes.
// Only the common class is populated: endianness and word size of the host.
func Generic() *Backend {
	return &Backend{
		name:      "generic",
		host:      probeLinuxHost,
		bigEndian: cpu.IsBigEndian,
		wide:      strconv.IntSize == 64,
	}
}

var bigEndianArch = map[string]bool{
	"mips": true, "mips64": true, "ppc64": true, "s390x": true,
	"mipsle": false, "mips64le": false, "ppc64le": false,
	"riscv64": false, "loong64": false, "wasm": false,
}

var wideArch = map[string]bool{
	"mips64": true, "mips64le": true, "riscv64": true, "loong64": true, "s390x": true, "wasm": true,
}

// BackendFor selects a backend by GOARCH value, for binaries that analyse
// captured trees of a different architecture. Architectures without a
// dedicated backend get a generic one carrying their endianness.
func BackendFor(goarch string) (*Backend, error) {
	switch goarch {
	case "386", "amd64":
		return X86(nil), nil
	case "arm":
		return ARM(nil), nil
	case "arm64":
		return AArch64(nil), nil
	case "ppc64", "ppc64le":
		return ppcBackend(goarch, nil), nil
	}
	if be, ok := bigEndianArch[goarch]; ok {
		b := Generic()
		b.name = goarch
		b.bigEndian = be
		b.wide = wideArch[goarch]
		return b, nil
	}
	return nil, fmt.Errorf("%w for GOARCH %q", ErrNoBackend, goarch)
}

// bitMap sets feature when bit of the src word is set.
type bitMap struct {
	feature Feature
	src     source
	bit     uint
}

// ramp maps the contiguous features first..last onto consecutive bits of
// src starting at bit.
func ramp(first, last Feature, src source, bit uint) []bitMap {
	out := make([]bitMap, 0, int(last-first)+1)
	for f := first; f <= last; f++ {
		out = append(out, bitMap{feature: f, src: src, bit: bit})
		bit++
	}
	return out
}

// rule sets target when the masked src word has all (or any) of mask's
// bits. A rule with an empty mask and all set is unconditional. Targets in
// the common class are written to the common vector.
type rule struct {
	target Feature
	src    source
	mask   uint64
	all    bool
}

func ruleAll(target Feature, src source, mask uint64) rule {
	return rule{target: target, src: src, mask: mask, all: true}
}

func ruleAny(target Feature, src source, mask uint64) rule {
	return rule{target: target, src: src, mask: mask}
}

func ruleAlways(target Feature) rule {
	return rule{target: target, all: true}
}

func (r rule) match(raw RawCaps) bool {
	w := raw.word(r.src) & r.mask
	if r.all {
		return w == r.mask
	}
	return w != 0
}

// classSpec describes how one class is populated from the raw source and
// which of its members feed the common derived features.
type classSpec struct {
	class Class
	bits  []bitMap
	rules []rule

	simd     []Feature
	popcount []Feature
	crypto   []Feature
	longMode []Feature
}

// sources lists the raw words the class reads, in source order.
func (cs *classSpec) sources() []source {
	var out []source
	for _, m := range cs.bits {
		out = append(out, m.src)
	}
	for _, r := range cs.rules {
		if r.mask != 0 {
			out = append(out, r.src)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// archState owns the per-class vectors of one descriptor. Common bits a
// class derives are staged in derived until the common class resolves.
type archState struct {
	backend *Backend
	read    RawSource
	logger  *slog.Logger
	vectors map[Class]*bitVector
	derived *bitVector
	raws    map[Class]RawCaps
	errs    map[Class]error
}

func newArchState(b *Backend, root string, logger *slog.Logger) *archState {
	common, _ := LookupClass(ClassCommon)
	s := &archState{
		backend: b,
		read:    b.rawSource(root),
		logger:  logger,
		vectors: make(map[Class]*bitVector, len(b.classes)),
		derived: newBitVector(common.size()),
		raws:    make(map[Class]RawCaps, len(b.classes)),
		errs:    make(map[Class]error),
	}
	for _, cs := range b.classes {
		ci, ok := LookupClass(cs.class)
		if !ok {
			continue
		}
		s.vectors[cs.class] = newBitVector(ci.size())
	}
	return s
}

// featureTable returns the vector of class c, or nil if the backend does
// not own c.
func (s *archState) featureTable(c Class) *bitVector {
	if s == nil {
		return nil
	}
	return s.vectors[c]
}

// resolve populates class c once. Later calls return immediately.
func (s *archState) resolve(c Class) {
	vec := s.featureTable(c)
	cs, ok := s.backend.lookup(c)
	if vec == nil || !ok {
		return
	}
	ci, _ := LookupClass(c)
	if vec.get(ci.Begin) {
		return
	}

	var raw RawCaps
	if s.read != nil {
		r, err := s.read()
		if err != nil {
			s.logger.Debug("raw capability source unavailable", "arch", s.backend.name, "class", ci.Name, "error", err)
			s.errs[c] = err
		} else {
			raw = r
		}
	}
	s.raws[c] = raw
	vec.set(ci.Begin)

	for _, m := range cs.bits {
		if raw.word(m.src)&(1<<m.bit) != 0 {
			vec.set(m.feature)
		}
	}
	for _, r := range cs.rules {
		if !r.match(raw) {
			continue
		}
		if r.target.Class() == ClassCommon {
			s.derived.set(r.target)
		} else {
			vec.set(r.target)
		}
	}

	if anySet(vec, cs.simd) {
		s.derived.set(FeatureSIMD)
		s.derived.set(FeaturePopcount)
	}
	if anySet(vec, cs.popcount) {
		s.derived.set(FeaturePopcount)
	}
	if anySet(vec, cs.crypto) {
		if ci.HasAggregate {
			vec.set(ci.Aggregate)
		}
		s.derived.set(FeatureCrypto)
	}
	if anySet(vec, cs.longMode) {
		s.derived.set(Feature64Bit)
	}

	s.logger.Debug("resolved feature class", "arch", s.backend.name, "class", ci.Name, "features", len(setFeatures(ci, vec)))
}

// resolveCommon resolves every class of the backend and then the common
// class itself.
func (s *archState) resolveCommon(common *bitVector) {
	if common.get(FeatureCommon) {
		return
	}
	for _, cs := range s.backend.classes {
		s.resolve(cs.class)
	}
	ci, _ := LookupClass(ClassCommon)
	for _, f := range ci.Features() {
		if s.derived.get(f) {
			common.set(f)
		}
	}
	if s.backend.bigEndian {
		common.set(FeatureBigEndian)
	} else {
		common.set(FeatureLittleEndian)
	}
	if s.backend.wide {
		common.set(Feature64Bit)
	}
	common.set(FeatureCommon)
}

// rawWords renders the raw words class c was resolved from, or nil when c
// is unresolved.
func (s *archState) rawWords(c Class) []string {
	raw, ok := s.raws[c]
	cs, known := s.backend.lookup(c)
	if !ok || !known {
		return nil
	}
	var out []string
	for _, src := range cs.sources() {
		out = append(out, fmt.Sprintf("%s=%#x", src, raw.word(src)))
	}
	return out
}

func (s *archState) destroy() {
	s.vectors = nil
	s.derived = nil
	s.raws = nil
	s.errs = nil
	s.read = nil
}

func anySet(vec *bitVector, members []Feature) bool {
	return slices.ContainsFunc(members, vec.get)
}

// setFeatures lists the features of ci set in vec, excluding the marker.
func setFeatures(ci ClassInfo, vec *bitVector) []Feature {
	var out []Feature
	for _, f := range ci.Features() {
		if vec.get(f) {
			out = append(out, f)
		}
	}
	return out
}
