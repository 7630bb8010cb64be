package cpuinfo

import (
	"fmt"
	"io"
	"strings"
)

// ClassState is the state of one feature class in a [Snapshot].
type ClassState struct {
	Class    string    `json:"class" yaml:"class"`
	Resolved bool      `json:"resolved" yaml:"resolved"`
	Words    string    `json:"words" yaml:"words"`
	Raw      []string  `json:"raw,omitempty" yaml:"raw,omitempty"`
	Features []Feature `json:"features" yaml:"features"`
}

// Snapshot is a copy of a descriptor's identification and feature state.
type Snapshot struct {
	Arch         string            `json:"arch" yaml:"arch"`
	Machine      string            `json:"machine,omitempty" yaml:"machine,omitempty"`
	Vendor       Vendor            `json:"vendor" yaml:"vendor"`
	Model        string            `json:"model" yaml:"model"`
	FrequencyMHz int               `json:"frequency_mhz" yaml:"frequency_mhz"`
	Socket       Socket            `json:"socket" yaml:"socket"`
	Cores        int               `json:"cores" yaml:"cores"`
	Threads      int               `json:"threads" yaml:"threads"`
	Caches       []CacheDescriptor `json:"caches" yaml:"caches"`
	Classes      []ClassState      `json:"classes" yaml:"classes"`
}

// Features returns the set features of every class, in namespace order.
func (s *Snapshot) Features() []Feature {
	var out []Feature
	for _, cs := range s.Classes {
		out = append(out, cs.Features...)
	}
	return out
}

// Snapshot resolves every feature class and returns the full state.
func (d *Descriptor) Snapshot() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()

	d.arch.resolveCommon(d.common)
	return d.snapshotLocked()
}

// State returns the current state without resolving anything: classes
// not queried yet are reported unresolved and empty.
func (d *Descriptor) State() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()

	return d.snapshotLocked()
}

func (d *Descriptor) snapshotLocked() *Snapshot {
	s := &Snapshot{
		Arch:         d.backend.name,
		Machine:      d.host.machine,
		Vendor:       d.host.vendor,
		Model:        d.host.model,
		FrequencyMHz: d.host.mhz,
		Socket:       d.host.socket,
		Cores:        d.host.cores,
		Threads:      d.host.threads,
		Caches:       newCaches(d.host.caches).Descriptors(),
	}

	common, _ := LookupClass(ClassCommon)
	s.Classes = append(s.Classes, classState(common, d.common))
	for _, c := range d.backend.Classes() {
		ci, ok := LookupClass(c)
		if !ok {
			continue
		}
		st := classState(ci, d.arch.featureTable(c))
		st.Raw = d.arch.rawWords(c)
		s.Classes = append(s.Classes, st)
	}
	return s
}

func classState(ci ClassInfo, vec *bitVector) ClassState {
	return ClassState{
		Class:    ci.Name,
		Resolved: vec.get(ci.Begin),
		Words:    vec.hex(),
		Features: setFeatures(ci, vec),
	}
}

// Dump writes the current state in a line-oriented debugging format.
// Like [Descriptor.State] it never triggers detection.
func (d *Descriptor) Dump(w io.Writer) error {
	s := d.State()

	var b strings.Builder
	fmt.Fprintf(&b, "arch: %s\n", s.Arch)
	if s.Machine != "" {
		fmt.Fprintf(&b, "machine: %s\n", s.Machine)
	}
	fmt.Fprintf(&b, "vendor: %s\n", s.Vendor)
	fmt.Fprintf(&b, "model: %q\n", s.Model)
	fmt.Fprintf(&b, "frequency: %d MHz\n", s.FrequencyMHz)
	fmt.Fprintf(&b, "socket: %s\n", s.Socket)
	fmt.Fprintf(&b, "cores: %d\n", s.Cores)
	fmt.Fprintf(&b, "threads: %d\n", s.Threads)
	fmt.Fprintf(&b, "caches: %d\n", len(s.Caches))
	for i, c := range s.Caches {
		fmt.Fprintf(&b, "  [%d] type=%s level=%d size=%dK\n", i, c.Type, c.Level, c.SizeKB)
	}
	for _, cs := range s.Classes {
		fmt.Fprintf(&b, "class %s: resolved=%t words=[%s]\n", cs.Class, cs.Resolved, cs.Words)
		if len(cs.Raw) > 0 {
			fmt.Fprintf(&b, "  raw %s\n", strings.Join(cs.Raw, " "))
		}
		if len(cs.Features) == 0 {
			continue
		}
		names := make([]string, 0, len(cs.Features))
		for _, f := range cs.Features {
			names = append(names, f.String())
		}
		fmt.Fprintf(&b, "  %s\n", strings.Join(names, " "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
