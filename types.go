package cpuinfo

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is reported when a [Descriptor] is used after [Descriptor.Close].
	ErrClosed = errors.New("descriptor closed")
	// ErrNoBackend is returned when no capability backend is available.
	ErrNoBackend = errors.New("no capability backend")
)

// FeatureError represents an error when a required processor feature is unavailable.
type FeatureError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *FeatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feature %s: %s: %v", e.Feature, e.Reason, e.Err)
	}
	return fmt.Sprintf("feature %s: %s", e.Feature, e.Reason)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

// Vendor identifies the processor manufacturer.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorAMD
	VendorCentaur
	VendorCyrix
	VendorIBM
	VendorIntel
	VendorMotorola
	VendorMIPS
	VendorNexGen
	VendorNSC
	VendorPMC
	VendorRise
	VendorSiS
	VendorTransmeta
	VendorUMC
	VendorPASemi
	VendorARM
	VendorBroadcom
	VendorCavium
	VendorFujitsu
	VendorHiSilicon
	VendorNVIDIA
	VendorQualcomm
	VendorApple
	VendorAmpere
	VendorMarvell
	VendorHygon
)

// Known reports whether v has a catalog entry.
func (v Vendor) Known() bool {
	_, ok := vendorNames[v]
	return ok && v != VendorUnknown
}

func (v Vendor) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return vendorNames[VendorUnknown]
}

// MarshalText renders the vendor by name.
func (v Vendor) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Socket identifies the processor package.
type Socket int

// SocketUnknown is reported when the package cannot be determined.
const SocketUnknown Socket = -1

// Intel sockets.
const (
	Socket478 Socket = Socket('I')<<8 + iota
	Socket479
	Socket604
	Socket771
	Socket775
)

// AMD sockets.
const (
	Socket754 Socket = Socket('A')<<8 + iota
	Socket939
	Socket940
	SocketAM2
	SocketF
	SocketS1
)

// Known reports whether s has a catalog entry.
func (s Socket) Known() bool {
	_, ok := socketNames[s]
	return ok
}

func (s Socket) String() string {
	if name, ok := socketNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the socket by name.
func (s Socket) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CacheType classifies a cache.
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheTypeData
	CacheTypeCode
	CacheTypeUnified
	CacheTypeTrace
)

// Known reports whether t has a catalog entry.
func (t CacheType) Known() bool {
	_, ok := cacheTypeNames[t]
	return ok && t != CacheTypeUnknown
}

func (t CacheType) String() string {
	if name, ok := cacheTypeNames[t]; ok {
		return name
	}
	return cacheTypeNames[CacheTypeUnknown]
}

// MarshalText renders the cache type by name.
func (t CacheType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// CacheDescriptor describes one processor cache.
type CacheDescriptor struct {
	Type CacheType `json:"type" yaml:"type"`
	// Level is 0 for caches without a level, such as the trace cache.
	Level int `json:"level" yaml:"level"`
	// SizeKB is the cache size in KB. Trace caches report K uOps.
	SizeKB int `json:"size_kb" yaml:"size_kb"`
}

// Caches is an immutable, ordered set of cache descriptors.
// The order is detection order, not sorted by level.
type Caches struct {
	descriptors []CacheDescriptor
}

func newCaches(descriptors []CacheDescriptor) Caches {
	if len(descriptors) == 0 {
		return Caches{}
	}
	copied := make([]CacheDescriptor, len(descriptors))
	copy(copied, descriptors)
	return Caches{descriptors: copied}
}

// Count returns the number of descriptors.
func (c Caches) Count() int {
	return len(c.descriptors)
}

// At returns the i-th descriptor.
func (c Caches) At(i int) CacheDescriptor {
	return c.descriptors[i]
}

// Descriptors returns a copy of the descriptors.
func (c Caches) Descriptors() []CacheDescriptor {
	out := make([]CacheDescriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}
