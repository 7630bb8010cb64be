package cpuinfo

import (
	"fmt"
	"log/slog"
	"sync"
)

// config holds the configuration of a descriptor.
type config struct {
	backend *Backend
	eager   bool
	logger  *slog.Logger
	root    string // filesystem root for /proc and /sys (for testing)
}

// Option configures a [Descriptor].
type Option func(*config)

// WithBackend selects the capability backend. The default is
// [DefaultBackend], the backend of the architecture the binary targets.
func WithBackend(b *Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// WithEagerDetection resolves every feature class inside [New].
func WithEagerDetection() Option {
	return func(c *config) {
		c.eager = true
	}
}

// WithLogger sets the logger detection reports to. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRoot sets the filesystem root /proc and /sys are read from.
// This is primarily for testing and for analysing captured trees;
// production code uses "/".
func WithRoot(dir string) Option {
	return func(c *config) {
		c.root = dir
	}
}

// Descriptor is the capability descriptor of the host processor.
//
// Feature classes are resolved lazily, once, on first query. A Descriptor
// is safe for concurrent use. Using it after [Descriptor.Close] panics.
type Descriptor struct {
	mu      sync.Mutex
	backend *Backend
	arch    *archState
	common  *bitVector
	host    hostInfo
	logger  *slog.Logger
	closed  bool
}

// New creates a descriptor for the host processor.
// Identification metadata is gathered immediately; feature bits are not,
// unless [WithEagerDetection] is given.
func New(opts ...Option) (*Descriptor, error) {
	cfg := &config{
		logger: slog.New(slog.DiscardHandler),
		root:   defaultRoot,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.backend == nil {
		cfg.backend = DefaultBackend()
	}
	if cfg.backend == nil {
		return nil, ErrNoBackend
	}

	ci, _ := LookupClass(ClassCommon)
	d := &Descriptor{
		backend: cfg.backend,
		arch:    newArchState(cfg.backend, cfg.root, cfg.logger),
		common:  newBitVector(ci.size()),
		logger:  cfg.logger,
	}

	d.host = unknownHost()
	if cfg.backend.host != nil {
		d.host = cfg.backend.host(cfg.root, cfg.logger)
	}
	if d.host.model == "" {
		d.host.model = cfg.backend.fallbackModel
	}
	if isDefaultRoot(cfg.root) {
		d.host.machine = machine()
	}

	if cfg.eager {
		d.arch.resolveCommon(d.common)
	}

	cfg.logger.Debug("descriptor created",
		"arch", cfg.backend.name,
		"root", cfg.root,
		"vendor", d.host.vendor.String(),
		"model", d.host.model,
		"eager", cfg.eager,
	)
	return d, nil
}

// Close releases the architecture state. A second call returns [ErrClosed].
func (d *Descriptor) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.arch.destroy()
	d.arch = nil
	d.common = nil
	d.closed = true
	return nil
}

// mustOpen panics when d was closed. Callers hold d.mu.
func (d *Descriptor) mustOpen() {
	if d.closed {
		panic(fmt.Errorf("cpuinfo: %w", ErrClosed))
	}
}

// Arch returns the backend name.
func (d *Descriptor) Arch() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()
	return d.backend.name
}

// Vendor returns the processor manufacturer, or [VendorUnknown].
func (d *Descriptor) Vendor() Vendor {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()
	return d.host.vendor
}

// Model returns the processor model name, or "" when unknown.
func (d *Descriptor) Model() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()
	return d.host.model
}

// Frequency returns the maximum clock frequency in MHz, or 0 when unknown.
func (d *Descriptor) Frequency() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()
	return d.host.mhz
}

// Socket returns the processor package, or [SocketUnknown].
func (d *Descriptor) Socket() Socket {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()
	return d.host.socket
}

// Cores returns the number of cores per package, at least 1.
func (d *Descriptor) Cores() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()
	return d.host.cores
}

// Threads returns the number of hardware threads per core, at least 1.
func (d *Descriptor) Threads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()
	return d.host.threads
}

// Caches returns the cache descriptors in detection order.
func (d *Descriptor) Caches() Caches {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()
	return newCaches(d.host.caches)
}

// HasFeature reports whether the processor supports f.
//
// The class of f is resolved on first use. Common features resolve every
// class of the backend. Features of classes the backend does not own, and
// ids outside any class, report false.
func (d *Descriptor) HasFeature(f Feature) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustOpen()
	return d.hasFeatureLocked(f)
}

func (d *Descriptor) hasFeatureLocked(f Feature) bool {
	if !f.Valid() {
		return false
	}
	if f.Class() == ClassCommon {
		d.arch.resolveCommon(d.common)
		return d.common.get(f)
	}
	vec := d.arch.featureTable(f.Class())
	if vec == nil {
		return false
	}
	d.arch.resolve(f.Class())
	return vec.get(f)
}
