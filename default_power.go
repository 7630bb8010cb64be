//go:build ppc64 || ppc64le

package cpuinfo

// DefaultBackend returns the backend of the architecture the binary was
// built for.
func DefaultBackend() *Backend {
	return PPC(nil)
}
