//go:build arm

package cpuinfo

// DefaultBackend returns the backend of the architecture the binary was
// built for.
func DefaultBackend() *Backend {
	return ARM(nil)
}
