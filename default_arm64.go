//go:build arm64

package cpuinfo

// DefaultBackend returns the backend of the architecture the binary was
// built for.
func DefaultBackend() *Backend {
	return AArch64(nil)
}
