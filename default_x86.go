//go:build 386 || amd64

package cpuinfo

// DefaultBackend returns the backend of the architecture the binary was
// built for.
func DefaultBackend() *Backend {
	return X86(nil)
}
