//go:build !386 && !amd64 && !arm && !arm64 && !ppc64 && !ppc64le

package cpuinfo

// DefaultBackend returns the generic backend: no dedicated feature classes
// exist for this architecture.
func DefaultBackend() *Backend {
	return Generic()
}
