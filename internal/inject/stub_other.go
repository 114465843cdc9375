//go:build !linux

package inject

// New reports that no injection backend exists on this platform. Callers
// fall back to the Noop injector.
func New() (Injector, error) {
	return nil, ErrUnsupported
}
