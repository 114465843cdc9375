//go:build !linux

package hotkey

// New reports that no global-hotkey backend exists on this platform.
func New() (Provider, error) {
	return nil, ErrUnsupported
}
