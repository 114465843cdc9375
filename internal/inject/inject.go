// Package inject performs the synthetic pointer presses.
package inject

import (
	"errors"

	"github.com/linux-brat/BClicker/internal/model"
)

// ErrUnsupported is returned by New on platforms without an injection
// backend.
var ErrUnsupported = errors.New("click injection is not supported on this platform")

// Injector emits one synthetic click per call. Failures are non-fatal to
// callers; the engine absorbs them.
type Injector interface {
	Perform(target model.Target) error
	Close() error
}

// Noop is the fallback injector used when no backend is available, keeping
// the interface usable without a display connection.
type Noop struct{}

func (Noop) Perform(model.Target) error { return nil }
func (Noop) Close() error               { return nil }
