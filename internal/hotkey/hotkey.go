// Package hotkey registers the system-wide toggle key and forwards
// activations to the shared state.
package hotkey

import (
	"errors"
	"log/slog"
	"time"

	"github.com/linux-brat/BClicker/internal/hub"
	"github.com/linux-brat/BClicker/internal/keys"
)

// ErrUnsupported means no global-hotkey backend exists on this platform
// or display server. The application keeps working without one.
var ErrUnsupported = errors.New("hotkey: global hotkeys not supported on this platform")

// Provider is a platform backend for one registered combo.
type Provider interface {
	// Register binds the combo system-wide. Replaces any prior binding.
	Register(combo keys.Combo) error
	// Activated reports whether the combo fired since the last call.
	Activated() bool
	Close() error
}

const pollInterval = 10 * time.Millisecond

// Listener polls a provider and flips the hub run flag on each activation.
type Listener struct {
	provider Provider
	hub      *hub.Hub
	logger   *slog.Logger
	poll     time.Duration
	stopCh   chan struct{}
}

func NewListener(p Provider, h *hub.Hub, logger *slog.Logger) *Listener {
	return &Listener{
		provider: p,
		hub:      h,
		logger:   logger,
		poll:     pollInterval,
		stopCh:   make(chan struct{}),
	}
}

// Run polls until Stop is called. Each observed activation toggles the
// run flag exactly once.
func (l *Listener) Run() {
	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			if l.provider.Activated() {
				running := l.hub.ToggleRunning()
				l.logger.Debug("hotkey toggled run state", "running", running)
			}
		}
	}
}

func (l *Listener) Stop() {
	select {
	case <-l.stopCh:
	default:
		close(l.stopCh)
	}
}
