// Package engine runs the rate-paced click loop.
package engine

import (
	"log/slog"
	"time"

	"github.com/linux-brat/BClicker/internal/hub"
	"github.com/linux-brat/BClicker/internal/inject"
)

// CuePlayer receives exactly one call per observed run-state transition.
type CuePlayer interface {
	PlayStart()
	PlayStop()
}

// ActivityIndicator is driven in lockstep with the audio cues.
type ActivityIndicator interface {
	StartActivityIndication()
	StopActivityIndication()
}

const (
	// idlePoll is how often the loop re-checks the run flag while stopped.
	idlePoll = 50 * time.Millisecond
	// minSleep keeps the loop responsive: shorter remainders are spun
	// through instead of slept, so a run-flag flip is seen promptly and
	// the scheduler cannot oversleep a sub-millisecond delta.
	minSleep = time.Millisecond
)

// Interval converts a clicks-per-second rate into the target spacing
// between actions, in integer microseconds.
func Interval(rate int) time.Duration {
	if rate <= 0 {
		rate = 1
	}
	return time.Duration(1_000_000/rate) * time.Microsecond
}

// Engine emits one click per interval while the hub's run flag is set.
type Engine struct {
	hub      *hub.Hub
	injector inject.Injector
	audio    CuePlayer
	tray     ActivityIndicator
	logger   *slog.Logger

	idlePoll time.Duration
	stopCh   chan struct{}
}

// New builds an engine. All collaborators are required; pass no-op
// implementations where a capability is absent.
func New(h *hub.Hub, injector inject.Injector, audio CuePlayer, tray ActivityIndicator, logger *slog.Logger) *Engine {
	return &Engine{
		hub:      h,
		injector: injector,
		audio:    audio,
		tray:     tray,
		logger:   logger,
		idlePoll: idlePoll,
		stopCh:   make(chan struct{}),
	}
}

// Stop terminates the Run loop. Used by tests and the main shutdown path;
// the engine otherwise runs for the process lifetime.
func (e *Engine) Stop() {
	select {
	case <-e.stopCh:
	default:
		close(e.stopCh)
	}
}

// Run is the timing loop. Drift correction is reset-based: when an action
// fires, the reference instant jumps to now, so missed intervals are never
// replayed and a stall cannot cause a burst.
func (e *Engine) Run() {
	last := time.Now()
	wasRunning := false

	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		running := e.hub.Running()
		if running != wasRunning {
			// Exactly one cue pair per edge, before the timing loop
			// resumes.
			if running {
				e.audio.PlayStart()
				e.tray.StartActivityIndication()
				last = time.Now()
			} else {
				e.audio.PlayStop()
				e.tray.StopActivityIndication()
			}
			wasRunning = running
		}

		if !running {
			e.sleep(e.idlePoll)
			continue
		}

		interval := Interval(e.hub.CurrentRate())
		elapsed := time.Since(last)
		if elapsed >= interval {
			if err := e.injector.Perform(e.hub.Target()); err != nil {
				// A single failed press must never stall the loop.
				e.logger.Debug("click injection failed", "err", err)
			} else {
				e.hub.RecordClick()
			}
			last = time.Now()
			continue
		}

		if remaining := interval - elapsed; remaining > minSleep {
			e.sleep(remaining)
		}
	}
}

func (e *Engine) sleep(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-e.stopCh:
	}
}
