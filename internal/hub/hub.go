// Package hub holds the state shared between the interface, the click
// engine, and the hotkey listener. Single flags use atomics; compound
// records (rate selection, statistics) sit behind one mutex. No other
// component may duplicate this state.
//
// Critical sections are assignment-only and never call out, so a holder can
// not panic mid-update; readers always observe the last written value.
package hub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/linux-brat/BClicker/internal/model"
)

// Hub is the process-wide shared state. Construct with New and hand the same
// pointer to every goroutine at spawn time.
type Hub struct {
	running atomic.Bool
	visible atomic.Bool

	mu     sync.Mutex
	rate   model.RateConfig
	target model.Target
	stats  model.Statistics
}

// New builds a hub seeded from persisted configuration.
func New(rate model.RateConfig, target model.Target, stats model.Statistics) *Hub {
	h := &Hub{rate: rate, target: target, stats: stats}
	h.visible.Store(true)
	return h
}

// Running reports whether actions are currently being emitted.
func (h *Hub) Running() bool { return h.running.Load() }

// SetRunning replaces the run flag.
func (h *Hub) SetRunning(v bool) { h.running.Store(v) }

// ToggleRunning flips the run flag and returns the new value.
func (h *Hub) ToggleRunning() bool {
	for {
		cur := h.running.Load()
		if h.running.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// Visible reports whether the interface is shown.
func (h *Hub) Visible() bool { return h.visible.Load() }

// ToggleVisible flips the visibility flag and returns the new value.
func (h *Hub) ToggleVisible() bool {
	for {
		cur := h.visible.Load()
		if h.visible.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// Rate returns a copy of the rate configuration.
func (h *Hub) Rate() model.RateConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	r := h.rate
	r.Presets = append([]int(nil), h.rate.Presets...)
	return r
}

// UpdateRate applies fn to the rate configuration under the hub lock.
func (h *Hub) UpdateRate(fn func(*model.RateConfig)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.rate)
}

// CurrentRate returns the active clicks-per-second value.
func (h *Hub) CurrentRate() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rate.Current()
}

// Target returns the active click target.
func (h *Hub) Target() model.Target {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.target
}

// CycleTarget advances the click target and returns the new value.
func (h *Hub) CycleTarget() model.Target {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.target = h.target.Next()
	return h.target
}

// RecordClick increments the lifetime and session counters together.
func (h *Hub) RecordClick() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.TotalClicks++
	h.stats.SessionClicks++
}

// Stats returns a snapshot of the statistics.
func (h *Hub) Stats() model.Statistics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// BeginSession counts a new program run: the session counter restarts and
// the session start reference moves to now.
func (h *Hub) BeginSession(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.TotalSessions++
	h.stats.SessionClicks = 0
	h.stats.LastSessionStart = now.Unix()
}

// ResetStats zeroes the session counters and resets the session start
// reference. TotalClicks is deliberately untouched: the lifetime click
// count never decreases.
func (h *Hub) ResetStats(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.SessionClicks = 0
	h.stats.TotalSessions = 0
	h.stats.SessionDuration = 0
	h.stats.LastSessionStart = now.Unix()
}

// SetSessionDuration records the elapsed session time, persisted at
// shutdown.
func (h *Hub) SetSessionDuration(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.SessionDuration = uint64(d.Seconds())
}
