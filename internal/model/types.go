// Package model defines shared data structures.
package model

import "fmt"

// Target selects which pointer button the engine presses.
type Target int

const (
	ButtonPrimary Target = iota
	ButtonSecondary
)

// String returns the label shown in the interface.
func (t Target) String() string {
	switch t {
	case ButtonSecondary:
		return "Right Click"
	default:
		return "Left Click"
	}
}

// ParseTarget maps a persisted button name back to a Target.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "Left Click", "left", "":
		return ButtonPrimary, nil
	case "Right Click", "right":
		return ButtonSecondary, nil
	}
	return ButtonPrimary, fmt.Errorf("unknown click target %q", s)
}

// Next cycles to the following target. The result is always valid.
func (t Target) Next() Target {
	if t == ButtonPrimary {
		return ButtonSecondary
	}
	return ButtonPrimary
}

// MinRate and MaxRate bound the accepted clicks-per-second range.
const (
	MinRate = 1
	MaxRate = 1000
)

// RateConfig holds the preset list and the optional custom rate. Exactly one
// of preset selection or custom value is current at a time.
type RateConfig struct {
	Presets        []int
	SelectedPreset int
	Custom         int // 0 means no custom value set
	UsingCustom    bool
}

// DefaultPresets returns the built-in preset rates.
func DefaultPresets() []int {
	return []int{20, 30, 40, 50}
}

// Current returns the active clicks-per-second rate.
func (r *RateConfig) Current() int {
	if r.UsingCustom && r.Custom >= MinRate {
		return r.Custom
	}
	if r.SelectedPreset >= 0 && r.SelectedPreset < len(r.Presets) {
		return r.Presets[r.SelectedPreset]
	}
	if len(r.Presets) > 0 {
		return r.Presets[0]
	}
	return 20
}

// SetCustom stores value as the custom rate and makes it current. Values
// outside [MinRate, MaxRate] are rejected.
func (r *RateConfig) SetCustom(value int) bool {
	if value < MinRate || value > MaxRate {
		return false
	}
	r.Custom = value
	r.UsingCustom = true
	return true
}

// MoveUp moves the selection one slot up in the circular ring
// presets ++ [custom?]. Moving before the first preset lands on the custom
// value when one exists, otherwise wraps to the last preset.
func (r *RateConfig) MoveUp() {
	switch {
	case r.UsingCustom:
		r.UsingCustom = false
		r.SelectedPreset = len(r.Presets) - 1
	case r.SelectedPreset > 0:
		r.SelectedPreset--
	case r.Custom != 0:
		r.UsingCustom = true
	default:
		r.SelectedPreset = len(r.Presets) - 1
	}
}

// MoveDown moves the selection one slot down in the ring; see MoveUp.
func (r *RateConfig) MoveDown() {
	switch {
	case r.UsingCustom:
		r.UsingCustom = false
		r.SelectedPreset = 0
	case r.SelectedPreset+1 < len(r.Presets):
		r.SelectedPreset++
	case r.Custom != 0:
		r.UsingCustom = true
	default:
		r.SelectedPreset = 0
	}
}

// Statistics tracks lifetime and per-session click counters. Lifetime click
// counts are monotonically non-decreasing; an explicit reset only zeroes the
// session counters.
type Statistics struct {
	TotalClicks      uint64
	SessionClicks    uint64
	TotalSessions    uint64
	LastSessionStart int64 // unix seconds
	SessionDuration  uint64
}
