// Package keys defines key events, modifier bitsets, and the combo type used
// for the global hotkey binding.
package keys

import (
	"fmt"
	"strings"
)

// Mods is a bitset of held modifier keys. The numeric values are part of the
// persisted config format, so they must not change.
type Mods uint8

const (
	ModShift Mods = 1 << 0
	ModCtrl  Mods = 1 << 1
	ModAlt   Mods = 1 << 2
)

// Kind classifies a decoded terminal key event.
type Kind int

const (
	KindRune Kind = iota
	KindEnter
	KindEscape
	KindBackspace
	KindTab
	KindUp
	KindDown
	KindLeft
	KindRight
	KindFunc
)

// Event is one decoded keyboard event.
type Event struct {
	Kind Kind
	Rune rune // valid for KindRune
	Func int  // valid for KindFunc: 1..12
	Mods Mods
}

// Combo is a hotkey binding: a modifier bitset plus a single key name. Key is
// an upper-case letter ("B") or a function key ("F5").
type Combo struct {
	Mods Mods   `toml:"mods"`
	Key  string `toml:"key"`
}

// DefaultCombo is the binding registered when no config exists: Ctrl+Shift+B.
func DefaultCombo() Combo {
	return Combo{Mods: ModCtrl | ModShift, Key: "B"}
}

// String renders the combo for display, e.g. "Ctrl+Shift+B".
func (c Combo) String() string {
	var parts []string
	if c.Mods&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if c.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if c.Mods&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// Valid reports whether the combo carries a usable key name.
func (c Combo) Valid() bool {
	if len(c.Key) == 1 {
		b := c.Key[0]
		return b >= 'A' && b <= 'Z'
	}
	if strings.HasPrefix(c.Key, "F") {
		var n int
		if _, err := fmt.Sscanf(c.Key, "F%d", &n); err == nil {
			return n >= 1 && n <= 12
		}
	}
	return false
}

// ComboFromEvent captures a binding from a key event. Only letters and
// function keys qualify; everything else returns false.
func ComboFromEvent(ev Event) (Combo, bool) {
	switch ev.Kind {
	case KindFunc:
		if ev.Func < 1 || ev.Func > 12 {
			return Combo{}, false
		}
		return Combo{Mods: ev.Mods, Key: fmt.Sprintf("F%d", ev.Func)}, true
	case KindRune:
		r := ev.Rune
		mods := ev.Mods
		switch {
		case r >= 'a' && r <= 'z':
			r = r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			// An upper-case letter implies a held shift even when the
			// terminal reported no modifier bits.
			mods |= ModShift
		default:
			return Combo{}, false
		}
		return Combo{Mods: mods, Key: string(r)}, true
	default:
		return Combo{}, false
	}
}
