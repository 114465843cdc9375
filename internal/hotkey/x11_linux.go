//go:build linux

package hotkey

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/linux-brat/BClicker/internal/keys"
)

// X11 grabs the toggle combo on the root window. Activations are
// collected by draining the connection's event queue, so no dedicated
// event goroutine is needed.
type X11 struct {
	mu       sync.Mutex
	xu       *xgbutil.XUtil
	conn     *xgb.Conn
	rootWin  xproto.Window
	grabbed  []xproto.Keycode
	wantMods uint16
	closed   bool
}

// New opens an X11 connection for key grabbing. Fails with a wrapped
// error when no display is reachable; callers degrade to in-terminal
// toggling only.
func New() (*X11, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("connect to X server: no connection")
	}
	keybind.Initialize(xu)

	return &X11{
		xu:      xu,
		conn:    conn,
		rootWin: xu.RootWin(),
	}, nil
}

func (x *X11) Register(combo keys.Combo) error {
	if !combo.Valid() {
		return fmt.Errorf("register hotkey: invalid combo %q", combo.String())
	}

	keycodes := keybind.StrToKeycodes(x.xu, xKeyName(combo.Key))
	if len(keycodes) == 0 {
		return fmt.Errorf("register hotkey: no keycode for %q", combo.Key)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return fmt.Errorf("register hotkey: connection closed")
	}

	x.ungrabLocked()
	x.wantMods = xModMask(combo.Mods)

	// Grab with ModMaskAny and filter the modifier state per event.
	// Grabbing exact masks would miss presses with NumLock or CapsLock
	// held, and the lock-variant matrix is not worth maintaining.
	for _, keycode := range keycodes {
		err := xproto.GrabKeyChecked(
			x.conn,
			false,
			x.rootWin,
			xproto.ModMaskAny,
			keycode,
			xproto.GrabModeAsync,
			xproto.GrabModeAsync,
		).Check()
		if err != nil {
			x.ungrabLocked()
			return fmt.Errorf("grab keycode %d: %w", keycode, err)
		}
		x.grabbed = append(x.grabbed, keycode)
	}
	return nil
}

// Activated drains pending X events and reports whether a matching key
// press arrived since the last call.
func (x *X11) Activated() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return false
	}

	fired := false
	for {
		ev, err := x.conn.PollForEvent()
		if ev == nil && err == nil {
			break
		}
		if err != nil {
			continue
		}
		press, ok := ev.(xproto.KeyPressEvent)
		if !ok {
			continue
		}
		if x.matchesLocked(press) {
			fired = true
		}
	}
	return fired
}

func (x *X11) matchesLocked(press xproto.KeyPressEvent) bool {
	for _, keycode := range x.grabbed {
		if press.Detail == keycode {
			// Ignore lock and pointer-button state bits.
			const relevant = xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask1
			return press.State&relevant == x.wantMods
		}
	}
	return false
}

func (x *X11) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.closed {
		return nil
	}
	x.closed = true
	x.ungrabLocked()
	x.conn.Close()
	return nil
}

func (x *X11) ungrabLocked() {
	for _, keycode := range x.grabbed {
		xproto.UngrabKey(x.conn, keycode, x.rootWin, xproto.ModMaskAny)
	}
	x.grabbed = nil
}

func xModMask(mods keys.Mods) uint16 {
	var mask uint16
	if mods&keys.ModShift != 0 {
		mask |= xproto.ModMaskShift
	}
	if mods&keys.ModCtrl != 0 {
		mask |= xproto.ModMaskControl
	}
	if mods&keys.ModAlt != 0 {
		mask |= xproto.ModMask1
	}
	return mask
}

// xKeyName translates a stored key name into the keysym string keybind
// expects. Letters are stored uppercase but named by lowercase keysyms.
func xKeyName(key string) string {
	if len(key) == 1 {
		return strings.ToLower(key)
	}
	return key
}
