//go:build linux

package inject

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"

	"github.com/linux-brat/BClicker/internal/model"
)

// X11 injects clicks through the XTEST extension on its own connection, so
// a slow display server never stalls the interface thread.
type X11 struct {
	mu      sync.Mutex
	conn    *xgb.Conn
	rootWin xproto.Window
}

// New opens an X11 connection for injection.
func New() (Injector, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to open X11 connection: %w", err)
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("failed to open X11 connection")
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to init XTEST: %w", err)
	}
	return &X11{conn: conn, rootWin: xu.RootWin()}, nil
}

// Perform presses and releases the pointer button for target.
func (x *X11) Perform(target model.Target) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	button := byte(xproto.ButtonIndex1)
	if target == model.ButtonSecondary {
		button = byte(xproto.ButtonIndex3)
	}

	if err := xtest.FakeInputChecked(
		x.conn, xproto.ButtonPress, button,
		xproto.TimeCurrentTime, x.rootWin, 0, 0, 0,
	).Check(); err != nil {
		return err
	}
	if err := xtest.FakeInputChecked(
		x.conn, xproto.ButtonRelease, button,
		xproto.TimeCurrentTime, x.rootWin, 0, 0, 0,
	).Check(); err != nil {
		return err
	}
	x.conn.Sync()
	return nil
}

// Close shuts the injection connection down.
func (x *X11) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.conn.Close()
	return nil
}
