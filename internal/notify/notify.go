// Package notify sends desktop notifications for state changes.
package notify

import (
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// expireTimeoutMs is passed to the notification daemon; notifications
// dismiss themselves after this long.
const expireTimeoutMs = 3000

const appName = "BClicker"

// Notifier delivers short user-facing messages. Implementations must not
// block the caller.
type Notifier interface {
	Notify(title, body string)
	Close() error
}

// Noop is the fallback when no notification daemon is reachable.
type Noop struct{}

func (Noop) Notify(title, body string) {}
func (Noop) Close() error              { return nil }

// DBus talks to org.freedesktop.Notifications on the session bus.
type DBus struct {
	conn   *dbus.Conn
	logger *slog.Logger
}

// New connects to the session bus. A missing bus is an error; callers
// degrade to Noop.
func New(logger *slog.Logger) (*DBus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &DBus{conn: conn, logger: logger}, nil
}

// Notify fires the notification on a goroutine so a slow or dead daemon
// never stalls the caller. Delivery failures are logged and dropped.
func (d *DBus) Notify(title, body string) {
	go func() {
		obj := d.conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
		call := obj.Call("org.freedesktop.Notifications.Notify", 0,
			appName,
			uint32(0), // replaces_id: always a fresh notification
			"",        // app_icon
			title,
			body,
			[]string{},
			map[string]dbus.Variant{},
			int32(expireTimeoutMs),
		)
		if call.Err != nil {
			d.logger.Debug("notification delivery failed", "err", call.Err)
		}
	}()
}

func (d *DBus) Close() error {
	return d.conn.Close()
}
