// Package tray reflects the run state on a desktop status indicator.
package tray

import "log/slog"

// Indicator mirrors engine activity. Calls arrive on the engine
// goroutine and must return quickly.
type Indicator interface {
	StartActivityIndication()
	StopActivityIndication()
}

// LogIndicator records activity transitions in the debug log. It stands
// in where no status area is available.
type LogIndicator struct {
	logger *slog.Logger
}

func NewLogIndicator(logger *slog.Logger) *LogIndicator {
	return &LogIndicator{logger: logger}
}

func (l *LogIndicator) StartActivityIndication() {
	l.logger.Debug("activity indication on")
}

func (l *LogIndicator) StopActivityIndication() {
	l.logger.Debug("activity indication off")
}
