package ui

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/linux-brat/BClicker/internal/eventmux"
)

const (
	// drawInterval paces the render loop while the interface is shown.
	drawInterval = 16 * time.Millisecond
	// hiddenInterval slows the loop down while hidden; events still drain.
	hiddenInterval = 100 * time.Millisecond
)

const (
	enterAltScreen = "\x1b[?1049h\x1b[?25l"
	leaveAltScreen = "\x1b[?25h\x1b[?1049l"
	clearScreen    = "\x1b[2J\x1b[H"
)

// Loop owns the terminal and is the sole consumer of the event queue.
type Loop struct {
	app      *App
	queue    *eventmux.Queue
	snapshot func() Snapshot

	out *os.File
}

// NewLoop wires the render loop. snapshot assembles the draw data from
// the hub and the app between passes.
func NewLoop(app *App, queue *eventmux.Queue, snapshot func() Snapshot) *Loop {
	return &Loop{app: app, queue: queue, snapshot: snapshot, out: os.Stdout}
}

// Run takes the terminal raw, then consumes events until quit. Terminal
// initialization failure is fatal and is returned before anything else
// starts drawing; callers must not spawn producers until Run's setup
// callback fires.
func (l *Loop) Run(onReady func()) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer func() {
		fmt.Fprint(l.out, leaveAltScreen)
		if rerr := term.Restore(fd, oldState); rerr != nil {
			// Best-effort terminal restore.
			_ = rerr
		}
	}()
	fmt.Fprint(l.out, enterAltScreen)

	if onReady != nil {
		onReady()
	}

	wasVisible := true
	for !l.app.Quit() {
		// Drain everything queued before deciding whether to redraw.
		for {
			ev, ok := l.queue.TryPop()
			if !ok {
				break
			}
			now := time.Now()
			switch ev := ev.(type) {
			case eventmux.KeyEvent:
				l.app.HandleKey(ev.Key, now)
			case eventmux.TickEvent:
				l.app.HandleTick(ev.At)
			}
		}

		snap := l.snapshot()
		visible := snap.Visible
		if visible != wasVisible {
			if visible {
				fmt.Fprint(l.out, enterAltScreen)
			} else {
				fmt.Fprint(l.out, leaveAltScreen)
			}
			wasVisible = visible
			l.app.needsRedraw = true
		}

		if visible && l.app.TakeRedraw() {
			l.draw(snap)
		}

		if visible {
			time.Sleep(drawInterval)
		} else {
			time.Sleep(hiddenInterval)
		}
	}
	return nil
}

func (l *Loop) draw(snap Snapshot) {
	if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
		snap.Width, snap.Height = w, h
	}
	fmt.Fprint(l.out, clearScreen)
	fmt.Fprint(l.out, Render(snap))
}
