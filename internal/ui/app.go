// Package ui implements the interface state machine and render loop.
package ui

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/linux-brat/BClicker/internal/hub"
	"github.com/linux-brat/BClicker/internal/keys"
	"github.com/linux-brat/BClicker/internal/model"
	"github.com/linux-brat/BClicker/internal/notify"
)

// Mode is the active input mode. Exactly one is active; it decides how
// every incoming key event is interpreted.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditingRate
	ModeAwaitingCapture
	ModeCapturing
	ModeShowingHelp
)

const (
	// captureDebounce lets the modifier chord that triggered capture mode
	// settle before any key is recorded as the new binding.
	captureDebounce = 800 * time.Millisecond
	// rateBufferCap bounds the rate input to three digits.
	rateBufferCap = 3
	// helpScrollMax bounds the help view scroll offset.
	helpScrollMax = 20
)

// AudioControl is the slice of the audio player the state machine needs.
type AudioControl interface {
	Toggle() bool
	Enabled() bool
}

// App is the interface state machine. It is single-goroutine: the main
// loop feeds it drained events and reads its flags between passes.
type App struct {
	hub      *hub.Hub
	audio    AudioControl
	notifier notify.Notifier
	flush    func()
	logger   *slog.Logger

	mode         Mode
	rateBuffer   string
	helpScroll   int
	captureStart time.Time
	combo        keys.Combo

	debounce    time.Duration
	quit        bool
	needsRedraw bool
}

// NewApp builds the state machine in Normal mode. flush persists the
// current hub state; it is called on every mutating transition.
func NewApp(h *hub.Hub, audio AudioControl, notifier notify.Notifier, combo keys.Combo, flush func(), logger *slog.Logger) *App {
	return &App{
		hub:         h,
		audio:       audio,
		notifier:    notifier,
		flush:       flush,
		logger:      logger,
		combo:       combo,
		debounce:    captureDebounce,
		needsRedraw: true,
	}
}

// Mode returns the active input mode.
func (a *App) Mode() Mode { return a.mode }

// Quit reports whether the user asked to leave.
func (a *App) Quit() bool { return a.quit }

// Combo returns the current hotkey binding, for display and shutdown
// persistence.
func (a *App) Combo() keys.Combo { return a.combo }

// RateBuffer returns the pending rate input, for rendering.
func (a *App) RateBuffer() string { return a.rateBuffer }

// HelpScroll returns the help view scroll offset.
func (a *App) HelpScroll() int { return a.helpScroll }

// TakeRedraw consumes the pending redraw request.
func (a *App) TakeRedraw() bool {
	r := a.needsRedraw
	a.needsRedraw = false
	return r
}

// HandleTick advances time-driven transitions. Only the capture debounce
// is time-driven; everything else waits for a key.
func (a *App) HandleTick(now time.Time) {
	if a.mode == ModeAwaitingCapture && now.Sub(a.captureStart) > a.debounce {
		a.mode = ModeCapturing
		a.needsRedraw = true
	}
}

// HandleKey interprets one key event against the active mode.
func (a *App) HandleKey(ev keys.Event, now time.Time) {
	switch a.mode {
	case ModeNormal:
		a.handleNormal(ev, now)
	case ModeEditingRate:
		a.handleEditingRate(ev)
	case ModeAwaitingCapture:
		// Keys pressed during the debounce window are deliberately
		// dropped; the window exists to let the chord settle.
		a.HandleTick(now)
	case ModeCapturing:
		a.handleCapturing(ev)
	case ModeShowingHelp:
		a.handleShowingHelp(ev)
	}
}

func (a *App) handleNormal(ev keys.Event, now time.Time) {
	switch {
	case ev.Kind == keys.KindRune && ev.Rune == 'q':
		a.quit = true

	case ev.Kind == keys.KindRune && ev.Rune == '?':
		a.mode = ModeShowingHelp
		a.helpScroll = 0
		a.needsRedraw = true

	case ev.Kind == keys.KindRune && ev.Rune == 'h':
		visible := a.hub.ToggleVisible()
		if visible {
			a.notifier.Notify("BClicker", "Interface shown")
		} else {
			a.notifier.Notify("BClicker", "Hidden to system tray")
		}
		a.needsRedraw = true

	case ev.Kind == keys.KindDown || (ev.Kind == keys.KindRune && ev.Rune == 'j'):
		a.hub.UpdateRate(func(rc *model.RateConfig) { rc.MoveDown() })
		a.flush()
		a.needsRedraw = true

	case ev.Kind == keys.KindUp || (ev.Kind == keys.KindRune && ev.Rune == 'k'):
		a.hub.UpdateRate(func(rc *model.RateConfig) { rc.MoveUp() })
		a.flush()
		a.needsRedraw = true

	case ev.Kind == keys.KindRune && ev.Rune == 'e':
		a.mode = ModeEditingRate
		a.rateBuffer = ""
		a.needsRedraw = true

	case ev.Kind == keys.KindRune && ev.Rune == 's':
		a.mode = ModeAwaitingCapture
		a.captureStart = now
		a.needsRedraw = true

	case ev.Kind == keys.KindTab:
		target := a.hub.CycleTarget()
		a.notifier.Notify("Click Target", target.String())
		a.flush()
		a.needsRedraw = true

	case ev.Kind == keys.KindRune && ev.Rune == 'm':
		if a.audio.Toggle() {
			a.notifier.Notify("Audio", "Sound effects enabled")
		} else {
			a.notifier.Notify("Audio", "Sound effects disabled")
		}
		a.flush()
		a.needsRedraw = true

	case ev.Kind == keys.KindRune && ev.Rune == 'r':
		a.hub.ResetStats(now)
		a.notifier.Notify("Statistics", "Statistics reset")
		a.flush()
		a.needsRedraw = true
	}
}

func (a *App) handleEditingRate(ev keys.Event) {
	switch {
	case ev.Kind == keys.KindEnter:
		if v, err := strconv.Atoi(a.rateBuffer); err == nil {
			committed := false
			a.hub.UpdateRate(func(rc *model.RateConfig) {
				committed = rc.SetCustom(v)
			})
			if committed {
				a.notifier.Notify("Rate Updated", fmt.Sprintf("Custom rate set to %d cps", v))
				a.flush()
			}
		}
		a.mode = ModeNormal
		a.rateBuffer = ""
		a.needsRedraw = true

	case ev.Kind == keys.KindRune && ev.Rune >= '0' && ev.Rune <= '9':
		if len(a.rateBuffer) < rateBufferCap {
			a.rateBuffer += string(ev.Rune)
			a.needsRedraw = true
		}

	case ev.Kind == keys.KindBackspace:
		if len(a.rateBuffer) > 0 {
			a.rateBuffer = a.rateBuffer[:len(a.rateBuffer)-1]
			a.needsRedraw = true
		}

	case ev.Kind == keys.KindEscape:
		a.mode = ModeNormal
		a.rateBuffer = ""
		a.needsRedraw = true
	}
}

func (a *App) handleCapturing(ev keys.Event) {
	if ev.Kind == keys.KindEscape {
		a.mode = ModeNormal
		a.needsRedraw = true
		return
	}
	combo, ok := keys.ComboFromEvent(ev)
	if !ok {
		return
	}
	a.combo = combo
	a.mode = ModeNormal
	a.notifier.Notify("Hotkey Updated", fmt.Sprintf("New hotkey: %s (takes effect on restart)", combo))
	a.flush()
	a.needsRedraw = true
}

func (a *App) handleShowingHelp(ev keys.Event) {
	switch {
	case ev.Kind == keys.KindEscape,
		ev.Kind == keys.KindRune && (ev.Rune == '?' || ev.Rune == 'q'):
		a.mode = ModeNormal
		a.needsRedraw = true

	case ev.Kind == keys.KindDown || (ev.Kind == keys.KindRune && ev.Rune == 'j'):
		if a.helpScroll < helpScrollMax {
			a.helpScroll++
			a.needsRedraw = true
		}

	case ev.Kind == keys.KindUp || (ev.Kind == keys.KindRune && ev.Rune == 'k'):
		if a.helpScroll > 0 {
			a.helpScroll--
			a.needsRedraw = true
		}
	}
}
