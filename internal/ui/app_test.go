package ui

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/linux-brat/BClicker/internal/hub"
	"github.com/linux-brat/BClicker/internal/keys"
	"github.com/linux-brat/BClicker/internal/model"
)

type fakeNotifier struct {
	titles []string
}

func (f *fakeNotifier) Notify(title, body string) { f.titles = append(f.titles, title) }
func (f *fakeNotifier) Close() error              { return nil }

type fakeAudio struct {
	enabled bool
}

func (f *fakeAudio) Toggle() bool {
	f.enabled = !f.enabled
	return f.enabled
}
func (f *fakeAudio) Enabled() bool { return f.enabled }

type fixture struct {
	app     *App
	hub     *hub.Hub
	flushes int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rate := model.RateConfig{Presets: model.DefaultPresets()}
	h := hub.New(rate, model.ButtonPrimary, model.Statistics{})
	f := &fixture{hub: h}
	f.app = NewApp(h, &fakeAudio{enabled: true}, &fakeNotifier{}, keys.DefaultCombo(),
		func() { f.flushes++ },
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func runeKey(r rune) keys.Event { return keys.Event{Kind: keys.KindRune, Rune: r} }

func (f *fixture) press(t *testing.T, evs ...keys.Event) {
	t.Helper()
	for _, ev := range evs {
		f.app.HandleKey(ev, time.Now())
	}
}

func TestQuitKey(t *testing.T) {
	f := newFixture(t)
	f.press(t, runeKey('q'))
	if !f.app.Quit() {
		t.Error("q did not set quit")
	}
}

func TestSelectionRingWithoutCustom(t *testing.T) {
	f := newFixture(t)

	f.press(t, keys.Event{Kind: keys.KindUp})
	if got := f.hub.CurrentRate(); got != 50 {
		t.Errorf("up from index 0 should wrap to last preset, rate = %d", got)
	}

	f.press(t, keys.Event{Kind: keys.KindDown})
	if got := f.hub.CurrentRate(); got != 20 {
		t.Errorf("down from last preset should wrap to first, rate = %d", got)
	}
}

func TestSelectionRingWithCustom(t *testing.T) {
	f := newFixture(t)
	f.hub.UpdateRate(func(rc *model.RateConfig) { rc.SetCustom(75) })

	f.press(t, keys.Event{Kind: keys.KindDown})
	if got := f.hub.CurrentRate(); got != 20 {
		t.Errorf("down from custom should land on first preset, rate = %d", got)
	}

	f.press(t, keys.Event{Kind: keys.KindUp})
	if got := f.hub.CurrentRate(); got != 75 {
		t.Errorf("up from first preset should land on custom, rate = %d", got)
	}
}

func TestEditingRateCommit(t *testing.T) {
	f := newFixture(t)
	f.press(t, runeKey('e'))
	if f.app.Mode() != ModeEditingRate {
		t.Fatalf("mode = %v", f.app.Mode())
	}

	f.press(t, runeKey('5'), runeKey('0'), runeKey('0'))
	f.press(t, keys.Event{Kind: keys.KindEnter})

	if f.app.Mode() != ModeNormal {
		t.Errorf("mode after commit = %v", f.app.Mode())
	}
	if got := f.hub.CurrentRate(); got != 500 {
		t.Errorf("rate = %d, want 500", got)
	}
}

func TestEditingRateBufferCap(t *testing.T) {
	f := newFixture(t)
	f.press(t, runeKey('e'))
	f.press(t, runeKey('1'), runeKey('5'), runeKey('0'), runeKey('0'))
	if got := f.app.RateBuffer(); got != "150" {
		t.Errorf("buffer = %q, want fourth digit rejected", got)
	}
}

func TestEditingRateZeroDiscarded(t *testing.T) {
	f := newFixture(t)
	before := f.hub.CurrentRate()
	f.press(t, runeKey('e'), runeKey('0'))
	f.press(t, keys.Event{Kind: keys.KindEnter})
	if got := f.hub.CurrentRate(); got != before {
		t.Errorf("rate changed to %d on zero input", got)
	}
	if f.app.Mode() != ModeNormal {
		t.Errorf("mode = %v, want Normal", f.app.Mode())
	}
}

func TestEditingRateEscapeDiscards(t *testing.T) {
	f := newFixture(t)
	f.press(t, runeKey('e'), runeKey('9'))
	f.press(t, keys.Event{Kind: keys.KindEscape})
	if f.app.Mode() != ModeNormal {
		t.Errorf("mode = %v", f.app.Mode())
	}
	if got := f.hub.CurrentRate(); got != 20 {
		t.Errorf("rate = %d after discard", got)
	}
}

func TestEditingRateBackspace(t *testing.T) {
	f := newFixture(t)
	f.press(t, runeKey('e'), runeKey('4'), runeKey('2'))
	f.press(t, keys.Event{Kind: keys.KindBackspace})
	if got := f.app.RateBuffer(); got != "4" {
		t.Errorf("buffer = %q, want \"4\"", got)
	}
}

func TestCaptureDebounce(t *testing.T) {
	f := newFixture(t)
	start := time.Now()
	f.app.HandleKey(runeKey('s'), start)
	if f.app.Mode() != ModeAwaitingCapture {
		t.Fatalf("mode = %v", f.app.Mode())
	}

	// Keys during the wait are dropped, never captured.
	f.app.HandleKey(runeKey('x'), start.Add(100*time.Millisecond))
	if f.app.Mode() != ModeAwaitingCapture {
		t.Errorf("key during debounce changed mode to %v", f.app.Mode())
	}
	if f.app.Combo() != keys.DefaultCombo() {
		t.Errorf("key during debounce was captured: %v", f.app.Combo())
	}

	f.app.HandleTick(start.Add(700 * time.Millisecond))
	if f.app.Mode() != ModeAwaitingCapture {
		t.Error("transitioned before the debounce window elapsed")
	}
	f.app.HandleTick(start.Add(900 * time.Millisecond))
	if f.app.Mode() != ModeCapturing {
		t.Errorf("mode = %v after debounce, want Capturing", f.app.Mode())
	}
}

func TestCaptureCommitsCombo(t *testing.T) {
	f := newFixture(t)
	start := time.Now()
	f.app.HandleKey(runeKey('s'), start)
	f.app.HandleTick(start.Add(time.Second))

	ev := keys.Event{Kind: keys.KindRune, Rune: 'b', Mods: keys.ModCtrl | keys.ModShift}
	f.app.HandleKey(ev, start.Add(time.Second))

	want := keys.DefaultCombo()
	if f.app.Combo() != want {
		t.Errorf("captured %+v, want %+v", f.app.Combo(), want)
	}
	if f.app.Mode() != ModeNormal {
		t.Errorf("mode = %v", f.app.Mode())
	}
}

func TestCaptureEscapeCancels(t *testing.T) {
	f := newFixture(t)
	start := time.Now()
	f.app.HandleKey(runeKey('s'), start)
	f.app.HandleTick(start.Add(time.Second))
	f.app.HandleKey(keys.Event{Kind: keys.KindEscape}, start.Add(time.Second))

	if f.app.Mode() != ModeNormal {
		t.Errorf("mode = %v", f.app.Mode())
	}
	if f.app.Combo() != keys.DefaultCombo() {
		t.Errorf("escape committed a binding: %v", f.app.Combo())
	}
}

func TestHelpToggleAndScroll(t *testing.T) {
	f := newFixture(t)
	f.press(t, runeKey('?'))
	if f.app.Mode() != ModeShowingHelp {
		t.Fatalf("mode = %v", f.app.Mode())
	}

	for i := 0; i < 30; i++ {
		f.press(t, runeKey('j'))
	}
	if got := f.app.HelpScroll(); got != helpScrollMax {
		t.Errorf("scroll = %d, want capped at %d", got, helpScrollMax)
	}

	for i := 0; i < 40; i++ {
		f.press(t, runeKey('k'))
	}
	if got := f.app.HelpScroll(); got != 0 {
		t.Errorf("scroll = %d, want floored at 0", got)
	}

	f.press(t, runeKey('?'))
	if f.app.Mode() != ModeNormal {
		t.Errorf("mode = %v after help toggle", f.app.Mode())
	}
}

func TestResetStatsPreservesTotalClicks(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.hub.RecordClick()
	}
	f.press(t, runeKey('r'))

	stats := f.hub.Stats()
	if stats.SessionClicks != 0 {
		t.Errorf("SessionClicks = %d after reset", stats.SessionClicks)
	}
	if stats.TotalClicks != 5 {
		t.Errorf("TotalClicks = %d, reset must not touch the lifetime count", stats.TotalClicks)
	}
}

func TestVisibilityToggle(t *testing.T) {
	f := newFixture(t)
	f.press(t, runeKey('h'))
	if f.hub.Visible() {
		t.Error("h did not hide the interface")
	}
	f.press(t, runeKey('h'))
	if !f.hub.Visible() {
		t.Error("h did not show the interface again")
	}
}

func TestCycleTarget(t *testing.T) {
	f := newFixture(t)
	f.press(t, keys.Event{Kind: keys.KindTab})
	if got := f.hub.Target(); got != model.ButtonSecondary {
		t.Errorf("target = %v", got)
	}
	f.press(t, keys.Event{Kind: keys.KindTab})
	if got := f.hub.Target(); got != model.ButtonPrimary {
		t.Errorf("target = %v", got)
	}
}

func TestMutatingTransitionsFlush(t *testing.T) {
	f := newFixture(t)
	f.press(t, keys.Event{Kind: keys.KindDown})
	f.press(t, keys.Event{Kind: keys.KindTab})
	f.press(t, runeKey('m'))
	f.press(t, runeKey('r'))
	if f.flushes != 4 {
		t.Errorf("flushes = %d, want one per mutating transition", f.flushes)
	}
}
