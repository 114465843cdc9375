package hotkey

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linux-brat/BClicker/internal/hub"
	"github.com/linux-brat/BClicker/internal/keys"
	"github.com/linux-brat/BClicker/internal/model"
)

type fakeProvider struct {
	pending    atomic.Int32
	registered keys.Combo
	closed     bool
}

func (f *fakeProvider) Register(combo keys.Combo) error {
	f.registered = combo
	return nil
}

func (f *fakeProvider) Activated() bool {
	for {
		n := f.pending.Load()
		if n == 0 {
			return false
		}
		if f.pending.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListenerTogglesOncePerActivation(t *testing.T) {
	h := hub.New(model.RateConfig{Presets: model.DefaultPresets()}, model.ButtonPrimary, model.Statistics{})
	p := &fakeProvider{}
	l := NewListener(p, h, discardLogger())
	l.poll = time.Millisecond

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()

	p.pending.Store(1)
	waitFor(t, func() bool { return h.Running() })

	p.pending.Store(1)
	waitFor(t, func() bool { return !h.Running() })

	p.pending.Store(3)
	waitFor(t, func() bool { return p.pending.Load() == 0 })
	time.Sleep(10 * time.Millisecond)
	if !h.Running() {
		t.Error("three activations should leave the run flag set")
	}

	l.Stop()
	<-done
}

func TestListenerStops(t *testing.T) {
	h := hub.New(model.RateConfig{Presets: model.DefaultPresets()}, model.ButtonPrimary, model.Statistics{})
	l := NewListener(&fakeProvider{}, h, discardLogger())
	l.poll = time.Millisecond

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	l.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached within deadline")
}
