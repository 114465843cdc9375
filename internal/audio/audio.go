// Package audio plays the short start and stop cues.
package audio

import (
	"io"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 44100
	gain       = 0.1

	startFreq     = 880.0
	startDuration = 200 * time.Millisecond
	stopFreq      = 440.0
	stopDuration  = 150 * time.Millisecond
)

// Player renders sine cues through the system mixer. A Player whose
// device failed to open stays silent but keeps accepting calls.
type Player struct {
	ctx     *oto.Context
	enabled atomic.Bool
	logger  *slog.Logger
}

// New opens the audio device. On failure the returned player is disabled
// rather than nil, so callers never branch on audio availability.
func New(enabled bool, logger *slog.Logger) *Player {
	p := &Player{logger: logger}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		logger.Warn("audio device unavailable, cues disabled", "err", err)
		return p
	}
	<-ready
	p.ctx = ctx
	p.enabled.Store(enabled)
	return p
}

// Enabled reports whether cues will sound.
func (p *Player) Enabled() bool { return p.enabled.Load() }

// Toggle flips the mute state and returns the new value. Toggling a
// player without a device stays false.
func (p *Player) Toggle() bool {
	if p.ctx == nil {
		return false
	}
	for {
		cur := p.enabled.Load()
		if p.enabled.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// PlayStart sounds the higher engage cue.
func (p *Player) PlayStart() { p.play(startFreq, startDuration) }

// PlayStop sounds the lower disengage cue.
func (p *Player) PlayStop() { p.play(stopFreq, stopDuration) }

func (p *Player) play(freq float64, d time.Duration) {
	if p.ctx == nil || !p.enabled.Load() {
		return
	}
	player := p.ctx.NewPlayer(newSineWave(freq, d))
	player.Play()
	// The player drains on its own; reap it once the cue has finished.
	go func() {
		time.Sleep(d + 50*time.Millisecond)
		if err := player.Close(); err != nil {
			p.logger.Debug("cue player close failed", "err", err)
		}
	}()
}

// sineWave streams a fixed-length signed 16-bit mono sine tone.
type sineWave struct {
	freq      float64
	remaining int64
	pos       int64
}

func newSineWave(freq float64, d time.Duration) io.Reader {
	samples := int64(float64(sampleRate) * d.Seconds())
	return &sineWave{freq: freq, remaining: samples * 2}
}

func (s *sineWave) Read(buf []byte) (int, error) {
	if s.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(buf)) > s.remaining {
		buf = buf[:s.remaining]
	}
	// Whole samples only.
	n := len(buf) / 2 * 2
	for i := 0; i < n; i += 2 {
		v := math.Sin(2 * math.Pi * s.freq * float64(s.pos) / sampleRate)
		sample := int16(v * gain * math.MaxInt16)
		buf[i] = byte(sample)
		buf[i+1] = byte(sample >> 8)
		s.pos++
	}
	s.remaining -= int64(n)
	return n, nil
}
