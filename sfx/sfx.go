// Package sfx plays a short pop for every click burst. It is meant to be
// wired to scheduler.WithBurstHook.
package sfx

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/sightfield/field"
)

const (
	sampleRate  = beep.SampleRate(48000)
	popDuration = 120 * time.Millisecond
	lowFreq     = 220.0
	highFreq    = 880.0
)

// Player mixes burst pops into the speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	width       float64
	cooldown    time.Duration
	last        time.Time
	now         func() time.Time
}

// NewPlayer creates a silent player; call Initialize to open the speaker.
func NewPlayer(width float64) *Player {
	return &Player{
		mixer:    &beep.Mixer{},
		width:    width,
		cooldown: 30 * time.Millisecond,
		now:      time.Now,
	}
}

// Initialize sets up the audio system.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// SetWidth updates the surface width used to pitch the pops.
func (p *Player) SetWidth(w float64) {
	p.mu.Lock()
	p.width = w
	p.mu.Unlock()
}

// Burst plays a pop pitched by the horizontal position of the burst. Bursts
// closer together than the cooldown are dropped.
func (p *Player) Burst(pt field.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	now := p.now()
	if now.Sub(p.last) < p.cooldown {
		return
	}
	p.last = now

	speaker.Lock()
	p.mixer.Add(newPop(sampleRate, Pitch(pt.X, p.width), popDuration))
	speaker.Unlock()
}

// Pitch maps a horizontal position onto the pop frequency range, left low
// and right high.
func Pitch(x, width float64) float64 {
	if !(width > 0) {
		return lowFreq
	}
	t := min(max(x/width, 0), 1)
	return lowFreq * math.Pow(highFreq/lowFreq, t)
}

// pop is a sine tone with an exponential decay envelope.
type pop struct {
	rate  beep.SampleRate
	freq  float64
	phase float64
	pos   int
	n     int
}

func newPop(rate beep.SampleRate, freq float64, d time.Duration) *pop {
	return &pop{rate: rate, freq: freq, n: rate.N(d)}
}

func (p *pop) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if p.pos >= p.n {
			return i, i > 0
		}
		t := float64(p.pos) / float64(p.n)
		v := 0.25 * math.Exp(-5*t) * math.Sin(2*math.Pi*p.phase)
		samples[i][0] = v
		samples[i][1] = v

		p.phase += p.freq / float64(p.rate)
		p.phase -= math.Floor(p.phase)
		p.pos++
	}
	return len(samples), true
}

func (p *pop) Err() error { return nil }
