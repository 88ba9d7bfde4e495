package sfx

import (
	"testing"
	"time"

	"github.com/plus3/sightfield/field"
	"github.com/stretchr/testify/assert"
)

func TestPitch(t *testing.T) {
	assert.Equal(t, lowFreq, Pitch(0, 800))
	assert.InDelta(t, highFreq, Pitch(800, 800), 1e-9)
	assert.InDelta(t, 440.0, Pitch(400, 800), 1e-9)
	assert.Equal(t, lowFreq, Pitch(-30, 800))
	assert.InDelta(t, highFreq, Pitch(5000, 800), 1e-9)
	assert.Equal(t, lowFreq, Pitch(100, 0))
}

func TestPopDecaysAndEnds(t *testing.T) {
	p := newPop(sampleRate, 440, 10*time.Millisecond)
	buf := make([][2]float64, 1000)

	n, ok := p.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 480, n)

	var early, late float64
	for _, s := range buf[:48] {
		early = max(early, s[0])
	}
	for _, s := range buf[432:480] {
		late = max(late, s[0])
	}
	assert.Greater(t, early, late)
	assert.LessOrEqual(t, early, 0.25)

	n, ok = p.Stream(buf)
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.NoError(t, p.Err())
}

func TestBurstCooldown(t *testing.T) {
	p := NewPlayer(800)
	p.Burst(field.Point{X: 10, Y: 10})
	assert.Zero(t, p.mixer.Len(), "uninitialised player stays silent")

	clock := time.Unix(0, 0)
	p.now = func() time.Time { return clock }
	p.initialized = true

	p.Burst(field.Point{X: 10, Y: 10})
	clock = clock.Add(10 * time.Millisecond)
	p.Burst(field.Point{X: 20, Y: 10})
	assert.Equal(t, 1, p.mixer.Len())

	clock = clock.Add(time.Second)
	p.Burst(field.Point{X: 20, Y: 10})
	assert.Equal(t, 2, p.mixer.Len())
}
