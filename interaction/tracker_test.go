package interaction_test

import (
	"sync"
	"testing"

	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var surface = field.Bounds{Width: 800, Height: 600}

func TestMoveAndLeave(t *testing.T) {
	tr := interaction.NewTracker(surface)
	assert.False(t, tr.Pointer().Active)

	tr.Move(100, 200)
	assert.Equal(t, field.Pointer{X: 100, Y: 200, Active: true}, tr.Pointer())

	tr.Leave()
	assert.False(t, tr.Pointer().Active)

	tr.Move(50, 50)
	tr.Move(900, 50)
	assert.False(t, tr.Pointer().Active, "moving off the surface is a leave")
}

func TestOriginAndScale(t *testing.T) {
	tr := interaction.NewTracker(surface, interaction.WithOrigin(10, 20), interaction.WithScale(8, 16))

	tr.Move(12, 23)
	assert.Equal(t, field.Pointer{X: 16, Y: 48, Active: true}, tr.Pointer())

	tr.Click(15, 21)
	in := tr.Snapshot()
	require.Len(t, in.Bursts, 1)
	assert.Equal(t, field.Point{X: 40, Y: 16}, in.Bursts[0])
}

func TestClickQueuesBurstsUntilSnapshot(t *testing.T) {
	tr := interaction.NewTracker(surface)

	tr.Click(10, 10)
	tr.Click(20, 20)
	tr.Click(-5, 20)
	assert.Equal(t, 2, tr.Pending())

	in := tr.Snapshot()
	assert.Equal(t, []field.Point{{X: 10, Y: 10}, {X: 20, Y: 20}}, in.Bursts)
	assert.Equal(t, 0, tr.Pending())

	assert.Empty(t, tr.Snapshot().Bursts)
}

func TestSnapshotKeepsPointer(t *testing.T) {
	tr := interaction.NewTracker(surface)
	tr.Move(300, 300)

	assert.True(t, tr.Snapshot().Pointer.Active)
	assert.True(t, tr.Snapshot().Pointer.Active)
}

func TestBurstQueueCap(t *testing.T) {
	tr := interaction.NewTracker(surface, interaction.WithMaxBursts(3))
	for i := range 5 {
		tr.Click(float64(i), 0)
	}

	in := tr.Snapshot()
	assert.Equal(t, []field.Point{{X: 2}, {X: 3}, {X: 4}}, in.Bursts)
	assert.Equal(t, 2, tr.Dropped())
}

func TestSetBounds(t *testing.T) {
	tr := interaction.NewTracker(surface)
	tr.Move(700, 500)
	tr.Click(700, 500)
	tr.Click(100, 100)

	tr.SetBounds(field.Bounds{Width: 400, Height: 300})

	assert.False(t, tr.Pointer().Active)
	assert.Equal(t, []field.Point{{X: 100, Y: 100}}, tr.Snapshot().Bursts)

	tr.SetBounds(field.Bounds{})
	tr.Move(0, 0)
	tr.Click(0, 0)
	assert.False(t, tr.Pointer().Active)
	assert.Equal(t, 0, tr.Pending())
}

func TestConcurrentInput(t *testing.T) {
	tr := interaction.NewTracker(surface, interaction.WithMaxBursts(0))

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 250 {
				tr.Move(float64(i), float64(w))
				tr.Click(float64(i), float64(w))
			}
		}()
	}

	total := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		select {
		case <-done:
			total += len(tr.Snapshot().Bursts)
			assert.Equal(t, 1000, total)
			return
		default:
			total += len(tr.Snapshot().Bursts)
		}
	}
}
