package debugui_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/plus3/sightfield/debugui"
	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/render"
	"github.com/plus3/sightfield/render/raster"
	"github.com/plus3/sightfield/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceStatsAverage(t *testing.T) {
	ps := debugui.NewPerformanceStats(4)
	assert.Zero(t, ps.AverageFrameTime())

	ps.Record(0.010)
	ps.Record(0.020)
	assert.InDelta(t, 15.0, ps.AverageFrameTime(), 1e-4)

	// The ring keeps only the newest four frames.
	for range 4 {
		ps.Record(0.005)
	}
	assert.InDelta(t, 5.0, ps.AverageFrameTime(), 1e-4)
}

func newScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()
	s, err := scheduler.New(field.DefaultConfig(), raster.New(200, 200), nil,
		scheduler.WithHostFrames(),
		scheduler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return s
}

func TestTuning(t *testing.T) {
	s := newScheduler(t)
	tuning := debugui.NewTuning(s)

	require.NoError(t, tuning.Set("Burst gain", 8))
	assert.Equal(t, 8.0, s.Config().BurstGain)

	require.NoError(t, tuning.Set("Link radius", 42))
	assert.Equal(t, 42.0, s.Renderer().Options().LinkRadius)

	err := tuning.Set("Damping", 3)
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
	assert.Equal(t, field.DefaultConfig().Damping, s.Config().Damping)

	assert.Error(t, tuning.Set("Warp factor", 9))

	require.NoError(t, tuning.SetReducedMotion(true))
	assert.True(t, s.Config().ReducedMotion)

	tuning.SetLinkMode(render.LinkGrid)
	assert.Equal(t, render.LinkGrid, s.Renderer().Options().LinkMode)

	require.NoError(t, tuning.Reset())
	assert.Equal(t, field.DefaultConfig().BurstGain, s.Config().BurstGain)
	assert.False(t, s.Config().ReducedMotion)
	assert.Equal(t, render.DefaultOptions(), s.Renderer().Options())
}
