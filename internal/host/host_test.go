package host_test

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/internal/host"
	"github.com/plus3/sightfield/render/raster"
	"github.com/plus3/sightfield/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoResize = errors.New("surface cannot resize")

// fixedSurface refuses every resize.
type fixedSurface struct{}

func (fixedSurface) Size() (int, int)                                { return 100, 100 }
func (fixedSurface) Resize(int, int) error                           { return errNoResize }
func (fixedSurface) Clear(color.NRGBA)                               {}
func (fixedSurface) FillCircle(_, _, _ float64, _ color.NRGBA)       {}
func (fixedSurface) FillPolygon([]field.Point, color.NRGBA)          {}
func (fixedSurface) StrokeLine(_, _, _, _, _ float64, _ color.NRGBA) {}

func TestResizeLogsFailure(t *testing.T) {
	s, err := scheduler.New(field.DefaultConfig(), fixedSurface{}, nil, scheduler.WithHostFrames(),
		scheduler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	assert.False(t, host.Resize(s, logger, 640, 480))
	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "msg=resize")
	assert.Contains(t, out, "width=640")
	assert.Contains(t, out, errNoResize.Error())
}

func TestResizeAccepted(t *testing.T) {
	s, err := scheduler.New(field.DefaultConfig(), raster.New(10, 10), nil, scheduler.WithHostFrames(),
		scheduler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	require.NoError(t, s.Start(field.Bounds{Width: 10, Height: 10}))
	t.Cleanup(s.Stop)

	var buf bytes.Buffer
	assert.True(t, host.Resize(s, slog.New(slog.NewTextHandler(&buf, nil)), 1024, 768))
	assert.Empty(t, buf.String())
	assert.Equal(t, field.Bounds{Width: 1024, Height: 768}, s.Bounds())
	assert.Equal(t, field.PopulationFor(s.Config(), s.Bounds()), s.Field().Len())
}
