package raster_test

import (
	"image/color"
	"testing"

	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/render"
	"github.com/plus3/sightfield/render/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.NRGBA{A: 0xFF}
	red   = color.NRGBA{R: 0xFF, A: 0xFF}
)

func TestClearAndFillCircle(t *testing.T) {
	s := raster.New(64, 48)
	w, h := s.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)

	s.Clear(black)
	s.FillCircle(32, 24, 10, red)

	img := s.Image()
	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, img.RGBAAt(32, 24))
	assert.Equal(t, color.RGBA{A: 0xFF}, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{A: 0xFF}, img.RGBAAt(32, 40))
}

func TestAlphaBlends(t *testing.T) {
	s := raster.New(16, 16)
	s.Clear(black)
	s.FillPolygon([]field.Point{{X: 0, Y: 0}, {X: 16, Y: 0}, {X: 16, Y: 16}, {X: 0, Y: 16}}, color.NRGBA{R: 0xFF, A: 0x80})

	got := s.Image().RGBAAt(8, 8)
	assert.InDelta(t, 0x80, int(got.R), 2)
	assert.Equal(t, uint8(0xFF), got.A)
}

func TestStrokeLine(t *testing.T) {
	s := raster.New(40, 40)
	s.Clear(black)
	s.StrokeLine(5, 20, 35, 20, 2, red)

	assert.Equal(t, uint8(0xFF), s.Image().RGBAAt(20, 20).R)
	assert.Equal(t, uint8(0), s.Image().RGBAAt(20, 30).R)

	// Zero-length and zero-width segments draw nothing.
	s.Clear(black)
	s.StrokeLine(10, 10, 10, 10, 2, red)
	s.StrokeLine(5, 5, 30, 30, 0, red)
	for y := range 40 {
		for x := range 40 {
			require.Equal(t, uint8(0), s.Image().RGBAAt(x, y).R)
		}
	}
}

func TestShapesPartlyOutsideAreClipped(t *testing.T) {
	s := raster.New(20, 20)
	s.Clear(black)
	assert.NotPanics(t, func() {
		s.FillCircle(0, 0, 8, red)
		s.FillCircle(-50, -50, 8, red)
		s.FillCircle(25, 10, 8, red)
		s.StrokeLine(-10, 10, 30, 10, 1, red)
	})
	assert.Equal(t, uint8(0xFF), s.Image().RGBAAt(1, 1).R)
	assert.Equal(t, uint8(0xFF), s.Image().RGBAAt(19, 10).R)
}

func TestResize(t *testing.T) {
	s := raster.New(10, 10)
	first := s.Image()

	require.NoError(t, s.Resize(10, 10))
	assert.Same(t, first, s.Image())

	require.NoError(t, s.Resize(30, 5))
	w, h := s.Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 5, h)

	require.NoError(t, s.Resize(0, 0))
	s.Clear(black)
	s.FillCircle(0, 0, 3, red)

	assert.ErrorIs(t, s.Resize(-1, 4), render.ErrInvalidSize)
}

func TestRendersField(t *testing.T) {
	b := field.Bounds{Width: 320, Height: 200}
	f, err := field.New(field.DefaultConfig(), 60, b, field.WithSeed(3))
	require.NoError(t, err)

	s := raster.New(320, 200)
	r := render.NewRenderer(f.Config(), render.DefaultOptions())
	for range 10 {
		f.Update(field.Interaction{Pointer: field.Pointer{X: 160, Y: 100, Active: true}}, 1.0/60)
		require.NoError(t, r.Render(s, f.Particles(), field.Interaction{Pointer: field.Pointer{X: 160, Y: 100, Active: true}}))
	}

	bg := render.DefaultOptions().Background
	painted := 0
	img := s.Image()
	for y := range 200 {
		for x := range 320 {
			c := img.RGBAAt(x, y)
			if c.R != bg.R || c.G != bg.G || c.B != bg.B {
				painted++
			}
		}
	}
	assert.Positive(t, painted)
}
