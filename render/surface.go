// Package render draws a particle field onto a backend-neutral Surface.
//
// A Renderer never mutates the particles it is given. Backends live in the
// sub-packages: raster (software, image.RGBA), ebiten (GPU) and term (tcell).
package render

import (
	"errors"
	"image/color"

	"github.com/plus3/sightfield/field"
)

// ErrInvalidSize is returned by Surface.Resize for negative dimensions.
var ErrInvalidSize = errors.New("render: invalid surface size")

// Surface is the drawing backend a Renderer paints on. Coordinates are
// surface units with the origin at the top-left corner. Colors are
// non-premultiplied; the alpha channel carries the final opacity. The pts
// slice passed to FillPolygon is reused by the caller after the call returns.
type Surface interface {
	Size() (width, height int)
	Resize(width, height int) error
	Clear(bg color.NRGBA)
	FillCircle(cx, cy, r float64, c color.NRGBA)
	FillPolygon(pts []field.Point, c color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA)
}

// Presenter is implemented by surfaces that buffer a frame and need an
// explicit flush once drawing is complete.
type Presenter interface {
	Present() error
}

// WithAlpha returns c with its alpha replaced by a in [0,1].
func WithAlpha(c color.RGBA, a float64) color.NRGBA {
	a = min(max(a, 0), 1)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a*255 + 0.5)}
}
