// Package raster is a software render.Surface backed by an image.RGBA.
//
// Shapes are anti-aliased with the golang.org/x/image/vector rasterizer. The
// rasterizer is sized to each shape's clipped bounding box, so drawing cost
// scales with the shape and not with the surface.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/render"
	"golang.org/x/image/vector"
)

// Surface draws into an in-memory RGBA image.
type Surface struct {
	img  *image.RGBA
	z    *vector.Rasterizer
	src  *image.Uniform
	path []field.Point
}

var _ render.Surface = (*Surface)(nil)

// New returns a surface of w×h pixels.
func New(w, h int) *Surface {
	s := &Surface{
		z:   vector.NewRasterizer(1, 1),
		src: image.NewUniform(color.NRGBA{}),
	}
	s.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	return s
}

// Image returns the backing image. It is replaced on Resize.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) Resize(w, h int) error {
	if w < 0 || h < 0 {
		return fmt.Errorf("%w: %dx%d", render.ErrInvalidSize, w, h)
	}
	if cw, ch := s.Size(); cw == w && ch == h {
		return nil
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	return nil
}

func (s *Surface) Clear(bg color.NRGBA) {
	s.src.C = bg
	draw.Draw(s.img, s.img.Bounds(), s.src, image.Point{}, draw.Src)
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	s.path = render.AppendCircle(s.path[:0], cx, cy, r)
	s.fill(s.path, c)
}

func (s *Surface) FillPolygon(pts []field.Point, c color.NRGBA) {
	s.fill(pts, c)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	s.path = render.AppendLine(s.path[:0], x0, y0, x1, y1, width)
	s.fill(s.path, c)
}

func (s *Surface) fill(pts []field.Point, c color.NRGBA) {
	if len(pts) < 3 || c.A == 0 {
		return
	}

	minX, minY, maxX, maxY := render.PolygonBounds(pts)
	box := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(s.img.Bounds())
	if box.Empty() {
		return
	}

	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	s.z.Reset(box.Dx(), box.Dy())
	s.z.DrawOp = draw.Over
	s.z.MoveTo(float32(pts[0].X)-ox, float32(pts[0].Y)-oy)
	for _, p := range pts[1:] {
		s.z.LineTo(float32(p.X)-ox, float32(p.Y)-oy)
	}
	s.z.ClosePath()

	s.src.C = c
	s.z.Draw(s.img, box, s.src, image.Point{})
}
