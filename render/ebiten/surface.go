// Package ebiten is a GPU render.Surface drawing into an offscreen
// ebiten.Image. The host blits Image() onto the screen in its Draw callback.
package ebiten

import (
	"fmt"
	"image/color"

	ebitengine "github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/render"
)

// Surface paints with ebiten/v2/vector. A zero-sized surface has no image
// and ignores every draw call.
type Surface struct {
	width, height int
	img           *ebitengine.Image
	white         *ebitengine.Image
	vs            []ebitengine.Vertex
	is            []uint16

	// AntiAlias smooths edges at some GPU cost.
	AntiAlias bool
}

var _ render.Surface = (*Surface)(nil)

// New returns a surface of w×h pixels.
func New(w, h int) *Surface {
	white := ebitengine.NewImage(1, 1)
	white.Fill(color.White)

	s := &Surface{white: white, AntiAlias: true}
	_ = s.Resize(w, h)
	return s
}

// Image returns the offscreen image, or nil while the surface has no area.
func (s *Surface) Image() *ebitengine.Image {
	return s.img
}

func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

func (s *Surface) Resize(w, h int) error {
	if w < 0 || h < 0 {
		return fmt.Errorf("%w: %dx%d", render.ErrInvalidSize, w, h)
	}
	if s.img != nil && w == s.width && h == s.height {
		return nil
	}
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	s.width, s.height = w, h
	if w > 0 && h > 0 {
		s.img = ebitengine.NewImage(w, h)
	}
	return nil
}

func (s *Surface) Clear(bg color.NRGBA) {
	if s.img == nil {
		return
	}
	s.img.Fill(bg)
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	if s.img == nil || r <= 0 {
		return
	}
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(r), c, s.AntiAlias)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	if s.img == nil || width <= 0 {
		return
	}
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, s.AntiAlias)
}

func (s *Surface) FillPolygon(pts []field.Point, c color.NRGBA) {
	if s.img == nil || len(pts) < 3 {
		return
	}

	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	s.vs, s.is = path.AppendVerticesAndIndicesForFilling(s.vs[:0], s.is[:0])
	r, g, b, a := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	for i := range s.vs {
		s.vs[i].SrcX, s.vs[i].SrcY = 0.5, 0.5
		s.vs[i].ColorR, s.vs[i].ColorG, s.vs[i].ColorB, s.vs[i].ColorA = r, g, b, a
	}

	// Glyph outlines are not all convex; the fan needs a non-zero winding fill.
	s.img.DrawTriangles(s.vs, s.is, s.white, &ebitengine.DrawTrianglesOptions{
		AntiAlias: s.AntiAlias,
		FillRule:  ebitengine.NonZero,
	})
}
