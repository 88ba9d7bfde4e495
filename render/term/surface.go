// Package term is a render.Surface for terminals, built on tcell.
//
// Every terminal cell shows two stacked pixels using the upper half block
// glyph: the foreground paints the top pixel, the background the bottom one.
// Logical surface units are mapped to pixels by a fixed scale so the field
// keeps its proportions on a coarse grid.
package term

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/render"
)

const halfBlock = '▀'

// Surface composites into an opaque pixel buffer and writes it to the screen
// on Present.
type Surface struct {
	screen        tcell.Screen
	scale         float64
	width, height int
	cols, rows    int
	pix           []color.RGBA

	path []field.Point
	xs   []float64
}

var _ render.Surface = (*Surface)(nil)
var _ render.Presenter = (*Surface)(nil)

// New returns a surface on screen where one pixel (half a cell) spans scale
// logical units. The surface starts sized to the whole screen.
func New(screen tcell.Screen, scale float64) *Surface {
	if !(scale > 0) {
		scale = 1
	}
	s := &Surface{screen: screen, scale: scale}
	w, h := s.BoundsFor(screen.Size())
	_ = s.Resize(w, h)
	return s
}

// Scale returns the logical units per pixel.
func (s *Surface) Scale() float64 {
	return s.scale
}

// BoundsFor returns the logical size covering cols×rows cells.
func (s *Surface) BoundsFor(cols, rows int) (int, int) {
	return int(float64(cols) * s.scale), int(float64(rows*2) * s.scale)
}

func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

func (s *Surface) Resize(w, h int) error {
	if w < 0 || h < 0 {
		return fmt.Errorf("%w: %dx%d", render.ErrInvalidSize, w, h)
	}
	s.width, s.height = w, h

	sw, sh := s.screen.Size()
	s.cols = min(int(math.Ceil(float64(w)/s.scale)), sw)
	s.rows = min(int(math.Ceil(float64(h)/(2*s.scale))), sh)
	n := s.cols * s.rows * 2
	if cap(s.pix) < n {
		s.pix = make([]color.RGBA, n)
	}
	s.pix = s.pix[:n]
	return nil
}

// At returns the composited pixel at pixel coordinates (x, y).
func (s *Surface) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= s.cols || y >= s.rows*2 {
		return color.RGBA{}
	}
	return s.pix[y*s.cols+x]
}

func (s *Surface) Clear(bg color.NRGBA) {
	c := blend(color.RGBA{A: 0xFF}, bg)
	for i := range s.pix {
		s.pix[i] = c
	}
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	if r <= 0 {
		return
	}
	if r/s.scale < 0.75 {
		s.plot(cx/s.scale, cy/s.scale, c)
		return
	}
	s.path = render.AppendCircle(s.path[:0], cx, cy, r)
	s.fill(s.path, c)
}

func (s *Surface) FillPolygon(pts []field.Point, c color.NRGBA) {
	s.fill(pts, c)
}

// StrokeLine walks the segment one pixel at a time; sub-pixel widths still
// leave a visible trace.
func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	if width <= 0 || c.A == 0 {
		return
	}
	x0, y0, x1, y1 = x0/s.scale, y0/s.scale, x1/s.scale, y1/s.scale
	steps := int(math.Ceil(max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		s.plot(x0, y0, c)
		return
	}
	lastX, lastY := -1, -1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := int(math.Floor(x0 + (x1-x0)*t))
		py := int(math.Floor(y0 + (y1-y0)*t))
		if px == lastX && py == lastY {
			continue
		}
		lastX, lastY = px, py
		s.blendAt(px, py, c)
	}
}

// Present writes the buffer to the screen and shows it.
func (s *Surface) Present() error {
	for row := range s.rows {
		top := s.pix[row*2*s.cols:]
		bottom := s.pix[(row*2+1)*s.cols:]
		for col := range s.cols {
			style := tcell.StyleDefault.
				Foreground(rgb(top[col])).
				Background(rgb(bottom[col]))
			s.screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
	s.screen.Show()
	return nil
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// fill paints every pixel whose centre lies inside pts (even-odd rule).
func (s *Surface) fill(pts []field.Point, c color.NRGBA) {
	if len(pts) < 3 || c.A == 0 {
		return
	}

	minX, minY, maxX, maxY := render.PolygonBounds(pts)
	minX, minY, maxX, maxY = minX/s.scale, minY/s.scale, maxX/s.scale, maxY/s.scale

	y0 := max(int(math.Floor(minY)), 0)
	y1 := min(int(math.Ceil(maxY)), s.rows*2)
	painted := false
	for py := y0; py < y1; py++ {
		yc := (float64(py) + 0.5) * s.scale
		s.xs = s.xs[:0]
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			if (a.Y <= yc) == (b.Y <= yc) {
				continue
			}
			s.xs = append(s.xs, a.X+(yc-a.Y)/(b.Y-a.Y)*(b.X-a.X))
		}
		slices.Sort(s.xs)
		for i := 0; i+1 < len(s.xs); i += 2 {
			// Pixel centres inside [xs[i], xs[i+1]).
			from := max(int(math.Ceil(s.xs[i]/s.scale-0.5)), 0)
			to := min(int(math.Ceil(s.xs[i+1]/s.scale-0.5)), s.cols)
			for px := from; px < to; px++ {
				s.blendAt(px, py, c)
				painted = true
			}
		}
	}

	if !painted {
		s.plot((minX+maxX)/2, (minY+maxY)/2, c)
	}
}

func (s *Surface) plot(px, py float64, c color.NRGBA) {
	s.blendAt(int(math.Floor(px)), int(math.Floor(py)), c)
}

func (s *Surface) blendAt(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= s.cols || y >= s.rows*2 {
		return
	}
	i := y*s.cols + x
	s.pix[i] = blend(s.pix[i], c)
}

func blend(dst color.RGBA, src color.NRGBA) color.RGBA {
	a := uint32(src.A)
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a) + 127) / 255)
	}
	return color.RGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 0xFF}
}
