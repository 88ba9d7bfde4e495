package render_test

import (
	"image/color"

	"github.com/plus3/sightfield/field"
)

type circleOp struct {
	X, Y, R float64
	C       color.NRGBA
}

type polygonOp struct {
	Pts []field.Point
	C   color.NRGBA
}

type lineOp struct {
	X0, Y0, X1, Y1 float64
	C              color.NRGBA
}

// recorder is a Surface that remembers every draw call.
type recorder struct {
	w, h     int
	clears   int
	bg       color.NRGBA
	circles  []circleOp
	polygons []polygonOp
	lines    []lineOp
	presents int
}

func (r *recorder) Size() (int, int) { return r.w, r.h }

func (r *recorder) Resize(w, h int) error {
	r.w, r.h = w, h
	return nil
}

func (r *recorder) Clear(bg color.NRGBA) {
	r.clears++
	r.bg = bg
	r.circles, r.polygons, r.lines = nil, nil, nil
}

func (r *recorder) FillCircle(cx, cy, radius float64, c color.NRGBA) {
	r.circles = append(r.circles, circleOp{cx, cy, radius, c})
}

func (r *recorder) FillPolygon(pts []field.Point, c color.NRGBA) {
	r.polygons = append(r.polygons, polygonOp{append([]field.Point(nil), pts...), c})
}

func (r *recorder) StrokeLine(x0, y0, x1, y1, _ float64, c color.NRGBA) {
	r.lines = append(r.lines, lineOp{x0, y0, x1, y1, c})
}

type presentingRecorder struct {
	recorder
}

func (p *presentingRecorder) Present() error {
	p.presents++
	return nil
}
