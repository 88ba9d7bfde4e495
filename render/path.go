package render

import (
	"math"

	"github.com/plus3/sightfield/field"
)

func circleSegments(r float64) int {
	return min(max(int(math.Ceil(r))*4, 8), 64)
}

// AppendCircle appends a polygon approximating the disc at (cx, cy) with
// radius r. Backends without a native circle primitive fill it instead.
func AppendCircle(dst []field.Point, cx, cy, r float64) []field.Point {
	if r <= 0 {
		return dst
	}
	n := circleSegments(r)
	step := 2 * math.Pi / float64(n)
	for i := range n {
		s, c := math.Sincos(float64(i) * step)
		dst = append(dst, field.Point{X: cx + c*r, Y: cy + s*r})
	}
	return dst
}

// AppendLine appends the quad covering a segment of the given width.
// Degenerate segments append nothing.
func AppendLine(dst []field.Point, x0, y0, x1, y1, width float64) []field.Point {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 {
		return dst
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	return append(dst,
		field.Point{X: x0 + nx, Y: y0 + ny},
		field.Point{X: x1 + nx, Y: y1 + ny},
		field.Point{X: x1 - nx, Y: y1 - ny},
		field.Point{X: x0 - nx, Y: y0 - ny},
	)
}

// PolygonBounds returns the bounding box of pts.
func PolygonBounds(pts []field.Point) (minX, minY, maxX, maxY float64) {
	if len(pts) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY = minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
