package render

import (
	"math"

	"github.com/plus3/sightfield/field"
)

// Unit outlines of the glyph kinds, centred on the origin.
var (
	hexagon = func() []field.Point {
		pts := make([]field.Point, 6)
		for i := range pts {
			a := float64(i)*math.Pi/3 - math.Pi/2
			pts[i] = field.Point{X: math.Cos(a), Y: math.Sin(a)}
		}
		return pts
	}()

	cross = []field.Point{
		{X: -0.3, Y: -1}, {X: 0.3, Y: -1}, {X: 0.3, Y: -0.3}, {X: 1, Y: -0.3},
		{X: 1, Y: 0.3}, {X: 0.3, Y: 0.3}, {X: 0.3, Y: 1}, {X: -0.3, Y: 1},
		{X: -0.3, Y: 0.3}, {X: -1, Y: 0.3}, {X: -1, Y: -0.3}, {X: -0.3, Y: -0.3},
	}

	diamond = []field.Point{
		{X: 0, Y: -1.2}, {X: 0.8, Y: 0}, {X: 0, Y: 1.2}, {X: -0.8, Y: 0},
	}
)

// Glyph returns the unit outline for a kind, or nil for plain discs.
func Glyph(k field.Kind) []field.Point {
	switch k {
	case field.KindGlyphA:
		return hexagon
	case field.KindGlyphB:
		return cross
	case field.KindGlyphC:
		return diamond
	}
	return nil
}

// placeGlyph writes the outline scaled by r and centred on (cx, cy) into dst.
func placeGlyph(dst, unit []field.Point, cx, cy, r float64) []field.Point {
	dst = dst[:0]
	for _, p := range unit {
		dst = append(dst, field.Point{X: cx + p.X*r, Y: cy + p.Y*r})
	}
	return dst
}
