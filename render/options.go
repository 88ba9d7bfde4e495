package render

import (
	"image/color"

	"github.com/plus3/sightfield/field"
)

// Options controls the connection graph and the particle shapes.
type Options struct {
	LinkRadius         float64
	PointerLinkRadius  float64
	LinkOpacity        float64
	PointerLinkOpacity float64
	LinkColor          color.RGBA
	PointerLinkColor   color.RGBA
	LinkWidth          float64

	// GlyphScale multiplies a glyph particle's radius to size its path.
	GlyphScale float64
	Background color.NRGBA

	LinkMode      LinkMode
	GridThreshold int
}

// DefaultOptions matches the landing page look.
func DefaultOptions() Options {
	return Options{
		LinkRadius:         100,
		PointerLinkRadius:  130,
		LinkOpacity:        0.35,
		PointerLinkOpacity: 0.5,
		LinkColor:          field.ColorCyan,
		PointerLinkColor:   field.ColorOrange,
		LinkWidth:          1,
		GlyphScale:         2.5,
		Background:         color.NRGBA{R: 0x0A, G: 0x12, B: 0x20, A: 0xFF},
		LinkMode:           LinkAuto,
		GridThreshold:      200,
	}
}
