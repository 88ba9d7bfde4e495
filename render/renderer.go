package render

import (
	"image/color"
	"math"

	"github.com/plus3/sightfield/field"
)

// Renderer paints particles and their connection graph. It keeps scratch
// buffers between frames and is therefore not safe for concurrent use.
type Renderer struct {
	opts        Options
	palette     []color.RGBA
	glyphColors [3]color.RGBA

	grid    *Grid
	links   []Link
	scratch []field.Point
}

// NewRenderer creates a renderer using the palette of cfg.
func NewRenderer(cfg field.Config, opts Options) *Renderer {
	r := &Renderer{
		opts: opts,
		grid: NewGrid(),
	}
	r.SetPalette(cfg)
	return r
}

// SetPalette picks up the colors of a new field configuration.
func (r *Renderer) SetPalette(cfg field.Config) {
	r.palette = append(r.palette[:0], cfg.Palette...)
	r.glyphColors = cfg.GlyphColors
}

// Options returns the active options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the options from the next frame on.
func (r *Renderer) SetOptions(o Options) {
	r.opts = o
}

// Links computes the proximity graph of ps with the configured mode.
func (r *Renderer) Links(ps []field.Particle) []Link {
	r.links = r.links[:0]
	switch r.mode(len(ps)) {
	case LinkGrid:
		r.links = r.grid.Links(r.links, ps, r.opts.LinkRadius)
	default:
		r.links = BruteLinks(r.links, ps, r.opts.LinkRadius)
	}
	return r.links
}

func (r *Renderer) mode(n int) LinkMode {
	if r.opts.LinkMode != LinkAuto {
		return r.opts.LinkMode
	}
	if n > r.opts.GridThreshold {
		return LinkGrid
	}
	return LinkBrute
}

// Render clears s and draws one frame: particles in slice order, then the
// proximity graph, then the links to the pointer.
func (r *Renderer) Render(s Surface, ps []field.Particle, in field.Interaction) error {
	s.Clear(r.opts.Background)

	for i := range ps {
		r.drawParticle(s, &ps[i])
	}

	width := r.opts.LinkWidth
	for _, l := range r.Links(ps) {
		a, b := &ps[l.A], &ps[l.B]
		s.StrokeLine(a.X, a.Y, b.X, b.Y, width, WithAlpha(r.opts.LinkColor, l.Alpha*r.opts.LinkOpacity))
	}

	if in.Pointer.Active && r.opts.PointerLinkRadius > 0 {
		px, py := in.Pointer.X, in.Pointer.Y
		radius := r.opts.PointerLinkRadius
		for i := range ps {
			p := &ps[i]
			d := math.Hypot(p.X-px, p.Y-py)
			if d >= radius {
				continue
			}
			alpha := (radius - d) / radius * r.opts.PointerLinkOpacity
			s.StrokeLine(p.X, p.Y, px, py, width, WithAlpha(r.opts.PointerLinkColor, alpha))
		}
	}

	if p, ok := s.(Presenter); ok {
		return p.Present()
	}
	return nil
}

func (r *Renderer) drawParticle(s Surface, p *field.Particle) {
	if p.Radius <= 0 || p.Opacity <= 0 {
		return
	}

	unit := Glyph(p.Kind)
	if unit == nil {
		s.FillCircle(p.X, p.Y, p.Radius, WithAlpha(r.colorOf(p.ColorID), p.Opacity))
		return
	}

	r.scratch = placeGlyph(r.scratch, unit, p.X, p.Y, p.Radius*r.opts.GlyphScale)
	s.FillPolygon(r.scratch, WithAlpha(r.glyphColors[p.Kind-field.KindGlyphA], p.Opacity))
}

func (r *Renderer) colorOf(id int) color.RGBA {
	if len(r.palette) == 0 {
		return color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}
	if id < 0 {
		id = -id
	}
	return r.palette[id%len(r.palette)]
}
