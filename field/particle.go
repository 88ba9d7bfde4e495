package field

import "math"

// Kind selects the shape a particle is drawn with.
type Kind uint8

const (
	KindPlain Kind = iota
	KindGlyphA
	KindGlyphB
	KindGlyphC
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindGlyphA:
		return "glyph-a"
	case KindGlyphB:
		return "glyph-b"
	case KindGlyphC:
		return "glyph-c"
	default:
		return "unknown"
	}
}

// Particle is a single simulated point.
type Particle struct {
	X, Y   float64
	VX, VY float64

	BaseRadius float64
	// Radius is the drawn radius, (BaseRadius + PulseAmplitude·sin Phase)·Swell.
	// Swell is 1 away from the pointer, so it only departs from the pulse
	// radius within HoverRadius, where nodes grow toward HoverScale times
	// their size.
	Radius         float64
	PulseAmplitude float64
	Phase          float64
	PulseSpeed     float64

	BaseOpacity float64
	Opacity     float64

	ColorID int
	Kind    Kind

	// Swell scales the radius while the pointer hovers nearby.
	Swell         float64
	SwellVelocity float64
}

// Distance returns the Euclidean distance from the particle to (x, y).
func (p *Particle) Distance(x, y float64) float64 {
	return math.Hypot(p.X-x, p.Y-y)
}

func (p *Particle) sanitize(b Bounds) {
	p.X, p.Y = b.Clamp(p.X, p.Y)
	p.BaseRadius = max(p.BaseRadius, 0)
	p.Radius = max(p.Radius, 0)
	p.PulseAmplitude = clamp(p.PulseAmplitude, 0, p.BaseRadius)
	p.BaseOpacity = clamp(p.BaseOpacity, 0, 1)
	p.Opacity = clamp(p.Opacity, 0, 1)
	if p.Swell <= 0 {
		p.Swell = 1
	}
}
