package field

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid field config")

// Config holds the tunables of the simulation. All distances are in surface
// units, all per-frame quantities are expressed per reference frame.
type Config struct {
	// Motion
	ReferenceFPS float64
	MaxDeltaTime float64
	InitialSpeed float64
	Damping      float64
	MaxSpeed     float64

	// Pointer influence
	InfluenceRadius float64
	AttractionGain  float64
	OpacityCeiling  float64
	OpacityRise     float64
	OpacityRelax    float64

	// Bursts
	BurstRadius float64
	BurstGain   float64

	// Appearance
	RadiusMin      float64
	RadiusMax      float64
	PulseAmplitude float64
	PulseSpeedMin  float64
	PulseSpeedMax  float64
	OpacityMin     float64
	OpacityMax     float64
	Palette        []color.RGBA
	GlyphColors    [3]color.RGBA
	KindWeights    [4]float64

	// Hover swell
	HoverRadius float64
	HoverScale  float64

	// Ambient drift, disabled when DriftGain is zero
	DriftGain  float64
	DriftScale float64

	// Population
	AreaPerParticle       float64
	MinParticles          int
	MaxParticles          int
	MobileBreakpoint      float64
	MobileAreaPerParticle float64
	MobileMaxParticles    int

	// Parallel update
	Workers           int
	ParallelThreshold int

	ReducedMotion bool
}

// Brand colors of the chapter page.
var (
	ColorBlue   = color.RGBA{0x00, 0x62, 0x9B, 0xFF}
	ColorCyan   = color.RGBA{0x00, 0x99, 0xCC, 0xFF}
	ColorOrange = color.RGBA{0xE8, 0x77, 0x22, 0xFF}
	ColorGreen  = color.RGBA{0x00, 0x84, 0x3D, 0xFF}
)

// DefaultConfig returns the configuration used by the landing page.
func DefaultConfig() Config {
	return Config{
		ReferenceFPS: 60,
		MaxDeltaTime: 0.06,
		InitialSpeed: 0.5,
		Damping:      0.9,
		MaxSpeed:     6,

		InfluenceRadius: 120,
		AttractionGain:  0.0005,
		OpacityCeiling:  1,
		OpacityRise:     0.08,
		OpacityRelax:    0.05,

		BurstRadius: 150,
		BurstGain:   4,

		RadiusMin:      1.5,
		RadiusMax:      3.5,
		PulseAmplitude: 0.6,
		PulseSpeedMin:  0.01,
		PulseSpeedMax:  0.04,
		OpacityMin:     0.3,
		OpacityMax:     0.7,
		Palette:        []color.RGBA{ColorBlue, ColorCyan, ColorOrange, ColorGreen},
		GlyphColors:    [3]color.RGBA{ColorCyan, ColorOrange, ColorGreen},
		KindWeights:    [4]float64{0.7, 0.1, 0.1, 0.1},

		HoverRadius: 50,
		HoverScale:  1.5,

		DriftGain:  0,
		DriftScale: 0.004,

		AreaPerParticle:       12000,
		MinParticles:          12,
		MaxParticles:          150,
		MobileBreakpoint:      768,
		MobileAreaPerParticle: 24000,
		MobileMaxParticles:    40,

		Workers:           1,
		ParallelThreshold: 2048,
	}
}

// Validate checks ranges that the update step relies on.
func (c Config) Validate() error {
	switch {
	case !(c.ReferenceFPS > 0):
		return fmt.Errorf("%w: reference fps must be positive", ErrInvalidConfig)
	case c.MaxDeltaTime < 0:
		return fmt.Errorf("%w: max delta time must not be negative", ErrInvalidConfig)
	case !(c.Damping > 0 && c.Damping < 1):
		return fmt.Errorf("%w: damping %v not in (0,1)", ErrInvalidConfig, c.Damping)
	case c.InfluenceRadius < 0, c.BurstRadius < 0, c.HoverRadius < 0:
		return fmt.Errorf("%w: radii must not be negative", ErrInvalidConfig)
	case c.RadiusMin < 0 || c.RadiusMax < c.RadiusMin:
		return fmt.Errorf("%w: radius range [%v,%v]", ErrInvalidConfig, c.RadiusMin, c.RadiusMax)
	case c.PulseAmplitude < 0:
		return fmt.Errorf("%w: pulse amplitude must not be negative", ErrInvalidConfig)
	case c.PulseSpeedMax < c.PulseSpeedMin:
		return fmt.Errorf("%w: pulse speed range [%v,%v]", ErrInvalidConfig, c.PulseSpeedMin, c.PulseSpeedMax)
	case c.OpacityMin < 0 || c.OpacityMax > 1 || c.OpacityMax < c.OpacityMin:
		return fmt.Errorf("%w: opacity range [%v,%v]", ErrInvalidConfig, c.OpacityMin, c.OpacityMax)
	case c.OpacityCeiling < c.OpacityMax || c.OpacityCeiling > 1:
		return fmt.Errorf("%w: opacity ceiling %v outside [%v,1]", ErrInvalidConfig, c.OpacityCeiling, c.OpacityMax)
	case c.OpacityRise < 0 || c.OpacityRelax < 0 || c.OpacityRelax > 1:
		return fmt.Errorf("%w: opacity rates", ErrInvalidConfig)
	case c.HoverScale < 0:
		return fmt.Errorf("%w: hover scale must not be negative", ErrInvalidConfig)
	case len(c.Palette) == 0:
		return fmt.Errorf("%w: palette is empty", ErrInvalidConfig)
	case c.AreaPerParticle <= 0 || c.MobileAreaPerParticle <= 0:
		return fmt.Errorf("%w: area per particle must be positive", ErrInvalidConfig)
	case c.MinParticles < 0 || c.MaxParticles < c.MinParticles || c.MobileMaxParticles < 0:
		return fmt.Errorf("%w: population limits", ErrInvalidConfig)
	}

	var total float64
	for _, w := range c.KindWeights {
		if w < 0 {
			return fmt.Errorf("%w: kind weights must not be negative", ErrInvalidConfig)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: kind weights sum to zero", ErrInvalidConfig)
	}
	return nil
}

// PopulationFor returns the particle count for a surface of the given size.
// Surfaces at or below the mobile breakpoint get a sparser, capped population.
func PopulationFor(c Config, b Bounds) int {
	area := b.Area()
	if area == 0 {
		return 0
	}

	perParticle, upper := c.AreaPerParticle, c.MaxParticles
	if b.Width <= c.MobileBreakpoint {
		perParticle, upper = c.MobileAreaPerParticle, c.MobileMaxParticles
	}

	n := int(math.Floor(area / perParticle))
	lower := min(c.MinParticles, upper)
	return max(lower, min(n, upper))
}
