// Package field implements the particle simulation behind the animated page
// background: a fixed pool of drifting points that bounce off the surface
// edges, pulse in size, brighten and drift toward the pointer, and scatter
// away from click bursts.
//
// A Field is not safe for concurrent use. The scheduler package owns one
// Field per surface and is the only caller of Update.
package field

import (
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
	"github.com/charmbracelet/harmonica"
)

// Field owns the particle pool of one surface.
type Field struct {
	cfg       Config
	bounds    Bounds
	particles []Particle
	bursts    []Point

	rng    *rand.Rand
	spring harmonica.Spring
	noise  *perlin.Perlin

	// frames counts elapsed reference frames; it is the time axis of the drift noise.
	frames float64
}

// Hover swell spring parameters.
const (
	swellFrequency = 6.0
	swellDamping   = 0.6
)

// Option customises a new Field.
type Option func(*Field)

// WithSeed makes particle seeding reproducible.
func WithSeed(seed uint64) Option {
	return func(f *Field) {
		f.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

// WithRand uses the given source for particle seeding.
func WithRand(r *rand.Rand) Option {
	return func(f *Field) {
		f.rng = r
	}
}

// New creates a field with count particles spread uniformly over bounds.
// Degenerate bounds produce an empty field.
func New(cfg Config, count int, bounds Bounds, opts ...Option) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Field{
		cfg:    cfg,
		bounds: bounds,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		seed := rand.Uint64()
		f.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
	f.configure()

	if bounds.Empty() || count <= 0 {
		return f, nil
	}

	f.particles = make([]Particle, 0, count)
	for range count {
		f.particles = append(f.particles, f.spawn())
	}
	return f, nil
}

func (f *Field) configure() {
	f.spring = harmonica.NewSpring(harmonica.FPS(int(math.Round(f.cfg.ReferenceFPS))), swellFrequency, swellDamping)
	f.noise = perlin.NewPerlin(2, 2, 3, int64(f.rng.Uint64()>>1))
}

func (f *Field) spawn() Particle {
	r, c := f.rng, f.cfg

	angle := r.Float64() * 2 * math.Pi
	speed := r.Float64() * c.InitialSpeed
	base := lerp(c.RadiusMin, c.RadiusMax, r.Float64())
	amplitude := min(c.PulseAmplitude, base)
	phase := r.Float64() * 2 * math.Pi
	opacity := lerp(c.OpacityMin, c.OpacityMax, r.Float64())

	return Particle{
		X:              r.Float64() * f.bounds.Width,
		Y:              r.Float64() * f.bounds.Height,
		VX:             math.Cos(angle) * speed,
		VY:             math.Sin(angle) * speed,
		BaseRadius:     base,
		Radius:         max(0, base+amplitude*math.Sin(phase)),
		PulseAmplitude: amplitude,
		Phase:          phase,
		PulseSpeed:     lerp(c.PulseSpeedMin, c.PulseSpeedMax, r.Float64()),
		BaseOpacity:    opacity,
		Opacity:        opacity,
		ColorID:        r.IntN(len(c.Palette)),
		Kind:           f.pickKind(),
		Swell:          1,
	}
}

func (f *Field) pickKind() Kind {
	var total float64
	for _, w := range f.cfg.KindWeights {
		total += w
	}

	roll := f.rng.Float64() * total
	for i, w := range f.cfg.KindWeights {
		if roll < w {
			return Kind(i)
		}
		roll -= w
	}
	return KindPlain
}

// Particles returns the live pool. Callers must treat it as read-only; the
// slice is valid until the next call that changes the population.
func (f *Field) Particles() []Particle {
	return f.particles
}

// Len returns the population size.
func (f *Field) Len() int {
	return len(f.particles)
}

// Bounds returns the surface size the field was seeded for.
func (f *Field) Bounds() Bounds {
	return f.bounds
}

// Config returns the active configuration.
func (f *Field) Config() Config {
	return f.cfg
}

// SetConfig swaps the configuration of a live field. Existing particles keep
// their seeded attributes; the new tunables apply from the next Update.
func (f *Field) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.cfg = cfg
	f.configure()
	return nil
}

// Add inserts a particle, clamping it into bounds and fixing negative radius
// or out-of-range opacity. It returns the particle's index.
func (f *Field) Add(p Particle) int {
	p.sanitize(f.bounds)
	f.particles = append(f.particles, p)
	return len(f.particles) - 1
}

// Spawn inserts n randomly seeded particles.
func (f *Field) Spawn(n int) {
	if f.bounds.Empty() {
		return
	}
	for range n {
		f.particles = append(f.particles, f.spawn())
	}
}

// Remove deletes the particle at index i by moving the last particle into its
// slot. It reports whether i was valid.
func (f *Field) Remove(i int) bool {
	if i < 0 || i >= len(f.particles) {
		return false
	}
	last := len(f.particles) - 1
	f.particles[i] = f.particles[last]
	f.particles = f.particles[:last]
	return true
}

// Burst queues an outward impulse from (x, y) for the next Update.
func (f *Field) Burst(x, y float64) {
	f.bursts = append(f.bursts, Point{X: x, Y: y})
}

// PendingBursts returns the number of bursts queued on the field itself.
func (f *Field) PendingBursts() int {
	return len(f.bursts)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
