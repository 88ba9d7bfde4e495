package field_test

import (
	"fmt"
	"testing"

	"github.com/plus3/sightfield/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60.0

func newField(t *testing.T, count int, b field.Bounds) *field.Field {
	t.Helper()
	f, err := field.New(field.DefaultConfig(), count, b, field.WithSeed(42))
	require.NoError(t, err)
	return f
}

func TestNewSeedsParticles(t *testing.T) {
	b := field.Bounds{Width: 800, Height: 600}
	f := newField(t, 50, b)
	cfg := f.Config()

	require.Equal(t, 50, f.Len())
	for i, p := range f.Particles() {
		assert.True(t, b.Contains(p.X, p.Y), "particle %d outside bounds", i)
		assert.LessOrEqual(t, p.VX*p.VX+p.VY*p.VY, cfg.InitialSpeed*cfg.InitialSpeed+1e-9)
		assert.GreaterOrEqual(t, p.Radius, 0.0)
		assert.InDelta(t, p.BaseOpacity, p.Opacity, 1e-12)
		assert.Less(t, p.ColorID, len(cfg.Palette))
		assert.LessOrEqual(t, p.Kind, field.KindGlyphC)
	}
}

func TestNewEmptyBounds(t *testing.T) {
	for _, b := range []field.Bounds{{}, {Width: 800}, {Height: 600}, {Width: -1, Height: 10}} {
		t.Run(fmt.Sprintf("%vx%v", b.Width, b.Height), func(t *testing.T) {
			f := newField(t, 50, b)
			assert.Equal(t, 0, f.Len())
			f.Update(field.Interaction{Bursts: []field.Point{{X: 1, Y: 1}}}, frame)
			assert.Equal(t, 0, f.Len())
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := field.DefaultConfig()
	cfg.Damping = 1.2

	_, err := field.New(cfg, 10, field.Bounds{Width: 10, Height: 10})
	assert.ErrorIs(t, err, field.ErrInvalidConfig)
}

func TestSeedIsReproducible(t *testing.T) {
	b := field.Bounds{Width: 640, Height: 480}
	a, err := field.New(field.DefaultConfig(), 20, b, field.WithSeed(7))
	require.NoError(t, err)
	c, err := field.New(field.DefaultConfig(), 20, b, field.WithSeed(7))
	require.NoError(t, err)

	assert.Equal(t, a.Particles(), c.Particles())
}

func TestBoundednessAndNonNegativity(t *testing.T) {
	b := field.Bounds{Width: 320, Height: 200}
	cfg := field.DefaultConfig()
	cfg.DriftGain = 0.05
	cfg.BurstGain = 40
	cfg.MaxSpeed = 0
	f, err := field.New(cfg, 80, b, field.WithSeed(3))
	require.NoError(t, err)

	for tick := range 500 {
		in := field.Interaction{
			Pointer: field.Pointer{X: float64(tick % 320), Y: float64(tick % 200), Active: tick%3 != 0},
		}
		if tick%25 == 0 {
			in.Bursts = []field.Point{{X: 160, Y: 100}, {X: 0, Y: 0}}
		}
		f.Update(in, frame)

		for i, p := range f.Particles() {
			require.True(t, b.Contains(p.X, p.Y), "tick %d particle %d at (%v,%v)", tick, i, p.X, p.Y)
			require.GreaterOrEqual(t, p.Radius, 0.0)
			require.GreaterOrEqual(t, p.Opacity, 0.0)
			require.LessOrEqual(t, p.Opacity, 1.0)
		}
	}
}

func TestReflectionLaw(t *testing.T) {
	b := field.Bounds{Width: 800, Height: 600}
	damping := field.DefaultConfig().Damping

	tests := []struct {
		name   string
		p      field.Particle
		axisX  bool
		wantAt float64
	}{
		{"right edge", field.Particle{X: 800, Y: 300, VX: 2}, true, 800},
		{"left edge", field.Particle{X: 0, Y: 300, VX: -1.5}, true, 0},
		{"bottom edge", field.Particle{X: 400, Y: 600, VY: 0.75}, false, 600},
		{"top edge", field.Particle{X: 400, Y: 0, VY: -3}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newField(t, 0, b)
			f.Add(tt.p)
			f.Update(field.Interaction{}, frame)

			got := f.Particles()[0]
			if tt.axisX {
				assert.InDelta(t, -damping*tt.p.VX, got.VX, 1e-12)
				assert.InDelta(t, tt.wantAt, got.X, 1e-12)
			} else {
				assert.InDelta(t, -damping*tt.p.VY, got.VY, 1e-12)
				assert.InDelta(t, tt.wantAt, got.Y, 1e-12)
			}
			assert.True(t, b.Contains(got.X, got.Y))
		})
	}
}

func TestAttractionMonotonicity(t *testing.T) {
	for _, base := range []float64{0.3, 0.5, 0.7} {
		t.Run(fmt.Sprintf("base=%v", base), func(t *testing.T) {
			f := newField(t, 0, field.Bounds{Width: 800, Height: 600})
			f.Add(field.Particle{X: 410, Y: 300, BaseRadius: 2, BaseOpacity: base, Opacity: base})
			f.Add(field.Particle{X: 460, Y: 300, BaseRadius: 2, BaseOpacity: base, Opacity: base})
			f.Add(field.Particle{X: 700, Y: 300, BaseRadius: 2, BaseOpacity: base, Opacity: base})

			f.Update(field.Interaction{Pointer: field.Pointer{X: 400, Y: 300, Active: true}}, frame)

			ps := f.Particles()
			assert.GreaterOrEqual(t, ps[0].Opacity, ps[1].Opacity)
			assert.GreaterOrEqual(t, ps[1].Opacity, ps[2].Opacity)
			assert.InDelta(t, base, ps[2].Opacity, 1e-12)
		})
	}
}

func TestAttractionPullsTowardPointer(t *testing.T) {
	f := newField(t, 0, field.Bounds{Width: 800, Height: 600})
	f.Add(field.Particle{X: 300, Y: 300, BaseRadius: 2, BaseOpacity: 0.5, Opacity: 0.5})

	f.Update(field.Interaction{Pointer: field.Pointer{X: 350, Y: 300, Active: true}}, frame)

	p := f.Particles()[0]
	assert.Greater(t, p.VX, 0.0)
	assert.InDelta(t, 0, p.VY, 1e-12)
}

func TestInactivePointerIsIgnored(t *testing.T) {
	f := newField(t, 0, field.Bounds{Width: 800, Height: 600})
	f.Add(field.Particle{X: 0, Y: 0, BaseRadius: 2, BaseOpacity: 0.4, Opacity: 0.4})

	// Coordinates of an inactive pointer must never count as nearby.
	f.Update(field.Interaction{Pointer: field.Pointer{X: 0, Y: 0}}, frame)

	p := f.Particles()[0]
	assert.InDelta(t, 0.4, p.Opacity, 1e-12)
	assert.Zero(t, p.VX)
	assert.Zero(t, p.VY)
}

func TestBurstAppliesOnce(t *testing.T) {
	f := newField(t, 0, field.Bounds{Width: 800, Height: 600})
	f.Add(field.Particle{X: 450, Y: 300, BaseRadius: 2, BaseOpacity: 0.5, Opacity: 0.5})
	f.Add(field.Particle{X: 400, Y: 300, BaseRadius: 2, BaseOpacity: 0.5, Opacity: 0.5})
	f.Add(field.Particle{X: 100, Y: 100, BaseRadius: 2, BaseOpacity: 0.5, Opacity: 0.5})

	f.Burst(400, 300)
	require.Equal(t, 1, f.PendingBursts())

	f.Update(field.Interaction{}, frame)
	assert.Equal(t, 0, f.PendingBursts())

	ps := f.Particles()
	assert.Greater(t, ps[0].VX, 0.0, "outward along origin to particle")
	assert.Greater(t, ps[1].VX, 0.0, "particle on the origin gets a fixed push")
	assert.Zero(t, ps[2].VX, "outside burst radius")

	after := ps[0].VX
	f.Update(field.Interaction{}, frame)
	assert.InDelta(t, after, f.Particles()[0].VX, 1e-12)
}

func TestSnapshotBurstsAreAdditive(t *testing.T) {
	f := newField(t, 0, field.Bounds{Width: 800, Height: 600})
	f.Add(field.Particle{X: 420, Y: 300, BaseRadius: 2, BaseOpacity: 0.5, Opacity: 0.5})

	f.Update(field.Interaction{Bursts: []field.Point{{X: 400, Y: 300}, {X: 400, Y: 300}}}, frame)

	cfg := f.Config()
	want := 2 * cfg.BurstGain * (1 - 20/cfg.BurstRadius)
	assert.InDelta(t, want, f.Particles()[0].VX, 1e-9)
}

func TestParallelUpdateMatchesSerial(t *testing.T) {
	b := field.Bounds{Width: 1024, Height: 768}
	serialCfg := field.DefaultConfig()
	parallelCfg := serialCfg
	parallelCfg.Workers = 4
	parallelCfg.ParallelThreshold = 0

	serial, err := field.New(serialCfg, 300, b, field.WithSeed(11))
	require.NoError(t, err)
	parallel, err := field.New(parallelCfg, 300, b, field.WithSeed(11))
	require.NoError(t, err)

	for tick := range 60 {
		in := field.Interaction{Pointer: field.Pointer{X: 512, Y: 384, Active: true}}
		if tick == 10 {
			in.Bursts = []field.Point{{X: 300, Y: 300}}
		}
		serial.Update(in, frame)
		parallel.Update(in, frame)
	}

	assert.Equal(t, serial.Particles(), parallel.Particles())
}

func TestAddClampsAndRemoveSwaps(t *testing.T) {
	f := newField(t, 0, field.Bounds{Width: 100, Height: 100})

	i := f.Add(field.Particle{X: 150, Y: -5, BaseRadius: -1, Opacity: 3, BaseOpacity: -1})
	p := f.Particles()[i]
	assert.Equal(t, 100.0, p.X)
	assert.Equal(t, 0.0, p.Y)
	assert.Equal(t, 0.0, p.BaseRadius)
	assert.Equal(t, 1.0, p.Opacity)
	assert.Equal(t, 0.0, p.BaseOpacity)
	assert.Equal(t, 1.0, p.Swell)

	f.Add(field.Particle{X: 10, Y: 10})
	f.Add(field.Particle{X: 20, Y: 20})
	require.True(t, f.Remove(0))
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, 20.0, f.Particles()[0].X)

	assert.False(t, f.Remove(5))
	assert.False(t, f.Remove(-1))

	f.Spawn(3)
	assert.Equal(t, 5, f.Len())
}

func TestReducedMotionFreezesPositions(t *testing.T) {
	cfg := field.DefaultConfig()
	cfg.ReducedMotion = true
	f, err := field.New(cfg, 30, field.Bounds{Width: 400, Height: 300}, field.WithSeed(5))
	require.NoError(t, err)

	before := append([]field.Particle(nil), f.Particles()...)
	for range 30 {
		f.Update(field.Interaction{Bursts: []field.Point{{X: 200, Y: 150}}}, frame)
	}

	for i, p := range f.Particles() {
		assert.Equal(t, before[i].X, p.X)
		assert.Equal(t, before[i].Y, p.Y)
		assert.Equal(t, before[i].Phase, p.Phase)
	}
}

func TestHoverSwell(t *testing.T) {
	f := newField(t, 0, field.Bounds{Width: 800, Height: 600})
	f.Add(field.Particle{X: 400, Y: 300, BaseRadius: 2, BaseOpacity: 0.5, Opacity: 0.5})
	hover := field.Interaction{Pointer: field.Pointer{X: 400, Y: 300, Active: true}}

	for range 120 {
		f.Particles()[0].X, f.Particles()[0].Y = 400, 300
		f.Update(hover, frame)
	}
	assert.InDelta(t, f.Config().HoverScale, f.Particles()[0].Swell, 0.02)

	for range 120 {
		f.Update(field.Interaction{}, frame)
	}
	assert.InDelta(t, 1.0, f.Particles()[0].Swell, 0.02)
}

func TestPopulationFor(t *testing.T) {
	cfg := field.DefaultConfig()

	tests := []struct {
		name string
		b    field.Bounds
		want int
	}{
		{"zero area", field.Bounds{}, 0},
		{"negative", field.Bounds{Width: -100, Height: 100}, 0},
		{"desktop 800x600", field.Bounds{Width: 800, Height: 600}, 40},
		{"desktop capped", field.Bounds{Width: 3840, Height: 2160}, cfg.MaxParticles},
		{"desktop floor", field.Bounds{Width: 800, Height: 50}, cfg.MinParticles},
		{"mobile breakpoint", field.Bounds{Width: 768, Height: 1024}, 32},
		{"mobile capped", field.Bounds{Width: 700, Height: 4000}, cfg.MobileMaxParticles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, field.PopulationFor(cfg, tt.b))
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, field.DefaultConfig().Validate())

	mutations := map[string]func(*field.Config){
		"damping zero":      func(c *field.Config) { c.Damping = 0 },
		"damping one":       func(c *field.Config) { c.Damping = 1 },
		"negative radius":   func(c *field.Config) { c.InfluenceRadius = -1 },
		"radius range":      func(c *field.Config) { c.RadiusMin, c.RadiusMax = 3, 1 },
		"opacity range":     func(c *field.Config) { c.OpacityMax = 1.5 },
		"ceiling too low":   func(c *field.Config) { c.OpacityCeiling = 0.2 },
		"empty palette":     func(c *field.Config) { c.Palette = nil },
		"zero weights":      func(c *field.Config) { c.KindWeights = [4]float64{} },
		"negative weight":   func(c *field.Config) { c.KindWeights[2] = -1 },
		"population limits": func(c *field.Config) { c.MinParticles = 200 },
		"zero fps":          func(c *field.Config) { c.ReferenceFPS = 0 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := field.DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), field.ErrInvalidConfig)
		})
	}
}

func TestSetConfig(t *testing.T) {
	f := newField(t, 10, field.Bounds{Width: 200, Height: 200})

	bad := f.Config()
	bad.Palette = nil
	assert.Error(t, f.SetConfig(bad))

	good := f.Config()
	good.InfluenceRadius = 10
	require.NoError(t, f.SetConfig(good))
	assert.Equal(t, 10.0, f.Config().InfluenceRadius)
}
