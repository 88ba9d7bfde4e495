package field

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"golang.org/x/sync/errgroup"
)

// Update advances every particle by dt seconds under the given interaction
// and consumes all pending bursts, both those in the snapshot and those
// queued with Burst.
//
// Particles never read each other's state, so the pool is split across
// Config.Workers goroutines once it grows past Config.ParallelThreshold.
func (f *Field) Update(in Interaction, dt float64) {
	s := f.frameScale(dt)
	f.frames += s

	bursts := in.Bursts
	if len(f.bursts) > 0 {
		bursts = append(append(make([]Point, 0, len(in.Bursts)+len(f.bursts)), in.Bursts...), f.bursts...)
	}
	defer func() { f.bursts = f.bursts[:0] }()

	n := len(f.particles)
	if n == 0 {
		return
	}

	spring := f.springFor(s)

	workers := f.cfg.Workers
	if workers <= 1 || n <= f.cfg.ParallelThreshold {
		for i := range f.particles {
			f.step(&f.particles[i], in.Pointer, bursts, s, &spring)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		part := f.particles[start:min(start+chunk, n)]
		g.Go(func() error {
			for i := range part {
				f.step(&part[i], in.Pointer, bursts, s, &spring)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// frameScale converts seconds into reference frames.
func (f *Field) frameScale(dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	if f.cfg.MaxDeltaTime > 0 {
		dt = min(dt, f.cfg.MaxDeltaTime)
	}
	return dt * f.cfg.ReferenceFPS
}

// springFor returns the swell spring stepping s reference frames.
func (f *Field) springFor(s float64) harmonica.Spring {
	if s == 1 || !(s > 0) {
		return f.spring
	}
	return harmonica.NewSpring(s/f.cfg.ReferenceFPS, swellFrequency, swellDamping)
}

func (f *Field) step(p *Particle, ptr Pointer, bursts []Point, s float64, spring *harmonica.Spring) {
	c := &f.cfg
	b := f.bounds

	m := s
	if c.ReducedMotion {
		m = 0
	}

	// Move, then bounce off the edge that was crossed.
	p.X += p.VX * m
	p.Y += p.VY * m
	p.X, p.VX = reflect(p.X, p.VX, b.Width, c.Damping)
	p.Y, p.VY = reflect(p.Y, p.VY, b.Height, c.Damping)

	p.Phase = math.Mod(p.Phase+p.PulseSpeed*m, 2*math.Pi)

	relax := 1 - math.Pow(1-c.OpacityRelax, s)
	influenced, hovered := false, false
	if ptr.Active {
		dx, dy := ptr.X-p.X, ptr.Y-p.Y
		d := math.Hypot(dx, dy)
		if d < c.InfluenceRadius {
			prox := (c.InfluenceRadius - d) / c.InfluenceRadius
			p.VX += dx * prox * c.AttractionGain * m
			p.VY += dy * prox * c.AttractionGain * m

			target := p.BaseOpacity + (c.OpacityCeiling-p.BaseOpacity)*prox
			p.Opacity = approach(p.Opacity, target, c.OpacityRise*s, relax)
			influenced = true
		}
		hovered = d < c.HoverRadius
	}
	if !influenced {
		p.Opacity += (p.BaseOpacity - p.Opacity) * relax
	}
	p.Opacity = clamp(p.Opacity, 0, 1)

	if !c.ReducedMotion {
		for _, o := range bursts {
			dx, dy := p.X-o.X, p.Y-o.Y
			d := math.Hypot(dx, dy)
			if d >= c.BurstRadius {
				continue
			}
			falloff := 1 - d/c.BurstRadius
			if d == 0 {
				dx, dy, d = 1, 0, 1
			}
			p.VX += dx / d * c.BurstGain * falloff
			p.VY += dy / d * c.BurstGain * falloff
		}
	}

	if s > 0 {
		target := 1.0
		if hovered {
			target = c.HoverScale
		}
		p.Swell, p.SwellVelocity = spring.Update(p.Swell, p.SwellVelocity, target)
		if p.Swell < 0 {
			p.Swell, p.SwellVelocity = 0, 0
		}
	}
	p.Radius = max(0, (p.BaseRadius+p.PulseAmplitude*math.Sin(p.Phase))*p.Swell)

	if c.DriftGain != 0 && m > 0 {
		n := f.noise.Noise2D(p.X*c.DriftScale, p.Y*c.DriftScale+f.frames*0.002)
		angle := n * 4 * math.Pi
		p.VX += math.Cos(angle) * c.DriftGain * m
		p.VY += math.Sin(angle) * c.DriftGain * m
	}

	if c.MaxSpeed > 0 {
		if v := math.Hypot(p.VX, p.VY); v > c.MaxSpeed {
			k := c.MaxSpeed / v
			p.VX *= k
			p.VY *= k
		}
	}
}

// reflect clamps pos into [0,limit]; a velocity pointing out of the range is
// flipped and damped.
func reflect(pos, vel, limit, damping float64) (float64, float64) {
	limit = max(limit, 0)
	switch {
	case pos < 0:
		if vel < 0 {
			vel = -vel * damping
		}
		return 0, vel
	case pos > limit:
		if vel > 0 {
			vel = -vel * damping
		}
		return limit, vel
	}
	return pos, vel
}

// approach moves opacity toward a higher target by at most rise per step, and
// at least as fast as exponential relaxation; a lower target is relaxed to.
func approach(opacity, target, rise, relax float64) float64 {
	if opacity < target {
		return max(min(target, opacity+rise), opacity+(target-opacity)*relax)
	}
	return target + (opacity-target)*(1-relax)
}
