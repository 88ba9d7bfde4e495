package scheduler

import (
	"cmp"
	"slices"

	"github.com/plus3/sightfield/field"
)

// Commands buffers changes to the field that are applied at the end of a
// tick, after every stage has seen a consistent particle slice.
type Commands struct {
	spawns  []field.Particle
	removes []int
	bursts  []field.Point
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues particles to be added.
func (c *Commands) Spawn(ps ...field.Particle) {
	c.spawns = append(c.spawns, ps...)
}

// Remove queues removal of the particle at index i as seen during this tick.
func (c *Commands) Remove(i int) {
	c.removes = append(c.removes, i)
}

// Burst queues a burst for the next update.
func (c *Commands) Burst(x, y float64) {
	c.bursts = append(c.bursts, field.Point{X: x, Y: y})
}

// Defer queues a function to run after the field changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Flush applies all queued commands to f and resets the buffer. Removals run
// from the highest index down so the swap-remove never moves a particle that
// is still queued. A nil field only runs the deferred functions.
func (c *Commands) Flush(f *field.Field) {
	defer c.reset()

	if f != nil {
		slices.SortFunc(c.removes, func(a, b int) int { return cmp.Compare(b, a) })
		c.removes = slices.Compact(c.removes)
		for _, i := range c.removes {
			f.Remove(i)
		}

		for _, p := range c.spawns {
			f.Add(p)
		}

		for _, b := range c.bursts {
			f.Burst(b.X, b.Y)
		}
	}

	for _, fn := range c.defers {
		fn()
	}
}

func (c *Commands) reset() {
	c.spawns = c.spawns[:0]
	c.removes = c.removes[:0]
	c.bursts = c.bursts[:0]
	clear(c.defers)
	c.defers = c.defers[:0]
}
