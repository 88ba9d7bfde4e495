// Package interaction turns raw pointer events into the per-tick
// field.Interaction snapshot.
//
// Hosts call Move, Leave and Click from their input callbacks, possibly on a
// different goroutine than the frame loop; the loop calls Snapshot once per
// tick, which hands over the pointer state and drains the burst queue.
package interaction

import (
	"sync"

	"github.com/plus3/sightfield/field"
)

// DefaultMaxBursts bounds the burst queue between two ticks.
const DefaultMaxBursts = 32

// Tracker accumulates pointer input for one render surface.
type Tracker struct {
	mu sync.Mutex

	bounds         field.Bounds
	originX        float64
	originY        float64
	scaleX, scaleY float64
	maxBursts      int

	pointer field.Pointer
	bursts  []field.Point
	dropped int
}

// Option customises a Tracker.
type Option func(*Tracker)

// WithOrigin sets the position of the surface's top-left corner in the
// coordinate space events are reported in.
func WithOrigin(x, y float64) Option {
	return func(t *Tracker) {
		t.originX, t.originY = x, y
	}
}

// WithScale multiplies event coordinates (after subtracting the origin) to
// obtain surface units, e.g. terminal cells to logical pixels.
func WithScale(sx, sy float64) Option {
	return func(t *Tracker) {
		t.scaleX, t.scaleY = sx, sy
	}
}

// WithMaxBursts caps the number of queued bursts; the oldest are dropped.
func WithMaxBursts(n int) Option {
	return func(t *Tracker) {
		t.maxBursts = n
	}
}

// NewTracker creates a tracker scoped to a surface of the given size.
func NewTracker(bounds field.Bounds, opts ...Option) *Tracker {
	t := &Tracker{
		bounds:    bounds,
		scaleX:    1,
		scaleY:    1,
		maxBursts: DefaultMaxBursts,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) toSurface(x, y float64) (float64, float64, bool) {
	sx := (x - t.originX) * t.scaleX
	sy := (y - t.originY) * t.scaleY
	return sx, sy, !t.bounds.Empty() && t.bounds.Contains(sx, sy)
}

// Move records a pointer move. Positions outside the surface count as Leave.
func (t *Tracker) Move(x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sx, sy, inside := t.toSurface(x, y)
	if !inside {
		t.pointer = field.Pointer{}
		return
	}
	t.pointer = field.Pointer{X: sx, Y: sy, Active: true}
}

// Leave marks the pointer as absent.
func (t *Tracker) Leave() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pointer = field.Pointer{}
}

// Click queues a burst at the event position. Clicks outside the surface are
// ignored.
func (t *Tracker) Click(x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sx, sy, inside := t.toSurface(x, y)
	if !inside {
		return
	}
	if t.maxBursts > 0 && len(t.bursts) >= t.maxBursts {
		n := len(t.bursts) - t.maxBursts + 1
		t.bursts = append(t.bursts[:0], t.bursts[n:]...)
		t.dropped += n
	}
	t.bursts = append(t.bursts, field.Point{X: sx, Y: sy})
}

// SetBounds rescopes the tracker after a resize. A pointer that ends up
// outside the new bounds is dropped; queued bursts outside are discarded.
func (t *Tracker) SetBounds(b field.Bounds) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.bounds = b
	if t.pointer.Active && (b.Empty() || !b.Contains(t.pointer.X, t.pointer.Y)) {
		t.pointer = field.Pointer{}
	}

	kept := t.bursts[:0]
	for _, p := range t.bursts {
		if !b.Empty() && b.Contains(p.X, p.Y) {
			kept = append(kept, p)
		}
	}
	t.bursts = kept
}

// Bounds returns the current surface bounds.
func (t *Tracker) Bounds() field.Bounds {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bounds
}

// Pointer returns the current pointer without draining bursts.
func (t *Tracker) Pointer() field.Pointer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pointer
}

// Pending returns the number of queued bursts.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.bursts)
}

// Dropped returns how many bursts were discarded because the queue was full.
func (t *Tracker) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

// Snapshot returns the pointer state and hands over all queued bursts. The
// queue is empty afterwards, so each burst reaches exactly one tick.
func (t *Tracker) Snapshot() field.Interaction {
	t.mu.Lock()
	defer t.mu.Unlock()

	in := field.Interaction{Pointer: t.pointer}
	if len(t.bursts) > 0 {
		in.Bursts = t.bursts
		t.bursts = nil
	}
	return in
}
