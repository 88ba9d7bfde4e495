package scheduler

import (
	"log/slog"
	"time"

	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/render"
)

// Reporter receives tick failures. It is called from the ticking goroutine.
type Reporter interface {
	TickFailed(stage string, err error)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock drives ticks from an internal ticker firing every interval.
// This is the default, at 1/60 s.
func WithClock(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
		s.hostFrames = false
	}
}

// WithHostFrames leaves ticking to the host, which calls Frame from its own
// refresh callback. No goroutine is started.
func WithHostFrames() Option {
	return func(s *Scheduler) {
		s.hostFrames = true
	}
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReporter forwards tick failures to r in addition to the log.
func WithReporter(r Reporter) Option {
	return func(s *Scheduler) {
		s.reporter = r
	}
}

// WithSeed makes every field the scheduler seeds reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Scheduler) {
		s.seed = &seed
	}
}

// WithRenderer replaces the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithBurstHook calls fn once for every burst origin consumed by a tick,
// after the tick's stages have run.
func WithBurstHook(fn func(field.Point)) Option {
	return func(s *Scheduler) {
		s.burstHook = fn
	}
}
