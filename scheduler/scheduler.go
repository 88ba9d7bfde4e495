// Package scheduler mounts a particle field on a render surface and drives it
// frame by frame.
//
// A Scheduler is Idle until Start succeeds and Running until Stop. Every tick
// snapshots the interaction tracker, updates the field, renders it and then
// runs any registered stages before flushing deferred commands. Ticks never
// overlap: a frame signal that arrives while a tick is in progress is dropped
// and counted in Stats.Skipped.
//
// Start, Stop and OnResize are serialised against each other. Stop may be
// called from inside a tick, from a stage or a deferred command; the
// remaining stages of that tick are skipped and the field is released when
// the tick ends.
package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/interaction"
	"github.com/plus3/sightfield/render"
)

var (
	// ErrNoSurface is returned by Start when there is nothing to draw on.
	ErrNoSurface = errors.New("scheduler: no drawing surface")
	// ErrEmptyBounds is returned by Start for a surface without area.
	ErrEmptyBounds = errors.New("scheduler: surface has no area")
	// ErrStagePanic wraps a value recovered from a panicking stage.
	ErrStagePanic = errors.New("scheduler: stage panicked")
	// ErrInTick is returned by Start and OnResize when called from inside a
	// tick.
	ErrInTick = errors.New("scheduler: called from inside a tick")
)

// DefaultInterval is the tick period of the internal clock.
const DefaultInterval = time.Second / 60

// State is the lifecycle state of a Scheduler.
type State int32

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Scheduler owns the field of one surface and its frame loop.
type Scheduler struct {
	surface    render.Surface
	tracker    *interaction.Tracker
	renderer   *render.Renderer
	interval   time.Duration
	hostFrames bool
	logger     *slog.Logger
	reporter   Reporter
	seed       *uint64
	burstHook  func(field.Point)

	// lifecycle serialises Start, Stop and OnResize. Lock order is
	// lifecycle, tick, mu.
	lifecycle sync.Mutex

	mu         sync.Mutex
	state      State
	cfg        field.Config
	pending    *field.Config
	bounds     field.Bounds
	field      *field.Field
	generation uint64
	queued     []Stage
	cancel     context.CancelFunc
	done       chan struct{}
	// draining is the done channel of a loop stopped from inside its own
	// tick. It closes once that tick has returned.
	draining chan struct{}

	// tick is held for the whole of a tick; the fields below belong to it.
	tick     sync.Mutex
	stages   []Stage
	names    []string
	commands *Commands
	last     time.Time
	lastGen  uint64
	halted   bool

	// owner is the id of the goroutine running the current tick, 0 between
	// ticks.
	owner atomic.Uint64

	statsMu sync.Mutex
	stats   []*stageStatsInternal

	ticks   atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
	loops   atomic.Int32
}

// New creates an idle scheduler. A nil tracker is replaced by a fresh one; a
// nil surface is accepted but Start will refuse to run.
func New(cfg field.Config, surface render.Surface, tracker *interaction.Tracker, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		surface:  surface,
		tracker:  tracker,
		interval: DefaultInterval,
		logger:   slog.Default(),
		cfg:      cfg,
		commands: newCommands(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracker == nil {
		s.tracker = interaction.NewTracker(field.Bounds{})
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer(cfg, render.DefaultOptions())
	}

	s.addStage(updateStage{})
	s.addStage(renderStage{renderer: s.renderer})
	return s, nil
}

func (s *Scheduler) addStage(stage Stage) {
	s.stages = append(s.stages, stage)
	s.names = append(s.names, stageName(stage))
	s.stats = append(s.stats, newStageStats(stage))
}

// Register appends a stage that runs after rendering on every tick. It is
// safe to call at any time, including from a running stage; the new stage
// takes part from the next tick.
func (s *Scheduler) Register(stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued = append(s.queued, stage)

	s.statsMu.Lock()
	s.stats = append(s.stats, newStageStats(stage))
	s.statsMu.Unlock()
}

// Start seeds a field for bounds and begins ticking. Starting a running
// scheduler is a no-op. Without a surface or with zero-area bounds the
// scheduler stays Idle and the cause is returned.
func (s *Scheduler) Start(bounds field.Bounds) error {
	if s.inTick() {
		s.mu.Lock()
		running := s.state == Running
		s.mu.Unlock()
		if running {
			return nil
		}
		return ErrInTick
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.drain()

	s.tick.Lock()
	defer s.tick.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Running {
		return nil
	}
	if s.surface == nil {
		s.logger.Warn("start skipped", "reason", ErrNoSurface)
		return ErrNoSurface
	}
	if bounds.Empty() {
		s.logger.Warn("start skipped", "reason", ErrEmptyBounds, "width", bounds.Width, "height", bounds.Height)
		return ErrEmptyBounds
	}

	f, err := s.seedField(bounds)
	if err != nil {
		return err
	}
	if err := s.resizeTargets(bounds); err != nil {
		return err
	}

	s.field = f
	s.bounds = bounds
	s.state = Running
	s.generation++

	if !s.hostFrames {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel, s.done = cancel, make(chan struct{})
		s.loops.Add(1)
		go s.run(ctx, s.done)
	}

	s.logger.Info("started",
		"width", bounds.Width,
		"height", bounds.Height,
		"particles", f.Len(),
		"host_frames", s.hostFrames,
	)
	return nil
}

// Stop halts the loop and releases the field. Called from outside a tick it
// blocks until the loop has exited and any tick in flight has finished, so
// nothing is drawn after it returns. Called from inside a tick it returns at
// once; the rest of that tick's stages are skipped. Stop is idempotent.
func (s *Scheduler) Stop() {
	if s.inTick() {
		s.stopFromTick()
		return
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	wasRunning := s.state == Running
	s.state = Idle
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	s.drain()

	s.tick.Lock()
	s.mu.Lock()
	s.field = nil
	s.mu.Unlock()
	s.tick.Unlock()

	if wasRunning {
		s.logger.Info("stopped", "ticks", s.ticks.Load())
	}
}

// stopFromTick marks the scheduler Idle without waiting for the tick that
// called it. The loop, if any, exits once the tick returns and frame releases
// the field.
func (s *Scheduler) stopFromTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return
	}
	s.state = Idle
	s.halted = true
	if s.cancel != nil {
		s.cancel()
		s.draining = s.done
	}
	s.cancel, s.done = nil, nil
}

// drain waits for a loop stopped from inside its own tick to exit. The caller
// holds lifecycle.
func (s *Scheduler) drain() {
	s.mu.Lock()
	draining := s.draining
	s.draining = nil
	s.mu.Unlock()

	if draining != nil {
		<-draining
	}
}

// inTick reports whether the caller is the goroutine running the current
// tick.
func (s *Scheduler) inTick() bool {
	id := s.owner.Load()
	return id != 0 && id == goid()
}

// goid returns the id of the calling goroutine, parsed from the header line
// of its stack trace.
func goid() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// OnResize adapts the surface and tracker to new bounds and, while running,
// reseeds the field with the population for the new area. Zero-area bounds
// leave an empty field ticking. OnResize never starts a loop. It returns
// ErrInTick when called from inside a tick.
func (s *Scheduler) OnResize(bounds field.Bounds) error {
	if s.inTick() {
		return ErrInTick
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.tick.Lock()
	defer s.tick.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resizeTargets(bounds); err != nil {
		return err
	}
	s.bounds = bounds
	if s.state != Running {
		return nil
	}

	f, err := s.seedField(bounds)
	if err != nil {
		return err
	}
	s.field = f

	s.logger.Info("resized",
		"width", bounds.Width,
		"height", bounds.Height,
		"particles", f.Len(),
	)
	return nil
}

func (s *Scheduler) seedField(b field.Bounds) (*field.Field, error) {
	var opts []field.Option
	if s.seed != nil {
		opts = append(opts, field.WithSeed(*s.seed))
	}
	return field.New(s.cfg, field.PopulationFor(s.cfg, b), b, opts...)
}

func (s *Scheduler) resizeTargets(b field.Bounds) error {
	s.tracker.SetBounds(b)
	if s.surface == nil {
		return nil
	}
	w, h := 0, 0
	if !b.Empty() {
		w, h = int(math.Ceil(b.Width)), int(math.Ceil(b.Height))
	}
	return s.surface.Resize(w, h)
}

func (s *Scheduler) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	defer s.loops.Add(-1)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			s.frame(-1)
		}
	}
}

// Frame is a display refresh signal. While running it performs one tick with
// the wall-clock time since the previous tick, unless a tick is already in
// progress.
func (s *Scheduler) Frame() {
	s.frame(-1)
}

// Once performs one tick with an explicit delta time in seconds. It reports
// whether a tick ran.
func (s *Scheduler) Once(dt float64) bool {
	return s.frame(max(dt, 0))
}

func (s *Scheduler) frame(dt float64) bool {
	if !s.tick.TryLock() {
		s.skipped.Add(1)
		s.logger.Debug("frame skipped, tick in progress")
		return false
	}
	defer s.tick.Unlock()
	s.owner.Store(goid())
	defer s.owner.Store(0)

	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return false
	}
	f, gen := s.field, s.generation
	pending := s.pending
	s.pending = nil
	for _, stage := range s.queued {
		s.stages = append(s.stages, stage)
		s.names = append(s.names, stageName(stage))
	}
	s.queued = s.queued[:0]
	s.mu.Unlock()

	now := time.Now()
	if dt < 0 {
		dt = 0
		if gen == s.lastGen && !s.last.IsZero() {
			dt = now.Sub(s.last).Seconds()
		}
	}
	s.last, s.lastGen = now, gen

	if pending != nil {
		if err := f.SetConfig(*pending); err != nil {
			s.logger.Error("config rejected", "err", err)
		}
		s.renderer.SetPalette(*pending)
	}

	s.runTick(f, dt)

	if s.halted {
		s.halted = false
		s.mu.Lock()
		if s.state == Idle {
			s.field = nil
		}
		s.mu.Unlock()
		s.logger.Info("stopped", "ticks", s.ticks.Load())
	}
	return true
}

func (s *Scheduler) runTick(f *field.Field, dt float64) {
	in := s.tracker.Snapshot()
	frame := &Frame{
		DeltaTime:   dt,
		Field:       f,
		Interaction: in,
		Surface:     s.surface,
		Commands:    s.commands,
	}
	if s.burstHook != nil {
		for _, b := range in.Bursts {
			s.commands.Defer(func() { s.burstHook(b) })
		}
	}

	failed := false
	for i, stage := range s.stages {
		if s.halted {
			break
		}
		start := time.Now()
		err := s.execute(stage, frame)
		s.record(i, time.Since(start))
		if err != nil {
			failed = true
			s.report(s.names[i], err)
		}
	}
	if err := s.flush(f); err != nil {
		failed = true
		s.report("commands", err)
	}

	s.ticks.Add(1)
	if failed {
		s.failed.Add(1)
	}
}

func (s *Scheduler) execute(stage Stage, frame *Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("stage panic", "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrStagePanic, r)
		}
	}()
	return stage.Execute(frame)
}

func (s *Scheduler) flush(f *field.Field) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrStagePanic, r)
		}
	}()
	s.commands.Flush(f)
	return nil
}

func (s *Scheduler) record(i int, d time.Duration) {
	s.statsMu.Lock()
	s.stats[i].record(d)
	s.statsMu.Unlock()
}

func (s *Scheduler) report(stage string, err error) {
	s.logger.Error("tick failed", "stage", stage, "err", err)
	if s.reporter != nil {
		s.reporter.TickFailed(stage, err)
	}
}

// SetConfig validates cfg and applies it to the live field at the start of
// the next tick and to every field seeded afterwards.
func (s *Scheduler) SetConfig(cfg field.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.pending = &cfg
	s.mu.Unlock()
	return nil
}

// Config returns the configuration used for new fields.
func (s *Scheduler) Config() field.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// State returns the lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Bounds returns the most recent surface bounds.
func (s *Scheduler) Bounds() field.Bounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// Field returns the live field, or nil while idle. It must only be mutated
// from a stage.
func (s *Scheduler) Field() *field.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.field
}

// Tracker returns the interaction tracker fed by the host.
func (s *Scheduler) Tracker() *interaction.Tracker {
	return s.tracker
}

// Renderer returns the renderer used by the render stage.
func (s *Scheduler) Renderer() *render.Renderer {
	return s.renderer
}

// ActiveLoops returns the number of running clock goroutines, 0 or 1.
func (s *Scheduler) ActiveLoops() int {
	return int(s.loops.Load())
}

// Stats returns tick counters and per-stage timings.
func (s *Scheduler) Stats() Stats {
	stats := Stats{
		Ticks:   s.ticks.Load(),
		Skipped: s.skipped.Load(),
		Failed:  s.failed.Load(),
	}

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	stats.Stages = make([]StageStats, len(s.stats))
	for i, internal := range s.stats {
		stats.Stages[i] = internal.snapshot()
	}
	return stats
}
