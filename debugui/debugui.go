// Package debugui provides a Dear ImGui overlay for a running scheduler. It
// shows tick statistics with a frame time graph, a particle browser and live
// tuning of the field and renderer.
//
// The overlay is a scheduler stage. It queues its windows as deferred
// commands, so every ImGui call happens at the end of the tick, after the
// field has been updated and rendered. The host must bracket the tick with
// the ImGui backend's BeginFrame and EndFrame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sightfield/scheduler"
)

// Item holds a Dear ImGui render function drawn every tick.
type Item struct {
	Render func()
}

// InputState tracks whether ImGui is consuming mouse or keyboard input.
// Hosts check it before forwarding pointer events to the tracker.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay is the debug stage. Register it with the scheduler it inspects.
type Overlay struct {
	Visible bool
	Input   InputState
	Items   []Item

	sched   *scheduler.Scheduler
	perf    *PerformanceStats
	tuning  *Tuning
	browser *ParticleBrowser
}

// NewOverlay creates a visible overlay for s keeping historyFrames frame
// times for the graph.
func NewOverlay(s *scheduler.Scheduler, historyFrames int) *Overlay {
	return &Overlay{
		Visible: true,
		sched:   s,
		perf:    NewPerformanceStats(historyFrames),
		tuning:  NewTuning(s),
		browser: NewParticleBrowser(50),
	}
}

func (o *Overlay) Name() string { return "debugui" }

// Execute updates the input state and queues the overlay windows.
func (o *Overlay) Execute(frame *scheduler.Frame) error {
	io := imgui.CurrentIO()
	o.Input.WantCaptureMouse = io.WantCaptureMouse()
	o.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	if !o.Visible {
		return nil
	}

	o.perf.Record(float32(frame.DeltaTime))
	particles := frame.Field.Len()
	frame.Commands.Defer(func() {
		o.perf.Render(o.sched.Stats(), particles)
	})
	frame.Commands.Defer(o.tuning.Render)
	o.browser.Capture(frame.Field.Particles(), frame.Commands)
	frame.Commands.Defer(o.browser.Render)
	for _, item := range o.Items {
		frame.Commands.Defer(item.Render)
	}
	return nil
}
