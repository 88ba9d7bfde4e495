package scheduler

import (
	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/render"
)

// Stage is one step of a tick. Stages run in registration order, after the
// built-in update and render stages. A returned error or a panic marks the
// tick as failed but does not stop the loop.
type Stage interface {
	Execute(frame *Frame) error
}

// Named stages report Name() in statistics instead of their type name.
type Named interface {
	Name() string
}

// Frame is the per-tick context handed to every stage.
type Frame struct {
	DeltaTime   float64
	Field       *field.Field
	Interaction field.Interaction
	Surface     render.Surface
	Commands    *Commands
}

type updateStage struct{}

func (updateStage) Name() string { return "update" }

func (updateStage) Execute(f *Frame) error {
	f.Field.Update(f.Interaction, f.DeltaTime)
	return nil
}

type renderStage struct {
	renderer *render.Renderer
}

func (renderStage) Name() string { return "render" }

func (s renderStage) Execute(f *Frame) error {
	return s.renderer.Render(f.Surface, f.Field.Particles(), f.Interaction)
}
