package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/render"
	"github.com/plus3/sightfield/scheduler"
)

type knob struct {
	label string
	get   func(*field.Config, *render.Options) float64
	set   func(*field.Config, *render.Options, float64)
}

var knobs = []knob{
	{"Influence radius",
		func(c *field.Config, _ *render.Options) float64 { return c.InfluenceRadius },
		func(c *field.Config, _ *render.Options, v float64) { c.InfluenceRadius = v }},
	{"Attraction gain",
		func(c *field.Config, _ *render.Options) float64 { return c.AttractionGain },
		func(c *field.Config, _ *render.Options, v float64) { c.AttractionGain = v }},
	{"Damping",
		func(c *field.Config, _ *render.Options) float64 { return c.Damping },
		func(c *field.Config, _ *render.Options, v float64) { c.Damping = v }},
	{"Max speed",
		func(c *field.Config, _ *render.Options) float64 { return c.MaxSpeed },
		func(c *field.Config, _ *render.Options, v float64) { c.MaxSpeed = v }},
	{"Burst radius",
		func(c *field.Config, _ *render.Options) float64 { return c.BurstRadius },
		func(c *field.Config, _ *render.Options, v float64) { c.BurstRadius = v }},
	{"Burst gain",
		func(c *field.Config, _ *render.Options) float64 { return c.BurstGain },
		func(c *field.Config, _ *render.Options, v float64) { c.BurstGain = v }},
	{"Hover scale",
		func(c *field.Config, _ *render.Options) float64 { return c.HoverScale },
		func(c *field.Config, _ *render.Options, v float64) { c.HoverScale = v }},
	{"Drift gain",
		func(c *field.Config, _ *render.Options) float64 { return c.DriftGain },
		func(c *field.Config, _ *render.Options, v float64) { c.DriftGain = v }},
	{"Link radius",
		func(_ *field.Config, o *render.Options) float64 { return o.LinkRadius },
		func(_ *field.Config, o *render.Options, v float64) { o.LinkRadius = v }},
	{"Link opacity",
		func(_ *field.Config, o *render.Options) float64 { return o.LinkOpacity },
		func(_ *field.Config, o *render.Options, v float64) { o.LinkOpacity = v }},
	{"Pointer link radius",
		func(_ *field.Config, o *render.Options) float64 { return o.PointerLinkRadius },
		func(_ *field.Config, o *render.Options, v float64) { o.PointerLinkRadius = v }},
}

// Tuning edits the scheduler's field configuration and render options while
// it runs. Field changes go through Scheduler.SetConfig and take effect on
// the next tick.
type Tuning struct {
	sched    *scheduler.Scheduler
	defaults field.Config
	options  render.Options
	lastErr  error
}

func NewTuning(s *scheduler.Scheduler) *Tuning {
	return &Tuning{
		sched:    s,
		defaults: s.Config(),
		options:  s.Renderer().Options(),
	}
}

// Set changes the knob with the given label.
func (t *Tuning) Set(label string, v float64) error {
	for _, k := range knobs {
		if k.label != label {
			continue
		}
		cfg := t.sched.Config()
		opts := t.sched.Renderer().Options()
		k.set(&cfg, &opts, v)
		if err := t.sched.SetConfig(cfg); err != nil {
			return err
		}
		t.sched.Renderer().SetOptions(opts)
		return nil
	}
	return fmt.Errorf("debugui: unknown knob %q", label)
}

// SetReducedMotion toggles the frozen-motion mode.
func (t *Tuning) SetReducedMotion(on bool) error {
	cfg := t.sched.Config()
	cfg.ReducedMotion = on
	return t.sched.SetConfig(cfg)
}

// SetLinkMode switches the proximity graph algorithm.
func (t *Tuning) SetLinkMode(m render.LinkMode) {
	opts := t.sched.Renderer().Options()
	opts.LinkMode = m
	t.sched.Renderer().SetOptions(opts)
}

// Reset restores the configuration and options the tuning started from.
func (t *Tuning) Reset() error {
	t.sched.Renderer().SetOptions(t.options)
	return t.sched.SetConfig(t.defaults)
}

func (t *Tuning) Render() {
	if !imgui.BeginV("Tuning", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	cfg := t.sched.Config()
	opts := t.sched.Renderer().Options()
	for _, k := range knobs {
		v := float32(k.get(&cfg, &opts))
		imgui.Text(fmt.Sprintf("%s:", k.label))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", k.label), &v) {
			t.lastErr = t.Set(k.label, float64(v))
		}
	}

	reduced := cfg.ReducedMotion
	if imgui.Checkbox("Reduced motion", &reduced) {
		t.lastErr = t.SetReducedMotion(reduced)
	}

	imgui.Text(fmt.Sprintf("Links: %s", opts.LinkMode))
	for _, m := range []render.LinkMode{render.LinkAuto, render.LinkBrute, render.LinkGrid} {
		imgui.SameLine()
		if imgui.Button(m.String()) {
			t.SetLinkMode(m)
		}
	}

	if imgui.Button("Reset") {
		t.lastErr = t.Reset()
	}
	if t.lastErr != nil {
		imgui.Separator()
		imgui.Text(t.lastErr.Error())
	}

	imgui.End()
}
