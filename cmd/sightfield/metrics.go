package main

import (
	"fmt"
	"time"

	"github.com/plus3/sightfield/scheduler"
)

// MetricsStage samples frame times and population for the HUD.
type MetricsStage struct {
	FrameTime    float32
	FPS          float32
	AvgFrameTime float32
	AvgFPS       float32
	MinFrameTime float32
	MaxFrameTime float32
	Particles    int
	Bursts       int

	samples  []float32
	lastTime time.Time
}

func (m *MetricsStage) Name() string { return "metrics" }

func (m *MetricsStage) Execute(frame *scheduler.Frame) error {
	now := time.Now()
	if !m.lastTime.IsZero() {
		frameTime := float32(now.Sub(m.lastTime).Seconds())
		m.FrameTime = frameTime
		if frameTime > 0 {
			m.FPS = 1.0 / frameTime
		}

		if len(m.samples) >= 60 {
			m.samples = m.samples[1:]
		}
		m.samples = append(m.samples, frameTime*1000)

		sum := float32(0)
		lo := float32(999999)
		hi := float32(0)
		for _, sample := range m.samples {
			sum += sample
			lo = min(lo, sample)
			hi = max(hi, sample)
		}
		m.AvgFrameTime = sum / float32(len(m.samples))
		if m.AvgFrameTime > 0 {
			m.AvgFPS = 1000.0 / m.AvgFrameTime
		}
		m.MinFrameTime = lo
		m.MaxFrameTime = hi
	}
	m.lastTime = now

	m.Particles = frame.Field.Len()
	m.Bursts += len(frame.Interaction.Bursts)
	return nil
}

// Text formats the metrics for the HUD.
func (m *MetricsStage) Text(stats scheduler.Stats, reduced bool) string {
	motion := "on"
	if reduced {
		motion = "reduced"
	}
	return fmt.Sprintf(
		"FPS %.0f (avg %.0f)\nframe %.2f ms [%.2f..%.2f]\nparticles %d  bursts %d\nticks %d  skipped %d  failed %d\nmotion %s\n[H] hud  [R] motion  [D] debug  [Q] quit",
		m.FPS, m.AvgFPS,
		m.AvgFrameTime, m.MinFrameTime, m.MaxFrameTime,
		m.Particles, m.Bursts,
		stats.Ticks, stats.Skipped, stats.Failed,
		motion,
	)
}
