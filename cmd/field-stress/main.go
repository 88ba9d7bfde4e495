package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/interaction"
	"github.com/plus3/sightfield/render"
	"github.com/plus3/sightfield/render/raster"
	"github.com/plus3/sightfield/scheduler"
)

const linkSamples = 50

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	width := flag.Float64("width", 1920, "Surface width in pixels.")
	height := flag.Float64("height", 1080, "Surface height in pixels.")
	particles := flag.Int("particles", 0, "Particle count; 0 uses the population formula for the surface.")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "Goroutines used by the field update.")
	linkMode := flag.String("links", "auto", "Proximity graph algorithm: auto, brute or grid.")
	seed := flag.Uint64("seed", 1, "Seed for particle placement.")
	snapshot := flag.String("png", "", "Write the last rendered frame to this PNG file.")
	clickEvery := flag.Duration("click-every", 500*time.Millisecond, "Interval between synthetic click bursts; 0 disables them.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	verbose := flag.Bool("v", false, "Log scheduler events.")
	flag.Parse()

	mode, ok := render.ParseLinkMode(*linkMode)
	if !ok {
		log.Fatalf("Unknown link mode %q", *linkMode)
	}

	log.Println("Starting particle field stress test...")

	// 1. Setup configuration, surface, tracker and scheduler
	cfg := field.DefaultConfig()
	cfg.Workers = *workers
	cfg.ParallelThreshold = 1024
	if *particles > 0 {
		cfg.MinParticles = *particles
		cfg.MaxParticles = *particles
		cfg.MobileMaxParticles = *particles
	}

	opts := render.DefaultOptions()
	opts.LinkMode = mode

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	bounds := field.Bounds{Width: *width, Height: *height}
	surface := raster.New(int(*width), int(*height))
	tracker := interaction.NewTracker(bounds)
	sched, err := scheduler.New(cfg, surface, tracker,
		scheduler.WithHostFrames(),
		scheduler.WithSeed(*seed),
		scheduler.WithLogger(logger),
		scheduler.WithRenderer(render.NewRenderer(cfg, opts)),
	)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// 2. Seed the field
	if err := sched.Start(bounds); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer sched.Stop()
	log.Printf("Seeded %d particles on a %.0fx%.0f surface.\n", sched.Field().Len(), *width, *height)

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Width:          *width,
		Height:         *height,
		Particles:      sched.Field().Len(),
		Workers:        *workers,
		LinkMode:       mode.String(),
		Seed:           *seed,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()
	lastClick := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			// The pointer circles the centre of the surface.
			a := time.Since(startTime).Seconds()
			tracker.Move(bounds.Width/2+math.Cos(a)*bounds.Width/4, bounds.Height/2+math.Sin(a)*bounds.Height/4)
			if *clickEvery > 0 && time.Since(lastClick) >= *clickEvery {
				tracker.Click(bounds.Width/2, bounds.Height/2)
				lastClick = time.Now()
			}

			updateStart := time.Now()
			sched.Once(deltaTime.Seconds())
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.Scheduler = sched.Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Compare the proximity graph algorithms on the final state
	report.Links = compareLinks(sched.Field().Particles(), opts.LinkRadius)
	if report.Links[0].Links != report.Links[1].Links {
		log.Printf("Link count mismatch: brute %d, grid %d\n", report.Links[0].Links, report.Links[1].Links)
	}

	if *snapshot != "" {
		if err := writePNG(*snapshot, surface); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		report.Snapshot = *snapshot
	}

	// 5. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

func compareLinks(ps []field.Particle, radius float64) []LinkResult {
	grid := render.NewGrid()
	run := map[string]func([]render.Link) []render.Link{
		"brute": func(dst []render.Link) []render.Link { return render.BruteLinks(dst, ps, radius) },
		"grid":  func(dst []render.Link) []render.Link { return grid.Links(dst, ps, radius) },
	}

	var results []LinkResult
	for _, mode := range []string{"brute", "grid"} {
		res := LinkResult{Mode: mode}
		var links []render.Link
		for range linkSamples {
			start := time.Now()
			links = run[mode](links[:0])
			res.Time.Samples = append(res.Time.Samples, time.Since(start))
		}
		res.Links = len(links)
		res.Time.Finalize()
		results = append(results, res)
	}
	return results
}

func writePNG(path string, s *raster.Surface) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodePNG(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodePNG(w io.Writer, s *raster.Surface) error {
	return png.Encode(w, s.Image())
}
