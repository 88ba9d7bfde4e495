// Command sightfield-term draws the particle field in a terminal using
// half-block cells, with mouse hover and click support.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/interaction"
	"github.com/plus3/sightfield/internal/host"
	"github.com/plus3/sightfield/render"
	"github.com/plus3/sightfield/render/term"
	"github.com/plus3/sightfield/scheduler"
	"github.com/plus3/sightfield/sfx"
)

var (
	scale         = flag.Float64("scale", 8, "Logical units per half-cell pixel")
	fps           = flag.Int("fps", 30, "Target frames per second")
	seed          = flag.Uint64("seed", 0, "Random seed for the initial field (0 picks one)")
	sound         = flag.Bool("sound", false, "Play a pop for every click burst")
	reducedMotion = flag.Bool("reduced-motion", false, "Start with reduced motion enabled")
	links         = flag.String("links", "auto", "Link search: auto, brute or grid")
	logFile       = flag.String("log", "", "Write logs to this file (the terminal is busy)")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.DiscardHandler)
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, nil))
	}

	mode, ok := render.ParseLinkMode(*links)
	if !ok {
		log.Fatalf("unknown link mode %q", *links)
	}
	if *fps <= 0 {
		log.Fatalf("fps must be positive, got %d", *fps)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	if err := run(screen, logger, mode); err != nil {
		screen.Fini()
		log.Fatal(err)
	}
	screen.Fini()
}

func run(screen tcell.Screen, logger *slog.Logger, mode render.LinkMode) error {
	surface := term.New(screen, *scale)
	w, h := surface.BoundsFor(screen.Size())
	bounds := field.Bounds{Width: float64(w), Height: float64(h)}

	// Events report cell indices; the cell centre is the pointer position.
	tracker := interaction.NewTracker(bounds,
		interaction.WithOrigin(-0.5, -0.5),
		interaction.WithScale(surface.Scale(), 2*surface.Scale()),
	)

	cfg := field.DefaultConfig()
	cfg.ReducedMotion = *reducedMotion

	opts := render.DefaultOptions()
	opts.LinkMode = mode
	// Thin lines vanish at terminal resolution.
	opts.LinkWidth = surface.Scale()

	schedOpts := []scheduler.Option{
		scheduler.WithClock(time.Second / time.Duration(*fps)),
		scheduler.WithLogger(logger),
		scheduler.WithRenderer(render.NewRenderer(cfg, opts)),
	}
	if *seed != 0 {
		schedOpts = append(schedOpts, scheduler.WithSeed(*seed))
	}
	if *sound {
		player := sfx.NewPlayer(bounds.Width)
		if err := player.Initialize(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer player.Close()
			schedOpts = append(schedOpts, scheduler.WithBurstHook(player.Burst))
		}
	}

	sched, err := scheduler.New(cfg, surface, tracker, schedOpts...)
	if err != nil {
		return err
	}
	if err := sched.Start(bounds); err != nil {
		return err
	}
	defer sched.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	var pressed bool
	for ev := range events {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return nil
			}
			if ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
				cfg := sched.Config()
				cfg.ReducedMotion = !cfg.ReducedMotion
				if err := sched.SetConfig(cfg); err != nil {
					logger.Error("toggle reduced motion", "err", err)
				}
			}

		case *tcell.EventMouse:
			x, y := ev.Position()
			tracker.Move(float64(x), float64(y))
			down := ev.Buttons()&tcell.Button1 != 0
			if down && !pressed {
				tracker.Click(float64(x), float64(y))
			}
			pressed = down

		case *tcell.EventFocus:
			if !ev.Focused {
				tracker.Leave()
			}

		case *tcell.EventResize:
			screen.Sync()
			w, h := surface.BoundsFor(ev.Size())
			host.Resize(sched, logger, float64(w), float64(h))
		}
	}
	return nil
}
