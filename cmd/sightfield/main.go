// Command sightfield opens a window with the interactive particle field.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sightfield/debugui"
	debugui_ebiten "github.com/plus3/sightfield/debugui/ebiten"
	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/interaction"
	"github.com/plus3/sightfield/render"
	render_ebiten "github.com/plus3/sightfield/render/ebiten"
	"github.com/plus3/sightfield/scheduler"
	"github.com/plus3/sightfield/sfx"
)

var (
	width         = flag.Int("width", 1280, "Window width")
	height        = flag.Int("height", 720, "Window height")
	seed          = flag.Uint64("seed", 0, "Random seed for the initial field (0 picks one)")
	debug         = flag.Bool("debug", false, "Show the ImGui tuning and performance overlay")
	hud           = flag.Bool("hud", true, "Show the text HUD")
	sound         = flag.Bool("sound", false, "Play a pop for every click burst")
	reducedMotion = flag.Bool("reduced-motion", false, "Start with reduced motion enabled")
	links         = flag.String("links", "auto", "Link search: auto, brute or grid")
	drift         = flag.Float64("drift", 0, "Perlin drift gain (0 disables drift)")
	verbose       = flag.Bool("v", false, "Verbose logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := field.DefaultConfig()
	cfg.ReducedMotion = *reducedMotion
	cfg.DriftGain = *drift

	opts := render.DefaultOptions()
	mode, ok := render.ParseLinkMode(*links)
	if !ok {
		log.Fatalf("unknown link mode %q", *links)
	}
	opts.LinkMode = mode

	var imguiBackend *debugui_ebiten.ImguiBackend
	if *debug {
		// The ImGui backend owns window creation.
		imguiBackend = debugui_ebiten.NewImguiBackend("sightfield", *width, *height)
	} else {
		ebiten.SetWindowSize(*width, *height)
		ebiten.SetWindowTitle("sightfield")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	bounds := field.Bounds{Width: float64(*width), Height: float64(*height)}
	surface := render_ebiten.New(*width, *height)
	surface.AntiAlias = true
	tracker := interaction.NewTracker(bounds)

	schedOpts := []scheduler.Option{
		scheduler.WithHostFrames(),
		scheduler.WithLogger(logger),
		scheduler.WithRenderer(render.NewRenderer(cfg, opts)),
	}
	if *seed != 0 {
		schedOpts = append(schedOpts, scheduler.WithSeed(*seed))
	}

	var player *sfx.Player
	if *sound {
		player = sfx.NewPlayer(bounds.Width)
		if err := player.Initialize(); err != nil {
			logger.Warn("audio disabled", "err", err)
			player = nil
		} else {
			defer player.Close()
			schedOpts = append(schedOpts, scheduler.WithBurstHook(player.Burst))
		}
	}

	sched, err := scheduler.New(cfg, surface, tracker, schedOpts...)
	if err != nil {
		log.Fatal(err)
	}

	metrics := &MetricsStage{}
	sched.Register(metrics)

	var overlay *debugui.Overlay
	if imguiBackend != nil {
		overlay = debugui.NewOverlay(sched, 120)
		overlay.Visible = true
		sched.Register(overlay)
	}

	if err := sched.Start(bounds); err != nil {
		log.Fatal(err)
	}
	defer sched.Stop()

	game := &Game{
		Scheduler: sched,
		Tracker:   tracker,
		Surface:   surface,
		Metrics:   metrics,
		Logger:    logger,
		Imgui:     imguiBackend,
		Overlay:   overlay,
		Player:    player,
		ShowHUD:   *hud,
		width:     *width,
		height:    *height,
	}

	logger.Info("starting", "width", *width, "height", *height, "links", mode.String(), "debug", *debug)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
