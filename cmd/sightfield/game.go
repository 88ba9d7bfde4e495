package main

import (
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/plus3/sightfield/debugui"
	debugui_ebiten "github.com/plus3/sightfield/debugui/ebiten"
	"github.com/plus3/sightfield/interaction"
	"github.com/plus3/sightfield/internal/host"
	render_ebiten "github.com/plus3/sightfield/render/ebiten"
	"github.com/plus3/sightfield/scheduler"
	"github.com/plus3/sightfield/sfx"
	"golang.org/x/image/font/basicfont"
)

// Game hosts the scheduler in an ebiten window. Ticks are driven from Update;
// Draw only blits the last rendered frame.
type Game struct {
	Scheduler *scheduler.Scheduler
	Tracker   *interaction.Tracker
	Surface   *render_ebiten.Surface
	Metrics   *MetricsStage
	Logger    *slog.Logger

	// Optional.
	Imgui   *debugui_ebiten.ImguiBackend
	Overlay *debugui.Overlay
	Player  *sfx.Player

	ShowHUD bool

	face          text.Face
	width, height int
	touches       []ebiten.TouchID
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.ShowHUD = !g.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		cfg := g.Scheduler.Config()
		cfg.ReducedMotion = !cfg.ReducedMotion
		_ = g.Scheduler.SetConfig(cfg)
	}
	if g.Overlay != nil && inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.Overlay.Visible = !g.Overlay.Visible
	}

	g.feedPointer()

	if g.Imgui != nil {
		g.Imgui.Frame(g.Scheduler)
	} else {
		g.Scheduler.Frame()
	}
	return nil
}

func (g *Game) feedPointer() {
	if g.Overlay != nil && g.Overlay.Visible && g.Overlay.Input.WantCaptureMouse {
		g.Tracker.Leave()
		return
	}

	x, y := ebiten.CursorPosition()
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		g.Tracker.Leave()
	} else {
		g.Tracker.Move(float64(x), float64(y))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.Tracker.Click(float64(x), float64(y))
	}

	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		tx, ty := ebiten.TouchPosition(id)
		g.Tracker.Move(float64(tx), float64(ty))
		g.Tracker.Click(float64(tx), float64(ty))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if img := g.Surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}

	if g.ShowHUD {
		if g.face == nil {
			g.face = text.NewGoXFace(basicfont.Face7x13)
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, 8)
		op.LineSpacing = 16
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, g.Metrics.Text(g.Scheduler.Stats(), g.Scheduler.Config().ReducedMotion), g.face, op)
	}

	if g.Imgui != nil {
		g.Imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Imgui != nil {
		g.Imgui.Layout(outsideWidth, outsideHeight)
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		host.Resize(g.Scheduler, g.Logger, float64(outsideWidth), float64(outsideHeight))
		if g.Player != nil {
			g.Player.SetWidth(float64(outsideWidth))
		}
	}
	return outsideWidth, outsideHeight
}
