package ebiten_test

import (
	ebitengine "github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sightfield/field"
	"github.com/plus3/sightfield/render"
	render_ebiten "github.com/plus3/sightfield/render/ebiten"
)

// Game renders a field offscreen in Update and blits it in Draw.
type Game struct {
	field    *field.Field
	renderer *render.Renderer
	surface  *render_ebiten.Surface
}

func (g *Game) Update() error {
	g.field.Update(field.Interaction{}, 1.0/60.0)
	return g.renderer.Render(g.surface, g.field.Particles(), field.Interaction{})
}

func (g *Game) Draw(screen *ebitengine.Image) {
	if img := g.surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	_ = g.surface.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	cfg := field.DefaultConfig()
	bounds := field.Bounds{Width: 800, Height: 600}
	f, err := field.New(cfg, field.PopulationFor(cfg, bounds), bounds)
	if err != nil {
		panic(err)
	}

	game := &Game{
		field:    f,
		renderer: render.NewRenderer(cfg, render.DefaultOptions()),
		surface:  render_ebiten.New(800, 600),
	}

	ebitengine.SetWindowSize(800, 600)
	if err := ebitengine.RunGame(game); err != nil {
		panic(err)
	}
}
