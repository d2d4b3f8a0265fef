package thicket

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window and frame loop used by Run.
type RunConfig struct {
	Title      string
	Width      int // logical screen width
	Height     int // logical screen height
	Scale      int // window scale factor; 0 means 2
	TPS        int // ticks per second; 0 keeps ebiten's default
	ShowFPS    bool
	DebugMode  bool
	ClearColor color.Color
}

// Run opens a window and drives the registry's frame loop. Each tick calls
// update (if non-nil) and then UpdateAndDrawSprites. If the native engine is
// a FrameSource its display buffer is presented every frame. Run blocks until
// the window closes or update returns an error.
func Run(r *Registry, cfg RunConfig, update func() error) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
	r.SetDebugMode(cfg.DebugMode)
	if cfg.ShowFPS {
		r.NewSprite(NewFPSCounter())
	}
	return ebiten.RunGame(&runGame{reg: r, cfg: cfg, update: update})
}

// runGame adapts a Registry to ebiten.Game.
type runGame struct {
	reg    *Registry
	cfg    RunConfig
	update func() error
}

func (g *runGame) Update() error {
	if g.update != nil {
		if err := g.update(); err != nil {
			return err
		}
	}
	g.reg.UpdateAndDrawSprites()
	return nil
}

func (g *runGame) Draw(screen *ebiten.Image) {
	if g.cfg.ClearColor != nil {
		screen.Fill(g.cfg.ClearColor)
	}
	if fs, ok := g.reg.native.(FrameSource); ok {
		if frame := fs.Frame(); frame != nil {
			screen.DrawImage(frame, nil)
		}
	}
}

func (g *runGame) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
