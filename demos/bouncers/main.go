// bouncers spawns a few hundred boxes that ricochet off the screen walls
// and each other through MoveWithCollisions with the bounce response. A
// stress test for the collision resolver; run with -debug to log per-frame
// registry stats.
package main

import (
	"flag"
	"image/color"
	"log"
	"math/rand/v2"

	"github.com/phanxgames/thicket"
	"github.com/phanxgames/thicket/softengine"
)

const (
	screenW = 640
	screenH = 360
	wallT   = 16
)

// wall is a static collider along one screen edge.
type wall struct {
	r thicket.Rect
}

func (w *wall) Init(b *thicket.SpriteBuilder) *thicket.Sprite {
	return b.Bounds(w.r).
		CollideRect(thicket.Rect{Width: w.r.Width, Height: w.r.Height}).
		Add().
		Build()
}

// box moves in a straight line and reflects on every contact.
type box struct {
	img    *thicket.Bitmap
	dx, dy float32
	x, y   float32
}

func (bx *box) Init(b *thicket.SpriteBuilder) *thicket.Sprite {
	w, h := bx.img.Size()
	return b.Image(bx.img, thicket.FlipNone).
		MoveTo(bx.x, bx.y).
		CollideRect(thicket.Rect{Width: float32(w), Height: float32(h)}).
		Add().
		Build()
}

func (bx *box) Collide(thicket.CollisionContext) thicket.CollisionResponse {
	return thicket.CollisionBounce
}

func (bx *box) Update(ctx thicket.UpdateContext) thicket.Persistence {
	p := ctx.Sprite.Position()
	ctx.Sprite.MoveWithCollisions(p.X+bx.dx, p.Y+bx.dy, func(_ thicket.SpriteView, cols []thicket.CollisionInfo) {
		for _, c := range cols {
			if c.Normal.X != 0 {
				bx.dx = float32(c.Normal.X) * abs(bx.dx)
			}
			if c.Normal.Y != 0 {
				bx.dy = float32(c.Normal.Y) * abs(bx.dy)
			}
		}
	})
	return thicket.Keep
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func main() {
	count := flag.Int("n", 300, "number of boxes")
	debug := flag.Bool("debug", false, "log per-frame registry stats")
	flag.Parse()

	engine := softengine.New(screenW, screenH)
	engine.AttachFrame()
	reg := thicket.NewRegistry(engine)

	for _, r := range []thicket.Rect{
		{X: -wallT, Y: -wallT, Width: screenW + 2*wallT, Height: wallT},
		{X: -wallT, Y: screenH, Width: screenW + 2*wallT, Height: wallT},
		{X: -wallT, Y: 0, Width: wallT, Height: screenH},
		{X: screenW, Y: 0, Width: wallT, Height: screenH},
	} {
		reg.NewSprite(&wall{r: r})
	}

	palette := make([]*thicket.Bitmap, 6)
	for i := range palette {
		palette[i] = thicket.NewSolidBitmap(6+i, 6+i, color.RGBA{
			R: uint8(128 + rand.IntN(128)),
			G: uint8(128 + rand.IntN(128)),
			B: uint8(128 + rand.IntN(128)),
			A: 0xff,
		})
	}

	// Boxes are placed on a grid so none start overlapping.
	const cell = 20
	cols := (screenW - 2*cell) / cell
	for i := 0; i < *count && i < cols*((screenH-2*cell)/cell); i++ {
		reg.NewSprite(&box{
			img: palette[i%len(palette)],
			x:   float32(cell + (i%cols)*cell),
			y:   float32(cell + (i/cols)*cell),
			dx:  (rand.Float32() - 0.5) * 6,
			dy:  (rand.Float32() - 0.5) * 6,
		})
	}
	for _, b := range palette {
		b.Release()
	}

	if err := thicket.Run(reg, thicket.RunConfig{
		Title:      "Thicket - Bouncers",
		Width:      screenW,
		Height:     screenH,
		Scale:      1,
		ShowFPS:    true,
		DebugMode:  *debug,
		ClearColor: color.RGBA{0x10, 0x10, 0x18, 0xff},
	}, nil); err != nil {
		log.Fatal(err)
	}
}
