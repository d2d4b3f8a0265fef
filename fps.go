package thicket

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSCounter is a logic object that displays the current FPS and TPS in the
// top-left corner. Its image is redrawn every ~0.5 seconds.
type FPSCounter struct {
	bitmap *Bitmap
	since  float64
}

// NewFPSCounter creates an FPS counter. Spawn it with Registry.NewSprite.
func NewFPSCounter() *FPSCounter {
	return &FPSCounter{}
}

// Init builds a 100x32 sprite drawn above everything else.
func (f *FPSCounter) Init(b *SpriteBuilder) *Sprite {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	f.bitmap = NewBitmap(ebiten.NewImage(100, 32))
	s := b.Image(f.bitmap, FlipNone).
		Center(0, 0).
		MoveTo(0, 0).
		ZIndex(32767).
		Add().
		Build()
	s.SetIgnoresDrawOffset(true)
	s.SetCollisionsEnabled(false)
	f.since = 0.5
	return s
}

func (f *FPSCounter) Update(ctx UpdateContext) Persistence {
	f.since += 1 / float64(ebiten.TPS())
	if f.since < 0.5 {
		return Keep
	}
	f.since = 0

	img := f.bitmap.Image()
	img.Clear()
	// Semi-transparent background for readability
	img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	ctx.Sprite.MarkDirty()
	return Keep
}

// Destroy drops the counter's own reference to its image.
func (f *FPSCounter) Destroy() {
	if f.bitmap != nil {
		f.bitmap.Release()
		f.bitmap = nil
	}
}
