package thicket

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Bitmap is a reference-counted image shared between sprites. A new Bitmap
// holds one reference for its creator. The image is deallocated when the
// last reference is released.
type Bitmap struct {
	img  *ebiten.Image
	refs int
}

// NewBitmap wraps img. The caller holds the only reference.
func NewBitmap(img *ebiten.Image) *Bitmap {
	if img == nil {
		panic("thicket: cannot wrap nil image")
	}
	return &Bitmap{img: img, refs: 1}
}

// NewSolidBitmap creates a w x h bitmap filled with c.
func NewSolidBitmap(w, h int, c color.Color) *Bitmap {
	img := ebiten.NewImage(w, h)
	img.Fill(c)
	return NewBitmap(img)
}

// Image returns the underlying image, or nil once released.
func (b *Bitmap) Image() *ebiten.Image {
	return b.img
}

// Size returns the image dimensions in pixels.
func (b *Bitmap) Size() (w, h int) {
	if b.img == nil {
		return 0, 0
	}
	s := b.img.Bounds().Size()
	return s.X, s.Y
}

// Retain adds a reference and returns b.
func (b *Bitmap) Retain() *Bitmap {
	if b.refs <= 0 {
		panic("thicket: retain of released bitmap")
	}
	b.refs++
	return b
}

// Release drops a reference. The last release deallocates the image.
func (b *Bitmap) Release() {
	if b.refs <= 0 {
		panic("thicket: bitmap released more times than retained")
	}
	b.refs--
	if b.refs == 0 {
		b.img.Deallocate()
		b.img = nil
	}
}

// RefCount returns the number of outstanding references.
func (b *Bitmap) RefCount() int {
	return b.refs
}

// Draw draws the bitmap onto dst with its top-left corner at (x, y).
func (b *Bitmap) Draw(dst *ebiten.Image, x, y float64, flip Flip) {
	if dst == nil || b.img == nil {
		return
	}
	w, h := b.Size()
	op := &ebiten.DrawImageOptions{}
	op.GeoM = FlipGeoM(flip, w, h)
	op.GeoM.Translate(x, y)
	dst.DrawImage(b.img, op)
}

// FlipGeoM returns the transform that mirrors a w x h image in place.
func FlipGeoM(flip Flip, w, h int) ebiten.GeoM {
	var g ebiten.GeoM
	if flip == FlipX || flip == FlipXY {
		g.Scale(-1, 1)
		g.Translate(float64(w), 0)
	}
	if flip == FlipY || flip == FlipXY {
		g.Scale(1, -1)
		g.Translate(0, float64(h))
	}
	return g
}

// Stencil is the stencil cached on a sprite: either a bitmap, optionally
// tiled, or an 8x8 one-bit pattern.
type Stencil struct {
	Bitmap  *Bitmap
	Tiled   bool
	Pattern [8]uint8
}

// IsPattern reports whether the stencil is a fixed pattern rather than a bitmap.
func (s Stencil) IsPattern() bool {
	return s.Bitmap == nil
}
