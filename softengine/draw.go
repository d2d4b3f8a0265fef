package softengine

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/thicket"
)

// DrawSprites redraws the display list into the frame in z-order, then calls
// each sprite's draw function. A headless engine only runs the callbacks.
func (e *Engine) DrawSprites() {
	e.sortList()
	if e.frame != nil {
		e.frame.Clear()
	}
	e.scratch = append(e.scratch[:0], e.list...)
	for _, s := range e.scratch {
		if s.freed || !s.inList || !s.visible {
			continue
		}
		b := s.bounds
		if !s.ignoresDrawOffset {
			b = b.Offset(e.drawOffsetX, e.drawOffsetY)
		}
		clip := e.clipFor(s)
		drawRect := b
		if clip != nil {
			drawRect = intersect(b, *clip)
		}
		if drawRect.IsEmpty() {
			s.dirty = false
			continue
		}
		if e.frame != nil && s.image != nil {
			e.drawImage(s, b, clip)
		}
		if s.draw != nil {
			s.draw(s.handle, s.bounds, drawRect)
		}
		s.dirty = false
	}
	clear(e.scratch)
	e.dirtyRects = e.dirtyRects[:0]
}

// clipFor returns the sprite's own clip rect, else the last range clip
// covering its z-index.
func (e *Engine) clipFor(s *sprite) *thicket.IntRect {
	if s.clip != nil {
		return s.clip
	}
	for i := len(e.clipRanges) - 1; i >= 0; i-- {
		c := &e.clipRanges[i]
		if int(s.z) >= c.startZ && int(s.z) <= c.endZ {
			return &c.clip
		}
	}
	return nil
}

func intersect(r thicket.Rect, c thicket.IntRect) thicket.Rect {
	x0 := max(r.X, float32(c.Left))
	y0 := max(r.Y, float32(c.Top))
	x1 := min(r.X+r.Width, float32(c.Right))
	y1 := min(r.Y+r.Height, float32(c.Bottom))
	if x1 <= x0 || y1 <= y0 {
		return thicket.Rect{}
	}
	return thicket.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// drawImage composites the sprite's image at the rounded bounds origin.
func (e *Engine) drawImage(s *sprite, b thicket.Rect, clip *thicket.IntRect) {
	dst := e.frame
	if clip != nil {
		dst = e.frame.SubImage(image.Rect(clip.Left, clip.Top, clip.Right, clip.Bottom)).(*ebiten.Image)
	}
	x := int(math.Round(float64(b.X)))
	y := int(math.Round(float64(b.Y)))
	size := s.image.Bounds().Size()
	flipOp := ebiten.DrawImageOptions{GeoM: thicket.FlipGeoM(thicket.Flip(s.flip), size.X, size.Y)}

	plain := s.drawMode == uint32(thicket.DrawModeCopy) && s.stencil == nil && s.stencilPattern == nil
	if plain {
		flipOp.GeoM.Translate(float64(x), float64(y))
		dst.DrawImage(s.image, &flipOp)
		return
	}

	// The shader path samples every input at the same coordinates, so the
	// image, the destination under it and the stencil mask are all staged
	// into scratch buffers of the sprite's size.
	src := e.scratchImage(scratchSource, size)
	src.Clear()
	src.DrawImage(s.image, &flipOp)

	under := e.scratchImage(scratchUnder, size)
	under.Clear()
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(-x), float64(-y))
	under.DrawImage(e.frame, &op)

	mask := e.scratchImage(scratchMask, size)
	mask.Clear()
	useMask := s.stencil != nil
	if useMask {
		stampStencil(mask, s.stencil, s.stencilTiled, x, y)
	}

	u := &e.uniforms
	u.mode = float32(s.drawMode)
	u.useMask = boolUniform(useMask)
	u.usePattern = boolUniform(s.stencilPattern != nil)
	if s.stencilPattern != nil {
		for i, row := range s.stencilPattern {
			u.pattern[i] = float32(row)
		}
	}
	var sop ebiten.DrawRectShaderOptions
	sop.GeoM.Translate(float64(x), float64(y))
	sop.Images[0] = src
	sop.Images[1] = under
	sop.Images[2] = mask
	sop.Uniforms = u.values()
	dst.DrawRectShader(size.X, size.Y, ensureDrawModeShader(), &sop)
}

// stampStencil draws a screen-aligned stencil into the sprite-local mask for
// a sprite whose image sits at (x, y).
func stampStencil(mask, stencil *ebiten.Image, tiled bool, x, y int) {
	var op ebiten.DrawImageOptions
	if !tiled {
		op.GeoM.Translate(float64(-x), float64(-y))
		mask.DrawImage(stencil, &op)
		return
	}
	ss := stencil.Bounds().Size()
	if ss.X <= 0 || ss.Y <= 0 {
		return
	}
	ms := mask.Bounds().Size()
	startX := -floorMod(x, ss.X)
	startY := -floorMod(y, ss.Y)
	for ty := startY; ty < ms.Y; ty += ss.Y {
		for tx := startX; tx < ms.X; tx += ss.X {
			op.GeoM.Reset()
			op.GeoM.Translate(float64(tx), float64(ty))
			mask.DrawImage(stencil, &op)
		}
	}
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func boolUniform(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

type scratchRole uint8

const (
	scratchSource scratchRole = iota
	scratchUnder
	scratchMask
)

type scratchKey struct {
	role scratchRole
	size image.Point
}

func (e *Engine) scratchImage(role scratchRole, size image.Point) *ebiten.Image {
	if e.scratchImages == nil {
		e.scratchImages = make(map[scratchKey]*ebiten.Image)
	}
	k := scratchKey{role, size}
	img, ok := e.scratchImages[k]
	if !ok {
		img = ebiten.NewImage(size.X, size.Y)
		e.scratchImages[k] = img
	}
	return img
}
