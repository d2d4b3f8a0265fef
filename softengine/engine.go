// Package softengine is a pure-Go implementation of the native sprite engine
// contract that thicket binds. It keeps a display list in z-order, runs the
// per-frame update/draw tick, resolves moves against collide rects the way
// the hardware engine does, and hands out result buffers that must be
// returned through Free.
//
// It exists so the binding can run headless in tests and on desktop through
// ebiten. Misuse the real engine would not survive (freeing a displayed
// sprite, touching a freed handle, double-freeing a buffer) panics.
package softengine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/thicket"
)

// Display dimensions of the engine's target device.
const (
	DefaultWidth  = 400
	DefaultHeight = 240
)

// Engine implements thicket.Native.
type Engine struct {
	sprites    map[thicket.Handle]*sprite
	nextHandle thicket.Handle
	seq        uint64

	list       []*sprite // display list
	listSorted bool
	scratch    []*sprite

	allocs    map[thicket.Alloc]func()
	nextAlloc thicket.Alloc

	width, height            int
	frame                    *ebiten.Image
	drawOffsetX, drawOffsetY float32
	alwaysRedraw             bool
	dirtyRects               []thicket.IntRect
	clipRanges               []clipRange
	scratchImages            map[scratchKey]*ebiten.Image
	uniforms                 drawUniforms

	failAlloc bool
}

type clipRange struct {
	clip         thicket.IntRect
	startZ, endZ int
}

var (
	_ thicket.Native      = (*Engine)(nil)
	_ thicket.FrameSource = (*Engine)(nil)
)

// sprite is the engine's per-sprite record.
type sprite struct {
	handle   thicket.Handle
	seq      uint64
	userdata uintptr

	bounds           thicket.Rect
	centerX, centerY float32

	image    *ebiten.Image
	flip     uint32
	drawMode uint32
	z        int16
	tag      uint8

	visible           bool
	opaque            bool
	updatesEnabled    bool
	ignoresDrawOffset bool
	dirty             bool

	stencil        *ebiten.Image
	stencilTiled   bool
	stencilPattern *[8]uint8
	clip           *thicket.IntRect

	collisionsEnabled bool
	collideRect       thicket.Rect

	update  thicket.UpdateFunc
	draw    thicket.DrawFunc
	respond thicket.CollisionResponseFunc

	inList bool
	freed  bool
}

// New creates a headless engine for a width x height display. Call
// AttachFrame to render into an image.
func New(width, height int) *Engine {
	return &Engine{
		sprites:    make(map[thicket.Handle]*sprite),
		nextHandle: 0x1000,
		allocs:     make(map[thicket.Alloc]func()),
		nextAlloc:  1,
		width:      width,
		height:     height,
		listSorted: true,
	}
}

// AttachFrame creates the display buffer sprites are drawn into and returns it.
func (e *Engine) AttachFrame() *ebiten.Image {
	if e.frame == nil {
		e.frame = ebiten.NewImage(e.width, e.height)
	}
	return e.frame
}

// Frame returns the display buffer, or nil for a headless engine.
func (e *Engine) Frame() *ebiten.Image {
	return e.frame
}

// SetDrawOffset shifts every sprite that does not ignore the draw offset.
func (e *Engine) SetDrawOffset(dx, dy float32) {
	e.drawOffsetX, e.drawOffsetY = dx, dy
}

// FailNextAlloc makes the next NewSprite return the null handle.
func (e *Engine) FailNextAlloc() {
	e.failAlloc = true
}

// LiveSprites returns the number of allocated, unfreed sprites.
func (e *Engine) LiveSprites() int {
	return len(e.sprites)
}

// LiveAllocs returns the number of result buffers not yet freed.
func (e *Engine) LiveAllocs() int {
	return len(e.allocs)
}

// get returns the record for h. An unknown or freed handle is a fault.
func (e *Engine) get(h thicket.Handle) *sprite {
	s, ok := e.sprites[h]
	if !ok {
		panic(fmt.Sprintf("softengine: invalid sprite handle %#x", uintptr(h)))
	}
	return s
}

// --- Lifecycle ---

func (e *Engine) NewSprite() thicket.Handle {
	if e.failAlloc {
		e.failAlloc = false
		return 0
	}
	e.nextHandle += 0x10
	e.seq++
	s := &sprite{
		handle:            e.nextHandle,
		seq:               e.seq,
		centerX:           0.5,
		centerY:           0.5,
		visible:           true,
		updatesEnabled:    true,
		collisionsEnabled: true,
	}
	e.sprites[s.handle] = s
	return s.handle
}

// FreeSprite releases a sprite. The sprite must already be out of the
// display list.
func (e *Engine) FreeSprite(h thicket.Handle) {
	s := e.get(h)
	if s.inList {
		panic(fmt.Sprintf("softengine: FreeSprite on displayed sprite %#x", uintptr(h)))
	}
	s.freed = true
	s.update, s.draw, s.respond = nil, nil, nil
	s.image, s.stencil = nil, nil
	delete(e.sprites, h)
}

func (e *Engine) AddSprite(h thicket.Handle) {
	s := e.get(h)
	if s.inList {
		return
	}
	s.inList = true
	s.dirty = true
	e.list = append(e.list, s)
	e.listSorted = false
}

func (e *Engine) RemoveSprite(h thicket.Handle) {
	e.removeFromList(e.get(h))
}

func (e *Engine) RemoveSprites(hs []thicket.Handle) {
	for _, h := range hs {
		e.removeFromList(e.get(h))
	}
}

func (e *Engine) RemoveAllSprites() {
	for i, s := range e.list {
		s.inList = false
		e.list[i] = nil
	}
	e.list = e.list[:0]
	e.listSorted = true
}

func (e *Engine) removeFromList(s *sprite) {
	if !s.inList {
		return
	}
	s.inList = false
	for i, c := range e.list {
		if c == s {
			copy(e.list[i:], e.list[i+1:])
			e.list[len(e.list)-1] = nil
			e.list = e.list[:len(e.list)-1]
			return
		}
	}
}

func (e *Engine) SpriteCount() int {
	return len(e.list)
}

// sortList orders the display list by z-index, then by insertion.
func (e *Engine) sortList() {
	if e.listSorted {
		return
	}
	slices.SortStableFunc(e.list, func(a, b *sprite) int {
		if c := cmp.Compare(a.z, b.z); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	e.listSorted = true
}

// DisplayOrder returns the display list's handles in traversal order.
func (e *Engine) DisplayOrder() []thicket.Handle {
	e.sortList()
	hs := make([]thicket.Handle, len(e.list))
	for i, s := range e.list {
		hs[i] = s.handle
	}
	return hs
}

// --- Userdata and callbacks ---

func (e *Engine) SetUserdata(h thicket.Handle, data uintptr) { e.get(h).userdata = data }
func (e *Engine) Userdata(h thicket.Handle) uintptr           { return e.get(h).userdata }

func (e *Engine) SetUpdateFunction(h thicket.Handle, fn thicket.UpdateFunc) {
	e.get(h).update = fn
}

func (e *Engine) SetDrawFunction(h thicket.Handle, fn thicket.DrawFunc) {
	e.get(h).draw = fn
}

func (e *Engine) SetCollisionResponseFunction(h thicket.Handle, fn thicket.CollisionResponseFunc) {
	e.get(h).respond = fn
}

// --- Frame ---

// UpdateAndDrawSprites updates every displayed sprite in z-order, then draws
// them. Sprites added during the pass are picked up next frame; sprites
// removed or freed during it are skipped.
func (e *Engine) UpdateAndDrawSprites() {
	e.sortList()
	e.scratch = append(e.scratch[:0], e.list...)
	for _, s := range e.scratch {
		if s.freed || !s.inList || !s.updatesEnabled || s.update == nil {
			continue
		}
		s.update(s.handle)
	}
	clear(e.scratch)
	e.DrawSprites()
}

// ResetCollisionWorld is a no-op: collisions are computed from the display
// list on demand.
func (e *Engine) ResetCollisionWorld() {}

func (e *Engine) SetClipRectsInRange(clip thicket.IntRect, startZ, endZ int) {
	e.clipRanges = append(e.clipRanges, clipRange{clip: clip, startZ: startZ, endZ: endZ})
}

func (e *Engine) ClearClipRectsInRange(startZ, endZ int) {
	e.clipRanges = slices.DeleteFunc(e.clipRanges, func(c clipRange) bool {
		return c.startZ >= startZ && c.endZ <= endZ
	})
}

func (e *Engine) SetAlwaysRedraw(always bool) { e.alwaysRedraw = always }

func (e *Engine) AddDirtyRect(r thicket.IntRect) {
	e.dirtyRects = append(e.dirtyRects, r)
}

// --- Geometry ---

func (e *Engine) SetBounds(h thicket.Handle, r thicket.Rect) {
	s := e.get(h)
	s.bounds = r
	s.dirty = true
}

func (e *Engine) Bounds(h thicket.Handle) thicket.Rect { return e.get(h).bounds }

// Position is the anchor point: the bounds origin plus center times size.
func (e *Engine) Position(h thicket.Handle) (x, y float32) {
	return e.get(h).position()
}

func (s *sprite) position() (x, y float32) {
	return s.bounds.X + s.bounds.Width*s.centerX, s.bounds.Y + s.bounds.Height*s.centerY
}

func (s *sprite) moveTo(x, y float32) {
	s.bounds.X = x - s.bounds.Width*s.centerX
	s.bounds.Y = y - s.bounds.Height*s.centerY
	s.dirty = true
}

func (e *Engine) MoveTo(h thicket.Handle, x, y float32) {
	e.get(h).moveTo(x, y)
}

func (e *Engine) MoveBy(h thicket.Handle, dx, dy float32) {
	s := e.get(h)
	s.bounds.X += dx
	s.bounds.Y += dy
	s.dirty = true
}

// SetCenter changes the anchor and keeps the sprite's position.
func (e *Engine) SetCenter(h thicket.Handle, cx, cy float32) {
	s := e.get(h)
	x, y := s.position()
	s.centerX, s.centerY = cx, cy
	s.moveTo(x, y)
}

func (e *Engine) Center(h thicket.Handle) (cx, cy float32) {
	s := e.get(h)
	return s.centerX, s.centerY
}

// SetSize resizes the bounds around the current position.
func (e *Engine) SetSize(h thicket.Handle, width, height float32) {
	e.get(h).resize(width, height)
}

func (s *sprite) resize(width, height float32) {
	x, y := s.position()
	s.bounds.Width, s.bounds.Height = width, height
	s.moveTo(x, y)
}

// --- Presentation ---

// SetImage sets the image and sizes the bounds to it.
func (e *Engine) SetImage(h thicket.Handle, img *ebiten.Image, flip uint32) {
	s := e.get(h)
	s.image = img
	s.flip = flip
	if img != nil {
		size := img.Bounds().Size()
		s.resize(float32(size.X), float32(size.Y))
	}
	s.dirty = true
}

func (e *Engine) Image(h thicket.Handle) *ebiten.Image { return e.get(h).image }

func (e *Engine) SetImageFlip(h thicket.Handle, flip uint32) {
	s := e.get(h)
	s.flip = flip
	s.dirty = true
}

func (e *Engine) ImageFlip(h thicket.Handle) uint32 { return e.get(h).flip }

func (e *Engine) SetDrawMode(h thicket.Handle, mode uint32) {
	s := e.get(h)
	s.drawMode = mode
	s.dirty = true
}

func (e *Engine) DrawMode(h thicket.Handle) uint32 { return e.get(h).drawMode }

func (e *Engine) SetZIndex(h thicket.Handle, z int16) {
	s := e.get(h)
	if s.z == z {
		return
	}
	s.z = z
	e.listSorted = false
}

func (e *Engine) ZIndex(h thicket.Handle) int16 { return e.get(h).z }

func (e *Engine) SetTag(h thicket.Handle, tag uint8) { e.get(h).tag = tag }
func (e *Engine) Tag(h thicket.Handle) uint8         { return e.get(h).tag }

func (e *Engine) SetVisible(h thicket.Handle, visible bool) {
	s := e.get(h)
	s.visible = visible
	s.dirty = true
}

func (e *Engine) IsVisible(h thicket.Handle) bool { return e.get(h).visible }

func (e *Engine) SetOpaque(h thicket.Handle, opaque bool) { e.get(h).opaque = opaque }

func (e *Engine) MarkDirty(h thicket.Handle) { e.get(h).dirty = true }

// IsDirty reports whether the sprite will be redrawn regardless of movement.
func (e *Engine) IsDirty(h thicket.Handle) bool { return e.get(h).dirty }

func (e *Engine) SetUpdatesEnabled(h thicket.Handle, enabled bool) {
	e.get(h).updatesEnabled = enabled
}

func (e *Engine) UpdatesEnabled(h thicket.Handle) bool { return e.get(h).updatesEnabled }

func (e *Engine) SetIgnoresDrawOffset(h thicket.Handle, ignore bool) {
	e.get(h).ignoresDrawOffset = ignore
}

func (e *Engine) SetStencil(h thicket.Handle, img *ebiten.Image) {
	e.SetStencilImage(h, img, false)
}

func (e *Engine) SetStencilImage(h thicket.Handle, img *ebiten.Image, tile bool) {
	s := e.get(h)
	s.stencil, s.stencilTiled, s.stencilPattern = img, tile, nil
	s.dirty = true
}

func (e *Engine) SetStencilPattern(h thicket.Handle, pattern [8]uint8) {
	s := e.get(h)
	s.stencil, s.stencilTiled = nil, false
	s.stencilPattern = &pattern
	s.dirty = true
}

func (e *Engine) ClearStencil(h thicket.Handle) {
	s := e.get(h)
	s.stencil, s.stencilTiled, s.stencilPattern = nil, false, nil
	s.dirty = true
}

func (e *Engine) SetClipRect(h thicket.Handle, clip thicket.IntRect) {
	e.get(h).clip = &clip
}

func (e *Engine) ClearClipRect(h thicket.Handle) { e.get(h).clip = nil }

// --- Collision configuration ---

func (e *Engine) SetCollisionsEnabled(h thicket.Handle, enabled bool) {
	e.get(h).collisionsEnabled = enabled
}

func (e *Engine) CollisionsEnabled(h thicket.Handle) bool { return e.get(h).collisionsEnabled }

func (e *Engine) SetCollideRect(h thicket.Handle, r thicket.Rect) { e.get(h).collideRect = r }
func (e *Engine) CollideRect(h thicket.Handle) thicket.Rect         { return e.get(h).collideRect }
func (e *Engine) ClearCollideRect(h thicket.Handle)                 { e.get(h).collideRect = thicket.Rect{} }
