package thicket

// spriteData is the correlated data block attached to a native handle through
// its userdata slot. Exactly one exists per live handle.
type spriteData struct {
	id        uintptr // userdata key in the registry's handle table
	handle    Handle
	obj       GameObject
	image     *Bitmap
	stencil   *Stencil
	displayed bool

	owner *Sprite
	owned bool // held by the registry's sprite list
	freed bool
	doomed bool // teardown queued until the native collision step returns
}

// spriteOps implements every handle-dependent operation. It is embedded in
// both the owning Sprite and the non-owning SpriteView.
type spriteOps struct {
	reg *Registry
	d   *spriteData
}

// handle returns the native handle, checking for use after teardown in debug
// mode.
func (s spriteOps) handle(op string) Handle {
	if s.reg.debug {
		debugCheckFreed(s.d, op)
	}
	return s.d.handle
}

// Handle returns the native handle. It is only meaningful while the sprite is alive.
func (s spriteOps) Handle() Handle {
	return s.d.handle
}

// IsFreed reports whether the sprite has been torn down.
func (s spriteOps) IsFreed() bool {
	return s.d.freed
}

// Object returns a non-owning reference to the sprite's logic object.
func (s spriteOps) Object() ObjectRef {
	return ObjectRef{obj: s.d.obj}
}

// View returns a non-owning view of the sprite.
func (s spriteOps) View() SpriteView {
	return SpriteView{s}
}

// --- Scene membership ---

// Add inserts the sprite into the native scene list. No-op if already displayed.
func (s spriteOps) Add() {
	h := s.handle("Add")
	if s.d.displayed {
		return
	}
	s.reg.native.AddSprite(h)
	s.d.displayed = true
}

// Remove detaches the sprite from the native scene list without freeing it.
// No-op if not displayed.
func (s spriteOps) Remove() {
	h := s.handle("Remove")
	if !s.d.displayed {
		return
	}
	s.reg.native.RemoveSprite(h)
	s.d.displayed = false
}

// IsDisplayed reports whether the sprite is in the native scene list.
func (s spriteOps) IsDisplayed() bool {
	return s.d.displayed
}

// --- Geometry ---

func (s spriteOps) Bounds() Rect {
	return s.reg.native.Bounds(s.handle("Bounds"))
}

func (s spriteOps) SetBounds(r Rect) {
	s.reg.native.SetBounds(s.handle("SetBounds"), r)
}

// Position returns the sprite's anchor point in world coordinates.
func (s spriteOps) Position() Point {
	x, y := s.reg.native.Position(s.handle("Position"))
	return Point{x, y}
}

// Center returns the anchor as a fraction of the sprite's size.
func (s spriteOps) Center() Point {
	x, y := s.reg.native.Center(s.handle("Center"))
	return Point{x, y}
}

func (s spriteOps) SetCenter(cx, cy float32) {
	s.reg.native.SetCenter(s.handle("SetCenter"), cx, cy)
}

func (s spriteOps) MoveTo(x, y float32) {
	s.reg.native.MoveTo(s.handle("MoveTo"), x, y)
}

func (s spriteOps) MoveBy(dx, dy float32) {
	s.reg.native.MoveBy(s.handle("MoveBy"), dx, dy)
}

func (s spriteOps) SetSize(w, h float32) {
	s.reg.native.SetSize(s.handle("SetSize"), w, h)
}

// --- Presentation ---

// Image returns the cached image, or nil. The bitmap is borrowed from the
// sprite; Retain it to keep it past the sprite's next SetImage or teardown.
func (s spriteOps) Image() *Bitmap {
	return s.d.image
}

// SetImage replaces the sprite's image. The sprite retains img and releases
// the image it held before. A nil img clears the image.
func (s spriteOps) SetImage(img *Bitmap, flip Flip) {
	h := s.handle("SetImage")
	old := s.d.image
	if img != nil {
		img.Retain()
		s.reg.native.SetImage(h, img.Image(), flip.code())
	} else {
		s.reg.native.SetImage(h, nil, flip.code())
	}
	s.d.image = img
	if old != nil {
		old.Release()
	}
}

func (s spriteOps) ImageFlip() Flip {
	return flipFromCode(s.reg.native.ImageFlip(s.handle("ImageFlip")))
}

func (s spriteOps) SetImageFlip(flip Flip) {
	s.reg.native.SetImageFlip(s.handle("SetImageFlip"), flip.code())
}

func (s spriteOps) DrawMode() DrawMode {
	return drawModeFromCode(s.reg.native.DrawMode(s.handle("DrawMode")))
}

func (s spriteOps) SetDrawMode(mode DrawMode) {
	s.reg.native.SetDrawMode(s.handle("SetDrawMode"), mode.code())
}

func (s spriteOps) ZIndex() int16 {
	return s.reg.native.ZIndex(s.handle("ZIndex"))
}

func (s spriteOps) SetZIndex(z int16) {
	s.reg.native.SetZIndex(s.handle("SetZIndex"), z)
}

func (s spriteOps) Tag() uint8 {
	return s.reg.native.Tag(s.handle("Tag"))
}

func (s spriteOps) SetTag(tag uint8) {
	s.reg.native.SetTag(s.handle("SetTag"), tag)
}

func (s spriteOps) IsVisible() bool {
	return s.reg.native.IsVisible(s.handle("IsVisible"))
}

func (s spriteOps) SetVisible(visible bool) {
	s.reg.native.SetVisible(s.handle("SetVisible"), visible)
}

func (s spriteOps) SetOpaque(opaque bool) {
	s.reg.native.SetOpaque(s.handle("SetOpaque"), opaque)
}

func (s spriteOps) MarkDirty() {
	s.reg.native.MarkDirty(s.handle("MarkDirty"))
}

func (s spriteOps) UpdatesEnabled() bool {
	return s.reg.native.UpdatesEnabled(s.handle("UpdatesEnabled"))
}

func (s spriteOps) SetUpdatesEnabled(enabled bool) {
	s.reg.native.SetUpdatesEnabled(s.handle("SetUpdatesEnabled"), enabled)
}

// SetIgnoresDrawOffset makes the sprite draw in screen coordinates.
func (s spriteOps) SetIgnoresDrawOffset(ignore bool) {
	s.reg.native.SetIgnoresDrawOffset(s.handle("SetIgnoresDrawOffset"), ignore)
}

func (s spriteOps) SetClipRect(clip IntRect) {
	s.reg.native.SetClipRect(s.handle("SetClipRect"), clip)
}

func (s spriteOps) ClearClipRect() {
	s.reg.native.ClearClipRect(s.handle("ClearClipRect"))
}

// --- Stencils ---

// Stencil returns the cached stencil, if any.
func (s spriteOps) Stencil() (Stencil, bool) {
	if s.d.stencil == nil {
		return Stencil{}, false
	}
	return *s.d.stencil, true
}

// SetStencil sets an untiled bitmap stencil.
func (s spriteOps) SetStencil(stencil *Bitmap) {
	h := s.handle("SetStencil")
	if stencil == nil {
		panic("thicket: nil stencil bitmap; use ClearStencil")
	}
	stencil.Retain()
	s.reg.native.SetStencil(h, stencil.Image())
	s.cacheStencil(&Stencil{Bitmap: stencil})
}

// SetStencilImage sets a bitmap stencil, tiled if tile is true.
func (s spriteOps) SetStencilImage(stencil *Bitmap, tile bool) {
	h := s.handle("SetStencilImage")
	if stencil == nil {
		panic("thicket: nil stencil bitmap; use ClearStencil")
	}
	stencil.Retain()
	s.reg.native.SetStencilImage(h, stencil.Image(), tile)
	s.cacheStencil(&Stencil{Bitmap: stencil, Tiled: tile})
}

// SetStencilPattern sets an 8x8 one-bit stencil pattern.
func (s spriteOps) SetStencilPattern(pattern [8]uint8) {
	s.reg.native.SetStencilPattern(s.handle("SetStencilPattern"), pattern)
	s.cacheStencil(&Stencil{Pattern: pattern})
}

func (s spriteOps) ClearStencil() {
	s.reg.native.ClearStencil(s.handle("ClearStencil"))
	s.cacheStencil(nil)
}

// cacheStencil swaps the cached stencil and releases the old bitmap, if any.
func (s spriteOps) cacheStencil(st *Stencil) {
	old := s.d.stencil
	s.d.stencil = st
	if old != nil && old.Bitmap != nil {
		old.Bitmap.Release()
	}
}

// --- Collision configuration ---

func (s spriteOps) CollisionsEnabled() bool {
	return s.reg.native.CollisionsEnabled(s.handle("CollisionsEnabled"))
}

func (s spriteOps) SetCollisionsEnabled(enabled bool) {
	s.reg.native.SetCollisionsEnabled(s.handle("SetCollisionsEnabled"), enabled)
}

// CollideRect returns the collision rectangle relative to the sprite's bounds.
func (s spriteOps) CollideRect() Rect {
	return s.reg.native.CollideRect(s.handle("CollideRect"))
}

func (s spriteOps) SetCollideRect(r Rect) {
	s.reg.native.SetCollideRect(s.handle("SetCollideRect"), r)
}

func (s spriteOps) ClearCollideRect() {
	s.reg.native.ClearCollideRect(s.handle("ClearCollideRect"))
}

// --- Owning wrapper ---

// Sprite is the sole owning handle to a native sprite and its correlated
// data. It is created by SpriteBuilder.Build. Free tears it down; after that,
// no handle-dependent method may be called on it or on any view of it.
type Sprite struct {
	spriteOps
}

// Free detaches the sprite from the scene if displayed, runs the logic
// object's Destroy, releases cached images, and frees the native handle.
// Calling Free again is a no-op. Sprites owned by a Registry are also dropped
// from its list. Called from a Collide callback, the teardown waits until the
// collision step returns.
func (s *Sprite) Free() {
	s.reg.teardown(s.d)
}

// SpriteView is a non-owning view of a sprite. Trampolines and collision
// results hand these out; dropping one never tears the sprite down.
// Views of the same sprite compare equal.
type SpriteView struct {
	spriteOps
}

// IsZero reports whether v refers to no sprite.
func (v SpriteView) IsZero() bool {
	return v.d == nil
}
