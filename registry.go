package thicket

import (
	"fmt"
	"time"
)

// Registry is the top-level object that owns the live sprites, the
// correlation between native handles and logic objects, and the batch
// operations on the native scene.
//
// Like the native engine it wraps, a Registry is single-threaded: every
// method and every callback runs on the goroutine driving the frame loop.
type Registry struct {
	native  Native
	handles handleTable
	sprites []*Sprite
	sink    EventSink
	debug   bool
	frames  uint64

	// colliding counts native collision steps in progress. Teardown
	// requested from inside one is queued in doomed and runs when the
	// outermost step returns.
	colliding int
	doomed    []*spriteData
}

// NewRegistry creates a registry bound to a native engine.
func NewRegistry(native Native) *Registry {
	if native == nil {
		panic("thicket: nil native engine")
	}
	return &Registry{
		native:  native,
		handles: newHandleTable(),
	}
}

// Native returns the wrapped native engine.
func (r *Registry) Native() Native {
	return r.native
}

// --- Ownership ---

// NewSprite runs obj.Init with a fresh builder and stores the resulting
// sprite in the registry, which owns it from then on.
func (r *Registry) NewSprite(obj GameObject) SpriteView {
	b := r.NewBuilder(obj)
	s := obj.Init(b)
	if s == nil {
		panic("thicket: Init returned no sprite")
	}
	if s.d.obj != obj {
		panic("thicket: Init returned a sprite built for another object")
	}
	return r.Adopt(s)
}

// Adopt transfers ownership of a sprite built with this registry's builder
// to the registry. Adopting an owned sprite again is a no-op.
func (r *Registry) Adopt(s *Sprite) SpriteView {
	if s.reg != r {
		panic("thicket: cannot adopt a sprite from another registry")
	}
	if s.d.freed {
		panic("thicket: cannot adopt a freed sprite")
	}
	if !s.d.owned {
		s.d.owned = true
		r.sprites = append(r.sprites, s)
		if r.debug {
			debugCheckSpriteCount(r)
		}
	}
	return s.View()
}

// Remove tears down a sprite owned by the registry. It reports false if the
// sprite is not owned by this registry or is already freed. Called from a
// Collide callback, the teardown waits until the collision step returns.
func (r *Registry) Remove(v SpriteView) bool {
	if v.IsZero() || v.reg != r || !v.d.owned || v.d.freed || v.d.doomed {
		return false
	}
	r.teardown(v.d)
	return true
}

// Len returns the number of sprites owned by the registry.
func (r *Registry) Len() int {
	return len(r.sprites)
}

// Views returns views of every owned sprite in ownership order.
func (r *Registry) Views() []SpriteView {
	views := make([]SpriteView, len(r.sprites))
	for i, s := range r.sprites {
		views[i] = s.View()
	}
	return views
}

// Close tears down every owned sprite. The registry stays usable.
func (r *Registry) Close() {
	owned := append([]*Sprite(nil), r.sprites...)
	for _, s := range owned {
		s.Free()
	}
}

// teardown is the single destruction path. It runs at most once per block.
func (r *Registry) teardown(d *spriteData) {
	if d.freed {
		return
	}
	if r.colliding > 0 {
		if !d.doomed {
			d.doomed = true
			r.doomed = append(r.doomed, d)
		}
		return
	}
	d.freed = true
	d.doomed = false
	h := d.handle

	if d.displayed {
		r.native.RemoveSprite(h)
		d.displayed = false
	}
	var tag uint8
	if r.sink != nil {
		tag = r.native.Tag(h)
	}

	destroyObject(d.obj)

	r.native.SetUserdata(h, 0)
	r.handles.unregister(d.id)
	r.native.FreeSprite(h)

	if d.image != nil {
		d.image.Release()
		d.image = nil
	}
	if d.stencil != nil && d.stencil.Bitmap != nil {
		d.stencil.Bitmap.Release()
	}
	d.stencil = nil

	if d.owned {
		r.removeOwned(d.owner)
		d.owned = false
	}
	d.obj = nil
	d.owner = nil

	r.emit(Event{Type: EventDestroyed, Handle: h, Tag: tag})
}

// beginCollisions marks the start of a native collision step.
func (r *Registry) beginCollisions() {
	r.colliding++
}

// endCollisions closes a native collision step. Leaving the outermost one
// runs every teardown queued while it was in progress.
func (r *Registry) endCollisions() {
	r.colliding--
	if r.colliding > 0 {
		return
	}
	for len(r.doomed) > 0 {
		d := r.doomed[0]
		r.doomed[0] = nil
		r.doomed = r.doomed[1:]
		r.teardown(d)
	}
	r.doomed = nil
}

// removeOwned drops s from the owned list, clearing the vacated slot.
func (r *Registry) removeOwned(s *Sprite) {
	for i, c := range r.sprites {
		if c == s {
			copy(r.sprites[i:], r.sprites[i+1:])
			r.sprites[len(r.sprites)-1] = nil
			r.sprites = r.sprites[:len(r.sprites)-1]
			return
		}
	}
}

// --- Batch operations ---

// UpdateAndDrawSprites runs the native per-frame tick: every displayed
// sprite is updated and then drawn in native z-order, and collision
// responses are resolved as sprites move.
func (r *Registry) UpdateAndDrawSprites() {
	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}
	r.native.UpdateAndDrawSprites()
	r.frames++
	if r.debug {
		r.debugLog(debugStats{
			frame:     r.frames,
			tickTime:  time.Since(t0),
			owned:     len(r.sprites),
			displayed: r.native.SpriteCount(),
			live:      r.handles.count(),
		})
	}
}

// DrawSprites draws every displayed sprite without updating.
func (r *Registry) DrawSprites() {
	r.native.DrawSprites()
}

// ResetCollisionWorld rebuilds the native collision world.
func (r *Registry) ResetCollisionWorld() {
	r.native.ResetCollisionWorld()
}

// RemoveAllSprites detaches every sprite from the native scene. Sprites are
// not freed.
func (r *Registry) RemoveAllSprites() {
	r.native.RemoveAllSprites()
	r.handles.each(func(d *spriteData) {
		d.displayed = false
	})
}

// Detach removes several sprites from the native scene in one call. Sprites
// are not freed.
func (r *Registry) Detach(views ...SpriteView) {
	hs := make([]Handle, 0, len(views))
	for _, v := range views {
		if v.reg != r || v.d.freed || !v.d.displayed {
			continue
		}
		hs = append(hs, v.d.handle)
		v.d.displayed = false
	}
	if len(hs) > 0 {
		r.native.RemoveSprites(hs)
	}
}

// SpriteCount returns the number of sprites in the native scene list.
func (r *Registry) SpriteCount() int {
	return r.native.SpriteCount()
}

// SetClipRectsInRange clips every sprite with a z-index in [startZ, endZ].
func (r *Registry) SetClipRectsInRange(clip IntRect, startZ, endZ int) {
	r.native.SetClipRectsInRange(clip, startZ, endZ)
}

func (r *Registry) ClearClipRectsInRange(startZ, endZ int) {
	r.native.ClearClipRectsInRange(startZ, endZ)
}

// SetAlwaysRedraw makes the native engine redraw every sprite each frame.
func (r *Registry) SetAlwaysRedraw(always bool) {
	r.native.SetAlwaysRedraw(always)
}

func (r *Registry) AddDirtyRect(rect IntRect) {
	r.native.AddDirtyRect(rect)
}

// --- Spatial queries ---

// AtPoint returns the owned, displayed sprites whose collide rect contains
// the point. It scans the registry's own list; views alias no other owner.
func (r *Registry) AtPoint(x, y float32) []SpriteView {
	var hits []SpriteView
	for _, s := range r.sprites {
		if rect, ok := r.worldCollideRect(s.d); ok && rect.Contains(x, y) {
			hits = append(hits, s.View())
		}
	}
	return hits
}

// InRect returns the owned, displayed sprites whose collide rect intersects rect.
func (r *Registry) InRect(rect Rect) []SpriteView {
	var hits []SpriteView
	for _, s := range r.sprites {
		if cr, ok := r.worldCollideRect(s.d); ok && cr.Intersects(rect) {
			hits = append(hits, s.View())
		}
	}
	return hits
}

func (r *Registry) worldCollideRect(d *spriteData) (Rect, bool) {
	if d.freed || !d.displayed || !r.native.CollisionsEnabled(d.handle) {
		return Rect{}, false
	}
	cr := r.native.CollideRect(d.handle)
	if cr.IsEmpty() {
		return Rect{}, false
	}
	b := r.native.Bounds(d.handle)
	return cr.Offset(b.X, b.Y), true
}

// AlongLine returns the sprites whose collide rects the segment crosses.
func (r *Registry) AlongLine(x1, y1, x2, y2 float32) []SpriteView {
	hs, buf := r.native.QuerySpritesAlongLine(x1, y1, x2, y2)
	return r.translateHandles(hs, buf)
}

// InfoAlongLine returns where the segment enters and leaves each sprite it
// crosses, ordered along the segment.
func (r *Registry) InfoAlongLine(x1, y1, x2, y2 float32) []LineHit {
	raw, buf := r.native.QuerySpriteInfoAlongLine(x1, y1, x2, y2)
	return r.translateQueryInfo(raw, buf)
}

// AllOverlapping returns every pair of overlapping collidable sprites.
func (r *Registry) AllOverlapping() [][2]SpriteView {
	hs, buf := r.native.AllOverlappingSprites()
	views := r.translateHandles(hs, buf)
	if len(views)%2 != 0 {
		panic(fmt.Sprintf("thicket: native returned %d handles for overlapping pairs", len(views)))
	}
	pairs := make([][2]SpriteView, 0, len(views)/2)
	for i := 0; i < len(views); i += 2 {
		pairs = append(pairs, [2]SpriteView{views[i], views[i+1]})
	}
	return pairs
}

// --- Configuration ---

// SetEventSink sets the optional ECS bridge.
func (r *Registry) SetEventSink(sink EventSink) {
	r.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, use of a freed
// sprite panics, sprite count warnings are printed, and per-frame stats are
// logged to stderr.
func (r *Registry) SetDebugMode(enabled bool) {
	r.debug = enabled
}

// Frames returns the number of completed UpdateAndDrawSprites ticks.
func (r *Registry) Frames() uint64 {
	return r.frames
}
