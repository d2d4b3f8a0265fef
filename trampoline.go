package thicket

import "fmt"

// dataFor resolves a native handle to its correlated data block through the
// handle's userdata slot. A handle without one is a native fault.
func (r *Registry) dataFor(h Handle) *spriteData {
	d := r.handles.lookup(r.native.Userdata(h))
	if d == nil || d.handle != h {
		panic(fmt.Sprintf("thicket: native handle %#x has no correlated data", uintptr(h)))
	}
	return d
}

// viewOf builds a transient non-owning view for a recovered block.
func (r *Registry) viewOf(d *spriteData) SpriteView {
	return SpriteView{spriteOps{reg: r, d: d}}
}

// updateTrampoline is installed as every sprite's native update function.
func (r *Registry) updateTrampoline(h Handle) {
	d := r.dataFor(h)
	ctx := UpdateContext{Sprite: r.viewOf(d), Sprites: r}
	if updateObject(d.obj, ctx) == Destroy {
		r.teardown(d)
	}
}

// drawTrampoline is installed as every sprite's native draw function.
func (r *Registry) drawTrampoline(h Handle, bounds, drawRect Rect) {
	d := r.dataFor(h)
	ctx := DrawContext{
		Sprite:   r.viewOf(d),
		Bounds:   bounds,
		DrawRect: drawRect,
	}
	if fs, ok := r.native.(FrameSource); ok {
		ctx.Screen = fs.Frame()
	}
	drawObject(d.obj, ctx)
}

// collisionTrampoline is installed as every sprite's native collision
// response function. It resolves both handles and returns the native
// encoding of the object's verdict.
func (r *Registry) collisionTrampoline(self, other Handle) uint32 {
	sd := r.dataFor(self)
	od := r.dataFor(other)
	ctx := CollisionContext{
		Sprite:      r.viewOf(sd),
		Other:       r.viewOf(od),
		OtherObject: ObjectRef{obj: od.obj},
		Sprites:     r,
	}
	resp := collideObject(sd.obj, ctx)
	if r.sink != nil {
		r.emit(Event{
			Type:     EventCollision,
			Handle:   self,
			Other:    other,
			Tag:      r.native.Tag(self),
			OtherTag: r.native.Tag(other),
			Response: resp,
		})
	}
	return resp.code()
}
