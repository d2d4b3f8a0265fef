package thicket

// SpriteBuilder stages a sprite's configuration. Settings are applied in the
// order they were given when Build runs. A builder produces exactly one
// Sprite; building twice panics.
//
//	return b.Image(img, thicket.FlipNone).
//		MoveTo(200, 180).
//		ZIndex(1000).
//		CollideRect(thicket.Rect{X: 5, Y: 5, Width: 22, Height: 22}).
//		Add().
//		Build()
type SpriteBuilder struct {
	reg   *Registry
	obj   GameObject
	steps []func(s spriteOps)
	add   bool
	built bool
}

// NewBuilder returns a builder for a sprite driven by obj.
func (r *Registry) NewBuilder(obj GameObject) *SpriteBuilder {
	if obj == nil {
		panic("thicket: cannot build a sprite for a nil object")
	}
	return &SpriteBuilder{reg: r, obj: obj}
}

// Registry returns the registry the sprite will be built in.
func (b *SpriteBuilder) Registry() *Registry {
	return b.reg
}

func (b *SpriteBuilder) stage(step func(s spriteOps)) *SpriteBuilder {
	b.steps = append(b.steps, step)
	return b
}

// Image sets the sprite's image. The sprite takes its own reference.
func (b *SpriteBuilder) Image(img *Bitmap, flip Flip) *SpriteBuilder {
	return b.stage(func(s spriteOps) { s.SetImage(img, flip) })
}

// MoveTo positions the sprite's anchor.
func (b *SpriteBuilder) MoveTo(x, y float32) *SpriteBuilder {
	return b.stage(func(s spriteOps) { s.MoveTo(x, y) })
}

func (b *SpriteBuilder) ZIndex(z int16) *SpriteBuilder {
	return b.stage(func(s spriteOps) { s.SetZIndex(z) })
}

func (b *SpriteBuilder) CollideRect(r Rect) *SpriteBuilder {
	return b.stage(func(s spriteOps) { s.SetCollideRect(r) })
}

func (b *SpriteBuilder) Tag(tag uint8) *SpriteBuilder {
	return b.stage(func(s spriteOps) { s.SetTag(tag) })
}

func (b *SpriteBuilder) Bounds(r Rect) *SpriteBuilder {
	return b.stage(func(s spriteOps) { s.SetBounds(r) })
}

func (b *SpriteBuilder) Center(cx, cy float32) *SpriteBuilder {
	return b.stage(func(s spriteOps) { s.SetCenter(cx, cy) })
}

func (b *SpriteBuilder) Size(w, h float32) *SpriteBuilder {
	return b.stage(func(s spriteOps) { s.SetSize(w, h) })
}

func (b *SpriteBuilder) DrawMode(mode DrawMode) *SpriteBuilder {
	return b.stage(func(s spriteOps) { s.SetDrawMode(mode) })
}

// Add inserts the sprite into the scene at the end of Build. Without it the
// sprite stays detached until Add is called on it.
func (b *SpriteBuilder) Add() *SpriteBuilder {
	b.add = true
	return b
}

// Build allocates the native sprite, attaches a fresh correlated data block,
// installs the trampolines, applies the staged settings and, if requested,
// adds the sprite to the scene. Allocation failure panics.
func (b *SpriteBuilder) Build() *Sprite {
	if b.built {
		panic("thicket: SpriteBuilder built twice")
	}
	b.built = true

	r := b.reg
	h := r.native.NewSprite()
	if h == 0 {
		panic("thicket: native sprite allocation failed")
	}

	d := &spriteData{handle: h, obj: b.obj}
	d.id = r.handles.register(d)
	r.native.SetUserdata(h, d.id)
	r.native.SetUpdateFunction(h, r.updateTrampoline)
	r.native.SetDrawFunction(h, r.drawTrampoline)
	r.native.SetCollisionResponseFunction(h, r.collisionTrampoline)

	s := &Sprite{spriteOps{reg: r, d: d}}
	d.owner = s

	for _, step := range b.steps {
		step(s.spriteOps)
	}
	b.steps = nil
	if b.add {
		s.Add()
	}

	if r.sink != nil {
		r.emit(Event{Type: EventSpawned, Handle: h, Tag: s.Tag()})
	}
	return s
}
