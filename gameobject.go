package thicket

import "github.com/hajimehoshi/ebiten/v2"

// GameObject is the logic attached to one sprite. Init is called exactly once
// and must build and return the object's sprite from the given builder,
// either added to the scene or left detached.
//
// The remaining capabilities are optional interfaces. An object that does not
// implement one gets its default: Updater keeps the sprite, Drawer and
// Destroyer do nothing, Collider answers CollisionOverlap.
type GameObject interface {
	Init(b *SpriteBuilder) *Sprite
}

// Updater runs once per frame while the sprite is displayed and its updates
// are enabled. Returning Destroy tears the sprite down immediately; the
// context's sprite must not be used afterward.
type Updater interface {
	Update(ctx UpdateContext) Persistence
}

// Drawer runs once per frame while the sprite is displayed and visible.
type Drawer interface {
	Draw(ctx DrawContext)
}

// Collider decides the physical response for one overlapping pair. Its answer
// is authoritative for that pair in the current move.
type Collider interface {
	Collide(ctx CollisionContext) CollisionResponse
}

// Destroyer runs once when the sprite is torn down.
type Destroyer interface {
	Destroy()
}

// UpdateContext is passed to Update.
type UpdateContext struct {
	Sprite  SpriteView
	Sprites *Registry
}

// DrawContext is passed to Draw. Screen is the native display buffer, or nil
// when the native engine does not expose one.
type DrawContext struct {
	Sprite   SpriteView
	Bounds   Rect
	DrawRect Rect
	Screen   *ebiten.Image
}

// CollisionContext is passed to Collide.
type CollisionContext struct {
	Sprite      SpriteView
	Other       SpriteView
	OtherObject ObjectRef
	Sprites     *Registry
}

// ObjectRef is a non-owning alias of another sprite's logic object. It gives
// no access to the owner's teardown path.
type ObjectRef struct {
	obj GameObject
}

// IsNil reports whether the reference is empty.
func (r ObjectRef) IsNil() bool {
	return r.obj == nil
}

// Object returns the referenced object for type switches.
func (r ObjectRef) Object() GameObject {
	return r.obj
}

// As downcasts a reference to a concrete logic object type. A failed
// downcast is a normal "no match".
//
//	if enemy, ok := thicket.As[*Enemy](info.OtherObject); ok {
//		enemy.SetHit()
//	}
func As[T any](r ObjectRef) (T, bool) {
	t, ok := r.obj.(T)
	return t, ok
}

// --- Default dispatch ---

func updateObject(obj GameObject, ctx UpdateContext) Persistence {
	if u, ok := obj.(Updater); ok {
		return u.Update(ctx)
	}
	return Keep
}

func drawObject(obj GameObject, ctx DrawContext) {
	if d, ok := obj.(Drawer); ok {
		d.Draw(ctx)
	}
}

func collideObject(obj GameObject, ctx CollisionContext) CollisionResponse {
	if c, ok := obj.(Collider); ok {
		return c.Collide(ctx)
	}
	return CollisionOverlap
}

func destroyObject(obj GameObject) {
	if d, ok := obj.(Destroyer); ok {
		d.Destroy()
	}
}
