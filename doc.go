// Package thicket binds game logic objects to the sprites of a native
// retained-mode sprite engine.
//
// The native engine owns the display list, draws sprites in z-order and
// resolves movement against collide rects. Thicket owns everything the
// engine cannot: the logic object attached to each sprite, the images it
// draws, and the translation of the engine's callbacks and result arrays into
// ordinary Go values.
//
// # Quick start
//
// Implement [GameObject] and spawn it through a [Registry]:
//
//	type Ship struct{ img *thicket.Bitmap }
//
//	func (s *Ship) Init(b *thicket.SpriteBuilder) *thicket.Sprite {
//		return b.Image(s.img, thicket.FlipNone).MoveTo(200, 180).Add().Build()
//	}
//
//	func (s *Ship) Update(ctx thicket.UpdateContext) thicket.Persistence {
//		ctx.Sprite.MoveBy(0, -1)
//		return thicket.Keep
//	}
//
//	engine := softengine.New(400, 240)
//	engine.AttachFrame()
//	reg := thicket.NewRegistry(engine)
//	reg.NewSprite(&Ship{img: img})
//	thicket.Run(reg, thicket.RunConfig{Title: "Ships", Width: 400, Height: 240}, nil)
//
// # Logic objects
//
// Only Init is required. [Updater], [Drawer], [Collider] and [Destroyer] are
// optional; an object without one gets the default behavior (keep the
// sprite, draw nothing extra, pass through collisions, no cleanup).
//
// Returning [Destroy] from Update tears the sprite down right away. The
// engine skips it for the rest of the frame.
//
// # Ownership
//
// A [Sprite] is the single owner of a native sprite. Everything else, the
// views passed to callbacks and the partners reported in collisions, is a
// [SpriteView] or [ObjectRef] and never frees anything. Use [As] to reach a
// partner's concrete type:
//
//	for _, c := range collisions {
//		if enemy, ok := thicket.As[*Enemy](c.OtherObject); ok {
//			enemy.SetHit()
//		}
//	}
//
// Native result arrays are copied and freed before control returns to you.
//
// # Shared state
//
// Objects that share mutable state hold a [Cell]. Borrowing it twice for
// writing, or for reading while it is written, panics instead of corrupting
// the value.
//
// # Native engines
//
// [Native] is the boundary to the engine. The softengine package is a pure
// Go implementation that renders with Ebitengine and runs headless in tests.
//
// # Debug mode
//
// [Registry.SetDebugMode] turns use of a freed sprite into a descriptive
// panic and logs per-frame stats to stderr.
package thicket
