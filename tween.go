package thicket

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates two coordinates of a sprite simultaneously.
// Create one via TweenPosition or TweenCenter and call Update(dt) each
// frame, typically from the sprite's own Update. The group applies values to
// the sprite as it goes. If the target sprite is freed, the group stops
// immediately.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	apply  func(s SpriteView, a, b float32)
	target SpriteView
	Done   bool
}

// Update advances the tweens by dt seconds and writes the values to the
// target sprite. If the target has been freed, Done is set and no writes
// occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target.IsZero() || g.target.IsFreed() {
		g.Done = true
		return
	}

	a, doneA := g.tweens[0].Update(dt)
	b, doneB := g.tweens[1].Update(dt)
	g.apply(g.target, a, b)
	g.target.MarkDirty()
	g.Done = doneA && doneB
}

// Reset rewinds the group to its start.
func (g *TweenGroup) Reset() {
	g.tweens[0].Reset()
	g.tweens[1].Reset()
	g.Done = false
}

// TweenPosition creates a TweenGroup that moves the sprite from its current
// position to (toX, toY) over duration seconds using the easing function.
func TweenPosition(s SpriteView, toX, toY float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := s.Position()
	return &TweenGroup{
		tweens: [2]*gween.Tween{
			gween.New(p.X, toX, duration, fn),
			gween.New(p.Y, toY, duration, fn),
		},
		apply:  func(s SpriteView, x, y float32) { s.MoveTo(x, y) },
		target: s,
	}
}

// TweenCenter creates a TweenGroup that animates the sprite's anchor.
func TweenCenter(s SpriteView, toCX, toCY float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := s.Center()
	return &TweenGroup{
		tweens: [2]*gween.Tween{
			gween.New(c.X, toCX, duration, fn),
			gween.New(c.Y, toCY, duration, fn),
		},
		apply:  func(s SpriteView, cx, cy float32) { s.SetCenter(cx, cy) },
		target: s,
	}
}
