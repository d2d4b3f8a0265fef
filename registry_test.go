package thicket_test

import (
	"image/color"
	"strings"
	"testing"

	"github.com/phanxgames/thicket"
	"github.com/phanxgames/thicket/softengine"
)

// block is a configurable logic object used across the tests.
type block struct {
	x, y     float32
	size     float32
	img      *thicket.Bitmap
	detached bool
	tag      uint8
	response thicket.CollisionResponse

	updates  int
	draws    int
	destroys int
	collides int
	verdict  thicket.Persistence
	lastDraw thicket.DrawContext
	hit      bool
}

func (b *block) Init(sb *thicket.SpriteBuilder) *thicket.Sprite {
	if b.img != nil {
		sb.Image(b.img, thicket.FlipNone)
	} else if b.size > 0 {
		sb.Size(b.size, b.size)
	}
	sb.MoveTo(b.x, b.y).Tag(b.tag)
	if b.size > 0 {
		sb.CollideRect(thicket.Rect{Width: b.size, Height: b.size})
	}
	if !b.detached {
		sb.Add()
	}
	return sb.Build()
}

func (b *block) Update(thicket.UpdateContext) thicket.Persistence {
	b.updates++
	return b.verdict
}

func (b *block) Draw(ctx thicket.DrawContext) {
	b.draws++
	b.lastDraw = ctx
}

func (b *block) Collide(thicket.CollisionContext) thicket.CollisionResponse {
	b.collides++
	return b.response
}

func (b *block) Destroy() {
	b.destroys++
}

// inert implements only Init, so every other capability is defaulted.
type inert struct {
	size float32
}

func (o *inert) Init(sb *thicket.SpriteBuilder) *thicket.Sprite {
	return sb.Size(o.size, o.size).
		CollideRect(thicket.Rect{Width: o.size, Height: o.size}).
		Add().
		Build()
}

func newRegistry() (*thicket.Registry, *softengine.Engine) {
	e := softengine.New(softengine.DefaultWidth, softengine.DefaultHeight)
	return thicket.NewRegistry(e), e
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestNewSpriteAddsToScene(t *testing.T) {
	r, _ := newRegistry()
	v := r.NewSprite(&block{x: 10, y: 10, size: 4})

	if !v.IsDisplayed() {
		t.Error("sprite built with Add should be displayed")
	}
	if r.SpriteCount() != 1 || r.Len() != 1 {
		t.Errorf("SpriteCount = %d, Len = %d; want 1, 1", r.SpriteCount(), r.Len())
	}
	if p := v.Position(); p.X != 10 || p.Y != 10 {
		t.Errorf("Position = %+v, want (10, 10)", p)
	}
}

func TestBuilderWithoutAddIsNotTraversed(t *testing.T) {
	r, _ := newRegistry()
	obj := &block{size: 4, detached: true}
	v := r.NewSprite(obj)

	r.UpdateAndDrawSprites()
	if v.IsDisplayed() || r.SpriteCount() != 0 {
		t.Error("sprite built without Add should stay detached")
	}
	if obj.updates != 0 || obj.draws != 0 {
		t.Errorf("updates = %d, draws = %d; want 0", obj.updates, obj.draws)
	}

	v.Add()
	r.UpdateAndDrawSprites()
	if obj.updates != 1 || obj.draws != 1 {
		t.Errorf("after Add: updates = %d, draws = %d; want 1", obj.updates, obj.draws)
	}
}

func TestAddRemoveTracksDisplayed(t *testing.T) {
	r, _ := newRegistry()
	v := r.NewSprite(&block{size: 4, detached: true})

	v.Add()
	v.Add()
	if !v.IsDisplayed() || r.SpriteCount() != 1 {
		t.Errorf("after double Add: displayed = %v, count = %d", v.IsDisplayed(), r.SpriteCount())
	}
	v.Remove()
	v.Remove()
	if v.IsDisplayed() || r.SpriteCount() != 0 {
		t.Errorf("after double Remove: displayed = %v, count = %d", v.IsDisplayed(), r.SpriteCount())
	}
}

func TestDefaultCapabilities(t *testing.T) {
	r, e := newRegistry()
	a := r.NewSprite(&inert{size: 10})
	r.NewSprite(&inert{size: 10})

	for range 5 {
		r.UpdateAndDrawSprites()
	}
	if a.IsFreed() || r.Len() != 2 {
		t.Error("default update should keep the sprite")
	}

	var got []thicket.CollisionInfo
	a.MoveWithCollisions(3, 0, func(_ thicket.SpriteView, infos []thicket.CollisionInfo) {
		got = infos
	})
	if len(got) != 1 || got[0].Response != thicket.CollisionOverlap {
		t.Errorf("default collide should answer overlap, got %+v", got)
	}
	if e.LiveAllocs() != 0 {
		t.Errorf("LiveAllocs = %d, want 0", e.LiveAllocs())
	}
}

func TestUpdateDestroyTearsDownOnce(t *testing.T) {
	r, e := newRegistry()
	obj := &block{size: 4, verdict: thicket.Destroy}
	v := r.NewSprite(obj)

	r.UpdateAndDrawSprites()
	if !v.IsFreed() {
		t.Fatal("sprite should be freed after Destroy verdict")
	}
	if obj.destroys != 1 {
		t.Errorf("destroys = %d, want 1", obj.destroys)
	}
	if obj.draws != 0 {
		t.Error("destroyed sprite should not be drawn")
	}
	if r.Len() != 0 || e.LiveSprites() != 0 || r.SpriteCount() != 0 {
		t.Errorf("Len = %d, LiveSprites = %d, SpriteCount = %d; want 0",
			r.Len(), e.LiveSprites(), r.SpriteCount())
	}

	if r.Remove(v) {
		t.Error("Remove of a freed sprite should report false")
	}
	if obj.destroys != 1 {
		t.Errorf("destroys = %d after Remove, want 1", obj.destroys)
	}
}

func TestDestroyMidFrameSkipsRest(t *testing.T) {
	r, _ := newRegistry()
	first := &block{size: 4, verdict: thicket.Destroy}
	second := &block{size: 4}
	r.NewSprite(first)
	r.NewSprite(second)

	r.UpdateAndDrawSprites()
	if second.updates != 1 || second.draws != 1 {
		t.Errorf("second: updates = %d, draws = %d; want 1, 1", second.updates, second.draws)
	}
}

func TestFreeIsIdempotent(t *testing.T) {
	r, e := newRegistry()
	obj := &block{size: 4}
	s := r.NewBuilder(obj).Size(4, 4).Add().Build()

	s.Free()
	s.Free()
	if obj.destroys != 1 {
		t.Errorf("destroys = %d, want 1", obj.destroys)
	}
	if e.LiveSprites() != 0 {
		t.Errorf("LiveSprites = %d, want 0", e.LiveSprites())
	}
}

func TestImageRefCount(t *testing.T) {
	r, _ := newRegistry()
	img := thicket.NewSolidBitmap(8, 8, color.White)
	v := r.NewSprite(&block{img: img})

	if img.RefCount() != 2 {
		t.Errorf("RefCount after build = %d, want 2", img.RefCount())
	}
	if v.Image() != img {
		t.Error("Image should return the cached bitmap")
	}
	if b := v.Bounds(); b.Width != 8 || b.Height != 8 {
		t.Errorf("bounds = %+v, want 8x8", b)
	}

	other := thicket.NewSolidBitmap(4, 4, color.Black)
	v.SetImage(other, thicket.FlipX)
	if img.RefCount() != 1 || other.RefCount() != 2 {
		t.Errorf("RefCounts = %d, %d; want 1, 2", img.RefCount(), other.RefCount())
	}
	if v.ImageFlip() != thicket.FlipX {
		t.Errorf("ImageFlip = %v, want FlipX", v.ImageFlip())
	}

	r.Remove(v)
	if other.RefCount() != 1 {
		t.Errorf("RefCount after teardown = %d, want 1", other.RefCount())
	}
	img.Release()
	other.Release()
}

func TestStencilRetainsBitmap(t *testing.T) {
	r, _ := newRegistry()
	v := r.NewSprite(&block{size: 4})
	st := thicket.NewSolidBitmap(8, 8, color.White)

	v.SetStencilImage(st, true)
	if st.RefCount() != 2 {
		t.Errorf("RefCount = %d, want 2", st.RefCount())
	}
	if got, ok := v.Stencil(); !ok || got.Bitmap != st || !got.Tiled {
		t.Errorf("Stencil = %+v, %v", got, ok)
	}

	v.SetStencilPattern([8]uint8{0xF0})
	if st.RefCount() != 1 {
		t.Errorf("RefCount after replacing stencil = %d, want 1", st.RefCount())
	}
	if got, _ := v.Stencil(); !got.IsPattern() || got.Pattern[0] != 0xF0 {
		t.Errorf("Stencil = %+v", got)
	}
	v.ClearStencil()
	if _, ok := v.Stencil(); ok {
		t.Error("ClearStencil should drop the cached stencil")
	}
	st.Release()
}

func TestNilStencilPanics(t *testing.T) {
	r, _ := newRegistry()
	v := r.NewSprite(&block{size: 4})
	for name, fn := range map[string]func(){
		"SetStencil":      func() { v.SetStencil(nil) },
		"SetStencilImage": func() { v.SetStencilImage(nil, true) },
	} {
		func() {
			defer func() {
				msg, _ := recover().(string)
				if !strings.HasPrefix(msg, "thicket: nil stencil") {
					t.Errorf("%s: panic = %q", name, msg)
				}
			}()
			fn()
		}()
	}
	if _, ok := v.Stencil(); ok {
		t.Error("a rejected stencil should not be cached")
	}
}

func TestPropertyRoundTrips(t *testing.T) {
	r, _ := newRegistry()
	v := r.NewSprite(&block{size: 4})

	v.SetTag(3)
	if v.Tag() != 3 {
		t.Errorf("Tag = %d, want 3", v.Tag())
	}
	v.SetZIndex(1000)
	if v.ZIndex() != 1000 {
		t.Errorf("ZIndex = %d, want 1000", v.ZIndex())
	}
	v.SetDrawMode(thicket.DrawModeFillWhite)
	if v.DrawMode() != thicket.DrawModeFillWhite {
		t.Errorf("DrawMode = %v", v.DrawMode())
	}
	v.SetVisible(false)
	if v.IsVisible() {
		t.Error("IsVisible should be false")
	}
	v.SetUpdatesEnabled(false)
	if v.UpdatesEnabled() {
		t.Error("UpdatesEnabled should be false")
	}
	cr := thicket.Rect{X: 1, Y: 1, Width: 2, Height: 2}
	v.SetCollideRect(cr)
	if v.CollideRect() != cr {
		t.Errorf("CollideRect = %+v", v.CollideRect())
	}
	v.SetCenter(0, 0)
	if c := v.Center(); c.X != 0 || c.Y != 0 {
		t.Errorf("Center = %+v", c)
	}
}

func TestAllocationFailurePanics(t *testing.T) {
	r, e := newRegistry()
	e.FailNextAlloc()
	mustPanic(t, "allocation failure", func() { r.NewSprite(&block{}) })
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestBuilderBuiltTwicePanics(t *testing.T) {
	r, _ := newRegistry()
	b := r.NewBuilder(&block{})
	s := b.Build()
	mustPanic(t, "second Build", func() { b.Build() })
	s.Free()
}

func TestNewBuilderNilObjectPanics(t *testing.T) {
	r, _ := newRegistry()
	mustPanic(t, "nil object", func() { r.NewBuilder(nil) })
}

// mismatched builds its sprite for a different object.
type mismatched struct{}

func (m *mismatched) Init(sb *thicket.SpriteBuilder) *thicket.Sprite {
	return sb.Registry().NewBuilder(&inert{}).Build()
}

func TestInitReturningForeignSpritePanics(t *testing.T) {
	r, _ := newRegistry()
	mustPanic(t, "foreign sprite", func() { r.NewSprite(&mismatched{}) })
}

func TestRemoveAllSprites(t *testing.T) {
	r, _ := newRegistry()
	a := r.NewSprite(&block{size: 4})
	b := r.NewSprite(&block{size: 4})

	r.RemoveAllSprites()
	if a.IsDisplayed() || b.IsDisplayed() {
		t.Error("RemoveAllSprites should clear displayed flags")
	}
	if r.SpriteCount() != 0 || r.Len() != 2 {
		t.Errorf("SpriteCount = %d, Len = %d; want 0, 2", r.SpriteCount(), r.Len())
	}
	a.Add()
	if !a.IsDisplayed() || r.SpriteCount() != 1 {
		t.Error("re-adding after RemoveAllSprites should work")
	}
}

func TestDetach(t *testing.T) {
	r, _ := newRegistry()
	a := r.NewSprite(&block{size: 4})
	b := r.NewSprite(&block{size: 4})
	c := r.NewSprite(&block{size: 4})

	r.Detach(a, c)
	if a.IsDisplayed() || c.IsDisplayed() || !b.IsDisplayed() {
		t.Error("Detach should only remove the given sprites")
	}
	if r.SpriteCount() != 1 {
		t.Errorf("SpriteCount = %d, want 1", r.SpriteCount())
	}
}

func TestAtPointAndInRect(t *testing.T) {
	r, _ := newRegistry()
	a := r.NewSprite(&block{x: 5, y: 5, size: 10})
	b := r.NewSprite(&block{x: 55, y: 55, size: 10})
	hidden := r.NewSprite(&block{x: 5, y: 5, size: 10, detached: true})

	hits := r.AtPoint(5, 5)
	if len(hits) != 1 || hits[0] != a {
		t.Errorf("AtPoint = %v, want [a]", hits)
	}
	for _, h := range hits {
		if h == hidden {
			t.Error("detached sprite should not be found")
		}
	}

	hits = r.InRect(thicket.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	if len(hits) != 2 || hits[0] != a || hits[1] != b {
		t.Errorf("InRect = %v, want [a b]", hits)
	}

	a.SetCollisionsEnabled(false)
	if hits := r.AtPoint(5, 5); len(hits) != 0 {
		t.Errorf("AtPoint with collisions disabled = %v, want none", hits)
	}
}

func TestAllOverlapping(t *testing.T) {
	r, e := newRegistry()
	a := r.NewSprite(&block{x: 5, y: 5, size: 10})
	b := r.NewSprite(&block{x: 10, y: 10, size: 10})
	r.NewSprite(&block{x: 100, y: 100, size: 10})

	pairs := r.AllOverlapping()
	if len(pairs) != 1 || pairs[0] != [2]thicket.SpriteView{a, b} {
		t.Errorf("AllOverlapping = %v", pairs)
	}
	if got := a.OverlappingSprites(); len(got) != 1 || got[0] != b {
		t.Errorf("OverlappingSprites = %v", got)
	}
	if e.LiveAllocs() != 0 {
		t.Errorf("LiveAllocs = %d, want 0", e.LiveAllocs())
	}
}

func TestLineQueries(t *testing.T) {
	r, e := newRegistry()
	far := r.NewSprite(&block{x: 65, y: 5, size: 10})
	near := r.NewSprite(&block{x: 25, y: 5, size: 10})

	views := r.AlongLine(0, 5, 100, 5)
	if len(views) != 2 || views[0] != near || views[1] != far {
		t.Errorf("AlongLine = %v", views)
	}
	hits := r.InfoAlongLine(0, 5, 100, 5)
	if len(hits) != 2 || hits[0].Sprite != near || hits[0].Ti1 >= hits[1].Ti1 {
		t.Errorf("InfoAlongLine = %+v", hits)
	}
	if e.LiveAllocs() != 0 {
		t.Errorf("LiveAllocs = %d, want 0", e.LiveAllocs())
	}
}

func TestCloseFreesEverything(t *testing.T) {
	r, e := newRegistry()
	objs := []*block{{size: 4}, {size: 4}, {size: 4, detached: true}}
	for _, o := range objs {
		r.NewSprite(o)
	}
	r.Close()
	for i, o := range objs {
		if o.destroys != 1 {
			t.Errorf("objs[%d].destroys = %d, want 1", i, o.destroys)
		}
	}
	if r.Len() != 0 || e.LiveSprites() != 0 {
		t.Errorf("Len = %d, LiveSprites = %d; want 0", r.Len(), e.LiveSprites())
	}
}

func TestAdoptUserOwnedSprite(t *testing.T) {
	r, _ := newRegistry()
	s := r.NewBuilder(&block{}).Build()
	v := r.Adopt(s)
	r.Adopt(s)
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	if views := r.Views(); len(views) != 1 || views[0] != v {
		t.Errorf("Views = %v", views)
	}
	s.Free()
	if r.Len() != 0 {
		t.Error("freeing an adopted sprite should drop it from the registry")
	}
}

func TestDebugModeUseAfterFreePanics(t *testing.T) {
	r, _ := newRegistry()
	r.SetDebugMode(true)
	v := r.NewSprite(&block{size: 4})
	r.Remove(v)
	mustPanic(t, "use after free", func() { v.Bounds() })
}

func TestFramesCount(t *testing.T) {
	r, _ := newRegistry()
	r.UpdateAndDrawSprites()
	r.UpdateAndDrawSprites()
	if r.Frames() != 2 {
		t.Errorf("Frames = %d, want 2", r.Frames())
	}
}

func TestNewRegistryNilPanics(t *testing.T) {
	mustPanic(t, "nil native", func() { thicket.NewRegistry(nil) })
}
