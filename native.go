package thicket

import "github.com/hajimehoshi/ebiten/v2"

// Handle is the native engine's identity for a sprite. Zero means the
// allocation failed.
type Handle uintptr

// Alloc identifies a buffer allocated by the native engine. It must be
// handed back through Native.Free exactly once. Zero is the null buffer and
// freeing it is a no-op.
type Alloc uintptr

// Callback signatures the native engine invokes. The binding installs its
// trampolines through these.
type (
	UpdateFunc            func(h Handle)
	DrawFunc              func(h Handle, bounds, drawRect Rect)
	CollisionResponseFunc func(self, other Handle) uint32
)

// RawCollision is one record of a native collision array.
type RawCollision struct {
	Sprite       Handle
	Other        Handle
	ResponseType uint32
	Overlaps     uint8
	Ti           float32
	Move         Point
	Normal       IntPoint
	Touch        Point
	SpriteRect   Rect
	OtherRect    Rect
}

// RawQueryInfo is one record of a native line query.
type RawQueryInfo struct {
	Sprite     Handle
	Ti1, Ti2   float32
	EntryPoint Point
	ExitPoint  Point
}

// Native is the native sprite engine the binding wraps. Every method maps
// 1:1 onto a native entry point and uses the native numeric encodings.
//
// Slices returned alongside an Alloc are views of native memory and are only
// valid until that Alloc is freed. FreeSprite is only valid after
// RemoveSprite.
type Native interface {
	NewSprite() Handle
	FreeSprite(h Handle)
	AddSprite(h Handle)
	RemoveSprite(h Handle)
	RemoveSprites(hs []Handle)
	RemoveAllSprites()
	SpriteCount() int

	SetUserdata(h Handle, data uintptr)
	Userdata(h Handle) uintptr
	SetUpdateFunction(h Handle, fn UpdateFunc)
	SetDrawFunction(h Handle, fn DrawFunc)
	SetCollisionResponseFunction(h Handle, fn CollisionResponseFunc)

	UpdateAndDrawSprites()
	DrawSprites()
	ResetCollisionWorld()
	SetClipRectsInRange(clip IntRect, startZ, endZ int)
	ClearClipRectsInRange(startZ, endZ int)
	SetAlwaysRedraw(always bool)
	AddDirtyRect(r IntRect)

	SetBounds(h Handle, r Rect)
	Bounds(h Handle) Rect
	MoveTo(h Handle, x, y float32)
	MoveBy(h Handle, dx, dy float32)
	Position(h Handle) (x, y float32)
	SetCenter(h Handle, cx, cy float32)
	Center(h Handle) (cx, cy float32)
	SetSize(h Handle, width, height float32)

	SetImage(h Handle, img *ebiten.Image, flip uint32)
	Image(h Handle) *ebiten.Image
	SetImageFlip(h Handle, flip uint32)
	ImageFlip(h Handle) uint32
	SetDrawMode(h Handle, mode uint32)
	DrawMode(h Handle) uint32
	SetZIndex(h Handle, z int16)
	ZIndex(h Handle) int16
	SetTag(h Handle, tag uint8)
	Tag(h Handle) uint8
	SetVisible(h Handle, visible bool)
	IsVisible(h Handle) bool
	SetOpaque(h Handle, opaque bool)
	MarkDirty(h Handle)
	SetUpdatesEnabled(h Handle, enabled bool)
	UpdatesEnabled(h Handle) bool
	SetIgnoresDrawOffset(h Handle, ignore bool)
	SetStencil(h Handle, img *ebiten.Image)
	SetStencilImage(h Handle, img *ebiten.Image, tile bool)
	SetStencilPattern(h Handle, pattern [8]uint8)
	ClearStencil(h Handle)
	SetClipRect(h Handle, clip IntRect)
	ClearClipRect(h Handle)

	SetCollisionsEnabled(h Handle, enabled bool)
	CollisionsEnabled(h Handle) bool
	SetCollideRect(h Handle, r Rect)
	CollideRect(h Handle) Rect
	ClearCollideRect(h Handle)
	CheckCollisions(h Handle, goalX, goalY float32) (actualX, actualY float32, records []RawCollision, buf Alloc)
	MoveWithCollisions(h Handle, goalX, goalY float32) (actualX, actualY float32, records []RawCollision, buf Alloc)
	OverlappingSprites(h Handle) ([]Handle, Alloc)
	AllOverlappingSprites() ([]Handle, Alloc)
	QuerySpritesAtPoint(x, y float32) ([]Handle, Alloc)
	QuerySpritesInRect(x, y, width, height float32) ([]Handle, Alloc)
	QuerySpritesAlongLine(x1, y1, x2, y2 float32) ([]Handle, Alloc)
	QuerySpriteInfoAlongLine(x1, y1, x2, y2 float32) ([]RawQueryInfo, Alloc)

	Free(buf Alloc)
}

// FrameSource is implemented by native engines that expose their display
// buffer. Draw contexts carry it so logic objects can draw directly.
type FrameSource interface {
	Frame() *ebiten.Image
}
