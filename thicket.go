package thicket

import "fmt"

// Rect is an axis-aligned rectangle in the native engine's float encoding.
// The coordinate system has its origin at the top-left, with Y increasing
// downward.
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float32) Rect {
	return Rect{r.X + dx, r.Y + dy, r.Width, r.Height}
}

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IntRect is the native engine's integer rectangle, given by its edges.
type IntRect struct {
	Left, Right, Top, Bottom int
}

// Point is a position or movement vector.
type Point struct {
	X, Y float32
}

// IntPoint is an integer vector. Collision normals use it.
type IntPoint struct {
	X, Y int32
}

// Flip selects how a sprite's image is mirrored when drawn.
type Flip uint8

const (
	FlipNone Flip = iota // draw as-is
	FlipX                // mirror horizontally
	FlipY                // mirror vertically
	FlipXY               // mirror both axes
)

// DrawMode selects the compositing the native engine applies to a sprite's image.
type DrawMode uint8

const (
	DrawModeCopy             DrawMode = iota // plain copy
	DrawModeWhiteTransparent                 // white pixels are not drawn
	DrawModeBlackTransparent                 // black pixels are not drawn
	DrawModeFillWhite                        // opaque pixels drawn white
	DrawModeFillBlack                        // opaque pixels drawn black
	DrawModeXOR                              // XOR with the destination
	DrawModeNXOR                             // NXOR with the destination
	DrawModeInverted                         // colors inverted
)

// CollisionResponse is a per-pair verdict consumed by the native physics step.
type CollisionResponse uint8

const (
	CollisionSlide   CollisionResponse = iota // stop at the contact surface and slide along it
	CollisionFreeze                           // stop at the contact point
	CollisionOverlap                          // pass through; no correction
	CollisionBounce                           // reflect off the contact surface
)

func (c CollisionResponse) String() string {
	switch c {
	case CollisionSlide:
		return "slide"
	case CollisionFreeze:
		return "freeze"
	case CollisionOverlap:
		return "overlap"
	case CollisionBounce:
		return "bounce"
	default:
		return fmt.Sprintf("CollisionResponse(%d)", uint8(c))
	}
}

// Overlap tells whether a collision began already overlapping or was found
// along the movement path.
type Overlap uint8

const (
	TunneledThrough Overlap = iota // the path crossed the other sprite
	Overlapping                    // the sprites overlapped at the start of the move
)

// Persistence is the per-frame verdict returned from Update.
type Persistence uint8

const (
	Keep    Persistence = iota // the sprite lives on
	Destroy                    // tear the sprite down now
)

// --- Native numeric encodings ---

// collisionResponseCodes maps responses to the native enumeration.
var collisionResponseCodes = [...]uint32{
	CollisionSlide:   0,
	CollisionFreeze:  1,
	CollisionOverlap: 2,
	CollisionBounce:  3,
}

func (c CollisionResponse) code() uint32 {
	if int(c) >= len(collisionResponseCodes) {
		panic(fmt.Sprintf("thicket: invalid collision response %d", uint8(c)))
	}
	return collisionResponseCodes[c]
}

// collisionResponseFromCode decodes a native response. Unknown codes are a
// native fault.
func collisionResponseFromCode(code uint32) CollisionResponse {
	for resp, c := range collisionResponseCodes {
		if c == code {
			return CollisionResponse(resp)
		}
	}
	panic(fmt.Sprintf("thicket: unknown native collision response %d", code))
}

func overlapFromCode(code uint8) Overlap {
	switch code {
	case 0:
		return TunneledThrough
	case 1:
		return Overlapping
	default:
		panic(fmt.Sprintf("thicket: unknown native overlap code %d", code))
	}
}

// Flip and draw mode codes are forwarded to the native engine verbatim.

func (f Flip) code() uint32     { return uint32(f) }
func (m DrawMode) code() uint32 { return uint32(m) }

func flipFromCode(code uint32) Flip {
	if code > uint32(FlipXY) {
		panic(fmt.Sprintf("thicket: unknown native flip %d", code))
	}
	return Flip(code)
}

func drawModeFromCode(code uint32) DrawMode {
	if code > uint32(DrawModeInverted) {
		panic(fmt.Sprintf("thicket: unknown native draw mode %d", code))
	}
	return DrawMode(code)
}
