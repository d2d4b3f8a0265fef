package softengine

import (
	"fmt"
	"math"
	"slices"

	"github.com/phanxgames/thicket"
)

// Native response codes.
const (
	respSlide   uint32 = 0
	respFreeze  uint32 = 1
	respOverlap uint32 = 2
	respBounce  uint32 = 3
)

const delta = 1e-10

// rect is the float64 working form of a collide rect.
type rect struct {
	x, y, w, h float64
}

func toRect(r thicket.Rect) rect {
	return rect{float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height)}
}

func (r rect) out() thicket.Rect {
	return thicket.Rect{X: float32(r.x), Y: float32(r.y), Width: float32(r.w), Height: float32(r.h)}
}

func (r rect) containsPoint(px, py float64) bool {
	return px-r.x > delta && py-r.y > delta &&
		r.x+r.w-px > delta && r.y+r.h-py > delta
}

func (r rect) intersects(o rect) bool {
	return r.x < o.x+o.w && o.x < r.x+r.w &&
		r.y < o.y+o.h && o.y < r.y+r.h
}

// diff is the Minkowski difference of o and r.
func (r rect) diff(o rect) rect {
	return rect{o.x - r.x - r.w, o.y - r.y - r.h, r.w + o.w, r.h + o.h}
}

func (r rect) nearestCorner(px, py float64) (float64, float64) {
	return nearest(px, r.x, r.x+r.w), nearest(py, r.y, r.y+r.h)
}

func squareDistance(a, b rect) float64 {
	dx := a.x - b.x + (a.w-b.w)/2
	dy := a.y - b.y + (a.h-b.h)/2
	return dx*dx + dy*dy
}

func nearest(x, a, b float64) float64 {
	if math.Abs(a-x) < math.Abs(b-x) {
		return a
	}
	return b
}

func sign(x float64) int32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// segmentIntersection clips the segment (x1,y1)-(x2,y2) against r and
// returns the entry and exit parameters with their surface normals.
func segmentIntersection(r rect, x1, y1, x2, y2, ti1, ti2 float64) (t1, t2 float64, n1, n2 [2]int32, ok bool) {
	dx, dy := x2-x1, y2-y1
	for side := range 4 {
		var n [2]int32
		var p, q float64
		switch side {
		case 0: // left
			n, p, q = [2]int32{-1, 0}, -dx, x1-r.x
		case 1: // right
			n, p, q = [2]int32{1, 0}, dx, r.x+r.w-x1
		case 2: // top
			n, p, q = [2]int32{0, -1}, -dy, y1-r.y
		default: // bottom
			n, p, q = [2]int32{0, 1}, dy, r.y+r.h-y1
		}
		if p == 0 {
			if q <= 0 {
				return 0, 0, n1, n2, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > ti2 {
				return 0, 0, n1, n2, false
			}
			if t > ti1 {
				ti1, n1 = t, n
			}
		} else {
			if t < ti1 {
				return 0, 0, n1, n2, false
			}
			if t < ti2 {
				ti2, n2 = t, n
			}
		}
	}
	return ti1, ti2, n1, n2, true
}

// contact is one detected collision in collide-rect space.
type contact struct {
	other    *sprite
	overlaps bool
	ti       float64 // sort key; negative overlap area when overlapping
	move     [2]float64
	normal   [2]int32
	touch    [2]float64
	itemRect rect
	otherRec rect
	response uint32
}

// detect finds the collision of item moving to (goalX, goalY) against other.
func detect(item, other rect, goalX, goalY float64) (contact, bool) {
	dx, dy := goalX-item.x, goalY-item.y
	d := item.diff(other)

	var c contact
	var found bool
	if d.containsPoint(0, 0) {
		px, py := d.nearestCorner(0, 0)
		wi, hi := math.Min(item.w, math.Abs(px)), math.Min(item.h, math.Abs(py))
		c.ti = -wi * hi
		c.overlaps = true
		found = true
	} else {
		ti1, ti2, n1, _, ok := segmentIntersection(d, 0, 0, dx, dy, math.Inf(-1), math.Inf(1))
		if ok && ti1 < 1 && math.Abs(ti1-ti2) >= delta && (0 < ti1+delta || (ti1 == 0 && ti2 > 0)) {
			c.ti, c.normal = ti1, n1
			found = true
		}
	}
	if !found {
		return c, false
	}

	if c.overlaps {
		if dx == 0 && dy == 0 {
			px, py := d.nearestCorner(0, 0)
			if math.Abs(px) < math.Abs(py) {
				py = 0
			} else {
				px = 0
			}
			c.normal = [2]int32{sign(px), sign(py)}
			c.touch = [2]float64{item.x + px, item.y + py}
		} else {
			ti1, _, n1, _, ok := segmentIntersection(d, 0, 0, dx, dy, math.Inf(-1), 1)
			if !ok {
				return c, false
			}
			c.normal = n1
			c.touch = [2]float64{item.x + dx*ti1, item.y + dy*ti1}
		}
	} else {
		c.touch = [2]float64{item.x + dx*c.ti, item.y + dy*c.ti}
	}
	c.move = [2]float64{dx, dy}
	c.itemRect = item
	c.otherRec = other
	return c, true
}

// worldRect returns the sprite's collide rect in world space and whether the
// sprite takes part in collisions at all.
func (s *sprite) worldRect() (rect, bool) {
	if s.freed || !s.collisionsEnabled || s.collideRect.IsEmpty() {
		return rect{}, false
	}
	return toRect(s.collideRect.Offset(s.bounds.X, s.bounds.Y)), true
}

// mover carries one CheckCollisions/MoveWithCollisions resolution.
type mover struct {
	list      []*sprite // display list when the move started
	item      *sprite
	w, h      float64
	visited   map[*sprite]bool
	responses map[*sprite]uint32
}

// respond asks the moving sprite how to treat other. The answer is cached
// for the rest of the move.
func (m *mover) respond(other *sprite) uint32 {
	if r, ok := m.responses[other]; ok {
		return r
	}
	r := respFreeze
	if m.item.respond != nil {
		r = m.item.respond(m.item.handle, other.handle)
	}
	if r > respBounce {
		panic(fmt.Sprintf("softengine: collision response function returned %d", r))
	}
	m.responses[other] = r
	return r
}

// project collects contacts of the item rect at (x, y) moving to the goal,
// ordered by time of impact then distance.
func (m *mover) project(x, y, goalX, goalY float64) []contact {
	item := rect{x, y, m.w, m.h}
	sweep := rect{
		x: math.Min(x, goalX), y: math.Min(y, goalY),
	}
	sweep.w = math.Max(x, goalX) + m.w - sweep.x
	sweep.h = math.Max(y, goalY) + m.h - sweep.y

	var out []contact
	for _, other := range m.list {
		if other == m.item || m.visited[other] || other.freed || !other.inList {
			continue
		}
		or, ok := other.worldRect()
		if !ok || !toleranceIntersects(sweep, or) {
			continue
		}
		c, ok := detect(item, or, goalX, goalY)
		if !ok {
			continue
		}
		c.other = other
		c.response = m.respond(other)
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b contact) int {
		if a.ti == b.ti {
			ad := squareDistance(a.itemRect, a.otherRec)
			bd := squareDistance(a.itemRect, b.otherRec)
			switch {
			case ad < bd:
				return -1
			case ad > bd:
				return 1
			}
			return 0
		}
		if a.ti < b.ti {
			return -1
		}
		return 1
	})
	return out
}

// toleranceIntersects is an edge-inclusive overlap test used for candidate
// selection.
func toleranceIntersects(a, b rect) bool {
	return a.x <= b.x+b.w && b.x <= a.x+a.w &&
		a.y <= b.y+b.h && b.y <= a.y+a.h
}

// resolve runs the response loop and returns the final goal in collide-rect
// space with the contacts in the order they were handled.
func (m *mover) resolve(x, y, goalX, goalY float64) (float64, float64, []contact) {
	var handled []contact
	projected := m.project(x, y, goalX, goalY)
	for len(projected) > 0 {
		c := projected[0]
		handled = append(handled, c)
		m.visited[c.other] = true

		switch c.response {
		case respFreeze:
			return c.touch[0], c.touch[1], handled
		case respOverlap:
			projected = m.project(x, y, goalX, goalY)
		case respSlide:
			if c.move[0] != 0 || c.move[1] != 0 {
				if c.normal[0] != 0 {
					goalX = c.touch[0]
				} else {
					goalY = c.touch[1]
				}
			}
			x, y = c.touch[0], c.touch[1]
			projected = m.project(x, y, goalX, goalY)
		case respBounce:
			bx, by := c.touch[0], c.touch[1]
			if c.move[0] != 0 || c.move[1] != 0 {
				bnx, bny := goalX-c.touch[0], goalY-c.touch[1]
				if c.normal[0] == 0 {
					bny = -bny
				} else {
					bnx = -bnx
				}
				bx, by = c.touch[0]+bnx, c.touch[1]+bny
			}
			x, y = c.touch[0], c.touch[1]
			goalX, goalY = bx, by
			projected = m.project(x, y, goalX, goalY)
		}
	}
	return goalX, goalY, handled
}

// collide resolves a move of h toward the goal position.
func (e *Engine) collide(h thicket.Handle, goalX, goalY float32, apply bool) (float32, float32, []thicket.RawCollision, thicket.Alloc) {
	s := e.get(h)
	wr, ok := s.worldRect()
	if !ok {
		if apply {
			s.moveTo(goalX, goalY)
		}
		return goalX, goalY, nil, 0
	}

	px, py := s.position()
	offX, offY := wr.x-float64(px), wr.y-float64(py)

	e.sortList()
	m := &mover{
		list:      slices.Clone(e.list),
		item:      s,
		w:         wr.w,
		h:         wr.h,
		visited:   map[*sprite]bool{s: true},
		responses: make(map[*sprite]uint32),
	}
	gx, gy, contacts := m.resolve(wr.x, wr.y, float64(goalX)+offX, float64(goalY)+offY)

	ax, ay := float32(gx-offX), float32(gy-offY)
	if len(contacts) == 0 {
		// No contact means no correction.
		ax, ay = goalX, goalY
	}
	if apply && !s.freed {
		s.moveTo(ax, ay)
	}
	// A response function may have freed a partner; its handle is gone.
	contacts = slices.DeleteFunc(contacts, func(c contact) bool { return c.other.freed })
	if len(contacts) == 0 {
		return ax, ay, nil, 0
	}

	records := make([]thicket.RawCollision, len(contacts))
	for i, c := range contacts {
		var overlaps uint8
		ti := float32(c.ti)
		if c.overlaps {
			overlaps = 1
			ti = 0
		}
		records[i] = thicket.RawCollision{
			Sprite:       h,
			Other:        c.other.handle,
			ResponseType: c.response,
			Overlaps:     overlaps,
			Ti:           ti,
			Move:         thicket.Point{X: float32(c.move[0]), Y: float32(c.move[1])},
			Normal:       thicket.IntPoint{X: c.normal[0], Y: c.normal[1]},
			Touch:        thicket.Point{X: float32(c.touch[0] - offX), Y: float32(c.touch[1] - offY)},
			SpriteRect:   c.itemRect.out(),
			OtherRect:    c.otherRec.out(),
		}
	}
	return ax, ay, records, e.alloc(func() { clear(records) })
}

// CheckCollisions reports what a move to the goal would hit without moving.
func (e *Engine) CheckCollisions(h thicket.Handle, goalX, goalY float32) (float32, float32, []thicket.RawCollision, thicket.Alloc) {
	return e.collide(h, goalX, goalY, false)
}

// MoveWithCollisions moves toward the goal, stopping or deflecting as the
// collision responses dictate.
func (e *Engine) MoveWithCollisions(h thicket.Handle, goalX, goalY float32) (float32, float32, []thicket.RawCollision, thicket.Alloc) {
	return e.collide(h, goalX, goalY, true)
}
