package thicket

// CollisionInfo is one translated collision. Other and OtherObject are
// non-owning; they must never be used to tear the partner down.
type CollisionInfo struct {
	Other       SpriteView
	OtherObject ObjectRef
	Response    CollisionResponse
	Overlaps    Overlap
	Ti          float32  // fraction of the movement at which contact occurred
	Move        Point    // requested movement
	Normal      IntPoint // collision normal
	Touch       Point    // position at contact
	SpriteRect  Rect
	OtherRect   Rect
}

// LineHit is one sprite crossed by a line query.
type LineHit struct {
	Sprite     SpriteView
	Ti1, Ti2   float32
	EntryPoint Point
	ExitPoint  Point
}

// CheckCollisions reports what would happen if the sprite moved toward the
// goal, without moving it. It returns the position the sprite would reach.
func (s spriteOps) CheckCollisions(goalX, goalY float32) (Point, []CollisionInfo) {
	h := s.handle("CheckCollisions")
	s.reg.beginCollisions()
	ax, ay, raw, buf := s.reg.native.CheckCollisions(h, goalX, goalY)
	infos := s.reg.translateCollisions(raw, buf)
	s.reg.endCollisions()
	return Point{ax, ay}, infos
}

// MoveWithCollisions moves the sprite toward the goal, resolving the motion
// against every collidable sprite. Once the native results are translated,
// react is called with the moved sprite and the collisions. It returns the
// position actually reached. react may be nil.
//
// Sprites removed by Collide callbacks during the move are torn down after
// translation and before react runs; their views report IsFreed.
func (s spriteOps) MoveWithCollisions(goalX, goalY float32, react func(sprite SpriteView, collisions []CollisionInfo)) Point {
	h := s.handle("MoveWithCollisions")
	s.reg.beginCollisions()
	ax, ay, raw, buf := s.reg.native.MoveWithCollisions(h, goalX, goalY)
	infos := s.reg.translateCollisions(raw, buf)
	s.reg.endCollisions()
	if react != nil {
		react(s.View(), infos)
	}
	return Point{ax, ay}
}

// OverlappingSprites returns views of the sprites whose collide rects
// overlap this sprite's.
func (s spriteOps) OverlappingSprites() []SpriteView {
	hs, buf := s.reg.native.OverlappingSprites(s.handle("OverlappingSprites"))
	return s.reg.translateHandles(hs, buf)
}

// --- Translation ---

// translateCollisions copies a native collision array into owned records and
// then frees the native buffer exactly once.
func (r *Registry) translateCollisions(raw []RawCollision, buf Alloc) []CollisionInfo {
	defer r.native.Free(buf)
	infos := make([]CollisionInfo, 0, len(raw))
	for i := range raw {
		c := &raw[i]
		od := r.dataFor(c.Other)
		infos = append(infos, CollisionInfo{
			Other:       r.viewOf(od),
			OtherObject: ObjectRef{obj: od.obj},
			Response:    collisionResponseFromCode(c.ResponseType),
			Overlaps:    overlapFromCode(c.Overlaps),
			Ti:          c.Ti,
			Move:        c.Move,
			Normal:      c.Normal,
			Touch:       c.Touch,
			SpriteRect:  c.SpriteRect,
			OtherRect:   c.OtherRect,
		})
	}
	return infos
}

// translateHandles resolves a native handle array into views and frees it.
func (r *Registry) translateHandles(hs []Handle, buf Alloc) []SpriteView {
	defer r.native.Free(buf)
	views := make([]SpriteView, 0, len(hs))
	for _, h := range hs {
		views = append(views, r.viewOf(r.dataFor(h)))
	}
	return views
}

func (r *Registry) translateQueryInfo(raw []RawQueryInfo, buf Alloc) []LineHit {
	defer r.native.Free(buf)
	hits := make([]LineHit, 0, len(raw))
	for i := range raw {
		q := &raw[i]
		hits = append(hits, LineHit{
			Sprite:     r.viewOf(r.dataFor(q.Sprite)),
			Ti1:        q.Ti1,
			Ti2:        q.Ti2,
			EntryPoint: q.EntryPoint,
			ExitPoint:  q.ExitPoint,
		})
	}
	return hits
}
