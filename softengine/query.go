package softengine

import (
	"fmt"
	"math"
	"slices"

	"github.com/phanxgames/thicket"
)

// alloc records a result buffer. poison runs when the buffer is freed so
// stale views read zeroes instead of live data.
func (e *Engine) alloc(poison func()) thicket.Alloc {
	a := e.nextAlloc
	e.nextAlloc++
	e.allocs[a] = poison
	return a
}

// Free returns a result buffer. Freeing the null buffer is a no-op; freeing
// an unknown or already freed buffer panics.
func (e *Engine) Free(buf thicket.Alloc) {
	if buf == 0 {
		return
	}
	poison, ok := e.allocs[buf]
	if !ok {
		panic(fmt.Sprintf("softengine: free of unknown buffer %d", uintptr(buf)))
	}
	delete(e.allocs, buf)
	poison()
}

func (e *Engine) handleBuffer(hs []thicket.Handle) ([]thicket.Handle, thicket.Alloc) {
	if len(hs) == 0 {
		return nil, 0
	}
	return hs, e.alloc(func() { clear(hs) })
}

// collidable returns displayed sprites that take part in collisions, in
// display order, with their world collide rects.
func (e *Engine) collidable(yield func(s *sprite, r rect) bool) {
	e.sortList()
	for _, s := range e.list {
		r, ok := s.worldRect()
		if !ok {
			continue
		}
		if !yield(s, r) {
			return
		}
	}
}

// OverlappingSprites returns the sprites whose collide rects overlap h's.
func (e *Engine) OverlappingSprites(h thicket.Handle) ([]thicket.Handle, thicket.Alloc) {
	self := e.get(h)
	sr, ok := self.worldRect()
	if !ok {
		return nil, 0
	}
	var hs []thicket.Handle
	e.collidable(func(s *sprite, r rect) bool {
		if s != self && sr.intersects(r) {
			hs = append(hs, s.handle)
		}
		return true
	})
	return e.handleBuffer(hs)
}

// AllOverlappingSprites returns every overlapping pair, flattened: entries
// 2i and 2i+1 form a pair.
func (e *Engine) AllOverlappingSprites() ([]thicket.Handle, thicket.Alloc) {
	type entry struct {
		s *sprite
		r rect
	}
	var all []entry
	e.collidable(func(s *sprite, r rect) bool {
		all = append(all, entry{s, r})
		return true
	})
	var hs []thicket.Handle
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			if all[i].r.intersects(all[j].r) {
				hs = append(hs, all[i].s.handle, all[j].s.handle)
			}
		}
	}
	return e.handleBuffer(hs)
}

func (e *Engine) QuerySpritesAtPoint(x, y float32) ([]thicket.Handle, thicket.Alloc) {
	var hs []thicket.Handle
	e.collidable(func(s *sprite, r rect) bool {
		if r.containsPoint(float64(x), float64(y)) {
			hs = append(hs, s.handle)
		}
		return true
	})
	return e.handleBuffer(hs)
}

func (e *Engine) QuerySpritesInRect(x, y, width, height float32) ([]thicket.Handle, thicket.Alloc) {
	q := rect{float64(x), float64(y), float64(width), float64(height)}
	var hs []thicket.Handle
	e.collidable(func(s *sprite, r rect) bool {
		if q.intersects(r) {
			hs = append(hs, s.handle)
		}
		return true
	})
	return e.handleBuffer(hs)
}

// lineHit is a sprite crossed by a segment.
type lineHit struct {
	s        *sprite
	ti1, ti2 float64
	weight   float64
}

// segmentHits returns the sprites the segment crosses, nearest first.
func (e *Engine) segmentHits(x1, y1, x2, y2 float32) []lineHit {
	fx1, fy1, fx2, fy2 := float64(x1), float64(y1), float64(x2), float64(y2)
	var hits []lineHit
	e.collidable(func(s *sprite, r rect) bool {
		ti1, ti2, _, _, ok := segmentIntersection(r, fx1, fy1, fx2, fy2, 0, 1)
		if !ok || !((0 < ti1 && ti1 < 1) || (0 < ti2 && ti2 < 1)) {
			return true
		}
		u1, u2, _, _, _ := segmentIntersection(r, fx1, fy1, fx2, fy2, math.Inf(-1), math.Inf(1))
		hits = append(hits, lineHit{s: s, ti1: ti1, ti2: ti2, weight: math.Min(u1, u2)})
		return true
	})
	slices.SortStableFunc(hits, func(a, b lineHit) int {
		switch {
		case a.weight < b.weight:
			return -1
		case a.weight > b.weight:
			return 1
		}
		return 0
	})
	return hits
}

func (e *Engine) QuerySpritesAlongLine(x1, y1, x2, y2 float32) ([]thicket.Handle, thicket.Alloc) {
	hits := e.segmentHits(x1, y1, x2, y2)
	hs := make([]thicket.Handle, len(hits))
	for i, h := range hits {
		hs[i] = h.s.handle
	}
	return e.handleBuffer(hs)
}

func (e *Engine) QuerySpriteInfoAlongLine(x1, y1, x2, y2 float32) ([]thicket.RawQueryInfo, thicket.Alloc) {
	hits := e.segmentHits(x1, y1, x2, y2)
	if len(hits) == 0 {
		return nil, 0
	}
	dx, dy := x2-x1, y2-y1
	infos := make([]thicket.RawQueryInfo, len(hits))
	for i, h := range hits {
		t1, t2 := float32(h.ti1), float32(h.ti2)
		infos[i] = thicket.RawQueryInfo{
			Sprite:     h.s.handle,
			Ti1:        t1,
			Ti2:        t2,
			EntryPoint: thicket.Point{X: x1 + dx*t1, Y: y1 + dy*t1},
			ExitPoint:  thicket.Point{X: x1 + dx*t2, Y: y1 + dy*t2},
		}
	}
	return infos, e.alloc(func() { clear(infos) })
}
