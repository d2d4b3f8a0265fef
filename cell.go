package thicket

// Cell holds state shared by many independently owned logic objects. Borrows
// are checked at runtime: a conflicting borrow panics immediately instead of
// letting two writers interleave.
//
// Any number of shared borrows may be outstanding at once; a mutable borrow
// excludes every other borrow.
type Cell[T any] struct {
	value   T
	readers int
	writer  bool
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// Borrow takes a shared borrow. The returned value must not be mutated.
// Call release exactly once when done; extra calls are ignored.
func (c *Cell[T]) Borrow() (v *T, release func()) {
	if c.writer {
		panic("thicket: cell already mutably borrowed")
	}
	c.readers++
	done := false
	return &c.value, func() {
		if done {
			return
		}
		done = true
		c.readers--
	}
}

// BorrowMut takes the exclusive borrow.
func (c *Cell[T]) BorrowMut() (v *T, release func()) {
	if c.writer {
		panic("thicket: cell already mutably borrowed")
	}
	if c.readers > 0 {
		panic("thicket: cell already borrowed")
	}
	c.writer = true
	done := false
	return &c.value, func() {
		if done {
			return
		}
		done = true
		c.writer = false
	}
}

// Read calls fn under a shared borrow.
func (c *Cell[T]) Read(fn func(v *T)) {
	v, release := c.Borrow()
	defer release()
	fn(v)
}

// With calls fn under the exclusive borrow.
func (c *Cell[T]) With(fn func(v *T)) {
	v, release := c.BorrowMut()
	defer release()
	fn(v)
}

// IsBorrowed reports whether any borrow is outstanding.
func (c *Cell[T]) IsBorrowed() bool {
	return c.writer || c.readers > 0
}
