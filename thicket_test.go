package thicket

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	tests := []struct {
		x, y float32
		want bool
	}{
		{10, 20, true},
		{40, 60, true},
		{25, 30, true},
		{9.9, 30, false},
		{25, 60.1, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"shared edge", Rect{X: 10, Y: 0, Width: 5, Height: 5}, true},
		{"disjoint", Rect{X: 11, Y: 0, Width: 5, Height: 5}, false},
		{"contained", Rect{X: 2, Y: 2, Width: 2, Height: 2}, true},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.b); got != tt.want {
			t.Errorf("%s: Intersects = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRectOffsetAndEmpty(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 3, Height: 4}.Offset(10, 20)
	if r != (Rect{X: 11, Y: 22, Width: 3, Height: 4}) {
		t.Errorf("Offset = %+v", r)
	}
	if r.IsEmpty() {
		t.Error("3x4 rect should not be empty")
	}
	if !(Rect{Width: 0, Height: 5}).IsEmpty() {
		t.Error("zero-width rect should be empty")
	}
}

func TestCollisionResponseCodes(t *testing.T) {
	tests := []struct {
		resp CollisionResponse
		code uint32
	}{
		{CollisionSlide, 0},
		{CollisionFreeze, 1},
		{CollisionOverlap, 2},
		{CollisionBounce, 3},
	}
	for _, tt := range tests {
		if got := tt.resp.code(); got != tt.code {
			t.Errorf("%v.code() = %d, want %d", tt.resp, got, tt.code)
		}
		if got := collisionResponseFromCode(tt.code); got != tt.resp {
			t.Errorf("collisionResponseFromCode(%d) = %v, want %v", tt.code, got, tt.resp)
		}
	}
}

func TestUnknownNativeCodesPanic(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"response", func() { collisionResponseFromCode(4) }},
		{"overlap", func() { overlapFromCode(2) }},
		{"flip", func() { flipFromCode(4) }},
		{"draw mode", func() { drawModeFromCode(8) }},
		{"response encode", func() { CollisionResponse(9).code() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestOverlapFromCode(t *testing.T) {
	if overlapFromCode(0) != TunneledThrough {
		t.Error("0 should decode to TunneledThrough")
	}
	if overlapFromCode(1) != Overlapping {
		t.Error("1 should decode to Overlapping")
	}
}

func TestFlipAndDrawModeRoundTrip(t *testing.T) {
	for f := FlipNone; f <= FlipXY; f++ {
		if flipFromCode(f.code()) != f {
			t.Errorf("flip %d did not round-trip", f)
		}
	}
	for m := DrawModeCopy; m <= DrawModeInverted; m++ {
		if drawModeFromCode(m.code()) != m {
			t.Errorf("draw mode %d did not round-trip", m)
		}
	}
}

func TestCollisionResponseString(t *testing.T) {
	if CollisionBounce.String() != "bounce" {
		t.Errorf("String = %q, want bounce", CollisionBounce.String())
	}
	if CollisionResponse(7).String() != "CollisionResponse(7)" {
		t.Errorf("String = %q", CollisionResponse(7).String())
	}
}
