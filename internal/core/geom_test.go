package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestViewportFit(t *testing.T) {
	v := Fit(mgl64.Vec2{27, 12}, 56, 14)

	if v.Scale != 2 {
		t.Fatalf("Scale = %v, expected 2", v.Scale)
	}
	if v.Origin != NewRect(1, 1, 54, 12) {
		t.Errorf("Origin = %+v", v.Origin)
	}

	tests := []struct {
		name   string
		p      mgl64.Vec2
		wx, wy int
	}{
		{"floor left", mgl64.Vec2{0, 0}, 1, 12},
		{"ceiling right", mgl64.Vec2{26.9, 11.9}, 54, 1},
		{"middle", mgl64.Vec2{13.5, 6}, 28, 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := v.Cell(tc.p)
			if x != tc.wx || y != tc.wy {
				t.Errorf("Cell(%v) = (%d, %d), expected (%d, %d)", tc.p, x, y, tc.wx, tc.wy)
			}
		})
	}
}

func TestViewportFitsNarrowTerminal(t *testing.T) {
	v := Fit(mgl64.Vec2{27, 12}, 30, 40)

	if v.Origin.W > 28 {
		t.Errorf("Origin.W = %d, expected at most 28", v.Origin.W)
	}
	if x, _ := v.Cell(mgl64.Vec2{26.99, 0}); x > v.Origin.Right() {
		t.Errorf("right wall projects to column %d outside %+v", x, v.Origin)
	}
	if v.Span(0.01) != 1 {
		t.Errorf("Span of a tiny length should be one cell, got %d", v.Span(0.01))
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestColorFor(t *testing.T) {
	if ColorFor("Gold") != ColorBrightYellow {
		t.Errorf("ColorFor(Gold) = %v", ColorFor("Gold"))
	}
	if ColorFor("plaid") != ColorWhite {
		t.Errorf("unknown visual should be white, got %v", ColorFor("plaid"))
	}
}
