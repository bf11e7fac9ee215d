// Package core provides the terminal-facing primitives shared by the
// frontends: a cell screen buffer, the world-to-cell viewport, and input
// actions. It has no Bubble Tea dependency so rendering stays testable.
package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect is an axis-aligned block of screen cells.
type Rect struct {
	X, Y int // Top-left cell
	W, H int // Width and height in cells
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Viewport projects world coordinates (y up, floor at 0) onto a block of
// screen cells (y down). Terminal cells are about twice as tall as wide, so
// one world unit spans Scale cells horizontally and Scale/2 rows.
type Viewport struct {
	World  mgl64.Vec2 // World size
	Origin Rect       // Cells the world is drawn into
	Scale  float64    // Columns per world unit
}

// Fit returns the largest viewport for world inside the cols x rows area,
// leaving a one-cell border for the frame.
func Fit(world mgl64.Vec2, cols, rows int) Viewport {
	inner := NewRect(1, 1, max(cols-2, 1), max(rows-2, 1))
	scale := math.Min(float64(inner.W)/world.X(), 2*float64(inner.H)/world.Y())
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		scale = 1
	}
	w := int(math.Ceil(world.X() * scale))
	h := int(math.Ceil(world.Y() * scale / 2))
	inner.W = min(w, inner.W)
	inner.H = min(h, inner.H)
	return Viewport{World: world, Origin: inner, Scale: scale}
}

// Cell returns the screen cell holding world point p. The result may lie
// outside Origin for points outside the world.
func (v Viewport) Cell(p mgl64.Vec2) (int, int) {
	x := v.Origin.X + int(math.Floor(p.X()*v.Scale))
	y := v.Origin.Y + v.Origin.H - 1 - int(math.Floor(p.Y()*v.Scale/2))
	return x, y
}

// Span converts a world length to a horizontal cell count, at least one.
func (v Viewport) Span(length float64) int {
	return max(int(math.Round(length*v.Scale)), 1)
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
