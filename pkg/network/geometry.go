package network

import "math"

// Point is a pixel coordinate.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in pixels. Y grows downwards.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Contains reports whether o lies entirely inside r, with a small tolerance
// for accumulated floating point error.
func (r Rect) Contains(o Rect) bool {
	const tol = 1e-6
	return o.X >= r.X-tol && o.Y >= r.Y-tol &&
		o.Right() <= r.Right()+tol && o.Bottom() <= r.Bottom()+tol
}

// Bounds accumulates the union of rectangles.
// The zero value is empty.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
	set        bool
}

// Add extends the bounds to cover r.
func (b *Bounds) Add(r Rect) {
	if !b.set {
		b.MinX, b.MinY, b.MaxX, b.MaxY = r.X, r.Y, r.Right(), r.Bottom()
		b.set = true
		return
	}
	b.MinX = math.Min(b.MinX, r.X)
	b.MinY = math.Min(b.MinY, r.Y)
	b.MaxX = math.Max(b.MaxX, r.Right())
	b.MaxY = math.Max(b.MaxY, r.Bottom())
}

// Empty reports whether nothing has been added.
func (b Bounds) Empty() bool { return !b.set }

// Rect returns the union rectangle.
func (b Bounds) Rect() Rect {
	return Rect{X: b.MinX, Y: b.MinY, W: b.MaxX - b.MinX, H: b.MaxY - b.MinY}
}
