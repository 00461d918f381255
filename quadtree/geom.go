package quadtree

// Point is a 2D position.
type Point struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Left, Top     float32
	Width, Height float32
}

// Contains reports whether p lies in the half-open rectangle
// [Left, Left+Width) × [Top, Top+Height).
func (r Rect) Contains(p Point) bool {
	return r.Left <= p.X && p.X < r.Left+r.Width &&
		r.Top <= p.Y && p.Y < r.Top+r.Height
}

// DistanceSq returns the squared distance from p to the closest point of r.
// It is zero when p lies inside or on the edge of r.
func (r Rect) DistanceSq(p Point) float32 {
	cx := clamp(p.X, r.Left, r.Left+r.Width)
	cy := clamp(p.Y, r.Top, r.Top+r.Height)
	dx := p.X - cx
	dy := p.Y - cy
	return dx*dx + dy*dy
}

// Quadrants splits r into top-left, top-right, bottom-left and bottom-right halves.
func (r Rect) Quadrants() [4]Rect {
	hw := r.Width * 0.5
	hh := r.Height * 0.5
	return [4]Rect{
		{Left: r.Left, Top: r.Top, Width: hw, Height: hh},
		{Left: r.Left + hw, Top: r.Top, Width: hw, Height: hh},
		{Left: r.Left, Top: r.Top + hh, Width: hw, Height: hh},
		{Left: r.Left + hw, Top: r.Top + hh, Width: hw, Height: hh},
	}
}

// CirclesIntersect reports whether two circles touch or overlap.
// Tangent circles (distance == r1+r2) intersect.
func CirclesIntersect(c1 Point, r1 float32, c2 Point, r2 float32) bool {
	dx := c1.X - c2.X
	dy := c1.Y - c2.Y
	sum := r1 + r2
	return dx*dx+dy*dy <= sum*sum
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
