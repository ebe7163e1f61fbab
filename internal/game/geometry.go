package game

// Rect is an axis-aligned rectangle in screen coordinates (y down).
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Intersects reports whether r and o overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.Left() < o.Right() && o.Left() < r.Right() &&
		r.Top() < o.Bottom() && o.Top() < r.Bottom()
}
