package field

// Bounds is the size of the simulated surface in logical units.
// The origin is the top-left corner.
type Bounds struct {
	Width, Height float64
}

// Area returns Width*Height, or zero for degenerate bounds.
func (b Bounds) Area() float64 {
	if b.Empty() {
		return 0
	}
	return b.Width * b.Height
}

// Empty reports whether the bounds enclose no area.
func (b Bounds) Empty() bool {
	return !(b.Width > 0) || !(b.Height > 0)
}

// Contains reports whether (x, y) lies inside the closed rectangle [0,W]×[0,H].
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= b.Width && y <= b.Height
}

// Clamp returns (x, y) moved into the closed rectangle.
func (b Bounds) Clamp(x, y float64) (float64, float64) {
	return clamp(x, 0, max(b.Width, 0)), clamp(y, 0, max(b.Height, 0))
}

// Point is a location in surface coordinates.
type Point struct {
	X, Y float64
}

// Pointer is the latest pointer position. When Active is false the pointer
// is outside the surface and X/Y carry no meaning.
type Pointer struct {
	X, Y   float64
	Active bool
}

// Interaction is the per-tick input snapshot consumed by Update.
type Interaction struct {
	Pointer Pointer
	Bursts  []Point
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
