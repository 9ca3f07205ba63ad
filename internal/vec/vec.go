package vec

import "math"

// V3 is a 3-D vector in galaxy units.
type V3 struct {
	X, Y, Z float64
}

func New(x, y, z float64) V3 { return V3{X: x, Y: y, Z: z} }

func (v V3) Add(o V3) V3 { return V3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v V3) Sub(o V3) V3 { return V3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v V3) Scale(s float64) V3 { return V3{v.X * s, v.Y * s, v.Z * s} }

func (v V3) Dot(o V3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v V3) Cross(o V3) V3 {
	return V3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v V3) Norm() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Normalized returns the unit vector, or the zero vector when the
// magnitude is too small to divide by safely.
func (v V3) Normalized() V3 {
	m := v.Norm()
	if m < 1e-4 {
		return V3{}
	}
	return V3{v.X / m, v.Y / m, v.Z / m}
}

func (v V3) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

func Dist(a, b V3) float64 { return a.Sub(b).Norm() }

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
