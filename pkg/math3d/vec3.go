// Package math3d provides the vector and matrix primitives shared by the
// globe geometry and the terminal renderer.
package math3d

import "math"

// Vec3 represents a 3D vector or a point relative to the sphere center.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// LenSq returns the squared length (faster, no sqrt).
func (a Vec3) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Normalize returns the unit vector in the same direction.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// SetLength returns a vector with the direction of a and length l.
// The zero vector stays zero.
func (a Vec3) SetLength(l float64) Vec3 {
	return a.Normalize().Scale(l)
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

// AngleTo returns the angle in radians between a and b.
// If either vector is zero the angle is π/2.
func (a Vec3) AngleTo(b Vec3) float64 {
	denom := math.Sqrt(a.LenSq() * b.LenSq())
	if denom == 0 {
		return math.Pi / 2
	}
	c := a.Dot(b) / denom
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// RotateAround rotates a around the unit axis k by angle radians
// (right-handed, Rodrigues' formula).
func (a Vec3) RotateAround(k Vec3, angle float64) Vec3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return a.Scale(c).
		Add(k.Cross(a).Scale(s)).
		Add(k.Scale(k.Dot(a) * (1 - c)))
}

// ApproxEqual reports whether every component of a and b differs by at most eps.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps
}

// TriangleNormal returns the unit normal of triangle (a, b, c) with the
// winding (c-b) × (a-b). Degenerate triangles yield the zero vector.
func TriangleNormal(a, b, c Vec3) Vec3 {
	n := c.Sub(b).Cross(a.Sub(b))
	if n.LenSq() == 0 {
		return Vec3{}
	}
	return n.Normalize()
}
