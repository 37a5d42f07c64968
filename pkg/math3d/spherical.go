package math3d

import "math"

// Spherical holds spherical coordinates with Y as the polar axis.
//
// Theta is the azimuth measured from +Z toward +X, in (-π, π].
// Phi is the polar angle measured from +Y, in [0, π].
type Spherical struct {
	Radius float64
	Theta  float64
	Phi    float64
}

// SphericalFromVec3 converts a cartesian point to spherical coordinates.
func SphericalFromVec3(v Vec3) Spherical {
	r := v.Len()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  math.Atan2(v.X, v.Z),
		Phi:    math.Acos(math.Max(-1, math.Min(1, v.Y/r))),
	}
}

// UV maps the coordinates onto an equirectangular texture:
// u = (θ+π)/2π, v = 1 − φ/π.
func (s Spherical) UV() Vec2 {
	return Vec2{
		X: (s.Theta + math.Pi) / (2 * math.Pi),
		Y: 1 - s.Phi/math.Pi,
	}
}
