package math3d

import "math"

// Mat4 is a 4x4 affine or projective transform stored column-major, so
// m[col*4+row] is the entry at (row, col) and m[12:15] is the translation.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Rotate creates a right-handed rotation of angle radians about the unit
// axis k. It agrees with Vec3.RotateAround.
func Rotate(k Vec3, angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c

	m := Identity()
	m[0] = t*k.X*k.X + c
	m[1] = t*k.X*k.Y + s*k.Z
	m[2] = t*k.X*k.Z - s*k.Y

	m[4] = t*k.X*k.Y - s*k.Z
	m[5] = t*k.Y*k.Y + c
	m[6] = t*k.Y*k.Z + s*k.X

	m[8] = t*k.X*k.Z + s*k.Y
	m[9] = t*k.Y*k.Z - s*k.X
	m[10] = t*k.Z*k.Z + c
	return m
}

// RotateX rotates about the X axis (pitch).
func RotateX(angle float64) Mat4 {
	return Rotate(Vec3{X: 1}, angle)
}

// RotateY rotates about the Y axis (yaw).
func RotateY(angle float64) Mat4 {
	return Rotate(Vec3{Y: 1}, angle)
}

// Perspective creates an OpenGL-style projection mapping the view frustum
// to clip space with depth in [-1, 1]. fovy is the vertical field of view
// in radians and aspect is width/height.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	depth := near - far

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// Mul returns the product a·b, which applies b first.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			m[col*4+row] = a[row]*b[col*4] +
				a[4+row]*b[col*4+1] +
				a[8+row]*b[col*4+2] +
				a[12+row]*b[col*4+3]
		}
	}
	return m
}

// MulVec3 transforms v as a point (w=1), dividing by w when the matrix is
// projective.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}
