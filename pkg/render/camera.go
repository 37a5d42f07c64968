package render

import (
	"math"

	"github.com/taigrr/globe/pkg/math3d"
)

// Camera is a perspective camera looking at the globe.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates a camera on the +Z axis looking at the origin.
func NewCamera(distance float64) *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, distance),
		FOV:         math.Pi / 3, // 60 degrees
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()

	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)

	c.viewDirty = true
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		if c.viewDirty {
			rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
			c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
			c.viewDirty = false
		}
		if c.projDirty {
			c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
			c.projDirty = false
		}
		c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)
	}
	return c.viewProjMatrix
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Behind camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	depth = ndc.Z

	return x, y, depth, true
}

// Occluded reports whether the sphere of the given radius at the origin
// blocks the line of sight from the camera to p.
func (c *Camera) Occluded(p math3d.Vec3, radius float64) bool {
	return segmentHitsSphere(c.Position, p, radius)
}

// segmentHitsSphere reports whether the open segment p0→p1 crosses the
// origin-centered sphere.
func segmentHitsSphere(p0, p1 math3d.Vec3, radius float64) bool {
	dir := p1.Sub(p0)
	a := dir.Dot(dir)
	if a == 0 {
		return false
	}
	b := 2 * p0.Dot(dir)
	cc := p0.Dot(p0) - radius*radius

	disc := b*b - 4*a*cc
	if disc < 0 {
		return false
	}

	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)

	const eps = 1e-9
	return (t1 > eps && t1 < 1-eps) || (t2 > eps && t2 < 1-eps)
}
