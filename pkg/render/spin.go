package render

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/globe/pkg/math3d"
)

// Axis tracks the angle and angular velocity of one rotation axis. The
// velocity relaxes toward Drift through a critically damped spring.
type Axis struct {
	Position float64
	Velocity float64
	Drift    float64 // Resting velocity in radians per frame

	spring harmonica.Spring
	accel  float64
}

// NewAxis creates an axis updated fps times per second.
func NewAxis(fps int, drift float64) Axis {
	return Axis{
		Velocity: drift,
		Drift:    drift,
		// Frequency 4 settles an impulse in about a second without overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the axis by one frame.
func (a *Axis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, a.Drift)
}

// Spin is the user-controlled rotation of the globe: a slow idle yaw plus
// spring-damped impulses from the keyboard or mouse.
type Spin struct {
	Pitch, Yaw Axis

	fps   int
	drift float64
}

// NewSpin creates a spin that idles at drift radians per frame around Y.
func NewSpin(fps int, drift float64) *Spin {
	s := &Spin{fps: fps, drift: drift}
	s.Reset()
	return s
}

// Update advances both axes by one frame.
func (s *Spin) Update() {
	s.Pitch.Update()
	s.Yaw.Update()
}

// Impulse adds angular velocity in radians per frame.
func (s *Spin) Impulse(pitch, yaw float64) {
	s.Pitch.Velocity += pitch
	s.Yaw.Velocity += yaw
}

// Reset returns to the initial orientation.
func (s *Spin) Reset() {
	s.Pitch = NewAxis(s.fps, 0)
	s.Yaw = NewAxis(s.fps, s.drift)
}

// Transform returns the globe's model matrix.
func (s *Spin) Transform() math3d.Mat4 {
	return math3d.RotateX(s.Pitch.Position).Mul(math3d.RotateY(s.Yaw.Position))
}
