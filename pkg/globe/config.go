package globe

import (
	"errors"
	"fmt"

	"github.com/taigrr/globe/pkg/impact"
)

// ErrInvalidConfig is returned when a Config cannot build a globe.
var ErrInvalidConfig = errors.New("globe: invalid config")

// Config holds everything needed to build a Globe.
type Config struct {
	DotCount int      // Number of surface points
	Radius   float64  // Sphere radius
	Palette  []string // Dot colors as "#rrggbb"

	Impacts impact.Config

	Style Style
}

// Style carries the scalar shading values published to the renderer.
type Style struct {
	DotSize    float64 // Base point size
	MaxSize    float64 // Point size at the crest of a pulse wave
	MinSize    float64 // Point size outside a pulse wave
	WaveHeight float64 // Width of the pulse wave band
	Scaling    float64 // Pulse wave scale factor
	DashSize   float64 // Length of the visible trail window

	Base      string // Globe base color
	GradInner string // Pulse color at the wave center
	GradOuter string // Pulse color at the wave edge, also the trail color
}

// DefaultConfig returns the stock globe: 30000 dots on a radius 5 sphere
// with ten impacts.
func DefaultConfig() Config {
	imp := impact.DefaultConfig()
	imp.Radius = 5

	return Config{
		DotCount: 30000,
		Radius:   5,
		Palette:  []string{"#02aa82", "#6c6af6"},
		Impacts:  imp,
		Style: Style{
			DotSize:    0.1,
			MaxSize:    0.04,
			MinSize:    0.03,
			WaveHeight: 0.125,
			Scaling:    2,
			DashSize:   3,
			Base:       "#555fff",
			GradInner:  "#64ff64",
			GradOuter:  "#64ffff",
		},
	}
}

// Validate checks the config. The impact radius must match the sphere.
func (c Config) Validate() error {
	if c.DotCount < 1 {
		return fmt.Errorf("%w: dot count %d", ErrInvalidConfig, c.DotCount)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("%w: radius %v", ErrInvalidConfig, c.Radius)
	}
	if c.Impacts.Radius != c.Radius {
		return fmt.Errorf("%w: impact radius %v differs from globe radius %v", ErrInvalidConfig, c.Impacts.Radius, c.Radius)
	}
	if c.Style.DashSize <= 0 {
		return fmt.Errorf("%w: dash size %v", ErrInvalidConfig, c.Style.DashSize)
	}
	if err := c.Impacts.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
