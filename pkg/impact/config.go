package impact

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("impact: invalid config")

// Config tunes the impact pool.
type Config struct {
	Slots  int     // Fixed number of concurrently animated impacts
	Radius float64 // Sphere radius targets are placed on
	Speed  float64 // Trail growth speed in units per second

	PulseMin time.Duration // Shortest pulse
	PulseMax time.Duration // Longest pulse

	// MaxRadiusMin and MaxRadiusMax bound the pulse radius as a fraction of Radius.
	MaxRadiusMin float64
	MaxRadiusMax float64

	PeakHeight float64 // Trail bulge passed to the arc builder
	Cycles     float64 // Trail loops passed to the arc builder
	Division   int     // Trail segments (vertices - 1)

	// MinSeparation is the smallest angle in radians allowed between
	// consecutive targets. The same margin is kept from the antipode.
	MinSeparation float64
}

// DefaultConfig returns the stock globe settings.
func DefaultConfig() Config {
	return Config{
		Slots:         10,
		Radius:        5,
		Speed:         3,
		PulseMin:      2500 * time.Millisecond,
		PulseMax:      5000 * time.Millisecond,
		MaxRadiusMin:  0.5,
		MaxRadiusMax:  0.75,
		PeakHeight:    1,
		Cycles:        1,
		Division:      99,
		MinSeparation: 0.05,
	}
}

// MinPhase is the shortest time any phase may last. Pulse durations are
// drawn in whole milliseconds and trail durations are floored to it, so
// every phase consumes time and Advance always terminates.
const MinPhase = time.Millisecond

// Validate checks that the config can drive a scheduler.
func (c Config) Validate() error {
	switch {
	case c.Slots < 1:
		return fmt.Errorf("%w: slots %d", ErrInvalidConfig, c.Slots)
	case c.Radius <= 0:
		return fmt.Errorf("%w: radius %v", ErrInvalidConfig, c.Radius)
	case c.Speed <= 0:
		return fmt.Errorf("%w: speed %v", ErrInvalidConfig, c.Speed)
	case c.PulseMin < MinPhase || c.PulseMax < c.PulseMin:
		return fmt.Errorf("%w: pulse range %v..%v", ErrInvalidConfig, c.PulseMin, c.PulseMax)
	case c.MaxRadiusMin <= 0 || c.MaxRadiusMax < c.MaxRadiusMin:
		return fmt.Errorf("%w: max radius range %v..%v", ErrInvalidConfig, c.MaxRadiusMin, c.MaxRadiusMax)
	case c.Division < 1:
		return fmt.Errorf("%w: division %d", ErrInvalidConfig, c.Division)
	case c.MinSeparation <= 0 || c.MinSeparation >= math.Pi/2:
		return fmt.Errorf("%w: min separation %v", ErrInvalidConfig, c.MinSeparation)
	}
	return nil
}
