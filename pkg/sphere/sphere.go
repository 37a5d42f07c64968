// Package sphere distributes points evenly over a sphere using a Fibonacci
// lattice and annotates each point with texture coordinates and a color.
package sphere

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/rng"
)

var (
	ErrInvalidCount  = errors.New("sphere: point count must be at least 1")
	ErrInvalidRadius = errors.New("sphere: radius must be positive")
	ErrEmptyPalette  = errors.New("sphere: palette is empty")
)

// goldenAngle is the longitude increment between consecutive lattice points.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// DefaultPalette holds the two dot colors of the globe.
var DefaultPalette = MustPalette("#02aa82", "#6c6af6")

// PointSet is the static point cloud. Positions, UVs and Colors always have
// the same length, and index i describes the same point in all three.
// It must not be modified after Generate returns.
type PointSet struct {
	Positions []math3d.Vec3
	UVs       []math3d.Vec2
	Colors    []colorful.Color
	Radius    float64
}

// Len returns the number of points.
func (s *PointSet) Len() int {
	return len(s.Positions)
}

// Palette parses hex color strings ("#rrggbb").
func Palette(hexes ...string) ([]colorful.Color, error) {
	out := make([]colorful.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("parse palette color %q: %w", h, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// MustPalette is like Palette but panics on a malformed color.
func MustPalette(hexes ...string) []colorful.Color {
	p, err := Palette(hexes...)
	if err != nil {
		panic(err)
	}
	return p
}

// Generate places count points on a sphere of the given radius.
// The z coordinate descends from near +1 to near -1 in equal steps while the
// longitude advances by the golden angle, which avoids clustering at the poles.
func Generate(count int, radius float64, palette []colorful.Color, src rng.Source) (*PointSet, error) {
	if count < 1 {
		return nil, fmt.Errorf("generate %d points: %w", count, ErrInvalidCount)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("generate with radius %v: %w", radius, ErrInvalidRadius)
	}
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}

	set := &PointSet{
		Positions: make([]math3d.Vec3, count),
		UVs:       make([]math3d.Vec2, count),
		Colors:    make([]colorful.Color, count),
		Radius:    radius,
	}

	dz := 2 / float64(count)
	for i := range count {
		z := 1 - (float64(i)+0.5)*dz
		r := math.Sqrt(1 - z*z)
		long := float64(i) * goldenAngle

		p := math3d.V3(math.Cos(long)*r, z, -math.Sin(long)*r).Scale(radius)

		set.Positions[i] = p
		set.UVs[i] = math3d.SphericalFromVec3(p).UV()
		set.Colors[i] = palette[rng.Pick(src, len(palette))]
	}

	return set, nil
}
