// Package arc builds curved polylines between two points on a sphere. The
// curve follows the great-circle plane of the endpoints and bulges outward
// from the sphere, optionally looping around the major circle.
package arc

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/globe/pkg/math3d"
)

// ErrDegenerate is returned when the endpoints do not define a plane with
// the sphere center: coincident, antipodal, or zero-length inputs.
var ErrDegenerate = errors.New("arc: degenerate endpoints")

// minAngle is the smallest endpoint separation that still yields a usable
// minor radius.
const minAngle = 1e-9

// Path is an arc polyline with its cumulative lengths. Distances[i] is the
// length of the polyline from the first vertex to vertex i. A Path is never
// modified after Build returns it.
type Path struct {
	Vertices  []math3d.Vec3
	Distances []float64
}

// Len returns the number of vertices.
func (p Path) Len() int {
	return len(p.Vertices)
}

// Length returns the total polyline length.
func (p Path) Length() float64 {
	if len(p.Distances) == 0 {
		return 0
	}
	return p.Distances[len(p.Distances)-1]
}

// Start returns the first vertex.
func (p Path) Start() math3d.Vec3 {
	return p.Vertices[0]
}

// End returns the last vertex.
func (p Path) End() math3d.Vec3 {
	return p.Vertices[len(p.Vertices)-1]
}

// Build computes a path of division+1 vertices from start to end.
//
// A point on a major circle of radius |start|+rMinor sweeps from start
// toward end while a point on a minor circle of radius rMinor spins
// 2π·cycles around it. Their sum touches the sphere at both endpoints and
// rises between them; the height above the sphere is then rescaled so the
// bulge is governed by peakHeight. A non-positive cycles defaults to 1 and a
// zero peakHeight defaults to 1.
func Build(start, end math3d.Vec3, peakHeight, cycles float64, division int) (Path, error) {
	if division < 1 {
		return Path{}, fmt.Errorf("%w: division %d", ErrDegenerate, division)
	}
	if cycles <= 0 {
		cycles = 1
	}
	if peakHeight == 0 {
		peakHeight = 1
	}

	radius := start.Len()
	if radius == 0 || end.LenSq() == 0 {
		return Path{}, fmt.Errorf("%w: zero-length endpoint", ErrDegenerate)
	}

	angle := start.AngleTo(end)
	if angle < minAngle {
		return Path{}, fmt.Errorf("%w: endpoints coincide", ErrDegenerate)
	}

	normal := math3d.TriangleNormal(start, end, math3d.Zero3())
	if normal.LenSq() == 0 {
		return Path{}, fmt.Errorf("%w: endpoints are antipodal", ErrDegenerate)
	}

	arcLength := radius * angle
	radiusMinor := (arcLength / math.Pi) / (2 * cycles)
	radiusMajor := radius + radiusMinor
	peakRatio := peakHeight / radiusMinor

	basisMajor := start.SetLength(radiusMajor)
	basisMinor := start.Negate().SetLength(radiusMinor)

	path := Path{
		Vertices:  make([]math3d.Vec3, division+1),
		Distances: make([]float64, division+1),
	}

	for i := 0; i <= division; i++ {
		t := float64(i) / float64(division)
		a := angle * t

		major := basisMajor.RotateAround(normal, a)
		minor := basisMinor.RotateAround(normal, a+2*math.Pi*t*cycles)
		inter := major.Add(minor)

		height := (inter.Len()-radius)*peakRatio + radius
		path.Vertices[i] = inter.SetLength(height)

		if i > 0 {
			path.Distances[i] = path.Distances[i-1] + path.Vertices[i].Distance(path.Vertices[i-1])
		}
	}

	return path, nil
}

// PointAt returns the position at fraction r in [0, 1] of the path's length,
// interpolating between vertices. It is used to place the head of a growing
// trail.
func (p Path) PointAt(r float64) math3d.Vec3 {
	if len(p.Vertices) == 0 {
		return math3d.Vec3{}
	}
	if r <= 0 {
		return p.Start()
	}
	if r >= 1 {
		return p.End()
	}

	target := p.Length() * r
	for i := 1; i < len(p.Distances); i++ {
		if p.Distances[i] < target {
			continue
		}
		seg := p.Distances[i] - p.Distances[i-1]
		if seg == 0 {
			return p.Vertices[i]
		}
		f := (target - p.Distances[i-1]) / seg
		return p.Vertices[i-1].Lerp(p.Vertices[i], f)
	}
	return p.End()
}
