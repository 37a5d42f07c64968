// Package models reads and writes globe geometry as glTF: the dot cloud as
// a POINTS primitive and each trail as a LINE_STRIP primitive.
package models

import (
	"github.com/taigrr/globe/pkg/math3d"
)

// Scene is globe geometry loaded from a glTF document.
type Scene struct {
	Name   string
	Points []PointVertex
	Lines  [][]math3d.Vec3
}

// PointVertex holds the attributes of one dot.
type PointVertex struct {
	Position math3d.Vec3
	Color    math3d.Vec3 // Linear RGB in 0-1 range
	UV       math3d.Vec2
}

// PointCount returns the number of dots.
func (s *Scene) PointCount() int {
	return len(s.Points)
}

// LineCount returns the number of line strips.
func (s *Scene) LineCount() int {
	return len(s.Lines)
}

// Bounds returns the axis-aligned box around every point and line vertex.
func (s *Scene) Bounds() (lo, hi math3d.Vec3) {
	first := true
	grow := func(p math3d.Vec3) {
		if first {
			lo, hi = p, p
			first = false
			return
		}
		lo = math3d.V3(min(lo.X, p.X), min(lo.Y, p.Y), min(lo.Z, p.Z))
		hi = math3d.V3(max(hi.X, p.X), max(hi.Y, p.Y), max(hi.Z, p.Z))
	}
	for _, p := range s.Points {
		grow(p.Position)
	}
	for _, line := range s.Lines {
		for _, p := range line {
			grow(p)
		}
	}
	return lo, hi
}
