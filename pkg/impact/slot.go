// Package impact animates a fixed pool of impacts. Each slot grows a trail
// from its previous position to its target, pulses at the target, then
// relocates and starts over.
package impact

import (
	"time"

	"github.com/taigrr/globe/pkg/arc"
	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/timeline"
)

// Phase is the animation stage of a slot.
type Phase int

const (
	PhaseTrailGrowing Phase = iota // Trail extends from Previous to Target
	PhasePulsing                   // Pulse expands around Target
)

func (p Phase) String() string {
	switch p {
	case PhaseTrailGrowing:
		return "trail"
	case PhasePulsing:
		return "pulse"
	default:
		return "unknown"
	}
}

// Slot is one animated impact. Slots are owned by their Scheduler; the
// values returned by Scheduler.Slot are copies.
type Slot struct {
	ID          int
	Phase       Phase
	Target      math3d.Vec3
	Previous    math3d.Vec3
	MaxRadius   float64
	ImpactRatio float64
	Trail       arc.Path
	TrailRatio  float64
	Cycles      int // Completed relocations

	timeline *timeline.Timeline
}

// Remaining returns the time left in the current phase.
func (s Slot) Remaining() time.Duration {
	if s.timeline == nil {
		return 0
	}
	return s.timeline.Duration() - s.timeline.Elapsed()
}

// Pulse is the published state of a slot's impact at its target.
type Pulse struct {
	Slot      int
	Position  math3d.Vec3
	Ratio     float64
	MaxRadius float64
}

// Trail is the published state of a slot's trail. Vertices and Distances
// are shared with the scheduler and must not be modified.
type Trail struct {
	Slot      int
	Ratio     float64
	Length    float64
	Head      math3d.Vec3
	Vertices  []math3d.Vec3
	Distances []float64
}

func (s *Slot) pulse() Pulse {
	return Pulse{
		Slot:      s.ID,
		Position:  s.Target,
		Ratio:     s.ImpactRatio,
		MaxRadius: s.MaxRadius,
	}
}

func (s *Slot) trail() Trail {
	return Trail{
		Slot:      s.ID,
		Ratio:     s.TrailRatio,
		Length:    s.Trail.Length(),
		Head:      s.Trail.PointAt(s.TrailRatio),
		Vertices:  s.Trail.Vertices,
		Distances: s.Trail.Distances,
	}
}
