package impact

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/taigrr/globe/internal/logging"
	"github.com/taigrr/globe/pkg/arc"
	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/rng"
	"github.com/taigrr/globe/pkg/timeline"
)

// maxDraws bounds the attempts to find a target that forms a valid arc with
// the previous one.
const maxDraws = 64

// PathFunc builds the trail between two targets.
type PathFunc func(start, end math3d.Vec3) (arc.Path, error)

// Scheduler owns a fixed pool of slots and advances them on caller ticks.
// It is not safe for concurrent use.
type Scheduler struct {
	cfg    Config
	src    rng.Source
	build  PathFunc
	log    *slog.Logger
	slots  []Slot
	paused bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPathBuilder replaces the arc builder used for trails.
func WithPathBuilder(fn PathFunc) Option {
	return func(s *Scheduler) {
		s.build = fn
	}
}

// WithLogger sets the logger for relocation events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.log = l
	}
}

// NewScheduler creates the pool and places every slot at the start of its
// trail phase.
func NewScheduler(cfg Config, src rng.Source, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		cfg: cfg,
		src: src,
		log: logging.Discard(),
	}
	s.build = func(start, end math3d.Vec3) (arc.Path, error) {
		return arc.Build(start, end, s.cfg.PeakHeight, s.cfg.Cycles, s.cfg.Division)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.slots = make([]Slot, cfg.Slots)
	for i := range s.slots {
		sl := &s.slots[i]
		sl.ID = i
		sl.Previous = s.randomPoint()
		sl.Target, sl.Trail = s.drawTarget(sl.Previous)
		sl.MaxRadius = s.drawMaxRadius()
		s.startTrail(sl)
	}

	return s, nil
}

// Len returns the fixed pool size.
func (s *Scheduler) Len() int {
	return len(s.slots)
}

// Slot returns a copy of slot i.
func (s *Scheduler) Slot(i int) Slot {
	return s.slots[i]
}

// Pause stops Advance from moving any slot. Ratios are kept as they are.
func (s *Scheduler) Pause() {
	s.paused = true
}

// Resume undoes Pause.
func (s *Scheduler) Resume() {
	s.paused = false
}

// Paused reports whether the scheduler is paused.
func (s *Scheduler) Paused() bool {
	return s.paused
}

// Advance moves every slot forward by dt. Time left over when a phase ends
// is carried into the next phase, so a slot can cross several phases in a
// single tick.
func (s *Scheduler) Advance(dt time.Duration) {
	if s.paused || dt <= 0 {
		return
	}
	for i := range s.slots {
		s.advanceSlot(&s.slots[i], dt)
	}
}

// Pulses returns the pulse state of every slot, indexed by slot ID.
func (s *Scheduler) Pulses() []Pulse {
	out := make([]Pulse, len(s.slots))
	for i := range s.slots {
		out[i] = s.slots[i].pulse()
	}
	return out
}

// Trails returns the trail state of every slot, indexed by slot ID.
func (s *Scheduler) Trails() []Trail {
	out := make([]Trail, len(s.slots))
	for i := range s.slots {
		out[i] = s.slots[i].trail()
	}
	return out
}

func (s *Scheduler) advanceSlot(sl *Slot, dt time.Duration) {
	for {
		dt = sl.timeline.Advance(dt)

		switch sl.Phase {
		case PhaseTrailGrowing:
			sl.TrailRatio = sl.timeline.Ratio()
		case PhasePulsing:
			sl.ImpactRatio = sl.timeline.Ratio()
		}

		if !sl.timeline.Done() {
			return
		}

		switch sl.Phase {
		case PhaseTrailGrowing:
			sl.Phase = PhasePulsing
			sl.timeline = timeline.New(s.drawPulseDuration())
		case PhasePulsing:
			s.relocate(sl)
		}

		if dt <= 0 {
			return
		}
	}
}

func (s *Scheduler) relocate(sl *Slot) {
	sl.Previous = sl.Target
	sl.Target, sl.Trail = s.drawTarget(sl.Previous)
	sl.MaxRadius = s.drawMaxRadius()
	sl.Cycles++
	s.startTrail(sl)

	s.log.Debug("impact relocated",
		slog.Int("slot", sl.ID),
		slog.Int("cycle", sl.Cycles),
		slog.Float64("trail_length", sl.Trail.Length()),
		slog.Float64("max_radius", sl.MaxRadius),
	)
}

func (s *Scheduler) startTrail(sl *Slot) {
	sl.Phase = PhaseTrailGrowing
	sl.TrailRatio = 0
	sl.ImpactRatio = 0
	sl.timeline = timeline.New(max(timeline.Seconds(sl.Trail.Length()/s.cfg.Speed), MinPhase))
}

// drawTarget picks a new target far enough from prev (and from its
// antipode) for the arc to be well defined. Failing to find one means the
// random source or path builder is broken, which is not recoverable.
func (s *Scheduler) drawTarget(prev math3d.Vec3) (math3d.Vec3, arc.Path) {
	var lastErr error
	for range maxDraws {
		target := s.randomPoint()
		angle := prev.AngleTo(target)
		if angle < s.cfg.MinSeparation || angle > math.Pi-s.cfg.MinSeparation {
			continue
		}
		path, err := s.build(prev, target)
		if err != nil {
			lastErr = err
			continue
		}
		return target, path
	}
	panic(fmt.Sprintf("impact: no valid target from %v after %d draws (last error: %v)", prev, maxDraws, lastErr))
}

// randomPoint returns a point on the sphere with a uniformly distributed
// direction.
func (s *Scheduler) randomPoint() math3d.Vec3 {
	z := rng.Range(s.src, -1, 1)
	lon := rng.Range(s.src, 0, 2*math.Pi)
	r := math.Sqrt(1 - z*z)
	return math3d.V3(r*math.Cos(lon), z, r*math.Sin(lon)).Scale(s.cfg.Radius)
}

func (s *Scheduler) drawMaxRadius() float64 {
	return s.cfg.Radius * rng.Range(s.src, s.cfg.MaxRadiusMin, s.cfg.MaxRadiusMax)
}

// drawPulseDuration picks a whole number of milliseconds in
// [PulseMin, PulseMax].
func (s *Scheduler) drawPulseDuration() time.Duration {
	lo := s.cfg.PulseMin.Milliseconds()
	hi := s.cfg.PulseMax.Milliseconds()
	ms := lo + int64(s.src.Float64()*float64(hi-lo+1))
	return time.Duration(min(ms, hi)) * time.Millisecond
}
