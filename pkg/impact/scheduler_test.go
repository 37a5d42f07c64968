package impact

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/taigrr/globe/pkg/arc"
	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/rng"
)

// fixedLength returns a builder whose paths are a single segment with the
// given reported length.
func fixedLength(length float64) PathFunc {
	return func(start, end math3d.Vec3) (arc.Path, error) {
		return arc.Path{
			Vertices:  []math3d.Vec3{start, end},
			Distances: []float64{0, length},
		}, nil
	}
}

func newTestScheduler(t *testing.T, cfg Config, opts ...Option) *Scheduler {
	t.Helper()
	s, err := NewScheduler(cfg, rng.New(5), opts...)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	return s
}

func TestInitialState(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestScheduler(t, cfg)

	if s.Len() != cfg.Slots {
		t.Fatalf("Len = %d, want %d", s.Len(), cfg.Slots)
	}
	for i := range s.Len() {
		sl := s.Slot(i)
		if sl.ID != i {
			t.Errorf("slot %d has ID %d", i, sl.ID)
		}
		if sl.Phase != PhaseTrailGrowing || sl.TrailRatio != 0 || sl.ImpactRatio != 0 {
			t.Errorf("slot %d not at start of trail phase: %+v", i, sl)
		}
		if math.Abs(sl.Target.Len()-cfg.Radius) > 1e-9 || math.Abs(sl.Previous.Len()-cfg.Radius) > 1e-9 {
			t.Errorf("slot %d endpoints off the sphere", i)
		}
		if sl.Trail.Len() != cfg.Division+1 {
			t.Errorf("slot %d trail has %d vertices", i, sl.Trail.Len())
		}
		if !sl.Trail.Start().ApproxEqual(sl.Previous, 1e-6) || !sl.Trail.End().ApproxEqual(sl.Target, 1e-6) {
			t.Errorf("slot %d trail does not connect previous to target", i)
		}
		if sl.MaxRadius < cfg.Radius*cfg.MaxRadiusMin || sl.MaxRadius >= cfg.Radius*cfg.MaxRadiusMax {
			t.Errorf("slot %d max radius %v out of range", i, sl.MaxRadius)
		}
	}
}

func TestTrailPhaseBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slots = 1
	cfg.Speed = 3
	s := newTestScheduler(t, cfg, WithPathBuilder(fixedLength(9)))

	s.Advance(2999 * time.Millisecond)
	sl := s.Slot(0)
	if sl.Phase != PhaseTrailGrowing {
		t.Fatalf("phase at 2999ms = %v, want trail", sl.Phase)
	}
	if want := 2999.0 / 3000.0; math.Abs(sl.TrailRatio-want) > 1e-9 {
		t.Errorf("trail ratio at 2999ms = %v, want %v", sl.TrailRatio, want)
	}

	s.Advance(time.Millisecond)
	sl = s.Slot(0)
	if sl.Phase != PhasePulsing {
		t.Fatalf("phase at 3000ms = %v, want pulse", sl.Phase)
	}
	if sl.TrailRatio != 1 || sl.ImpactRatio != 0 {
		t.Errorf("ratios at 3000ms = trail %v impact %v, want 1 and 0", sl.TrailRatio, sl.ImpactRatio)
	}
}

func TestLoopRelocates(t *testing.T) {
	s := newTestScheduler(t, DefaultConfig())

	before := s.Slot(3)
	s.Advance(before.Remaining())

	pulsing := s.Slot(3)
	if pulsing.Phase != PhasePulsing {
		t.Fatalf("phase = %v after trail duration, want pulse", pulsing.Phase)
	}
	if pulsing.Target != before.Target {
		t.Fatal("target moved before pulse completed")
	}
	pulseDur := pulsing.Remaining()
	if pulseDur < 2500*time.Millisecond || pulseDur > 5000*time.Millisecond {
		t.Errorf("pulse duration %v outside 2.5s..5s", pulseDur)
	}

	s.Advance(pulseDur)
	after := s.Slot(3)

	if after.Cycles != 1 {
		t.Errorf("cycles = %d, want 1", after.Cycles)
	}
	if after.Previous != before.Target {
		t.Errorf("previous = %v, want old target %v", after.Previous, before.Target)
	}
	if after.Target.ApproxEqual(before.Target, 1e-9) {
		t.Error("new target equals old target")
	}
	if !after.Trail.Start().ApproxEqual(before.Target, 1e-6) || !after.Trail.End().ApproxEqual(after.Target, 1e-6) {
		t.Error("rebuilt trail does not connect old target to new target")
	}
	if after.Phase != PhaseTrailGrowing || after.TrailRatio != 0 || after.ImpactRatio != 0 {
		t.Errorf("slot not restarted: %+v", after)
	}
}

func TestOverflowCarriesIntoNextPhase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slots = 1
	s := newTestScheduler(t, cfg, WithPathBuilder(fixedLength(3)))

	// One second of trail, then 250ms into the pulse.
	s.Advance(1250 * time.Millisecond)
	sl := s.Slot(0)
	if sl.Phase != PhasePulsing {
		t.Fatalf("phase = %v, want pulse", sl.Phase)
	}
	total := sl.Remaining() + 250*time.Millisecond
	want := float64(250*time.Millisecond) / float64(total)
	if math.Abs(sl.ImpactRatio-want) > 1e-9 {
		t.Errorf("impact ratio = %v, want %v", sl.ImpactRatio, want)
	}
}

func TestSlotsAreIndependent(t *testing.T) {
	s := newTestScheduler(t, DefaultConfig())

	// Step in frame-sized ticks for a while and confirm slots cycle at
	// different times.
	for range 60 * 30 {
		s.Advance(time.Second / 60)
	}

	distinct := map[int]bool{}
	for i := range s.Len() {
		distinct[s.Slot(i).Cycles] = true
	}
	if len(distinct) < 2 {
		t.Error("all slots completed the same number of cycles; expected staggering")
	}
}

func TestPoolSizeIsFixed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slots = 4
	s := newTestScheduler(t, cfg)
	src := rng.New(9)

	for range 2000 {
		s.Advance(time.Duration(rng.Range(src, 0, 400)) * time.Millisecond)
		if s.Len() != 4 || len(s.Pulses()) != 4 || len(s.Trails()) != 4 {
			t.Fatal("pool size changed")
		}
	}
	for i, p := range s.Pulses() {
		if p.Slot != i || s.Trails()[i].Slot != i {
			t.Errorf("snapshot %d carries slot handle %d", i, p.Slot)
		}
	}
}

func TestRatiosStayInRange(t *testing.T) {
	s := newTestScheduler(t, DefaultConfig())
	for range 5000 {
		s.Advance(37 * time.Millisecond)
		for _, p := range s.Pulses() {
			if p.Ratio < 0 || p.Ratio > 1 {
				t.Fatalf("pulse ratio %v out of range", p.Ratio)
			}
		}
		for _, tr := range s.Trails() {
			if tr.Ratio < 0 || tr.Ratio > 1 {
				t.Fatalf("trail ratio %v out of range", tr.Ratio)
			}
			if tr.Length <= 0 || len(tr.Vertices) != len(tr.Distances) {
				t.Fatalf("malformed trail snapshot %+v", tr)
			}
		}
	}
}

func TestPauseKeepsRatios(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slots = 1
	s := newTestScheduler(t, cfg, WithPathBuilder(fixedLength(9)))

	s.Advance(time.Second)
	s.Pause()
	if !s.Paused() {
		t.Fatal("Paused() = false after Pause")
	}
	s.Advance(time.Hour)
	if got := s.Slot(0).TrailRatio; math.Abs(got-1.0/3) > 1e-9 {
		t.Errorf("trail ratio changed while paused: %v", got)
	}

	s.Resume()
	s.Advance(time.Second)
	if got := s.Slot(0).TrailRatio; math.Abs(got-2.0/3) > 1e-9 {
		t.Errorf("trail ratio after resume = %v, want 2/3", got)
	}
}

func TestNewTargetsKeepSeparation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Slots = 1
	cfg.MinSeparation = 0.5
	s := newTestScheduler(t, cfg, WithPathBuilder(fixedLength(0.3)))

	for range 200 {
		sl := s.Slot(0)
		s.Advance(sl.Remaining())
		s.Advance(s.Slot(0).Remaining())

		next := s.Slot(0)
		angle := next.Previous.AngleTo(next.Target)
		if angle < cfg.MinSeparation || angle > math.Pi-cfg.MinSeparation {
			t.Fatalf("separation %v outside allowed band", angle)
		}
	}
}

func TestBrokenBuilderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when no arc can be built")
		}
	}()
	failing := func(math3d.Vec3, math3d.Vec3) (arc.Path, error) {
		return arc.Path{}, arc.ErrDegenerate
	}
	_, _ = NewScheduler(DefaultConfig(), rng.New(1), WithPathBuilder(failing))
}

func TestFastPhasesStillTerminate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Speed = 1e12
	cfg.PulseMin = MinPhase
	cfg.PulseMax = MinPhase
	s := newTestScheduler(t, cfg)

	if r := s.Slot(0).Remaining(); r < MinPhase {
		t.Fatalf("initial trail phase lasts %v, want at least %v", r, MinPhase)
	}

	done := make(chan struct{})
	go func() {
		s.Advance(time.Second)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Advance(1s) did not return")
	}

	// Each cycle is at least two phases of MinPhase.
	for i := range s.Len() {
		sl := s.Slot(i)
		if sl.Cycles == 0 || sl.Cycles > 500 {
			t.Errorf("slot %d completed %d cycles in 1s, want 1..500", i, sl.Cycles)
		}
		if sl.Remaining() <= 0 {
			t.Errorf("slot %d has no time left in its phase", i)
		}
	}
}

// A constant stream yields the same target every draw, so no arc can be
// formed and construction panics.
func TestConstantSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a constant random source")
		}
	}()
	_, _ = NewScheduler(DefaultConfig(), rng.NewSequence(0.5))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no slots", func(c *Config) { c.Slots = 0 }},
		{"zero radius", func(c *Config) { c.Radius = 0 }},
		{"zero speed", func(c *Config) { c.Speed = 0 }},
		{"inverted pulse", func(c *Config) { c.PulseMax = c.PulseMin - time.Millisecond }},
		{"zero pulse", func(c *Config) { c.PulseMin = 0 }},
		{"sub-millisecond pulse", func(c *Config) {
			c.PulseMin = 500 * time.Microsecond
			c.PulseMax = 900 * time.Microsecond
		}},
		{"inverted radius", func(c *Config) { c.MaxRadiusMax = 0.1 }},
		{"zero division", func(c *Config) { c.Division = 0 }},
		{"no separation", func(c *Config) { c.MinSeparation = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := NewScheduler(cfg, rng.New(1)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestPulseDurationBounds(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		draw float64
		want time.Duration
	}{
		{0, 2500 * time.Millisecond},
		{0.5, 3750 * time.Millisecond},
		{0.99999999, 5000 * time.Millisecond},
	}
	for _, tc := range tests {
		s := &Scheduler{cfg: cfg, src: rng.NewSequence(tc.draw)}
		if got := s.drawPulseDuration(); got != tc.want {
			t.Errorf("draw %v: duration %v, want %v", tc.draw, got, tc.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseTrailGrowing.String() != "trail" || PhasePulsing.String() != "pulse" || Phase(9).String() != "unknown" {
		t.Error("unexpected phase names")
	}
}

func BenchmarkAdvance(b *testing.B) {
	s, err := NewScheduler(DefaultConfig(), rng.New(1))
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		s.Advance(time.Second / 60)
	}
}
