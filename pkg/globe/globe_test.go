package globe

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/taigrr/globe/pkg/impact"
	"github.com/taigrr/globe/pkg/rng"
)

// halfMask hides the half of the globe with u >= 0.5.
type halfMask struct{}

func (halfMask) Sample(u, _ float64) color.RGBA {
	if u >= 0.5 {
		return color.RGBA{G: 255, A: 255}
	}
	return color.RGBA{A: 255}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.DotCount = 500
	return cfg
}

func TestNewBuildsPointsAndImpacts(t *testing.T) {
	g, err := New(testConfig(), WithSource(rng.New(1)))
	if err != nil {
		t.Fatal(err)
	}

	if g.Points().Len() != 500 {
		t.Errorf("points = %d, want 500", g.Points().Len())
	}
	if g.Impacts() != 10 {
		t.Errorf("impacts = %d, want 10", g.Impacts())
	}
	if g.Visibility() != nil {
		t.Error("visibility should be nil without a mask")
	}
	for i := range g.Points().Len() {
		if !g.Visible(i) {
			t.Fatalf("point %d hidden without a mask", i)
		}
	}
}

func TestAdvanceUpdatesSnapshots(t *testing.T) {
	g, err := New(testConfig(), WithSource(rng.New(2)))
	if err != nil {
		t.Fatal(err)
	}

	before := g.Trails()
	g.Advance(500 * time.Millisecond)
	after := g.Uniforms()

	if len(after.Pulses) != g.Impacts() || len(after.Trails) != g.Impacts() {
		t.Fatalf("uniforms carry %d pulses and %d trails", len(after.Pulses), len(after.Trails))
	}
	for i, tr := range after.Trails {
		if tr.Slot != i || after.Pulses[i].Slot != i {
			t.Errorf("slot handle mismatch at %d", i)
		}
		if tr.Ratio <= before[i].Ratio {
			t.Errorf("trail %d ratio did not grow: %v -> %v", i, before[i].Ratio, tr.Ratio)
		}
		if after.Pulses[i].Position != g.Slot(i).Target {
			t.Errorf("pulse %d not at slot target", i)
		}
	}
}

func TestPauseFreezesAnimation(t *testing.T) {
	g, err := New(testConfig(), WithSource(rng.New(3)))
	if err != nil {
		t.Fatal(err)
	}

	g.Advance(200 * time.Millisecond)
	g.SetPaused(true)
	frozen := g.Trails()
	g.Advance(10 * time.Second)
	for i, tr := range g.Trails() {
		if tr.Ratio != frozen[i].Ratio {
			t.Fatalf("trail %d moved while paused", i)
		}
	}
	if !g.Paused() {
		t.Error("Paused() = false")
	}
	g.SetPaused(false)
	g.Advance(100 * time.Millisecond)
	if g.Trails()[0].Ratio == frozen[0].Ratio && g.Slot(0).Phase == impact.PhaseTrailGrowing {
		t.Error("trail did not resume")
	}
}

func TestMaskHidesPoints(t *testing.T) {
	g, err := New(testConfig(), WithSource(rng.New(4)), WithMask(halfMask{}))
	if err != nil {
		t.Fatal(err)
	}

	weights := g.Visibility()
	if len(weights) != g.Points().Len() {
		t.Fatalf("got %d weights for %d points", len(weights), g.Points().Len())
	}

	var hidden int
	for i, uv := range g.Points().UVs {
		wantVisible := uv.X < 0.5
		if g.Visible(i) != wantVisible {
			t.Errorf("point %d (u=%v) visible=%v", i, uv.X, g.Visible(i))
		}
		if !wantVisible {
			hidden++
		}
	}
	if hidden == 0 || hidden == g.Points().Len() {
		t.Errorf("mask hid %d of %d points", hidden, g.Points().Len())
	}

	g.ApplyMask(nil)
	if g.Visibility() != nil || !g.Visible(0) {
		t.Error("clearing the mask should show every point")
	}
}

func TestUniformStyle(t *testing.T) {
	g, err := New(testConfig(), WithSource(rng.New(5)))
	if err != nil {
		t.Fatal(err)
	}
	u := g.Uniforms()
	if u.MaxSize != 0.04 || u.MinSize != 0.03 || u.WaveHeight != 0.125 || u.Scaling != 2 || u.DashSize != 3 {
		t.Errorf("unexpected scalar uniforms %+v", u)
	}
	if u.GradInner.Hex() != "#64ff64" || u.GradOuter.Hex() != "#64ffff" || u.Base.Hex() != "#555fff" {
		t.Errorf("unexpected colors %s %s %s", u.GradInner.Hex(), u.GradOuter.Hex(), u.Base.Hex())
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no dots", func(c *Config) { c.DotCount = 0 }},
		{"zero radius", func(c *Config) { c.Radius = 0 }},
		{"radius mismatch", func(c *Config) { c.Radius = 7 }},
		{"bad palette", func(c *Config) { c.Palette = []string{"green"} }},
		{"bad style color", func(c *Config) { c.Style.GradInner = "#12" }},
		{"no dash", func(c *Config) { c.Style.DashSize = 0 }},
		{"bad impacts", func(c *Config) { c.Impacts.Slots = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSameSourceSameGlobe(t *testing.T) {
	a, err := New(testConfig(), WithSource(rng.New(99)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(testConfig(), WithSource(rng.New(99)))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Points().Len() {
		if a.Points().Colors[i] != b.Points().Colors[i] {
			t.Fatalf("color %d differs between identically seeded globes", i)
		}
	}
	if a.Slot(0).Target != b.Slot(0).Target {
		t.Error("impact targets differ between identically seeded globes")
	}
}
