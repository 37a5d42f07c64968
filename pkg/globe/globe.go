// Package globe composes the static point cloud and the impact scheduler
// into the single object a rendering host drives once per frame.
package globe

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/globe/internal/logging"
	"github.com/taigrr/globe/pkg/impact"
	"github.com/taigrr/globe/pkg/rng"
	"github.com/taigrr/globe/pkg/sphere"
)

// Mask is a sampled 2D field, such as a specular map, used to hide points.
// UVs are in [0, 1] with v = 0 at the bottom.
type Mask interface {
	Sample(u, v float64) color.RGBA
}

// Globe owns the point cloud and the impact pool. It is built synchronously
// and is not safe for concurrent use; the host calls Advance and reads
// snapshots from the same goroutine.
type Globe struct {
	cfg        Config
	points     *sphere.PointSet
	scheduler  *impact.Scheduler
	visibility []float64
	style      resolvedStyle
	log        *slog.Logger
	src        rng.Source
	mask       Mask
}

// Option configures a Globe.
type Option func(*Globe)

// WithSource sets the random source used for colors and relocations. The
// stream must vary; see rng.Source.
func WithSource(src rng.Source) Option {
	return func(g *Globe) {
		g.src = src
	}
}

// WithLogger sets the logger passed down to the impact scheduler.
func WithLogger(l *slog.Logger) Option {
	return func(g *Globe) {
		g.log = l
	}
}

// WithMask applies a visibility mask during construction.
func WithMask(m Mask) Option {
	return func(g *Globe) {
		g.mask = m
	}
}

// New builds the point cloud and the impact pool.
func New(cfg Config, opts ...Option) (*Globe, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	palette, err := sphere.Palette(cfg.Palette...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	style, err := resolveStyle(cfg.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	g := &Globe{
		cfg:   cfg,
		style: style,
		log:   logging.Discard(),
	}

	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = rng.Default()
	}

	g.points, err = sphere.Generate(cfg.DotCount, cfg.Radius, palette, g.src)
	if err != nil {
		return nil, fmt.Errorf("generate points: %w", err)
	}

	g.scheduler, err = impact.NewScheduler(cfg.Impacts, g.src, impact.WithLogger(g.log))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	g.ApplyMask(g.mask)

	g.log.Info("globe ready",
		slog.Int("dots", g.points.Len()),
		slog.Int("impacts", g.scheduler.Len()),
		slog.Bool("masked", g.visibility != nil),
	)

	return g, nil
}

// Advance moves every impact forward by dt. Call it exactly once per frame.
func (g *Globe) Advance(dt time.Duration) {
	g.scheduler.Advance(dt)
}

// SetPaused freezes or resumes the impacts, keeping in-flight ratios.
func (g *Globe) SetPaused(paused bool) {
	if paused {
		g.scheduler.Pause()
	} else {
		g.scheduler.Resume()
	}
}

// Paused reports whether the impacts are frozen.
func (g *Globe) Paused() bool {
	return g.scheduler.Paused()
}

// Config returns the config the globe was built with.
func (g *Globe) Config() Config {
	return g.cfg
}

// Points returns the static point cloud. It must not be modified.
func (g *Globe) Points() *sphere.PointSet {
	return g.points
}

// Pulses returns the per-slot pulse state for this frame.
func (g *Globe) Pulses() []impact.Pulse {
	return g.scheduler.Pulses()
}

// Trails returns the per-slot trail state for this frame.
func (g *Globe) Trails() []impact.Trail {
	return g.scheduler.Trails()
}

// Impacts returns the number of impact slots.
func (g *Globe) Impacts() int {
	return g.scheduler.Len()
}

// Slot returns a copy of impact slot i.
func (g *Globe) Slot(i int) impact.Slot {
	return g.scheduler.Slot(i)
}

// ApplyMask samples m at every point's UV and stores the green channel as
// the point's visibility weight. A nil mask clears the weights.
func (g *Globe) ApplyMask(m Mask) {
	g.mask = m
	if m == nil {
		g.visibility = nil
		return
	}
	g.visibility = sampleMask(g.points, m)
}

// Visibility returns the per-point visibility weights, or nil when no mask
// has been applied.
func (g *Globe) Visibility() []float64 {
	return g.visibility
}

// Visible reports whether point i should be drawn. Points whose mask weight
// is 0.5 or more are hidden; without a mask every point is visible.
func (g *Globe) Visible(i int) bool {
	if g.visibility == nil {
		return true
	}
	return g.visibility[i] < 0.5
}

// Uniforms returns the per-frame values a renderer needs for shading.
func (g *Globe) Uniforms() Uniforms {
	return Uniforms{
		Pulses:     g.scheduler.Pulses(),
		Trails:     g.scheduler.Trails(),
		DotSize:    g.cfg.Style.DotSize,
		MaxSize:    g.cfg.Style.MaxSize,
		MinSize:    g.cfg.Style.MinSize,
		WaveHeight: g.cfg.Style.WaveHeight,
		Scaling:    g.cfg.Style.Scaling,
		DashSize:   g.cfg.Style.DashSize,
		Base:       g.style.base,
		GradInner:  g.style.gradInner,
		GradOuter:  g.style.gradOuter,
	}
}

func sampleMask(points *sphere.PointSet, m Mask) []float64 {
	weights := make([]float64, points.Len())
	for i, uv := range points.UVs {
		weights[i] = float64(m.Sample(uv.X, uv.Y).G) / 255
	}
	return weights
}

// Uniforms is a frame snapshot of shading inputs.
type Uniforms struct {
	Pulses []impact.Pulse
	Trails []impact.Trail

	DotSize    float64
	MaxSize    float64
	MinSize    float64
	WaveHeight float64
	Scaling    float64
	DashSize   float64

	Base      colorful.Color
	GradInner colorful.Color
	GradOuter colorful.Color
}

type resolvedStyle struct {
	base, gradInner, gradOuter colorful.Color
}

func resolveStyle(s Style) (resolvedStyle, error) {
	colors, err := sphere.Palette(s.Base, s.GradInner, s.GradOuter)
	if err != nil {
		return resolvedStyle{}, err
	}
	return resolvedStyle{base: colors[0], gradInner: colors[1], gradOuter: colors[2]}, nil
}
