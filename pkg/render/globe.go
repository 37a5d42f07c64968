package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/taigrr/globe/pkg/globe"
	"github.com/taigrr/globe/pkg/impact"
	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/sphere"
)

// Scene is what the renderer reads from a globe each frame.
// *globe.Globe satisfies it.
type Scene interface {
	Points() *sphere.PointSet
	Visible(i int) bool
	Uniforms() globe.Uniforms
}

// Stats counts what the last Draw put on screen.
type Stats struct {
	Points   int
	Segments int
}

// GlobeRenderer draws the point cloud, the impact waves and the trails into
// a framebuffer.
type GlobeRenderer struct {
	camera *Camera
	fb     *Framebuffer
	depth  []float64
}

// NewGlobeRenderer creates a renderer drawing into fb.
func NewGlobeRenderer(camera *Camera, fb *Framebuffer) *GlobeRenderer {
	return &GlobeRenderer{
		camera: camera,
		fb:     fb,
		depth:  make([]float64, fb.Width*fb.Height),
	}
}

// SetFramebuffer switches to a new target, typically after a resize.
func (r *GlobeRenderer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	r.depth = make([]float64, fb.Width*fb.Height)
}

// ClearDepth resets the depth buffer to the far plane.
func (r *GlobeRenderer) ClearDepth() {
	if len(r.depth) == 0 {
		return
	}
	r.depth[0] = math.Inf(1)
	for filled := 1; filled < len(r.depth); filled *= 2 {
		copy(r.depth[filled:], r.depth[:filled])
	}
}

// Draw renders s with the globe rotated by transform. Call ClearDepth and
// clear the framebuffer first.
func (r *GlobeRenderer) Draw(s Scene, transform math3d.Mat4) Stats {
	u := s.Uniforms()
	pts := s.Points()

	var stats Stats
	stats.Points = r.drawPoints(s, pts, u, transform)
	stats.Segments = r.drawTrails(pts.Radius, u, transform)
	return stats
}

func (r *GlobeRenderer) drawPoints(s Scene, pts *sphere.PointSet, u globe.Uniforms, transform math3d.Mat4) int {
	w, h := r.fb.Width, r.fb.Height
	drawn := 0

	for i, p := range pts.Positions {
		if !s.Visible(i) {
			continue
		}

		wp := transform.MulVec3(p)
		normal := wp.Normalize()
		facing := normal.Dot(r.camera.Position.Sub(wp).Normalize())
		if facing <= 0 {
			continue
		}

		step := WaveStep(p, u.Pulses)
		if step > 0 {
			wp = wp.Add(normal.Scale(u.WaveHeight * step))
		}

		x, y, depth, ok := r.camera.WorldToScreen(wp, w, h)
		if !ok {
			continue
		}

		c := pointColor(pts.Colors[i], u, step, facing)
		size := (u.MinSize + (u.MaxSize-u.MinSize)*step) * u.Scaling
		r.plot(int(x), int(y), depth, c)
		if size > (u.MinSize+u.MaxSize)/2*u.Scaling {
			// Grow the dot into a cross while the wave passes.
			r.plot(int(x)+1, int(y), depth, c)
			r.plot(int(x)-1, int(y), depth, c)
			r.plot(int(x), int(y)+1, depth, c)
			r.plot(int(x), int(y)-1, depth, c)
		}
		drawn++
	}
	return drawn
}

func (r *GlobeRenderer) plot(x, y int, depth float64, c Color) {
	if x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
		return
	}
	idx := y*r.fb.Width + x
	if depth >= r.depth[idx] {
		return
	}
	r.depth[idx] = depth
	r.fb.Pixels[idx] = c
}

// pointColor fades toward the base color at the limb and toward the wave
// gradient where an impact passes.
func pointColor(c colorful.Color, u globe.Uniforms, step, facing float64) Color {
	c = u.Base.BlendRgb(c, 0.4+0.6*facing)
	if step > 0 {
		grad := u.GradInner.BlendRgb(u.GradOuter, step)
		c = c.BlendRgb(grad, step)
	}
	return fromColorful(c)
}

func (r *GlobeRenderer) drawTrails(radius float64, u globe.Uniforms, transform math3d.Mat4) int {
	w, h := r.fb.Width, r.fb.Height
	color := fromColorful(u.GradOuter)
	drawn := 0

	for _, t := range u.Trails {
		if t.Ratio <= 0 || len(t.Vertices) < 2 {
			continue
		}
		for i := 1; i < len(t.Vertices); i++ {
			mid := (t.Distances[i-1] + t.Distances[i]) / 2
			alpha, ok := DashAlpha(mid, t.Length, u.DashSize, t.Ratio)
			if !ok {
				continue
			}

			a := transform.MulVec3(t.Vertices[i-1])
			b := transform.MulVec3(t.Vertices[i])
			if r.camera.Occluded(a.Lerp(b, 0.5), radius) {
				continue
			}

			x0, y0, _, ok0 := r.camera.WorldToScreen(a, w, h)
			x1, y1, _, ok1 := r.camera.WorldToScreen(b, w, h)
			if !ok0 || !ok1 {
				continue
			}
			r.fb.BlendLine(int(x0), int(y0), int(x1), int(y1), color, alpha)
			drawn++
		}
	}
	return drawn
}

// WaveStep returns the combined wave intensity in [0, 1] at point p for the
// given pulses. Each wave is a ring of radius MaxRadius·Ratio whose inner
// edge softens as it expands and which fades out as Ratio reaches 1.
func WaveStep(p math3d.Vec3, pulses []impact.Pulse) float64 {
	total := 0.0
	for _, pl := range pulses {
		if pl.Ratio <= 0 || pl.Ratio >= 1 {
			continue
		}
		dist := p.Distance(pl.Position)
		cur := pl.MaxRadius * pl.Ratio
		step := smoothstep(0, cur, dist) - smoothstep(cur-0.25*pl.Ratio, cur, dist)
		total += step * (1 - pl.Ratio)
	}
	return math.Max(0, math.Min(1, total))
}

// DashAlpha reports whether the trail position dist falls inside the moving
// dash window, and its opacity there. The window of width dash travels from
// the start of a path of the given length to past its end as ratio goes
// from 0 to 1; opacity ramps up from the window's tail to its middle.
func DashAlpha(dist, length, dash, ratio float64) (float64, bool) {
	half := dash / 2
	cur := (length + dash) * ratio
	if math.Abs(dist+half-cur) > half {
		return 0, false
	}
	grad := ((dist + half) - (cur - half)) / half
	return math.Max(0, math.Min(1, grad)), true
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := math.Max(0, math.Min(1, (x-edge0)/(edge1-edge0)))
	return t * t * (3 - 2*t)
}
