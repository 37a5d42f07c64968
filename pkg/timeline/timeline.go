// Package timeline maps elapsed tick time onto a linear 0→1 ratio.
package timeline

import "time"

// Timeline advances from ratio 0 to 1 over Duration. It is driven by the
// caller's ticks and never restarts: repeating an animation means creating a
// new Timeline.
type Timeline struct {
	duration time.Duration
	elapsed  time.Duration
}

// New creates a timeline of the given duration. A non-positive duration
// produces a timeline that is already complete.
func New(d time.Duration) *Timeline {
	return &Timeline{duration: max(d, 0)}
}

// Duration returns the total length of the timeline.
func (t *Timeline) Duration() time.Duration {
	return t.duration
}

// Elapsed returns how much time the timeline has consumed.
func (t *Timeline) Elapsed() time.Duration {
	return t.elapsed
}

// Advance moves the timeline forward by dt and returns the portion of dt
// left over past completion. The overflow is zero while the timeline is
// still running. Advancing a completed timeline returns dt unchanged.
func (t *Timeline) Advance(dt time.Duration) time.Duration {
	if dt < 0 {
		dt = 0
	}
	remaining := t.duration - t.elapsed
	if dt < remaining {
		t.elapsed += dt
		return 0
	}
	t.elapsed = t.duration
	return dt - remaining
}

// Done reports whether the timeline has reached its end.
func (t *Timeline) Done() bool {
	return t.elapsed >= t.duration
}

// Ratio returns the linear progress in [0, 1].
func (t *Timeline) Ratio() float64 {
	if t.duration <= 0 {
		return 1
	}
	return float64(t.elapsed) / float64(t.duration)
}

// Seconds converts a floating point second count to a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
