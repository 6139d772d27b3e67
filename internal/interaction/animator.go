package interaction

import (
	"math"
	"time"
)

// Animator is a Renderer that eases between transforms. Immediate transforms
// land at once; animated ones ease out over their duration as Advance is
// called.
type Animator struct {
	from     Transform
	to       Transform
	current  Transform
	elapsed  time.Duration
	duration time.Duration
}

// NewAnimator returns an animator resting at the front face.
func NewAnimator() *Animator {
	return &Animator{}
}

// Apply implements Renderer.
func (a *Animator) Apply(t Transform) {
	if !t.Animate || t.Duration <= 0 {
		a.current = t
		a.from = t
		a.to = t
		a.duration = 0
		a.elapsed = 0
		return
	}
	a.from = a.current
	a.to = t
	a.elapsed = 0
	a.duration = t.Duration
}

// Advance moves the animation forward by dt and reports whether it is still
// running.
func (a *Animator) Advance(dt time.Duration) bool {
	if a.duration <= 0 {
		return false
	}
	a.elapsed += dt
	if a.elapsed >= a.duration {
		a.current = a.to
		a.current.Animate = false
		a.duration = 0
		return false
	}
	p := easeOut(float64(a.elapsed) / float64(a.duration))
	a.current = Transform{
		RotationY: lerp(a.from.RotationY, a.to.RotationY, p),
		TiltX:     lerp(a.from.TiltX, a.to.TiltX, p),
	}
	a.current.Lean = Lean(a.current.TiltX)
	return true
}

// Animating reports whether an eased transition is in progress.
func (a *Animator) Animating() bool { return a.duration > 0 }

// Current returns the transform to draw now.
func (a *Animator) Current() Transform { return a.current }

func easeOut(p float64) float64 {
	return 1 - math.Pow(1-p, 3)
}

func lerp(a, b, p float64) float64 {
	return a + (b-a)*p
}
