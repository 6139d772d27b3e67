// Package interaction turns pointer drags into card orientation: the card
// follows the pointer while dragged and snaps flush onto the nearest face when
// released.
package interaction

import (
	"math"
	"time"
)

// LeanFactor couples the lateral lean to the tilt.
const LeanFactor = 0.2

// Face is one of the two resting orientations of the card.
type Face int

const (
	FaceFront Face = iota
	FaceBack
)

func (f Face) String() string {
	if f == FaceBack {
		return "back"
	}
	return "front"
}

// Physics holds the drag tuning.
type Physics struct {
	// RotationSensitivity is degrees of Y rotation per pixel of horizontal travel.
	RotationSensitivity float64
	// TiltSensitivity is degrees of X tilt per pixel of vertical travel.
	TiltSensitivity float64
	MaxTilt         float64
	SnapDuration    time.Duration
}

// DefaultPhysics returns 180 degrees per 160px, 0.1 tilt per px capped at 10
// degrees and a 400ms snap.
func DefaultPhysics() Physics {
	return Physics{
		RotationSensitivity: 180.0 / 160.0,
		TiltSensitivity:     0.1,
		MaxTilt:             10,
		SnapDuration:        400 * time.Millisecond,
	}
}

// Orientation is the card orientation in degrees. RotationY is cumulative
// and unbounded; TiltX stays within [-MaxTilt, MaxTilt].
type Orientation struct {
	RotationY float64
	TiltX     float64
}

// Transform is what a renderer applies to the card.
type Transform struct {
	RotationY float64
	TiltX     float64
	Lean      float64
	// Animate asks the renderer to ease into the transform over Duration.
	Animate  bool
	Duration time.Duration
}

// Renderer applies transforms.
type Renderer interface {
	Apply(Transform)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Transform)

func (f RendererFunc) Apply(t Transform) { f(t) }

// Lean returns the lateral lean for a tilt.
func Lean(tilt float64) float64 {
	return tilt * LeanFactor
}

// Controller is the drag state machine. It is Idle until Start and Dragging
// until Release. It is not safe for concurrent use; the UI loop owns it.
type Controller struct {
	physics  Physics
	renderer Renderer
	orient   Orientation

	dragging    bool
	startX      float64
	startY      float64
	initialFace float64
}

// NewController returns an idle controller resting on the front face.
func NewController(p Physics, r Renderer) *Controller {
	if r == nil {
		r = RendererFunc(func(Transform) {})
	}
	return &Controller{physics: p, renderer: r}
}

// Orientation returns the current orientation.
func (c *Controller) Orientation() Orientation { return c.orient }

// Dragging reports whether a drag session is active.
func (c *Controller) Dragging() bool { return c.dragging }

// Face returns the face the current rotation is closest to.
func (c *Controller) Face() Face { return FaceFor(c.orient.RotationY) }

// Handle dispatches a pointer event. Malformed events are dropped.
func (c *Controller) Handle(ev Event) {
	if ev.Phase == PhaseEnd {
		// A touch end carries no active touches.
		c.Release()
		return
	}
	p, err := ReadCoords(ev)
	if err != nil {
		return
	}
	switch ev.Phase {
	case PhaseStart:
		c.Start(p)
	case PhaseMove:
		c.Move(p)
	}
}

// Start begins a drag from p. The rotation is re-anchored onto the face it
// is nearest to, so a drag that interrupts a spin resumes from a face.
func (c *Controller) Start(p Point) {
	c.dragging = true
	c.startX = p.X
	c.startY = p.Y
	c.initialFace = faceAngle(c.orient.RotationY)
	c.orient.RotationY = c.initialFace
}

// Move follows the pointer. It is a no-op unless dragging.
func (c *Controller) Move(p Point) {
	if !c.dragging {
		return
	}
	dx := p.X - c.startX
	dy := p.Y - c.startY

	rot := c.initialFace + dx*c.physics.RotationSensitivity
	if c.initialFace == 0 {
		rot = clamp(rot, -90, 270)
	} else {
		rot = clamp(rot, 90, 450)
	}
	c.orient.RotationY = rot
	c.orient.TiltX = clamp(dy*c.physics.TiltSensitivity, -c.physics.MaxTilt, c.physics.MaxTilt)

	c.renderer.Apply(c.transform(false))
}

// Release ends the drag and snaps onto the nearest face. It is a no-op
// unless dragging.
func (c *Controller) Release() {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.orient.RotationY = roundHalfUp(c.orient.RotationY/180) * 180
	c.orient.TiltX = 0
	c.renderer.Apply(c.transform(true))
}

// Flip turns the card over to the opposite face with a snap animation. It is
// ignored while dragging.
func (c *Controller) Flip() {
	if c.dragging {
		return
	}
	c.orient.RotationY = roundHalfUp(c.orient.RotationY/180)*180 + 180
	c.orient.TiltX = 0
	c.renderer.Apply(c.transform(true))
}

func (c *Controller) transform(animate bool) Transform {
	t := Transform{
		RotationY: c.orient.RotationY,
		TiltX:     c.orient.TiltX,
		Lean:      Lean(c.orient.TiltX),
		Animate:   animate,
	}
	if animate {
		t.Duration = c.physics.SnapDuration
	}
	return t
}

// FaceFor maps a rotation onto the face it shows: angles normalised into
// (90, 270] show the back.
func FaceFor(rotation float64) Face {
	if faceAngle(rotation) == 180 {
		return FaceBack
	}
	return FaceFront
}

func faceAngle(rotation float64) float64 {
	norm := math.Mod(math.Mod(rotation, 360)+360, 360)
	if norm > 90 && norm <= 270 {
		return 180
	}
	return 0
}

// roundHalfUp rounds halves toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
