package interaction

import (
	"math"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	applied []Transform
}

func (r *recordingRenderer) Apply(t Transform) { r.applied = append(r.applied, t) }

func newTestController() (*Controller, *recordingRenderer) {
	r := &recordingRenderer{}
	return NewController(DefaultPhysics(), r), r
}

func TestDragPastBoundaryClampsAndSnaps(t *testing.T) {
	t.Parallel()
	c, r := newTestController()

	c.Start(Point{X: 100, Y: 50})
	require.True(t, c.Dragging())

	c.Move(Point{X: 340, Y: 50})
	require.InDelta(t, 270, c.Orientation().RotationY, 1e-9)
	require.Len(t, r.applied, 1)
	require.False(t, r.applied[0].Animate)

	c.Release()
	require.False(t, c.Dragging())
	require.Equal(t, 360.0, c.Orientation().RotationY)
	require.Equal(t, 0.0, c.Orientation().TiltX)

	last := r.applied[len(r.applied)-1]
	require.True(t, last.Animate)
	require.Equal(t, 400*time.Millisecond, last.Duration)
	require.Equal(t, 360.0, last.RotationY)
}

func TestReleaseAlwaysRestsOnFace(t *testing.T) {
	t.Parallel()
	for dx := -600.0; dx <= 600; dx += 7 {
		for _, dy := range []float64{-400, -33, 0, 12, 250} {
			c, _ := newTestController()
			c.Start(Point{X: 500, Y: 300})
			c.Move(Point{X: 500 + dx, Y: 300 + dy})
			c.Release()

			o := c.Orientation()
			require.Zero(t, math.Mod(o.RotationY, 180), "dx=%v dy=%v rot=%v", dx, dy, o.RotationY)
			require.Zero(t, o.TiltX)
		}
	}
}

func TestRotationStaysWithinFaceBounds(t *testing.T) {
	t.Parallel()

	front, _ := newTestController()
	front.Start(Point{})
	for dx := -2000.0; dx <= 2000; dx += 13 {
		front.Move(Point{X: dx})
		rot := front.Orientation().RotationY
		require.GreaterOrEqual(t, rot, -90.0)
		require.LessOrEqual(t, rot, 270.0)
	}

	back, _ := newTestController()
	back.Start(Point{})
	back.Move(Point{X: 160})
	back.Release()
	require.Equal(t, FaceBack, back.Face())

	back.Start(Point{})
	for dx := -2000.0; dx <= 2000; dx += 13 {
		back.Move(Point{X: dx})
		rot := back.Orientation().RotationY
		require.GreaterOrEqual(t, rot, 90.0)
		require.LessOrEqual(t, rot, 450.0)
	}
}

func TestStartNormalisesOntoNearestFace(t *testing.T) {
	t.Parallel()
	cases := []struct {
		rotation float64
		want     float64
	}{
		{0, 0},
		{90, 0},
		{91, 180},
		{270, 180},
		{271, 0},
		{-90, 180},
		{-91, 180},
		{540, 180},
		{720, 0},
	}
	for _, tc := range cases {
		c, _ := newTestController()
		c.orient.RotationY = tc.rotation
		c.Start(Point{})
		require.Equal(t, tc.want, c.Orientation().RotationY, "rotation %v", tc.rotation)
		require.Equal(t, tc.want, c.initialFace)
	}
}

func TestTiltIsClampedAndLeanFollows(t *testing.T) {
	t.Parallel()
	c, r := newTestController()
	c.Start(Point{X: 0, Y: 0})

	c.Move(Point{X: 0, Y: 500})
	require.Equal(t, 10.0, c.Orientation().TiltX)
	require.InDelta(t, 2.0, r.applied[len(r.applied)-1].Lean, 1e-9)

	c.Move(Point{X: 0, Y: -500})
	require.Equal(t, -10.0, c.Orientation().TiltX)

	c.Move(Point{X: 0, Y: 45})
	require.InDelta(t, 4.5, c.Orientation().TiltX, 1e-9)
	require.InDelta(t, 0.9, r.applied[len(r.applied)-1].Lean, 1e-9)

	for tilt := -10.0; tilt <= 10; tilt += 0.5 {
		require.InDelta(t, 0.2*tilt, Lean(tilt), 1e-12)
	}
}

func TestEventsWithoutDragAreIgnored(t *testing.T) {
	t.Parallel()
	c, r := newTestController()
	c.orient = Orientation{RotationY: 180}

	c.Release()
	c.Move(Point{X: 999, Y: 999})

	require.Equal(t, Orientation{RotationY: 180}, c.Orientation())
	require.Empty(t, r.applied)
}

func TestHandleDropsTouchWithoutPoints(t *testing.T) {
	t.Parallel()
	c, r := newTestController()

	require.NotPanics(t, func() {
		c.Handle(Event{Phase: PhaseStart, Source: SourceTouch})
	})
	require.False(t, c.Dragging())

	c.Handle(Event{Phase: PhaseStart, Source: SourceTouch, Touches: []Point{{X: 10, Y: 10}, {X: 90, Y: 90}}})
	require.True(t, c.Dragging())

	c.Handle(Event{Phase: PhaseMove, Source: SourceTouch, Touches: []Point{{X: 170, Y: 10}}})
	require.InDelta(t, 180, c.Orientation().RotationY, 1e-9)

	c.Handle(Event{Phase: PhaseMove, Source: SourceTouch})
	require.Len(t, r.applied, 1)

	c.Handle(Event{Phase: PhaseEnd, Source: SourceTouch})
	require.False(t, c.Dragging())
	require.Equal(t, FaceBack, c.Face())
}

func TestTouchEndWithoutPointsSettles(t *testing.T) {
	t.Parallel()
	c, r := newTestController()

	c.Handle(Event{Phase: PhaseStart, Source: SourceTouch, Touches: []Point{{X: 100, Y: 0}}})
	c.Handle(Event{Phase: PhaseMove, Source: SourceTouch, Touches: []Point{{X: 200, Y: 30}}})
	require.InDelta(t, 112.5, c.Orientation().RotationY, 1e-9)
	require.InDelta(t, 3, c.Orientation().TiltX, 1e-9)

	c.Handle(Event{Phase: PhaseEnd, Source: SourceTouch})

	require.False(t, c.Dragging())
	require.Equal(t, Orientation{RotationY: 180}, c.Orientation())
	last := r.applied[len(r.applied)-1]
	require.True(t, last.Animate)
	require.InDelta(t, 180, last.RotationY, 1e-9)
	require.Zero(t, last.TiltX)
}

func TestReadCoords(t *testing.T) {
	t.Parallel()
	p, err := ReadCoords(Event{Source: SourceMouse, Mouse: Point{X: 3, Y: 4}})
	require.NoError(t, err)
	require.Equal(t, Point{X: 3, Y: 4}, p)

	_, err = ReadCoords(Event{Source: SourceTouch})
	require.ErrorIs(t, err, ErrNoTouch)
}

func TestFromMouse(t *testing.T) {
	t.Parallel()
	s := DefaultScale()

	ev, ok := FromMouse(tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, s)
	require.True(t, ok)
	require.Equal(t, PhaseStart, ev.Phase)
	require.Equal(t, Point{X: 20, Y: 24}, ev.Mouse)

	_, ok = FromMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, s)
	require.False(t, ok)

	ev, ok = FromMouse(tea.MouseMsg{Action: tea.MouseActionRelease}, s)
	require.True(t, ok)
	require.Equal(t, PhaseEnd, ev.Phase)
}

func TestFlipTurnsToOppositeFace(t *testing.T) {
	t.Parallel()
	c, r := newTestController()

	c.Flip()
	require.Equal(t, 180.0, c.Orientation().RotationY)
	require.Equal(t, FaceBack, c.Face())
	require.True(t, r.applied[0].Animate)

	c.Flip()
	require.Equal(t, 360.0, c.Orientation().RotationY)
	require.Equal(t, FaceFront, c.Face())

	c.Start(Point{})
	c.Flip()
	require.Equal(t, 0.0, c.Orientation().RotationY)
}
