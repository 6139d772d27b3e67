package interaction

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoTouch is returned for a touch event that carries no active touch point.
var ErrNoTouch = errors.New("touch event without active touch points")

// Point is a pointer position in pixels.
type Point struct {
	X float64
	Y float64
}

// Source identifies where a pointer event came from.
type Source int

const (
	SourceMouse Source = iota
	SourceTouch
)

// Phase is the pointer phase an event belongs to.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMove
	PhaseEnd
)

// Event is a pointer event from either a mouse or a touch surface.
type Event struct {
	Phase   Phase
	Source  Source
	Mouse   Point
	Touches []Point
}

// ReadCoords returns the event position: the mouse position, or the first
// active touch point for touch events.
func ReadCoords(ev Event) (Point, error) {
	if ev.Source != SourceTouch {
		return ev.Mouse, nil
	}
	if len(ev.Touches) == 0 {
		return Point{}, ErrNoTouch
	}
	return ev.Touches[0], nil
}

// Scale converts terminal cells to pixels.
type Scale struct {
	CellWidth  float64
	CellHeight float64
}

// DefaultScale approximates a common 8x16 terminal font.
func DefaultScale() Scale {
	return Scale{CellWidth: 8, CellHeight: 16}
}

// FromMouse converts a terminal mouse message into a pointer event. ok is
// false for wheel and non-left-button events, which never drive a drag.
func FromMouse(msg tea.MouseMsg, s Scale) (Event, bool) {
	ev := Event{
		Source: SourceMouse,
		Mouse: Point{
			X: (float64(msg.X) + 0.5) * s.CellWidth,
			Y: (float64(msg.Y) + 0.5) * s.CellHeight,
		},
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return Event{}, false
		}
		ev.Phase = PhaseStart
	case tea.MouseActionMotion:
		ev.Phase = PhaseMove
	case tea.MouseActionRelease:
		ev.Phase = PhaseEnd
	default:
		return Event{}, false
	}
	return ev, true
}
