// Package intro schedules the card's opening sequence and the hint popup
// that follows the welcome speech.
//
// The sequence is a fixed, ordered list of steps. Each step names the delay
// after the previous one; the caller owns the timers and reports back with
// Fire. Once started it cannot be cancelled or restarted.
package intro

import "time"

// Timing holds the sequence delays.
type Timing struct {
	// InitialDelay precedes the first step unless the start was confirmed.
	InitialDelay time.Duration
	// HeightToWidth separates the height and width expansions.
	HeightToWidth time.Duration
	// Spin is how long the card spins before it settles.
	Spin time.Duration
	// PopupDelay separates the end of the welcome speech from the popup.
	PopupDelay time.Duration
	// PopupDuration is how long the popup stays up.
	PopupDuration time.Duration
}

// DefaultTiming returns the stock 2000/800/1200ms sequence with a 100ms
// popup delay and a 3s popup.
func DefaultTiming() Timing {
	return Timing{
		InitialDelay:  2000 * time.Millisecond,
		HeightToWidth: 800 * time.Millisecond,
		Spin:          1200 * time.Millisecond,
		PopupDelay:    100 * time.Millisecond,
		PopupDuration: 3000 * time.Millisecond,
	}
}

// Visual is the card's intro state.
type Visual struct {
	HeightExpanded  bool
	WidthExpanded   bool
	Spinning        bool
	ControlsVisible bool
}

// Action is a side effect a step asks the caller to perform.
type Action int

const (
	ActionNone Action = iota
	ActionSpeak
)

// Step is one entry of the sequence.
type Step struct {
	Name   string
	After  time.Duration
	Apply  func(*Visual)
	Action Action
}

// Plan returns the intro steps. A confirmed start skips the initial delay.
func Plan(t Timing, confirmed bool) []Step {
	initial := t.InitialDelay
	if confirmed {
		initial = 0
	}
	return []Step{
		{
			Name:  "expand-height",
			After: initial,
			Apply: func(v *Visual) { v.HeightExpanded = true },
		},
		{
			Name:  "expand-width",
			After: t.HeightToWidth,
			Apply: func(v *Visual) {
				v.WidthExpanded = true
				v.Spinning = true
				v.ControlsVisible = true
			},
		},
		{
			Name:   "settle",
			After:  t.Spin,
			Apply:  func(v *Visual) { v.Spinning = false },
			Action: ActionSpeak,
		},
	}
}

// Pending is the next step waiting on its timer.
type Pending struct {
	Index int
	After time.Duration
}

// Sequencer walks a plan in order.
type Sequencer struct {
	steps   []Step
	next    int
	started bool
	visual  Visual
}

// NewSequencer returns a sequencer for steps.
func NewSequencer(steps []Step) *Sequencer {
	return &Sequencer{steps: steps}
}

// Start returns the first pending step. It reports false if the sequence
// was already started or is empty.
func (s *Sequencer) Start() (Pending, bool) {
	if s.started || len(s.steps) == 0 {
		return Pending{}, false
	}
	s.started = true
	return Pending{Index: 0, After: s.steps[0].After}, true
}

// Fire applies step i once its timer has elapsed and returns it with the
// following pending step, if any. Fires that are not for the expected step
// report ok false and change nothing.
func (s *Sequencer) Fire(i int) (fired Step, next *Pending, ok bool) {
	if !s.started || i != s.next || i >= len(s.steps) {
		return Step{}, nil, false
	}
	fired = s.steps[i]
	if fired.Apply != nil {
		fired.Apply(&s.visual)
	}
	s.next++
	if s.next < len(s.steps) {
		next = &Pending{Index: s.next, After: s.steps[s.next].After}
	}
	return fired, next, true
}

// Started reports whether Start was called.
func (s *Sequencer) Started() bool { return s.started }

// Done reports whether every step has fired.
func (s *Sequencer) Done() bool { return s.started && s.next >= len(s.steps) }

// Visual returns the current intro state.
func (s *Sequencer) Visual() Visual { return s.visual }
