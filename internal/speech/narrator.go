// Package speech speaks the card's welcome message through the host's
// text-to-speech tool.
package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
)

// Options tune how the narrator speaks.
type Options struct {
	Lang   string
	Rate   float64
	Pitch  float64
	Volume float64
	// Voice pins a voice by name, ahead of the policy.
	Voice string
	// Welcome is spoken part by part, with PartPause between parts.
	Welcome   []string
	PartPause time.Duration
}

// DefaultOptions speaks en-US slightly slow and high.
func DefaultOptions() Options {
	return Options{
		Lang:      "en-US",
		Rate:      0.9,
		Pitch:     1.6,
		Volume:    1.5,
		Welcome:   []string{"Thank you for joining us, Welcome to. Noel No Cool Season Three."},
		PartPause: time.Millisecond,
	}
}

// Narrator owns the voice choice and the welcome-once bookkeeping. It is
// safe for concurrent use.
type Narrator struct {
	engine Engine
	policy Policy
	opts   Options
	log    *zap.Logger

	mu        sync.Mutex
	voice     *Voice
	voiceRule string
	welcomed  bool
	// seq counts speech requests; only the latest may start.
	seq uint64
}

// NewNarrator returns a narrator over engine. A nil engine is silent.
func NewNarrator(engine Engine, opts Options, log *zap.Logger) *Narrator {
	if engine == nil {
		engine = NopEngine{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Narrator{
		engine: engine,
		policy: DefaultPolicy(),
		opts:   opts,
		log:    log,
	}
}

// Engine returns the engine the narrator speaks through.
func (n *Narrator) Engine() Engine { return n.engine }

// RefreshVoices re-reads the engine's voices and re-selects the cached
// voice. Call it at startup and whenever the voice list may have changed.
func (n *Narrator) RefreshVoices(ctx context.Context) error {
	voices, err := n.engine.Voices(ctx)
	if err != nil {
		return err
	}
	v, rule, ok := n.choose(voices)

	n.mu.Lock()
	defer n.mu.Unlock()
	if !ok {
		// Keep an earlier pick rather than losing it to an empty listing.
		return nil
	}
	n.voice = &v
	n.voiceRule = rule
	n.log.Debug("voice selected", zap.String("voice", v.Name), zap.String("lang", v.Lang), zap.String("rule", rule))
	return nil
}

// Voice returns the cached voice and the rule that chose it.
func (n *Narrator) Voice() (Voice, string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.voice == nil {
		return Voice{}, "", false
	}
	return *n.voice, n.voiceRule, true
}

func (n *Narrator) choose(voices []Voice) (Voice, string, bool) {
	if want := strings.TrimSpace(n.opts.Voice); want != "" {
		if v, ok := byName(voices, want); ok {
			return v, "configured", true
		}
		if hint, ok := nearestName(voices, want); ok {
			n.log.Warn("configured voice not found", zap.String("voice", want), zap.String("closest", hint))
		} else {
			n.log.Warn("configured voice not found", zap.String("voice", want))
		}
	}
	return n.policy.Select(voices)
}

// Speak says text and returns a channel closed when speech ends or fails.
// An utterance already in flight is cut off.
func (n *Narrator) Speak(ctx context.Context, text string) <-chan struct{} {
	done := make(chan struct{})
	superseded := n.nextTurn()
	u := n.utterance(text, superseded)
	n.engine.Cancel()
	go func() {
		defer close(done)
		if superseded() {
			return
		}
		if err := n.engine.Speak(ctx, u); err != nil {
			n.log.Debug("speech ended with error", zap.Error(err))
		}
	}()
	return done
}

// SpeakWelcome says the welcome message the first time it is called. Later
// calls return a closed channel without speaking.
func (n *Narrator) SpeakWelcome(ctx context.Context) <-chan struct{} {
	n.mu.Lock()
	already := n.welcomed
	n.welcomed = true
	n.mu.Unlock()

	done := make(chan struct{})
	if already {
		close(done)
		return done
	}
	parts := nonEmpty(n.opts.Welcome)
	superseded := n.nextTurn()
	n.engine.Cancel()
	go func() {
		defer close(done)
		for i, part := range parts {
			if i > 0 && !sleep(ctx, n.opts.PartPause) {
				return
			}
			if superseded() {
				return
			}
			u := n.utterance(part, superseded)
			if err := n.engine.Speak(ctx, u); err != nil {
				n.log.Debug("welcome speech ended with error", zap.Error(err))
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return done
}

// nextTurn claims the next speech request and returns a func reporting
// whether a later request has since been made.
func (n *Narrator) nextTurn() func() bool {
	n.mu.Lock()
	n.seq++
	mine := n.seq
	n.mu.Unlock()
	return func() bool {
		n.mu.Lock()
		defer n.mu.Unlock()
		return n.seq != mine
	}
}

func (n *Narrator) utterance(text string, superseded func() bool) Utterance {
	u := Utterance{
		Text:       text,
		Lang:       n.opts.Lang,
		Rate:       n.opts.Rate,
		Pitch:      n.opts.Pitch,
		Volume:     n.opts.Volume,
		Superseded: superseded,
	}
	n.mu.Lock()
	if n.voice != nil {
		v := *n.voice
		u.Voice = &v
	}
	n.mu.Unlock()
	return u
}

func byName(voices []Voice, name string) (Voice, bool) {
	for _, v := range voices {
		if strings.EqualFold(v.Name, name) || strings.EqualFold(v.ID, name) {
			return v, true
		}
	}
	return Voice{}, false
}

// nearestName returns the voice name closest to want by edit distance.
func nearestName(voices []Voice, want string) (string, bool) {
	best, bestDist := "", -1
	want = strings.ToLower(want)
	for _, v := range voices {
		d := levenshtein.ComputeDistance(want, strings.ToLower(v.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = v.Name, d
		}
	}
	return best, bestDist >= 0
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
