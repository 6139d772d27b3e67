package speech

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// ErrNoEngine means no text-to-speech tool was found on the host.
var ErrNoEngine = errors.New("no speech engine available")

// Utterance is one thing to say.
type Utterance struct {
	Text  string
	Lang  string
	Voice *Voice
	// Rate, Pitch and Volume are relative: 1 is the engine default. Volume
	// is capped at 1.
	Rate   float64
	Pitch  float64
	Volume float64
	// Superseded, when set, reports that a newer utterance was requested.
	// Engines check it as they start and skip a stale utterance.
	Superseded func() bool
}

func (u Utterance) stale() bool {
	return u.Superseded != nil && u.Superseded()
}

// Engine speaks utterances. Speak blocks until the utterance ends; starting
// an utterance cancels the one in flight.
type Engine interface {
	Name() string
	Voices(ctx context.Context) ([]Voice, error)
	Speak(ctx context.Context, u Utterance) error
	Cancel()
}

// NopEngine is the silent engine used when the host cannot speak.
type NopEngine struct{}

func (NopEngine) Name() string                            { return "none" }
func (NopEngine) Voices(context.Context) ([]Voice, error) { return nil, nil }
func (NopEngine) Speak(context.Context, Utterance) error  { return nil }
func (NopEngine) Cancel()                                 {}

// BackendKind identifies a supported command-line speech tool.
type BackendKind string

const (
	BackendEspeakNG BackendKind = "espeak-ng"
	BackendEspeak   BackendKind = "espeak"
	BackendSay      BackendKind = "say"
	BackendSpdSay   BackendKind = "spd-say"
)

// probeOrder is the detection priority.
var probeOrder = []BackendKind{BackendEspeakNG, BackendEspeak, BackendSay, BackendSpdSay}

// ExecEngine drives a speech tool as a child process.
type ExecEngine struct {
	kind BackendKind
	path string

	mu      sync.Mutex
	current *exec.Cmd
}

// NewExecEngine returns an engine for the tool at path.
func NewExecEngine(kind BackendKind, path string) *ExecEngine {
	return &ExecEngine{kind: kind, path: path}
}

// DetectEngine finds a speech tool. name selects one backend; "" or "auto"
// probes espeak-ng, espeak, say and spd-say in that order; "none" is
// silent. When nothing is found the silent engine is returned with
// ErrNoEngine.
func DetectEngine(name string) (Engine, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "none", "off":
		return NopEngine{}, nil
	case "", "auto":
		for _, kind := range probeOrder {
			if path, err := exec.LookPath(string(kind)); err == nil {
				return NewExecEngine(kind, path), nil
			}
		}
		return NopEngine{}, ErrNoEngine
	}
	kind := BackendKind(name)
	path, err := exec.LookPath(string(kind))
	if err != nil {
		return NopEngine{}, fmt.Errorf("%w: %s: %v", ErrNoEngine, name, err)
	}
	return NewExecEngine(kind, path), nil
}

func (e *ExecEngine) Name() string { return string(e.kind) }

// Voices lists the voices the tool reports.
func (e *ExecEngine) Voices(ctx context.Context) ([]Voice, error) {
	var args []string
	switch e.kind {
	case BackendEspeakNG, BackendEspeak:
		args = []string{"--voices"}
	case BackendSay:
		args = []string{"-v", "?"}
	case BackendSpdSay:
		args = []string{"-L"}
	default:
		return nil, fmt.Errorf("unsupported backend %q", e.kind)
	}
	out, err := exec.CommandContext(ctx, e.path, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("%s voices: %w", e.kind, err)
	}
	return parseVoices(e.kind, out), nil
}

// Speak runs the tool and waits for it to finish. A previous utterance
// still playing is killed first; a superseded one never starts.
func (e *ExecEngine) Speak(ctx context.Context, u Utterance) error {
	cmd := exec.CommandContext(ctx, e.path, speakArgs(e.kind, u)...)

	e.mu.Lock()
	if u.stale() {
		e.mu.Unlock()
		return nil
	}
	e.killLocked()
	if err := cmd.Start(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", e.kind, err)
	}
	e.current = cmd
	e.mu.Unlock()

	err := cmd.Wait()

	e.mu.Lock()
	if e.current == cmd {
		e.current = nil
	}
	e.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", e.kind, err)
	}
	return nil
}

// Cancel kills the utterance in flight, if any.
func (e *ExecEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.killLocked()
}

func (e *ExecEngine) killLocked() {
	if e.current != nil && e.current.Process != nil {
		_ = e.current.Process.Kill()
	}
	e.current = nil
}

// speakArgs maps an utterance onto the tool's flags. The text always comes
// last.
func speakArgs(kind BackendKind, u Utterance) []string {
	rate := defaultOne(u.Rate)
	pitch := defaultOne(u.Pitch)
	volume := math.Min(defaultOne(u.Volume), 1)

	var args []string
	switch kind {
	case BackendEspeakNG, BackendEspeak:
		voice := strings.ToLower(u.Lang)
		if u.Voice != nil {
			voice = u.Voice.engineID()
		}
		if voice != "" {
			args = append(args, "-v", voice)
		}
		args = append(args,
			"-s", strconv.Itoa(int(math.Round(175*rate))),
			"-p", strconv.Itoa(clampInt(int(math.Round(50*pitch)), 0, 99)),
			"-a", strconv.Itoa(clampInt(int(math.Round(100*volume)), 0, 200)),
		)
	case BackendSay:
		if u.Voice != nil {
			args = append(args, "-v", u.Voice.engineID())
		}
		args = append(args, "-r", strconv.Itoa(int(math.Round(175*rate))))
	case BackendSpdSay:
		args = append(args, "-w")
		if lang := strings.ToLower(u.Lang); lang != "" {
			args = append(args, "-l", strings.SplitN(lang, "-", 2)[0])
		}
		if u.Voice != nil {
			args = append(args, "-y", u.Voice.engineID())
		}
		args = append(args,
			"-r", strconv.Itoa(clampInt(int(math.Round((rate-1)*100)), -100, 100)),
			"-p", strconv.Itoa(clampInt(int(math.Round((pitch-1)*100)), -100, 100)),
			"-i", strconv.Itoa(clampInt(int(math.Round((volume-1)*100)), -100, 100)),
		)
	}
	return append(args, u.Text)
}

// parseVoices reads the voice listing of a tool.
func parseVoices(kind BackendKind, out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	header := true
	for sc.Scan() {
		line := sc.Text()
		switch kind {
		case BackendEspeakNG, BackendEspeak:
			// " 5  en-us          --/M      English_(America)  gmw/en-US"
			if header {
				header = false
				continue
			}
			f := strings.Fields(line)
			if len(f) < 5 {
				continue
			}
			voices = append(voices, Voice{Name: strings.ReplaceAll(f[3], "_", " "), Lang: f[1], ID: f[4]})
		case BackendSay:
			// "Samantha            en_US    # Hello, my name is Samantha."
			meta, _, _ := strings.Cut(line, "#")
			f := strings.Fields(meta)
			if len(f) < 2 {
				continue
			}
			name := strings.Join(f[:len(f)-1], " ")
			voices = append(voices, Voice{Name: name, Lang: f[len(f)-1]})
		case BackendSpdSay:
			// "NAME                 LANGUAGE  VARIANT"
			if header {
				header = false
				continue
			}
			f := strings.Fields(line)
			if len(f) < 2 {
				continue
			}
			voices = append(voices, Voice{Name: f[0], Lang: f[1]})
		}
	}
	return voices
}

func defaultOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
