// Package tui is the terminal front end of the card. It draws the card,
// feeds mouse drags to the rotation controller and runs the intro on timers.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/jask/greetcard/internal/barcode"
	"github.com/jask/greetcard/internal/card"
	"github.com/jask/greetcard/internal/config"
	"github.com/jask/greetcard/internal/dataset"
	"github.com/jask/greetcard/internal/interaction"
	"github.com/jask/greetcard/internal/intro"
)

const frameInterval = time.Second / 30

// Narrator speaks the welcome message.
type Narrator interface {
	RefreshVoices(ctx context.Context) error
	SpeakWelcome(ctx context.Context) <-chan struct{}
}

// Deps are the App's collaborators. Source and Narrator may be nil: without
// a source the card keeps its blank record, without a narrator it is silent.
type Deps struct {
	Session  *card.Session
	Source   dataset.Source
	Narrator Narrator
	Logger   *zap.Logger
}

// App is the bubbletea model for one card.
type App struct {
	ctx      context.Context
	cfg      config.Config
	log      *zap.Logger
	session  *card.Session
	source   dataset.Source
	narrator Narrator

	controller *interaction.Controller
	animator   *interaction.Animator
	scale      interaction.Scale
	timing     intro.Timing
	seq        *intro.Sequencer
	popup      intro.Popup

	faces       faces
	modal       bool
	width       int
	height      int
	spinElapsed time.Duration
	ticking     bool

	keys keyMap
	help help.Model
}

type recordLoadedMsg struct {
	rec card.Record
	err error
}

type voicesMsg struct{ err error }

type introStepMsg struct{ index int }

type speechDoneMsg struct{}

type popupShowMsg struct{}

type popupHideMsg struct{ gen int }

type frameMsg struct{}

func New(ctx context.Context, cfg config.Config, deps Deps) *App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	session := deps.Session
	if session == nil {
		session = card.NewSession(card.Query{}, cfg.CardDefaults())
	}
	anim := interaction.NewAnimator()
	a := &App{
		ctx:        ctx,
		cfg:        cfg,
		log:        log.With(zap.String("session", session.ID)),
		session:    session,
		source:     deps.Source,
		narrator:   deps.Narrator,
		controller: interaction.NewController(cfg.DragPhysics(), anim),
		animator:   anim,
		scale:      cfg.Scale(),
		timing:     cfg.Timing(),
		modal:      !cfg.Intro.Autostart,
		keys:       defaultKeys(),
		help:       help.New(),
	}
	if q := session.Query; q.LegacyName != "" || q.LegacyCode != "" {
		a.log.Debug("legacy name/code parameters ignored",
			zap.String("name", q.LegacyName), zap.String("code", q.LegacyCode))
	}
	a.rebuildFaces()
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadRecord(), a.refreshVoices()}
	if !a.modal {
		cmds = append(cmds, a.startIntro(false))
	}
	return tea.Batch(cmds...)
}

func (a *App) loadRecord() tea.Cmd {
	id := a.session.Query.ID
	if a.source == nil {
		return nil
	}
	if id == "" {
		a.log.Info("no card id given, showing the default card")
		return nil
	}
	ctx, src, timeout := a.ctx, a.source, a.cfg.Data.Timeout
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		rec, err := dataset.Load(ctx, src, id)
		return recordLoadedMsg{rec: rec, err: err}
	}
}

func (a *App) refreshVoices() tea.Cmd {
	if a.narrator == nil {
		return nil
	}
	ctx, n := a.ctx, a.narrator
	return func() tea.Msg {
		return voicesMsg{err: n.RefreshVoices(ctx)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case tea.MouseMsg:
		return a, a.handleMouse(m)
	case recordLoadedMsg:
		if m.err != nil {
			a.log.Warn("card record not loaded", zap.String("id", a.session.Query.ID), zap.Error(m.err))
		} else {
			a.log.Info("card record loaded", zap.String("id", a.session.Query.ID))
		}
		a.session.Apply(m.rec)
		a.rebuildFaces()
		return a, nil
	case voicesMsg:
		if m.err != nil {
			a.log.Debug("voice refresh failed", zap.Error(m.err))
		}
		return a, nil
	case introStepMsg:
		return a, a.fireStep(m.index)
	case speechDoneMsg:
		return a, tea.Tick(a.timing.PopupDelay, func(time.Time) tea.Msg { return popupShowMsg{} })
	case popupShowMsg:
		gen := a.popup.Show(a.session.PopupMessage())
		return a, tea.Tick(a.timing.PopupDuration, func(time.Time) tea.Msg { return popupHideMsg{gen: gen} })
	case popupHideMsg:
		a.popup.Hide(m.gen)
		return a, nil
	case frameMsg:
		return a, a.advanceFrame()
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case a.modal:
		if key.Matches(m, a.keys.Start) {
			return a.confirm()
		}
	case key.Matches(m, a.keys.Flip):
		a.controller.Flip()
		return a.ensureTicking()
	case key.Matches(m, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return nil
}

func (a *App) handleMouse(m tea.MouseMsg) tea.Cmd {
	ev, ok := interaction.FromMouse(m, a.scale)
	if !ok {
		return nil
	}
	if a.modal {
		if ev.Phase == interaction.PhaseStart {
			return a.confirm()
		}
		return nil
	}
	if ev.Phase == interaction.PhaseStart && !a.onCard(m.X, m.Y) {
		return nil
	}
	a.controller.Handle(ev)
	if a.animator.Animating() {
		return a.ensureTicking()
	}
	return nil
}

// confirm dismisses the start modal and runs the intro without its initial
// delay.
func (a *App) confirm() tea.Cmd {
	if !a.modal {
		return nil
	}
	a.modal = false
	return a.startIntro(true)
}

func (a *App) startIntro(confirmed bool) tea.Cmd {
	if a.seq != nil {
		return nil
	}
	a.seq = intro.NewSequencer(intro.Plan(a.timing, confirmed))
	p, ok := a.seq.Start()
	if !ok {
		return nil
	}
	a.log.Debug("intro started", zap.Bool("confirmed", confirmed))
	return stepAfter(p)
}

func stepAfter(p intro.Pending) tea.Cmd {
	return tea.Tick(p.After, func(time.Time) tea.Msg { return introStepMsg{index: p.Index} })
}

func (a *App) fireStep(i int) tea.Cmd {
	if a.seq == nil {
		return nil
	}
	step, next, ok := a.seq.Fire(i)
	if !ok {
		return nil
	}
	a.log.Debug("intro step", zap.String("step", step.Name))

	var cmds []tea.Cmd
	if next != nil {
		cmds = append(cmds, stepAfter(*next))
	}
	if a.seq.Visual().Spinning {
		a.spinElapsed = 0
		cmds = append(cmds, a.ensureTicking())
	}
	if step.Action == intro.ActionSpeak {
		cmds = append(cmds, a.speakWelcome())
	}
	return tea.Batch(cmds...)
}

func (a *App) speakWelcome() tea.Cmd {
	if a.narrator == nil {
		return func() tea.Msg { return speechDoneMsg{} }
	}
	done := a.narrator.SpeakWelcome(a.ctx)
	return func() tea.Msg {
		<-done
		return speechDoneMsg{}
	}
}

func (a *App) ensureTicking() tea.Cmd {
	if a.ticking {
		return nil
	}
	a.ticking = true
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (a *App) advanceFrame() tea.Cmd {
	a.ticking = false
	a.animator.Advance(frameInterval)
	spinning := a.visual().Spinning
	if spinning {
		a.spinElapsed += frameInterval
	}
	if a.animator.Animating() || spinning {
		return a.ensureTicking()
	}
	return nil
}

func (a *App) visual() intro.Visual {
	if a.seq == nil {
		return intro.Visual{}
	}
	return a.seq.Visual()
}

// displayTransform is the controller's eased transform plus the intro spin,
// one full turn over the spin step.
func (a *App) displayTransform() interaction.Transform {
	t := a.animator.Current()
	if a.visual().Spinning && a.timing.Spin > 0 {
		frac := min(1, float64(a.spinElapsed)/float64(a.timing.Spin))
		t.RotationY += 360 * frac
	}
	return t
}

func (a *App) rebuildFaces() {
	value := a.session.BarcodeValue()
	lines := []string{value}
	bars, err := barcode.Encode(value)
	switch {
	case err != nil:
		a.log.Warn("barcode not drawn", zap.Error(err))
	case bars.Width() <= a.cfg.Card.Width-2:
		lines = bars.Lines(a.cfg.Card.BarcodeHeight)
	}
	a.faces = buildFaces(faceContent{
		Title:   a.cfg.Card.Title,
		Name:    a.session.Record.DisplayName,
		Code:    a.session.Record.GiftCode,
		Barcode: lines,
	}, a.cfg.Card.Width, a.cfg.Card.Height)
}

func (a *App) canvasDims() (int, int) {
	return canvasSize(a.cfg.Card.Width, a.cfg.Card.Height, a.cfg.Physics.MaxTilt)
}

// canvasOrigin is the top-left cell of the card canvas inside a body of
// bodyH rows.
func (a *App) canvasOrigin(bodyH int) (int, int) {
	cw, ch := a.canvasDims()
	return max(0, (a.width-cw)/2), max(0, (bodyH-ch)/2)
}

func (a *App) bodyHeight(footer string) int {
	return max(1, a.height-lipgloss.Height(footer))
}

// onCard reports whether cell (x, y) lies on the card canvas. Before the
// first window size arrives every cell counts.
func (a *App) onCard(x, y int) bool {
	if a.width == 0 || a.height == 0 {
		return true
	}
	left, top := a.canvasOrigin(a.bodyHeight(a.footer()))
	cw, ch := a.canvasDims()
	return x >= left && x < left+cw && y >= top && y < top+ch
}

func (a *App) View() string {
	canvas := a.renderCard()
	footer := a.footer()
	if a.width == 0 || a.height == 0 {
		return canvas + "\n" + footer
	}

	bodyH := a.bodyHeight(footer)
	left, top := a.canvasOrigin(bodyH)
	_, ch := a.canvasDims()
	blank := strings.Repeat(" ", a.width)
	rows := make([]string, bodyH)
	for i := range rows {
		rows[i] = blank
	}
	body := overlayAt(strings.Join(rows, "\n"), canvas, left, top, a.width)

	if a.popup.Visible() {
		box := a.popupView()
		y := min(top+ch, bodyH-lipgloss.Height(box))
		body = overlayAt(body, box, max(0, (a.width-lipgloss.Width(box))/2), max(0, y), a.width)
	}
	if a.modal {
		box := a.modalView()
		x := max(0, (a.width-lipgloss.Width(box))/2)
		y := max(0, (bodyH-lipgloss.Height(box))/2)
		body = overlayAt(body, box, x, y, a.width)
	}
	return body + "\n" + footer
}

func (a *App) renderCard() string {
	p := projectionFor(a.displayTransform(), a.visual())
	grid, style := a.faces.front, frontStyle
	if p.face == interaction.FaceBack {
		grid, style = a.faces.back, backStyle
	}
	cw, ch := a.canvasDims()
	rows := project(grid, p, cw, ch)
	for i, r := range rows {
		rows[i] = style.Render(r)
	}
	return strings.Join(rows, "\n")
}

func (a *App) popupView() string {
	msg := a.popup.Message()
	w := ansi.StringWidth(msg) + 4
	if a.width > 0 {
		w = min(w, max(12, a.width-4))
	}
	return popupStyle.Width(w).Render(msg)
}

func (a *App) modalView() string {
	title := modalTitleStyle.Render("Turn your sound on")
	return modalStyle.Render(title + "\n\nPress enter or click to open the card.")
}

func (a *App) footer() string {
	switch {
	case a.modal:
		return helpStyle.Render(a.help.ShortHelpView([]key.Binding{a.keys.Start, a.keys.Quit}))
	case a.visual().ControlsVisible:
		return helpStyle.Render(a.help.View(a.keys))
	}
	return ""
}
