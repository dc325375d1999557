package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/sayyes/internal/config"
	"github.com/jask/sayyes/internal/confetti"
	"github.com/jask/sayyes/internal/content"
	"github.com/jask/sayyes/internal/geom"
	"github.com/jask/sayyes/internal/placement"
	"github.com/jask/sayyes/internal/session"
)

// Journal records the outcome of a run. Writes happen off the update loop.
type Journal interface {
	RecordDecline(ctx context.Context, id string, count int) error
	RecordAccept(ctx context.Context, id string, at time.Time) error
}

// Player plays the decline and accept cues. Calls must not block.
type Player interface {
	Decline()
	Accept()
}

type silent struct{}

func (silent) Decline() {}
func (silent) Accept()  {}

// Deps are the collaborators wired in by main. Every field is optional.
type Deps struct {
	Journal Journal
	EntryID string
	Chime   Player
	Logger  *slog.Logger
	Rand    *rand.Rand
	Clock   func() time.Time
}

// App is the bubbletea model for the prompt.
type App struct {
	ctx     context.Context
	cfg     config.Config
	tables  *content.Tables
	deps    Deps
	log     *slog.Logger
	now     func() time.Time
	st      styles
	keys    keyMap
	ctrl    *session.Controller
	field   *confetti.Field
	pending []scheduled

	width    int
	height   int
	focus    focusTarget
	hovering bool
	status   string
	statusOK bool

	ticking  bool
	frame    int
	popFrame int
}

type focusTarget int

const (
	focusAccept focusTarget = iota
	focusDecline
)

type scheduled struct {
	after time.Duration
	task  session.Task
}

type (
	taskMsg    struct{ task session.Task }
	frameMsg   time.Time
	statusMsg  string
	journalErr struct{ error }
)

var (
	_ session.Layout    = (*App)(nil)
	_ session.Scheduler = (*App)(nil)
)

// New builds the prompt for cfg and tables. The session starts idle.
func New(ctx context.Context, cfg config.Config, tables *content.Tables, deps Deps) *App {
	if deps.Chime == nil {
		deps.Chime = silent{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	a := &App{
		ctx:    ctx,
		cfg:    cfg,
		tables: tables,
		deps:   deps,
		log:    deps.Logger,
		now:    deps.Clock,
		st:     newStyles(paletteFor(cfg.UI.Theme)),
		keys:   defaultKeys(),
		field:  confetti.New(0, 0, deps.Rand),
	}
	a.ctrl = session.New(tables, a, a, a.field,
		session.WithRand(deps.Rand),
		session.WithClock(deps.Clock),
		session.WithLogger(deps.Logger),
		session.WithPlacement(placement.Options{
			Padding: cfg.Evasion.Padding,
			Zone: placement.Zone{
				HalfWidth:  cfg.Evasion.ExclusionHalfWidth,
				HalfHeight: cfg.Evasion.ExclusionHalfHeight,
			},
			MaxAttempts: cfg.Evasion.MaxAttempts,
		}),
		session.WithTimings(session.Timings{
			Wiggle:         cfg.Timing.Wiggle,
			MarkerLifetime: cfg.Timing.MarkerLifetime,
			BurstDelay:     cfg.Timing.BurstDelay,
		}),
	)
	return a
}

// Schedule queues a controller task; Update turns the queue into tea.Tick
// commands once the current message is handled.
func (a *App) Schedule(after time.Duration, task session.Task) {
	a.pending = append(a.pending, scheduled{after: after, task: task})
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		c := a.contentRect()
		a.field.Resize(c.W, c.H)
	case tea.KeyMsg:
		if key.Matches(m, a.keys.Quit) {
			return a, tea.Quit
		}
		cmds = append(cmds, a.handleKey(m))
	case tea.MouseMsg:
		cmds = append(cmds, a.handleMouse(m))
	case taskMsg:
		a.log.Debug("task", "task", m.task.String())
		a.ctrl.Run(m.task)
	case frameMsg:
		a.ticking = false
		a.frame++
		if a.ctrl.Accepted() && a.popFrame < popInFrames {
			a.popFrame++
		}
		a.field.Advance(a.cfg.Timing.Frame)
	case statusMsg:
		a.status, a.statusOK = string(m), true
	case journalErr:
		a.log.Error("journal write failed", "err", m.error)
		a.status, a.statusOK = "journal: "+m.Error(), false
	}
	cmds = append(cmds, a.flush(), a.animate())
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if a.ctrl.Accepted() {
		return nil
	}
	switch {
	case key.Matches(m, a.keys.Next), key.Matches(m, a.keys.Prev):
		if a.focus == focusAccept {
			a.focus = focusDecline
			// Reaching for a button that already fled makes it flee again.
			a.ctrl.HoverDecline()
		} else {
			a.focus = focusAccept
		}
	case key.Matches(m, a.keys.Press):
		if a.focus == focusDecline {
			return a.decline()
		}
		return a.acceptAtButton()
	case key.Matches(m, a.keys.Accept):
		return a.acceptAtButton()
	case key.Matches(m, a.keys.Decline):
		return a.decline()
	}
	return nil
}

func (a *App) handleMouse(m tea.MouseMsg) tea.Cmd {
	if a.ctrl.Accepted() {
		return nil
	}
	p := geom.Point{X: m.X, Y: m.Y}
	fl := a.layout(a.ctrl.Snapshot())
	switch {
	case m.Action == tea.MouseActionPress && m.Button == tea.MouseButtonLeft:
		if fl.accept.Contains(p) {
			return a.accept(p)
		}
		if fl.decline.Contains(p) {
			return a.decline()
		}
	case m.Action == tea.MouseActionMotion:
		over := fl.decline.Contains(p)
		if over && !a.hovering && a.ctrl.HoverDecline() {
			// The button moved; entering it again, even where it landed,
			// is a new approach.
			over = false
		}
		a.hovering = over
	}
	return nil
}

func (a *App) decline() tea.Cmd {
	if !a.ctrl.ActivateDecline() {
		return nil
	}
	count := a.ctrl.Declines()
	a.deps.Chime.Decline()
	a.log.Info("declined", "count", count)
	a.status, a.statusOK = fmt.Sprintf("declined %d×", count), true
	return a.recordDecline(count)
}

func (a *App) acceptAtButton() tea.Cmd {
	r := a.layout(a.ctrl.Snapshot()).accept
	return a.accept(r.Origin().Add(r.Center()))
}

func (a *App) accept(p geom.Point) tea.Cmd {
	if !a.ctrl.ActivateAccept(p) {
		return nil
	}
	a.deps.Chime.Accept()
	a.status, a.statusOK = fmt.Sprintf("accepted after %d declines", a.ctrl.Declines()), true
	return a.recordAccept(a.now())
}

// flush turns queued controller tasks into timers.
func (a *App) flush() tea.Cmd {
	if len(a.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(a.pending))
	for _, s := range a.pending {
		task := s.task
		cmds = append(cmds, tea.Tick(s.after, func(time.Time) tea.Msg { return taskMsg{task: task} }))
	}
	a.pending = a.pending[:0]
	return tea.Batch(cmds...)
}

// animate starts the frame clock when something on screen is moving and it
// is not already running.
func (a *App) animate() tea.Cmd {
	if a.ticking || !a.animating() {
		return nil
	}
	a.ticking = true
	return tea.Tick(a.cfg.Timing.Frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (a *App) animating() bool {
	v := a.ctrl.Snapshot()
	return a.field.Active() ||
		len(v.Markers) > 0 ||
		v.Wiggle ||
		(v.PopIn && a.popFrame < popInFrames)
}

func (a *App) recordDecline(count int) tea.Cmd {
	if a.deps.Journal == nil || a.deps.EntryID == "" {
		return nil
	}
	j, id := a.deps.Journal, a.deps.EntryID
	return func() tea.Msg {
		if err := j.RecordDecline(a.ctx, id, count); err != nil {
			return journalErr{err}
		}
		return nil
	}
}

func (a *App) recordAccept(at time.Time) tea.Cmd {
	if a.deps.Journal == nil || a.deps.EntryID == "" {
		return nil
	}
	j, id := a.deps.Journal, a.deps.EntryID
	return func() tea.Msg {
		if err := j.RecordAccept(a.ctx, id, at); err != nil {
			return journalErr{err}
		}
		return statusMsg("saved to journal")
	}
}
