// Package session owns the state of one run of the prompt: how many times the
// decline button was pressed, where it fled to, whether the answer is in, and
// the short-lived effects that follow each event.
//
// The Controller never blocks and never starts goroutines. Anything that must
// happen later is handed to a Scheduler as a Task and comes back through Run,
// so a renderer can drive it from its own event loop.
package session

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jask/sayyes/internal/content"
	"github.com/jask/sayyes/internal/geom"
	"github.com/jask/sayyes/internal/placement"
)

// Phase is the coarse state of the prompt.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEvading
	PhaseAccepted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEvading:
		return "evading"
	case PhaseAccepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// Layout supplies geometry on demand. DeclineBounds returns the rectangle the
// decline button may roam in and the size the button will have while showing
// label.
type Layout interface {
	DeclineBounds(label string) (container geom.Rect, control geom.Size)
}

// Scheduler runs task after the given delay by passing it back to
// Controller.Run.
type Scheduler interface {
	Schedule(after time.Duration, task Task)
}

// Emitter fires a particle burst. It is fire-and-forget.
type Emitter interface {
	Burst(b Burst)
}

// Origin is a burst origin as a fraction of the field, (0,0) top-left.
type Origin struct {
	X float64
	Y float64
}

// Burst describes one confetti burst. Angle is in degrees with 90 pointing up;
// Spread is the full cone width in degrees.
type Burst struct {
	Count  int
	Spread float64
	Angle  float64
	Origin Origin
	Colors []string
	Scalar float64
}

// Marker is a floating emoji spawned where the accept button was pressed.
type Marker struct {
	ID        uint64
	Symbol    string
	Position  geom.Point
	SpawnedAt time.Time
}

// Timings are the lifetimes of the transient effects.
type Timings struct {
	Wiggle         time.Duration
	MarkerLifetime time.Duration
	BurstDelay     time.Duration
}

// DefaultTimings are the stock effect lifetimes.
func DefaultTimings() Timings {
	return Timings{
		Wiggle:         400 * time.Millisecond,
		MarkerLifetime: time.Second,
		BurstDelay:     300 * time.Millisecond,
	}
}

// View is the read-only state a renderer draws from.
type View struct {
	Phase          Phase
	Declines       int
	Accepted       bool
	DeclinePos     geom.Point
	HasPos         bool
	Wiggle         bool
	Markers        []Marker
	Label          string
	Subtext        string
	AcceptScale    float64
	AcceptFontSize float64
	PopIn          bool
}

// Controller is the interaction state machine. It is not safe for concurrent
// use; callers serialise events and task deliveries.
type Controller struct {
	tables  *content.Tables
	layout  Layout
	sched   Scheduler
	emitter Emitter

	rng     *rand.Rand
	now     func() time.Time
	place   placement.Options
	timings Timings
	log     *slog.Logger

	declines   int
	accepted   bool
	pos        geom.Point
	hasPos     bool
	wiggle     bool
	wiggleGen  uint64
	markers    []Marker
	lastMarker uint64
	popIn      bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source used for placement and marker symbols.
func WithRand(r *rand.Rand) Option { return func(c *Controller) { c.rng = r } }

// WithClock sets the time source stamped on markers.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithPlacement sets padding, exclusion zone and retry cap.
func WithPlacement(o placement.Options) Option { return func(c *Controller) { c.place = o } }

// WithTimings overrides the effect lifetimes.
func WithTimings(t Timings) Option { return func(c *Controller) { c.timings = t } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.log = l } }

// New creates a controller in the idle phase.
func New(tables *content.Tables, layout Layout, sched Scheduler, emitter Emitter, opts ...Option) *Controller {
	c := &Controller{
		tables:  tables,
		layout:  layout,
		sched:   sched,
		emitter: emitter,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
		place:   placement.DefaultOptions(),
		timings: DefaultTimings(),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase reports the coarse state.
func (c *Controller) Phase() Phase {
	switch {
	case c.accepted:
		return PhaseAccepted
	case c.declines > 0:
		return PhaseEvading
	default:
		return PhaseIdle
	}
}

// Declines is the number of decline activations so far.
func (c *Controller) Declines() int { return c.declines }

// Accepted reports whether the prompt has been accepted.
func (c *Controller) Accepted() bool { return c.accepted }

// ActivateDecline handles a press on the decline button. It reports false when
// the prompt is already accepted and nothing changed.
func (c *Controller) ActivateDecline() bool {
	if c.accepted {
		return false
	}
	c.declines++
	c.wiggle = true
	c.wiggleGen++
	c.sched.Schedule(c.timings.Wiggle, Task{Kind: TaskClearWiggle, Gen: c.wiggleGen})
	c.relocate()
	c.log.Debug("decline", "count", c.declines, "x", c.pos.X, "y", c.pos.Y)
	return true
}

// HoverDecline moves the decline button away from an approaching pointer. It
// does nothing before the first decline: the button still sits next to the
// accept button and must not jump out of the layout early.
func (c *Controller) HoverDecline() bool {
	if c.accepted || c.declines == 0 {
		return false
	}
	c.relocate()
	return true
}

// ActivateAccept handles a press on the accept button at pointer p. The
// transition happens once; later calls report false.
func (c *Controller) ActivateAccept(p geom.Point) bool {
	if c.accepted {
		return false
	}
	c.spawnMarker(p)
	c.accepted = true
	c.popIn = true
	c.burstPhaseOne()
	c.sched.Schedule(c.timings.BurstDelay, Task{Kind: TaskBurst, Phase: 2})
	c.log.Info("accepted", "declines", c.declines)
	return true
}

// Run executes a task previously handed to the Scheduler. Tasks that no longer
// match the current state are ignored.
func (c *Controller) Run(t Task) {
	switch t.Kind {
	case TaskClearWiggle:
		if t.Gen == c.wiggleGen {
			c.wiggle = false
		}
	case TaskExpireMarker:
		c.removeMarker(t.MarkerID)
	case TaskBurst:
		if t.Phase == 2 {
			c.burstPhaseTwo()
		}
	}
}

// Snapshot returns the state a renderer needs for one frame.
func (c *Controller) Snapshot() View {
	markers := make([]Marker, len(c.markers))
	copy(markers, c.markers)
	return View{
		Phase:          c.Phase(),
		Declines:       c.declines,
		Accepted:       c.accepted,
		DeclinePos:     c.pos,
		HasPos:         c.hasPos,
		Wiggle:         c.wiggle,
		Markers:        markers,
		Label:          c.tables.Label(c.declines),
		Subtext:        c.tables.Subtext(c.declines),
		AcceptScale:    c.tables.Scale(c.declines),
		AcceptFontSize: c.tables.FontSize(c.declines),
		PopIn:          c.popIn,
	}
}

func (c *Controller) relocate() {
	container, control := c.layout.DeclineBounds(c.tables.Label(c.declines))
	p, sampled := placement.Place(container, control, c.place, c.rng)
	if !sampled {
		c.log.Warn("placement fell back to a corner",
			"container_w", container.W, "container_h", container.H,
			"control_w", control.W, "control_h", control.H)
	}
	c.pos = p
	c.hasPos = true
}

func (c *Controller) spawnMarker(p geom.Point) {
	c.lastMarker++
	m := Marker{
		ID:        c.lastMarker,
		Symbol:    c.tables.Markers[c.rng.IntN(len(c.tables.Markers))],
		Position:  p,
		SpawnedAt: c.now(),
	}
	c.markers = append(c.markers, m)
	c.sched.Schedule(c.timings.MarkerLifetime, Task{Kind: TaskExpireMarker, MarkerID: m.ID})
}

func (c *Controller) removeMarker(id uint64) {
	for i, m := range c.markers {
		if m.ID == id {
			c.markers = append(c.markers[:i], c.markers[i+1:]...)
			return
		}
	}
}

func (c *Controller) burstPhaseOne() {
	if c.emitter == nil {
		return
	}
	c.emitter.Burst(Burst{
		Count:  120,
		Spread: 80,
		Angle:  90,
		Origin: Origin{X: 0.5, Y: 0.5},
		Colors: c.tables.ConfettiColors,
		Scalar: 1.2,
	})
}

func (c *Controller) burstPhaseTwo() {
	if c.emitter == nil {
		return
	}
	c.emitter.Burst(Burst{
		Count:  80,
		Spread: 60,
		Angle:  60,
		Origin: Origin{X: 0.3, Y: 0.4},
		Colors: c.tables.ConfettiColors,
		Scalar: 1,
	})
	c.emitter.Burst(Burst{
		Count:  80,
		Spread: 60,
		Angle:  120,
		Origin: Origin{X: 0.7, Y: 0.4},
		Colors: c.tables.ConfettiColors,
		Scalar: 1,
	})
}
