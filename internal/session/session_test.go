package session

import (
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/jask/sayyes/internal/content"
	"github.com/jask/sayyes/internal/geom"
	"github.com/jask/sayyes/internal/placement"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type scheduled struct {
	at   time.Duration
	seq  int
	task Task
}

// manualScheduler keeps tasks on a virtual timeline until advance runs them.
type manualScheduler struct {
	now     time.Duration
	seq     int
	pending []scheduled
}

func (s *manualScheduler) Schedule(after time.Duration, task Task) {
	s.seq++
	s.pending = append(s.pending, scheduled{at: s.now + after, seq: s.seq, task: task})
}

func (s *manualScheduler) advance(d time.Duration, c *Controller) {
	target := s.now + d
	for {
		sort.SliceStable(s.pending, func(i, j int) bool {
			if s.pending[i].at == s.pending[j].at {
				return s.pending[i].seq < s.pending[j].seq
			}
			return s.pending[i].at < s.pending[j].at
		})
		if len(s.pending) == 0 || s.pending[0].at > target {
			break
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.now = next.at
		c.Run(next.task)
	}
	s.now = target
}

type fixedLayout struct {
	container geom.Rect
}

func (l fixedLayout) DeclineBounds(label string) (geom.Rect, geom.Size) {
	return l.container, geom.Size{W: len([]rune(label)) + 4, H: 3}
}

type burstLog struct {
	at     []time.Duration
	bursts []Burst
	sched  *manualScheduler
}

func (b *burstLog) Burst(burst Burst) {
	b.at = append(b.at, b.sched.now)
	b.bursts = append(b.bursts, burst)
}

type harness struct {
	c      *Controller
	sched  *manualScheduler
	bursts *burstLog
	layout fixedLayout
}

func newHarness(t *testing.T, seed uint64) *harness {
	t.Helper()
	sched := &manualScheduler{}
	bursts := &burstLog{sched: sched}
	layout := fixedLayout{container: geom.Rect{X: 0, Y: 0, W: 120, H: 40}}
	start := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	c := New(content.Default(), layout, sched, bursts,
		WithRand(rand.New(rand.NewPCG(seed, seed+1))),
		WithClock(func() time.Time { return start.Add(sched.now) }),
	)
	return &harness{c: c, sched: sched, bursts: bursts, layout: layout}
}

func (h *harness) positionValid(t *testing.T, v View) {
	t.Helper()
	container, control := h.layout.DeclineBounds(v.Label)
	require.True(t, placement.Valid(container, control, placement.DefaultOptions(), v.DeclinePos),
		"position %+v for label %q", v.DeclinePos, v.Label)
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func TestInitialState(t *testing.T) {
	h := newHarness(t, 1)
	v := h.c.Snapshot()
	require.Equal(t, PhaseIdle, v.Phase)
	require.Zero(t, v.Declines)
	require.False(t, v.Accepted)
	require.False(t, v.HasPos)
	require.False(t, v.Wiggle)
	require.Empty(t, v.Markers)
	require.Equal(t, "No", v.Label)
	require.Empty(t, v.Subtext)
	require.InDelta(t, 1.0, v.AcceptScale, 1e-9)
	require.False(t, v.PopIn)
}

func TestEndToEnd(t *testing.T) {
	h := newHarness(t, 42)

	require.True(t, h.c.ActivateDecline())
	v := h.c.Snapshot()
	require.Equal(t, 1, v.Declines)
	require.True(t, v.HasPos)
	require.True(t, v.Wiggle)
	require.Equal(t, PhaseEvading, v.Phase)
	require.Equal(t, "Are you sure?", v.Label)
	require.Equal(t, "I'm just asking nicely! 🙏", v.Subtext)
	h.positionValid(t, v)

	h.sched.advance(399*time.Millisecond, h.c)
	require.True(t, h.c.Snapshot().Wiggle)
	h.sched.advance(time.Millisecond, h.c)
	require.False(t, h.c.Snapshot().Wiggle)

	require.True(t, h.c.ActivateDecline())
	v = h.c.Snapshot()
	require.Equal(t, 2, v.Declines)
	require.True(t, v.HasPos)
	h.positionValid(t, v)

	require.True(t, h.c.ActivateAccept(geom.Point{X: 10, Y: 10}))
	v = h.c.Snapshot()
	require.True(t, v.Accepted)
	require.True(t, v.PopIn)
	require.Equal(t, PhaseAccepted, v.Phase)
	require.Len(t, v.Markers, 1)
	require.Equal(t, geom.Point{X: 10, Y: 10}, v.Markers[0].Position)
	require.Contains(t, content.Default().Markers, v.Markers[0].Symbol)

	// Phase one fires immediately and centered.
	require.Len(t, h.bursts.bursts, 1)
	first := h.bursts.bursts[0]
	require.Equal(t, 120, first.Count)
	require.Equal(t, Origin{X: 0.5, Y: 0.5}, first.Origin)
	require.Equal(t, content.Default().ConfettiColors, first.Colors)

	// Phase two fires 300ms later as two mirrored bursts.
	h.sched.advance(299*time.Millisecond, h.c)
	require.Len(t, h.bursts.bursts, 1)
	h.sched.advance(time.Millisecond, h.c)
	require.Len(t, h.bursts.bursts, 3)
	left, right := h.bursts.bursts[1], h.bursts.bursts[2]
	require.Equal(t, 300*time.Millisecond, h.bursts.at[1]-h.bursts.at[0])
	require.InDelta(t, 60.0, left.Angle, 1e-9)
	require.InDelta(t, 120.0, right.Angle, 1e-9)
	require.InDelta(t, 1.0, left.Origin.X+right.Origin.X, 1e-9)
	require.Equal(t, left.Origin.Y, right.Origin.Y)
}

func TestHoverBeforeFirstDeclineDoesNothing(t *testing.T) {
	h := newHarness(t, 2)
	require.False(t, h.c.HoverDecline())
	v := h.c.Snapshot()
	require.False(t, v.HasPos)
	require.Zero(t, v.Declines)
	require.Empty(t, h.sched.pending)
}

func TestHoverMovesWithoutCounting(t *testing.T) {
	h := newHarness(t, 3)
	h.c.ActivateDecline()
	seen := map[geom.Point]bool{h.c.Snapshot().DeclinePos: true}
	for i := 0; i < 20; i++ {
		require.True(t, h.c.HoverDecline())
		v := h.c.Snapshot()
		require.Equal(t, 1, v.Declines)
		h.positionValid(t, v)
		seen[v.DeclinePos] = true
	}
	require.Greater(t, len(seen), 1, "hovering never moved the button")
}

func TestStaleWiggleTimerDoesNotClearNewerWiggle(t *testing.T) {
	h := newHarness(t, 4)
	h.c.ActivateDecline()
	h.sched.advance(200*time.Millisecond, h.c)
	h.c.ActivateDecline()

	h.sched.advance(200*time.Millisecond, h.c) // first timer fires at 400ms
	require.True(t, h.c.Snapshot().Wiggle)

	h.sched.advance(200*time.Millisecond, h.c) // second timer fires at 600ms
	require.False(t, h.c.Snapshot().Wiggle)
}

func TestMarkerExpiresAfterLifetime(t *testing.T) {
	h := newHarness(t, 5)
	h.c.ActivateAccept(geom.Point{X: 3, Y: 4})
	id := h.c.Snapshot().Markers[0].ID

	h.sched.advance(999*time.Millisecond, h.c)
	require.Len(t, h.c.Snapshot().Markers, 1)

	h.sched.advance(time.Millisecond, h.c)
	require.Empty(t, h.c.Snapshot().Markers)

	// A late duplicate expiry is harmless.
	h.c.Run(Task{Kind: TaskExpireMarker, MarkerID: id})
	require.Empty(t, h.c.Snapshot().Markers)
}

func TestMarkerExpiryOnlyTouchesItsOwnMarker(t *testing.T) {
	h := newHarness(t, 6)
	h.c.ActivateAccept(geom.Point{X: 1, Y: 1})
	id := h.c.Snapshot().Markers[0].ID

	h.c.Run(Task{Kind: TaskExpireMarker, MarkerID: id + 1})
	require.Len(t, h.c.Snapshot().Markers, 1)
}

func TestSnapshotMarkersAreACopy(t *testing.T) {
	h := newHarness(t, 7)
	h.c.ActivateAccept(geom.Point{X: 1, Y: 1})
	v := h.c.Snapshot()
	v.Markers[0].Symbol = "x"
	require.NotEqual(t, "x", h.c.Snapshot().Markers[0].Symbol)
}

func TestAcceptIsOneWay(t *testing.T) {
	h := newHarness(t, 8)
	h.c.ActivateDecline()
	require.True(t, h.c.ActivateAccept(geom.Point{X: 2, Y: 2}))
	require.False(t, h.c.ActivateAccept(geom.Point{X: 9, Y: 9}))
	require.False(t, h.c.ActivateDecline())
	require.False(t, h.c.HoverDecline())

	v := h.c.Snapshot()
	require.True(t, v.Accepted)
	require.Equal(t, 1, v.Declines)
	require.Len(t, v.Markers, 1)
	require.Len(t, h.bursts.bursts, 1)

	// In-flight timers from before the acceptance stay harmless.
	h.sched.advance(2*time.Second, h.c)
	v = h.c.Snapshot()
	require.True(t, v.Accepted)
	require.False(t, v.Wiggle)
	require.Empty(t, v.Markers)
}

func TestAcceptFromIdle(t *testing.T) {
	h := newHarness(t, 9)
	require.True(t, h.c.ActivateAccept(geom.Point{}))
	require.Equal(t, PhaseAccepted, h.c.Phase())
	require.False(t, h.c.Snapshot().HasPos)
}

func TestPlacementFallbackOnTinyContainer(t *testing.T) {
	sched := &manualScheduler{}
	layout := fixedLayout{container: geom.Rect{W: 12, H: 5}}
	c := New(content.Default(), layout, sched, nil,
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithPlacement(placement.Options{Padding: 1, Zone: placement.SquareZone(80), MaxAttempts: 5}),
	)
	require.True(t, c.ActivateDecline())
	v := c.Snapshot()
	require.True(t, v.HasPos)
	require.Equal(t, geom.Point{X: 1, Y: 1}, v.DeclinePos)
}

func TestNilEmitterIsAllowed(t *testing.T) {
	sched := &manualScheduler{}
	c := New(content.Default(), fixedLayout{container: geom.Rect{W: 80, H: 24}}, sched, nil)
	require.True(t, c.ActivateAccept(geom.Point{}))
	sched.advance(time.Second, c)
}

func TestCustomTimings(t *testing.T) {
	sched := &manualScheduler{}
	c := New(content.Default(), fixedLayout{container: geom.Rect{W: 80, H: 24}}, sched, nil,
		WithTimings(Timings{Wiggle: 50 * time.Millisecond, MarkerLifetime: 80 * time.Millisecond, BurstDelay: 10 * time.Millisecond}),
	)
	c.ActivateDecline()
	sched.advance(50*time.Millisecond, c)
	require.False(t, c.Snapshot().Wiggle)
}

func TestPhaseString(t *testing.T) {
	require.Equal(t, "idle", PhaseIdle.String())
	require.Equal(t, "evading", PhaseEvading.String())
	require.Equal(t, "accepted", PhaseAccepted.String())
	require.Equal(t, "burst(phase=2)", Task{Kind: TaskBurst, Phase: 2}.String())
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

func TestDeclineProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("N declines count exactly N and always leave a valid position", prop.ForAll(
		func(n int, seed uint64) bool {
			sched := &manualScheduler{}
			layout := fixedLayout{container: geom.Rect{X: 0, Y: 1, W: 100, H: 30}}
			c := New(content.Default(), layout, sched, nil, WithRand(rand.New(rand.NewPCG(seed, 7))))
			for i := 0; i < n; i++ {
				c.ActivateDecline()
				if i%3 == 0 {
					c.HoverDecline()
				}
				v := c.Snapshot()
				container, control := layout.DeclineBounds(v.Label)
				if !v.HasPos || !placement.Valid(container, control, placement.DefaultOptions(), v.DeclinePos) {
					return false
				}
			}
			return c.Declines() == n
		},
		gen.IntRange(1, 40),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
