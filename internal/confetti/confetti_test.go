package confetti

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/sayyes/internal/session"
)

var colors = []string{"#ff4d8d", "#ffd166"}

func newField() *Field {
	return New(100, 30, rand.New(rand.NewPCG(1, 2)))
}

func TestBurstSpawnsCount(t *testing.T) {
	f := newField()
	f.Burst(session.Burst{Count: 120, Spread: 80, Angle: 90, Origin: session.Origin{X: 0.5, Y: 0.5}, Colors: colors, Scalar: 1.2})
	require.Equal(t, 120, f.Len())
	require.True(t, f.Active())

	cells := f.Cells()
	require.Len(t, cells, 120)
	for _, c := range cells {
		require.Equal(t, 50, c.X)
		require.Equal(t, 15, c.Y)
		require.Contains(t, colors, c.Color)
		require.Contains(t, heavyGlyphs, c.Glyph)
	}
}

func TestBurstIgnoresEmptyInput(t *testing.T) {
	f := newField()
	f.Burst(session.Burst{Count: 0, Colors: colors})
	f.Burst(session.Burst{Count: 10})
	require.False(t, f.Active())
}

func TestUpwardBurstRisesFirst(t *testing.T) {
	f := newField()
	f.Burst(session.Burst{Count: 50, Spread: 10, Angle: 90, Origin: session.Origin{X: 0.5, Y: 0.8}, Colors: colors})
	for i := 0; i < 5; i++ {
		f.Step()
	}
	for _, c := range f.Cells() {
		require.Less(t, c.Y, 24, "particle did not rise: %+v", c)
	}
}

func TestAngledBurstsDrift(t *testing.T) {
	left := newField()
	left.Burst(session.Burst{Count: 30, Spread: 10, Angle: 60, Origin: session.Origin{X: 0.3, Y: 0.4}, Colors: colors})
	right := newField()
	right.Burst(session.Burst{Count: 30, Spread: 10, Angle: 120, Origin: session.Origin{X: 0.7, Y: 0.4}, Colors: colors})
	for i := 0; i < 5; i++ {
		left.Step()
		right.Step()
	}
	for _, c := range left.Cells() {
		require.GreaterOrEqual(t, c.X, 30)
	}
	for _, c := range right.Cells() {
		require.LessOrEqual(t, c.X, 70)
	}
}

func TestParticlesExpire(t *testing.T) {
	f := newField()
	f.Burst(session.Burst{Count: 40, Spread: 360, Angle: 90, Origin: session.Origin{X: 0.5, Y: 0.1}, Colors: colors})
	for i := 0; i < lifetimeTicks; i++ {
		f.Step()
	}
	require.False(t, f.Active())
	require.Empty(t, f.Cells())
}

func TestAdvanceConvertsWallTime(t *testing.T) {
	f := newField()
	f.Burst(session.Burst{Count: 1, Spread: 0, Angle: 90, Origin: session.Origin{X: 0.5, Y: 0.9}, Colors: colors})

	f.Advance(TickRate / 2)
	require.Zero(t, f.particles[0].tick)
	f.Advance(TickRate / 2)
	require.Equal(t, 1, f.particles[0].tick)
	f.Advance(10 * TickRate)
	require.Equal(t, 11, f.particles[0].tick)
}

func TestResizeAndClear(t *testing.T) {
	f := newField()
	f.Resize(40, 10)
	w, h := f.Size()
	require.Equal(t, 40, w)
	require.Equal(t, 10, h)

	f.Burst(session.Burst{Count: 5, Origin: session.Origin{X: 0.5, Y: 0.5}, Colors: colors})
	f.Advance(time.Millisecond)
	f.Clear()
	require.False(t, f.Active())
}
