package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRect(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 10, H: 4}
	require.Equal(t, Point{X: 2, Y: 3}, r.Origin())
	require.Equal(t, Size{W: 10, H: 4}, r.Size())
	require.Equal(t, Point{X: 5, Y: 2}, r.Center())
	require.Equal(t, Point{X: 7, Y: 5}, r.Origin().Add(r.Center()))

	require.True(t, r.Contains(Point{X: 2, Y: 3}))
	require.True(t, r.Contains(Point{X: 11, Y: 6}))
	require.False(t, r.Contains(Point{X: 12, Y: 6}))
	require.False(t, r.Contains(Point{X: 11, Y: 7}))
	require.False(t, r.Contains(Point{X: 1, Y: 3}))

	require.False(t, r.Empty())
	require.True(t, Rect{W: 0, H: 5}.Empty())
	require.False(t, Rect{}.Contains(Point{}))
}
