// Package placement picks where the decline button jumps to.
//
// Candidates are drawn uniformly from the region where the button stays fully
// inside the padded container, and rejected while they fall inside an
// exclusion zone around the container center. Sampling is bounded: a region
// that is entirely excluded, or a run of MaxAttempts rejections, yields a
// deterministic corner instead.
package placement

import (
	"math/rand/v2"

	"github.com/jask/sayyes/internal/geom"
)

// DefaultMaxAttempts bounds the rejection loop.
const DefaultMaxAttempts = 1000

// Zone is the half extent of the exclusion area around the container center.
type Zone struct {
	HalfWidth  int
	HalfHeight int
}

// SquareZone returns a zone with equal half extents.
func SquareZone(half int) Zone {
	return Zone{HalfWidth: half, HalfHeight: half}
}

// Contains reports whether the offset (dx, dy) from the center is excluded.
func (z Zone) Contains(dx, dy int) bool {
	return abs(dx) < z.HalfWidth && abs(dy) < z.HalfHeight
}

// Options tunes Place.
type Options struct {
	Padding     int
	Zone        Zone
	MaxAttempts int
}

// DefaultOptions are sized for a terminal: cells are roughly twice as tall as
// they are wide, so the zone is twice as wide as it is tall.
func DefaultOptions() Options {
	return Options{
		Padding:     1,
		Zone:        Zone{HalfWidth: 16, HalfHeight: 8},
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Bounds is the inclusive range of top-left coordinates, relative to the
// container origin, that keep a control inside the padded container.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Reachable computes the candidate range for a control inside a container.
// A range that would be inverted collapses onto its minimum.
func Reachable(container geom.Size, control geom.Size, padding int) Bounds {
	b := Bounds{
		MinX: padding,
		MaxX: container.W - control.W - padding,
		MinY: padding,
		MaxY: container.H - control.H - padding,
	}
	if b.MaxX < b.MinX {
		b.MaxX = b.MinX
	}
	if b.MaxY < b.MinY {
		b.MaxY = b.MinY
	}
	return b
}

// corners lists the range corners in fallback preference order.
func (b Bounds) corners() [4]geom.Point {
	return [4]geom.Point{
		{X: b.MinX, Y: b.MinY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MinX, Y: b.MaxY},
		{X: b.MaxX, Y: b.MaxY},
	}
}

// Place returns a new top-left position for the control in absolute
// coordinates (offset by the container origin). The boolean is false when the
// position is the deterministic fallback rather than a sampled candidate.
func Place(container geom.Rect, control geom.Size, opts Options, rng *rand.Rand) (geom.Point, bool) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	b := Reachable(container.Size(), control, opts.Padding)
	center := container.Center()
	excluded := func(p geom.Point) bool {
		return opts.Zone.Contains(p.X-center.X, p.Y-center.Y)
	}

	// The zone and the range are both axis-aligned boxes, so if every corner is
	// excluded the whole range is.
	corners := b.corners()
	open := false
	for _, c := range corners {
		if !excluded(c) {
			open = true
			break
		}
	}

	if open {
		for range opts.MaxAttempts {
			p := geom.Point{
				X: b.MinX + rng.IntN(b.MaxX-b.MinX+1),
				Y: b.MinY + rng.IntN(b.MaxY-b.MinY+1),
			}
			if !excluded(p) {
				return p.Add(container.Origin()), true
			}
		}
	}

	return Fallback(b, excluded).Add(container.Origin()), false
}

// Fallback returns the first corner of b outside the exclusion predicate, or
// the top-left corner when none is.
func Fallback(b Bounds, excluded func(geom.Point) bool) geom.Point {
	corners := b.corners()
	for _, c := range corners {
		if !excluded(c) {
			return c
		}
	}
	return corners[0]
}

// Valid reports whether p (absolute) is a position Place could have sampled.
func Valid(container geom.Rect, control geom.Size, opts Options, p geom.Point) bool {
	b := Reachable(container.Size(), control, opts.Padding)
	rel := geom.Point{X: p.X - container.X, Y: p.Y - container.Y}
	if rel.X < b.MinX || rel.X > b.MaxX || rel.Y < b.MinY || rel.Y > b.MaxY {
		return false
	}
	c := container.Center()
	return !opts.Zone.Contains(rel.X-c.X, rel.Y-c.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
