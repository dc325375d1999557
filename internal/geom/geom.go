// Package geom holds the small value types used to describe terminal
// geometry. All coordinates are in cells with the origin at the top-left.
package geom

// Point is a cell position.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is a width and height in cells.
type Size struct {
	W int
	H int
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Center returns the center cell relative to the rectangle's own origin.
func (r Rect) Center() Point {
	return Point{X: r.W / 2, Y: r.H / 2}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }
