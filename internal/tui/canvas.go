package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// canvas is a fixed-size grid of lines that blocks are composited onto.
type canvas struct {
	lines  []string
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	lines := make([]string, max(height, 0))
	blank := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = blank
	}
	return &canvas{lines: lines, width: width, height: height}
}

// draw composites block on top of the canvas with its top-left corner at the
// character position (x, y). Parts outside the canvas are dropped.
func (c *canvas) draw(block string, x, y int) {
	blockWidth := lipgloss.Width(block)
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= c.height {
			continue
		}
		line = fillTo(line, blockWidth)
		if x < 0 {
			line = ansi.TruncateLeft(line, -x, "")
		}
		col := max(x, 0)
		if col >= c.width {
			continue
		}
		line = ansi.Truncate(line, c.width-col, "")

		target := fillTo(c.lines[row], c.width)
		left := ansi.Truncate(target, col, "")
		if w := ansi.StringWidth(left); w < col {
			left += strings.Repeat(" ", col-w)
		}
		pos := col + ansi.StringWidth(line)
		right := ansi.TruncateLeft(target, pos, "")
		if gap := c.width - pos - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
		c.lines[row] = left + line + right
	}
}

func (c *canvas) String() string {
	return strings.Join(c.lines, "\n")
}

// fillTo right-pads s with spaces to width cells. Wider strings are
// returned unchanged.
func fillTo(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// ellipsize cuts s down to at most width cells, ending in "…" when anything
// was cut. A non-positive width yields "".
func ellipsize(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
