package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sayyes/internal/session"
)

// markerRise is how many rows a marker climbs over its lifetime.
const markerRise = 3

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return "loading..."
	}
	v := a.ctrl.Snapshot()
	fl := a.layout(v)

	c := newCanvas(fl.content.W, fl.content.H)
	for _, b := range fl.blocks {
		c.draw(b.text, b.rect.X, b.rect.Y)
	}
	a.drawConfetti(c)
	a.drawMarkers(c, v.Markers)

	return strings.Join([]string{c.String(), a.renderStatus(v), a.renderFooter(a.keys.footerBindings(v.Accepted))}, "\n")
}

func (a *App) drawConfetti(c *canvas) {
	for _, cell := range a.field.Cells() {
		st := lipgloss.NewStyle().Foreground(lipgloss.Color(cell.Color))
		if cell.Faded {
			st = st.Faint(true)
		}
		c.draw(st.Render(string(cell.Glyph)), cell.X, cell.Y)
	}
}

// drawMarkers draws each marker drifting upward from where it spawned; it
// fades during the second half of its lifetime.
func (a *App) drawMarkers(c *canvas, markers []session.Marker) {
	life := a.cfg.Timing.MarkerLifetime
	now := a.now()
	for _, m := range markers {
		progress := 0.0
		if life > 0 {
			progress = min(max(float64(now.Sub(m.SpawnedAt))/float64(life), 0), 1)
		}
		y := m.Position.Y - int(progress*markerRise)
		st := lipgloss.NewStyle()
		if progress >= 0.5 {
			st = st.Faint(true)
		}
		c.draw(st.Render(m.Symbol), m.Position.X, y)
	}
}

func (a *App) renderStatus(v session.View) string {
	text := a.status
	if text == "" {
		text = v.Phase.String()
	}
	st := a.st.statusInfo
	if !a.statusOK && a.status != "" {
		st = a.st.statusErr
	}
	return st.Render(fillTo(ellipsize(" "+text, a.width), a.width))
}

func (a *App) renderFooter(bindings []key.Binding) string {
	// Every character carries the footer background.
	bg := a.st.pal.Footer
	keyStyle := a.st.helpKey.Background(bg)
	descStyle := a.st.helpDesc.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	return a.st.footer.Width(a.width).MaxHeight(1).Render(strings.Join(parts, sep))
}
