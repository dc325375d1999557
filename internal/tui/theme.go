package tui

import "github.com/charmbracelet/lipgloss"

// palette is the set of semantic colors a theme provides.
type palette struct {
	Text     lipgloss.Color
	Subtext  lipgloss.Color
	Accent   lipgloss.Color
	Decline  lipgloss.Color
	Focus    lipgloss.Color
	Border   lipgloss.Color
	Dim      lipgloss.Color
	Footer   lipgloss.Color
	Success  lipgloss.Color
	Error    lipgloss.Color
	Emphasis lipgloss.Color
}

// ---------------------------------------------------------------------------
// Catppuccin palettes, true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

var mocha = palette{
	Text:     "#cdd6f4",
	Subtext:  "#a6adc8",
	Accent:   "#a6e3a1",
	Decline:  "#f38ba8",
	Focus:    "#b4befe",
	Border:   "#585b70",
	Dim:      "#6c7086",
	Footer:   "#181825",
	Success:  "#f5c2e7",
	Error:    "#f38ba8",
	Emphasis: "#f9e2af",
}

var latte = palette{
	Text:     "#4c4f69",
	Subtext:  "#6c6f85",
	Accent:   "#40a02b",
	Decline:  "#d20f39",
	Focus:    "#7287fd",
	Border:   "#acb0be",
	Dim:      "#9ca0b0",
	Footer:   "#e6e9ef",
	Success:  "#ea76cb",
	Error:    "#d20f39",
	Emphasis: "#df8e1d",
}

// rose is the default: pink-forward, on the Mocha neutrals.
var rose = palette{
	Text:     "#f5e0dc",
	Subtext:  "#f2cdcd",
	Accent:   "#ff4d8d",
	Decline:  "#9399b2",
	Focus:    "#ffd166",
	Border:   "#eba0ac",
	Dim:      "#7f849c",
	Footer:   "#181825",
	Success:  "#ff85a1",
	Error:    "#f38ba8",
	Emphasis: "#ffd166",
}

func paletteFor(name string) palette {
	switch name {
	case "mocha":
		return mocha
	case "latte":
		return latte
	default:
		return rose
	}
}

// styles are built once per theme.
type styles struct {
	pal        palette
	mascot     lipgloss.Style
	title      lipgloss.Style
	subtext    lipgloss.Style
	accept     lipgloss.Style
	decline    lipgloss.Style
	heading    lipgloss.Style
	body       lipgloss.Style
	card       lipgloss.Style
	footer     lipgloss.Style
	helpKey    lipgloss.Style
	helpDesc   lipgloss.Style
	statusInfo lipgloss.Style
	statusErr  lipgloss.Style
}

func newStyles(p palette) styles {
	return styles{
		pal:     p,
		mascot:  lipgloss.NewStyle(),
		title:   lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		subtext: lipgloss.NewStyle().Foreground(p.Subtext).Italic(true),
		accept: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent),
		decline: lipgloss.NewStyle().
			Foreground(p.Decline).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Decline).
			Padding(0, 1),
		heading:    lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		body:       lipgloss.NewStyle().Foreground(p.Text),
		card:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Success),
		footer:     lipgloss.NewStyle().Background(p.Footer).Foreground(p.Subtext),
		helpKey:    lipgloss.NewStyle().Foreground(p.Focus).Bold(true),
		helpDesc:   lipgloss.NewStyle().Foreground(p.Dim),
		statusInfo: lipgloss.NewStyle().Foreground(p.Subtext),
		statusErr:  lipgloss.NewStyle().Foreground(p.Error),
	}
}
