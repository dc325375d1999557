package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sayyes/internal/geom"
	"github.com/jask/sayyes/internal/session"
)

// chromeRows are the rows below the content area: status line and help.
const chromeRows = 2

// popInFrames is how many frames the accepted card takes to reach full size.
const popInFrames = 8

// block is a rendered piece of the screen and where it sits.
type block struct {
	text string
	rect geom.Rect
}

func newBlock(text string, x, y int) block {
	return block{text: text, rect: geom.Rect{X: x, Y: y, W: lipgloss.Width(text), H: lipgloss.Height(text)}}
}

// frameLayout is the geometry of one frame. Rects are in screen cells.
type frameLayout struct {
	content geom.Rect
	blocks  []block
	accept  geom.Rect
	decline geom.Rect
	inline  bool
}

// contentRect is the area the prompt and the roaming decline button live in.
func (a *App) contentRect() geom.Rect {
	return geom.Rect{W: max(a.width, 0), H: max(a.height-chromeRows, 0)}
}

// DeclineBounds reports the container and the decline button size for label.
func (a *App) DeclineBounds(label string) (geom.Rect, geom.Size) {
	btn := a.st.decline.Render(label)
	return a.contentRect(), geom.Size{W: lipgloss.Width(btn), H: lipgloss.Height(btn)}
}

// renderAccept draws the accept button. Scale widens the horizontal padding;
// font size adds letter spacing and, near the cap, vertical padding.
func (a *App) renderAccept(v session.View, focused bool) string {
	em := a.tables.Emphasis
	steps := 0
	if em.FontStep > 0 {
		steps = int((v.AcceptFontSize - em.FontBase) / (em.FontStep * 3))
	}
	spacing := min(steps, 2)
	vpad := 0
	if em.FontCap > em.FontBase && v.AcceptFontSize >= em.FontCap {
		vpad = 1
	}
	label := spaceLetters(a.tables.AcceptLabel, spacing)
	hpad := int(math.Round(2 * v.AcceptScale))
	if limit := (a.width - lipgloss.Width(label) - 2) / 2; hpad > limit {
		hpad = max(limit, 1)
	}
	st := a.st.accept.Padding(vpad, hpad)
	if focused {
		st = st.BorderForeground(a.st.pal.Focus)
	}
	if v.Declines > 0 {
		st = st.Foreground(a.st.pal.Emphasis)
	}
	return st.Render(label)
}

func (a *App) renderDecline(label string, focused bool) string {
	st := a.st.decline
	if focused {
		st = st.BorderForeground(a.st.pal.Focus)
	}
	return st.Render(label)
}

// layout places every element of the prompt for the given view.
func (a *App) layout(v session.View) frameLayout {
	fl := frameLayout{content: a.contentRect()}
	if v.Accepted {
		card := a.renderAcceptedCard()
		w, h := lipgloss.Width(card), lipgloss.Height(card)
		fl.blocks = append(fl.blocks, newBlock(card, (fl.content.W-w)/2, (fl.content.H-h)/2))
		return fl
	}

	width := max(fl.content.W-2, 1)
	rows := []string{
		a.st.mascot.Render(a.tables.Mascot),
		"",
		a.st.title.Render(ellipsize(a.tables.TitleFor(a.cfg.UI.Recipient), width)),
		"",
		a.st.subtext.Render(ellipsize(v.Subtext, width)),
		"",
	}
	accept := a.renderAccept(v, a.focus == focusAccept)
	fl.inline = !v.HasPos
	var decline string
	buttonsW := lipgloss.Width(accept)
	if fl.inline {
		decline = a.renderDecline(v.Label, a.focus == focusDecline)
		buttonsW += buttonGap + lipgloss.Width(decline)
	}
	buttonsH := max(lipgloss.Height(accept), lipgloss.Height(decline))

	cardW := buttonsW
	for _, r := range rows {
		cardW = max(cardW, lipgloss.Width(r))
	}
	cardH := len(rows) + buttonsH
	x0 := (fl.content.W - cardW) / 2
	y0 := (fl.content.H - cardH) / 2

	for i, r := range rows {
		if r == "" {
			continue
		}
		w := lipgloss.Width(r)
		fl.blocks = append(fl.blocks, newBlock(r, x0+(cardW-w)/2, y0+i))
	}

	bx := x0 + (cardW-buttonsW)/2
	by := y0 + len(rows)
	acc := newBlock(accept, bx, by+(buttonsH-lipgloss.Height(accept))/2)
	fl.blocks = append(fl.blocks, acc)
	fl.accept = acc.rect

	if fl.inline {
		dec := newBlock(decline, acc.rect.X+acc.rect.W+buttonGap, by+(buttonsH-lipgloss.Height(decline))/2)
		fl.blocks = append(fl.blocks, dec)
		fl.decline = dec.rect
		return fl
	}

	decline = a.renderDecline(v.Label, a.focus == focusDecline)
	_, size := a.DeclineBounds(v.Label)
	pos := clampInto(v.DeclinePos, size, fl.content)
	if v.Wiggle {
		pos.X += a.wiggleOffset()
	}
	dec := newBlock(decline, pos.X, pos.Y)
	fl.blocks = append(fl.blocks, dec)
	fl.decline = dec.rect
	return fl
}

const buttonGap = 2

func (a *App) renderAcceptedCard() string {
	acc := a.tables.Accepted
	inner := lipgloss.JoinVertical(lipgloss.Center,
		acc.Mascot,
		"",
		a.st.heading.Render(acc.Heading),
		"",
		a.st.body.Render(acc.Body),
	)
	grow := min(a.popFrame, popInFrames)
	hpad := grow * 4 / popInFrames
	vpad := grow / popInFrames
	return a.st.card.Padding(vpad, hpad).Render(inner)
}

// wiggleOffset alternates the decline button one column left and right.
func (a *App) wiggleOffset() int {
	if (a.frame/2)%2 == 0 {
		return 1
	}
	return -1
}

// clampInto keeps a control of size s inside r, e.g. after a resize.
func clampInto(p geom.Point, s geom.Size, r geom.Rect) geom.Point {
	p.X = max(min(p.X, r.X+r.W-s.W), r.X)
	p.Y = max(min(p.Y, r.Y+r.H-s.H), r.Y)
	return p
}

// spaceLetters puts n spaces between the runes of s.
func spaceLetters(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return strings.Join(parts, strings.Repeat(" ", n))
}
