// Package content holds the words, palettes and emphasis curve shown by the
// prompt. Everything here is data: the defaults are embedded and a TOML file
// can replace any table.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed defaults.toml
var defaultsTOML string

// ErrInvalid marks content that cannot drive the prompt.
var ErrInvalid = errors.New("invalid content")

// Tier is one escalation step of the subtext table. A tier applies while the
// decline count is below Below; Below == 0 matches any count.
type Tier struct {
	Below int    `toml:"below"`
	Text  string `toml:"text"`
}

// Accepted is the confirmation card.
type Accepted struct {
	Mascot  string `toml:"mascot"`
	Heading string `toml:"heading"`
	Body    string `toml:"body"`
}

// Emphasis drives how much the accept button grows per decline.
type Emphasis struct {
	ScaleStep float64 `toml:"scale_step"`
	FontBase  float64 `toml:"font_base"`
	FontStep  float64 `toml:"font_step"`
	FontCap   float64 `toml:"font_cap"`
}

// Tables is the full content set.
type Tables struct {
	Title          string   `toml:"title"`
	Mascot         string   `toml:"mascot"`
	AcceptLabel    string   `toml:"accept_label"`
	DeclineLabels  []string `toml:"decline_labels"`
	Subtexts       []Tier   `toml:"subtexts"`
	Markers        []string `toml:"markers"`
	ConfettiColors []string `toml:"confetti_colors"`
	Accepted       Accepted `toml:"accepted"`
	Emphasis       Emphasis `toml:"emphasis"`
}

// Default returns the embedded tables.
func Default() *Tables {
	t, err := Parse(defaultsTOML)
	if err != nil {
		panic(fmt.Sprintf("content: embedded defaults: %v", err))
	}
	return t
}

// Parse decodes a full TOML document on top of nothing.
func Parse(doc string) (*Tables, error) {
	var t Tables
	md, err := toml.Decode(doc, &t)
	if err != nil {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads path over the embedded defaults: keys present in the file
// replace the default ones, the rest are kept.
func LoadFile(path string) (*Tables, error) {
	t := Default()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	var over Tables
	md, err := toml.DecodeFile(path, &over)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.merge(md, &over)
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (t *Tables) merge(md toml.MetaData, o *Tables) {
	set := func(dst *string, src string, key ...string) {
		if md.IsDefined(key...) {
			*dst = src
		}
	}
	setF := func(dst *float64, src float64, key ...string) {
		if md.IsDefined(key...) {
			*dst = src
		}
	}
	set(&t.Title, o.Title, "title")
	set(&t.Mascot, o.Mascot, "mascot")
	set(&t.AcceptLabel, o.AcceptLabel, "accept_label")
	set(&t.Accepted.Mascot, o.Accepted.Mascot, "accepted", "mascot")
	set(&t.Accepted.Heading, o.Accepted.Heading, "accepted", "heading")
	set(&t.Accepted.Body, o.Accepted.Body, "accepted", "body")
	setF(&t.Emphasis.ScaleStep, o.Emphasis.ScaleStep, "emphasis", "scale_step")
	setF(&t.Emphasis.FontBase, o.Emphasis.FontBase, "emphasis", "font_base")
	setF(&t.Emphasis.FontStep, o.Emphasis.FontStep, "emphasis", "font_step")
	setF(&t.Emphasis.FontCap, o.Emphasis.FontCap, "emphasis", "font_cap")
	if md.IsDefined("decline_labels") {
		t.DeclineLabels = o.DeclineLabels
	}
	if md.IsDefined("subtexts") {
		t.Subtexts = o.Subtexts
	}
	if md.IsDefined("markers") {
		t.Markers = o.Markers
	}
	if md.IsDefined("confetti_colors") {
		t.ConfettiColors = o.ConfettiColors
	}
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	return fmt.Errorf("content: unknown keys %s: %w", strings.Join(names, ", "), ErrInvalid)
}

// Validate checks the invariants the prompt relies on.
func (t *Tables) Validate() error {
	if len(t.DeclineLabels) < 2 {
		return fmt.Errorf("content: decline_labels needs at least 2 entries, got %d: %w", len(t.DeclineLabels), ErrInvalid)
	}
	if len(t.Markers) == 0 {
		return fmt.Errorf("content: markers is empty: %w", ErrInvalid)
	}
	if len(t.ConfettiColors) == 0 {
		return fmt.Errorf("content: confetti_colors is empty: %w", ErrInvalid)
	}
	for _, c := range t.ConfettiColors {
		if !isHexColor(c) {
			return fmt.Errorf("content: confetti color %q is not #rrggbb: %w", c, ErrInvalid)
		}
	}
	if len(t.Subtexts) == 0 {
		return fmt.Errorf("content: subtexts is empty: %w", ErrInvalid)
	}
	prev := 0
	for i, tier := range t.Subtexts {
		last := i == len(t.Subtexts)-1
		if tier.Below == 0 {
			if !last {
				return fmt.Errorf("content: subtext tier %d has below = 0 but is not last: %w", i, ErrInvalid)
			}
			continue
		}
		if tier.Below <= prev {
			return fmt.Errorf("content: subtext tiers must increase (tier %d below = %d): %w", i, tier.Below, ErrInvalid)
		}
		prev = tier.Below
	}
	if t.Subtexts[len(t.Subtexts)-1].Below != 0 {
		return fmt.Errorf("content: last subtext tier must have below = 0: %w", ErrInvalid)
	}
	e := t.Emphasis
	if e.ScaleStep < 0 || e.FontStep < 0 {
		return fmt.Errorf("content: emphasis steps must not be negative: %w", ErrInvalid)
	}
	if e.FontCap < e.FontBase {
		return fmt.Errorf("content: emphasis font_cap %.2f below font_base %.2f: %w", e.FontCap, e.FontBase, ErrInvalid)
	}
	return nil
}

// TitleFor fills the recipient into the title.
func (t *Tables) TitleFor(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "friend"
	}
	return strings.ReplaceAll(t.Title, "{name}", name)
}

// Label is the decline button text after count declines. The first label is
// only ever shown before the first decline; after that the rest cycle.
func (t *Tables) Label(count int) string {
	if count <= 0 {
		return t.DeclineLabels[0]
	}
	n := len(t.DeclineLabels) - 1
	return t.DeclineLabels[1+(count-1)%n]
}

// Subtext is the line under the title, empty before the first decline.
func (t *Tables) Subtext(count int) string {
	if count <= 0 {
		return ""
	}
	for _, tier := range t.Subtexts {
		if tier.Below == 0 || count < tier.Below {
			return tier.Text
		}
	}
	return ""
}

// Scale is the accept button's growth factor. It is unbounded.
func (t *Tables) Scale(count int) float64 {
	if count < 0 {
		count = 0
	}
	return 1 + float64(count)*t.Emphasis.ScaleStep
}

// FontSize is the accept label's relative size, capped at FontCap.
func (t *Tables) FontSize(count int) float64 {
	if count < 0 {
		count = 0
	}
	return math.Min(t.Emphasis.FontBase+float64(count)*t.Emphasis.FontStep, t.Emphasis.FontCap)
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
