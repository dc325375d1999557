// Package confetti is a small particle system that draws confetti bursts in a
// grid of terminal cells.
//
// The physics follow the usual canvas confetti model in pixel space (start
// velocity, per-tick decay, constant gravity, a fixed lifetime in ticks at
// 60 Hz) and are projected onto cells at the end, so bursts keep their shape
// regardless of terminal size.
package confetti

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/jask/sayyes/internal/session"
)

const (
	// TickRate is the physics rate; Advance converts wall time to ticks.
	TickRate = time.Second / 60

	startVelocity = 45.0
	decay         = 0.9
	gravity       = 3.0
	lifetimeTicks = 200

	// Rough pixel size of a terminal cell.
	cellPxW = 10.0
	cellPxH = 20.0
)

var (
	glyphs      = []rune{'▪', '▫', '◆', '●', '▴', '✦', '❖', '■'}
	heavyGlyphs = []rune{'█', '■', '◆', '●'}
)

// Cell is one drawable particle.
type Cell struct {
	X     int
	Y     int
	Glyph rune
	Color string
	Faded bool
}

type particle struct {
	x, y     float64 // pixels
	angle    float64 // radians, screen space (y grows downward)
	velocity float64
	tick     int
	glyph    rune
	color    string
}

// Field holds live particles for a w×h cell area. The zero value is not
// usable; call New.
type Field struct {
	w, h      int
	rng       *rand.Rand
	particles []particle
	carry     time.Duration
}

var _ session.Emitter = (*Field)(nil)

// New returns an empty field.
func New(w, h int, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Field{w: w, h: h, rng: rng}
}

// Resize changes the drawable area. Live particles keep their pixel position.
func (f *Field) Resize(w, h int) {
	f.w, f.h = w, h
}

// Size returns the field size in cells.
func (f *Field) Size() (int, int) { return f.w, f.h }

// Burst spawns b.Count particles at b.Origin.
func (f *Field) Burst(b session.Burst) {
	if b.Count <= 0 || len(b.Colors) == 0 {
		return
	}
	scalar := b.Scalar
	if scalar <= 0 {
		scalar = 1
	}
	set := glyphs
	if scalar > 1 {
		set = heavyGlyphs
	}
	ox := b.Origin.X * float64(f.w) * cellPxW
	oy := b.Origin.Y * float64(f.h) * cellPxH
	base := -b.Angle * math.Pi / 180
	spread := b.Spread * math.Pi / 180
	for i := 0; i < b.Count; i++ {
		f.particles = append(f.particles, particle{
			x:        ox,
			y:        oy,
			angle:    base + (0.5*spread - f.rng.Float64()*spread),
			velocity: startVelocity*0.5 + f.rng.Float64()*startVelocity,
			glyph:    set[f.rng.IntN(len(set))],
			color:    b.Colors[f.rng.IntN(len(b.Colors))],
		})
	}
}

// Advance runs as many physics ticks as fit in d, carrying the remainder.
func (f *Field) Advance(d time.Duration) {
	f.carry += d
	for f.carry >= TickRate {
		f.carry -= TickRate
		f.Step()
	}
}

// Step runs one physics tick and drops expired or fallen particles.
func (f *Field) Step() {
	maxY := float64(f.h+1) * cellPxH
	live := f.particles[:0]
	for _, p := range f.particles {
		p.x += math.Cos(p.angle) * p.velocity
		p.y += math.Sin(p.angle)*p.velocity + gravity
		p.velocity *= decay
		p.tick++
		if p.tick >= lifetimeTicks || p.y > maxY {
			continue
		}
		live = append(live, p)
	}
	f.particles = live
	if len(f.particles) == 0 {
		f.carry = 0
	}
}

// Active reports whether any particle is alive.
func (f *Field) Active() bool { return len(f.particles) > 0 }

// Len is the number of live particles.
func (f *Field) Len() int { return len(f.particles) }

// Clear drops every particle.
func (f *Field) Clear() {
	f.particles = f.particles[:0]
	f.carry = 0
}

// Cells projects live particles onto the grid. Particles outside the field
// are skipped; when several share a cell the newest wins.
func (f *Field) Cells() []Cell {
	out := make([]Cell, 0, len(f.particles))
	for _, p := range f.particles {
		x := int(math.Floor(p.x / cellPxW))
		y := int(math.Floor(p.y / cellPxH))
		if x < 0 || y < 0 || x >= f.w || y >= f.h {
			continue
		}
		out = append(out, Cell{
			X:     x,
			Y:     y,
			Glyph: p.glyph,
			Color: p.color,
			Faded: p.tick > lifetimeTicks*3/4,
		})
	}
	return out
}
