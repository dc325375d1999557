// Package chime plays short synthesized cues for decline and accept events.
package chime

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player plays event cues. Implementations must not block the caller.
type Player interface {
	Decline()
	Accept()
	Close()
}

// Nop is the silent player used when audio is disabled.
type Nop struct{}

// Decline does nothing.
func (Nop) Decline() {}

// Accept does nothing.
func (Nop) Accept() {}

// Close does nothing.
func (Nop) Close() {}

// Speaker plays cues through the default audio device.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	open   bool
}

// NewSpeaker initialises the audio device. volume is linear in [0, 1].
func NewSpeaker(volume float64) (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	s := &Speaker{mixer: &beep.Mixer{}, volume: volume, open: true}
	speaker.Play(s.mixer)
	return s, nil
}

// Decline plays a short falling two-note boop.
func (s *Speaker) Decline() { s.play(DeclineCue(s.volume)) }

// Accept plays a rising arpeggio.
func (s *Speaker) Accept() { s.play(AcceptCue(s.volume)) }

func (s *Speaker) play(st beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Close silences and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	s.open = false
}

// DeclineCue builds the decline sound.
func DeclineCue(volume float64) beep.Streamer {
	return withVolume(beep.Seq(
		note(440, 90*time.Millisecond),
		note(330, 140*time.Millisecond),
	), volume)
}

// AcceptCue builds the accept sound: C5, E5, G5 then a held C6.
func AcceptCue(volume float64) beep.Streamer {
	return withVolume(beep.Seq(
		note(523.25, 110*time.Millisecond),
		note(659.25, 110*time.Millisecond),
		note(783.99, 110*time.Millisecond),
		note(1046.5, 320*time.Millisecond),
	), volume)
}

func note(freq float64, d time.Duration) beep.Streamer {
	return newEnvelope(newSine(freq, d), d, 8*time.Millisecond, d/2)
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// sine is a fixed-length sine oscillator.
type sine struct {
	freq  float64
	phase float64
	pos   int
	total int
}

func newSine(freq float64, d time.Duration) *sine {
	return &sine{freq: freq, total: sampleRate.N(d)}
}

func (o *sine) Stream(samples [][2]float64) (int, bool) {
	if o.pos >= o.total {
		return 0, false
	}
	for i := range samples {
		if o.pos >= o.total {
			return i, true
		}
		v := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = v
		samples[i][1] = v
		o.phase += o.freq / float64(sampleRate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *sine) Err() error { return nil }

// envelope applies a linear attack and release.
type envelope struct {
	s       beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration) *envelope {
	return &envelope{
		s:       s,
		total:   sampleRate.N(d),
		attack:  sampleRate.N(attack),
		release: sampleRate.N(release),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if start := e.total - e.release; e.release > 0 && e.pos >= start {
			vol = math.Max(0, float64(e.total-e.pos)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }
