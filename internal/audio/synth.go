package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// newVolume scales s linearly by vol. math.Log2(0) is -Inf, so zero
// volume is mapped to silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// envelope shapes s with a linear attack followed by an exponential decay
// and ends the stream after duration.
type envelope struct {
	s      beep.Streamer
	attack int
	decay  float64 // samples per e-fold
	total  int
	pos    int
}

func newEnvelope(s beep.Streamer, sr beep.SampleRate, attack, decay, duration time.Duration) *envelope {
	return &envelope{
		s:      s,
		attack: sr.N(attack),
		decay:  float64(sr.N(decay)),
		total:  sr.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rem := e.total - e.pos; len(samples) > rem {
		samples = samples[:rem]
	}
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		gain := math.Exp(-float64(e.pos) / e.decay)
		if e.pos < e.attack {
			gain *= float64(e.pos) / float64(e.attack)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok || n > 0
}

func (e *envelope) Err() error { return e.s.Err() }

// hitSound is a short bright blip.
func hitSound(sr beep.SampleRate) beep.Streamer {
	tone, err := generators.SineTone(sr, 880)
	if err != nil {
		return beep.Silence(sr.N(80 * time.Millisecond))
	}
	return newVolume(newEnvelope(tone, sr, 3*time.Millisecond, 25*time.Millisecond, 80*time.Millisecond), 0.6)
}

// thump is a decaying low sine mixed with noise.
type thump struct {
	sr  beep.SampleRate
	pos int
	rng *rand.Rand
}

func (g *thump) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		freq := 90 * (1 + 1.5*math.Exp(-t*40))
		noise := g.rng.Float64()*2 - 1
		v := 0.7*math.Sin(2*math.Pi*freq*t) + 0.25*noise
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *thump) Err() error { return nil }

// bounceSound is a dull knock.
func bounceSound(sr beep.SampleRate) beep.Streamer {
	g := &thump{sr: sr, rng: rand.New(rand.NewPCG(1, 2))}
	return newEnvelope(g, sr, time.Millisecond, 30*time.Millisecond, 120*time.Millisecond)
}

// pulse is an endless soft beat used when no music file is configured.
type pulse struct {
	sr   beep.SampleRate
	beat int
	pos  int
}

func newPulse(sr beep.SampleRate, bpm float64) *pulse {
	return &pulse{sr: sr, beat: sr.N(time.Duration(float64(time.Minute) / bpm))}
}

func (g *pulse) Stream(samples [][2]float64) (n int, ok bool) {
	kickLen := g.sr.N(120 * time.Millisecond)
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		inBeat := g.pos % g.beat
		bt := float64(inBeat) / float64(g.sr)

		v := 0.0
		if inBeat < kickLen {
			env := 1 - float64(inBeat)/float64(kickLen)
			v += 0.5 * env * math.Sin(2*math.Pi*55*(1+2*env)*bt)
		}
		// Two slightly detuned sines beat against each other.
		v += 0.08 * (math.Sin(2*math.Pi*220*t) + math.Sin(2*math.Pi*221.5*t))

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *pulse) Err() error { return nil }
