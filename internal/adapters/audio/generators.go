package audio

import (
	"math"
	"math/rand/v2"

	"github.com/faiface/beep"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// Lowpass cutoffs per generator, in Hz.
var cutoffs = map[domain.AmbientKind]float64{
	domain.AmbientWhite: 6000,
	domain.AmbientBrown: 800,
	domain.AmbientRain:  3000,
}

// noise is an endless stereo noise source run through a one-pole lowpass.
type noise struct {
	kind  domain.AmbientKind
	rng   *rand.Rand
	last  float64 // brown integrator state
	alpha float64
	y     float64 // filter state
}

func newNoise(kind domain.AmbientKind, sr beep.SampleRate, rng *rand.Rand) *noise {
	rc := 1 / (2 * math.Pi * cutoffs[kind])
	dt := 1 / float64(sr)
	return &noise{
		kind:  kind,
		rng:   rng,
		alpha: dt / (rc + dt),
	}
}

func (n *noise) white() float64 {
	return n.rng.Float64()*2 - 1
}

func (n *noise) next() float64 {
	switch n.kind {
	case domain.AmbientBrown:
		n.last = (n.last + 0.02*n.white()) / 1.02
		return n.last * 3.5
	case domain.AmbientRain:
		sample := n.white()
		if n.rng.Float64() < 0.001 {
			sample += (n.rng.Float64() - 0.5) * 4
		}
		return sample * 0.5
	default:
		return n.white()
	}
}

// Stream implements beep.Streamer.
func (n *noise) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		n.y += n.alpha * (n.next() - n.y)
		samples[i][0] = n.y
		samples[i][1] = n.y
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (n *noise) Err() error { return nil }

// Chime notes: C5 E5 G5 E5 C5.
var chimeNotes = []float64{523, 659, 784, 659, 523}

const (
	chimeSpacing = 0.25
	chimeLength  = 0.3
	chimeGain    = 0.15
	chimeFloor   = 0.001
)

// chime renders the five staggered sine notes, each decaying
// exponentially from chimeGain to chimeFloor.
type chime struct {
	sr    beep.SampleRate
	pos   int
	total int
}

func newChime(sr beep.SampleRate) *chime {
	seconds := chimeSpacing*float64(len(chimeNotes)-1) + chimeLength
	return &chime{sr: sr, total: int(seconds * float64(sr))}
}

func (c *chime) sample(t float64) float64 {
	var out float64
	for i, freq := range chimeNotes {
		local := t - float64(i)*chimeSpacing
		if local < 0 || local >= chimeLength {
			continue
		}
		gain := chimeGain * math.Pow(chimeFloor/chimeGain, local/chimeLength)
		out += gain * math.Sin(2*math.Pi*freq*local)
	}
	return out
}

// Stream implements beep.Streamer.
func (c *chime) Stream(samples [][2]float64) (int, bool) {
	if c.pos >= c.total {
		return 0, false
	}
	n := 0
	for n < len(samples) && c.pos < c.total {
		v := c.sample(float64(c.pos) / float64(c.sr))
		samples[n][0] = v
		samples[n][1] = v
		c.pos++
		n++
	}
	return n, true
}

// Err implements beep.Streamer.
func (c *chime) Err() error { return nil }
