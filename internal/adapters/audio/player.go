// Package audio plays the completion chime and ambient noise through the
// system speaker using beep.
package audio

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// SampleRate is the output rate for all generated audio.
const SampleRate beep.SampleRate = 44100

// output is the slice of the speaker package the player drives.
type output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
	Close()
}

type systemSpeaker struct{}

func (systemSpeaker) Init(sr beep.SampleRate, n int) error { return speaker.Init(sr, n) }
func (systemSpeaker) Play(s ...beep.Streamer)              { speaker.Play(s...) }
func (systemSpeaker) Lock()                                { speaker.Lock() }
func (systemSpeaker) Unlock()                              { speaker.Unlock() }
func (systemSpeaker) Close()                               { speaker.Close() }

// Player implements ports.SoundPlayer. The speaker is opened on first use.
type Player struct {
	mu      sync.Mutex
	out     output
	logger  *slog.Logger
	rng     *rand.Rand
	once    sync.Once
	initErr error
	ready   bool

	kind   domain.AmbientKind
	level  float64
	ctrl   *beep.Ctrl
	volume *effects.Volume
}

var _ ports.SoundPlayer = (*Player)(nil)

// NewPlayer creates a player with the given initial ambient volume.
func NewPlayer(volume float64) *Player {
	return newPlayer(systemSpeaker{}, volume, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x706f6d6f)))
}

func newPlayer(out output, volume float64, rng *rand.Rand) *Player {
	return &Player{
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		rng:    rng,
		kind:   domain.AmbientNone,
		level:  domain.ClampVolume(volume),
	}
}

// SetLogger sets the logger used for playback failures.
func (p *Player) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

func (p *Player) ensureInit() error {
	p.once.Do(func() {
		p.initErr = p.out.Init(SampleRate, SampleRate.N(time.Second/10))
		if p.initErr != nil {
			p.initErr = fmt.Errorf("failed to open audio output: %w", p.initErr)
			p.logger.Warn("audio unavailable", "error", p.initErr)
			return
		}
		p.ready = true
	})
	return p.initErr
}

// Chime plays the completion cue at its fixed gain.
func (p *Player) Chime() error {
	if err := p.ensureInit(); err != nil {
		return err
	}
	p.out.Play(newChime(SampleRate))
	return nil
}

// PlayAmbient stops the current noise and starts kind. AmbientNone only stops.
func (p *Player) PlayAmbient(kind domain.AmbientKind) error {
	if _, err := domain.ParseAmbientKind(string(kind)); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	if kind == domain.AmbientNone {
		return nil
	}
	if err := p.ensureInit(); err != nil {
		return err
	}

	p.volume = &effects.Volume{
		Streamer: newNoise(kind, SampleRate, p.rng),
		Base:     2,
	}
	applyLevel(p.volume, p.level)
	p.ctrl = &beep.Ctrl{Streamer: p.volume}
	p.out.Play(p.ctrl)
	p.kind = kind
	return nil
}

func (p *Player) stopLocked() {
	if p.ctrl != nil {
		p.out.Lock()
		p.ctrl.Streamer = nil
		p.out.Unlock()
	}
	p.ctrl = nil
	p.volume = nil
	p.kind = domain.AmbientNone
}

// Ambient returns the kind currently playing.
func (p *Player) Ambient() domain.AmbientKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kind
}

// SetVolume changes the ambient gain immediately.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = domain.ClampVolume(v)
	if p.volume != nil {
		p.out.Lock()
		applyLevel(p.volume, p.level)
		p.out.Unlock()
	}
}

// Volume returns the ambient gain.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// Close stops playback and releases the speaker.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	if p.ready {
		p.out.Close()
		p.ready = false
	}
	return nil
}

// applyLevel maps a linear gain onto the volume effect's base-2 exponent.
func applyLevel(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(level)
}
