package ports

import "github.com/xvierd/pomo-cli/internal/domain"

// Notifier shows desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// Notify displays a notification with the given title and body.
	Notify(title, message string) error

	// Beep sounds the system bell. Used when audio playback is unavailable.
	Beep() error
}

// SoundPlayer plays the completion chime and ambient noise.
// This is a driven port (implemented by adapters).
type SoundPlayer interface {
	// Chime plays the five-note completion cue.
	Chime() error

	// PlayAmbient replaces the current ambient noise. AmbientNone stops it.
	PlayAmbient(kind domain.AmbientKind) error

	// Ambient returns the kind currently playing.
	Ambient() domain.AmbientKind

	// SetVolume sets the ambient gain in [0,1].
	SetVolume(v float64)

	// Volume returns the ambient gain.
	Volume() float64

	// Close stops all playback.
	Close() error
}
