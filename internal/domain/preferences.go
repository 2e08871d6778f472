package domain

import "fmt"

// Theme is the color scheme of the interface.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: theme %q must be dark or light", ErrInvalidSetting, s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// NotifyPermission mirrors the three-state desktop notification permission.
type NotifyPermission string

const (
	PermissionDefault NotifyPermission = "default"
	PermissionGranted NotifyPermission = "granted"
	PermissionDenied  NotifyPermission = "denied"
)

// Asked reports whether the user already answered the permission prompt.
func (p NotifyPermission) Asked() bool {
	return p == PermissionGranted || p == PermissionDenied
}

// Preferences holds the persisted presentation and behavior flags.
type Preferences struct {
	Theme            Theme
	SoundEnabled     bool
	AutoStart        bool
	NotifyPermission NotifyPermission
}

// DefaultPreferences returns dark theme, sound on, auto-start off, permission not yet asked.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:            ThemeDark,
		SoundEnabled:     true,
		NotifyPermission: PermissionDefault,
	}
}

// AmbientKind selects the background noise generator.
type AmbientKind string

const (
	AmbientNone  AmbientKind = "none"
	AmbientWhite AmbientKind = "white"
	AmbientBrown AmbientKind = "brown"
	AmbientRain  AmbientKind = "rain"
)

// DefaultAmbientVolume is the initial ambient gain.
const DefaultAmbientVolume = 0.3

// AmbientKinds lists the generators in cycle order.
var AmbientKinds = []AmbientKind{AmbientNone, AmbientWhite, AmbientBrown, AmbientRain}

// Next returns the following kind in cycle order.
func (k AmbientKind) Next() AmbientKind {
	for i, kind := range AmbientKinds {
		if kind == k {
			return AmbientKinds[(i+1)%len(AmbientKinds)]
		}
	}
	return AmbientNone
}

// Label returns a human-readable label.
func (k AmbientKind) Label() string {
	switch k {
	case AmbientWhite:
		return "White Noise"
	case AmbientBrown:
		return "Brown Noise"
	case AmbientRain:
		return "Rain"
	default:
		return "Off"
	}
}

// ParseAmbientKind validates an ambient kind name.
func ParseAmbientKind(s string) (AmbientKind, error) {
	for _, kind := range AmbientKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: sound %q must be one of none, white, brown, rain", ErrInvalidSetting, s)
}

// ClampVolume bounds a volume to [0,1].
func ClampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
