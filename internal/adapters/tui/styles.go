package tui

import (
	"reflect"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with
// defaults, palettes included. A nil theme yields the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	fillEmpty(reflect.ValueOf(&resolved).Elem(), reflect.ValueOf(defaults))
	return resolved
}

func fillEmpty(rv, dv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.String:
			if f.String() == "" {
				f.SetString(dv.Field(i).String())
			}
		case reflect.Struct:
			fillEmpty(f, dv.Field(i))
		}
	}
}

// styles is the set of lipgloss styles derived from one palette.
type styles struct {
	palette config.Palette
	title   lipgloss.Style
	text    lipgloss.Style
	muted   lipgloss.Style
	done    lipgloss.Style
	tabOn   lipgloss.Style
	tabOff  lipgloss.Style
	cursor  lipgloss.Style
	flash   lipgloss.Style
	pane    lipgloss.Style
}

func newStyles(theme config.ThemeConfig, which domain.Theme) styles {
	p := theme.Palette(which)
	return styles{
		palette: p,
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.ColorTitle)).MarginBottom(1),
		text:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.ColorText)),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.ColorMuted)),
		done:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.ColorDone)).Strikethrough(true),
		tabOn:   lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")),
		tabOff:  lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(p.ColorMuted)),
		cursor:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.ColorWork)),
		flash:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(p.ColorTitle)),
		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.ColorMuted)).
			Padding(0, 1),
	}
}

// modeColor returns the accent of a mode. Paused timers use the paused color.
func (s styles) modeColor(m domain.Mode, paused bool) lipgloss.Color {
	if paused {
		return lipgloss.Color(s.palette.ColorPaused)
	}
	switch m {
	case domain.ModeShort:
		return lipgloss.Color(s.palette.ColorShort)
	case domain.ModeLong:
		return lipgloss.Color(s.palette.ColorLong)
	default:
		return lipgloss.Color(s.palette.ColorWork)
	}
}

// progressBar returns a gradient bar for the mode.
func (s styles) progressBar(m domain.Mode, width int) progress.Model {
	var bar progress.Model
	if m.IsBreak() {
		bar = progress.New(progress.WithGradient(s.palette.BreakGradientStart, s.palette.BreakGradientEnd))
	} else {
		bar = progress.New(progress.WithGradient(s.palette.WorkGradientStart, s.palette.WorkGradientEnd))
	}
	bar.Width = width
	return bar
}
