package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// Field order matches domain.Modes, followed by the weekly goal.
const (
	fieldWork = iota
	fieldShort
	fieldLong
	fieldGoal
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Focus (min)",
	"Short break (min)",
	"Long break (min)",
	"Weekly goal (min)",
}

type settingsForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newSettingsForm(s domain.Settings, weeklyGoal int) settingsForm {
	values := [fieldCount]int{s.WorkMinutes, s.ShortMinutes, s.LongMinutes, weeklyGoal}

	var f settingsForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 5
		ti.Width = 6
		ti.SetValue(strconv.Itoa(values[i]))
		f.inputs[i] = ti
	}
	return f
}

func (f *settingsForm) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *settingsForm) move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.focusCmd()
}

func (f *settingsForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f settingsForm) value(i int) string {
	return f.inputs[i].Value()
}
