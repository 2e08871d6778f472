// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/services"
)

// volumeStep is the ambient volume change per key press.
const volumeStep = 0.1

// Services bundles what the interface drives.
type Services struct {
	Engine   *services.TimerEngine
	Tasks    *services.TaskService
	Metrics  *services.MetricsService
	Settings *services.SettingsService
	Prefs    *services.PreferenceService
	Sound    ports.SoundPlayer
}

type screen int

const (
	screenTimer screen = iota
	screenMetrics
	screenSettings
	screenFocus
)

// tickMsg is sent on every display refresh.
type tickMsg time.Time

// eventMsg carries an engine event into the update loop.
type eventMsg domain.TimerEvent

// Model represents the TUI state.
type Model struct {
	ctx    context.Context
	svc    Services
	keys   keyMap
	help   help.Model
	theme  config.ThemeConfig
	styles styles
	prefs  domain.Preferences

	timer    domain.TimerState
	interval int
	tasks    domain.TaskList
	cursor   int
	summary  *domain.MetricsSummary
	chart    []domain.ChartDay

	screen    screen
	adding    bool
	taskInput textinput.Model
	form      settingsForm
	askNotify bool
	quotes    *domain.QuotePicker
	quote     domain.Quote
	flash     string

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, svc Services, theme *config.ThemeConfig) Model {
	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 200
	ti.Width = 40

	m := Model{
		ctx:       ctx,
		svc:       svc,
		keys:      defaultKeyMap(),
		help:      help.New(),
		theme:     resolveTheme(theme),
		taskInput: ti,
		quotes:    domain.NewQuotePicker(),
		interval:  svc.Engine.Table().Interval(),
		timer:     svc.Engine.Snapshot(),
	}

	prefs, err := svc.Prefs.Get(ctx)
	if err != nil {
		m.flash = "Could not load preferences"
	}
	m.prefs = prefs
	m.askNotify = !prefs.NotifyPermission.Asked()
	m.styles = newStyles(m.theme, prefs.Theme)
	m.refreshData()
	if mode, ok := svc.Engine.CompletedWhileAway(); ok {
		m.flash = services.AlarmMessage(mode, true)
	}
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd creates a command that sends a tick message.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/4, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshData reloads tasks and metrics from storage.
func (m *Model) refreshData() {
	tasks, err := m.svc.Tasks.List(m.ctx)
	if err != nil {
		m.flash = "Could not load tasks"
	} else {
		m.tasks = tasks
	}
	if m.cursor >= len(m.tasks) {
		m.cursor = max(0, len(m.tasks)-1)
	}

	if summary, err := m.svc.Metrics.Summary(m.ctx); err == nil {
		m.summary = summary
	}
	if chart, err := m.svc.Metrics.Chart(m.ctx, services.ChartDays); err == nil {
		m.chart = chart
	}
}

func (m *Model) syncTimer() {
	m.timer = m.svc.Engine.Snapshot()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.syncTimer()
		return m, tickCmd()

	case eventMsg:
		m.timer = msg.State
		if msg.Kind == domain.EventCompleted {
			m.flash = services.AlarmMessage(msg.Finished, msg.Late)
			m.refreshData()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.askNotify {
			return m.updateNotifyPrompt(msg)
		}
		if m.adding {
			return m.updateTaskInput(msg)
		}
		if m.screen == screenSettings {
			return m.updateSettings(msg)
		}
		return m.handleKey(msg)
	}

	// Cursor blink and other input plumbing.
	var cmd tea.Cmd
	if m.adding {
		m.taskInput, cmd = m.taskInput.Update(msg)
	} else if m.screen == screenSettings {
		cmd = m.form.update(msg)
	}
	return m, cmd
}

func (m Model) updateNotifyPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var granted bool
	switch msg.String() {
	case "y", "Y":
		granted = true
	case "n", "N", "esc":
	default:
		return m, nil
	}
	prefs, err := m.svc.Prefs.SetNotifyPermission(m.ctx, granted)
	if err != nil {
		m.flash = "Could not save notification choice"
	} else {
		m.prefs = prefs
	}
	m.askNotify = false
	return m, nil
}

func (m Model) updateTaskInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.taskInput.Value()
		m.adding = false
		m.taskInput.Blur()
		m.taskInput.Reset()
		if _, err := m.svc.Tasks.Add(m.ctx, text); err != nil {
			m.flash = "Task text cannot be empty"
			return m, nil
		}
		m.refreshData()
		m.cursor = len(m.tasks) - 1
		return m, nil
	case tea.KeyEsc:
		m.adding = false
		m.taskInput.Blur()
		m.taskInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.taskInput, cmd = m.taskInput.Update(msg)
	return m, cmd
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenTimer
		return m, nil
	case "enter":
		m.saveSettings()
		m.screen = screenTimer
		return m, nil
	case "tab", "down":
		cmd := m.form.move(1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.form.move(-1)
		return m, cmd
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m *Model) saveSettings() {
	for i, mode := range domain.Modes {
		if _, err := m.svc.Settings.Set(m.ctx, mode, m.form.value(i), m.svc.Engine); err != nil {
			m.flash = fmt.Sprintf("Could not save %s", mode.Label())
			return
		}
	}
	if _, err := m.svc.Metrics.ApplyWeeklyGoal(m.ctx, m.form.value(fieldGoal)); err != nil {
		m.flash = "Could not save weekly goal"
		return
	}
	m.flash = "Settings saved"
	m.syncTimer()
	m.refreshData()
}

// handleKey dispatches a key press outside of any text input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Focus mode only pauses, resumes and exits.
	if m.screen == screenFocus {
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Focus):
			m.screen = screenTimer
		case key.Matches(msg, m.keys.Toggle):
			m.svc.Engine.Toggle()
			m.syncTimer()
		}
		return m, nil
	}

	engine := m.svc.Engine
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenTimer
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Toggle):
		engine.Toggle()
	case key.Matches(msg, m.keys.Reset):
		engine.Reset()
	case key.Matches(msg, m.keys.Skip):
		engine.Skip()
	case key.Matches(msg, m.keys.Work):
		engine.SetMode(domain.ModeWork)
	case key.Matches(msg, m.keys.Short):
		engine.SetMode(domain.ModeShort)
	case key.Matches(msg, m.keys.Long):
		engine.SetMode(domain.ModeLong)

	case key.Matches(msg, m.keys.Focus):
		m.screen = screenFocus
		m.quote = m.quotes.Next()
		if !engine.Snapshot().Running {
			engine.Start()
		}
	case key.Matches(msg, m.keys.Metrics):
		if m.screen == screenMetrics {
			m.screen = screenTimer
		} else {
			m.refreshData()
			m.screen = screenMetrics
		}
	case key.Matches(msg, m.keys.Settings):
		return m.openSettings()
	case key.Matches(msg, m.keys.Theme):
		prefs, err := m.svc.Prefs.ToggleTheme(m.ctx)
		if err != nil {
			m.flash = "Could not save theme"
			break
		}
		m.prefs = prefs
		m.styles = newStyles(m.theme, prefs.Theme)

	case key.Matches(msg, m.keys.AddTask):
		m.adding = true
		cmd := m.taskInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ToggleTask):
		if _, err := m.svc.Tasks.Toggle(m.ctx, m.cursor); err == nil {
			m.refreshData()
		}
	case key.Matches(msg, m.keys.DeleteTask):
		if removed, err := m.svc.Tasks.Delete(m.ctx, m.cursor); err == nil {
			m.flash = "Deleted: " + removed.Text
			m.refreshData()
		}
	case key.Matches(msg, m.keys.MoveDown):
		m.moveTask(1)
	case key.Matches(msg, m.keys.MoveUp):
		m.moveTask(-1)
	case key.Matches(msg, m.keys.CursorDown):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.CursorUp):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Sound):
		m.cycleSound()
	case key.Matches(msg, m.keys.VolumeUp):
		m.stepVolume(volumeStep)
	case key.Matches(msg, m.keys.VolumeDown):
		m.stepVolume(-volumeStep)
	}

	m.syncTimer()
	return m, nil
}

func (m *Model) moveTask(delta int) {
	to := m.cursor + delta
	if !m.tasks.Valid(to) {
		return
	}
	if _, err := m.svc.Tasks.Move(m.ctx, m.cursor, to); err != nil {
		return
	}
	m.cursor = to
	m.refreshData()
}

func (m *Model) cycleSound() {
	if m.svc.Sound == nil {
		m.flash = "Audio unavailable"
		return
	}
	next := m.svc.Sound.Ambient().Next()
	if err := m.svc.Sound.PlayAmbient(next); err != nil {
		m.flash = "Audio unavailable"
		return
	}
	m.flash = "Ambient: " + next.Label()
}

func (m *Model) stepVolume(delta float64) {
	if m.svc.Sound == nil {
		return
	}
	v := math.Round((m.svc.Sound.Volume()+delta)*10) / 10
	m.svc.Sound.SetVolume(domain.ClampVolume(v))
}

func (m Model) openSettings() (tea.Model, tea.Cmd) {
	settings, err := m.svc.Settings.Load(m.ctx)
	if err != nil {
		settings = domain.DefaultSettings()
	}
	goal, err := m.svc.Metrics.WeeklyGoal(m.ctx)
	if err != nil {
		goal = domain.DefaultWeeklyGoal
	}
	m.form = newSettingsForm(settings, goal)
	m.screen = screenSettings
	cmd := m.form.focusCmd()
	return m, cmd
}

// inputFocused reports whether a text field currently owns the keyboard.
func (m Model) inputFocused() bool {
	return m.adding || m.screen == screenSettings || m.askNotify
}
