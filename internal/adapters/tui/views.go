package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.screen {
	case screenFocus:
		content = m.viewFocus()
	case screenMetrics:
		content = m.viewMetrics()
	case screenSettings:
		content = m.viewSettings()
	default:
		content = m.viewTimer()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(domain.Modes))
	for _, mode := range domain.Modes {
		if mode == m.timer.Mode {
			style := m.styles.tabOn.Background(m.styles.modeColor(mode, false))
			tabs = append(tabs, style.Render(mode.Label()))
			continue
		}
		tabs = append(tabs, m.styles.tabOff.Render(mode.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// sessionDots renders filled dots for the sessions of the current cycle.
func sessionDots(filled, interval int) string {
	return strings.Repeat("●", filled) + strings.Repeat("○", max(0, interval-filled))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func (m Model) barWidth() int {
	return min(max(m.width-8, 10), 60)
}

func (m Model) viewTimer() string {
	st := m.timer
	paused := !st.Running && st.TimeLeft < st.TotalTime
	color := m.styles.modeColor(st.Mode, paused)

	var sections []string
	sections = append(sections, m.styles.title.Render(fmt.Sprintf("%s Pomodoro", m.theme.IconApp)))
	if m.askNotify {
		sections = append(sections, m.styles.flash.Render("Enable desktop notifications when a session ends? [y/n]"), "")
	}
	sections = append(sections, m.viewTabs(), "")
	sections = append(sections, renderBigClock(domain.FormatClock(st.TimeLeft), color, m.width))

	status := st.StatusLabel()
	if paused {
		status = m.theme.IconPaused + " " + status
	}
	sections = append(sections, "", lipgloss.NewStyle().Foreground(color).Render(status))

	bar := m.styles.progressBar(st.Mode, m.barWidth())
	sections = append(sections, bar.ViewAs(st.Progress()))

	sections = append(sections, m.styles.text.Render(sessionDots(st.SessionDots(m.interval), m.interval)))
	sections = append(sections, m.styles.muted.Render(plural(st.SessionsToday, "session", "sessions")+" completed today"))

	if m.svc.Sound != nil && m.svc.Sound.Ambient() != domain.AmbientNone {
		sections = append(sections, m.styles.muted.Render(fmt.Sprintf("%s %s %d%%",
			m.theme.IconSound, m.svc.Sound.Ambient().Label(), int(m.svc.Sound.Volume()*100+0.5))))
	}

	if m.flash != "" {
		sections = append(sections, "", m.styles.flash.Render(m.flash))
	}

	sections = append(sections, "", m.viewTasks())

	if !m.inputFocused() {
		sections = append(sections, "", m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m Model) viewTasks() string {
	var lines []string
	header := fmt.Sprintf("%s Tasks", m.theme.IconTask)
	if len(m.tasks) > 0 {
		header += fmt.Sprintf(" (%d/%d open)", m.tasks.Pending(), len(m.tasks))
	}
	lines = append(lines, m.styles.text.Bold(true).Render(header))

	if len(m.tasks) == 0 && !m.adding {
		lines = append(lines, m.styles.muted.Render("No tasks yet. Press a to add one."))
	}

	for i, task := range m.tasks {
		marker := "  "
		if i == m.cursor {
			marker = m.styles.cursor.Render("▸ ")
		}
		box, style := "[ ]", m.styles.text
		if task.Done {
			box, style = "[x]", m.styles.done
		}
		lines = append(lines, marker+box+" "+style.Render(task.Text))
	}

	if m.adding {
		lines = append(lines, "", m.taskInput.View(), m.styles.muted.Render("enter save · esc cancel"))
	}

	return m.styles.pane.Width(min(max(m.width-8, 20), 60)).Render(strings.Join(lines, "\n"))
}

func (m Model) viewFocus() string {
	st := m.timer
	color := m.styles.modeColor(st.Mode, !st.Running)

	var sections []string
	sections = append(sections, m.styles.muted.Render(st.Mode.Label()), "")
	sections = append(sections, renderBigClock(domain.FormatClock(st.TimeLeft), color, m.width), "")

	if task := m.tasks.FirstPending(); task != nil {
		sections = append(sections, m.styles.text.Render(task.Text), "")
	}

	quoteWidth := min(max(m.width-10, 20), 70)
	quote := lipgloss.NewStyle().Italic(true).Width(quoteWidth).Align(lipgloss.Center).
		Foreground(lipgloss.Color(m.styles.palette.ColorMuted)).
		Render(fmt.Sprintf("“%s”\n— %s", m.quote.Text, m.quote.Author))
	sections = append(sections, quote, "")

	if !st.Running {
		sections = append(sections, m.styles.muted.Render(m.theme.IconPaused+" paused"))
	}
	sections = append(sections, m.styles.muted.Render("space pause/resume · esc exit focus"))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m Model) viewMetrics() string {
	var sections []string
	sections = append(sections, m.styles.title.Render(fmt.Sprintf("%s Focus Metrics", m.theme.IconStats)))

	s := m.summary
	if s == nil {
		s = &domain.MetricsSummary{WeeklyGoal: domain.DefaultWeeklyGoal, GoalRemaining: domain.DefaultWeeklyGoal}
	}

	rows := [][2]string{
		{"Today", domain.FormatMinutes(s.Today)},
		{"This week", domain.FormatMinutes(s.Week)},
		{"Last 30 days", domain.FormatMinutes(s.Month)},
		{"All time", domain.FormatMinutes(s.AllTime)},
		{"Sessions", fmt.Sprintf("%d", s.Sessions)},
		{"Current streak", plural(s.Streaks.Current, "day", "days")},
		{"Best streak", plural(s.Streaks.Best, "day", "days")},
		{"Active this week", fmt.Sprintf("%d/7 days", s.DaysActiveWeek)},
	}
	var stats []string
	for _, row := range rows {
		stats = append(stats, m.styles.muted.Render(fmt.Sprintf("%-17s", row[0]))+m.styles.text.Render(row[1]))
	}
	sections = append(sections, m.styles.pane.Render(strings.Join(stats, "\n")), "")

	goal := fmt.Sprintf("Weekly goal %s · %d%%", domain.FormatMinutes(s.WeeklyGoal), s.GoalPercent)
	if s.GoalRemaining > 0 {
		goal += fmt.Sprintf(" · %s to go", domain.FormatMinutes(s.GoalRemaining))
	} else {
		goal += " · reached!"
	}
	bar := m.styles.progressBar(domain.ModeShort, m.barWidth())
	sections = append(sections, m.styles.text.Render(goal), bar.ViewAs(float64(min(s.GoalPercent, 100))/100), "")

	sections = append(sections, m.viewChart(), "")
	sections = append(sections, m.styles.muted.Render("m or esc back · q quit"))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

// viewChart renders the daily minutes as horizontal bars.
func (m Model) viewChart() string {
	const width = 30
	peak := 0
	for _, day := range m.chart {
		peak = max(peak, day.Minutes)
	}

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.palette.ColorWork))
	var lines []string
	for _, day := range m.chart {
		n := 0
		if peak > 0 {
			n = day.Minutes * width / peak
		}
		if day.Minutes > 0 && n == 0 {
			n = 1
		}
		label := m.styles.muted.Render(fmt.Sprintf("%-4s", day.Label))
		if day.IsToday {
			label = m.styles.text.Bold(true).Render(fmt.Sprintf("%-4s", day.Label))
		}
		bar := barStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", width-n)
		lines = append(lines, fmt.Sprintf("%s %s %s", label, bar, m.styles.muted.Render(domain.FormatMinutes(day.Minutes))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewSettings() string {
	var sections []string
	sections = append(sections, m.styles.title.Render("Settings"))

	var rows []string
	for i, input := range m.form.inputs {
		label := m.styles.muted.Render(fmt.Sprintf("%-18s", fieldLabels[i]))
		if i == m.form.focus {
			label = m.styles.cursor.Render(fmt.Sprintf("%-18s", fieldLabels[i]))
		}
		rows = append(rows, label+input.View())
	}
	sections = append(sections, m.styles.pane.Render(strings.Join(rows, "\n")), "")
	sections = append(sections, m.styles.muted.Render(fmt.Sprintf("focus %d-%d · breaks %d-%d · goal %d-%d minutes",
		domain.MinMinutes, domain.MaxWorkMinutes, domain.MinMinutes, domain.MaxBreakMinutes,
		domain.MinWeeklyGoal, domain.MaxWeeklyGoal)))
	sections = append(sections, m.styles.muted.Render("tab next · enter save · esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}
