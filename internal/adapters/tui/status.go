package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 80

// TerminalWidth returns the width of stdout, or a default when it is not a TTY.
func TerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// RenderStatus renders a one-shot status block for the command line.
func RenderStatus(cur *domain.CurrentState, theme *config.ThemeConfig, which domain.Theme, width int) string {
	th := resolveTheme(theme)
	st := newStyles(th, which)
	timer := cur.Timer
	paused := !timer.Running && timer.TimeLeft < timer.TotalTime

	var b strings.Builder
	accent := st.text.Foreground(st.modeColor(timer.Mode, paused)).Bold(true)
	fmt.Fprintf(&b, "%s %s  %s  %s\n", th.IconApp, accent.Render(timer.Mode.Label()),
		accent.Render(domain.FormatClock(timer.TimeLeft)), st.muted.Render(timer.StatusLabel()))

	bar := st.progressBar(timer.Mode, min(max(width-4, 10), 50))
	b.WriteString(bar.ViewAs(timer.Progress()) + "\n")

	fmt.Fprintf(&b, "%s  %s completed today\n",
		sessionDots(timer.SessionDots(cur.Interval), cur.Interval),
		plural(timer.SessionsToday, "session", "sessions"))
	fmt.Fprintf(&b, "%s Focused today: %s\n", th.IconStats, domain.FormatMinutes(cur.TodayMinutes))
	if cur.ActiveTask != nil {
		fmt.Fprintf(&b, "%s Next: %s (%d open)\n", th.IconTask, cur.ActiveTask.Text, cur.PendingTasks)
	}
	return b.String()
}
