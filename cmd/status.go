package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Show the timer, today's sessions and focus time, and the next open task.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printState(cmd, "")
	},
}

// printState prints the current state as JSON or as a status block,
// preceded by an optional headline.
func printState(cmd *cobra.Command, headline string) error {
	ctx := context.Background()
	cur, err := app.state.GetCurrentState(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current state: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, statusJSON(cur))
	}

	if headline != "" {
		fmt.Fprintln(out, headline)
	}
	prefs, _ := app.prefs.Get(ctx)
	fmt.Fprint(out, tui.RenderStatus(cur, &app.config.Theme, prefs.Theme, tui.TerminalWidth()))
	return nil
}

func statusJSON(cur *domain.CurrentState) map[string]interface{} {
	st := cur.Timer
	timer := map[string]interface{}{
		"mode":               string(st.Mode),
		"label":              st.Mode.Label(),
		"status":             st.StatusLabel(),
		"time_left":          domain.FormatClock(st.TimeLeft),
		"time_left_seconds":  st.TimeLeft,
		"total_time_seconds": st.TotalTime,
		"running":            st.Running,
		"sessions_completed": st.SessionsCompleted,
		"sessions_today":     st.SessionsToday,
		"end_time":           nil,
	}
	if st.EndTime != nil {
		timer["end_time"] = st.EndTime.Format(time.RFC3339)
	}

	result := map[string]interface{}{
		"timer":         timer,
		"interval":      cur.Interval,
		"today_minutes": cur.TodayMinutes,
		"pending_tasks": cur.PendingTasks,
		"active_task":   nil,
	}
	if cur.ActiveTask != nil {
		result["active_task"] = map[string]interface{}{
			"id":   cur.ActiveTask.ID,
			"text": cur.ActiveTask.Text,
		}
	}
	return result
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
