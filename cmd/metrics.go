package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/services"
)

var (
	metricsDays  int
	metricsForce bool
)

// metricsCmd groups the focus metrics commands.
var metricsCmd = &cobra.Command{
	Use:     "metrics",
	Aliases: []string{"stats"},
	Short:   "Show and manage focus metrics",
}

var metricsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show focus totals, streaks and the weekly goal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		summary, err := app.metrics.Summary(ctx)
		if err != nil {
			return err
		}
		chart, err := app.metrics.Chart(ctx, metricsDays)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, metricsJSON(summary, chart))
		}

		report := metricsMarkdown(summary, chart)
		if tui.IsTerminal(out) {
			report = tui.RenderMarkdown(report, tui.TerminalWidth())
		}
		fmt.Fprint(out, report)
		return nil
	},
}

var metricsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the focus history",
	Long:  `Delete every logged focus session. The weekly goal is kept.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !metricsForce && !confirm(cmd, "Delete the whole focus history?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Keeping focus history.")
			return nil
		}
		if err := app.metrics.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Focus history cleared.")
		return nil
	},
}

var metricsGoalCmd = &cobra.Command{
	Use:   "goal [minutes]",
	Short: "Show or set the weekly focus goal",
	Long: fmt.Sprintf(`Show or set the weekly focus goal in minutes. Goals are clamped to
%d-%d minutes. A value that does not start with a number keeps the
current goal.`, domain.MinWeeklyGoal, domain.MaxWeeklyGoal),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		var (
			goal int
			err  error
		)
		if len(args) == 0 {
			goal, err = app.metrics.WeeklyGoal(ctx)
		} else {
			goal, err = app.metrics.ApplyWeeklyGoal(ctx, args[0])
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"weekly_goal":           goal,
				"weekly_goal_formatted": domain.FormatMinutes(goal),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Weekly goal: %s\n", domain.FormatMinutes(goal))
		return nil
	},
}

func init() {
	metricsShowCmd.Flags().IntVar(&metricsDays, "days", services.ChartDays, "Number of days in the daily chart")
	metricsClearCmd.Flags().BoolVarP(&metricsForce, "yes", "y", false, "Do not ask for confirmation")

	metricsCmd.AddCommand(metricsShowCmd)
	metricsCmd.AddCommand(metricsClearCmd)
	metricsCmd.AddCommand(metricsGoalCmd)
}

func metricsJSON(s *domain.MetricsSummary, chart []domain.ChartDay) map[string]interface{} {
	days := make([]map[string]interface{}, 0, len(chart))
	for _, day := range chart {
		days = append(days, map[string]interface{}{
			"date":    day.Date,
			"label":   day.Label,
			"minutes": day.Minutes,
		})
	}
	return map[string]interface{}{
		"today_minutes":    s.Today,
		"week_minutes":     s.Week,
		"month_minutes":    s.Month,
		"all_time_minutes": s.AllTime,
		"sessions":         s.Sessions,
		"current_streak":   s.Streaks.Current,
		"best_streak":      s.Streaks.Best,
		"days_active_week": s.DaysActiveWeek,
		"weekly_goal":      s.WeeklyGoal,
		"goal_percent":     s.GoalPercent,
		"goal_remaining":   s.GoalRemaining,
		"chart":            days,
	}
}

// metricsMarkdown renders the summary as a markdown report.
func metricsMarkdown(s *domain.MetricsSummary, chart []domain.ChartDay) string {
	var b strings.Builder
	b.WriteString("# Focus Metrics\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Today | %s |\n", domain.FormatMinutes(s.Today))
	fmt.Fprintf(&b, "| This week | %s |\n", domain.FormatMinutes(s.Week))
	fmt.Fprintf(&b, "| Last 30 days | %s |\n", domain.FormatMinutes(s.Month))
	fmt.Fprintf(&b, "| All time | %s |\n", domain.FormatMinutes(s.AllTime))
	fmt.Fprintf(&b, "| Sessions | %d |\n", s.Sessions)
	fmt.Fprintf(&b, "| Current streak | %d %s |\n", s.Streaks.Current, pluralize(s.Streaks.Current, "day", "days"))
	fmt.Fprintf(&b, "| Best streak | %d %s |\n", s.Streaks.Best, pluralize(s.Streaks.Best, "day", "days"))
	fmt.Fprintf(&b, "| Active this week | %d/7 days |\n\n", s.DaysActiveWeek)

	b.WriteString("## Weekly goal\n\n")
	fmt.Fprintf(&b, "%s of %s (%d%%)", domain.FormatMinutes(s.Week), domain.FormatMinutes(s.WeeklyGoal), s.GoalPercent)
	if s.GoalRemaining > 0 {
		fmt.Fprintf(&b, ", %s to go.\n\n", domain.FormatMinutes(s.GoalRemaining))
	} else {
		b.WriteString(", reached!\n\n")
	}

	if len(chart) > 0 {
		b.WriteString("## Daily focus\n\n")
		b.WriteString("| Day | Date | Focus |\n|---|---|---|\n")
		for _, day := range chart {
			label := day.Label
			if day.IsToday {
				label = "**" + label + "**"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", label, day.Date, domain.FormatMinutes(day.Minutes))
		}
	}
	return b.String()
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
