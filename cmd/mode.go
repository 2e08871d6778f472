package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// modeCmd represents the mode command
var modeCmd = &cobra.Command{
	Use:   "mode [work|short|long]",
	Short: "Switch the timer mode",
	Long: `Switch to focus time, a short break or a long break. The timer stops
and loads the full duration of the new mode. Without an argument an
interactive picker is shown.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"work", "short", "long"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var mode domain.Mode
		if len(args) == 0 {
			picked, ok := pickMode()
			if !ok {
				return nil
			}
			mode = picked
		} else {
			m, err := domain.ParseMode(args[0])
			if err != nil {
				return err
			}
			mode = m
		}

		app.engine.SetMode(mode)
		return printState(cmd, fmt.Sprintf("Switched to %s.", mode.Label()))
	},
}

func pickMode() (domain.Mode, bool) {
	prefs, _ := app.prefs.Get(context.Background())
	current := app.engine.Snapshot().Mode
	initial := 0
	for i, m := range domain.Modes {
		if m == current {
			initial = i
		}
	}

	result := tui.RunPicker("Mode:", tui.ModeItems(app.engine.Table()), "", initial, &app.config.Theme, prefs.Theme)
	if result.Aborted {
		return "", false
	}
	return domain.Modes[result.Index], true
}

// sessionsCmd groups commands on the session counters.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage the session counters",
}

var sessionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zero the completed and today's session counters",
	Long: `Zero the long break cycle counter and today's session count. The
focus history used by metrics is kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.engine.ResetSessions()
		return printState(cmd, "Session counters reset.")
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsResetCmd)
}
