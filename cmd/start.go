package cmd

import (
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start or resume the timer",
	Long: `Start the countdown of the current mode, or resume it when paused.
The timer keeps running after the command exits; "pomo status" shows it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.engine.Snapshot().Running {
			return printState(cmd, "Timer is already running.")
		}
		app.engine.Start()
		return printState(cmd, "▶ Timer started.")
	},
}

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the timer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.engine.Snapshot().Running {
			return printState(cmd, "Timer is not running.")
		}
		app.engine.Pause()
		return printState(cmd, "⏸ Timer paused.")
	},
}

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Start the timer if stopped, pause it if running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.engine.Toggle()
		if app.engine.Snapshot().Running {
			return printState(cmd, "▶ Timer started.")
		}
		return printState(cmd, "⏸ Timer paused.")
	},
}

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Stop the timer and restore the full duration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.engine.Reset()
		return printState(cmd, "↺ Timer reset.")
	},
}

// skipCmd represents the skip command
var skipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Move to the next mode without counting a session",
	Long: `Skip the current mode. A focus session moves to a short or long
break, a break moves back to focus. Skipped sessions are not counted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.engine.Skip()
		return printState(cmd, "⏭ Skipped to "+app.engine.Snapshot().Mode.Label()+".")
	},
}
