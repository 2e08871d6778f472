package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// settingsCmd groups the duration settings commands.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the mode durations",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the mode durations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		settings, err := app.settings.Load(ctx)
		if err != nil {
			return err
		}
		prefs, err := app.prefs.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load preferences: %w", err)
		}
		return printSettings(cmd, settings, prefs)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <work|short|long> <minutes>",
	Short: "Change the duration of one mode",
	Long: fmt.Sprintf(`Change the duration of one mode in minutes. Focus time accepts
%d-%d minutes and breaks %d-%d; values outside are clamped. A value
that does not start with a number restores that mode's default.

A running countdown keeps its end time; the new duration applies the
next time the mode is loaded.`,
		domain.MinMinutes, domain.MaxWorkMinutes, domain.MinMinutes, domain.MaxBreakMinutes),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		mode, err := domain.ParseMode(args[0])
		if err != nil {
			return err
		}
		settings, err := app.settings.Set(ctx, mode, args[1], app.engine)
		if err != nil {
			return err
		}
		prefs, _ := app.prefs.Get(ctx)
		return printSettings(cmd, settings, prefs)
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func printSettings(cmd *cobra.Command, s domain.Settings, prefs domain.Preferences) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, map[string]interface{}{
			"work_minutes":        s.WorkMinutes,
			"short_minutes":       s.ShortMinutes,
			"long_minutes":        s.LongMinutes,
			"long_break_interval": app.config.Timer.LongBreakInterval,
			"theme":               string(prefs.Theme),
			"sound":               prefs.SoundEnabled,
			"autostart":           prefs.AutoStart,
			"notifications":       string(prefs.NotifyPermission),
		})
	}

	fmt.Fprintln(out, "Durations:")
	for _, m := range domain.Modes {
		fmt.Fprintf(out, "  %-12s %3d min\n", m.Label(), s.Minutes(m))
	}
	fmt.Fprintf(out, "  Long break every %d focus sessions\n\n", app.config.Timer.LongBreakInterval)
	fmt.Fprintln(out, "Preferences:")
	fmt.Fprintf(out, "  Theme         %s\n", prefs.Theme)
	fmt.Fprintf(out, "  Sound         %s\n", onOff(prefs.SoundEnabled))
	fmt.Fprintf(out, "  Auto-start    %s\n", onOff(prefs.AutoStart))
	fmt.Fprintf(out, "  Notifications %s\n", prefs.NotifyPermission)
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
