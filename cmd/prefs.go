package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
)

var ambientVolume float64

// themeCmd represents the theme command
var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or change the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		var (
			prefs domain.Preferences
			err   error
		)
		switch {
		case len(args) == 0:
			prefs, err = app.prefs.Get(ctx)
		case args[0] == "toggle":
			prefs, err = app.prefs.ToggleTheme(ctx)
		default:
			theme, perr := domain.ParseTheme(args[0])
			if perr != nil {
				return perr
			}
			prefs, err = app.prefs.SetTheme(ctx, theme)
		}
		if err != nil {
			return err
		}
		return printFlag(cmd, "theme", string(prefs.Theme))
	},
}

// soundCmd represents the sound command
var soundCmd = &cobra.Command{
	Use:       "sound [on|off]",
	Short:     "Turn the completion chime on or off",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		prefs, err := app.prefs.Get(ctx)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			enabled, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			if prefs, err = app.prefs.SetSound(ctx, enabled); err != nil {
				return err
			}
		}
		return printFlag(cmd, "sound", onOff(prefs.SoundEnabled))
	},
}

// autostartCmd represents the autostart command
var autostartCmd = &cobra.Command{
	Use:       "autostart [on|off]",
	Short:     "Start the next mode automatically after a completion",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		prefs, err := app.prefs.Get(ctx)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			enabled, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			if prefs, err = app.prefs.SetAutoStart(ctx, enabled); err != nil {
				return err
			}
			app.engine.SetAutoStart(enabled)
		}
		return printFlag(cmd, "autostart", onOff(prefs.AutoStart))
	},
}

// notifyCmd represents the notify command
var notifyCmd = &cobra.Command{
	Use:       "notify [on|off]",
	Short:     "Allow or deny desktop notifications",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		prefs, err := app.prefs.Get(ctx)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			granted, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			if prefs, err = app.prefs.SetNotifyPermission(ctx, granted); err != nil {
				return err
			}
			if granted && !app.config.Notifications.Enabled {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: notifications are disabled in the config file")
			}
		}
		return printFlag(cmd, "notifications", string(prefs.NotifyPermission))
	},
}

// ambientCmd represents the ambient command
var ambientCmd = &cobra.Command{
	Use:   "ambient [none|white|brown|rain]",
	Short: "Choose the background noise played by the timer",
	Long: `Choose the background noise the interactive timer plays while it is
open. Without an argument an interactive picker is shown. The choice
and the volume are saved in the config file.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"none", "white", "brown", "rain"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var kind domain.AmbientKind
		if len(args) == 0 {
			prefs, _ := app.prefs.Get(context.Background())
			current, _ := domain.ParseAmbientKind(app.config.Ambient.Sound)
			initial := 0
			for i, k := range domain.AmbientKinds {
				if k == current {
					initial = i
				}
			}
			result := tui.RunPicker("Ambient sound:", tui.AmbientItems(), "", initial, &app.config.Theme, prefs.Theme)
			if result.Aborted {
				return nil
			}
			kind = domain.AmbientKinds[result.Index]
		} else {
			k, err := domain.ParseAmbientKind(args[0])
			if err != nil {
				return err
			}
			kind = k
		}

		app.config.Ambient.Sound = string(kind)
		if cmd.Flags().Changed("volume") {
			app.config.Ambient.Volume = domain.ClampVolume(ambientVolume)
		}
		if err := config.Save(app.config); err != nil {
			return err
		}
		return printFlag(cmd, "ambient", fmt.Sprintf("%s (%d%%)", kind.Label(), int(app.config.Ambient.Volume*100+0.5)))
	},
}

func init() {
	ambientCmd.Flags().Float64Var(&ambientVolume, "volume", domain.DefaultAmbientVolume, "Ambient volume between 0 and 1")
	rootCmd.AddCommand(ambientCmd)
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q must be on or off", domain.ErrInvalidSetting, s)
}

func printFlag(cmd *cobra.Command, name, value string) error {
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{name: value})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, value)
	return nil
}
