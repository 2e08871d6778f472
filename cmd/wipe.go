package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/domain"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all stored data",
	Long: `Delete tasks, the focus history, the weekly goal, durations and
preferences, and reset the timer. The config file is kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wipeForce && !confirm(cmd, "Delete all pomo data?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
			return nil
		}
		if err := wipe(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All data deleted.")
		return nil
	},
}

func init() {
	wipeCmd.Flags().BoolVarP(&wipeForce, "yes", "y", false, "Do not ask for confirmation")
}

func wipe(ctx context.Context) error {
	store := app.storage
	if err := store.Tasks().Replace(ctx, nil); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	if err := store.Sessions().Clear(ctx); err != nil {
		return fmt.Errorf("failed to delete focus history: %w", err)
	}
	if err := store.Sessions().SetWeeklyGoal(ctx, domain.DefaultWeeklyGoal); err != nil {
		return fmt.Errorf("failed to reset weekly goal: %w", err)
	}
	if err := store.Preferences().Save(ctx, domain.DefaultPreferences()); err != nil {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	if _, err := app.settings.Apply(ctx, domain.DefaultSettings(), app.engine); err != nil {
		return err
	}

	app.engine.SetAutoStart(false)
	app.engine.SetMode(domain.ModeWork)
	app.engine.ResetSessions()
	return nil
}
