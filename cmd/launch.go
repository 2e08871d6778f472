package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/pomo-cli/internal/adapters/tui"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// runTUI opens the interactive timer and blocks until the user quits.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := setupSignalHandler()
	defer stop()

	audioFailed := false
	if kind, err := domain.ParseAmbientKind(app.config.Ambient.Sound); err == nil && kind != domain.AmbientNone {
		if err := app.sound.PlayAmbient(kind); err != nil {
			app.logger.Warn("ambient sound unavailable", "error", err)
			audioFailed = true
		}
	}

	model := tui.NewModel(ctx, tui.Services{
		Engine:   app.engine,
		Tasks:    app.tasks,
		Metrics:  app.metrics,
		Settings: app.settings,
		Prefs:    app.prefs,
		Sound:    app.sound,
	}, &app.config.Theme)

	timer := tui.NewTimer(model)
	if err := timer.Run(ctx); err != nil {
		return fmt.Errorf("timer error: %w", err)
	}

	saveSession(audioFailed)
	return nil
}

// saveSession writes the ambient choice and clears the first-run flag.
// A configured sound that could not be played is kept.
func saveSession(audioFailed bool) {
	cfg := app.config
	changed := cfg.FirstRun
	cfg.FirstRun = false

	kind, level := app.sound.Ambient(), app.sound.Volume()
	if audioFailed && kind == domain.AmbientNone {
		kind = domain.AmbientKind(cfg.Ambient.Sound)
	}
	if string(kind) != cfg.Ambient.Sound || level != cfg.Ambient.Volume {
		cfg.Ambient.Sound = string(kind)
		cfg.Ambient.Volume = level
		changed = true
	}
	if !changed {
		return
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save config: %v\n", err)
	}
}
