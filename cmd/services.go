package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo-cli/internal/adapters/audio"
	"github.com/xvierd/pomo-cli/internal/adapters/clock"
	"github.com/xvierd/pomo-cli/internal/adapters/git"
	"github.com/xvierd/pomo-cli/internal/adapters/notification"
	"github.com/xvierd/pomo-cli/internal/adapters/storage"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/services"
)

// debugEnv enables the debug log like --debug.
const debugEnv = "POMO_DEBUG"

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config   *config.Config
	logger   *slog.Logger
	logFile  io.Closer
	storage  ports.Storage
	clock    ports.Clock
	engine   *services.TimerEngine
	tasks    *services.TaskService
	metrics  *services.MetricsService
	settings *services.SettingsService
	prefs    *services.PreferenceService
	alarm    *services.AlarmService
	state    *services.StateService
	notifier *notification.Notifier
	sound    *audio.Player // only set for the interactive timer
	unsub    []func()
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
// interactive also opens the audio player.
func initializeServices(interactive bool) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
		if err := cfg.Normalize(); err != nil {
			return err
		}
	}
	app = appDeps{config: cfg}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := openLogger(); err != nil {
		return err
	}

	path := dbPath
	if path == "" {
		path = config.GetDBPath(cfg)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.storage, err = storage.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	workingDir, _ := os.Getwd()
	app.clock = clock.New()
	app.tasks = services.NewTaskService(app.storage)
	app.settings = services.NewSettingsService(app.storage)
	app.prefs = services.NewPreferenceService(app.storage)
	app.metrics = services.NewMetricsService(app.storage, app.clock, git.NewDetector(workingDir))
	app.metrics.SetWorkingDir(workingDir)
	app.metrics.SetLogger(app.logger)

	prefs, err := app.prefs.Get(ctx)
	if err != nil {
		app.logger.Warn("using default preferences", "error", err)
	}

	app.engine = services.NewTimerEngine(app.clock, app.storage.Timer(), cfg.ModeTable(domain.DefaultSettings()),
		services.WithPollInterval(time.Duration(cfg.Timer.PollInterval)),
		services.WithLogger(app.logger),
		services.WithAutoStart(prefs.AutoStart),
	)
	if _, err := app.settings.Attach(ctx, app.engine); err != nil {
		app.logger.Warn("using default durations", "error", err)
	}

	app.notifier = notification.New(&cfg.Notifications)
	var sound ports.SoundPlayer
	if interactive {
		app.sound = audio.NewPlayer(cfg.Ambient.Volume)
		app.sound.SetLogger(app.logger)
		sound = app.sound
	}
	app.alarm = services.NewAlarmService(app.notifier, sound, app.prefs)
	app.alarm.SetNotificationsEnabled(cfg.Notifications.Enabled)
	app.alarm.SetLogger(app.logger)

	// Observers must be in place before Restore so a late completion is
	// logged and announced.
	app.unsub = append(app.unsub,
		app.engine.Subscribe(app.metrics.Observe),
		app.engine.Subscribe(app.alarm.Observe),
	)
	app.engine.Restore(ctx)

	app.state = services.NewStateService(app.engine, app.tasks, app.metrics)
	return nil
}

// openLogger writes slog output to the debug log when requested and
// discards it otherwise.
func openLogger() error {
	if !debugLog && os.Getenv(debugEnv) == "" {
		app.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	f, err := tea.LogToFile(config.GetLogPath(app.config), "pomo")
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	app.logFile = f
	app.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	app.logger.Debug("pomo starting", "version", Version, "commit", GitCommit)
	return nil
}

// cleanupServices closes all resources. It is safe to call more than once.
func cleanupServices() error {
	for _, unsub := range app.unsub {
		unsub()
	}
	app.unsub = nil

	if app.engine != nil {
		app.engine.Close()
		app.engine = nil
	}
	if app.sound != nil {
		_ = app.sound.Close()
		app.sound = nil
	}

	var err error
	if app.storage != nil {
		err = app.storage.Close()
		app.storage = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
