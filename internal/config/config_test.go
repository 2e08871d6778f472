package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.FirstRun {
		t.Error("expected FirstRun on a fresh config")
	}
	if time.Duration(cfg.Timer.PollInterval) != 250*time.Millisecond {
		t.Errorf("expected poll interval 250ms, got %v", cfg.Timer.PollInterval)
	}
	if cfg.Timer.LongBreakInterval != 4 {
		t.Errorf("expected long break interval 4, got %d", cfg.Timer.LongBreakInterval)
	}
	if cfg.Ambient.Volume != 0.3 {
		t.Errorf("expected ambient volume 0.3, got %f", cfg.Ambient.Volume)
	}
}

func TestLoadFile_CreatesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, ".pomo", "config.toml")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if cfg.Storage.DataDir != filepath.Join(home, ".pomo") {
		t.Errorf("expected data dir expanded under home, got %q", cfg.Storage.DataDir)
	}
	if cfg.Theme.Dark.ColorWork != DefaultThemeConfig().Dark.ColorWork {
		t.Errorf("expected default work color, got %q", cfg.Theme.Dark.ColorWork)
	}
	if GetDBPath(cfg) != filepath.Join(home, ".pomo", "pomo.db") {
		t.Errorf("unexpected db path %q", GetDBPath(cfg))
	}
}

func TestLoadFile_Overrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "config.toml")

	content := `first_run = false

[timer]
poll_interval = "1s"
long_break_interval = 3

[ambient]
sound = "rain"
volume = 2.5

[storage]
data_dir = "/tmp/pomo-data"

[theme.light]
color_work = "#000000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.FirstRun {
		t.Error("expected FirstRun false")
	}
	if time.Duration(cfg.Timer.PollInterval) != time.Second {
		t.Errorf("expected poll interval 1s, got %v", cfg.Timer.PollInterval)
	}
	if cfg.Timer.LongBreakInterval != 3 {
		t.Errorf("expected interval 3, got %d", cfg.Timer.LongBreakInterval)
	}
	if cfg.Ambient.Sound != "rain" {
		t.Errorf("expected ambient rain, got %q", cfg.Ambient.Sound)
	}
	if cfg.Ambient.Volume != 1 {
		t.Errorf("expected volume clamped to 1, got %f", cfg.Ambient.Volume)
	}
	if cfg.Storage.DataDir != "/tmp/pomo-data" {
		t.Errorf("expected absolute data dir kept, got %q", cfg.Storage.DataDir)
	}
	if got := cfg.Theme.Palette(domain.ThemeLight).ColorWork; got != "#000000" {
		t.Errorf("expected light work color override, got %q", got)
	}
	if got := cfg.Theme.Palette(domain.ThemeLight).ColorShort; got != DefaultThemeConfig().Light.ColorShort {
		t.Errorf("expected unset palette keys to keep defaults, got %q", got)
	}
}

func TestLoadFile_RepairsInvalidValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "config.toml")

	content := `[timer]
long_break_interval = 0

[ambient]
sound = "thunder"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Timer.LongBreakInterval != 4 {
		t.Errorf("expected interval repaired to 4, got %d", cfg.Timer.LongBreakInterval)
	}
	if cfg.Ambient.Sound != "none" {
		t.Errorf("expected unknown ambient reset to none, got %q", cfg.Ambient.Sound)
	}
}

func TestSaveFile_RoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "config.toml")

	cfg := DefaultConfig()
	cfg.FirstRun = false
	cfg.Notifications.Enabled = false
	cfg.Timer.PollInterval = Duration(500 * time.Millisecond)
	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.FirstRun || loaded.Notifications.Enabled {
		t.Errorf("expected saved flags to round trip, got %+v", loaded)
	}
	if time.Duration(loaded.Timer.PollInterval) != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", loaded.Timer.PollInterval)
	}
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if time.Duration(d) != 90*time.Second {
		t.Errorf("expected 90s, got %v", d)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected error for invalid duration")
	}
	text, _ := Duration(time.Second).MarshalText()
	if string(text) != "1s" {
		t.Errorf("expected 1s, got %s", text)
	}
}

func TestConfig_ModeTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timer.LongBreakInterval = 2
	table := cfg.ModeTable(domain.Settings{WorkMinutes: 50, ShortMinutes: 10, LongMinutes: 20})
	if table.Work != 50*time.Minute || table.Interval() != 2 {
		t.Errorf("unexpected table %+v", table)
	}
}
