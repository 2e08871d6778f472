// Package config provides configuration management for pomo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// defaultDataDir is expanded against the home directory on load.
const defaultDataDir = "~/.pomo"

// Config holds all configuration for the pomo application.
type Config struct {
	FirstRun      bool               `mapstructure:"first_run"`
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Ambient       AmbientConfig      `mapstructure:"ambient"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds engine tuning. Per-mode durations are user data and
// live in the database.
type TimerConfig struct {
	PollInterval      Duration `mapstructure:"poll_interval"`
	LongBreakInterval int      `mapstructure:"long_break_interval"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// AmbientConfig holds the initial background noise settings.
type AmbientConfig struct {
	Sound  string  `mapstructure:"sound"`
	Volume float64 `mapstructure:"volume"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// Palette is one color scheme.
type Palette struct {
	ColorWork          string `mapstructure:"color_work"`
	ColorShort         string `mapstructure:"color_short"`
	ColorLong          string `mapstructure:"color_long"`
	ColorPaused        string `mapstructure:"color_paused"`
	ColorTitle         string `mapstructure:"color_title"`
	ColorText          string `mapstructure:"color_text"`
	ColorMuted         string `mapstructure:"color_muted"`
	ColorDone          string `mapstructure:"color_done"`
	WorkGradientStart  string `mapstructure:"work_gradient_start"`
	WorkGradientEnd    string `mapstructure:"work_gradient_end"`
	BreakGradientStart string `mapstructure:"break_gradient_start"`
	BreakGradientEnd   string `mapstructure:"break_gradient_end"`
}

// ThemeConfig holds the dark and light palettes and the icons.
type ThemeConfig struct {
	Dark       Palette `mapstructure:"dark"`
	Light      Palette `mapstructure:"light"`
	IconApp    string  `mapstructure:"icon_app"`
	IconTask   string  `mapstructure:"icon_task"`
	IconStats  string  `mapstructure:"icon_stats"`
	IconGit    string  `mapstructure:"icon_git"`
	IconPaused string  `mapstructure:"icon_paused"`
	IconSound  string  `mapstructure:"icon_sound"`
}

// Palette returns the palette for a theme.
func (t ThemeConfig) Palette(theme domain.Theme) Palette {
	if theme == domain.ThemeLight {
		return t.Light
	}
	return t.Dark
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		Dark: Palette{
			ColorWork:          "#E94560",
			ColorShort:         "#4ECDC4",
			ColorLong:          "#7C6FE0",
			ColorPaused:        "#6B7280",
			ColorTitle:         "#A0AEC0",
			ColorText:          "#EAEAEA",
			ColorMuted:         "#95A5A6",
			ColorDone:          "#4B5563",
			WorkGradientStart:  "#E94560",
			WorkGradientEnd:    "#FF8A65",
			BreakGradientStart: "#4ECDC4",
			BreakGradientEnd:   "#2ECC71",
		},
		Light: Palette{
			ColorWork:          "#C0392B",
			ColorShort:         "#16A085",
			ColorLong:          "#5B4FCF",
			ColorPaused:        "#7F8C8D",
			ColorTitle:         "#4A5568",
			ColorText:          "#1A1A2E",
			ColorMuted:         "#718096",
			ColorDone:          "#A0AEC0",
			WorkGradientStart:  "#C0392B",
			WorkGradientEnd:    "#E67E22",
			BreakGradientStart: "#16A085",
			BreakGradientEnd:   "#27AE60",
		},
		IconApp:    "🍅",
		IconTask:   "📋",
		IconStats:  "📊",
		IconGit:    "🌿",
		IconPaused: "⏸",
		IconSound:  "🎧",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		FirstRun: true,
		Timer: TimerConfig{
			PollInterval:      Duration(250 * time.Millisecond),
			LongBreakInterval: domain.DefaultLongBreakInterval,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Ambient: AmbientConfig{
			Sound:  string(domain.AmbientNone),
			Volume: domain.DefaultAmbientVolume,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Theme: DefaultThemeConfig(),
	}
}

// Load loads the configuration from the config file, creating it with
// defaults on first run.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFile(configPath)
}

// LoadFile loads the configuration from path.
func LoadFile(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveFile(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize expands the data directory and repairs out-of-range values.
func (c *Config) Normalize() error {
	if c.Storage.DataDir == "" || c.Storage.DataDir == defaultDataDir || strings.HasPrefix(c.Storage.DataDir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		rest := strings.TrimPrefix(c.Storage.DataDir, "~/")
		if rest == "" {
			rest = ".pomo"
		}
		c.Storage.DataDir = filepath.Join(homeDir, rest)
	}

	if c.Timer.PollInterval <= 0 {
		c.Timer.PollInterval = Duration(250 * time.Millisecond)
	}
	if c.Timer.LongBreakInterval <= 0 {
		c.Timer.LongBreakInterval = domain.DefaultLongBreakInterval
	}
	c.Ambient.Volume = domain.ClampVolume(c.Ambient.Volume)
	if _, err := domain.ParseAmbientKind(c.Ambient.Sound); err != nil {
		c.Ambient.Sound = string(domain.AmbientNone)
	}
	return nil
}

// Save saves the configuration to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveFile(configPath, cfg)
}

// SaveFile writes cfg to path.
func SaveFile(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("first_run", cfg.FirstRun)
	v.Set("timer.poll_interval", cfg.Timer.PollInterval.String())
	v.Set("timer.long_break_interval", cfg.Timer.LongBreakInterval)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("ambient.sound", cfg.Ambient.Sound)
	v.Set("ambient.volume", cfg.Ambient.Volume)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	setPalette(v, "theme.dark", cfg.Theme.Dark)
	setPalette(v, "theme.light", cfg.Theme.Light)
	v.Set("theme.icon_app", cfg.Theme.IconApp)
	v.Set("theme.icon_task", cfg.Theme.IconTask)
	v.Set("theme.icon_stats", cfg.Theme.IconStats)
	v.Set("theme.icon_git", cfg.Theme.IconGit)
	v.Set("theme.icon_paused", cfg.Theme.IconPaused)
	v.Set("theme.icon_sound", cfg.Theme.IconSound)

	return v.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pomo", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "pomo.db")
}

// GetLogPath returns the path to the debug log.
func GetLogPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "debug.log")
}

// ModeTable builds the engine's mode table from stored settings and the
// configured long break cadence.
func (c *Config) ModeTable(settings domain.Settings) domain.ModeTable {
	return settings.Normalize().ModeTable(c.Timer.LongBreakInterval)
}

func setPalette(v *viper.Viper, prefix string, p Palette) {
	v.Set(prefix+".color_work", p.ColorWork)
	v.Set(prefix+".color_short", p.ColorShort)
	v.Set(prefix+".color_long", p.ColorLong)
	v.Set(prefix+".color_paused", p.ColorPaused)
	v.Set(prefix+".color_title", p.ColorTitle)
	v.Set(prefix+".color_text", p.ColorText)
	v.Set(prefix+".color_muted", p.ColorMuted)
	v.Set(prefix+".color_done", p.ColorDone)
	v.Set(prefix+".work_gradient_start", p.WorkGradientStart)
	v.Set(prefix+".work_gradient_end", p.WorkGradientEnd)
	v.Set(prefix+".break_gradient_start", p.BreakGradientStart)
	v.Set(prefix+".break_gradient_end", p.BreakGradientEnd)
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("first_run", true)
	v.SetDefault("timer.poll_interval", defaults.Timer.PollInterval.String())
	v.SetDefault("timer.long_break_interval", defaults.Timer.LongBreakInterval)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.sound", true)
	v.SetDefault("ambient.sound", defaults.Ambient.Sound)
	v.SetDefault("ambient.volume", defaults.Ambient.Volume)
	v.SetDefault("mcp.enabled", true)
	v.SetDefault("storage.data_dir", defaultDataDir)

	// Theme defaults
	for prefix, p := range map[string]Palette{"theme.dark": defaults.Theme.Dark, "theme.light": defaults.Theme.Light} {
		v.SetDefault(prefix+".color_work", p.ColorWork)
		v.SetDefault(prefix+".color_short", p.ColorShort)
		v.SetDefault(prefix+".color_long", p.ColorLong)
		v.SetDefault(prefix+".color_paused", p.ColorPaused)
		v.SetDefault(prefix+".color_title", p.ColorTitle)
		v.SetDefault(prefix+".color_text", p.ColorText)
		v.SetDefault(prefix+".color_muted", p.ColorMuted)
		v.SetDefault(prefix+".color_done", p.ColorDone)
		v.SetDefault(prefix+".work_gradient_start", p.WorkGradientStart)
		v.SetDefault(prefix+".work_gradient_end", p.WorkGradientEnd)
		v.SetDefault(prefix+".break_gradient_start", p.BreakGradientStart)
		v.SetDefault(prefix+".break_gradient_end", p.BreakGradientEnd)
	}
	v.SetDefault("theme.icon_app", defaults.Theme.IconApp)
	v.SetDefault("theme.icon_task", defaults.Theme.IconTask)
	v.SetDefault("theme.icon_stats", defaults.Theme.IconStats)
	v.SetDefault("theme.icon_git", defaults.Theme.IconGit)
	v.SetDefault("theme.icon_paused", defaults.Theme.IconPaused)
	v.SetDefault("theme.icon_sound", defaults.Theme.IconSound)
}
