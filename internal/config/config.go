package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/sortscope/internal/channel"
	"github.com/Iron-Ham/sortscope/internal/logging"
	"github.com/Iron-Ham/sortscope/internal/session"
)

// Config represents the complete sortscope configuration
type Config struct {
	Sort    SortConfig    `mapstructure:"sort"`
	Channel ChannelConfig `mapstructure:"channel"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SortConfig controls the array being sorted and the radix used
type SortConfig struct {
	// Radix is the base digits are taken in (default: 10, min: 2)
	Radix int `mapstructure:"radix"`
	// Size is the length of a generated dataset (default: 64)
	Size int `mapstructure:"size"`
	// MaxValue is the largest value a generated dataset may contain (default: 999)
	MaxValue int `mapstructure:"max_value"`
	// Seed makes generated datasets reproducible. 0 picks a seed from the clock.
	Seed uint64 `mapstructure:"seed"`
}

// ChannelConfig controls how access events travel to the display
type ChannelConfig struct {
	// DelayMs is the pause before every access event, in milliseconds (default: 2)
	DelayMs int `mapstructure:"delay_ms"`
	// Strategy is how the producer and consumer wait on each other
	// Options: "mutex", "spin"
	Strategy string `mapstructure:"strategy"`
	// SpinBackoffUs is the sleep between checks with the spin strategy (default: 50)
	SpinBackoffUs int `mapstructure:"spin_backoff_us"`
	// InitialCapacity is the initial event buffer capacity (default: 1024)
	InitialCapacity int `mapstructure:"initial_capacity"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// FrameMs is the interval between channel polls, in milliseconds (default: 33)
	FrameMs int `mapstructure:"frame_ms"`
	// Theme is the color theme for the TUI (default: "default")
	// Options: "default", "mono", "ocean"
	Theme string `mapstructure:"theme"`
	// ShowHelp shows the key help footer (default: true)
	ShowHelp bool `mapstructure:"show_help"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory holding sortscope.log. Empty means the config directory.
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Sort: SortConfig{
			Radix:    10,
			Size:     64,
			MaxValue: 999,
			Seed:     0,
		},
		Channel: ChannelConfig{
			DelayMs:         2,
			Strategy:        string(channel.StrategyMutex),
			SpinBackoffUs:   50,
			InitialCapacity: 1024,
		},
		TUI: TUIConfig{
			FrameMs:  33,
			Theme:    "default",
			ShowHelp: true,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
	}
}

// Delay returns the pacing delay as a time.Duration
func (c *ChannelConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// SpinBackoff returns the spin backoff as a time.Duration
func (c *ChannelConfig) SpinBackoff() time.Duration {
	return time.Duration(c.SpinBackoffUs) * time.Microsecond
}

// Frame returns the poll interval as a time.Duration
func (c *TUIConfig) Frame() time.Duration {
	return time.Duration(c.FrameMs) * time.Millisecond
}

// LogDir returns the directory logs are written to
func (c *LoggingConfig) LogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return ConfigDir()
}

// Rotation returns the log rotation settings
func (c *LoggingConfig) Rotation() logging.RotationConfig {
	return logging.RotationConfig{
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		Compress:   c.Compress,
	}
}

// SessionConfig maps the configuration onto the parameters of a sort run
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		Radix: c.Sort.Radix,
		Channel: channel.Config{
			Delay:           c.Channel.Delay(),
			Strategy:        channel.Strategy(c.Channel.Strategy),
			SpinBackoff:     c.Channel.SpinBackoff(),
			InitialCapacity: c.Channel.InitialCapacity,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Sort defaults
	viper.SetDefault("sort.radix", defaults.Sort.Radix)
	viper.SetDefault("sort.size", defaults.Sort.Size)
	viper.SetDefault("sort.max_value", defaults.Sort.MaxValue)
	viper.SetDefault("sort.seed", defaults.Sort.Seed)

	// Channel defaults
	viper.SetDefault("channel.delay_ms", defaults.Channel.DelayMs)
	viper.SetDefault("channel.strategy", defaults.Channel.Strategy)
	viper.SetDefault("channel.spin_backoff_us", defaults.Channel.SpinBackoffUs)
	viper.SetDefault("channel.initial_capacity", defaults.Channel.InitialCapacity)

	// TUI defaults
	viper.SetDefault("tui.frame_ms", defaults.TUI.FrameMs)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.show_help", defaults.TUI.ShowHelp)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sortscope")
	}
	// Fall back to ~/.config/sortscope
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sortscope"
	}
	return filepath.Join(home, ".config", "sortscope")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
