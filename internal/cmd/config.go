package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/sortscope/internal/config"
	"github.com/Iron-Ham/sortscope/internal/tui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify sortscope configuration",
	Long: `View or modify sortscope configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  sortscope config set sort.radix 16
  sortscope config set channel.delay_ms 5
  sortscope config set tui.theme ocean

Valid keys:
  sort.radix                - Radix digits are taken in (>= 2)
  sort.size                 - Length of generated arrays
  sort.max_value            - Largest generated value
  sort.seed                 - Seed of generated arrays (0 = clock)
  channel.delay_ms          - Pause before every access
  channel.strategy          - Wait strategy: mutex, spin
  channel.spin_backoff_us   - Sleep between spin checks
  channel.initial_capacity  - Initial event buffer capacity
  tui.frame_ms              - Interval between display polls
  tui.theme                 - Color theme: default, mono, ocean
  tui.show_help             - Show the key help footer (true/false)
  logging.enabled           - Write a log file (true/false)
  logging.level             - debug, info, warn, error
  logging.dir               - Log directory (default: config directory)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/sortscope/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available color themes",
	RunE:  runConfigThemes,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configThemesCmd)
}

// settableKeys maps every key accepted by "config set" to its value type.
var settableKeys = map[string]string{
	"sort.radix":               "int",
	"sort.size":                "int",
	"sort.max_value":           "int",
	"sort.seed":                "int",
	"channel.delay_ms":         "int",
	"channel.strategy":         "string",
	"channel.spin_backoff_us":  "int",
	"channel.initial_capacity": "int",
	"tui.frame_ms":             "int",
	"tui.theme":                "string",
	"tui.show_help":            "bool",
	"logging.enabled":          "bool",
	"logging.level":            "string",
	"logging.dir":              "string",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	data, err := yaml.Marshal(map[string]any{
		"sort": map[string]any{
			"radix":     cfg.Sort.Radix,
			"size":      cfg.Sort.Size,
			"max_value": cfg.Sort.MaxValue,
			"seed":      cfg.Sort.Seed,
		},
		"channel": map[string]any{
			"delay_ms":         cfg.Channel.DelayMs,
			"strategy":         cfg.Channel.Strategy,
			"spin_backoff_us":  cfg.Channel.SpinBackoffUs,
			"initial_capacity": cfg.Channel.InitialCapacity,
		},
		"tui": map[string]any{
			"frame_ms":  cfg.TUI.FrameMs,
			"theme":     cfg.TUI.Theme,
			"show_help": cfg.TUI.ShowHelp,
		},
		"logging": map[string]any{
			"enabled":     cfg.Logging.Enabled,
			"level":       cfg.Logging.Level,
			"dir":         cfg.Logging.LogDir(),
			"max_size_mb": cfg.Logging.MaxSizeMB,
			"max_backups": cfg.Logging.MaxBackups,
			"compress":    cfg.Logging.Compress,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	keyType, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'sortscope config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = intVal
	}

	// Reject values the full configuration would not accept
	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		viper.Set(key, previous)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)

	return nil
}

const defaultConfigContent = `# sortscope configuration

# The array and the radix
sort:
  # Base digits are taken in (minimum 2)
  radix: 10
  # Length of a generated array
  size: 64
  # Largest value of a generated array
  max_value: 999
  # Seed of a generated array (0 picks one from the clock)
  seed: 0

# How access events travel from the sort to the display
channel:
  # Pause before every read or write, in milliseconds
  delay_ms: 2
  # How the sort and the display wait on each other: mutex, spin
  strategy: mutex
  # Sleep between checks with the spin strategy, in microseconds
  spin_backoff_us: 50
  # Initial event buffer capacity
  initial_capacity: 1024

# TUI (terminal user interface) settings
tui:
  # Interval between display polls, in milliseconds
  frame_ms: 33
  # Color theme: default, mono, ocean
  theme: default
  # Show the key help footer
  show_help: true

# Log file settings
logging:
  enabled: false
  # debug, info, warn, error
  level: info
  # Directory of sortscope.log (empty = config directory)
  dir: ""
  max_size_mb: 10
  max_backups: 3
  compress: false
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'sortscope config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize sortscope's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: SORTSCOPE_* (e.g., SORTSCOPE_CHANNEL_DELAY_MS)")

	return nil
}

func runConfigThemes(cmd *cobra.Command, args []string) error {
	current := config.Get().TUI.Theme
	themes := styles.BuiltinThemes()
	slices.Sort(themes)

	for _, name := range themes {
		marker := " "
		if name == current {
			marker = "*"
		}
		p := styles.GetPalette(styles.ThemeName(name))
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s  read %s  write %s\n", marker, name, p.BarRead, p.BarWrite)
	}
	if !slices.Contains(themes, current) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(current theme %q is not built in)\n", strings.TrimSpace(current))
	}
	return nil
}
