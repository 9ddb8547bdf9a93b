package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/sortscope/internal/channel"
	"github.com/Iron-Ham/sortscope/internal/logging"
	"github.com/Iron-Ham/sortscope/internal/radix"
	"github.com/Iron-Ham/sortscope/internal/tui/styles"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "sort.radix")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return logging.ValidLevels()
}

// ValidThemes returns the list of built-in TUI themes.
func ValidThemes() []string {
	return styles.BuiltinThemes()
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSort()...)
	errors = append(errors, c.validateChannel()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateSort validates the SortConfig
func (c *Config) validateSort() []ValidationError {
	var errors []ValidationError

	if c.Sort.Radix < radix.MinRadix {
		errors = append(errors, ValidationError{
			Field:   "sort.radix",
			Value:   c.Sort.Radix,
			Message: fmt.Sprintf("must be at least %d", radix.MinRadix),
		})
	}

	// The engine keeps one counter per digit value
	const maxRadix = 1 << 20
	if c.Sort.Radix > maxRadix {
		errors = append(errors, ValidationError{
			Field:   "sort.radix",
			Value:   c.Sort.Radix,
			Message: fmt.Sprintf("exceeds maximum of %d", maxRadix),
		})
	}

	if c.Sort.Size < 0 {
		errors = append(errors, ValidationError{
			Field:   "sort.size",
			Value:   c.Sort.Size,
			Message: "must be non-negative",
		})
	}

	// Each element becomes a bar; more than this is unreadable and slow to pace
	const maxSize = 100000
	if c.Sort.Size > maxSize {
		errors = append(errors, ValidationError{
			Field:   "sort.size",
			Value:   c.Sort.Size,
			Message: fmt.Sprintf("exceeds maximum of %d", maxSize),
		})
	}

	if c.Sort.MaxValue < 0 {
		errors = append(errors, ValidationError{
			Field:   "sort.max_value",
			Value:   c.Sort.MaxValue,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateChannel validates the ChannelConfig
func (c *Config) validateChannel() []ValidationError {
	var errors []ValidationError

	if c.Channel.DelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "channel.delay_ms",
			Value:   c.Channel.DelayMs,
			Message: "must be non-negative",
		})
	}

	if !slices.Contains(channel.ValidStrategies(), c.Channel.Strategy) {
		errors = append(errors, ValidationError{
			Field:   "channel.strategy",
			Value:   c.Channel.Strategy,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(channel.ValidStrategies(), ", ")),
		})
	}

	if c.Channel.SpinBackoffUs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "channel.spin_backoff_us",
			Value:   c.Channel.SpinBackoffUs,
			Message: "must be positive",
		})
	}

	if c.Channel.InitialCapacity < 0 {
		errors = append(errors, ValidationError{
			Field:   "channel.initial_capacity",
			Value:   c.Channel.InitialCapacity,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.FrameMs <= 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.frame_ms",
			Value:   c.TUI.FrameMs,
			Message: "must be positive",
		})
	}

	if c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
