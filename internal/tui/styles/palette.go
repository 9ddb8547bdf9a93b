package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeMono    ThemeName = "mono"    // Grayscale, for terminals with poor color support
	ThemeOcean   ThemeName = "ocean"   // Blue/teal dark theme
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeMono),
		string(ThemeOcean),
	}
}

// IsValidTheme checks if a theme name is a built-in theme.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
// All colors should meet WCAG AA contrast requirements (4.5:1 ratio).
type ColorPalette struct {
	// Primary accent color (title, active digit place)
	Primary lipgloss.Color
	// Secondary accent color (sorted state)
	Secondary lipgloss.Color
	// Error color (failures)
	Error lipgloss.Color
	// Muted color (de-emphasized text, help)
	Muted lipgloss.Color
	// Text color (primary text)
	Text lipgloss.Color
	// Border color (panel borders)
	Border lipgloss.Color

	// Bar colors
	Bar      lipgloss.Color // untouched element
	BarRead  lipgloss.Color // element read in the last frame
	BarWrite lipgloss.Color // element written in the last frame
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		Bar:      lipgloss.Color("#6B7280"), // Gray-500
		BarRead:  lipgloss.Color("#60A5FA"), // Blue
		BarWrite: lipgloss.Color("#FB923C"), // Orange
	}
}

// MonoPalette returns a grayscale palette. Reads and writes differ by
// brightness only.
func MonoPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#FFFFFF"),
		Secondary: lipgloss.Color("#D4D4D4"),
		Error:     lipgloss.Color("#FFFFFF"),
		Muted:     lipgloss.Color("#A3A3A3"),
		Text:      lipgloss.Color("#F5F5F5"),
		Border:    lipgloss.Color("#737373"),

		Bar:      lipgloss.Color("#525252"),
		BarRead:  lipgloss.Color("#A3A3A3"),
		BarWrite: lipgloss.Color("#FFFFFF"),
	}
}

// OceanPalette returns a blue/teal dark theme palette.
func OceanPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#38BDF8"), // Sky-400
		Secondary: lipgloss.Color("#2DD4BF"), // Teal-400
		Error:     lipgloss.Color("#FB7185"), // Rose-400
		Muted:     lipgloss.Color("#94A3B8"), // Slate-400
		Text:      lipgloss.Color("#F1F5F9"), // Slate-100
		Border:    lipgloss.Color("#475569"), // Slate-600

		Bar:      lipgloss.Color("#334155"), // Slate-700
		BarRead:  lipgloss.Color("#7DD3FC"), // Sky-300
		BarWrite: lipgloss.Color("#FDE047"), // Yellow-300
	}
}

// GetPalette returns the color palette for the given theme name.
// Returns the default palette for unknown theme names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeMono:
		return MonoPalette()
	case ThemeOcean:
		return OceanPalette()
	default:
		return DefaultPalette()
	}
}
