package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains the lipgloss styles built from a color palette.
type Styles struct {
	Palette *ColorPalette

	Title    lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Chart    lipgloss.Style
	Bar      lipgloss.Style
	BarRead  lipgloss.Style
	BarWrite lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// New builds the styles for a palette.
func New(p *ColorPalette) *Styles {
	return &Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		Header: lipgloss.NewStyle().
			Foreground(p.Text).
			PaddingBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(p.Muted),

		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),

		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Error),

		Chart: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),

		Bar:      lipgloss.NewStyle().Foreground(p.Bar),
		BarRead:  lipgloss.NewStyle().Foreground(p.BarRead),
		BarWrite: lipgloss.NewStyle().Foreground(p.BarWrite).Bold(true),

		HelpKey: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(p.Muted),
	}
}

// ForTheme builds the styles of a named theme.
func ForTheme(name string) *Styles {
	return New(GetPalette(ThemeName(name)))
}
