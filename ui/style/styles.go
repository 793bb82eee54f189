package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all the lipgloss styles for the form.
type Styles struct {
	// Layout
	App         lipgloss.Style
	Root        lipgloss.Style
	Layer       lipgloss.Style
	LayerTitle  lipgloss.Style
	LayerSub    lipgloss.Style
	Help        lipgloss.Style
	SyncIdle    lipgloss.Style
	SyncEdited  lipgloss.Style
	StatusError lipgloss.Style

	// Controls
	Label       lipgloss.Style
	Value       lipgloss.Style
	Focused     lipgloss.Style
	Disabled    lipgloss.Style
	Unavailable lipgloss.Style // value no longer among the options
	Placeholder lipgloss.Style

	// Banners
	Banner     lipgloss.Style
	BannerCode lipgloss.Style

	// Misc
	Muted lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Root: lipgloss.NewStyle().
			MarginBottom(1),
		Layer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			MarginBottom(1),
		LayerTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Bold(true),
		LayerSub: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		SyncIdle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("71")), // Muted green
		SyncEdited: lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")), // Muted yellow
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(12),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Focused: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")),
		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Unavailable: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Strikethrough(true),
		Placeholder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true),

		Banner: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("220")).
			Foreground(lipgloss.Color("252")).
			PaddingLeft(1).
			MarginBottom(1),
		BannerCode: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}
