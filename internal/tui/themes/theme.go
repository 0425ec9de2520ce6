// Package themes defines the visual styles for the chat TUI.
package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/htsflow/htsflow/internal/model"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Normal         lipgloss.Style
	Bold           lipgloss.Style
	Italic         lipgloss.Style
	Code           lipgloss.Style
	Selected       lipgloss.Style
	UserBubble     lipgloss.Style
	AssistantLabel lipgloss.Style
	QuestionBlock  lipgloss.Style
	AnalysisBlock  lipgloss.Style
	ErrorBanner    lipgloss.Style
	CardCollapsed  lipgloss.Style
	CardExpanded   lipgloss.Style
	CardSelected   lipgloss.Style
	BadgeHigh      lipgloss.Style
	BadgeMedium    lipgloss.Style
	BadgeLow       lipgloss.Style
	StatusPending  lipgloss.Style
	Link           lipgloss.Style
	InputBorder    lipgloss.Style
	HelpText       lipgloss.Style
	Secondary      lipgloss.Color
	Primary        lipgloss.Color
	Muted          lipgloss.Color
	Border         lipgloss.Color
	Foreground     lipgloss.Color
	Error          lipgloss.Color
	Warning        lipgloss.Color
	Success        lipgloss.Color
}

// BadgeStyle returns the badge style for a confidence tier.
func (t Theme) BadgeStyle(tier model.ConfidenceTier) lipgloss.Style {
	switch tier {
	case model.TierHigh:
		return t.BadgeHigh
	case model.TierMedium:
		return t.BadgeMedium
	default:
		return t.BadgeLow
	}
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#7c3aed"),
	Secondary:  lipgloss.Color("#a78bfa"),
	Success:    lipgloss.Color("#10b981"),
	Warning:    lipgloss.Color("#f59e0b"),
	Error:      lipgloss.Color("#ef4444"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Italic: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#fafafa")),
	Code: lipgloss.NewStyle().
		Background(lipgloss.Color("#262626")).
		Foreground(lipgloss.Color("#e5e5e5")).
		Padding(0, 1),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),

	// Thread styles
	UserBubble: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7c3aed")).
		Padding(0, 1),
	AssistantLabel: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a78bfa")),
	QuestionBlock: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	AnalysisBlock: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#a3a3a3")).
		PaddingLeft(2),
	ErrorBanner: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#ef4444")).
		Padding(0, 1),

	// Result card styles
	CardCollapsed: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	CardExpanded: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	CardSelected: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7c3aed")).
		Padding(0, 1),
	BadgeHigh: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	BadgeMedium: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	BadgeLow: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),
	Link: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")).
		Underline(true),
	InputBorder: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7c3aed")).
		Padding(0, 1),
	HelpText: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
}

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = Theme{
	// Colors
	Primary:    lipgloss.Color("#cba6f7"),
	Secondary:  lipgloss.Color("#f5c2e7"),
	Success:    lipgloss.Color("#a6e3a1"),
	Warning:    lipgloss.Color("#f9e2af"),
	Error:      lipgloss.Color("#f38ba8"),
	Foreground: lipgloss.Color("#cdd6f4"),
	Border:     lipgloss.Color("#45475a"),
	Muted:      lipgloss.Color("#6c7086"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#cdd6f4")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	Italic: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	Code: lipgloss.NewStyle().
		Background(lipgloss.Color("#313244")).
		Foreground(lipgloss.Color("#cdd6f4")).
		Padding(0, 1),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#cba6f7")).
		Foreground(lipgloss.Color("#1e1e2e")).
		Bold(true),

	// Thread styles
	UserBubble: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#cba6f7")).
		Padding(0, 1),
	AssistantLabel: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#f5c2e7")),
	QuestionBlock: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#45475a")).
		Padding(0, 1),
	AnalysisBlock: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#a6adc8")).
		PaddingLeft(2),
	ErrorBanner: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f38ba8")).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#f38ba8")).
		Padding(0, 1),

	// Result card styles
	CardCollapsed: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#cdd6f4")),
	CardExpanded: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#45475a")).
		Padding(0, 1),
	CardSelected: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#cba6f7")).
		Padding(0, 1),
	BadgeHigh: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6e3a1")).
		Bold(true),
	BadgeMedium: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f9e2af")).
		Bold(true),
	BadgeLow: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f38ba8")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")).
		Italic(true),
	Link: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#89dceb")).
		Underline(true),
	InputBorder: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#cba6f7")).
		Padding(0, 1),
	HelpText: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")),
}

// ByName resolves a configured theme name, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
