package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#DC2626") // Red
	okColor     = lipgloss.Color("#22C55E") // Green
	mutedColor  = lipgloss.Color("#71717A") // Zinc
	failColor   = lipgloss.Color("#F97316") // Orange
)

var (
	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accentColor).
			Padding(0, 1)

	// Lists
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E4E4E7"))

	dimStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Member preview body
	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D8"))

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(1, 0, 0, 0)

	successBadge = lipgloss.NewStyle().
			Foreground(okColor).
			Bold(true)

	errorBadge = lipgloss.NewStyle().
			Foreground(failColor).
			Bold(true)

	addedStyle = lipgloss.NewStyle().
			Foreground(okColor)

	deletedStyle = lipgloss.NewStyle().
			Foreground(failColor)
)
