// Package styles provides Lip Gloss styles for the otp TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI.
var (
	Primary     = lipgloss.Color("#7C3AED") // Purple
	Secondary   = lipgloss.Color("#06B6D4") // Cyan
	Success     = lipgloss.Color("#10B981") // Green
	Warning     = lipgloss.Color("#F59E0B") // Amber
	Error       = lipgloss.Color("#EF4444") // Red
	Muted       = lipgloss.Color("#6B7280") // Gray
	MutedLight  = lipgloss.Color("#9CA3AF") // Light Gray
	Background  = lipgloss.Color("#1F2937") // Dark Gray
	Foreground  = lipgloss.Color("#F9FAFB") // White
	BorderColor = lipgloss.Color("#374151") // Border Gray
)

// Panel styles.
var (
	// TitleStyle is for panel titles.
	TitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	// PanelStyle frames the quick panel.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// ItemStyle is for unselected rows.
	ItemStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	// SelectedItemStyle is for the highlighted row.
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true)

	// PathStyle is for the full path under the highlighted row.
	PathStyle = lipgloss.NewStyle().
			Foreground(Muted).
			PaddingLeft(4)

	// FilterStyle is for the filter prompt.
	FilterStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// Item icons.
var (
	// IconOpen marks a project open in an editor.
	IconOpen = lipgloss.NewStyle().
			Foreground(Success).
			Render("●")

	// IconProject marks a remembered project that is not open.
	IconProject = lipgloss.NewStyle().
			Foreground(MutedLight).
			Render("◷")
)

// Text styles.
var (
	// MutedTextStyle is for de-emphasized text.
	MutedTextStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorTextStyle is for error messages.
	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(Error)

	// SuccessTextStyle is for success messages.
	SuccessTextStyle = lipgloss.NewStyle().
				Foreground(Success)

	// WarningTextStyle is for warning messages.
	WarningTextStyle = lipgloss.NewStyle().
				Foreground(Warning)

	// KeyStyle is for keyboard shortcut keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// HelpStyle is for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// Button styles.
var (
	// ButtonPrimaryStyle is for the focused confirm button.
	ButtonPrimaryStyle = lipgloss.NewStyle().
				Foreground(Background).
				Background(Primary).
				Bold(true).
				Padding(0, 2)

	// ButtonSecondaryUnfocusedStyle is for the cancel button.
	ButtonSecondaryUnfocusedStyle = lipgloss.NewStyle().
					Foreground(MutedLight).
					Border(lipgloss.NormalBorder()).
					BorderForeground(Muted).
					Padding(0, 1)
)
