package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/otp/internal/tui/styles"
)

// ConfirmDialog asks a yes/no question.
type ConfirmDialog struct {
	visible bool
	title   string
	message string
	yes     string
	no      string
	width   int
}

// NewConfirmDialog creates a hidden ConfirmDialog.
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{
		yes:   "[Y]es",
		no:    "[N]o",
		width: 50,
	}
}

// Show displays the dialog.
func (c *ConfirmDialog) Show(title, message string) {
	c.visible = true
	c.title = title
	c.message = message
}

// ShowCreateDescriptor asks whether to create the project file name.
func (c *ConfirmDialog) ShowCreateDescriptor(name string) {
	c.yes = "[Y]es, create " + name
	c.no = "[N]o, thanks"
	c.Show("Create project file?", "This folder has no project file yet.\nCreate "+name+" with the default settings?")
}

// Hide hides the dialog.
func (c *ConfirmDialog) Hide() {
	c.visible = false
}

// IsVisible returns whether the dialog is visible.
func (c *ConfirmDialog) IsVisible() bool {
	return c.visible
}

// SetSize sets the dialog width.
func (c *ConfirmDialog) SetSize(width int) {
	c.width = width
}

// Update handles input messages.
func (c *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	if !c.visible {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch strings.ToLower(keyMsg.String()) {
	case "y", "enter":
		c.Hide()
		return func() tea.Msg { return ConfirmYesMsg{} }
	case "n", "esc", "q", "ctrl+c":
		c.Hide()
		return func() tea.Msg { return ConfirmNoMsg{} }
	}
	return nil
}

// View renders the confirmation dialog.
func (c *ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Background(styles.Warning).
		Bold(true).
		Padding(0, 1).
		Width(c.width - 4)
	b.WriteString(titleStyle.Render(c.title))
	b.WriteString("\n\n")

	msgStyle := lipgloss.NewStyle().
		Foreground(styles.Foreground).
		Width(c.width - 8)
	b.WriteString(msgStyle.Render(c.message))
	b.WriteString("\n\n")

	b.WriteString(styles.ButtonPrimaryStyle.Render(c.yes))
	b.WriteString("  ")
	b.WriteString(styles.ButtonSecondaryUnfocusedStyle.Render(c.no))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(styles.Warning).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}

// ConfirmYesMsg is sent when the user confirms.
type ConfirmYesMsg struct{}

// ConfirmNoMsg is sent when the user declines.
type ConfirmNoMsg struct{}
