package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbmrq/otp/internal/logging"
	"github.com/dbmrq/otp/internal/tui/components"
)

// ConfirmModel is a one-question Bubble Tea program.
type ConfirmModel struct {
	dialog   *components.ConfirmDialog
	answered bool
	yes      bool
}

// NewCreateDescriptorModel asks whether to create the project file name.
func NewCreateDescriptorModel(name string) *ConfirmModel {
	d := components.NewConfirmDialog()
	d.ShowCreateDescriptor(name)
	return &ConfirmModel{dialog: d}
}

// Yes reports whether the user accepted.
func (m *ConfirmModel) Yes() bool {
	return m.yes
}

// Init implements tea.Model.
func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 10 && msg.Width < 70 {
			m.dialog.SetSize(msg.Width - 4)
		}
		return m, nil
	case components.ConfirmYesMsg:
		m.answered, m.yes = true, true
		return m, tea.Quit
	case components.ConfirmNoMsg:
		m.answered, m.yes = true, false
		return m, tea.Quit
	}
	return m, m.dialog.Update(msg)
}

// View implements tea.Model.
func (m *ConfirmModel) View() string {
	if m.answered {
		return ""
	}
	return m.dialog.View()
}

// ConfirmCreateDescriptor asks on the terminal whether to create the project
// file name. It matches the func(string) bool shape project.Detector.Attach
// takes; a TUI failure counts as "no".
func ConfirmCreateDescriptor(name string) bool {
	model := NewCreateDescriptorModel(name)
	finalModel, err := tea.NewProgram(model).Run()
	if err != nil {
		logging.Warn("confirmation prompt failed", "error", err)
		return false
	}
	m, ok := finalModel.(*ConfirmModel)
	return ok && m.Yes()
}
