// Package tui provides the terminal user interface for otp.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbmrq/otp/internal/chooser"
	"github.com/dbmrq/otp/internal/labeler"
	"github.com/dbmrq/otp/internal/logging"
	"github.com/dbmrq/otp/internal/tui/components"
)

// ChooserTitle is the quick panel title.
const ChooserTitle = "Open recent project"

// ChooserModel is the Bubble Tea model hosting the history chooser. It is the
// controller's presenter: Present swaps the list, and confirmations from the
// panel are fed back into the controller.
type ChooserModel struct {
	panel *components.QuickPanel
	ctrl  *chooser.Controller

	outcome chooser.Outcome
	err     error
	done    bool
}

// NewChooserModel creates a ChooserModel. Call Bind before starting a session.
func NewChooserModel() *ChooserModel {
	return &ChooserModel{
		panel: components.NewQuickPanel(ChooserTitle),
	}
}

// Bind attaches the controller that presents into this model.
func (m *ChooserModel) Bind(ctrl *chooser.Controller) {
	m.ctrl = ctrl
}

// Present implements chooser.Presenter.
func (m *ChooserModel) Present(items []labeler.Item, selected int) {
	m.panel.SetItems(items, selected)
}

// Outcome returns how the session ended.
func (m *ChooserModel) Outcome() chooser.Outcome {
	return m.outcome
}

// Err returns the last error reported by the controller.
func (m *ChooserModel) Err() error {
	return m.err
}

// Done reports whether the session has ended.
func (m *ChooserModel) Done() bool {
	return m.done
}

// Panel returns the quick panel.
func (m *ChooserModel) Panel() *components.QuickPanel {
	return m.panel
}

// Init implements tea.Model.
func (m *ChooserModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ChooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.panel.SetSize(msg.Width, msg.Height)
		return m, nil

	case components.QuickPanelConfirmMsg:
		outcome, err := m.ctrl.Confirm(chooser.ConfirmEvent{Index: msg.Index, Modifiers: msg.Modifiers})
		m.outcome = outcome
		m.err = err
		if err != nil {
			logging.Warn("chooser action failed", "error", err)
			m.panel.SetStatus(err.Error())
		} else {
			m.panel.SetStatus("")
		}
		if outcome.Done() || m.ctrl.State() == chooser.StateIdle {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case components.QuickPanelCanceledMsg:
		m.ctrl.Cancel()
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.panel, cmd = m.panel.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *ChooserModel) View() string {
	if m.done {
		return ""
	}
	return m.panel.View()
}

// ChooserResult is what RunChooser reports back to the command.
type ChooserResult struct {
	Outcome chooser.Outcome
	Err     error
}

// RunChooser starts a chooser session and runs the quick panel until the
// user opens a project or cancels. Requests that need no list, such as a
// direct path, return without starting the TUI.
func RunChooser(host chooser.Host, store chooser.Store, lab *labeler.Labeler, req chooser.Request) (*ChooserResult, error) {
	model := NewChooserModel()
	ctrl := chooser.New(host, store, model, lab)
	model.Bind(ctrl)

	outcome, err := ctrl.Start(req)
	if err != nil {
		return nil, err
	}
	if outcome != chooser.OutcomePresented {
		return &ChooserResult{Outcome: outcome}, nil
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	m, ok := finalModel.(*ChooserModel)
	if !ok {
		return nil, fmt.Errorf("unexpected TUI model %T", finalModel)
	}
	return &ChooserResult{Outcome: m.Outcome(), Err: m.Err()}, nil
}
