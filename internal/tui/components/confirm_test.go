package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewConfirmDialog(t *testing.T) {
	c := NewConfirmDialog()

	if c.IsVisible() {
		t.Error("ConfirmDialog should be hidden by default")
	}
	if c.View() != "" {
		t.Error("hidden dialog should render nothing")
	}
	if cmd := c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}); cmd != nil {
		t.Error("hidden dialog should ignore input")
	}
}

func TestConfirmDialogShowCreateDescriptor(t *testing.T) {
	c := NewConfirmDialog()
	c.ShowCreateDescriptor("app.sublime-project")

	if !c.IsVisible() {
		t.Fatal("dialog should be visible")
	}
	view := c.View()
	if !strings.Contains(view, "Create project file?") {
		t.Error("view should contain the title")
	}
	if !strings.Contains(view, "app.sublime-project") {
		t.Error("view should name the file")
	}
}

func TestConfirmDialogUpdate(t *testing.T) {
	tests := []struct {
		name    string
		msg     tea.KeyMsg
		wantYes bool
		wantNo  bool
	}{
		{"y confirms", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, true, false},
		{"Y confirms", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Y")}, true, false},
		{"enter confirms", tea.KeyMsg{Type: tea.KeyEnter}, true, false},
		{"n declines", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, false, true},
		{"esc declines", tea.KeyMsg{Type: tea.KeyEsc}, false, true},
		{"other key ignored", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfirmDialog()
			c.Show("Title", "Message")

			cmd := c.Update(tt.msg)
			if !tt.wantYes && !tt.wantNo {
				if cmd != nil {
					t.Error("expected no command")
				}
				if !c.IsVisible() {
					t.Error("dialog should stay visible")
				}
				return
			}
			if cmd == nil {
				t.Fatal("expected a command")
			}
			msg := cmd()
			if _, ok := msg.(ConfirmYesMsg); ok != tt.wantYes {
				t.Errorf("got %T, wantYes %v", msg, tt.wantYes)
			}
			if _, ok := msg.(ConfirmNoMsg); ok != tt.wantNo {
				t.Errorf("got %T, wantNo %v", msg, tt.wantNo)
			}
			if c.IsVisible() {
				t.Error("dialog should hide after answering")
			}
		})
	}
}
