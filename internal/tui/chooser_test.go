package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbmrq/otp/internal/chooser"
	"github.com/dbmrq/otp/internal/labeler"
	"github.com/dbmrq/otp/internal/tui/components"
)

type stubHost struct {
	open     map[string]bool
	closed   []string
	opened   []string
	newInst  []bool
	closeErr error
	missing  map[string]bool
}

func (h *stubHost) OpenResources() []string {
	var out []string
	for p, ok := range h.open {
		if ok {
			out = append(out, p)
		}
	}
	return out
}

func (h *stubHost) CloseResource(path string) error {
	h.closed = append(h.closed, path)
	if h.closeErr != nil {
		return h.closeErr
	}
	h.open[path] = false
	return nil
}

func (h *stubHost) OpenOrFocus(path string, newInstance bool) error {
	h.opened = append(h.opened, path)
	h.newInst = append(h.newInst, newInstance)
	return nil
}

func (h *stubHost) PathExists(p string) bool { return !h.missing[p] }

type stubStore struct{ paths []string }

func (s *stubStore) Snapshot() ([]string, error) { return append([]string(nil), s.paths...), nil }
func (s *stubStore) Replace(p []string) error    { s.paths = p; return nil }

func startModel(t *testing.T, history []string, open ...string) (*ChooserModel, *stubHost) {
	t.Helper()
	host := &stubHost{open: map[string]bool{}}
	for _, p := range open {
		host.open[p] = true
	}
	model := NewChooserModel()
	ctrl := chooser.New(host, &stubStore{paths: history}, model, labeler.New(".sublime-project"))
	model.Bind(ctrl)
	if _, err := ctrl.Start(chooser.Request{SelectedIndex: 1, NewInstance: true}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return model, host
}

// press feeds a key to the model and delivers the panel message it produces.
// It returns the command the model answered with.
func press(m *ChooserModel, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	switch out := cmd().(type) {
	case components.QuickPanelConfirmMsg, components.QuickPanelCanceledMsg:
		_, cmd = m.Update(out)
		return cmd
	}
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

const (
	projA = "/w/a/a.sublime-project"
	projB = "/w/b/b.sublime-project"
)

func TestChooserModel_PresentsHistory(t *testing.T) {
	m, _ := startModel(t, []string{projA, projB})

	if got := m.Panel().SelectedIndex(); got != 1 {
		t.Errorf("initial selection = %d, want 1", got)
	}
	view := m.View()
	if !strings.Contains(view, ChooserTitle) {
		t.Error("view should show the title")
	}
	if !strings.Contains(view, projA) {
		t.Error("selected row (oldest entry) should show its path")
	}
}

func TestChooserModel_EnterOpensAndQuits(t *testing.T) {
	m, host := startModel(t, []string{projA, projB})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !isQuit(cmd) {
		t.Error("opening should quit the program")
	}
	if len(host.opened) != 1 || host.opened[0] != projA || !host.newInst[0] {
		t.Errorf("opened = %v (new=%v), want [%s] in a new instance", host.opened, host.newInst, projA)
	}
	if m.Outcome() != chooser.OutcomeOpened || !m.Done() {
		t.Errorf("outcome = %v, done = %v", m.Outcome(), m.Done())
	}
	if m.View() != "" {
		t.Error("finished model should render nothing")
	}
}

func TestChooserModel_TabFlipsOpenMode(t *testing.T) {
	m, host := startModel(t, []string{projA, projB})

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if len(host.newInst) != 1 || host.newInst[0] {
		t.Errorf("tab should open in place, got new=%v", host.newInst)
	}
}

func TestChooserModel_AltEnterClosesAndStays(t *testing.T) {
	m, host := startModel(t, []string{projA, projB}, projA)

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	if isQuit(cmd) {
		t.Fatal("closing should keep the panel open")
	}
	if len(host.closed) != 1 || host.closed[0] != projA {
		t.Errorf("closed = %v, want [%s]", host.closed, projA)
	}
	if m.Outcome() != chooser.OutcomeRepresented || m.Done() {
		t.Errorf("outcome = %v, done = %v", m.Outcome(), m.Done())
	}
	if got := m.Panel().SelectedIndex(); got != 1 {
		t.Errorf("selection after close = %d, want 1", got)
	}
	for _, it := range m.Panel().Items() {
		if it.Kind == labeler.KindOpen {
			t.Errorf("%s should be shown as closed", it.Path)
		}
	}

	cmd = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !isQuit(cmd) {
		t.Error("a following open should quit")
	}
}

func TestChooserModel_CloseErrorShowsStatus(t *testing.T) {
	m, host := startModel(t, []string{projA, projB}, projA)
	host.closeErr = errors.New("permission denied")

	press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if m.Err() == nil {
		t.Fatal("close error should be kept")
	}
	if !strings.Contains(m.View(), "permission denied") {
		t.Error("close error should be shown in the panel")
	}
}

func TestChooserModel_EscCancels(t *testing.T) {
	m, host := startModel(t, []string{projA})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Error("esc should quit")
	}
	if len(host.opened) != 0 || len(host.closed) != 0 {
		t.Error("cancel must not touch the host")
	}
}

func TestChooserModel_EmptyHistory(t *testing.T) {
	m, host := startModel(t, nil)

	if !strings.Contains(m.View(), labeler.EmptyLabel) {
		t.Error("empty history should show the placeholder")
	}
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !isQuit(cmd) {
		t.Error("confirming the placeholder should end the session")
	}
	if m.Outcome() != chooser.OutcomeNoop {
		t.Errorf("outcome = %v, want noop", m.Outcome())
	}
	if len(host.opened) != 0 {
		t.Error("placeholder must not open anything")
	}
}

func TestChooserModel_WindowSize(t *testing.T) {
	m, _ := startModel(t, []string{projA})
	if _, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30}); cmd != nil {
		t.Error("resize should not produce a command")
	}
}

func TestRunChooser_ChosenPathSkipsTUI(t *testing.T) {
	tests := []struct {
		name       string
		missing    bool
		want       chooser.Outcome
		wantOpened int
	}{
		{"existing file is opened", false, chooser.OutcomeOpened, 1},
		{"missing file does nothing", true, chooser.OutcomeNoop, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &stubHost{open: map[string]bool{}, missing: map[string]bool{projA: tt.missing}}
			res, err := RunChooser(host, &stubStore{}, labeler.New(".sublime-project"), chooser.Request{ChosenPath: projA})
			if err != nil {
				t.Fatalf("RunChooser() error = %v", err)
			}
			if res.Outcome != tt.want {
				t.Errorf("outcome = %v, want %v", res.Outcome, tt.want)
			}
			if len(host.opened) != tt.wantOpened {
				t.Errorf("opened = %v", host.opened)
			}
		})
	}
}
