// Package components provides reusable TUI components for otp.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbmrq/otp/internal/chooser"
	"github.com/dbmrq/otp/internal/labeler"
	"github.com/dbmrq/otp/internal/tui/styles"
)

// QuickPanelConfirmMsg is sent when a row is confirmed. Index refers to the
// item list passed to SetItems, not to the filtered view.
type QuickPanelConfirmMsg struct {
	Index     int
	Modifiers chooser.Modifiers
}

// QuickPanelCanceledMsg is sent when the panel is dismissed.
type QuickPanelCanceledMsg struct{}

// KeyMap holds the quick panel key bindings. Terminals cannot report a held
// modifier on its own, so each modifier combination has its own binding.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	// Primary confirms with the primary modifier held.
	Primary key.Binding
	// Close confirms with alt held.
	Close  key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default quick panel bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Primary: key.NewBinding(key.WithKeys("tab", "ctrl+o"), key.WithHelp("tab", "open, other mode")),
		Close:   key.NewBinding(key.WithKeys("alt+enter", "ctrl+x"), key.WithHelp("alt+enter", "close")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// QuickPanel is a filterable single-choice list of history items.
type QuickPanel struct {
	title    string
	items    []labeler.Item
	visible  []int
	selected int
	filter   textinput.Model
	keys     KeyMap
	width    int
	height   int
	status   string
}

// NewQuickPanel creates a QuickPanel with the default key map.
func NewQuickPanel(title string) *QuickPanel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "filter"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	return &QuickPanel{
		title:  title,
		keys:   DefaultKeyMap(),
		filter: ti,
	}
}

// SetItems replaces the list and highlights the item at selected. The current
// filter is kept; if it hides the selected item the first visible row is
// highlighted instead.
func (q *QuickPanel) SetItems(items []labeler.Item, selected int) {
	q.items = items
	q.refilter()
	q.selected = 0
	for pos, idx := range q.visible {
		if idx == selected {
			q.selected = pos
			break
		}
	}
}

// SetStatus shows a one-line message under the list.
func (q *QuickPanel) SetStatus(status string) {
	q.status = status
}

// SetSize sets the component dimensions.
func (q *QuickPanel) SetSize(width, height int) {
	q.width = width
	q.height = height
	w := width - 8
	if w < 10 {
		w = 10
	}
	q.filter.Width = w
}

// Items returns the full item list.
func (q *QuickPanel) Items() []labeler.Item {
	return q.items
}

// Visible returns the indices of the items that pass the filter.
func (q *QuickPanel) Visible() []int {
	return q.visible
}

// SelectedIndex returns the item index of the highlighted row, or -1 when
// nothing is visible.
func (q *QuickPanel) SelectedIndex() int {
	if q.selected < 0 || q.selected >= len(q.visible) {
		return -1
	}
	return q.visible[q.selected]
}

// Filter returns the current filter text.
func (q *QuickPanel) Filter() string {
	return q.filter.Value()
}

// Update handles input messages.
func (q *QuickPanel) Update(msg tea.Msg) (*QuickPanel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		q.filter, cmd = q.filter.Update(msg)
		return q, cmd
	}

	switch {
	case key.Matches(keyMsg, q.keys.Cancel):
		return q, func() tea.Msg { return QuickPanelCanceledMsg{} }
	case key.Matches(keyMsg, q.keys.Up):
		if q.selected > 0 {
			q.selected--
		}
		return q, nil
	case key.Matches(keyMsg, q.keys.Down):
		if q.selected < len(q.visible)-1 {
			q.selected++
		}
		return q, nil
	case key.Matches(keyMsg, q.keys.Close):
		return q.confirm(chooser.Modifiers{Alt: true})
	case key.Matches(keyMsg, q.keys.Primary):
		return q.confirm(chooser.Modifiers{Primary: true})
	case key.Matches(keyMsg, q.keys.Confirm):
		return q.confirm(chooser.Modifiers{})
	}

	before := q.filter.Value()
	var cmd tea.Cmd
	q.filter, cmd = q.filter.Update(keyMsg)
	if q.filter.Value() != before {
		q.refilter()
		q.selected = 0
	}
	return q, cmd
}

func (q *QuickPanel) confirm(mods chooser.Modifiers) (*QuickPanel, tea.Cmd) {
	idx := q.SelectedIndex()
	return q, func() tea.Msg {
		return QuickPanelConfirmMsg{Index: idx, Modifiers: mods}
	}
}

// refilter recomputes the visible rows. Matching is a case-insensitive
// substring test against the label and the path.
func (q *QuickPanel) refilter() {
	needle := strings.ToLower(strings.TrimSpace(q.filter.Value()))
	q.visible = q.visible[:0]
	for i, item := range q.items {
		if needle == "" || item.Empty ||
			strings.Contains(strings.ToLower(item.Label), needle) ||
			strings.Contains(strings.ToLower(item.Path), needle) {
			q.visible = append(q.visible, i)
		}
	}
	if q.selected >= len(q.visible) {
		q.selected = len(q.visible) - 1
	}
	if q.selected < 0 {
		q.selected = 0
	}
}

// View renders the quick panel.
func (q *QuickPanel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(q.title))
	b.WriteString("\n\n")
	b.WriteString(styles.FilterStyle.Render(q.filter.View()))
	b.WriteString("\n\n")

	rows := q.visibleWindow()
	for _, pos := range rows {
		item := q.items[q.visible[pos]]
		prefix := "  "
		style := styles.ItemStyle
		if pos == q.selected {
			prefix = "▶ "
			style = styles.SelectedItemStyle
		}

		if item.Empty {
			b.WriteString(prefix)
			b.WriteString(styles.MutedTextStyle.Render(item.Label))
			b.WriteString("\n")
			continue
		}

		icon := styles.IconProject
		if item.Kind == labeler.KindOpen {
			icon = styles.IconOpen
		}
		b.WriteString(prefix)
		b.WriteString(icon)
		b.WriteString(" ")
		b.WriteString(style.Render(item.Label))
		b.WriteString("\n")

		if pos == q.selected {
			b.WriteString(styles.PathStyle.Render(item.Path))
			b.WriteString("\n")
		}
	}
	if len(q.visible) == 0 {
		b.WriteString(styles.MutedTextStyle.Render("  No matches."))
		b.WriteString("\n")
	}

	if q.status != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorTextStyle.Render("⚠ " + q.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(q.helpView())
	return styles.PanelStyle.Render(b.String())
}

// visibleWindow returns the positions to draw so the selection stays on
// screen when the list is taller than the terminal.
func (q *QuickPanel) visibleWindow() []int {
	n := len(q.visible)
	limit := n
	if q.height > 0 {
		// Title, filter, path line, help and borders.
		limit = q.height - 10
		if limit < 3 {
			limit = 3
		}
	}
	if limit > n {
		limit = n
	}

	start := 0
	if q.selected >= limit {
		start = q.selected - limit + 1
	}
	rows := make([]int, 0, limit)
	for pos := start; pos < start+limit; pos++ {
		rows = append(rows, pos)
	}
	return rows
}

func (q *QuickPanel) helpView() string {
	bindings := []key.Binding{q.keys.Confirm, q.keys.Primary, q.keys.Close, q.keys.Cancel}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, styles.KeyStyle.Render(h.Key)+" "+styles.HelpStyle.Render(h.Desc))
	}
	return strings.Join(parts, styles.HelpStyle.Render(" · "))
}
