// Package chooser implements the "open from history" interaction: present the
// remembered projects, wait for a confirmation, then open, switch to, or close
// the chosen project depending on the modifiers held.
//
// The controller never blocks. Start and Confirm run on the caller's event
// loop; the presenter shows the list and reports back through Confirm.
package chooser

import (
	"github.com/dbmrq/otp/internal/labeler"
	"github.com/dbmrq/otp/internal/logging"
)

// Host is the editor side: which projects are open and how to open or close one.
type Host interface {
	// OpenResources returns the descriptor paths currently open in an editor.
	OpenResources() []string
	// CloseResource closes the editor bound to path, if any.
	CloseResource(path string) error
	// OpenOrFocus opens path in a new instance or switches the current one to it.
	OpenOrFocus(path string, newInstance bool) error
	// PathExists reports whether the descriptor file still exists.
	PathExists(path string) bool
}

// Store holds the remembered paths, most recent last.
type Store interface {
	Snapshot() ([]string, error)
	Replace(paths []string) error
}

// Presenter shows a list and later reports the user's choice via Confirm.
// Present must return without waiting for the user.
type Presenter interface {
	Present(items []labeler.Item, selected int)
}

// State is the controller's position in the present, confirm, act cycle.
type State int

const (
	// StateIdle means no session is active.
	StateIdle State = iota
	// StateAwaitingSelection means a list is shown and a confirmation is expected.
	StateAwaitingSelection
	// StateConfirmed means a confirmation arrived and is being decided.
	StateConfirmed
	// StateDispatching means the decided action is being carried out.
	StateDispatching
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StateConfirmed:
		return "confirmed"
	case StateDispatching:
		return "dispatching"
	default:
		return "idle"
	}
}

// Request starts a chooser session.
type Request struct {
	// ChosenPath skips the list and opens this path directly.
	ChosenPath string
	// AssumeClosed lists paths to treat as not open even if the host says so.
	AssumeClosed []string
	// SelectedIndex is the row to highlight initially.
	SelectedIndex int
	// NewInstance is the open mode used when no modifier is held.
	NewInstance bool
}

// ConfirmEvent is the user's confirmation of a row.
type ConfirmEvent struct {
	Index     int
	Modifiers Modifiers
}

// Outcome reports what a confirmation led to.
type Outcome int

const (
	// OutcomeIgnored means no list was awaiting a confirmation.
	OutcomeIgnored Outcome = iota
	// OutcomeNoop means the session ended without doing anything.
	OutcomeNoop
	// OutcomeOpened means an open request was sent to the host; the session ended.
	OutcomeOpened
	// OutcomeRepresented means a project was closed and the list shown again.
	OutcomeRepresented
	// OutcomePresented means a new session showed the list.
	OutcomePresented
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeOpened:
		return "opened"
	case OutcomeRepresented:
		return "represented"
	case OutcomePresented:
		return "presented"
	default:
		return "ignored"
	}
}

// Done reports whether the outcome ends the session.
func (o Outcome) Done() bool {
	return o == OutcomeNoop || o == OutcomeOpened
}

// Session is the per-invocation state of the chooser.
type Session struct {
	// Omitted are paths treated as closed. It only grows during a session.
	Omitted []string
	// SelectedIndex is the row highlighted on the next presentation.
	SelectedIndex int
	// NewInstance is the default open mode.
	NewInstance bool
	// Pending is the action being dispatched, if any.
	Pending Action

	open map[string]bool
}

// Controller coordinates one chooser session at a time.
type Controller struct {
	host      Host
	store     Store
	presenter Presenter
	labeler   *labeler.Labeler

	state   State
	session *Session
	items   []labeler.Item
}

// New creates a Controller.
func New(host Host, store Store, presenter Presenter, lab *labeler.Labeler) *Controller {
	return &Controller{
		host:      host,
		store:     store,
		presenter: presenter,
		labeler:   lab,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Items returns the list most recently presented.
func (c *Controller) Items() []labeler.Item {
	out := make([]labeler.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Session returns a copy of the active session, if any.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	s := *c.session
	s.Omitted = append([]string(nil), c.session.Omitted...)
	return s, true
}

// Start begins a session. With ChosenPath set the path is opened directly
// (OutcomeOpened, or OutcomeNoop when the file is gone) and the controller
// stays idle. Otherwise the list is presented (OutcomePresented). Starting
// while a session is active replaces it.
func (c *Controller) Start(req Request) (Outcome, error) {
	c.end()

	if req.ChosenPath != "" {
		if !c.host.PathExists(req.ChosenPath) {
			logging.Warn("chosen project no longer exists", "path", req.ChosenPath)
			return OutcomeNoop, nil
		}
		logging.Debug("opening chosen project", "path", req.ChosenPath, "new_instance", req.NewInstance)
		return OutcomeOpened, c.host.OpenOrFocus(req.ChosenPath, req.NewInstance)
	}

	c.session = &Session{
		SelectedIndex: req.SelectedIndex,
		NewInstance:   req.NewInstance,
	}
	for _, p := range req.AssumeClosed {
		c.session.Omitted = appendUnique(c.session.Omitted, p)
	}

	if err := c.present(); err != nil {
		c.end()
		return OutcomeNoop, err
	}
	return OutcomePresented, nil
}

// Confirm handles the user's confirmation. Errors from the host are returned
// for display, but the state machine has already moved on.
func (c *Controller) Confirm(ev ConfirmEvent) (Outcome, error) {
	if c.state != StateAwaitingSelection {
		logging.Debug("confirmation ignored", "state", c.state.String())
		return OutcomeIgnored, nil
	}
	c.state = StateConfirmed

	if ev.Index < 0 || ev.Index >= len(c.items) {
		c.end()
		return OutcomeNoop, nil
	}
	item := c.items[ev.Index]
	if item.Empty || !c.host.PathExists(item.Path) {
		c.end()
		return OutcomeNoop, nil
	}

	action := Decide(ev.Modifiers, c.session.NewInstance)
	action.Path = item.Path
	c.session.Pending = action
	c.state = StateDispatching

	switch action.Kind {
	case ActionClose:
		return c.closeAndRepresent(action.Path, ev.Index)
	case ActionOpen:
		logging.Info("opening project", "path", action.Path, "new_instance", action.NewInstance)
		err := c.host.OpenOrFocus(action.Path, action.NewInstance)
		c.end()
		return OutcomeOpened, err
	default:
		c.end()
		return OutcomeNoop, nil
	}
}

// Cancel ends the session without side effects.
func (c *Controller) Cancel() {
	c.end()
}

func (c *Controller) closeAndRepresent(path string, index int) (Outcome, error) {
	var closeErr error
	if c.session.open[path] {
		logging.Info("closing project", "path", path)
		if closeErr = c.host.CloseResource(path); closeErr != nil {
			logging.Warn("close failed", "path", path, "error", closeErr)
		}
	}

	c.session.Omitted = appendUnique(c.session.Omitted, path)
	c.session.SelectedIndex = index
	c.session.Pending = Action{}

	if err := c.present(); err != nil {
		c.end()
		return OutcomeNoop, err
	}
	return OutcomeRepresented, closeErr
}

// present refreshes the history snapshot, labels it, and hands it to the
// presenter.
func (c *Controller) present() error {
	raw, err := c.store.Snapshot()
	if err != nil {
		logging.Warn("history unreadable, presenting empty list", "error", err)
		raw = nil
	}

	existing := cleanHistory(raw, c.host.PathExists)
	if len(existing) != len(raw) {
		logging.Debug("pruning stale history entries", "removed", len(raw)-len(existing))
		if err := c.store.Replace(existing); err != nil {
			logging.Warn("failed to save pruned history", "error", err)
		}
	}

	open := make(map[string]bool)
	for _, p := range c.host.OpenResources() {
		open[p] = true
	}
	for _, p := range c.session.Omitted {
		delete(open, p)
	}
	c.session.open = open

	recentFirst := make([]string, len(existing))
	for i, p := range existing {
		recentFirst[len(existing)-1-i] = p
	}

	items, err := c.labeler.Label(recentFirst, open)
	if err != nil {
		return err
	}

	c.items = items
	c.session.SelectedIndex = clamp(c.session.SelectedIndex, len(items))
	c.state = StateAwaitingSelection
	c.presenter.Present(c.Items(), c.session.SelectedIndex)
	return nil
}

// cleanHistory drops paths that no longer exist and repeated paths, keeping
// the most recent occurrence of each. Order is otherwise preserved.
func cleanHistory(raw []string, exists func(string) bool) []string {
	seen := make(map[string]bool, len(raw))
	kept := make([]string, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		p := raw[i]
		if seen[p] || !exists(p) {
			continue
		}
		seen[p] = true
		kept = append(kept, p)
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

func (c *Controller) end() {
	c.state = StateIdle
	c.session = nil
	c.items = nil
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
