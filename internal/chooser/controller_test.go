package chooser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dbmrq/otp/internal/labeler"
)

type openCall struct {
	path        string
	newInstance bool
}

type fakeHost struct {
	existing map[string]bool
	open     []string
	closed   []string
	opened   []openCall
	closeErr error
	openErr  error
}

func (h *fakeHost) OpenResources() []string { return append([]string(nil), h.open...) }

func (h *fakeHost) CloseResource(path string) error {
	h.closed = append(h.closed, path)
	if h.closeErr != nil {
		return h.closeErr
	}
	kept := h.open[:0]
	for _, p := range h.open {
		if p != path {
			kept = append(kept, p)
		}
	}
	h.open = kept
	return nil
}

func (h *fakeHost) OpenOrFocus(path string, newInstance bool) error {
	h.opened = append(h.opened, openCall{path, newInstance})
	return h.openErr
}

func (h *fakeHost) PathExists(path string) bool { return h.existing[path] }

type fakeStore struct {
	paths    []string
	replaced [][]string
	readErr  error
}

func (s *fakeStore) Snapshot() ([]string, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return append([]string(nil), s.paths...), nil
}

func (s *fakeStore) Replace(paths []string) error {
	s.replaced = append(s.replaced, append([]string(nil), paths...))
	s.paths = append([]string(nil), paths...)
	return nil
}

type presentation struct {
	items    []labeler.Item
	selected int
}

type fakePresenter struct {
	shown []presentation
}

func (p *fakePresenter) Present(items []labeler.Item, selected int) {
	p.shown = append(p.shown, presentation{items, selected})
}

func (p *fakePresenter) last() presentation {
	return p.shown[len(p.shown)-1]
}

const (
	pathA = "/w/a/a.sublime-project"
	pathB = "/w/b/b.sublime-project"
	pathC = "/w/c/c.sublime-project"
)

func newFixture(history []string, open ...string) (*Controller, *fakeHost, *fakeStore, *fakePresenter) {
	host := &fakeHost{existing: map[string]bool{}, open: open}
	for _, p := range history {
		host.existing[p] = true
	}
	store := &fakeStore{paths: history}
	pres := &fakePresenter{}
	c := New(host, store, pres, labeler.New(".sublime-project"))
	return c, host, store, pres
}

func TestStart_PresentsMostRecentFirst(t *testing.T) {
	c, _, store, pres := newFixture([]string{pathA, pathB, pathC})

	outcome, err := c.Start(Request{SelectedIndex: 1, NewInstance: true})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if outcome != OutcomePresented {
		t.Errorf("outcome = %v, want presented", outcome)
	}

	if c.State() != StateAwaitingSelection {
		t.Errorf("state = %v, want awaiting_selection", c.State())
	}
	if len(pres.shown) != 1 {
		t.Fatalf("expected one presentation, got %d", len(pres.shown))
	}
	got := pres.last()
	var paths []string
	for _, it := range got.items {
		paths = append(paths, it.Path)
	}
	if want := []string{pathC, pathB, pathA}; !reflect.DeepEqual(paths, want) {
		t.Errorf("presented paths = %v, want %v", paths, want)
	}
	if got.selected != 1 {
		t.Errorf("selected = %d, want 1", got.selected)
	}
	if len(store.replaced) != 0 {
		t.Error("history without stale entries should not be rewritten")
	}
}

func TestStart_PrunesStaleEntries(t *testing.T) {
	c, host, store, pres := newFixture([]string{pathA, pathB, pathC})
	host.existing[pathB] = false

	if _, err := c.Start(Request{}); err != nil {
		t.Fatal(err)
	}

	if len(store.replaced) != 1 {
		t.Fatalf("expected one history rewrite, got %d", len(store.replaced))
	}
	if want := []string{pathA, pathC}; !reflect.DeepEqual(store.replaced[0], want) {
		t.Errorf("rewritten history = %v, want %v", store.replaced[0], want)
	}
	if n := len(pres.last().items); n != 2 {
		t.Errorf("presented %d items, want 2", n)
	}
}

func TestStart_ClampsSelectedIndex(t *testing.T) {
	c, _, _, pres := newFixture([]string{pathA})

	if _, err := c.Start(Request{SelectedIndex: 5}); err != nil {
		t.Fatal(err)
	}
	if pres.last().selected != 0 {
		t.Errorf("selected = %d, want clamped to 0", pres.last().selected)
	}
}

func TestStart_EmptyHistoryShowsPlaceholder(t *testing.T) {
	c, host, _, pres := newFixture(nil)

	if _, err := c.Start(Request{SelectedIndex: 1}); err != nil {
		t.Fatal(err)
	}
	items := pres.last().items
	if len(items) != 1 || !items[0].Empty {
		t.Fatalf("expected only the placeholder, got %+v", items)
	}

	outcome, err := c.Confirm(ConfirmEvent{Index: 0})
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeNoop {
		t.Errorf("outcome = %v, want noop", outcome)
	}
	if len(host.opened) != 0 || len(host.closed) != 0 {
		t.Error("confirming the placeholder must not touch the host")
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestStart_UnreadableHistoryPresentsPlaceholder(t *testing.T) {
	c, _, store, pres := newFixture([]string{pathA})
	store.readErr = errors.New("disk gone")

	if _, err := c.Start(Request{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if items := pres.last().items; len(items) != 1 || !items[0].Empty {
		t.Errorf("expected placeholder, got %+v", items)
	}
}

func TestStart_ChosenPathOpensDirectly(t *testing.T) {
	c, host, _, pres := newFixture([]string{pathA})

	outcome, err := c.Start(Request{ChosenPath: pathA, NewInstance: false})
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeOpened {
		t.Errorf("outcome = %v, want opened", outcome)
	}
	if len(pres.shown) != 0 {
		t.Error("chosen path should skip the list")
	}
	if want := []openCall{{pathA, false}}; !reflect.DeepEqual(host.opened, want) {
		t.Errorf("opened = %v, want %v", host.opened, want)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestStart_ChosenPathMissingIsNoop(t *testing.T) {
	c, host, _, _ := newFixture(nil)

	outcome, err := c.Start(Request{ChosenPath: "/gone.sublime-project"})
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeNoop {
		t.Errorf("outcome = %v, want noop", outcome)
	}
	if len(host.opened) != 0 {
		t.Error("missing chosen path must not be opened")
	}
}

func TestStart_RepairsDuplicateHistory(t *testing.T) {
	c, _, store, pres := newFixture([]string{pathA, pathB, pathA})

	if _, err := c.Start(Request{}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if c.State() != StateAwaitingSelection {
		t.Errorf("state = %v, want awaiting_selection", c.State())
	}

	var paths []string
	for _, it := range pres.last().items {
		paths = append(paths, it.Path)
	}
	if want := []string{pathA, pathB}; !reflect.DeepEqual(paths, want) {
		t.Errorf("presented paths = %v, want %v", paths, want)
	}
	if want := []string{pathB, pathA}; !reflect.DeepEqual(store.paths, want) {
		t.Errorf("stored history = %v, want %v", store.paths, want)
	}

	// The repaired history keeps working on the next run.
	c.Cancel()
	if _, err := c.Start(Request{}); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if len(store.replaced) != 1 {
		t.Errorf("history rewritten %d times, want 1", len(store.replaced))
	}
}

func TestCleanHistory(t *testing.T) {
	exists := func(p string) bool { return p != pathC }
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{"clean", []string{pathA, pathB}, []string{pathA, pathB}},
		{"stale dropped", []string{pathA, pathC, pathB}, []string{pathA, pathB}},
		{"last occurrence wins", []string{pathA, pathB, pathA}, []string{pathB, pathA}},
		{"all duplicates", []string{pathA, pathA}, []string{pathA}},
		{"empty", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanHistory(tt.raw, exists); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("cleanHistory() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfirm_OpenModes(t *testing.T) {
	tests := []struct {
		name       string
		mods       Modifiers
		defaultNew bool
		wantNew    bool
	}{
		{"plain default new", Modifiers{}, true, true},
		{"plain default switch", Modifiers{}, false, false},
		{"primary flips new", Modifiers{Primary: true}, true, false},
		{"primary flips switch", Modifiers{Primary: true}, false, true},
		{"shift is ignored", Modifiers{Shift: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, host, _, _ := newFixture([]string{pathA, pathB})
			if _, err := c.Start(Request{NewInstance: tt.defaultNew}); err != nil {
				t.Fatal(err)
			}

			outcome, err := c.Confirm(ConfirmEvent{Index: 1, Modifiers: tt.mods})
			if err != nil {
				t.Fatal(err)
			}
			if outcome != OutcomeOpened {
				t.Errorf("outcome = %v, want opened", outcome)
			}
			if want := []openCall{{pathA, tt.wantNew}}; !reflect.DeepEqual(host.opened, want) {
				t.Errorf("opened = %v, want %v", host.opened, want)
			}
			if c.State() != StateIdle {
				t.Errorf("state = %v, want idle", c.State())
			}
		})
	}
}

func TestConfirm_AltClosesAndRepresents(t *testing.T) {
	c, host, _, pres := newFixture([]string{pathA, pathB, pathC}, pathB)

	if _, err := c.Start(Request{SelectedIndex: 0}); err != nil {
		t.Fatal(err)
	}
	first := pres.last().items
	if first[1].Path != pathB || first[1].Kind != labeler.KindOpen {
		t.Fatalf("pathB should be presented as open at index 1, got %+v", first[1])
	}

	outcome, err := c.Confirm(ConfirmEvent{Index: 1, Modifiers: Modifiers{Alt: true}})
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeRepresented {
		t.Fatalf("outcome = %v, want represented", outcome)
	}
	if want := []string{pathB}; !reflect.DeepEqual(host.closed, want) {
		t.Errorf("closed = %v, want %v", host.closed, want)
	}
	if len(host.opened) != 0 {
		t.Error("close must not open anything")
	}
	if len(pres.shown) != 2 {
		t.Fatalf("expected a second presentation, got %d", len(pres.shown))
	}
	second := pres.last()
	if second.selected != 1 {
		t.Errorf("selected after close = %d, want 1", second.selected)
	}
	if second.items[1].Kind != labeler.KindProject {
		t.Errorf("closed project should no longer be marked open")
	}

	session, ok := c.Session()
	if !ok {
		t.Fatal("session should still be active")
	}
	if want := []string{pathB}; !reflect.DeepEqual(session.Omitted, want) {
		t.Errorf("omitted = %v, want %v", session.Omitted, want)
	}
	if c.State() != StateAwaitingSelection {
		t.Errorf("state = %v, want awaiting_selection", c.State())
	}
}

func TestConfirm_AltIgnoresDefaultMode(t *testing.T) {
	for _, defaultNew := range []bool{true, false} {
		action := Decide(Modifiers{Alt: true}, defaultNew)
		if action.Kind != ActionClose {
			t.Errorf("Decide(alt, %v).Kind = %v, want close", defaultNew, action.Kind)
		}
		action = Decide(Modifiers{Alt: true, Primary: true}, defaultNew)
		if action.Kind != ActionClose {
			t.Errorf("alt should win over primary")
		}
	}
}

func TestConfirm_AssumeClosedStaysOmitted(t *testing.T) {
	// The host still reports pathB open, as happens while an editor shuts down.
	c, host, _, pres := newFixture([]string{pathA, pathB}, pathA, pathB)
	host.closeErr = errors.New("still closing")

	if _, err := c.Start(Request{AssumeClosed: []string{pathB}}); err != nil {
		t.Fatal(err)
	}
	for _, it := range pres.last().items {
		if it.Path == pathB && it.Kind == labeler.KindOpen {
			t.Error("assume-closed path must not be presented as open")
		}
	}

	// Closing pathA fails on the host side; the list is still shown again.
	outcome, err := c.Confirm(ConfirmEvent{Index: 1, Modifiers: Modifiers{Alt: true}})
	if outcome != OutcomeRepresented {
		t.Errorf("outcome = %v, want represented", outcome)
	}
	if err == nil {
		t.Error("close error should be reported")
	}
	for _, it := range pres.last().items {
		if it.Kind == labeler.KindOpen {
			t.Errorf("%s should be treated as closed", it.Path)
		}
	}
}

func TestConfirm_AltOnClosedProjectDoesNotCallHost(t *testing.T) {
	c, host, _, pres := newFixture([]string{pathA, pathB})

	if _, err := c.Start(Request{}); err != nil {
		t.Fatal(err)
	}
	outcome, _ := c.Confirm(ConfirmEvent{Index: 0, Modifiers: Modifiers{Alt: true}})
	if outcome != OutcomeRepresented {
		t.Errorf("outcome = %v, want represented", outcome)
	}
	if len(host.closed) != 0 {
		t.Errorf("nothing was open, CloseResource should not be called: %v", host.closed)
	}
	if len(pres.shown) != 2 {
		t.Errorf("expected the list to be shown again")
	}
}

func TestConfirm_CloseRepeatsTerminate(t *testing.T) {
	history := []string{pathA, pathB, pathC}
	c, host, _, _ := newFixture(history, pathA, pathB, pathC)

	if _, err := c.Start(Request{}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := c.Confirm(ConfirmEvent{Index: i, Modifiers: Modifiers{Alt: true}}); err != nil {
			t.Fatal(err)
		}
	}
	if len(host.open) != 0 {
		t.Errorf("all projects should be closed, still open: %v", host.open)
	}
	if len(host.closed) != 3 {
		t.Errorf("expected exactly 3 close calls, got %d", len(host.closed))
	}

	// Once everything is closed, another close has nothing to do.
	if _, err := c.Confirm(ConfirmEvent{Index: 0, Modifiers: Modifiers{Alt: true}}); err != nil {
		t.Fatal(err)
	}
	if len(host.closed) != 3 {
		t.Errorf("no further close calls expected, got %d", len(host.closed))
	}
}

func TestConfirm_VanishedPathIsNoop(t *testing.T) {
	c, host, _, _ := newFixture([]string{pathA, pathB})

	if _, err := c.Start(Request{}); err != nil {
		t.Fatal(err)
	}
	host.existing[pathA] = false

	outcome, err := c.Confirm(ConfirmEvent{Index: 1})
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeNoop {
		t.Errorf("outcome = %v, want noop", outcome)
	}
	if len(host.opened) != 0 {
		t.Error("vanished project must not be opened")
	}
}

func TestConfirm_OutOfRangeIsNoop(t *testing.T) {
	c, host, _, _ := newFixture([]string{pathA})
	if _, err := c.Start(Request{}); err != nil {
		t.Fatal(err)
	}

	outcome, _ := c.Confirm(ConfirmEvent{Index: -1})
	if outcome != OutcomeNoop || len(host.opened) != 0 {
		t.Errorf("outcome = %v, opened = %v", outcome, host.opened)
	}
}

func TestConfirm_WithoutSessionIsIgnored(t *testing.T) {
	c, host, _, _ := newFixture([]string{pathA})

	outcome, err := c.Confirm(ConfirmEvent{Index: 0})
	if err != nil || outcome != OutcomeIgnored {
		t.Errorf("Confirm() = %v, %v; want ignored", outcome, err)
	}
	if len(host.opened) != 0 {
		t.Error("ignored confirmation must not open")
	}
}

func TestConfirm_OpenErrorIsReturned(t *testing.T) {
	c, host, _, _ := newFixture([]string{pathA})
	host.openErr = errors.New("editor missing")

	if _, err := c.Start(Request{}); err != nil {
		t.Fatal(err)
	}
	outcome, err := c.Confirm(ConfirmEvent{Index: 0})
	if outcome != OutcomeOpened {
		t.Errorf("outcome = %v, want opened", outcome)
	}
	if err == nil {
		t.Error("open error should be returned")
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestCancel(t *testing.T) {
	c, host, _, _ := newFixture([]string{pathA})
	if _, err := c.Start(Request{}); err != nil {
		t.Fatal(err)
	}

	c.Cancel()
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if _, ok := c.Session(); ok {
		t.Error("session should be gone after Cancel")
	}
	if outcome, _ := c.Confirm(ConfirmEvent{Index: 0}); outcome != OutcomeIgnored {
		t.Errorf("confirm after cancel = %v, want ignored", outcome)
	}
	if len(host.opened) != 0 {
		t.Error("cancel must not open anything")
	}
}

func TestOutcomeDone(t *testing.T) {
	if !OutcomeOpened.Done() || !OutcomeNoop.Done() {
		t.Error("opened and noop end the session")
	}
	if OutcomeRepresented.Done() || OutcomeIgnored.Done() || OutcomePresented.Done() {
		t.Error("represented, presented and ignored do not end the session")
	}
}
