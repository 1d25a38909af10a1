package notebook

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Paintersrp/nnt/internal/api"
	"github.com/Paintersrp/nnt/internal/checkbox"
	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/prefs"
	"github.com/Paintersrp/nnt/internal/tags"
)

type harness struct {
	app     *App
	backend *fakeBackend
	queue   *queue
	obs     *recorder
	prefs   *memPrefs
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		backend: newFakeBackend(),
		queue:   &queue{},
		obs:     newRecorder(),
		prefs:   &memPrefs{},
	}
	h.app = New(Options{
		Backend:   h.backend,
		Scheduler: h.queue,
		Observer:  h.obs,
		Prefs:     h.prefs,
		Now:       func() time.Time { return time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC) },
	})
	return h
}

func loadedHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.app.Load()
	h.queue.runAll()
	if !h.app.Loaded() {
		t.Fatalf("expected notebook to load, messages: %+v", h.obs.messages)
	}
	return h
}

func (h *harness) note(t *testing.T, id note.ID) *NoteController {
	t.Helper()
	c, err := h.app.Note(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestLoadBuildsControllers(t *testing.T) {
	h := loadedHarness(t)

	if len(h.app.Notes()) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(h.app.Notes()))
	}
	if got := h.app.Tags().All(); !reflect.DeepEqual(got, []string{"", "work", "home"}) {
		t.Fatalf("unexpected tags %q", got)
	}
	if h.obs.counts != (Counts{Notes: 3, Todos: 3}) {
		t.Fatalf("unexpected counts %+v", h.obs.counts)
	}

	a := h.note(t, "a.md")
	if a.Mode() != ModeDisplay || a.RevertAvailable() {
		t.Fatalf("expected a fresh display-mode controller")
	}
	if !a.TodoVisible() || h.note(t, "b.md").TodoVisible() {
		t.Fatalf("expected only notes with todos to show a todo list")
	}
	if a.Index() >= h.note(t, "c.md").Index() {
		t.Fatalf("expected indexes in load order")
	}
}

func TestLoadRestoresUncheckedTags(t *testing.T) {
	h := newHarness(t)
	h.prefs.state = prefs.State{NotChecked: []string{"home", tags.None}}
	h.app.Load()
	h.queue.runAll()

	if got := h.app.Tags().Checked(true); !reflect.DeepEqual(got, []string{"work"}) {
		t.Fatalf("expected only work checked, got %q", got)
	}
	if h.obs.counts != (Counts{Notes: 1, Todos: 2}) {
		t.Fatalf("expected counts of visible notes only, got %+v", h.obs.counts)
	}
	if h.note(t, "b.md").Visible() || h.note(t, "c.md").Visible() {
		t.Fatalf("expected untagged and home notes hidden")
	}
}

func TestLoadFailureIsAtomic(t *testing.T) {
	h := newHarness(t)
	h.backend.notesErr = &api.StatusError{Code: 500, Message: "boom"}
	h.app.Load()
	h.queue.runAll()

	if h.app.Loaded() || len(h.app.Notes()) != 0 || h.app.Tags().Len() != 0 {
		t.Fatalf("expected nothing installed after a failed load")
	}
	want := []message{{"Network error: Couldn't load notes", "boom"}}
	if !reflect.DeepEqual(h.obs.messages, want) {
		t.Fatalf("expected %+v, got %+v", want, h.obs.messages)
	}

	h.backend.notesErr = nil
	h.backend.tagsErr = errors.New("offline")
	h.app.Load()
	h.queue.runAll()
	if got := h.obs.messages[1].title; got != "Network error: Couldn't load tags" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestTodoClickPatchesSource(t *testing.T) {
	h := loadedHarness(t)
	a := h.note(t, "a.md")

	if err := h.app.ClickCheckbox("a.md", TodoView, 1, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Both views show the click while the source is fetched.
	if !a.TodoChecked(1) || !a.InlineChecked(1) {
		t.Fatalf("expected both views checked before the fetch completes")
	}
	if h.app.PendingCount() != 0 {
		t.Fatalf("expected no registration before the source is patched")
	}

	h.queue.runAll()

	if got := *a.Record().Source; got != "- [ ] one\n- [x] two\n" {
		t.Fatalf("unexpected source %q", got)
	}
	if h.obs.saveCount != 1 || !a.RevertAvailable() {
		t.Fatalf("expected registration and revert, got count %d", h.obs.saveCount)
	}

	key, payload := a.Pending()
	if key != a.Index() || payload.Replace != "a.md" || *payload.Source != "- [ ] one\n- [x] two\n" {
		t.Fatalf("unexpected payload %d %+v", key, payload)
	}
}

func TestInlineClickUpdatesTodoView(t *testing.T) {
	h := loadedHarness(t)
	a := h.note(t, "a.md")

	if err := h.app.ClickCheckbox("a.md", InlineView, 0, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.queue.runAll()

	if !a.TodoChecked(0) || a.TodoChecked(1) {
		t.Fatalf("expected only todo 0 checked")
	}
	if v, _ := a.Record().Checked(0); !v {
		t.Fatalf("expected source checkbox 0 checked")
	}
}

func TestConcurrentClicksShareOneFetch(t *testing.T) {
	h := loadedHarness(t)

	_ = h.app.ClickCheckbox("a.md", TodoView, 0, true)
	_ = h.app.ClickCheckbox("a.md", TodoView, 1, true)
	h.note(t, "a.md").Edit()

	if h.queue.len() != 1 {
		t.Fatalf("expected a single queued fetch, got %d", h.queue.len())
	}
	h.queue.runAll()

	if h.backend.sourceCalls["a.md"] != 1 {
		t.Fatalf("expected one source request, got %d", h.backend.sourceCalls["a.md"])
	}
	a := h.note(t, "a.md")
	if a.Mode() != ModeEdit {
		t.Fatalf("expected the queued edit to complete")
	}
	if got := a.Session().Value(); got != "- [x] one\n- [x] two\n" {
		t.Fatalf("expected clicks applied before the edit opened, got %q", got)
	}
}

func TestClickRejectedInEditMode(t *testing.T) {
	h := loadedHarness(t)
	a := h.note(t, "a.md")
	a.Edit()
	h.queue.runAll()

	err := h.app.ClickCheckbox("a.md", TodoView, 0, true)
	if !errors.Is(err, ErrEditMode) {
		t.Fatalf("expected ErrEditMode, got %v", err)
	}
	if a.TodoChecked(0) {
		t.Fatalf("expected the rejected click to leave the todo unchecked")
	}
	if h.app.PendingCount() != 0 {
		t.Fatalf("expected no registration")
	}
}

func TestClickQueuedBehindEditIsReverted(t *testing.T) {
	h := loadedHarness(t)
	a := h.note(t, "a.md")

	a.Edit()
	_ = h.app.ClickCheckbox("a.md", TodoView, 0, true)
	h.queue.runAll()

	if a.Mode() != ModeEdit {
		t.Fatalf("expected edit mode")
	}
	if a.TodoChecked(0) || a.Session().Value() != "- [ ] one\n- [ ] two\n" {
		t.Fatalf("expected the click to be undone once the edit session owns the source")
	}
}

func TestFetchFailureLeavesStateUnchanged(t *testing.T) {
	h := loadedHarness(t)
	h.backend.sourceErr = &api.StatusError{Code: 404, Message: "Note not found"}
	a := h.note(t, "a.md")

	_ = h.app.ClickCheckbox("a.md", TodoView, 0, true)
	a.Edit()
	h.queue.runAll()

	if a.TodoChecked(0) || a.InlineChecked(0) {
		t.Fatalf("expected visual state restored")
	}
	if a.Mode() != ModeDisplay || a.Record().HasSource() || h.app.PendingCount() != 0 {
		t.Fatalf("expected no transition and no registration")
	}
	if len(h.obs.messages) != 1 || h.obs.messages[0].detail != "Note not found" {
		t.Fatalf("expected one message with the server text, got %+v", h.obs.messages)
	}
}

func TestEditRegistersOnlyOnChange(t *testing.T) {
	h := loadedHarness(t)
	b := h.note(t, "b.md")
	b.Edit()
	h.queue.runAll()

	if b.Mode() != ModeEdit || !b.RevertAvailable() {
		t.Fatalf("expected edit mode with revert available")
	}
	if h.app.PendingCount() != 0 {
		t.Fatalf("expected entering edit not to register")
	}

	b.Session().SetValue("plain\nmore\n")
	if h.app.PendingCount() != 1 {
		t.Fatalf("expected a text change to register")
	}
	_, payload := b.Pending()
	if *payload.Source != "plain\nmore\n" || payload.Replace != "b.md" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	b.Session().SetValue("plain\n")
	if h.app.PendingCount() != 0 {
		t.Fatalf("expected editing back to the original to unregister")
	}
}

func TestToggleTodoInEditSession(t *testing.T) {
	h := loadedHarness(t)
	b := h.note(t, "b.md")

	if b.ToggleTodo() {
		t.Fatalf("expected toggle to do nothing outside edit mode")
	}
	b.Edit()
	h.queue.runAll()

	b.Session().Select(checkbox.Cursor(0))
	if !b.ToggleTodo() {
		t.Fatalf("expected toggle to change the buffer")
	}
	if b.Session().Value() != "- [ ] plain\n" || h.app.PendingCount() != 1 {
		t.Fatalf("unexpected buffer %q or count %d", b.Session().Value(), h.app.PendingCount())
	}
}

func TestRevert(t *testing.T) {
	h := loadedHarness(t)
	a := h.note(t, "a.md")

	_ = h.app.ClickCheckbox("a.md", TodoView, 0, true)
	h.queue.runAll()
	a.Edit()
	h.queue.runAll()
	a.Session().SetValue("changed")

	a.Revert()

	if a.Mode() != ModeDisplay || a.RevertAvailable() || a.Session() != nil {
		t.Fatalf("expected display mode without revert")
	}
	if a.Record().HasSource() {
		t.Fatalf("expected fetched source to be dropped")
	}
	if a.TodoChecked(0) || a.InlineChecked(0) {
		t.Fatalf("expected checkbox state reset")
	}
	if h.app.PendingCount() != 0 {
		t.Fatalf("expected registration removed")
	}
	if _, payload := a.Pending(); !payload.Empty() {
		t.Fatalf("expected an empty payload, got %+v", payload)
	}
}

func TestNewNote(t *testing.T) {
	h := loadedHarness(t)
	h.app.Tags().Set("home", false)

	n := h.app.NewNote()
	want := "date: 2024-05-03\ntags: work\nname:\n\n"
	if n.Value() != want {
		t.Fatalf("expected %q, got %q", want, n.Value())
	}
	if h.app.PendingCount() != 1 {
		t.Fatalf("expected a new note to be pending immediately")
	}
	if row, _ := n.Session().Position(n.Session().Cursor()); row != 4 {
		t.Fatalf("expected cursor on the body line, got row %d", row)
	}

	key, payload := n.Pending()
	if key != -n.Index() || payload.Replace != "" || *payload.Source != want {
		t.Fatalf("unexpected payload %d %+v", key, payload)
	}

	n.Discard()
	if h.app.PendingCount() != 0 || len(h.app.NewNotes()) != 0 {
		t.Fatalf("expected discard to remove the note and its registration")
	}
}

func TestSaveOrdersBatchAndReloads(t *testing.T) {
	h := loadedHarness(t)
	h.app.Tags().Set("home", false)

	first := h.app.NewNote()
	first.Session().SetValue(first.Value() + "first")
	second := h.app.NewNote()
	second.Session().SetValue(second.Value() + "second")

	_ = h.app.ClickCheckbox("c.md", InlineView, 0, true)
	_ = h.app.ClickCheckbox("a.md", TodoView, 0, true)
	h.queue.runAll()

	h.app.Save()
	h.queue.runAll()

	if len(h.backend.saved) != 1 {
		t.Fatalf("expected one save request, got %d", len(h.backend.saved))
	}
	batch := h.backend.saved[0]
	var order []string
	for _, p := range batch {
		order = append(order, string(p.Replace)+"|"+*p.Source)
	}
	want := []string{
		"|date: 2024-05-03\ntags: work\nname:\n\nsecond",
		"|date: 2024-05-03\ntags: work\nname:\n\nfirst",
		"a.md|- [x] one\n- [ ] two\n",
		"c.md|- [x] x\n",
	}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected %q, got %q", want, order)
	}

	if h.obs.hidden != 1 {
		t.Fatalf("expected the message to be hidden before saving")
	}
	if h.obs.loads != 2 || h.app.PendingCount() != 0 || len(h.app.NewNotes()) != 0 {
		t.Fatalf("expected a reload with a clean registry")
	}
	if got := h.app.Tags().Checked(false); !reflect.DeepEqual(got, []string{"home"}) {
		t.Fatalf("expected reload to keep home unchecked, got %q", got)
	}
	if h.note(t, "a.md").Record().HasSource() {
		t.Fatalf("expected fresh records after reload")
	}
}

func TestSaveFailureKeepsRegistrations(t *testing.T) {
	h := loadedHarness(t)
	h.backend.saveErr = &api.StatusError{Code: 400, Message: "Note is missing a date"}

	h.app.NewNote()
	h.app.Save()
	h.queue.runAll()

	if h.app.PendingCount() != 1 || h.obs.loads != 1 {
		t.Fatalf("expected registration kept and no reload")
	}
	want := message{"Couldn't save note(s)", "Note is missing a date"}
	if len(h.obs.messages) != 1 || h.obs.messages[0] != want {
		t.Fatalf("expected %+v, got %+v", want, h.obs.messages)
	}

	h.backend.saveErr = nil
	h.app.Save()
	h.queue.runAll()
	if h.app.PendingCount() != 0 || len(h.backend.saved) != 1 {
		t.Fatalf("expected the retry to save")
	}
}

func TestSaveWithNothingPending(t *testing.T) {
	h := loadedHarness(t)
	h.app.Save()
	if h.queue.len() != 0 || h.obs.hidden != 0 {
		t.Fatalf("expected save to do nothing")
	}
}

func TestStaleFetchIgnoredAfterReload(t *testing.T) {
	h := loadedHarness(t)
	old := h.note(t, "a.md")

	_ = h.app.ClickCheckbox("a.md", TodoView, 0, true)
	h.app.Reload()

	// Run the reload before the fetch that was issued first.
	h.queue.run(1)
	h.queue.runAll()

	fresh := h.note(t, "a.md")
	if fresh == old {
		t.Fatalf("expected a new controller after reload")
	}
	if fresh.Record().HasSource() || old.Record().HasSource() {
		t.Fatalf("expected the stale fetch to be dropped")
	}
	if h.app.PendingCount() != 0 {
		t.Fatalf("expected nothing pending, got %d", h.app.PendingCount())
	}
}

func TestFailedReloadKeepsPendingChanges(t *testing.T) {
	h := loadedHarness(t)
	a := h.note(t, "a.md")

	_ = h.app.ClickCheckbox("a.md", TodoView, 0, true)
	h.queue.runAll()
	n := h.app.NewNote()
	n.Session().SetValue(n.Value() + "draft")

	h.backend.tagsErr = errors.New("offline")
	h.app.Reload()
	h.queue.runAll()

	if got := h.app.PendingCount(); got != 2 {
		t.Fatalf("expected 2 pending after a failed reload, got %d", got)
	}
	if got := len(h.app.NewNotes()); got != 1 {
		t.Fatalf("expected the new note kept, got %d", got)
	}
	if h.note(t, "a.md") != a || !a.RevertAvailable() || !a.TodoChecked(0) {
		t.Fatalf("expected the checked controller to stay installed")
	}

	h.backend.tagsErr = nil
	h.app.Save()
	h.queue.runAll()
	if len(h.backend.saved) != 1 || len(h.backend.saved[0]) != 2 {
		t.Fatalf("expected one batch of 2 payloads, got %+v", h.backend.saved)
	}
	if h.app.PendingCount() != 0 || len(h.app.NewNotes()) != 0 {
		t.Fatalf("expected the reload after saving to clear the registry")
	}
}

func TestFailedReloadCompletesInflightFetch(t *testing.T) {
	h := loadedHarness(t)
	a := h.note(t, "a.md")

	_ = h.app.ClickCheckbox("a.md", TodoView, 0, true)
	h.backend.notesErr = errors.New("offline")
	h.app.Reload()

	// Fail the reload before the fetch issued first completes.
	h.queue.run(1)
	h.queue.runAll()

	if !a.Record().HasSource() || h.app.PendingCount() != 1 {
		t.Fatalf("expected the click to complete and register")
	}
}

func TestTagChangesPersistAndRefilter(t *testing.T) {
	h := loadedHarness(t)

	h.app.ClickTag("home")
	if h.obs.counts != (Counts{Notes: 1, Todos: 1}) {
		t.Fatalf("unexpected counts %+v", h.obs.counts)
	}
	if !reflect.DeepEqual(h.prefs.state.NotChecked, []string{"", "work"}) {
		t.Fatalf("expected unchecked tags persisted, got %q", h.prefs.state.NotChecked)
	}

	h.app.Tags().CheckNone()
	if h.obs.counts != (Counts{}) {
		t.Fatalf("expected nothing visible, got %+v", h.obs.counts)
	}
	if h.note(t, "a.md").TodoVisible() {
		t.Fatalf("expected hidden note to hide its todo list")
	}
}

func TestShowTodos(t *testing.T) {
	h := loadedHarness(t)
	h.app.ShowTodos(false)
	if h.note(t, "a.md").TodoVisible() {
		t.Fatalf("expected todo lists hidden")
	}
	h.app.ShowTodos(true)
	if !h.note(t, "a.md").TodoVisible() {
		t.Fatalf("expected todo lists shown")
	}
}

func TestPreviewAndFocus(t *testing.T) {
	h := loadedHarness(t)

	h.note(t, "b.md").Preview()
	h.queue.runAll()
	if !reflect.DeepEqual(h.backend.previewed, []string{"plain\n"}) || len(h.obs.previews) != 1 {
		t.Fatalf("expected the fetched source to be previewed, got %q", h.backend.previewed)
	}

	if err := h.app.Focus("c.md"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.app.Focus("missing.md"); !errors.Is(err, ErrUnknownNote) {
		t.Fatalf("expected ErrUnknownNote, got %v", err)
	}
	if !reflect.DeepEqual(h.obs.focused, []note.ID{"c.md"}) {
		t.Fatalf("unexpected focus calls %v", h.obs.focused)
	}
}

func TestClickUnknownTodo(t *testing.T) {
	h := loadedHarness(t)
	if err := h.app.ClickCheckbox("a.md", TodoView, 5, true); !errors.Is(err, note.ErrCheckIndex) {
		t.Fatalf("expected ErrCheckIndex, got %v", err)
	}
	if err := h.app.ClickCheckbox("zzz.md", TodoView, 0, true); !errors.Is(err, ErrUnknownNote) {
		t.Fatalf("expected ErrUnknownNote, got %v", err)
	}
}
