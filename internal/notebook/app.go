package notebook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Paintersrp/nnt/internal/api"
	"github.com/Paintersrp/nnt/internal/editor"
	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/pending"
	"github.com/Paintersrp/nnt/internal/prefs"
	"github.com/Paintersrp/nnt/internal/tags"
)

// Options configures an App. Backend and Scheduler are required.
type Options struct {
	Backend   Backend
	Scheduler Scheduler
	Observer  Observer
	Prefs     PrefStore
	Logger    *slog.Logger
	Now       func() time.Time
}

// App owns the notes of a notebook, the tag filter and the pending saves.
type App struct {
	backend  Backend
	sched    Scheduler
	observer Observer
	prefs    PrefStore
	logger   *slog.Logger
	now      func() time.Time

	pending *pending.Registry[note.Payload]
	tags    *tags.Filter

	notes    []*NoteController
	byID     map[note.ID]*NoteController
	newNotes []*NewNote
	fetches  map[note.ID]*fetch

	todosShown bool
	counts     Counts
	loaded     bool
	saving     bool
	inflight   int

	// generation changes on every load so late completions can be told
	// apart from current ones.
	generation int
	noteIndex  int
	newIndex   int
}

func New(opts Options) *App {
	a := &App{
		backend:    opts.Backend,
		sched:      opts.Scheduler,
		observer:   opts.Observer,
		prefs:      opts.Prefs,
		logger:     opts.Logger,
		now:        opts.Now,
		tags:       tags.NewFilter(),
		byID:       make(map[note.ID]*NoteController),
		fetches:    make(map[note.ID]*fetch),
		todosShown: true,
	}
	if a.observer == nil {
		a.observer = NopObserver{}
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.sched == nil {
		a.sched = Inline{}
	}

	a.pending = pending.New(a.send)
	a.pending.OnChange(func(count int) {
		a.observer.SaveCountChanged(count)
	})
	return a
}

func (a *App) Notes() []*NoteController { return a.notes }

func (a *App) NewNotes() []*NewNote { return a.newNotes }

func (a *App) Tags() *tags.Filter { return a.tags }

func (a *App) Counts() Counts { return a.counts }

func (a *App) Loaded() bool { return a.loaded }

func (a *App) Busy() bool { return a.inflight > 0 }

// PendingCount is the number of unsaved notes.
func (a *App) PendingCount() int { return a.pending.Count() }

func (a *App) TodosShown() bool { return a.todosShown }

// Note returns the controller of a loaded note.
func (a *App) Note(id note.ID) (*NoteController, error) {
	c, ok := a.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNote, id)
	}
	return c, nil
}

// Load fetches tags and notes, restoring the tag filter from the
// preference store.
func (a *App) Load() {
	a.load(a.storedNotChecked())
}

func (a *App) storedNotChecked() []string {
	if a.prefs == nil {
		return nil
	}
	return a.prefs.LoadOrDefault(prefs.State{}).NotChecked
}

// Reload loads again keeping the current unchecked tags. New notes and
// pending saves are dropped once the load succeeds.
func (a *App) Reload() {
	notChecked := a.tags.Checked(false)
	if !a.loaded {
		notChecked = a.storedNotChecked()
	}
	a.load(notChecked)
}

func (a *App) load(notChecked []string) {
	a.generation++
	gen := a.generation

	a.run(func(ctx context.Context) func() {
		var (
			tagList []string
			records []*note.Record
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if tagList, err = a.backend.Tags(gctx); err != nil {
				return &loadError{what: "tags", err: err}
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if records, err = a.backend.Notes(gctx, api.NotesQuery{}); err != nil {
				return &loadError{what: "notes", err: err}
			}
			return nil
		})
		err := g.Wait()

		return func() {
			if gen != a.generation {
				return
			}
			if err != nil {
				a.logger.Error("failed to load notebook", "err", err)
				title := "Network error: Couldn't load notes"
				var le *loadError
				if errors.As(err, &le) {
					title = "Network error: Couldn't load " + le.what
				}
				a.observer.ShowMessage(title, api.Detail(err))
				return
			}
			a.install(tagList, records, notChecked)
		}
	})
}

type loadError struct {
	what string
	err  error
}

func (e *loadError) Error() string { return fmt.Sprintf("load %s: %v", e.what, e.err) }

func (e *loadError) Unwrap() error { return e.err }

func (a *App) install(tagList []string, records []*note.Record, notChecked []string) {
	skip := make(map[string]bool, len(notChecked))
	for _, t := range notChecked {
		skip[t] = true
	}

	filter := tags.NewFilter()
	filter.Register(tags.None, !skip[tags.None])
	for _, t := range tagList {
		filter.Register(t, !skip[t])
	}
	for _, rec := range records {
		for _, t := range rec.Tags {
			filter.Register(t, !skip[t])
		}
	}
	filter.OnChange(a.tagsChanged)

	for _, old := range a.notes {
		old.stale = true
	}
	a.fetches = make(map[note.ID]*fetch)
	a.pending.Clear()
	if len(a.newNotes) > 0 {
		a.newNotes = nil
		a.observer.NewNotesChanged()
	}

	a.tags = filter
	a.notes = make([]*NoteController, 0, len(records))
	a.byID = make(map[note.ID]*NoteController, len(records))
	for _, rec := range records {
		a.noteIndex++
		c := newNoteController(a, rec, a.noteIndex)
		a.notes = append(a.notes, c)
		a.byID[rec.ID()] = c
	}
	a.loaded = true

	a.logger.Info("notebook loaded", "notes", len(a.notes), "tags", filter.Len())
	a.observer.NotesLoaded()
	a.refilter()
}

func (a *App) tagsChanged() {
	if a.prefs != nil {
		if err := a.prefs.Save(prefs.State{NotChecked: a.tags.Checked(false)}); err != nil {
			a.logger.Warn("failed to save preferences", "err", err)
		}
	}
	a.refilter()
}

func (a *App) refilter() {
	counts := Counts{}
	for _, c := range a.notes {
		c.visible = a.tags.Visible(c.record.Tags)
		if c.visible {
			counts.Notes++
			counts.Todos += len(c.record.Todos)
		}
	}
	a.counts = counts
	a.observer.FilterChanged(counts)
}

// ShowTodos shows or hides the todo lists.
func (a *App) ShowTodos(show bool) {
	if a.todosShown == show {
		return
	}
	a.todosShown = show
	a.observer.FilterChanged(a.counts)
}

// ClickTag shows only the notes carrying tag.
func (a *App) ClickTag(tag string) {
	a.tags.SelectOnlyOne(tag)
}

// ClickCheckbox applies a checkbox click in one of a note's views. For
// TodoView index is the todo position, for InlineView the checkbox index.
func (a *App) ClickCheckbox(id note.ID, view View, index int, value bool) error {
	c, err := a.Note(id)
	if err != nil {
		return err
	}
	return c.click(view, index, value)
}

// Focus asks the view to bring a note into sight.
func (a *App) Focus(id note.ID) error {
	if _, err := a.Note(id); err != nil {
		return err
	}
	a.observer.Focus(id)
	return nil
}

// NewNote starts a note headed with today's date and the checked tags.
func (a *App) NewNote() *NewNote {
	a.newIndex++

	var checked []string
	for _, t := range a.tags.Checked(true) {
		if t != tags.None {
			checked = append(checked, t)
		}
	}

	n := &NewNote{app: a, index: a.newIndex}
	n.session = editor.New(note.Header(a.now(), checked), nil)
	n.session.MoveCursorDown(note.HeaderLines)

	a.newNotes = append(a.newNotes, n)
	a.pending.Add(n)
	a.observer.NewNotesChanged()
	return n
}

// Save sends every pending change in one batch. The notebook reloads when
// the batch is stored; on failure the changes stay pending.
func (a *App) Save() {
	if a.saving || a.pending.Count() == 0 {
		return
	}
	a.observer.HideMessage()
	a.pending.Commit()
}

func (a *App) send(batch []note.Payload) {
	a.saving = true
	a.logger.Info("saving notes", "count", len(batch))

	a.run(func(ctx context.Context) func() {
		err := a.backend.SaveNotes(ctx, batch)
		return func() {
			a.saving = false
			if err != nil {
				a.logger.Error("failed to save notes", "err", err)
				a.observer.ShowMessage("Couldn't save note(s)", api.Detail(err))
				return
			}
			a.Reload()
		}
	})
}

// Preview renders src on the server and hands the result to the view.
func (a *App) Preview(src string) {
	a.run(func(ctx context.Context) func() {
		p, err := a.backend.Preview(ctx, src)
		return func() {
			if err != nil {
				a.observer.ShowMessage("Couldn't show preview", api.Detail(err))
				return
			}
			a.observer.ShowPreview(p)
		}
	})
}

// run schedules work and keeps the busy count while it is in flight.
func (a *App) run(work func(ctx context.Context) func()) {
	a.inflight++
	if a.inflight == 1 {
		a.observer.BusyChanged(true)
	}
	a.sched.Go(func(ctx context.Context) func() {
		done := work(ctx)
		return func() {
			a.inflight--
			if a.inflight == 0 {
				a.observer.BusyChanged(false)
			}
			if done != nil {
				done()
			}
		}
	})
}
