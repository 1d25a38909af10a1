// Package notebook coordinates the notes of one notebook: loading them,
// tracking their edit state, filtering them by tag and saving changes.
//
// Everything in this package runs on a single event loop. Blocking work
// goes through a Scheduler, which runs it elsewhere and hands its
// completion back to the loop.
package notebook

import (
	"context"
	"errors"

	"github.com/Paintersrp/nnt/internal/api"
	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/prefs"
)

var (
	// ErrEditMode rejects a checkbox click while the note's edit session
	// owns its source.
	ErrEditMode = errors.New("note is being edited")

	ErrUnknownNote = errors.New("unknown note")
)

// Backend is the notebook server.
type Backend interface {
	Tags(ctx context.Context) ([]string, error)
	Notes(ctx context.Context, q api.NotesQuery) ([]*note.Record, error)
	NoteSource(ctx context.Context, id note.ID) (string, []int, error)
	SaveNotes(ctx context.Context, batch []note.Payload) error
	Preview(ctx context.Context, src string) (*note.Preview, error)
}

// Scheduler runs work away from the event loop. The function work returns,
// if any, must be run on the loop.
type Scheduler interface {
	Go(work func(ctx context.Context) func())
}

// Inline runs work and its completion immediately on the caller's
// goroutine. It suits command line use where nothing else is running.
type Inline struct {
	Ctx context.Context
}

func (s Inline) Go(work func(ctx context.Context) func()) {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if done := work(ctx); done != nil {
		done()
	}
}

// Observer is told about every change a view needs to redraw.
type Observer interface {
	SaveCountChanged(count int)
	ShowMessage(title, detail string)
	HideMessage()
	BusyChanged(busy bool)
	NotesLoaded()
	NoteChanged(id note.ID)
	NewNotesChanged()
	FilterChanged(c Counts)
	ShowPreview(p *note.Preview)
	Focus(id note.ID)
}

// NopObserver ignores everything. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) SaveCountChanged(int) {}
func (NopObserver) ShowMessage(string, string) {}
func (NopObserver) HideMessage() {}
func (NopObserver) BusyChanged(bool) {}
func (NopObserver) NotesLoaded() {}
func (NopObserver) NoteChanged(note.ID) {}
func (NopObserver) NewNotesChanged() {}
func (NopObserver) FilterChanged(Counts) {}
func (NopObserver) ShowPreview(*note.Preview) {}
func (NopObserver) Focus(note.ID) {}

// PrefStore persists the tag filter between sessions.
type PrefStore interface {
	LoadOrDefault(def prefs.State) prefs.State
	Save(st prefs.State) error
}

// Counts summarises what the current filter shows.
type Counts struct {
	Notes int
	Todos int
}

// View is one of the two renderings a checkbox appears in.
type View int

const (
	// InlineView is the note body; indexes are checkbox indexes.
	InlineView View = iota
	// TodoView is the note's todo list; indexes are todo positions.
	TodoView
)

func (v View) String() string {
	if v == TodoView {
		return "todo"
	}
	return "inline"
}
