// Package cli runs a notebook from a command: synchronously, with failures
// returned as errors instead of shown as messages.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erikgeiser/promptkit/confirmation"
	"golang.org/x/term"

	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/notebook"
	"github.com/Paintersrp/nnt/internal/prefs"
	"github.com/Paintersrp/nnt/internal/state"
)

// ErrNotConfirmed is returned when the user declines a prompt.
var ErrNotConfirmed = errors.New("aborted")

// recorder turns App messages into errors.
type recorder struct {
	notebook.NopObserver
	err     error
	preview *note.Preview
}

func (r *recorder) ShowMessage(title, detail string) {
	if detail == "" {
		r.err = errors.New(title)
		return
	}
	r.err = fmt.Errorf("%s: %s", title, strings.TrimSpace(detail))
}

func (r *recorder) HideMessage() { r.err = nil }

func (r *recorder) ShowPreview(p *note.Preview) { r.preview = p }

// readOnly hides preference writes, so filters given on the command line
// do not replace the ones chosen in the UI.
type readOnly struct {
	notebook.PrefStore
}

func (readOnly) Save(prefs.State) error { return nil }

// Session is a loaded notebook driven synchronously.
type Session struct {
	App *notebook.App
	rec *recorder
}

// Open loads the notebook of s. With persist false, tag filter changes
// are not written to the preference store.
func Open(ctx context.Context, s *state.State, persist bool) (*Session, error) {
	rec := &recorder{}
	var store notebook.PrefStore
	if s.Prefs != nil {
		store = s.Prefs
		if !persist {
			store = readOnly{PrefStore: s.Prefs}
		}
	}

	app := notebook.New(notebook.Options{
		Backend:   s.Client,
		Scheduler: notebook.Inline{Ctx: ctx},
		Observer:  rec,
		Prefs:     store,
		Logger:    s.Logger,
	})
	app.Load()
	if err := rec.take(); err != nil {
		return nil, err
	}
	return &Session{App: app, rec: rec}, nil
}

func (r *recorder) take() error {
	err := r.err
	r.err = nil
	return err
}

// Err returns and clears the last failure the App reported.
func (x *Session) Err() error {
	return x.rec.take()
}

// Save sends the pending changes and reports a failed save.
func (x *Session) Save() error {
	if x.App.PendingCount() == 0 {
		return nil
	}
	x.App.Save()
	return x.rec.take()
}

// Preview renders src on the server.
func (x *Session) Preview(src string) (*note.Preview, error) {
	x.rec.preview = nil
	x.App.Preview(src)
	if err := x.rec.take(); err != nil {
		return nil, err
	}
	if x.rec.preview == nil {
		return nil, fmt.Errorf("server returned no preview")
	}
	return x.rec.preview, nil
}

// Filter shows only notes carrying one of tags. No tags keeps the stored
// filter; all shows every note.
func (x *Session) Filter(tags []string, all bool) error {
	f := x.App.Tags()
	switch {
	case all:
		f.CheckAll()
	case len(tags) > 0:
		for _, t := range tags {
			if !f.Known(t) {
				return fmt.Errorf("unknown tag %q", t)
			}
		}
		f.SelectOnlyOne(tags[0])
		for _, t := range tags[1:] {
			f.Set(t, true)
		}
	}
	return nil
}

// Interactive reports whether stdin is a terminal a prompt can use.
func Interactive() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	return !strings.HasSuffix(filepath.Base(os.Args[0]), ".test")
}

// Confirm asks question unless yes is set. Without a terminal it refuses.
func Confirm(question string, yes bool) error {
	if yes {
		return nil
	}
	if !Interactive() {
		return fmt.Errorf("%s: not a terminal, pass --yes to confirm", question)
	}
	ok, err := confirmation.New(question, confirmation.Yes).RunPrompt()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotConfirmed
	}
	return nil
}
