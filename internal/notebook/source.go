package notebook

import (
	"context"

	"github.com/Paintersrp/nnt/internal/api"
)

// fetch is an in-flight source request. Continuations queued on it run in
// order once it completes.
type fetch struct {
	waiters []func(ok bool)
}

// loadSource runs done once the note's source is available. Concurrent
// requests for the same note share one fetch.
func (a *App) loadSource(c *NoteController, done func(ok bool)) {
	if c.record.HasSource() {
		done(true)
		return
	}

	id := c.ID()
	if f, ok := a.fetches[id]; ok {
		f.waiters = append(f.waiters, done)
		return
	}

	f := &fetch{waiters: []func(bool){done}}
	a.fetches[id] = f
	a.logger.Debug("fetching note source", "note", id)

	a.run(func(ctx context.Context) func() {
		src, offsets, err := a.backend.NoteSource(ctx, id)
		return func() {
			if a.fetches[id] == f {
				delete(a.fetches, id)
			}
			if a.byID[id] != c {
				a.logger.Debug("dropping stale note source", "note", id)
				return
			}
			if err == nil {
				err = c.record.SetSource(src, offsets)
			}
			if err != nil {
				a.logger.Error("failed to load note source", "note", id, "err", err)
				a.observer.ShowMessage("Network error: Couldn't load note source", api.Detail(err))
				f.finish(false)
				return
			}
			f.finish(true)
		}
	})
}

func (f *fetch) finish(ok bool) {
	for _, w := range f.waiters {
		w(ok)
	}
}
