package notes

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/notebook"
)

// doneMsg carries the completion of background work back to Update.
type doneMsg struct {
	done func()
}

// scheduler turns background work into commands. Update drains it after
// every message so the work starts on the next tick of the program.
type scheduler struct {
	ctx   context.Context
	queue []tea.Cmd
}

func (s *scheduler) Go(work func(ctx context.Context) func()) {
	ctx := s.ctx
	s.queue = append(s.queue, func() tea.Msg {
		return doneMsg{done: work(ctx)}
	})
}

func (s *scheduler) drain() tea.Cmd {
	if len(s.queue) == 0 {
		return nil
	}
	cmds := s.queue
	s.queue = nil
	return tea.Batch(cmds...)
}

type message struct {
	title  string
	detail string
}

// observer records what the App reports; the model redraws from it.
type observer struct {
	m *Model
}

func (o observer) SaveCountChanged(count int) { o.m.saveCount = count }

func (o observer) ShowMessage(title, detail string) {
	o.m.message = &message{title: title, detail: detail}
}

func (o observer) HideMessage() { o.m.message = nil }

func (o observer) BusyChanged(busy bool) { o.m.busy = busy }

func (o observer) NotesLoaded() { o.m.dirty = true }

func (o observer) NoteChanged(note.ID) { o.m.dirty = true }

func (o observer) NewNotesChanged() { o.m.dirty = true }

func (o observer) FilterChanged(notebook.Counts) { o.m.dirty = true }

func (o observer) ShowPreview(p *note.Preview) { o.m.showPreview(p) }

func (o observer) Focus(id note.ID) {
	o.m.focusTarget = id
	o.m.dirty = true
}
