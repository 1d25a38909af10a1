package notebook

import (
	"github.com/Paintersrp/nnt/internal/editor"
	"github.com/Paintersrp/nnt/internal/note"
)

// NewNote is a note that does not exist on the server yet. It is a pending
// save from creation until it is discarded or saved.
type NewNote struct {
	app     *App
	index   int
	session *editor.Session
}

func (n *NewNote) Index() int { return n.index }

func (n *NewNote) Session() *editor.Session { return n.session }

func (n *NewNote) Value() string { return n.session.Value() }

// Pending implements the save producer contract. New notes sort before
// stored notes, later ones first.
func (n *NewNote) Pending() (int, note.Payload) {
	return -n.index, note.Save(n.session.Value(), "")
}

// ToggleTodo toggles task markers on the selected lines.
func (n *NewNote) ToggleTodo() bool {
	return n.session.ToggleCheckbox()
}

func (n *NewNote) Preview() {
	n.app.Preview(n.session.Value())
}

// Discard forgets the note and its pending save.
func (n *NewNote) Discard() {
	n.app.pending.Remove(n)
	for i, other := range n.app.newNotes {
		if other == n {
			n.app.newNotes = append(n.app.newNotes[:i], n.app.newNotes[i+1:]...)
			break
		}
	}
	n.app.observer.NewNotesChanged()
}
