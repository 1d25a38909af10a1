package notebook

import (
	"fmt"

	"github.com/Paintersrp/nnt/internal/editor"
	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/render"
)

// Mode is the state of a NoteController.
type Mode int

const (
	ModeDisplay Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "display"
}

// NoteController drives one stored note: its display and edit modes, the
// checkbox state of its body and todo list, and its save registration.
type NoteController struct {
	app    *App
	record *note.Record
	index  int

	mode            Mode
	revertAvailable bool
	session         *editor.Session
	patched         bool
	stale           bool

	body       render.Body
	todoChecks []bool
	visible    bool
}

func newNoteController(app *App, rec *note.Record, index int) *NoteController {
	return &NoteController{
		app:        app,
		record:     rec,
		index:      index,
		body:       render.ParseBody(rec.HTML),
		todoChecks: make([]bool, len(rec.Todos)),
	}
}

func (c *NoteController) ID() note.ID          { return c.record.ID() }
func (c *NoteController) Record() *note.Record { return c.record }
func (c *NoteController) Mode() Mode           { return c.mode }
func (c *NoteController) Index() int           { return c.index }

// RevertAvailable reports whether Revert would discard anything.
func (c *NoteController) RevertAvailable() bool { return c.revertAvailable }

// Session is the open edit session, nil in display mode.
func (c *NoteController) Session() *editor.Session { return c.session }

// Body is the parsed server rendering of the note.
func (c *NoteController) Body() render.Body { return c.body }

func (c *NoteController) Visible() bool { return c.visible }

// TodoVisible reports whether the note's todo list is shown.
func (c *NoteController) TodoVisible() bool {
	return c.app.todosShown && c.visible && c.HasTodos()
}

func (c *NoteController) HasTodos() bool { return len(c.record.Todos) > 0 }

// Todos returns the note's open todos.
func (c *NoteController) Todos() []note.Todo { return c.record.Todos }

// TodoChecked returns the state of todo k in the todo view.
func (c *NoteController) TodoChecked(k int) bool {
	return k >= 0 && k < len(c.todoChecks) && c.todoChecks[k]
}

// InlineChecked returns the state of checkbox i in the body view.
func (c *NoteController) InlineChecked(i int) bool {
	if c.record.HasSource() {
		if v, err := c.record.Checked(i); err == nil {
			return v
		}
	}
	return i >= 0 && i < len(c.body.Checked) && c.body.Checked[i]
}

// Source returns the most current text of the note: the edit buffer, the
// fetched source, or "" when neither is available.
func (c *NoteController) Source() (string, bool) {
	if c.session != nil {
		return c.session.Value(), true
	}
	if c.record.HasSource() {
		return *c.record.Source, true
	}
	return "", false
}

// Pending implements the save producer contract.
func (c *NoteController) Pending() (int, note.Payload) {
	switch {
	case c.mode == ModeEdit && c.session != nil:
		return c.index, note.Save(c.session.Value(), c.ID())
	case c.record.HasSource():
		return c.index, note.Save(*c.record.Source, c.ID())
	default:
		return c.index, note.Payload{}
	}
}

// Edit switches to edit mode once the source is available.
func (c *NoteController) Edit() {
	if c.mode == ModeEdit {
		return
	}
	c.app.loadSource(c, func(ok bool) {
		if !ok || c.mode == ModeEdit || c.stale {
			return
		}
		c.session = editor.New(*c.record.Source, func(bool) { c.sync() })
		c.mode = ModeEdit
		c.revertAvailable = true
		c.app.logger.Debug("editing note", "note", c.ID())
		c.changed()
	})
}

// Revert drops every local change: the edit session, the fetched and
// patched source, and the todo view state.
func (c *NoteController) Revert() {
	if !c.revertAvailable {
		return
	}
	c.app.pending.Remove(c)
	c.record.ClearSource()
	c.session = nil
	c.mode = ModeDisplay
	c.revertAvailable = false
	c.patched = false
	c.body = render.ParseBody(c.record.HTML)
	for k := range c.todoChecks {
		c.todoChecks[k] = false
	}
	c.changed()
}

// ToggleTodo toggles task markers on the selected lines of the edit
// buffer. It reports false outside edit mode.
func (c *NoteController) ToggleTodo() bool {
	if c.session == nil {
		return false
	}
	return c.session.ToggleCheckbox()
}

// Preview asks the server to render the current text of the note.
func (c *NoteController) Preview() {
	if src, ok := c.Source(); ok {
		c.app.Preview(src)
		return
	}
	c.app.loadSource(c, func(ok bool) {
		if ok {
			c.app.Preview(*c.record.Source)
		}
	})
}

// click applies a checkbox click from either view.
func (c *NoteController) click(view View, i int, value bool) error {
	if c.mode == ModeEdit {
		c.changed()
		return ErrEditMode
	}

	check := i
	if view == TodoView {
		if i < 0 || i >= len(c.record.Todos) {
			return fmt.Errorf("%w: todo %d of %d", note.ErrCheckIndex, i, len(c.record.Todos))
		}
		check = c.record.Todos[i].CheckIndex
	}
	if check < 0 {
		return fmt.Errorf("%w: %d", note.ErrCheckIndex, check)
	}

	prevInline := c.InlineChecked(check)
	prevTodos := append([]bool(nil), c.todoChecks...)
	restore := func() {
		c.setInline(check, prevInline)
		c.todoChecks = prevTodos
		c.changed()
	}

	c.setInline(check, value)
	c.setTodoChecks(check, value)
	c.changed()

	c.app.loadSource(c, func(ok bool) {
		if c.stale {
			return
		}
		if !ok || c.mode == ModeEdit {
			restore()
			return
		}
		if err := c.record.SetCheck(check, value); err != nil {
			c.app.logger.Warn("checkbox patch failed", "note", c.ID(), "check", check, "err", err)
			c.app.observer.ShowMessage("Couldn't toggle checkbox", err.Error())
			restore()
			return
		}
		c.patched = true
		c.revertAvailable = true
		c.sync()
		c.changed()
	})
	return nil
}

func (c *NoteController) setInline(check int, value bool) {
	for len(c.body.Checked) <= check {
		c.body.Checked = append(c.body.Checked, false)
	}
	c.body.Checked[check] = value
}

func (c *NoteController) setTodoChecks(check int, value bool) {
	for k, t := range c.record.Todos {
		if t.CheckIndex == check {
			c.todoChecks[k] = value
		}
	}
}

// sync keeps the save registration in step with the local changes.
func (c *NoteController) sync() {
	if c.stale {
		return
	}
	if c.patched || (c.session != nil && c.session.Modified()) {
		c.app.pending.Add(c)
	} else {
		c.app.pending.Remove(c)
	}
}

func (c *NoteController) changed() {
	if !c.stale {
		c.app.observer.NoteChanged(c.ID())
	}
}
