package notes

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/notebook"
	"github.com/Paintersrp/nnt/internal/render"
)

type itemKind int

const (
	itemHeading itemKind = iota
	itemText
	itemNewNote
	itemNewLine
	itemTodoNote
	itemTodo
	itemNote
	itemCheck
	itemSource
)

// item is one line of the notebook view.
type item struct {
	kind  itemKind
	id    note.ID
	fresh *notebook.NewNote
	// index is the todo position for itemTodo and the checkbox index for
	// itemCheck.
	index   int
	checked bool
	text    string
}

func (i item) selectable() bool {
	switch i.kind {
	case itemNewNote, itemTodoNote, itemTodo, itemNote, itemCheck:
		return true
	}
	return false
}

func (i item) render(width int, selected bool) string {
	line := i.text
	switch i.kind {
	case itemHeading:
		line = headingStyle.Render(line)
	case itemNote, itemTodoNote, itemNewNote:
		line = titleStyle.Render(line)
	case itemSource, itemNewLine:
		line = metaStyle.Render("│ ") + textStyle.Render(line)
	default:
		line = textStyle.Render(line)
	}
	if width > 0 {
		line = truncate.StringWithTail(line, uint(width), "…")
	}
	if selected {
		line = selectedItemStyle.Render(line)
	}
	return line
}

// buildItems lays out the notebook: new notes, the todo section and the
// visible notes.
func buildItems(app *notebook.App) []item {
	var items []item

	if fresh := app.NewNotes(); len(fresh) > 0 {
		items = append(items, item{kind: itemHeading, text: fmt.Sprintf("New notes (%d)", len(fresh))})
		for _, n := range fresh {
			items = append(items, item{
				kind:  itemNewNote,
				fresh: n,
				text:  fmt.Sprintf("New note #%d *", n.Index()),
			})
			for _, line := range strings.Split(n.Value(), "\n") {
				items = append(items, item{kind: itemNewLine, fresh: n, text: line})
			}
		}
		items = append(items, item{kind: itemText})
	}

	counts := app.Counts()
	if app.TodosShown() {
		items = append(items, item{kind: itemHeading, text: fmt.Sprintf("Todos (%d)", counts.Todos)})
		for _, c := range app.Notes() {
			if !c.TodoVisible() {
				continue
			}
			items = append(items, item{kind: itemTodoNote, id: c.ID(), text: c.Record().Title()})
			for k, todo := range c.Todos() {
				checked := c.TodoChecked(k)
				items = append(items, item{
					kind:    itemTodo,
					id:      c.ID(),
					index:   k,
					checked: checked,
					text:    "  " + render.Box(checked) + " " + todo.Label,
				})
			}
		}
		items = append(items, item{kind: itemText})
	} else {
		items = append(items, item{kind: itemHeading, text: fmt.Sprintf("Todos (%d) hidden", counts.Todos)})
		items = append(items, item{kind: itemText})
	}

	items = append(items, item{kind: itemHeading, text: fmt.Sprintf("Notes (%d)", counts.Notes)})
	for _, c := range app.Notes() {
		if !c.Visible() {
			continue
		}
		items = append(items, item{kind: itemNote, id: c.ID(), text: noteTitle(c)})
		if c.Mode() == notebook.ModeEdit {
			for _, line := range strings.Split(c.Session().Value(), "\n") {
				items = append(items, item{kind: itemSource, id: c.ID(), text: line})
			}
		} else {
			items = append(items, bodyItems(c)...)
		}
		items = append(items, item{kind: itemText})
	}

	return items
}

func noteTitle(c *notebook.NoteController) string {
	rec := c.Record()
	parts := []string{rec.Title()}
	if rec.Date != "" {
		parts = append(parts, rec.Date)
	}
	if len(rec.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(rec.Tags, " #"))
	}
	title := strings.Join(parts, "  ")
	switch {
	case c.Mode() == notebook.ModeEdit:
		title += "  (editing)"
	case c.RevertAvailable():
		title += "  *"
	}
	return title
}

// bodyItems splits a rendered body into lines. A line holding a checkbox
// becomes a selectable item for its first checkbox.
func bodyItems(c *notebook.NoteController) []item {
	var (
		items []item
		line  strings.Builder
		check = -1
	)
	flush := func() {
		it := item{kind: itemText, id: c.ID(), text: line.String()}
		if check >= 0 {
			it.kind = itemCheck
			it.index = check
			it.checked = c.InlineChecked(check)
		}
		items = append(items, it)
		line.Reset()
		check = -1
	}

	for _, seg := range c.Body().Segments {
		if seg.IsCheck() {
			if check < 0 {
				check = seg.Check
			}
			line.WriteString(render.Box(c.InlineChecked(seg.Check)))
			continue
		}
		lines := strings.Split(seg.Text, "\n")
		for i, part := range lines {
			if i > 0 {
				flush()
			}
			line.WriteString(part)
		}
	}
	if line.Len() > 0 || check >= 0 {
		flush()
	}
	return items
}
