// Package notes is the interactive notebook view: the tag filter, the todo
// section and the notes, with inline checkbox toggling and editing.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/notebook"
	"github.com/Paintersrp/nnt/internal/tags"
	"github.com/Paintersrp/nnt/internal/tui/textarea"
)

// BuildFunc creates the App the view drives, wired to the view's
// scheduler and observer.
type BuildFunc func(sched notebook.Scheduler, obs notebook.Observer) *notebook.App

type Options struct {
	Title   string
	Context context.Context
}

type copiedMsg struct {
	err error
}

type Model struct {
	app      *notebook.App
	sched    *scheduler
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	preview  viewport.Model
	editor   *textarea.Model

	// editNote and editFresh name the buffer open in the editor.
	editNote  note.ID
	editFresh *notebook.NewNote
	// awaitEdit is a note whose source is being fetched for editing.
	awaitEdit note.ID

	items       []item
	selected    int
	tagCursor   int
	tagMode     bool
	message     *message
	previewNote *note.Preview
	saveCount   int
	busy        bool
	dirty       bool
	focusTarget note.ID
	flash       note.ID
	confirm     func() tea.Cmd
	status      string
	title       string
	width       int
	height      int
}

func NewModel(build BuildFunc, opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusBannerStyle

	m := &Model{
		sched:    &scheduler{ctx: ctx},
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  sp,
		viewport: viewport.New(0, 0),
		title:    opts.Title,
		selected: -1,
	}
	m.app = build(m.sched, observer{m: m})
	return m
}

// App exposes the notebook the view drives.
func (m *Model) App() *notebook.App { return m.app }

func (m *Model) Init() tea.Cmd {
	m.app.Load()
	m.refresh()
	return tea.Batch(m.sched.drain(), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)

	if m.awaitEdit != "" {
		if c, err := m.app.Note(m.awaitEdit); err != nil {
			m.awaitEdit = ""
		} else if c.Mode() == notebook.ModeEdit {
			m.awaitEdit = ""
			cmd = tea.Batch(cmd, m.openNoteEditor(c))
		}
	}
	m.refresh()

	return m, tea.Batch(cmd, m.sched.drain())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return nil

	case doneMsg:
		if msg.done != nil {
			msg.done()
		}
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case textarea.CloseMsg:
		m.closeEditor()
		return nil

	case textarea.CopiedMsg:
		m.setCopyStatus(msg.Err)
		return nil

	case copiedMsg:
		m.setCopyStatus(msg.err)
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.editor != nil {
		return m.editor.Update(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm != nil {
		action := m.confirm
		m.confirm = nil
		m.status = ""
		if key.Matches(msg, m.keys.confirm) {
			return action()
		}
		return nil
	}

	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.editor != nil {
		if msg.String() == "ctrl+s" {
			m.closeEditor()
			m.app.Save()
			return nil
		}
		return m.editor.Update(msg)
	}

	if m.previewNote != nil {
		if key.Matches(msg, m.keys.dismiss) || key.Matches(msg, m.keys.quit) {
			m.previewNote = nil
			return nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return cmd
	}

	if m.message != nil && key.Matches(msg, m.keys.dismiss) {
		m.message = nil
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return nil
	case key.Matches(msg, m.keys.save):
		m.app.Save()
		return nil
	case key.Matches(msg, m.keys.reload):
		return m.reload()
	case key.Matches(msg, m.keys.create):
		return m.openFreshEditor(m.app.NewNote())
	case key.Matches(msg, m.keys.todos):
		m.app.ShowTodos(!m.app.TodosShown())
		return nil
	}

	if m.tagMode {
		return m.handleTagKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.tags):
		if m.app.Tags().Len() > 0 {
			m.tagMode = true
			m.tagCursor = min(m.tagCursor, m.app.Tags().Len()-1)
		}
	case key.Matches(msg, m.keys.up):
		m.move(-1)
	case key.Matches(msg, m.keys.down):
		m.move(1)
	case key.Matches(msg, m.keys.toggle):
		m.toggleSelected()
	case key.Matches(msg, m.keys.edit):
		return m.editSelected()
	case key.Matches(msg, m.keys.revert):
		if c := m.selectedNote(); c != nil {
			c.Revert()
		}
	case key.Matches(msg, m.keys.discard):
		if it, ok := m.current(); ok && it.fresh != nil {
			it.fresh.Discard()
		}
	case key.Matches(msg, m.keys.preview):
		m.previewSelected()
	case key.Matches(msg, m.keys.copy):
		return m.copySelected()
	case key.Matches(msg, m.keys.focus):
		if it, ok := m.current(); ok && it.id != "" {
			if err := m.app.Focus(it.id); err != nil {
				m.status = err.Error()
			}
		}
	case key.Matches(msg, m.keys.dismiss):
		m.status = ""
	}
	return nil
}

func (m *Model) handleTagKey(msg tea.KeyMsg) tea.Cmd {
	f := m.app.Tags()
	all := f.All()
	if len(all) == 0 {
		m.tagMode = false
		return nil
	}
	m.tagCursor = max(0, min(m.tagCursor, len(all)-1))
	tag := all[m.tagCursor]

	switch {
	case key.Matches(msg, m.keys.tags), key.Matches(msg, m.keys.dismiss):
		m.tagMode = false
	case key.Matches(msg, m.keys.tagLeft), key.Matches(msg, m.keys.up):
		m.tagCursor = (m.tagCursor - 1 + len(all)) % len(all)
	case key.Matches(msg, m.keys.tagRight), key.Matches(msg, m.keys.down):
		m.tagCursor = (m.tagCursor + 1) % len(all)
	case key.Matches(msg, m.keys.toggle):
		f.Toggle(tag)
	case key.Matches(msg, m.keys.tagOnly), key.Matches(msg, m.keys.edit):
		m.app.ClickTag(tag)
	case key.Matches(msg, m.keys.tagAll):
		f.CheckAll()
	case key.Matches(msg, m.keys.tagNone):
		f.CheckNone()
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	return m.unlessPending("Quit", func() tea.Cmd { return tea.Quit })
}

func (m *Model) reload() tea.Cmd {
	return m.unlessPending("Reload", func() tea.Cmd {
		m.app.Reload()
		return nil
	})
}

// unlessPending runs action, asking first when there are unsaved notes.
func (m *Model) unlessPending(verb string, action func() tea.Cmd) tea.Cmd {
	if n := m.app.PendingCount(); n > 0 {
		m.confirm = action
		m.status = fmt.Sprintf("%d unsaved note(s). %s anyway? (y/N)", n, verb)
		return nil
	}
	return action()
}

func (m *Model) current() (item, bool) {
	if m.selected < 0 || m.selected >= len(m.items) {
		return item{}, false
	}
	return m.items[m.selected], true
}

func (m *Model) selectedNote() *notebook.NoteController {
	it, ok := m.current()
	if !ok || it.id == "" {
		return nil
	}
	c, err := m.app.Note(it.id)
	if err != nil {
		return nil
	}
	return c
}

func (m *Model) toggleSelected() {
	it, ok := m.current()
	if !ok {
		return
	}
	var view notebook.View
	switch it.kind {
	case itemTodo:
		view = notebook.TodoView
	case itemCheck:
		view = notebook.InlineView
	default:
		return
	}
	if err := m.app.ClickCheckbox(it.id, view, it.index, !it.checked); err != nil {
		if errors.Is(err, notebook.ErrEditMode) {
			m.status = "Note is being edited, toggle with ctrl+t in the editor"
			return
		}
		m.status = err.Error()
	}
}

func (m *Model) editSelected() tea.Cmd {
	it, ok := m.current()
	if !ok {
		return nil
	}
	if it.fresh != nil {
		return m.openFreshEditor(it.fresh)
	}
	c := m.selectedNote()
	if c == nil {
		return nil
	}
	if c.Mode() == notebook.ModeEdit {
		return m.openNoteEditor(c)
	}
	m.awaitEdit = c.ID()
	c.Edit()
	return nil
}

func (m *Model) previewSelected() {
	it, ok := m.current()
	if !ok {
		return
	}
	if it.fresh != nil {
		it.fresh.Preview()
		return
	}
	if c := m.selectedNote(); c != nil {
		c.Preview()
	}
}

func (m *Model) copySelected() tea.Cmd {
	it, ok := m.current()
	if !ok {
		return nil
	}
	var src string
	switch {
	case it.fresh != nil:
		src = it.fresh.Value()
	default:
		c := m.selectedNote()
		if c == nil {
			return nil
		}
		s, ok := c.Source()
		if !ok {
			m.status = "Source not loaded yet, open the note with e first"
			return nil
		}
		src = s
	}
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(src)}
	}
}

func (m *Model) setCopyStatus(err error) {
	if err != nil {
		m.status = "Copy failed: " + err.Error()
		return
	}
	m.status = "Copied to clipboard"
}

func (m *Model) openNoteEditor(c *notebook.NoteController) tea.Cmd {
	m.editor = textarea.New(c.Record().Title(), c.Session(), m.bodyWidth(), m.bodyHeight()-1)
	m.editNote = c.ID()
	m.editFresh = nil
	return m.editor.Focus()
}

func (m *Model) openFreshEditor(n *notebook.NewNote) tea.Cmd {
	m.editor = textarea.New(fmt.Sprintf("New note #%d", n.Index()), n.Session(), m.bodyWidth(), m.bodyHeight()-1)
	m.editNote = ""
	m.editFresh = n
	return m.editor.Focus()
}

func (m *Model) closeEditor() {
	if m.editor != nil {
		m.editor.Blur()
	}
	m.editor = nil
	m.editNote = ""
	m.editFresh = nil
	m.dirty = true
}

// editorLive reports whether the open editor still belongs to a note of
// the notebook. A reload replaces every note and drops new notes.
func (m *Model) editorLive() bool {
	if m.editFresh != nil {
		for _, n := range m.app.NewNotes() {
			if n == m.editFresh {
				return true
			}
		}
		return false
	}
	c, err := m.app.Note(m.editNote)
	return err == nil && c.Session() == m.editor.Session()
}

func (m *Model) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	for i := m.selected + delta; i >= 0 && i < len(m.items); i += delta {
		if m.items[i].selectable() {
			m.selected = i
			m.flash = ""
			m.scrollToSelected()
			return
		}
	}
}

// refresh rebuilds the items when the App reported a change and keeps the
// selection on the same thing where it still exists.
func (m *Model) refresh() {
	if m.editor != nil && !m.editorLive() {
		m.closeEditor()
	}
	if m.editor != nil {
		m.editor.Refresh()
	}

	if m.dirty {
		prev, hadPrev := m.current()
		m.items = buildItems(m.app)
		m.selected = -1
		if hadPrev {
			m.selected = m.find(func(it item) bool {
				return it.kind == prev.kind && it.id == prev.id && it.index == prev.index && it.fresh == prev.fresh
			})
		}
		if m.focusTarget != "" {
			target := m.focusTarget
			if i := m.find(func(it item) bool { return it.kind == itemNote && it.id == target }); i >= 0 {
				m.selected = i
				m.flash = target
			}
			m.focusTarget = ""
		}
		if m.selected < 0 {
			m.move(1)
		}
		m.dirty = false
	}

	m.viewport.SetContent(m.renderItems())
	m.scrollToSelected()
}

func (m *Model) find(match func(it item) bool) int {
	for i, it := range m.items {
		if it.selectable() && match(it) {
			return i
		}
	}
	return -1
}

func (m *Model) renderItems() string {
	width := m.bodyWidth()
	lines := make([]string, len(m.items))
	for i, it := range m.items {
		line := it.render(width, i == m.selected)
		if it.kind == itemNote && it.id == m.flash && m.flash != "" {
			line = flashStyle.Render(truncate.StringWithTail(it.text, uint(max(width, 1)), "…"))
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (m *Model) scrollToSelected() {
	if m.selected < 0 || m.viewport.Height <= 0 {
		return
	}
	switch {
	case m.selected < m.viewport.YOffset:
		m.viewport.SetYOffset(m.selected)
	case m.selected >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.selected - m.viewport.Height + 1)
	}
}

func (m *Model) bodyWidth() int {
	if m.width <= 0 {
		return 80
	}
	return max(m.width-appStyle.GetHorizontalFrameSize(), 10)
}

func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return 20
	}
	used := appStyle.GetVerticalFrameSize() + 3
	if m.message != nil {
		used += lipgloss.Height(m.messageView())
	}
	return max(m.height-used, 3)
}

func (m *Model) resize() {
	m.viewport.Width = m.bodyWidth()
	m.viewport.Height = m.bodyHeight()
	if m.editor != nil {
		m.editor.SetSize(m.bodyWidth(), m.bodyHeight()-1)
	}
	if m.previewNote != nil {
		m.preview.Width = m.bodyWidth()
		m.preview.Height = m.bodyHeight()
	}
	m.dirty = true
}

func (m *Model) headerView() string {
	parts := []string{titleStyle.Render("nnt")}
	if m.title != "" {
		parts = append(parts, metaStyle.Render(m.title))
	}
	if m.busy {
		parts = append(parts, m.spinner.View())
	}
	if m.saveCount > 0 {
		parts = append(parts, saveStyle.Render(fmt.Sprintf("Save (%d)", m.saveCount)))
	}
	if m.status != "" {
		parts = append(parts, statusStyle(m.status))
	}
	return strings.Join(parts, " ")
}

func (m *Model) tagsView() string {
	f := m.app.Tags()
	all := f.All()
	if len(all) == 0 {
		return metaStyle.Render("no tags")
	}
	out := make([]string, len(all))
	for i, tag := range all {
		label := tags.Label(tag)
		switch {
		case m.tagMode && i == m.tagCursor:
			out[i] = tagCursorStyle.Render(label)
		case f.IsChecked(tag):
			out[i] = tagStyle.Render(label)
		default:
			out[i] = tagOffStyle.Render(label)
		}
	}
	line := strings.Join(out, "")
	return truncate.StringWithTail(line, uint(m.bodyWidth()), "…")
}

func (m *Model) messageView() string {
	if m.message == nil {
		return ""
	}
	body := messageTitleStyle.Render(m.message.title)
	if m.message.detail != "" {
		body += "\n" + m.message.detail
	}
	return messageStyle.Width(max(m.bodyWidth()-2, 10)).Render(body)
}

func (m *Model) View() string {
	sections := []string{m.headerView(), m.tagsView()}

	if m.message != nil {
		sections = append(sections, m.messageView())
	}

	switch {
	case m.editor != nil:
		sections = append(sections, m.editor.View())
	case m.previewNote != nil:
		sections = append(sections, m.previewView())
	case !m.app.Loaded():
		if m.message == nil {
			sections = append(sections, statusStyle("Loading notes "+m.spinner.View()))
		}
	default:
		sections = append(sections, m.viewport.View())
	}

	var footer string
	switch {
	case m.confirm != nil:
		footer = statusStyle(m.status)
	case m.editor != nil:
		footer = m.help.ShortHelpView(editorHelp(m.editor.Keys()))
	default:
		footer = m.help.View(m.keys)
	}
	sections = append(sections, renderHelpWithinWidth(m.bodyWidth(), footer))

	return appStyle.Render(strings.Join(sections, "\n"))
}

func editorHelp(k textarea.KeyMap) []key.Binding {
	return []key.Binding{
		k.Toggle,
		k.Mark,
		k.Copy,
		k.Close,
		key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	}
}
