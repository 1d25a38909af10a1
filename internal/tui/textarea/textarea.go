// Package textarea is the editing pane for a note buffer. It draws an
// editor.Session with a bubbles textarea and keeps the two in step.
package textarea

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/nnt/internal/checkbox"
	"github.com/Paintersrp/nnt/internal/editor"
)

type KeyMap struct {
	Toggle key.Binding
	Mark   key.Binding
	Copy   key.Binding
	Close  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle todo"),
		),
		Mark: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("ctrl+space", "mark selection"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy buffer"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to notebook"),
		),
	}
}

// CloseMsg is sent when the user leaves the pane. The session stays open.
type CloseMsg struct{}

// CopiedMsg reports the outcome of a copy to the clipboard.
type CopiedMsg struct {
	Err error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Bold(true).
			Padding(0, 1)

	markStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cba6f7"))
)

type Model struct {
	textarea textarea.Model
	session  *editor.Session
	keys     KeyMap
	title    string

	// mark is the anchor of the selection, -1 when there is none.
	mark int
}

func New(title string, s *editor.Session, width, height int) *Model {
	ti := textarea.New()
	ti.Placeholder = "..."
	ti.CharLimit = 0
	ti.MaxHeight = 0
	ti.ShowLineNumbers = false
	ti.SetWidth(width)
	ti.SetHeight(height)
	ti.SetValue(s.Value())

	m := &Model{
		textarea: ti,
		session:  s,
		keys:     DefaultKeyMap(),
		title:    title,
		mark:     -1,
	}
	m.moveTo(s.Cursor())
	return m
}

func (m *Model) Session() *editor.Session { return m.session }

func (m *Model) Keys() KeyMap { return m.keys }

func (m *Model) Focus() tea.Cmd {
	return m.textarea.Focus()
}

func (m *Model) Blur() {
	m.textarea.Blur()
}

func (m *Model) SetSize(width, height int) {
	m.textarea.SetWidth(width)
	m.textarea.SetHeight(max(height, 1))
}

// Refresh reloads the pane from the session after it was changed
// elsewhere.
func (m *Model) Refresh() {
	if m.textarea.Value() == m.session.Value() {
		return
	}
	m.textarea.SetValue(m.session.Value())
	m.moveTo(m.session.Cursor())
}

// Paste inserts the clipboard contents at the cursor.
func (m *Model) Paste() error {
	content, err := clipboard.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read clipboard: %w", err)
	}
	m.textarea.InsertString(content)
	m.sync()
	return nil
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Close):
			m.mark = -1
			m.textarea.Blur()
			return func() tea.Msg { return CloseMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			m.sync()
			if m.session.ToggleCheckbox() {
				sel := m.session.Selections()[0]
				if m.mark >= 0 {
					m.mark = sel.Anchor
				}
				m.textarea.SetValue(m.session.Value())
				m.moveTo(sel.Head)
			}
			return nil
		case key.Matches(msg, m.keys.Mark):
			if m.mark >= 0 {
				m.mark = -1
			} else {
				m.mark = m.session.Cursor()
			}
			m.sync()
			return nil
		case key.Matches(msg, m.keys.Copy):
			value := m.session.Value()
			return func() tea.Msg {
				return CopiedMsg{Err: clipboard.WriteAll(value)}
			}
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.sync()
	return cmd
}

// sync copies the text and cursor of the textarea into the session.
func (m *Model) sync() {
	m.session.SetValue(m.textarea.Value())

	li := m.textarea.LineInfo()
	head := m.session.Offset(m.textarea.Line(), li.StartColumn+li.ColumnOffset)
	if m.mark >= 0 {
		m.session.Select(checkbox.Range{Anchor: min(m.mark, len(m.session.Value())), Head: head})
		return
	}
	m.session.SetCursor(head)
}

// moveTo places the textarea cursor on a byte offset of the session.
func (m *Model) moveTo(offset int) {
	row, col := m.session.Position(offset)
	for i := 0; m.textarea.Line() > row && i < 1<<16; i++ {
		m.textarea.CursorUp()
	}
	for i := 0; m.textarea.Line() < row && i < 1<<16; i++ {
		m.textarea.CursorDown()
	}
	m.textarea.SetCursor(col)
}

func (m *Model) View() string {
	header := titleStyle.Render(m.title)
	if m.session.Modified() {
		header += " *"
	}
	if m.mark >= 0 {
		header += " " + markStyle.Render("(selecting)")
	}
	return header + "\n" + m.textarea.View()
}
