// Package editor holds the buffer of an open edit session, independent of
// how it is drawn.
package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/Paintersrp/nnt/internal/checkbox"
)

// Session is a text buffer with selections. It remembers a checksum of the
// text it was opened with so callers can tell whether it is modified.
type Session struct {
	text     string
	ranges   []checkbox.Range
	original uint64
	onChange func(modified bool)
}

// New opens a session on content with the cursor at the start. onChange
// runs after every change to the text.
func New(content string, onChange func(modified bool)) *Session {
	return &Session{
		text:     content,
		ranges:   []checkbox.Range{checkbox.Cursor(0)},
		original: xxhash.Sum64String(content),
		onChange: onChange,
	}
}

func (s *Session) Value() string { return s.text }

// Modified reports whether the text differs from what the session was
// opened with.
func (s *Session) Modified() bool {
	return xxhash.Sum64String(s.text) != s.original
}

// SetValue replaces the text, as typing in a view does. Selections are
// clamped to the new text.
func (s *Session) SetValue(text string) {
	if text == s.text {
		return
	}
	s.text = text
	for i, r := range s.ranges {
		s.ranges[i] = checkbox.Range{Anchor: min(r.Anchor, len(text)), Head: min(r.Head, len(text))}
	}
	s.changed()
}

// Selections returns a copy of the current selections.
func (s *Session) Selections() []checkbox.Range {
	return append([]checkbox.Range(nil), s.ranges...)
}

// Select replaces the selections. Positions are clamped to the buffer.
func (s *Session) Select(ranges ...checkbox.Range) {
	if len(ranges) == 0 {
		ranges = []checkbox.Range{checkbox.Cursor(0)}
	}
	s.ranges = s.ranges[:0]
	for _, r := range ranges {
		s.ranges = append(s.ranges, checkbox.Range{
			Anchor: max(0, min(r.Anchor, len(s.text))),
			Head:   max(0, min(r.Head, len(s.text))),
		})
	}
}

// Cursor returns the head of the primary selection.
func (s *Session) Cursor() int {
	return s.ranges[0].Head
}

// SetCursor collapses the selection to a cursor at pos.
func (s *Session) SetCursor(pos int) {
	s.Select(checkbox.Cursor(pos))
}

// MoveCursorDown moves the cursor n lines down, keeping its column where
// the target line is long enough.
func (s *Session) MoveCursorDown(n int) {
	row, col := s.Position(s.Cursor())
	s.SetCursor(s.Offset(row+n, col))
}

// ToggleCheckbox toggles task markers on every selected line as one edit.
// It reports whether the text changed.
func (s *Session) ToggleCheckbox() bool {
	res := checkbox.ToggleText(s.text, s.ranges)
	if !res.Changed() {
		return false
	}
	s.text = res.Text
	s.ranges = res.Ranges
	s.changed()
	return true
}

// Position converts a byte offset into a zero-based row and rune column.
func (s *Session) Position(offset int) (row, col int) {
	offset = max(0, min(offset, len(s.text)))
	before := s.text[:offset]
	row = strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return row, utf8.RuneCountInString(before[lineStart:])
}

// Offset converts a row and rune column into a byte offset, clamping both
// to the buffer.
func (s *Session) Offset(row, col int) int {
	start := 0
	for i := 0; i < row; i++ {
		next := strings.IndexByte(s.text[start:], '\n')
		if next < 0 {
			break
		}
		start += next + 1
	}
	line := s.text[start:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	pos := start
	for i := 0; i < col && pos < start+len(line); i++ {
		_, size := utf8.DecodeRuneInString(s.text[pos:])
		pos += size
	}
	return pos
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange(s.Modified())
	}
}
