package note

import (
	"fmt"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// SetSource stores the fetched source. Offsets count characters as the
// server does and are kept as byte offsets. When offsets is nil they are
// recovered from the markdown itself.
func (r *Record) SetSource(src string, offsets []int) error {
	if offsets == nil {
		offsets = ScanCheckOffsets([]byte(src))
	} else {
		var err error
		if offsets, err = byteOffsets(src, offsets); err != nil {
			return err
		}
	}
	for _, off := range offsets {
		if off < 0 || off >= len(src) || !isState(src[off]) {
			return fmt.Errorf("%w: offset %d", ErrInvalidOffsets, off)
		}
	}
	r.Source = &src
	r.CheckOffsets = offsets
	return nil
}

// ClearSource forgets the fetched source and any patches applied to it.
func (r *Record) ClearSource() {
	r.Source = nil
	r.CheckOffsets = nil
}

// Checked returns the state of checkbox i in the fetched source.
func (r *Record) Checked(i int) (bool, error) {
	off, err := r.offset(i)
	if err != nil {
		return false, err
	}
	return (*r.Source)[off] != ' ', nil
}

// SetCheck patches the state character of checkbox i in place.
func (r *Record) SetCheck(i int, value bool) error {
	off, err := r.offset(i)
	if err != nil {
		return err
	}
	state := byte(' ')
	if value {
		state = 'x'
	}
	b := []byte(*r.Source)
	b[off] = state
	src := string(b)
	r.Source = &src
	return nil
}

func (r *Record) offset(i int) (int, error) {
	if r.Source == nil {
		return 0, ErrNoSource
	}
	if i < 0 || i >= len(r.CheckOffsets) {
		return 0, fmt.Errorf("%w: %d of %d", ErrCheckIndex, i, len(r.CheckOffsets))
	}
	return r.CheckOffsets[i], nil
}

// byteOffsets maps character offsets into src to byte offsets.
func byteOffsets(src string, chars []int) ([]int, error) {
	last := -1
	for _, c := range chars {
		if c < 0 {
			return nil, fmt.Errorf("%w: offset %d", ErrInvalidOffsets, c)
		}
		last = max(last, c)
	}
	if last < 0 {
		return []int{}, nil
	}

	// starts[i] is the byte offset of character i.
	starts := make([]int, 0, last+1)
	for i := range src {
		if len(starts) > last {
			break
		}
		starts = append(starts, i)
	}

	out := make([]int, len(chars))
	for i, c := range chars {
		if c >= len(starts) {
			return nil, fmt.Errorf("%w: offset %d", ErrInvalidOffsets, c)
		}
		out[i] = starts[c]
	}
	return out, nil
}

// CharOffsets converts byte offsets into src to character offsets.
func CharOffsets(src string, offsets []int) []int {
	out := make([]int, len(offsets))
	for i, off := range offsets {
		out[i] = utf8.RuneCountInString(src[:off])
	}
	return out
}

func isState(c byte) bool {
	return c == ' ' || c == 'x' || c == 'X'
}

// ScanCheckOffsets returns the offset of the state character of every task
// list item in src, in document order.
func ScanCheckOffsets(src []byte) []int {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	offsets := []int{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		item, ok := n.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue, nil
		}
		block := item.FirstChild()
		if block == nil || block.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		start := block.Lines().At(0).Start
		if start+3 <= len(src) && src[start] == '[' && src[start+2] == ']' && isState(src[start+1]) {
			offsets = append(offsets, start+1)
		}
		return ast.WalkContinue, nil
	})
	return offsets
}
