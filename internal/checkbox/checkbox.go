// Package checkbox toggles markdown task markers on the lines covered by a
// set of selections.
package checkbox

import (
	"sort"
	"strings"
)

const (
	unchecked = "[ ]"
	checked   = "[x]"
	newTodo   = "- [ ] "
)

// Range is a selection in a text buffer. Anchor and Head are byte offsets;
// the range is a cursor when they are equal.
type Range struct {
	Anchor int
	Head   int
}

// Cursor returns an empty range at pos.
func Cursor(pos int) Range {
	return Range{Anchor: pos, Head: pos}
}

// From is the lower end of the range.
func (r Range) From() int { return min(r.Anchor, r.Head) }

// To is the upper end of the range.
func (r Range) To() int { return max(r.Anchor, r.Head) }

// Empty reports whether the range is a bare cursor.
func (r Range) Empty() bool { return r.Anchor == r.Head }

// Edit replaces the bytes in [From, To) of the original buffer with Insert.
type Edit struct {
	From   int
	To     int
	Insert string
}

// Delta is the change in buffer length caused by the edit.
func (e Edit) Delta() int {
	return len(e.Insert) - (e.To - e.From)
}

// Result is the outcome of a toggle applied to a buffer.
type Result struct {
	Text   string
	Edits  []Edit
	Ranges []Range
}

// Changed reports whether the toggle produced any edit.
func (r Result) Changed() bool { return len(r.Edits) > 0 }

// lines indexes the start offset of every line in a buffer.
type lines struct {
	text   string
	starts []int
}

func indexLines(text string) lines {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lines{text: text, starts: starts}
}

// at returns the zero-based number of the line containing pos and its
// [from, to) bounds, excluding the line break.
func (l lines) at(pos int) (int, int, int) {
	n := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > pos }) - 1
	from := l.starts[n]
	to := len(l.text)
	if n+1 < len(l.starts) {
		to = l.starts[n+1] - 1
	}
	return n, from, to
}

// Toggle computes the edits that flip or create a task marker on each line
// touched by ranges. Edits are expressed against text and sorted by offset.
//
// On every touched line:
//   - "- [ ] " / "* [ ] " becomes checked
//   - "- [x] " / "* [x] " becomes unchecked
//   - a bullet without a marker gets "[ ] " after the bullet
//   - anything else gets "- [ ] " at its indentation
//
// A non-empty range that ends exactly at the start of a line does not touch
// that line. Each line is visited once even when ranges overlap.
func Toggle(text string, ranges []Range) []Edit {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]Range, len(ranges))
	for i, r := range ranges {
		sorted[i] = clamp(r, len(text))
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].From() < sorted[j].From()
	})

	idx := indexLines(text)
	lastLine := -1
	var edits []Edit

	for _, r := range sorted {
		for pos := r.From(); pos <= r.To(); {
			n, from, to := idx.at(pos)
			if n > lastLine && (r.Empty() || r.To() > from) {
				edits = append(edits, toggleLine(text[from:to], from))
				lastLine = n
			}
			pos = to + 1
		}
	}
	return edits
}

func toggleLine(line string, offset int) Edit {
	indent := len(line) - len(strings.TrimLeft(line, " \t\v\f\r"))
	rest := line[indent:]

	if !strings.HasPrefix(rest, "- ") && !strings.HasPrefix(rest, "* ") {
		at := offset + indent
		return Edit{From: at, To: at, Insert: newTodo}
	}

	box := offset + indent + 2
	switch {
	case strings.HasPrefix(rest[2:], unchecked):
		return Edit{From: box + 1, To: box + 2, Insert: "x"}
	case strings.HasPrefix(rest[2:], checked):
		return Edit{From: box + 1, To: box + 2, Insert: " "}
	default:
		return Edit{From: box, To: box, Insert: unchecked + " "}
	}
}

func clamp(r Range, size int) Range {
	fix := func(p int) int { return max(0, min(p, size)) }
	return Range{Anchor: fix(r.Anchor), Head: fix(r.Head)}
}

// Apply applies edits, all expressed against text, in one pass. Edits must
// not overlap.
func Apply(text string, edits []Edit) string {
	if len(edits) == 0 {
		return text
	}
	sorted := sortedEdits(edits)

	var b strings.Builder
	b.Grow(len(text) + totalDelta(sorted))
	prev := 0
	for _, e := range sorted {
		b.WriteString(text[prev:e.From])
		b.WriteString(e.Insert)
		prev = e.To
	}
	b.WriteString(text[prev:])
	return b.String()
}

// MapPos maps a position in the original buffer through edits. A position
// at an insertion point moves past the inserted text; a position inside a
// replaced span moves to the end of the replacement.
func MapPos(pos int, edits []Edit) int {
	shift := 0
	for _, e := range sortedEdits(edits) {
		switch {
		case e.To <= pos && !(e.From == e.To && e.From == pos):
			shift += e.Delta()
		case e.From == e.To && e.From == pos:
			shift += len(e.Insert)
		case e.From < pos:
			return e.From + shift + len(e.Insert)
		default:
			return pos + shift
		}
	}
	return pos + shift
}

// MapRange maps both ends of r through edits.
func MapRange(r Range, edits []Edit) Range {
	return Range{Anchor: MapPos(r.Anchor, edits), Head: MapPos(r.Head, edits)}
}

// ToggleText runs Toggle and applies the result, carrying ranges through the
// edit set.
func ToggleText(text string, ranges []Range) Result {
	edits := Toggle(text, ranges)
	mapped := make([]Range, len(ranges))
	for i, r := range ranges {
		mapped[i] = MapRange(clamp(r, len(text)), edits)
	}
	return Result{
		Text:   Apply(text, edits),
		Edits:  edits,
		Ranges: mapped,
	}
}

func sortedEdits(edits []Edit) []Edit {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].From < sorted[j].From
	})
	return sorted
}

func totalDelta(edits []Edit) int {
	d := 0
	for _, e := range edits {
		d += e.Delta()
	}
	return max(d, 0)
}
