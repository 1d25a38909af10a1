// Package tags holds the tag checkboxes that decide which notes are shown.
package tags

// None is the synthetic tag that controls notes without any tag.
const None = ""

// NoneLabel is how None is presented.
const NoneLabel = "(No tags)"

// Label returns the display text for tag.
func Label(tag string) string {
	if tag == None {
		return NoneLabel
	}
	return tag
}

// Filter is the set of known tags and their checked state, in registration
// order.
type Filter struct {
	order    []string
	checked  map[string]bool
	onChange func()
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{checked: make(map[string]bool)}
}

// OnChange sets the callback run after any state change made through the
// filter.
func (f *Filter) OnChange(fn func()) {
	f.onChange = fn
}

// Register adds tag with the given state. Registering a known tag keeps its
// current state.
func (f *Filter) Register(tag string, checked bool) {
	if _, ok := f.checked[tag]; ok {
		return
	}
	f.order = append(f.order, tag)
	f.checked[tag] = checked
}

// All returns every known tag in registration order.
func (f *Filter) All() []string {
	return append([]string(nil), f.order...)
}

// Len is the number of registered tags.
func (f *Filter) Len() int { return len(f.order) }

// Known reports whether tag has been registered.
func (f *Filter) Known(tag string) bool {
	_, ok := f.checked[tag]
	return ok
}

// IsChecked reports whether tag is checked.
func (f *Filter) IsChecked(tag string) bool {
	return f.checked[tag]
}

// Set changes the state of a single known tag.
func (f *Filter) Set(tag string, checked bool) {
	if _, ok := f.checked[tag]; !ok || f.checked[tag] == checked {
		return
	}
	f.checked[tag] = checked
	f.changed()
}

// Toggle flips a known tag.
func (f *Filter) Toggle(tag string) {
	f.Set(tag, !f.checked[tag])
}

// CheckAll checks every known tag.
func (f *Filter) CheckAll() {
	f.setAll(true)
}

// CheckNone unchecks every known tag.
func (f *Filter) CheckNone() {
	f.setAll(false)
}

// SelectOnlyOne checks tag and unchecks every other tag. An unknown tag
// leaves everything unchecked.
func (f *Filter) SelectOnlyOne(tag string) {
	for _, t := range f.order {
		f.checked[t] = t == tag
	}
	f.changed()
}

// Checked returns the tags whose state equals want, in registration order.
func (f *Filter) Checked(want bool) []string {
	out := []string{}
	for _, t := range f.order {
		if f.checked[t] == want {
			out = append(out, t)
		}
	}
	return out
}

// Visible reports whether a note carrying noteTags passes the filter.
func (f *Filter) Visible(noteTags []string) bool {
	if len(noteTags) == 0 {
		return f.checked[None]
	}
	for _, t := range noteTags {
		if f.checked[t] {
			return true
		}
	}
	return false
}

func (f *Filter) setAll(value bool) {
	for _, t := range f.order {
		f.checked[t] = value
	}
	f.changed()
}

func (f *Filter) changed() {
	if f.onChange != nil {
		f.onChange()
	}
}
