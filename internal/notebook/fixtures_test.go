package notebook

import (
	"context"
	"fmt"

	"github.com/Paintersrp/nnt/internal/api"
	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/prefs"
)

// queue is a Scheduler that holds work until the test runs it, so
// completions can be delivered in any order.
type queue struct {
	jobs []func()
}

func (q *queue) Go(work func(ctx context.Context) func()) {
	q.jobs = append(q.jobs, func() {
		if done := work(context.Background()); done != nil {
			done()
		}
	})
}

func (q *queue) len() int { return len(q.jobs) }

func (q *queue) runAll() {
	for len(q.jobs) > 0 {
		q.run(0)
	}
}

func (q *queue) run(i int) {
	job := q.jobs[i]
	q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
	job()
}

type stored struct {
	rec     note.Record
	src     string
	offsets []int
}

type fakeBackend struct {
	tags  []string
	notes []stored

	tagsErr   error
	notesErr  error
	sourceErr error
	saveErr   error

	sourceCalls map[note.ID]int
	saved       [][]note.Payload
	previewed   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		tags: []string{"work", "home"},
		notes: []stored{
			{
				rec: note.Record{
					FullName: "a.md",
					Name:     "A",
					Tags:     []string{"work"},
					HTML:     `<ul><li><input type="checkbox" disabled> one</li><li><input type="checkbox" disabled> two</li></ul>`,
					Todos:    []note.Todo{{Label: "one", CheckIndex: 0}, {Label: "two", CheckIndex: 1}},
				},
				src:     "- [ ] one\n- [ ] two\n",
				offsets: []int{3, 13},
			},
			{
				rec: note.Record{FullName: "b.md", Name: "B", HTML: "<p>plain</p>"},
				src: "plain\n",
			},
			{
				rec: note.Record{
					FullName: "c.md",
					Name:     "C",
					Tags:     []string{"home"},
					HTML:     `<ul><li><input type="checkbox" disabled> x</li></ul>`,
					Todos:    []note.Todo{{Label: "x", CheckIndex: 0}},
				},
				src:     "- [ ] x\n",
				offsets: []int{3},
			},
		},
		sourceCalls: make(map[note.ID]int),
	}
}

func (b *fakeBackend) Tags(context.Context) ([]string, error) {
	if b.tagsErr != nil {
		return nil, b.tagsErr
	}
	return append([]string(nil), b.tags...), nil
}

func (b *fakeBackend) Notes(context.Context, api.NotesQuery) ([]*note.Record, error) {
	if b.notesErr != nil {
		return nil, b.notesErr
	}
	out := make([]*note.Record, 0, len(b.notes))
	for _, s := range b.notes {
		rec := s.rec
		out = append(out, &rec)
	}
	return out, nil
}

func (b *fakeBackend) NoteSource(_ context.Context, id note.ID) (string, []int, error) {
	b.sourceCalls[id]++
	if b.sourceErr != nil {
		return "", nil, b.sourceErr
	}
	for _, s := range b.notes {
		if s.rec.ID() == id {
			return s.src, s.offsets, nil
		}
	}
	return "", nil, fmt.Errorf("%w: %s", api.ErrNotFound, id)
}

func (b *fakeBackend) SaveNotes(_ context.Context, batch []note.Payload) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saved = append(b.saved, batch)
	return nil
}

func (b *fakeBackend) Preview(_ context.Context, src string) (*note.Preview, error) {
	b.previewed = append(b.previewed, src)
	return &note.Preview{Name: "preview", HTML: "<p>" + src + "</p>"}, nil
}

type message struct {
	title  string
	detail string
}

type recorder struct {
	NopObserver
	messages  []message
	hidden    int
	saveCount int
	counts    Counts
	loads     int
	previews  []*note.Preview
	focused   []note.ID
	changed   map[note.ID]int
}

func newRecorder() *recorder {
	return &recorder{changed: make(map[note.ID]int)}
}

func (r *recorder) ShowMessage(title, detail string) {
	r.messages = append(r.messages, message{title, detail})
}

func (r *recorder) HideMessage() { r.hidden++ }
func (r *recorder) SaveCountChanged(n int) { r.saveCount = n }
func (r *recorder) FilterChanged(c Counts) { r.counts = c }
func (r *recorder) NotesLoaded() { r.loads++ }
func (r *recorder) ShowPreview(p *note.Preview) { r.previews = append(r.previews, p) }
func (r *recorder) Focus(id note.ID) { r.focused = append(r.focused, id) }
func (r *recorder) NoteChanged(id note.ID) { r.changed[id]++ }

type memPrefs struct {
	state prefs.State
	saves int
}

func (m *memPrefs) LoadOrDefault(def prefs.State) prefs.State {
	if m.state.NotChecked == nil {
		return def
	}
	return m.state
}

func (m *memPrefs) Save(st prefs.State) error {
	m.state = st
	m.saves++
	return nil
}
