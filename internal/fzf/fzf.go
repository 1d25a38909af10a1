package fzf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/Paintersrp/nnt/internal/cache"
	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/render"
)

// ErrNoSelection is returned when the finder is closed without a choice.
var ErrNoSelection = errors.New("no note selected")

// SourceFunc fetches the markdown source of a note.
type SourceFunc func(ctx context.Context, id note.ID) (string, error)

// NoteFinder picks a note with a fuzzy finder and previews its source.
type NoteFinder struct {
	Header string
	Style  string
	Width  int

	ctx    context.Context
	notes  []*note.Record
	source SourceFunc

	preview *cache.LRU[note.ID, string]
}

// previewCacheSize bounds the rendered previews kept while the finder is
// open.
const previewCacheSize = 128

func NewNoteFinder(ctx context.Context, notes []*note.Record, source SourceFunc) *NoteFinder {
	return &NoteFinder{
		ctx:     ctx,
		notes:   notes,
		source:  source,
		Style:   render.DefaultStyle,
		Width:   render.DefaultWidth,
		preview: cache.New[note.ID, string](previewCacheSize),
	}
}

// Notes returns the notes offered for selection.
func (f *NoteFinder) Notes() []*note.Record { return f.notes }

// Find opens the finder, seeded with query, and returns the chosen note.
func (f *NoteFinder) Find(query string) (*note.Record, error) {
	if len(f.notes) == 0 {
		return nil, fmt.Errorf("notebook has no notes")
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := fuzzyfinder.Find(f.notes, func(i int) string {
		return Label(f.notes[i])
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrNoSelection
		}
		return nil, fmt.Errorf("error selecting note: %w", err)
	}
	return f.notes[idx], nil
}

// Label is the line a note is matched against.
func Label(rec *note.Record) string {
	tags := "[No tags]"
	if len(rec.Tags) > 0 {
		tags = fmt.Sprintf("[Tags: %s]", strings.Join(rec.Tags, ", "))
	}
	if rec.Date != "" {
		return fmt.Sprintf("%s %s %s", rec.Date, rec.Title(), tags)
	}
	return fmt.Sprintf("%s %s", rec.Title(), tags)
}

// renderPreview draws note i. Sources are fetched once and kept.
func (f *NoteFinder) renderPreview(i, w, h int) string {
	if i < 0 || i >= len(f.notes) {
		return ""
	}
	return f.Preview(f.notes[i].ID(), w)
}

func (f *NoteFinder) Preview(id note.ID, width int) string {
	if out, ok := f.preview.Get(id); ok {
		return out
	}

	src, err := f.source(f.ctx, id)
	if err != nil {
		return "Error fetching note: " + err.Error()
	}

	wrap := f.Width
	if width > 4 && width-4 < wrap {
		wrap = width - 4
	}
	out, err := render.Markdown(src, f.Style, wrap)
	if err != nil {
		return "Error rendering markdown"
	}

	f.preview.Put(id, out)
	return out
}
