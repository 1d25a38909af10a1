package fzf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Paintersrp/nnt/internal/note"
)

func TestLabel(t *testing.T) {
	cases := []struct {
		name   string
		rec    note.Record
		expect string
	}{
		{
			name:   "no tags",
			rec:    note.Record{FullName: "a.md", Name: "Alpha"},
			expect: "Alpha [No tags]",
		},
		{
			name:   "dated with tags",
			rec:    note.Record{FullName: "b.md", Name: "Beta", Date: "2024-03-01", Tags: []string{"work", "todo"}},
			expect: "2024-03-01 Beta [Tags: work, todo]",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := tc.rec
			if got := Label(&rec); got != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}

func TestPreviewFetchesOnce(t *testing.T) {
	calls := 0
	f := NewNoteFinder(context.Background(), []*note.Record{{FullName: "a.md"}}, func(_ context.Context, id note.ID) (string, error) {
		calls++
		return "# Heading\n\nbody text\n", nil
	})
	f.Style = "notty"

	first := f.Preview("a.md", 80)
	second := f.Preview("a.md", 80)

	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
	if first != second {
		t.Fatalf("expected cached preview")
	}
	if !strings.Contains(first, "body text") {
		t.Fatalf("expected rendered body, got %q", first)
	}
}

func TestPreviewReportsFetchError(t *testing.T) {
	f := NewNoteFinder(context.Background(), nil, func(context.Context, note.ID) (string, error) {
		return "", errors.New("offline")
	})

	if got := f.Preview("a.md", 80); !strings.Contains(got, "offline") {
		t.Fatalf("expected error in preview, got %q", got)
	}
}

func TestFindWithoutNotes(t *testing.T) {
	f := NewNoteFinder(context.Background(), nil, nil)
	if _, err := f.Find(""); err == nil {
		t.Fatalf("expected error for empty notebook")
	}
}
