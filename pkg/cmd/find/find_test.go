package find

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Paintersrp/nnt/internal/api/apitest"
	"github.com/Paintersrp/nnt/internal/fzf"
	"github.com/Paintersrp/nnt/internal/note"
	"github.com/Paintersrp/nnt/internal/prefs"
	"github.com/Paintersrp/nnt/internal/state"
)

func newState(t *testing.T) *state.State {
	t.Helper()
	srv := apitest.NewServer(t, []string{"work", "home"},
		apitest.Note{FullName: "plan.md", Date: "2024-05-01", Name: "Plan", Tags: []string{"work"}, Src: "# Plan\n\n- [ ] write\n"},
		apitest.Note{FullName: "shop.md", Date: "2024-05-02", Name: "Shopping", Tags: []string{"home"}, Src: "- [ ] milk\n"},
	)
	return &state.State{Client: srv.Client(t), Prefs: prefs.Open(t.TempDir())}
}

func TestFindPrintsChosenNote(t *testing.T) {
	var offered []string
	var gotQuery string
	cmd := newCmdFind(state.FactoryFor(newState(t)), func(f *fzf.NoteFinder, query string) (*note.Record, error) {
		gotQuery = query
		for _, rec := range f.Notes() {
			offered = append(offered, rec.FullName)
		}
		return f.Notes()[0], nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--tag", "work", "--raw", "pla"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "pla" {
		t.Fatalf("expected query pla, got %q", gotQuery)
	}
	if len(offered) != 1 {
		t.Fatalf("expected only the work note offered, got %v", offered)
	}
	if out.String() != "# Plan\n\n- [ ] write\n" {
		t.Fatalf("expected raw source, got %q", out.String())
	}
}

func TestFindAbortIsQuiet(t *testing.T) {
	cmd := newCmdFind(state.FactoryFor(newState(t)), func(*fzf.NoteFinder, string) (*note.Record, error) {
		return nil, fzf.ErrNoSelection
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error on abort, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestShowRendersMarkdown(t *testing.T) {
	var out bytes.Buffer
	rec := &note.Record{FullName: "plan.md"}
	if err := show(&out, rec, "# Heading\n\nbody text\n", false, "notty", 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "plan.md") || !strings.Contains(out.String(), "body text") {
		t.Fatalf("expected rendered note, got:\n%s", out.String())
	}
}
