package notebook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Paintersrp/nnt/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCmdNotebook()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNotebookLifecycle(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No notebooks configured") {
		t.Fatalf("expected empty list, got %q", out)
	}

	if _, err := run(t, "add", "work", "https://notes.example.com/work"); err != nil {
		t.Fatalf("failed to add work: %v", err)
	}
	if _, err := run(t, "add", "home", "http://localhost:8080/home/", "--token", "secret"); err != nil {
		t.Fatalf("failed to add home: %v", err)
	}

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.CurrentNotebook != "work" {
		t.Fatalf("expected first notebook to be current, got %q", cfg.CurrentNotebook)
	}
	if got := cfg.Notebooks["work"].URL; got != "https://notes.example.com/work/" {
		t.Fatalf("expected normalized url, got %q", got)
	}

	if _, err := run(t, "use", "home"); err != nil {
		t.Fatalf("failed to switch: %v", err)
	}
	out, err = run(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "home") && !strings.HasPrefix(line, "*") {
			t.Fatalf("expected home marked current, got %q", line)
		}
	}

	if _, err := run(t, "remove", "home"); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	cfg, err = config.Load(home)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.CurrentNotebook != "work" || len(cfg.Notebooks) != 1 {
		t.Fatalf("expected work to remain current, got %q with %d notebooks", cfg.CurrentNotebook, len(cfg.Notebooks))
	}
}

func TestNotebookAddRejectsBadURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := run(t, "add", "bad", "ftp://example.com"); err == nil {
		t.Fatalf("expected an error for a non-http url")
	}
	if _, err := run(t, "add", "dup", "http://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := run(t, "add", "dup", "http://example.com"); err == nil {
		t.Fatalf("expected an error for a duplicate name")
	}
}

func TestNotebookUseUnknown(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := run(t, "use", "missing"); err == nil {
		t.Fatalf("expected an error for an unknown notebook")
	}
}
