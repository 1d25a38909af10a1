package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/Paintersrp/nnt/internal/note"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/books/main", opts...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestNewNormalisesURL(t *testing.T) {
	c, err := New("http://localhost:8000/notes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BaseURL() != "http://localhost:8000/notes/" {
		t.Fatalf("expected trailing slash, got %q", c.BaseURL())
	}

	if _, err := New("ftp://example.com"); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}

func TestTags(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/main/api/gettags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"tags":["home","work"]}`)
	})

	tags, err := c.Tags(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"home", "work"}) {
		t.Fatalf("unexpected tags %v", tags)
	}
}

func TestNotesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("html") != "1" || q.Get("todos") != "1" {
			t.Errorf("expected html and todos flags, got %v", q)
		}
		if q.Get("tags") != "a,b" {
			t.Errorf("expected tags filter, got %q", q.Get("tags"))
		}
		_, _ = io.WriteString(w, `{"notes":[{"fullname":"x.md","name":"X","tags":["a"],"html":"<p>x</p>","todos":[["t",1]]}]}`)
	})

	notes, err := c.Notes(context.Background(), NotesQuery{Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 1 || notes[0].ID() != "x.md" || notes[0].Todos[0].CheckIndex != 1 {
		t.Fatalf("unexpected notes %+v", notes)
	}
}

func TestNoteSource(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("fullname"); got != "dir/a b.md" {
			t.Errorf("unexpected fullname %q", got)
		}
		_, _ = io.WriteString(w, `{"note":{"src":"- [ ] a","check_offsets":[3]}}`)
	})

	src, offsets, err := c.NoteSource(context.Background(), "dir/a b.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != "- [ ] a" || !reflect.DeepEqual(offsets, []int{3}) {
		t.Fatalf("unexpected source %q offsets %v", src, offsets)
	}
}

func TestNoteSourceNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "Note not found")
	})

	_, _, err := c.NoteSource(context.Background(), "missing.md")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if Detail(err) != "Note not found" {
		t.Fatalf("expected raw body as detail, got %q", Detail(err))
	}
}

func TestSaveNotesSendsOrderedBatch(t *testing.T) {
	var got []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})

	batch := []note.Payload{note.Save("new", ""), {}, note.Save("edited", "a.md")}
	if err := c.SaveNotes(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []map[string]any{
		{"src": "new"},
		{},
		{"src": "edited", "replace": "a.md"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSaveNotesFailureKeepsMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Note is missing date")
	})

	err := c.SaveNotes(context.Background(), nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != 400 || se.Message != "Note is missing date" {
		t.Fatalf("unexpected status error %+v", se)
	}
}

func TestPreview(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["src"] != "name: x" {
			t.Errorf("unexpected src %q", body["src"])
		}
		_, _ = io.WriteString(w, `{"status":"ok","note":{"name":"x","date":"2024-01-02","tags":[],"html":"<p>x</p>"}}`)
	})

	p, err := c.Preview(context.Background(), "name: x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "x" || p.HTML != "<p>x</p>" {
		t.Fatalf("unexpected preview %+v", p)
	}
}

func TestBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		_, _ = io.WriteString(w, `{"tags":[]}`)
	}, WithToken("secret"))

	if _, err := c.Tags(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: exp.Unix(),
	}).SignedString([]byte("key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	got, ok := TokenExpiry(signed)
	if !ok || !got.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v (%v)", exp, got, ok)
	}

	if _, ok := TokenExpiry("opaque-token"); ok {
		t.Fatalf("expected opaque token to have no expiry")
	}
}

func TestDetailReadsJSONMessage(t *testing.T) {
	err := &StatusError{Code: 500, Message: `{"error":"disk full"}`}
	if got := Detail(err); got != "disk full" {
		t.Fatalf("expected json message, got %q", got)
	}
	if got := Detail(errors.New("boom")); !strings.Contains(got, "boom") {
		t.Fatalf("expected plain error text, got %q", got)
	}
}
