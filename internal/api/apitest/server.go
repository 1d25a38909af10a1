// Package apitest runs an in-memory notebook server for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/Paintersrp/nnt/internal/api"
	"github.com/Paintersrp/nnt/internal/note"
)

// Prefix is the notebook path the server answers under.
const Prefix = "/nb/"

// Note is a stored note. Its body and todos are derived from Src.
type Note struct {
	FullName string
	Date     string
	Name     string
	Tags     []string
	Src      string
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	tags     []string
	notes    []*Note
	saves    [][]map[string]string
	saveErr  string
	requests map[string]int
	created  int
}

func NewServer(t testing.TB, tags []string, notes ...Note) *Server {
	t.Helper()
	s := &Server{tags: tags, requests: make(map[string]int)}
	for i := range notes {
		n := notes[i]
		s.notes = append(s.notes, &n)
	}
	s.Server = httptest.NewServer(s)
	t.Cleanup(s.Close)
	return s
}

// NotebookURL is the URL to hand to a client.
func (s *Server) NotebookURL() string {
	return s.Server.URL + Prefix
}

func (s *Server) Client(t testing.TB) *api.Client {
	t.Helper()
	c, err := api.New(s.NotebookURL())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

// FailSaves makes every save answer 500 with msg. An empty msg clears it.
func (s *Server) FailSaves(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = msg
}

func (s *Server) Source(fullName string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.find(fullName); n != nil {
		return n.Src, true
	}
	return "", false
}

// Saves returns the payloads of every accepted save, in order.
func (s *Server) Saves() [][]map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]map[string]string(nil), s.saves...)
}

// Requests counts the calls made to an endpoint such as "getnote".
func (s *Server) Requests(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[endpoint]
}

func (s *Server) NoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

func (s *Server) find(fullName string) *Note {
	for _, n := range s.notes {
		if n.FullName == fullName {
			return n
		}
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	endpoint := strings.TrimPrefix(r.URL.Path, Prefix+"api/")
	s.requests[endpoint]++

	switch endpoint {
	case "gettags":
		writeJSON(w, map[string]any{"tags": s.tags})
	case "getnotes":
		s.getNotes(w, r)
	case "getnote":
		n := s.find(r.URL.Query().Get("fullname"))
		if n == nil {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "Note not found")
			return
		}
		writeJSON(w, map[string]any{
			"note": map[string]any{"src": n.Src, "check_offsets": note.CharOffsets(n.Src, note.ScanCheckOffsets([]byte(n.Src)))},
		})
	case "savenotes":
		s.saveNotes(w, r)
	case "previewnote":
		var req struct {
			Src string `json:"src"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, err.Error())
			return
		}
		meta := parseHeader(req.Src)
		writeJSON(w, map[string]any{
			"status": "ok",
			"note": map[string]any{
				"date": meta.Date,
				"name": meta.Name,
				"tags": meta.Tags,
				"html": renderHTML(req.Src),
			},
		})
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) getNotes(w http.ResponseWriter, r *http.Request) {
	var filter map[string]bool
	if raw := r.URL.Query().Get("tags"); raw != "" {
		filter = make(map[string]bool)
		for _, t := range strings.Split(raw, ",") {
			filter[t] = true
		}
	}

	out := []map[string]any{}
	for _, n := range s.notes {
		if filter != nil && !anyTag(n.Tags, filter) {
			continue
		}
		rec := map[string]any{
			"fullname": n.FullName,
			"date":     n.Date,
			"name":     n.Name,
			"tags":     nonNil(n.Tags),
			"html":     renderHTML(n.Src),
			"todos":    openTodos(n.Src),
		}
		if r.URL.Query().Get("src") == "1" {
			rec["src"] = n.Src
		}
		out = append(out, rec)
	}
	writeJSON(w, map[string]any{"notes": out})
}

func (s *Server) saveNotes(w http.ResponseWriter, r *http.Request) {
	if s.saveErr != "" {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, s.saveErr)
		return
	}

	var batch []map[string]string
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, err.Error())
		return
	}
	s.saves = append(s.saves, batch)

	for _, p := range batch {
		src, hasSrc := p["src"]
		name := p["replace"]
		existing := s.find(name)

		switch {
		case existing != nil && !hasSrc:
			s.remove(name)
		case existing != nil:
			meta := parseHeader(src)
			existing.Src = src
			if meta.Name != "" {
				existing.Name = meta.Name
			}
		case hasSrc:
			s.created++
			meta := parseHeader(src)
			s.notes = append(s.notes, &Note{
				FullName: fmt.Sprintf("new-%d.md", s.created),
				Date:     meta.Date,
				Name:     meta.Name,
				Tags:     meta.Tags,
				Src:      src,
			})
		}
	}
	writeJSON(w, map[string]any{"status": "ok"})
}

func (s *Server) remove(fullName string) {
	for i, n := range s.notes {
		if n.FullName == fullName {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return
		}
	}
}

var taskLine = regexp.MustCompile(`^\s*[-*+] \[([ xX])\] ?(.*)$`)

// openTodos lists the unchecked tasks of src with their checkbox index.
func openTodos(src string) [][]any {
	todos := [][]any{}
	idx := 0
	for _, line := range strings.Split(src, "\n") {
		m := taskLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if m[1] == " " {
			todos = append(todos, []any{m[2], idx})
		}
		idx++
	}
	return todos
}

func renderHTML(src string) string {
	var b strings.Builder
	for _, line := range strings.Split(src, "\n") {
		if isHeader(line) || strings.TrimSpace(line) == "" {
			continue
		}
		if m := taskLine.FindStringSubmatch(line); m != nil {
			checked := ""
			if m[1] != " " {
				checked = " checked"
			}
			fmt.Fprintf(&b, `<ul><li><input type="checkbox" disabled%s> %s</li></ul>`, checked, html.EscapeString(m[2]))
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(line))
	}
	return b.String()
}

type header struct {
	Date string
	Name string
	Tags []string
}

func isHeader(line string) bool {
	for _, key := range []string{"date:", "tags:", "name:"} {
		if strings.HasPrefix(line, key) {
			return true
		}
	}
	return false
}

func parseHeader(src string) header {
	h := header{Tags: []string{}}
	for _, line := range strings.Split(src, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "date":
			h.Date = value
		case "name":
			h.Name = value
		case "tags":
			for _, t := range strings.Split(value, ",") {
				if t = strings.TrimSpace(t); t != "" {
					h.Tags = append(h.Tags, t)
				}
			}
		}
	}
	return h
}

func anyTag(tags []string, filter map[string]bool) bool {
	for _, t := range tags {
		if filter[t] {
			return true
		}
	}
	return false
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
