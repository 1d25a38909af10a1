// Package note provides the client-side model of a notebook note.
package note

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ID is the stable identity of a stored note, its full name on the server.
type ID string

var (
	ErrNoSource       = errors.New("note source has not been fetched")
	ErrCheckIndex     = errors.New("checkbox index out of range")
	ErrInvalidOffsets = errors.New("checkbox offsets do not match note source")
)

// Todo is an open task of a note. CheckIndex points into the note's
// checkbox offsets, not into the todo list.
type Todo struct {
	Label      string
	CheckIndex int
}

// UnmarshalJSON decodes the ["label", index] pair sent by the server.
func (t *Todo) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("todo: expected [label, index], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &t.Label); err != nil {
		return fmt.Errorf("todo label: %w", err)
	}
	if err := json.Unmarshal(raw[1], &t.CheckIndex); err != nil {
		return fmt.Errorf("todo index: %w", err)
	}
	return nil
}

func (t Todo) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Label, t.CheckIndex})
}

// Record is a note as known to the client. Source and CheckOffsets are
// absent until fetched. CheckOffsets index bytes of Source.
type Record struct {
	FullName     string   `json:"fullname"`
	Date         string   `json:"date"`
	Name         string   `json:"name"`
	Tags         []string `json:"tags"`
	HTML         string   `json:"html"`
	Todos        []Todo   `json:"todos"`
	Source       *string  `json:"src,omitempty"`
	CheckOffsets []int    `json:"check_offsets,omitempty"`
}

func (r *Record) ID() ID { return ID(r.FullName) }

func (r *Record) HasSource() bool { return r.Source != nil }

// Title is the display name, falling back to the full name.
func (r *Record) Title() string {
	if strings.TrimSpace(r.Name) != "" {
		return r.Name
	}
	return r.FullName
}

// Time parses Date in whatever layout the server used.
func (r *Record) Time() (time.Time, bool) {
	if r.Date == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// HasTag reports whether the note carries tag. The empty tag matches
// untagged notes.
func (r *Record) HasTag(tag string) bool {
	if tag == "" {
		return len(r.Tags) == 0
	}
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Payload is one entry of a save batch. The zero value encodes as {} and
// is ignored by the server.
type Payload struct {
	Source  *string `json:"src,omitempty"`
	Replace ID      `json:"replace,omitempty"`
}

// Save returns a payload storing src, replacing id when it is set.
func Save(src string, id ID) Payload {
	return Payload{Source: &src, Replace: id}
}

func (p Payload) Empty() bool {
	return p.Source == nil && p.Replace == ""
}

// Preview is the server rendering of an unsaved buffer.
type Preview struct {
	Date string   `json:"date"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
	HTML string   `json:"html"`
}

// Header returns the text a new note starts with.
func Header(day time.Time, tags []string) string {
	return fmt.Sprintf("date: %s\ntags: %s\nname:\n\n", day.Format("2006-01-02"), strings.Join(tags, ", "))
}

// HeaderLines is the number of lines Header occupies before the body.
const HeaderLines = 4
