// Package prefs persists UI preferences between sessions.
package prefs

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const (
	key = "State"

	// version prefixes the stored value; bump it on incompatible changes.
	version = "v1-"
)

var ErrVersion = errors.New("unsupported preference version")

// State is the persisted preference payload.
type State struct {
	// NotChecked lists the tags the user unchecked.
	NotChecked []string `json:"ntags"`
}

// Store keeps a State on disk.
type Store struct {
	d *diskv.Diskv
}

// Open returns a store rooted at dir. The directory is created on first
// write.
func Open(dir string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
	})}
}

// LoadOrDefault returns the stored state, or def when nothing is stored or
// the stored value cannot be decoded.
func (s *Store) LoadOrDefault(def State) State {
	raw, err := s.d.Read(key)
	if err != nil {
		return def
	}
	st, err := Decode(string(raw))
	if err != nil {
		return def
	}
	return st
}

// Save overwrites the stored state.
func (s *Store) Save(st State) error {
	raw, err := Encode(st)
	if err != nil {
		return err
	}
	if err := s.d.Write(key, []byte(raw)); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Erase removes the stored state.
func (s *Store) Erase() error {
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}

// Encode returns the versioned, base64 wrapped JSON form of st.
func Encode(st State) (string, error) {
	if st.NotChecked == nil {
		st.NotChecked = []string{}
	}
	b, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	return version + base64.StdEncoding.EncodeToString(b), nil
}

// Decode parses a value produced by Encode.
func Decode(raw string) (State, error) {
	payload, ok := strings.CutPrefix(strings.TrimSpace(raw), version)
	if !ok {
		return State{}, ErrVersion
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, err
	}
	return st, nil
}
