// Package logstore persists conversation logs keyed by scenario identifier.
// It is a plain key-value store JSON-serialized to a single file, with a
// best-effort POST-based server sync; the list UI consumes it read-mostly.
package logstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one logged conversation line.
type Entry struct {
	ID       string    `json:"id"`
	Scenario string    `json:"scenario"`
	Speaker  string    `json:"speaker"`
	Text     string    `json:"text"`
	Time     time.Time `json:"time"`
}

// Store holds entries grouped by scenario, persisted as one JSON document.
type Store struct {
	path string

	mu        sync.RWMutex
	scenarios map[string][]Entry
}

// DefaultPath returns the default on-disk location of the store.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".windowlist", "conversations.json"), nil
}

// Open loads the store at path, creating an empty one if the file does not
// exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("logstore: path is empty")
	}
	s := &Store{
		path:      path,
		scenarios: make(map[string][]Entry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("logstore: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.scenarios); err != nil {
		return nil, fmt.Errorf("logstore: parse %s: %w", path, err)
	}
	return s, nil
}

// Append records an entry under its scenario and saves the store. A missing
// ID or timestamp is filled in.
func (s *Store) Append(e Entry) error {
	if e.Scenario == "" {
		return errors.New("logstore: entry has no scenario")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	s.mu.Lock()
	s.scenarios[e.Scenario] = append(s.scenarios[e.Scenario], e)
	s.mu.Unlock()

	return s.save()
}

// Entries returns the entries logged under scenario, in append order.
func (s *Store) Entries(scenario string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.scenarios[scenario]...)
}

// Scenarios returns all known scenario identifiers, sorted.
func (s *Store) Scenarios() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.scenarios))
	for k := range s.scenarios {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the total number of entries across all scenarios.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, entries := range s.scenarios {
		n += len(entries)
	}
	return n
}

// Snapshot returns a copy of the full scenario map, for serialization.
func (s *Store) Snapshot() map[string][]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]Entry, len(s.scenarios))
	for k, v := range s.scenarios {
		out[k] = append([]Entry(nil), v...)
	}
	return out
}

// save writes the store atomically: serialize to a temp file in the same
// directory, then rename over the target.
func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.scenarios, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("logstore: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("logstore: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".conversations-*.json")
	if err != nil {
		return fmt.Errorf("logstore: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("logstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("logstore: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("logstore: rename: %w", err)
	}
	return nil
}
