// Package history persists the list of recently used project files.
//
// The list is ordered by recency with the most recently used path last. It is
// stored as a small JSON document that older releases also read:
//
//	{
//	    "_": "Do not edit manually; storage for OpenTheProject package",
//	    "paths": ["/abs/a.sublime-project"]
//	}
package history

import (
	"encoding/json"
	"os"
	"sync"

	otperrors "github.com/dbmrq/otp/internal/errors"
	"github.com/dbmrq/otp/internal/fileutil"
	"github.com/dbmrq/otp/internal/logging"
)

// Note is the value of the "_" key written into every history file.
const Note = "Do not edit manually; storage for OpenTheProject package"

type document struct {
	Note  string   `json:"_"`
	Paths []string `json:"paths"`
}

// Store reads and writes the history file. All methods copy on read and
// replace the whole list on write.
type Store struct {
	mu   sync.Mutex
	path string
	max  int
}

// NewStore returns a Store backed by path. max caps the list length, oldest
// entries evicted first; 0 keeps everything.
func NewStore(path string, max int) *Store {
	if max < 0 {
		max = 0
	}
	return &Store{path: path, max: max}
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the stored paths, oldest first. A missing or
// unreadable file reads as an empty history.
func (s *Store) Snapshot() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Replace writes paths as the new history. Duplicates keep their last
// occurrence and the cap is applied.
func (s *Store) Replace(paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(paths)
}

// Touch moves path to the most recent position, adding it if needed. It
// reports whether the file changed; nothing is written when path is already
// the most recent entry.
func (s *Store) Touch(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths, err := s.load()
	if err != nil {
		return false, err
	}
	if n := len(paths); n > 0 && paths[n-1] == path {
		return false, nil
	}

	next := make([]string, 0, len(paths)+1)
	for _, p := range paths {
		if p != path {
			next = append(next, p)
		}
	}
	next = append(next, path)
	return true, s.save(next)
}

// Forget removes path from the history. It reports whether path was present.
func (s *Store) Forget(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths, err := s.load()
	if err != nil {
		return false, err
	}
	next := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != path {
			next = append(next, p)
		}
	}
	if len(next) == len(paths) {
		return false, nil
	}
	return true, s.save(next)
}

// Prune drops every path for which exists returns false and returns the
// removed paths. Repeated entries are collapsed as well.
func (s *Store) Prune(exists func(string) bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths, err := s.load()
	if err != nil {
		return nil, err
	}
	var kept, removed []string
	for _, p := range paths {
		if exists(p) {
			kept = append(kept, p)
		} else {
			removed = append(removed, p)
		}
	}
	if len(removed) == 0 && len(s.normalize(paths)) == len(paths) {
		return nil, nil
	}
	return removed, s.save(kept)
}

func (s *Store) load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("history unreadable, starting empty", "path", s.path, "error", err)
		}
		return []string{}, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		logging.Warn("history corrupt, starting empty", "path", s.path, "error", err)
		return []string{}, nil
	}
	if doc.Paths == nil {
		return []string{}, nil
	}
	return doc.Paths, nil
}

func (s *Store) save(paths []string) error {
	doc := document{Note: Note, Paths: s.normalize(paths)}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return otperrors.HistoryWriteError(s.path, err)
	}
	if err := fileutil.WriteAtomic(s.path, append(data, '\n'), 0o644); err != nil {
		return otperrors.HistoryWriteError(s.path, err)
	}
	logging.Debug("history saved", "path", s.path, "entries", len(doc.Paths))
	return nil
}

// normalize applies Unique and then the cap, evicting the oldest entries.
func (s *Store) normalize(paths []string) []string {
	out := Unique(paths)
	if s.max > 0 && len(out) > s.max {
		out = out[len(out)-s.max:]
	}
	return out
}

// Unique drops empty and repeated paths, keeping the most recent (last)
// occurrence of each.
func Unique(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	rev := make([]string, 0, len(paths))
	for i := len(paths) - 1; i >= 0; i-- {
		p := paths[i]
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		rev = append(rev, p)
	}

	out := make([]string, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}
