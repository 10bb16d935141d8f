package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-pkgz/lgr"
)

// FileStore keeps ids in memory and writes the full set as a JSON array
type FileStore struct {
	path    string
	mu      sync.RWMutex
	ids     map[string]struct{}
	writeMu sync.Mutex // serializes Persist
}

// LoadFile makes a file store and loads existing ids. A missing or corrupt file
// gives an empty set, it never fails.
func LoadFile(path string) *FileStore {
	res := &FileStore{path: path, ids: map[string]struct{}{}}
	data, err := os.ReadFile(path) //nolint:gosec // path from config
	if err != nil {
		if !os.IsNotExist(err) {
			lgr.Printf("[WARN] can't read notified ids from %s, starting empty: %v", path, err)
		}
		return res
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		lgr.Printf("[WARN] corrupt notified ids file %s, starting empty: %v", path, err)
		return res
	}
	for _, id := range ids {
		res.ids[id] = struct{}{}
	}
	lgr.Printf("[INFO] loaded %d notified ids from %s", len(res.ids), path)
	return res
}

// Contains checks if id was notified
func (s *FileStore) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Add records id in memory, Persist writes it
func (s *FileStore) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

// Len returns number of ids
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Persist writes all ids, sorted, to a temp file and renames it over the store file
func (s *FileStore) Persist(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal ids: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename to %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op, everything is written by Persist
func (s *FileStore) Close() error { return nil }
