package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the whole key space as a single JSON object on disk.
// Every Set rewrites the file; a corrupt or unreadable file loads as an
// empty map. Concurrent processes are last-writer-wins.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFile loads (or initializes) a FileStore at path. A missing file and a
// file that fails to parse both start an empty store; only a genuinely
// unreachable directory is an error, and not until the first write.
func OpenFile(path string) *FileStore {
	s := &FileStore{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// Corrupt blob degrades to an empty store.
		s.data = make(map[string]string)
	}
	if s.data == nil {
		s.data = make(map[string]string)
	}
	return s
}

// Get returns the value for key and whether it was present.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set writes value under key and flushes the whole store to disk.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flushLocked()
}

// Delete removes key and flushes.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flushLocked()
}

// flushLocked writes the store atomically: marshal, write a sibling temp
// file, rename over the target. Caller holds s.mu.
func (s *FileStore) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
