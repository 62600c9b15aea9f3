package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// jsonlFileName is the data file created inside DataDir.
const jsonlFileName = "storefront.jsonl"

// kvJSON is one line of storefront.jsonl.
type kvJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var _ types.Store = (*JSONL)(nil)

// JSONL is a Store that keeps every key in memory and rewrites the whole
// file atomically after each mutation. Keys are written in first-set order.
type JSONL struct {
	mu     sync.RWMutex
	closed bool
	path   string
	keys   []string
	data   map[string]string
}

// OpenJSONL loads storefront.jsonl from dataDir, creating the directory when
// needed. A missing file is an empty store.
func OpenJSONL(dataDir string) (*JSONL, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &JSONL{
		path: filepath.Join(dataDir, jsonlFileName),
		data: make(map[string]string),
	}

	records, err := readJSONL(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	for _, raw := range records {
		var rec kvJSON
		if err := json.Unmarshal(raw, &rec); err != nil || rec.Key == "" {
			continue
		}
		if _, seen := s.data[rec.Key]; !seen {
			s.keys = append(s.keys, rec.Key)
		}
		s.data[rec.Key] = rec.Value
	}
	return s, nil
}

// Path returns the data file path.
func (s *JSONL) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *JSONL) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, types.ErrStoreClosed
	}
	if key == "" {
		return "", false, types.ErrInvalidKey
	}
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key and persists the file.
func (s *JSONL) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	if key == "" {
		return types.ErrInvalidKey
	}
	if _, ok := s.data[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.data[key] = value
	return s.persistLocked()
}

// Delete removes key and persists the file.
func (s *JSONL) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return s.persistLocked()
}

// Close marks the store closed. Every mutation is already on disk.
func (s *JSONL) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// persistLocked writes every key to the data file. The caller must hold s.mu.
func (s *JSONL) persistLocked() error {
	records := make([]json.RawMessage, 0, len(s.keys))
	for _, k := range s.keys {
		raw, err := json.Marshal(kvJSON{Key: k, Value: s.data[k]})
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", k, err)
		}
		records = append(records, raw)
	}
	return writeJSONL(s.path, records)
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped; lines have no length limit.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 && json.Valid(line) {
			records = append(records, json.RawMessage(line))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
