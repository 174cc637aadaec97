package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultStatePath is where the file store keeps the cursor record when no
// path is configured.
const DefaultStatePath = "state/last_seen.json"

// FileStore keeps the record as a single flat JSON object on disk:
// { "<repositoryIdentifier>": "<lastSeenTag>", ... }.
type FileStore struct {
	path string
}

// NewFileStore creates a file store at path, falling back to
// DefaultStatePath when path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultStatePath
	}
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the record from disk. A missing file is a normal first run
// and yields an empty record. An unreadable or malformed file also yields
// an empty record, with a warning: every release then counts as new, and
// a duplicate notification is preferred over none at all.
func (s *FileStore) Load(_ context.Context) (Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, nil
	}
	if err != nil {
		slog.Warn("state file unreadable, starting from empty state", "path", s.path, "err", err)
		return Record{}, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Warn("state file malformed, starting from empty state", "path", s.path, "err", err)
		return Record{}, nil
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// Persist overwrites the backing file atomically (temp file + rename).
// The on-disk record is re-read and merged under rec first, so cursor
// entries written by another host since our load survive the overwrite.
func (s *FileStore) Persist(ctx context.Context, rec Record) error {
	merged, _ := s.Load(ctx)
	merged.Merge(rec)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".last_seen-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() {}
