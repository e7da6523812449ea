package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"resultmon/internal/model"
)

// FileStore writes one JSON document per record into a flat directory.
//
// There is no locking and no atomic rename: concurrent saves of colliding
// names race, and a crash mid-write can leave a truncated file.
type FileStore struct {
	dir    string
	unique bool
}

type FileOption func(*FileStore)

// WithUniqueSuffix appends a short random token to every filename so records
// started in the same millisecond no longer overwrite each other.
func WithUniqueSuffix() FileOption {
	return func(s *FileStore) {
		s.unique = true
	}
}

// NewFileStore binds a store to dir without touching the filesystem.
func NewFileStore(dir string, opts ...FileOption) *FileStore {
	if dir == "" {
		dir = DefaultResultsDir
	}
	s := &FileStore{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Init is a no-op; the directory is created on first save.
func (s *FileStore) Init(_ context.Context) error {
	return nil
}

func (s *FileStore) Save(_ context.Context, record model.Record) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrCreateDir, s.dir, err)
	}

	filename := Filename(record)
	if s.unique {
		filename = uniqueFilename(record)
	}

	data, err := EncodeRecord(record)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrEncode, filename, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrWrite, filename, err)
	}
	return filename, nil
}

// List returns the .json regular files in the directory, sorted by name.
// A missing directory yields an empty list.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w %s: %w", ErrReadDir, s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !hasRecordExt(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrReadDir, entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Load(_ context.Context, filename string) (model.Record, bool, error) {
	if !validFilename(filename) {
		return model.Record{}, false, fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Record{}, false, nil
		}
		return model.Record{}, false, err
	}
	record, err := DecodeRecord(data)
	if err != nil {
		return model.Record{}, false, fmt.Errorf("%w %s: %w", ErrDecode, filename, err)
	}
	return record, true, nil
}
