package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"resultmon/internal/model"
)

// MemoryStore keeps records in process, keyed by the same filenames a
// FileStore would produce.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]model.Record
	unique  bool
}

func NewMemoryStore(opts ...FileOption) *MemoryStore {
	var cfg FileStore
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryStore{unique: cfg.unique}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]model.Record)
	return nil
}

func (s *MemoryStore) Save(_ context.Context, record model.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records == nil {
		s.records = make(map[string]model.Record)
	}
	filename := Filename(record)
	if s.unique {
		filename = uniqueFilename(record)
	}
	s.records[filename] = normalize(record.Clone())
	return filename, nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Load(_ context.Context, filename string) (model.Record, bool, error) {
	if !validFilename(filename) {
		return model.Record{}, false, fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[filename]
	if !ok {
		return model.Record{}, false, nil
	}
	return record.Clone(), true, nil
}
