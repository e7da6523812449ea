package storage

import "fmt"

const (
	KindFile   = "file"
	KindMemory = "memory"
	KindSQLite = "sqlite"

	DefaultSQLitePath = "resultmon.db"
)

// NewStore builds a backend by name. For the file backend path is the
// results directory, for sqlite the database file. Options apply to every
// backend.
func NewStore(kind, path string, opts ...FileOption) (Store, error) {
	switch kind {
	case "", KindFile:
		return NewFileStore(path, opts...), nil
	case KindMemory:
		return NewMemoryStore(opts...), nil
	case KindSQLite:
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewSQLiteStore(path, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
