package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"resultmon/internal/model"
)

func TestNewStoreBackends(t *testing.T) {
	dir := t.TempDir()
	for kind, want := range map[string]string{
		"":       "*storage.FileStore",
		"file":   "*storage.FileStore",
		"memory": "*storage.MemoryStore",
		"sqlite": "*storage.SQLiteStore",
	} {
		store, err := NewStore(kind, filepath.Join(dir, "target"))
		if err != nil {
			t.Fatalf("new store %q: %v", kind, err)
		}
		if got := typeName(store); got != want {
			t.Fatalf("kind %q: got %s want %s", kind, got, want)
		}
		if err := CloseIfSupported(store); err != nil {
			t.Fatalf("close %q: %v", kind, err)
		}
	}
}

func TestNewStoreUniqueSuffixAppliesToEveryBackend(t *testing.T) {
	ctx := context.Background()
	for _, kind := range []string{KindFile, KindMemory, KindSQLite} {
		t.Run(kind, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "target")
			if kind == KindSQLite {
				path += ".db"
			}
			store, err := NewStore(kind, path, WithUniqueSuffix())
			if err != nil {
				t.Fatalf("new store: %v", err)
			}
			if err := store.Init(ctx); err != nil {
				t.Fatalf("init: %v", err)
			}
			t.Cleanup(func() {
				_ = CloseIfSupported(store)
			})

			record := model.NewRecordAt("ihc", fixedStart)
			first, err := store.Save(ctx, record)
			if err != nil {
				t.Fatalf("first save: %v", err)
			}
			second, err := store.Save(ctx, record)
			if err != nil {
				t.Fatalf("second save: %v", err)
			}
			if first == second {
				t.Fatalf("expected distinct names, both %q", first)
			}
			if !strings.HasPrefix(first, "ihc_20240517_090405_123_") {
				t.Fatalf("unexpected unique name %q", first)
			}

			names, err := store.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(names) != 2 {
				t.Fatalf("expected both records listed, got %v", names)
			}
		})
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	if err == nil {
		t.Fatal("expected unsupported store error")
	}
}

func typeName(store Store) string {
	switch store.(type) {
	case *FileStore:
		return "*storage.FileStore"
	case *MemoryStore:
		return "*storage.MemoryStore"
	case *SQLiteStore:
		return "*storage.SQLiteStore"
	default:
		return "unknown"
	}
}
