package storage

import (
	"context"

	"resultmon/internal/model"
)

// Store persists run records under a derived filename and lists what has been
// saved. Save returns the bare filename, never a full path.
type Store interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, record model.Record) (string, error)
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, filename string) (model.Record, bool, error)
}
