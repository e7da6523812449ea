package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"resultmon/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records as rows keyed by their derived filename, so
// naming and overwrite semantics match FileStore.
type SQLiteStore struct {
	path   string
	unique bool

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string, opts ...FileOption) *SQLiteStore {
	var cfg FileStore
	for _, opt := range opts {
		opt(&cfg)
	}
	return &SQLiteStore{path: path, unique: cfg.unique}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, record model.Record) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}

	filename := Filename(record)
	if s.unique {
		filename = uniqueFilename(record)
	}
	payload, err := EncodePayload(record)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrEncode, filename, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO records (filename, algorithm_name, start_timestamp, codec_version, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			algorithm_name = excluded.algorithm_name,
			start_timestamp = excluded.start_timestamp,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, filename, record.AlgorithmName, TimestampToken(record.StartTimestamp), CurrentCodecVersion, payload)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrWrite, filename, err)
	}
	return filename, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT filename FROM records ORDER BY filename`)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadDir, s.path, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrReadDir, s.path, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadDir, s.path, err)
	}
	return names, nil
}

func (s *SQLiteStore) Load(ctx context.Context, filename string) (model.Record, bool, error) {
	if !validFilename(filename) {
		return model.Record{}, false, fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}
	db, err := s.getDB()
	if err != nil {
		return model.Record{}, false, err
	}

	var (
		codecVersion int
		payload      []byte
	)
	err = db.QueryRowContext(ctx, `SELECT codec_version, payload FROM records WHERE filename = ?`, filename).
		Scan(&codecVersion, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Record{}, false, nil
		}
		return model.Record{}, false, err
	}
	if err := checkVersion(codecVersion); err != nil {
		return model.Record{}, false, fmt.Errorf("%w %s: %w", ErrDecode, filename, err)
	}

	record, err := DecodePayload(payload)
	if err != nil {
		return model.Record{}, false, fmt.Errorf("%w %s: %w", ErrDecode, filename, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			filename TEXT PRIMARY KEY,
			algorithm_name TEXT NOT NULL,
			start_timestamp TEXT NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
