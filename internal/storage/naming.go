package storage

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"resultmon/internal/model"
)

const (
	DefaultResultsDir = "wyniki"
	RecordExt         = ".json"

	// Fixed width and colon free, so names sort in time order within one
	// algorithm prefix.
	timestampLayout = "20060102_150405.000"
)

// Filename derives <algorithm>_<YYYYMMDD_HHMMSS_mmm>.json for a record.
// Records sharing a name and millisecond map to the same file.
func Filename(record model.Record) string {
	return record.AlgorithmName + "_" + TimestampToken(record.StartTimestamp) + RecordExt
}

// TimestampToken renders t in UTC as YYYYMMDD_HHMMSS_mmm.
func TimestampToken(t time.Time) string {
	return strings.Replace(t.UTC().Format(timestampLayout), ".", "_", 1)
}

func uniqueFilename(record model.Record) string {
	base := strings.TrimSuffix(Filename(record), RecordExt)
	return base + "_" + uuid.NewString()[:8] + RecordExt
}

// hasRecordExt reports whether name has a stem followed by RecordExt; a bare
// ".json" dotfile has no extension.
func hasRecordExt(name string) bool {
	return len(name) > len(RecordExt) && strings.HasSuffix(name, RecordExt)
}

func validFilename(name string) bool {
	return filepath.Base(name) == name && hasRecordExt(name)
}
