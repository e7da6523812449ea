package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"resultmon/internal/model"
)

const CurrentCodecVersion = 1

var ErrVersionMismatch = errors.New("record version mismatch")

// Encoders and decoders are safe for concurrent EncodeAll/DecodeAll, so one
// of each is shared.
var (
	payloadEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil)
	})
	payloadDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil)
	})
)

// EncodeRecord renders the on-disk document: indented JSON with a trailing newline.
func EncodeRecord(record model.Record) ([]byte, error) {
	data, err := json.MarshalIndent(normalize(record), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func DecodeRecord(data []byte) (model.Record, error) {
	var record model.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return model.Record{}, err
	}
	return normalize(record), nil
}

// EncodePayload packs a record as zstd-compressed msgpack for row storage.
func EncodePayload(record model.Record) ([]byte, error) {
	raw, err := msgpack.Marshal(normalize(record))
	if err != nil {
		return nil, err
	}
	encoder, err := payloadEncoder()
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	return encoder.EncodeAll(raw, nil), nil
}

func DecodePayload(data []byte) (model.Record, error) {
	decoder, err := payloadDecoder()
	if err != nil {
		return model.Record{}, fmt.Errorf("zstd decoder: %w", err)
	}
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return model.Record{}, fmt.Errorf("decompress payload: %w", err)
	}
	var record model.Record
	if err := msgpack.Unmarshal(raw, &record); err != nil {
		return model.Record{}, err
	}
	return normalize(record), nil
}

func checkVersion(codecVersion int) error {
	if codecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

// normalize keeps collections non-nil so documents always carry {} and []
// rather than null, and pins timestamps to UTC.
func normalize(record model.Record) model.Record {
	if record.Parameters == nil {
		record.Parameters = map[string]string{}
	}
	if record.AdditionalMetrics == nil {
		record.AdditionalMetrics = map[string]float64{}
	}
	if record.Route == nil {
		record.Route = []int{}
	}
	record.StartTimestamp = record.StartTimestamp.UTC()
	return record
}
