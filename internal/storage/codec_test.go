package storage

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"resultmon/internal/model"
)

func TestPayloadRoundTrip(t *testing.T) {
	record := model.NewRecordAt("ihc", fixedStart).
		WithParameter("num_starts", "50").
		WithMetric("restarts_improved", 12).
		WithResult(33523.75, []int{0, 5, 3, 4, 1, 2}).
		WithExecutionTime(915).
		WithIterations(50).
		WithDataset("TSP 127 Cities", 127)

	payload, err := EncodePayload(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodePayload(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	assertRecordsEqual(t, record, decoded)
	if decoded.StartTimestamp.Location().String() != "UTC" {
		t.Fatalf("expected UTC timestamp, got %v", decoded.StartTimestamp.Location())
	}
}

func TestPayloadCodersAreSharedAndSafe(t *testing.T) {
	encoder, err := payloadEncoder()
	if err != nil || encoder == nil {
		t.Fatalf("encoder: %v %v", encoder, err)
	}
	again, _ := payloadEncoder()
	if again != encoder {
		t.Fatal("expected a shared encoder")
	}
	if decoder, err := payloadDecoder(); err != nil || decoder == nil {
		t.Fatalf("decoder: %v %v", decoder, err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := model.NewRecordAt("sa", fixedStart).WithIterations(uint32(i))
			payload, err := EncodePayload(record)
			if err != nil {
				errs <- err
				return
			}
			decoded, err := DecodePayload(payload)
			if err != nil {
				errs <- err
				return
			}
			if decoded.Iterations != uint32(i) {
				errs <- fmt.Errorf("iterations %d, want %d", decoded.Iterations, i)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	if _, err := DecodePayload([]byte("not zstd")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEncodeRecordNormalizesNilCollections(t *testing.T) {
	data, err := EncodeRecord(model.Record{AlgorithmName: "bare", StartTimestamp: fixedStart})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	doc := string(data)
	for _, want := range []string{`"parameters": {}`, `"route": []`, `"additional_metrics": {}`} {
		if !strings.Contains(doc, want) {
			t.Fatalf("expected %s in %s", want, doc)
		}
	}
	if strings.Contains(doc, "dataset_name") {
		t.Fatalf("expected dataset fields omitted: %s", doc)
	}
}

func TestDecodeRecordRejectsInvalidJSON(t *testing.T) {
	if _, err := DecodeRecord([]byte(`{"route": "x"}`)); err == nil {
		t.Fatal("expected decode error")
	}
}
