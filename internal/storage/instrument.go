package storage

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resultmon/internal/metrics"
	"resultmon/internal/model"
	"resultmon/internal/tracing"
)

type instrumentedStore struct {
	next    Store
	backend string
}

// Instrument wraps store so every call is counted, timed and traced under
// the given backend label.
func Instrument(store Store, backend string) Store {
	return &instrumentedStore{next: store, backend: backend}
}

func (s *instrumentedStore) Init(ctx context.Context) error {
	ctx, span := s.start(ctx, "init")
	started := time.Now()
	err := s.next.Init(ctx)
	s.finish(span, "init", started, err)
	return err
}

func (s *instrumentedStore) Save(ctx context.Context, record model.Record) (string, error) {
	ctx, span := s.start(ctx, "save", attribute.String("record.algorithm", record.AlgorithmName))
	started := time.Now()
	filename, err := s.next.Save(ctx, record)
	if err == nil {
		span.SetAttributes(attribute.String("record.filename", filename))
	}
	s.finish(span, "save", started, err)
	return filename, err
}

func (s *instrumentedStore) List(ctx context.Context) ([]string, error) {
	ctx, span := s.start(ctx, "list")
	started := time.Now()
	names, err := s.next.List(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("record.count", len(names)))
		metrics.ListedRecords.WithLabelValues(s.backend).Set(float64(len(names)))
	}
	s.finish(span, "list", started, err)
	return names, err
}

func (s *instrumentedStore) Load(ctx context.Context, filename string) (model.Record, bool, error) {
	ctx, span := s.start(ctx, "load", attribute.String("record.filename", filename))
	started := time.Now()
	record, ok, err := s.next.Load(ctx, filename)
	span.SetAttributes(attribute.Bool("record.found", ok))
	s.finish(span, "load", started, err)
	return record, ok, err
}

func (s *instrumentedStore) Close() error {
	return CloseIfSupported(s.next)
}

func (s *instrumentedStore) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("store.backend", s.backend))
	return tracing.Tracer().Start(ctx, "storage."+op, trace.WithAttributes(attrs...))
}

func (s *instrumentedStore) finish(span trace.Span, op string, started time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	metrics.ObserveStoreOp(s.backend, op, time.Since(started).Seconds(), err)
}
