package records

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/swasthyasathi/internal/observability/metrics"
)

// TracedStore wraps a Store with spans on every call and counts writes.
type TracedStore struct {
	inner   Store
	tracer  trace.Tracer
	metrics *metrics.AssistantMetrics
}

// NewTracedStore wraps inner with spans and table-write counters.
func NewTracedStore(inner Store, tracer trace.Tracer, m *metrics.AssistantMetrics) *TracedStore {
	if tracer == nil {
		tracer = otel.Tracer("swasthyasathi.internal.records")
	}
	return &TracedStore{inner: inner, tracer: tracer, metrics: m}
}

func (s *TracedStore) LoadTable(ctx context.Context, name string) (*Table, error) {
	ctx, span := s.tracer.Start(ctx, "records.load_table", trace.WithAttributes(attribute.String("table", name)))
	defer span.End()

	t, err := s.inner.LoadTable(ctx, name)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", t.Len()))
	return t, nil
}

func (s *TracedStore) SaveTable(ctx context.Context, name string, t *Table) error {
	ctx, span := s.tracer.Start(ctx, "records.save_table", trace.WithAttributes(
		attribute.String("table", name),
		attribute.Int("rows", t.Len()),
	))
	defer span.End()

	err := s.inner.SaveTable(ctx, name, t)
	switch {
	case err == nil:
		s.metrics.ObserveTableWrite(name, "ok")
	case errors.Is(err, ErrTableLocked):
		span.RecordError(err)
		s.metrics.ObserveTableWrite(name, "locked")
	default:
		span.RecordError(err)
		s.metrics.ObserveTableWrite(name, "error")
	}
	return err
}
