package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/depengine/di"
)

const instrumentationName = "github.com/kbukum/depengine/observability"

// Metric and span names.
const (
	MetricResolveTotal        = "di.resolve.total"
	MetricMutationTotal       = "di.mutation.total"
	MetricMaterializeDuration = "di.materialize.duration"
	SpanMaterialize           = "di.materialize"
)

// Attribute keys.
const (
	AttrType      = "di.type"
	AttrMode      = "di.mode"
	AttrOperation = "di.operation"
	AttrStatus    = "status"
)

// Resolve outcomes reported in the status attribute.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// RegistryObserver implements di.Observer with OpenTelemetry instruments.
type RegistryObserver struct {
	tracer      trace.Tracer
	resolves    metric.Int64Counter
	mutations   metric.Int64Counter
	materialize metric.Float64Histogram
}

var _ di.Observer = (*RegistryObserver)(nil)

// NewRegistryObserver creates the registry instruments on the given providers.
func NewRegistryObserver(mp metric.MeterProvider, tp trace.TracerProvider) (*RegistryObserver, error) {
	meter := mp.Meter(instrumentationName)

	resolves, err := meter.Int64Counter(MetricResolveTotal,
		metric.WithDescription("Total number of registry resolves"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolveTotal, err)
	}

	mutations, err := meter.Int64Counter(MetricMutationTotal,
		metric.WithDescription("Total number of registry mutations by operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricMutationTotal, err)
	}

	materialize, err := meter.Float64Histogram(MetricMaterializeDuration,
		metric.WithDescription("Duration of lazy factory runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricMaterializeDuration, err)
	}

	return &RegistryObserver{
		tracer:      tp.Tracer(instrumentationName),
		resolves:    resolves,
		mutations:   mutations,
		materialize: materialize,
	}, nil
}

// Resolved counts a resolve by type and outcome.
func (o *RegistryObserver) Resolved(key di.Key, mode di.RegistrationMode, _ time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrType, key.String()),
		attribute.String(AttrStatus, resolveStatus(err)),
	}
	if err == nil || !errors.Is(err, di.ErrNotFound) {
		attrs = append(attrs, attribute.String(AttrMode, mode.String()))
	}
	o.resolves.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// Materialized records the factory duration and a span covering the run.
func (o *RegistryObserver) Materialized(key di.Key, started time.Time, d time.Duration, err error) {
	ctx := context.Background()
	typeAttr := attribute.String(AttrType, key.String())

	_, span := o.tracer.Start(ctx, SpanMaterialize,
		trace.WithTimestamp(started),
		trace.WithAttributes(typeAttr),
	)
	status := StatusOK
	if err != nil {
		status = StatusError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(started.Add(d)))

	o.materialize.Record(ctx, d.Seconds(), metric.WithAttributes(
		typeAttr,
		attribute.String(AttrStatus, status),
	))
}

// Mutated counts a mutation by operation. Clear carries no type attribute.
func (o *RegistryObserver) Mutated(op di.Operation, key di.Key) {
	attrs := []attribute.KeyValue{attribute.String(AttrOperation, string(op))}
	if !key.IsZero() {
		attrs = append(attrs, attribute.String(AttrType, key.String()))
	}
	o.mutations.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

func resolveStatus(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, di.ErrNotFound):
		return StatusNotFound
	default:
		return StatusError
	}
}
