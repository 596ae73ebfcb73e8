package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var dispatchLatencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

const (
	OutcomeHit     = "cache_hit"
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Router bundles the instruments the operator router records against.
// A nil *Router, or one NewRouter built from a nil meter, makes every
// Record* call a no-op, so callers can pass a disabled meter without
// branching.
type Router struct {
	latency metric.Float64Histogram
	outcome metric.Int64Counter
}

// NewRouter builds the router's instruments against meter. meter may be
// nil, in which case every recorded measurement is silently dropped.
func NewRouter(meter metric.Meter) (*Router, error) {
	if meter == nil {
		return &Router{}, nil
	}
	latency, err := meter.Float64Histogram(
		MetricNameWithSubsystem("router", "dispatch_latency_seconds"),
		metric.WithDescription("Latency of one operator dispatch, including cache lookup"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(dispatchLatencyBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("creating router dispatch latency histogram: %w", err)
	}
	outcome, err := meter.Int64Counter(
		MetricNameWithSubsystem("router", "dispatch_total"),
		metric.WithDescription("Operator dispatches grouped by operator code and outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating router dispatch counter: %w", err)
	}
	return &Router{latency: latency, outcome: outcome}, nil
}

// RecordDispatch records one Route call's outcome and latency, labelled
// by the operator code it dispatched to.
func (r *Router) RecordDispatch(ctx context.Context, operatorCode, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operator", operatorCode),
		attribute.String("outcome", outcome),
	)
	if r.latency != nil {
		r.latency.Record(ctx, duration.Seconds(), attrs)
	}
	if r.outcome != nil {
		r.outcome.Add(ctx, 1, attrs)
	}
}
