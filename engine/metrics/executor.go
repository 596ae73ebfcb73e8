package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Executor bundles the instruments the DAG executor records against. A
// nil *Executor, or one NewExecutor built from a nil meter, makes
// JobStarted, JobFinished and RunFinished no-ops.
type Executor struct {
	jobsTotal metric.Int64Counter
	runsTotal metric.Int64Counter
	inFlight  metric.Int64UpDownCounter
}

// NewExecutor builds the executor's instruments against meter. meter
// may be nil, in which case every recorded measurement is dropped.
func NewExecutor(meter metric.Meter) (*Executor, error) {
	if meter == nil {
		return &Executor{}, nil
	}
	jobsTotal, err := meter.Int64Counter(
		MetricNameWithSubsystem("executor", "jobs_total"),
		metric.WithDescription("Jobs completed grouped by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating executor jobs counter: %w", err)
	}
	runsTotal, err := meter.Int64Counter(
		MetricNameWithSubsystem("executor", "runs_total"),
		metric.WithDescription("Workflow runs completed grouped by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating executor runs counter: %w", err)
	}
	inFlight, err := meter.Int64UpDownCounter(
		MetricNameWithSubsystem("executor", "jobs_in_flight"),
		metric.WithDescription("Jobs currently dispatched and awaiting a result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating executor in-flight gauge: %w", err)
	}
	return &Executor{jobsTotal: jobsTotal, runsTotal: runsTotal, inFlight: inFlight}, nil
}

// JobStarted marks one job entering the in-flight set.
func (e *Executor) JobStarted(ctx context.Context) {
	if e == nil || e.inFlight == nil {
		return
	}
	e.inFlight.Add(ctx, 1)
}

// JobFinished records a completed job's outcome and removes it from the
// in-flight set.
func (e *Executor) JobFinished(ctx context.Context, outcome string) {
	if e == nil {
		return
	}
	if e.inFlight != nil {
		e.inFlight.Add(ctx, -1)
	}
	if e.jobsTotal != nil {
		e.jobsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// RunFinished records one workflow run's terminal outcome.
func (e *Executor) RunFinished(ctx context.Context, outcome string) {
	if e == nil || e.runsTotal == nil {
		return
	}
	e.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
