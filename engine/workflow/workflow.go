// Package workflow is the engine's top-level facade (spec §4.10): it
// turns raw document text into an immutable plan, then drives that
// plan to completion against a caller-supplied set of capabilities,
// producing a fresh run identifier for every execution.
package workflow

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/depgraph"
	"github.com/rosflow/engine/engine/executor"
	"github.com/rosflow/engine/engine/loader"
	"github.com/rosflow/engine/engine/logging"
	"github.com/rosflow/engine/engine/metrics"
	"github.com/rosflow/engine/engine/operator"
	"github.com/rosflow/engine/engine/spec"
	"github.com/rosflow/engine/engine/typevalidate"
)

// Options configures both the planning and the execution stage.
type Options struct {
	// LibraryPaths are searched, in order, for each `import` module the
	// document references.
	LibraryPaths []string
	// Capabilities are the run's external access points (graph store,
	// cache, HTTP client, clock).
	Capabilities executor.Capabilities
	// Router dispatches jobs to operators. A nil Router gets the
	// built-in default from operator.New.
	Router *operator.Router
	// Meter, if set, instruments the router and executor with
	// OpenTelemetry counters and histograms. A nil Meter leaves metrics
	// disabled.
	Meter metric.Meter
}

// Workflow is a planned document: loaded, type-validated, and
// topologically sorted. It is immutable and safe to Execute
// concurrently from multiple goroutines (each call gets its own run
// identifier and Execution).
type Workflow struct {
	doc    *spec.Document
	order  []string
	graph  *depgraph.Graph
	router *operator.Router
	caps   executor.Capabilities
}

// Plan loads text, validates it against the standard library type
// catalogue, and computes its scheduling order, returning a Workflow
// ready to Execute. Plan-time errors abort before any job runs, per
// spec §4.11.
func Plan(text []byte, opts Options) (*Workflow, error) {
	doc, err := loader.Load(text, loader.Options{LibraryPaths: opts.LibraryPaths})
	if err != nil {
		return nil, err
	}
	if err := typevalidate.Validate(doc); err != nil {
		return nil, err
	}
	order, err := depgraph.Plan(doc)
	if err != nil {
		return nil, err
	}

	router := opts.Router
	if router == nil {
		router = operator.New()
	}

	routerMetrics, err := metrics.NewRouter(opts.Meter)
	if err != nil {
		return nil, fmt.Errorf("building router metrics: %w", err)
	}
	router.SetMetrics(routerMetrics)

	caps := opts.Capabilities
	if caps.Metrics == nil {
		caps.Metrics, err = metrics.NewExecutor(opts.Meter)
		if err != nil {
			return nil, fmt.Errorf("building executor metrics: %w", err)
		}
	}

	return &Workflow{
		doc:    doc,
		order:  order,
		graph:  depgraph.Build(doc),
		router: router,
		caps:   caps,
	}, nil
}

// Order returns the scheduling order Plan computed, for callers that
// want to inspect or log it without running the workflow.
func (w *Workflow) Order() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Execute runs every job to completion against inputs, under a fresh
// run identifier, and returns the terminal job's result.
func (w *Workflow) Execute(ctx context.Context, inputs map[string]any) (any, error) {
	runID := core.NewRunID()
	log := logging.FromContext(ctx).With("run_id", runID, "jobs", len(w.order))
	log.Info("starting workflow execution")

	result, err := executor.Run(ctx, w.router, w.caps, w.doc, w.graph, w.order, inputs, runID)
	if err != nil {
		log.Error("workflow execution failed", "error", err)
		return nil, err
	}
	log.Info("workflow execution completed")
	return result, nil
}
