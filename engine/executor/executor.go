// Package executor drives a planned document to completion (spec
// §4.9): it launches every job whose dependencies are already
// satisfied concurrently, waits for results to arrive in whatever
// order they finish, and cancels the remaining run on the first
// failure.
package executor

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rosflow/engine/engine/cache"
	"github.com/rosflow/engine/engine/capability"
	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/depgraph"
	"github.com/rosflow/engine/engine/logging"
	"github.com/rosflow/engine/engine/metrics"
	"github.com/rosflow/engine/engine/operator"
	"github.com/rosflow/engine/engine/resolve"
	"github.com/rosflow/engine/engine/spec"
)

// Execution tracks the run-scoped state of an in-flight plan: which
// jobs are done, currently running, or have failed. Reads and writes
// go through the mutex since jobs are launched as concurrent
// goroutines.
type Execution struct {
	mu      sync.Mutex
	done    map[string]any
	running map[string]bool
	failed  map[string]error
}

func newExecution(size int) *Execution {
	return &Execution{
		done:    make(map[string]any, size),
		running: make(map[string]bool, size),
		failed:  make(map[string]error, size),
	}
}

func (e *Execution) markRunning(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running[name] = true
}

func (e *Execution) recordDone(name string, result any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.running, name)
	e.done[name] = result
}

func (e *Execution) recordFailed(name string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.running, name)
	e.failed[name] = err
}

// Result returns a completed job's result, satisfying capability.Facade
// for operators (such as union) that look up another job's output by
// name.
func (e *Execution) Result(name string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.done[name]
	return v, ok
}

// Failed reports the jobs that failed during the run, keyed by name.
func (e *Execution) Failed() map[string]error {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]error, len(e.failed))
	for k, v := range e.failed {
		out[k] = v
	}
	return out
}

// ready returns, in lexicographic order, every job that is neither
// done, running, nor failed and whose dependencies have all completed.
func (e *Execution) ready(order []string, deps map[string]map[string]bool) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, name := range order {
		if _, isDone := e.done[name]; isDone {
			continue
		}
		if e.running[name] {
			continue
		}
		if _, isFailed := e.failed[name]; isFailed {
			continue
		}
		satisfied := true
		for dep := range deps[name] {
			if _, ok := e.done[dep]; !ok {
				satisfied = false
				break
			}
		}
		if satisfied {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (e *Execution) remaining(total int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return total - len(e.done) - len(e.failed)
}

// Capabilities bundles the run's external access points: everything a
// Facade exposes except result lookup, which the executor itself
// supplies so operators can see results as they land mid-run.
type Capabilities struct {
	Graph       capability.GraphStore
	Cache       capability.Cache
	HTTPClient  capability.Http
	ClockSource capability.Clock
	Metrics     *metrics.Executor
}

// runFacade implements capability.Facade for one run: result lookup is
// served live from the Execution in progress, everything else is the
// caller's static capabilities.
type runFacade struct {
	exec *Execution
	caps Capabilities
}

func (f *runFacade) Result(name string) (any, bool) { return f.exec.Result(name) }
func (f *runFacade) Graph() capability.GraphStore   { return f.caps.Graph }
func (f *runFacade) Cache() capability.Cache        { return f.caps.Cache }
func (f *runFacade) HTTPClient() capability.Http    { return f.caps.HTTPClient }
func (f *runFacade) ClockSource() capability.Clock  { return f.caps.ClockSource }

// Run drives doc's jobs (named by order, a valid topological sort of
// g) to completion under runID, launching every ready job concurrently
// and stopping the run at the first failure. It returns the terminal
// job's result, or the first error encountered. Every completed job's
// result is additionally snapshotted under its run-scoped cache key
// (cache.RunKey), independent of the router's own cross-run
// memoisation entry, so a run's results remain inspectable by run
// identifier after the fact.
func Run(
	ctx context.Context,
	router *operator.Router,
	caps Capabilities,
	doc *spec.Document,
	g *depgraph.Graph,
	order []string,
	inputs map[string]any,
	runID string,
) (any, error) {
	log := logging.FromContext(ctx).With("run_id", runID)
	exec := newExecution(len(order))
	wf := &runFacade{exec: exec, caps: caps}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var firstErr error
	for exec.remaining(len(order)) > 0 {
		ready := exec.ready(order, g.Deps)
		if len(ready) == 0 {
			if len(exec.Failed()) > 0 {
				break
			}
			return nil, &core.PlanError{Reason: "no job is ready to run but the plan is incomplete"}
		}
		log.Debug("launching ready jobs", "jobs", ready)

		group, groupCtx := errgroup.WithContext(runCtx)
		for _, name := range ready {
			name := name
			job := doc.Workflow[name]
			exec.markRunning(name)
			caps.Metrics.JobStarted(runCtx)
			group.Go(func() error {
				state := &resolve.State{Inputs: inputs, Results: exec.snapshot()}
				result, err := router.Route(groupCtx, wf, name, job, state, nil)
				if err != nil {
					log.Error("job failed, cancelling run", "job", name, "error", err)
					exec.recordFailed(name, err)
					caps.Metrics.JobFinished(groupCtx, metrics.OutcomeError)
					cancel()
					return err
				}
				exec.recordDone(name, result)
				caps.Metrics.JobFinished(groupCtx, metrics.OutcomeSuccess)
				if caps.Cache != nil {
					if encoded, encErr := core.EncodeJSON(result); encErr == nil {
						_ = caps.Cache.Put(groupCtx, cache.RunKey(runID, name), encoded)
					}
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			firstErr = err
			break
		}
	}

	if failed := exec.Failed(); len(failed) > 0 {
		caps.Metrics.RunFinished(ctx, metrics.OutcomeError)
		if firstErr != nil {
			return nil, firstErr
		}
		for _, name := range order {
			if err, ok := failed[name]; ok {
				return nil, err
			}
		}
	}

	result, ok := exec.Result(spec.TerminalJob)
	if !ok {
		caps.Metrics.RunFinished(ctx, metrics.OutcomeError)
		return nil, &core.PlanError{Reason: "plan completed without producing a " + spec.TerminalJob + " result"}
	}
	caps.Metrics.RunFinished(ctx, metrics.OutcomeSuccess)
	return result, nil
}

// snapshot copies the results completed so far, for resolve.State: the
// resolver must not observe exec's map concurrently with a writer.
func (e *Execution) snapshot() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]any, len(e.done))
	for k, v := range e.done {
		out[k] = v
	}
	return out
}
