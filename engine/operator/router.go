// Package operator implements the operator router (spec §4.8): it
// resolves a job's arguments, consults the result cache, dispatches to
// a registered operator by name, and folds the result into the shared
// knowledge graph before returning it.
package operator

import (
	"context"
	"sync"
	"time"

	"github.com/rosflow/engine/engine/cache"
	"github.com/rosflow/engine/engine/capability"
	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/kgraph"
	"github.com/rosflow/engine/engine/logging"
	"github.com/rosflow/engine/engine/metrics"
	"github.com/rosflow/engine/engine/resolve"
	"github.com/rosflow/engine/engine/spec"
)

// Router dispatches jobs to named operators, modeling the registry as
// a mapping from operator name to a closure capturing its
// capabilities, per a single lookup on invocation.
type Router struct {
	mu        sync.RWMutex
	operators map[string]capability.Operator
	metrics   *metrics.Router
}

// New constructs a Router pre-registered with the built-in operators.
func New() *Router {
	r := &Router{operators: make(map[string]capability.Operator)}
	r.Register("requests", &requestsOperator{})
	r.Register("get", &getOperator{})
	r.Register("union", &unionOperator{})
	r.Register("validate", &validateOperator{})
	return r
}

// SetMetrics attaches the instruments Route records dispatch outcomes
// against. A Router with no metrics attached records nothing.
func (r *Router) SetMetrics(m *metrics.Router) {
	r.metrics = m
}

// Register adds or replaces a named operator. Used both for built-ins
// and for extension operators surfaced by a Plugin, and for
// auto-registering template-backed dispatches.
func (r *Router) Register(name string, op capability.Operator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operators[name] = op
}

// RegisterTemplate auto-registers a dispatch for a template: invoking
// it merges the template's own args into the inbound resolved args
// (template values filling in anything the job didn't set) and
// forwards to the template's underlying operator code. Template args
// are resolved once, at registration time, against an empty state:
// templates hold static defaults, not per-job variable references.
func (r *Router) RegisterTemplate(name string, templateArgs map[string]spec.ValueExpr, underlyingCode string) error {
	resolved := make(map[string]any, len(templateArgs))
	empty := &resolve.State{Inputs: map[string]any{}, Results: map[string]any{}}
	for k, expr := range templateArgs {
		v, err := resolve.Resolve(expr, empty, nil)
		if err != nil {
			return err
		}
		resolved[k] = v
	}
	r.Register(name, &templateOperator{
		router:         r,
		templateArgs:   resolved,
		underlyingCode: underlyingCode,
	})
	return nil
}

// RegisterPlugin instantiates and registers every operator a Plugin
// exposes, so its libraries become ordinary dispatchable operator
// codes alongside the built-ins.
func (r *Router) RegisterPlugin(plugin capability.Plugin) error {
	for _, name := range plugin.Libraries() {
		op, err := plugin.Instantiate(name)
		if err != nil {
			return err
		}
		r.Register(name, op)
	}
	return nil
}

func (r *Router) lookup(name string) (capability.Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[name]
	return op, ok
}

// Route implements the six-step protocol from spec §4.8.
func (r *Router) Route(
	ctx context.Context,
	wf capability.Facade,
	jobName string,
	job *spec.Job,
	state *resolve.State,
	loop *resolve.Loop,
) (any, error) {
	log := logging.FromContext(ctx).With("job", jobName, "code", job.Code)
	start := time.Now()

	resolvedArgs, err := resolveArgs(job, state, loop)
	if err != nil {
		log.Error("failed to resolve job arguments", "error", err)
		return nil, err
	}
	node := map[string]any{"code": job.Code, "args": resolvedArgs}

	opName := job.OpName()
	operatorCode := job.Code
	cacheKey := cache.RouterKey(jobName, operatorCode, opName)

	if cached, ok, err := wf.Cache().Get(ctx, cacheKey); err != nil {
		return nil, &core.CapabilityError{Capability: "Cache", Cause: err}
	} else if ok {
		log.Debug("serving cached result", "key", cacheKey)
		result, err := core.DecodeJSON(cached)
		if err != nil {
			return nil, err
		}
		r.metrics.RecordDispatch(ctx, operatorCode, metrics.OutcomeHit, time.Since(start))
		return result, nil
	}

	op, ok := r.lookup(operatorCode)
	if !ok {
		return nil, &core.OperatorError{Code: operatorCode, Cause: errUnknownOperator(operatorCode)}
	}

	event := capability.Event{
		Workflow:     wf,
		JobName:      jobName,
		Node:         node,
		OpName:       opName,
		ResolvedArgs: resolvedArgs,
	}
	log.Debug("invoking operator")
	result, err := op.Invoke(ctx, event)
	if err != nil {
		log.Error("operator invocation failed", "error", err)
		r.metrics.RecordDispatch(ctx, operatorCode, metrics.OutcomeError, time.Since(start))
		return nil, &core.OperatorError{Code: operatorCode, Cause: err}
	}

	encoded, err := core.EncodeJSON(result)
	if err != nil {
		return nil, err
	}
	if err := wf.Cache().Put(ctx, cacheKey, encoded); err != nil {
		return nil, &core.CapabilityError{Capability: "Cache", Cause: err}
	}
	if err := kgraph.Fold(ctx, wf.Graph(), result); err != nil {
		return nil, &core.CapabilityError{Capability: "GraphStore", Cause: err}
	}

	r.metrics.RecordDispatch(ctx, operatorCode, metrics.OutcomeSuccess, time.Since(start))
	return result, nil
}

func resolveArgs(job *spec.Job, state *resolve.State, loop *resolve.Loop) (map[string]any, error) {
	out := make(map[string]any, len(job.Args))
	for name, expr := range job.Args {
		v, err := resolve.Resolve(expr, state, loop)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

type unknownOperatorError struct{ name string }

func (e unknownOperatorError) Error() string { return "unknown operator: " + e.name }

func errUnknownOperator(name string) error { return unknownOperatorError{name: name} }
