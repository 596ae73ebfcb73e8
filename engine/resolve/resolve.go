// Package resolve implements the argument resolver (spec §4.6):
// substituting `$var` references and evaluating inline selection
// queries against workflow inputs and completed job results.
package resolve

import (
	"strings"

	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/query"
	"github.com/rosflow/engine/engine/spec"
)

// State is the portion of run-scoped state the resolver needs: the
// workflow's inputs and the results of jobs that have already
// completed.
type State struct {
	Inputs  map[string]any
	Results map[string]any
}

// Loop carries a per-invocation "loop binding": named candidate lists
// plus the current index, used by operators that multiplex over a list
// argument. `$k` resolves to Lists[k][Index] when k is bound here,
// falling back to ordinary variable lookup otherwise.
type Loop struct {
	Lists map[string][]any
	Index int
}

// Resolve walks expr and returns a plain value tree of the same shape,
// substituting `$name` references and evaluating selection queries.
func Resolve(expr spec.ValueExpr, state *State, loop *Loop) (any, error) {
	switch expr.Kind {
	case spec.ExprList:
		out := make([]any, len(expr.List))
		for i, item := range expr.List {
			v, err := Resolve(item, state, loop)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case spec.ExprMap:
		out := make(map[string]any, len(expr.Map))
		for k, item := range expr.Map {
			v, err := Resolve(item, state, loop)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case spec.ExprRef:
		return lookup(expr.Ref, state, loop)
	case spec.ExprQuery:
		return resolveQuery(expr.Query, state, loop)
	default:
		return expr.Lit, nil
	}
}

// lookup resolves a bare variable name against the loop binding, then
// workflow inputs, then completed job results, in that order.
func lookup(name string, state *State, loop *Loop) (any, error) {
	if loop != nil {
		if list, ok := loop.Lists[name]; ok {
			if loop.Index < 0 || loop.Index >= len(list) {
				return nil, &core.UndefinedVariable{Name: name}
			}
			return list[loop.Index], nil
		}
	}
	if v, ok := state.Inputs[name]; ok {
		if s, ok := v.(string); ok && strings.Contains(s, ",") {
			parts := strings.Split(s, ",")
			out := make([]any, len(parts))
			for i, p := range parts {
				out[i] = strings.TrimSpace(p)
			}
			return out, nil
		}
		return v, nil
	}
	if v, ok := state.Results[name]; ok {
		return v, nil
	}
	return nil, &core.UndefinedVariable{Name: name}
}

func resolveQuery(text string, state *State, loop *Loop) (any, error) {
	sel, err := query.ParseSelection(text)
	if err != nil {
		return nil, err
	}
	source, err := lookup(sel.Source, state, loop)
	if err != nil {
		return nil, err
	}
	return sel.Eval(source)
}
