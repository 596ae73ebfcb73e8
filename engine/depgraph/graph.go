// Package depgraph builds the job dependency DAG from a validated
// document (spec §4.3), checks it for cycles, and produces the
// deterministic scheduling order: a lexicographic topological sort of
// the dependency graph, with the conventional terminal job (`return`)
// landing last.
package depgraph

import (
	"sort"

	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/spec"
)

// Graph is the built dependency DAG: Deps[job] is the set of job names
// that job depends on.
type Graph struct {
	Deps map[string]map[string]bool
}

// Build scans every job's args and returns the dependency graph. It does
// not check acyclicity; call Plan for a validated, linearised result.
func Build(doc *spec.Document) *Graph {
	g := &Graph{Deps: make(map[string]map[string]bool, len(doc.Workflow))}
	for name, job := range doc.Workflow {
		g.Deps[name] = jobDeps(job, doc.Workflow)
	}
	return g
}

func jobDeps(job *spec.Job, jobs map[string]*spec.Job) map[string]bool {
	deps := map[string]bool{}

	if elements, ok := job.Args["elements"]; ok {
		for _, name := range elements.StringList() {
			if _, isJob := jobs[name]; isJob {
				deps[name] = true
			}
		}
		return deps
	}

	for argName, expr := range job.Args {
		if argName == "inputs" {
			if from, ok := inputsFrom(expr); ok {
				if _, isJob := jobs[from]; isJob {
					deps[from] = true
				}
			}
			continue
		}
		scanExpr(expr, jobs, deps)
	}
	return deps
}

// inputsFrom reports the `from` value of an `args.inputs` mapping, if
// present. The value is a bare job name, not a $ref.
func inputsFrom(expr spec.ValueExpr) (string, bool) {
	if expr.Kind != spec.ExprMap {
		return "", false
	}
	from, ok := expr.Map["from"]
	if !ok || from.Kind != spec.ExprLit {
		return "", false
	}
	name, ok := from.Lit.(string)
	return name, ok
}

func scanExpr(expr spec.ValueExpr, jobs map[string]*spec.Job, deps map[string]bool) {
	switch expr.Kind {
	case spec.ExprRef:
		if _, isJob := jobs[expr.Ref]; isJob {
			deps[expr.Ref] = true
		}
	case spec.ExprList:
		for _, item := range expr.List {
			scanExpr(item, jobs, deps)
		}
	case spec.ExprMap:
		for _, v := range expr.Map {
			scanExpr(v, jobs, deps)
		}
	}
}

// Plan verifies the graph is acyclic and returns the scheduling order: a
// topological sort over the dependency edges (a job's dependencies
// always precede it), breaking ties lexicographically so the order is
// fully deterministic. The conventional terminal job (`return`), which
// every other job is reachable from, lands last.
func Plan(doc *spec.Document) ([]string, error) {
	g := Build(doc)

	names := make([]string, 0, len(g.Deps))
	for name := range g.Deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return lexTopoSort(names, g.Deps)
}

// lexTopoSort runs Kahn's algorithm over dependency edges (dependents
// depend on their dependencies finishing first), breaking ties in the
// ready frontier by ascending name for a deterministic order.
func lexTopoSort(names []string, deps map[string]map[string]bool) ([]string, error) {
	indegree := make(map[string]int, len(names))
	dependents := make(map[string][]string, len(names))
	for _, n := range names {
		indegree[n] = 0
	}
	for n, ds := range deps {
		for d := range ds {
			if _, ok := indegree[d]; !ok {
				continue
			}
			indegree[n]++
			dependents[d] = append(dependents[d], n)
		}
	}

	var ready []string
	for _, n := range names {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		newlyReady := make([]string, 0)
		for _, dependent := range dependents[next] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				newlyReady = append(newlyReady, dependent)
			}
		}
		sort.Strings(newlyReady)
		ready = mergeSorted(ready, newlyReady)
	}

	if len(order) != len(names) {
		return nil, &core.CycleDetected{Cycle: remaining(names, order)}
	}
	return order, nil
}

func mergeSorted(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := append(a, b...)
	sort.Strings(out)
	return out
}

func remaining(all, done []string) []string {
	seen := make(map[string]bool, len(done))
	for _, n := range done {
		seen[n] = true
	}
	var out []string
	for _, n := range all {
		if !seen[n] {
			out = append(out, n)
		}
	}
	return out
}

