// Package graphstore implements the GraphStore capability (spec §6)
// in-process: nodes folded in by kgraph.Fold are held in a guarded map
// and edges in a guarded slice, and Query answers a small filter grammar rather than a
// full graph query language, since the engine's own operators only
// ever need a row count or a property projection.
package graphstore

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

type edge struct {
	Subject   string
	Predicate string
	Object    string
	Props     map[string]any
}

// Memory is an in-process capability.GraphStore backed by a guarded
// node map and edge slice. Nodes are keyed by their "id" property;
// nothing survives process exit.
type Memory struct {
	mu    sync.RWMutex
	nodes map[string]map[string]any
	edges []edge
}

// New constructs an empty in-memory graph store.
func New() *Memory {
	return &Memory{nodes: make(map[string]map[string]any)}
}

// UpsertNode merges props into the node identified by props["id"],
// tagging it with label. A node with no "id" property is rejected
// silently: kgraph.Fold only ever calls UpsertNode with props already
// containing one.
func (m *Memory) UpsertNode(_ context.Context, label string, props map[string]any) error {
	id, ok := props["id"].(string)
	if !ok {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.nodes[id]
	if !ok {
		existing = make(map[string]any, len(props)+1)
	}
	for k, v := range props {
		existing[k] = v
	}
	existing["id"] = id
	existing["label"] = label
	m.nodes[id] = existing
	return nil
}

// UpsertEdge records one subject-predicate-object triple. Duplicate
// triples with the same endpoints and predicate are overwritten in
// place rather than accumulating.
func (m *Memory) UpsertEdge(_ context.Context, subject, predicate, object string, props map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.edges {
		if e.Subject == subject && e.Predicate == predicate && e.Object == object {
			m.edges[i].Props = props
			return nil
		}
	}
	m.edges = append(m.edges, edge{Subject: subject, Predicate: predicate, Object: object, Props: props})
	return nil
}

// DeleteAll clears every node and edge, for tests and library reloads.
func (m *Memory) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = make(map[string]map[string]any)
	m.edges = nil
	return nil
}

// Query answers a small filter grammar over node rows: empty text
// matches every node; otherwise text is a space-separated list of
// `key=value` clauses, every one of which a returned node's properties
// must satisfy (label is addressable as a clause key, same as any
// other property). Clauses are ANDed.
func (m *Memory) Query(_ context.Context, text string) ([]map[string]any, error) {
	clauses := parseClauses(text)
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]map[string]any, 0, len(m.nodes))
	for _, node := range m.nodes {
		if matches(node, clauses) {
			cp := make(map[string]any, len(node))
			for k, v := range node {
				cp[k] = v
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func parseClauses(text string) map[string]string {
	fields := strings.Fields(text)
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

func matches(node map[string]any, clauses map[string]string) bool {
	for k, want := range clauses {
		got, ok := node[k]
		if !ok || !valueEquals(got, want) {
			return false
		}
	}
	return true
}

func valueEquals(got any, want string) bool {
	switch v := got.(type) {
	case string:
		return v == want
	case float64:
		n, err := strconv.ParseFloat(want, 64)
		return err == nil && n == v
	case bool:
		b, err := strconv.ParseBool(want)
		return err == nil && b == v
	default:
		return false
	}
}
