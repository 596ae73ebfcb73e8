// Package kgraph folds a job's result fragment into the shared
// knowledge graph (spec §4.4): extracting nodes and edges via the
// standard result-fragment path, deduplicating and repairing node
// identifiers, then upserting through the GraphStore capability.
package kgraph

import (
	"context"
	"strings"

	"github.com/rosflow/engine/engine/capability"
	"github.com/rosflow/engine/engine/query"
)

const (
	nodePath = "select $.[*].result_list.[*].[*].result_graph.node_list.[*] from $fragment"
	edgePath = "select $.[*].result_list.[*].[*].result_graph.edge_list.[*] from $fragment"
)

// Fold extracts nodes and edges from fragment and upserts them onto
// store. It never returns a partial write from a malformed fragment:
// absent result groups simply yield no nodes or edges.
func Fold(ctx context.Context, store capability.GraphStore, fragment any) error {
	nodes, err := extract(nodePath, fragment)
	if err != nil {
		return err
	}
	edges, err := extract(edgePath, fragment)
	if err != nil {
		return err
	}

	nodes = repairIdentifiers(dedupeByID(nodes))

	for _, node := range nodes {
		label, _ := node["type"].(string)
		if err := store.UpsertNode(ctx, label, node); err != nil {
			return err
		}
	}
	for _, edge := range edges {
		subject, _ := edge["source_id"].(string)
		predicate, _ := edge["type"].(string)
		object, _ := edge["target_id"].(string)
		if err := store.UpsertEdge(ctx, subject, predicate, object, edge); err != nil {
			return err
		}
	}
	return nil
}

func extract(path string, fragment any) ([]map[string]any, error) {
	raw, err := query.Eval(path, fragment)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// dedupeByID merges same-id node occurrences, with later occurrences'
// keys overwriting earlier ones. Order of first appearance is kept.
func dedupeByID(nodes []map[string]any) []map[string]any {
	index := make(map[string]int, len(nodes))
	out := make([]map[string]any, 0, len(nodes))
	for _, node := range nodes {
		id, ok := idOf(node)
		if !ok {
			out = append(out, node)
			continue
		}
		if i, exists := index[id]; exists {
			for k, v := range node {
				out[i][k] = v
			}
			continue
		}
		index[id] = len(out)
		out = append(out, node)
	}
	return out
}

func idOf(node map[string]any) (string, bool) {
	switch v := node["id"].(type) {
	case string:
		return v, true
	case float64, int:
		return "", false
	default:
		return "", false
	}
}

// repairIdentifiers promotes a curie-like `name` into `id` when `id` is
// numeric, and drops nodes that remain ambiguously typed (no string id
// and no curie-like name to repair from). This rejects the original
// implementation's sequential-renumbering behaviour in favour of
// preserving stable curie identifiers.
func repairIdentifiers(nodes []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, node := range nodes {
		if _, ok := node["id"].(string); ok {
			out = append(out, node)
			continue
		}
		if name, ok := node["name"].(string); ok && strings.Contains(name, ":") {
			node["id"] = name
			out = append(out, node)
			continue
		}
		// ambiguous identifier: neither a string id nor a repairable curie name
	}
	return out
}
