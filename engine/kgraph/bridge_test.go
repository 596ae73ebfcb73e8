package kgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	nodes []map[string]any
	edges []map[string]any
}

func (f *fakeStore) UpsertNode(_ context.Context, label string, props map[string]any) error {
	for i, n := range f.nodes {
		if n["id"] == props["id"] {
			f.nodes[i] = props
			return nil
		}
	}
	cp := make(map[string]any, len(props)+1)
	for k, v := range props {
		cp[k] = v
	}
	cp["_label"] = label
	f.nodes = append(f.nodes, cp)
	return nil
}

func (f *fakeStore) UpsertEdge(_ context.Context, subject, predicate, object string, props map[string]any) error {
	f.edges = append(f.edges, map[string]any{"subject": subject, "predicate": predicate, "object": object})
	return nil
}

func (f *fakeStore) Query(_ context.Context, _ string) ([]map[string]any, error) { return nil, nil }
func (f *fakeStore) DeleteAll(_ context.Context) error                          { f.nodes = nil; f.edges = nil; return nil }

func fragment(nodes, edges []any) map[string]any {
	return map[string]any{
		"result_list": []any{
			map[string]any{
				"result_graph": map[string]any{
					"node_list": nodes,
					"edge_list": edges,
				},
			},
		},
	}
}

func TestFoldUpsertsNodesAndEdges(t *testing.T) {
	frag := fragment(
		[]any{
			map[string]any{"id": "N_a", "type": "disease"},
			map[string]any{"id": "N_b", "type": "gene"},
		},
		[]any{
			map[string]any{"source_id": "N_a", "target_id": "N_b", "type": "related_to"},
		},
	)
	store := &fakeStore{}
	require.NoError(t, Fold(context.Background(), store, frag))

	assert.Len(t, store.nodes, 2)
	assert.Len(t, store.edges, 1)
	assert.Equal(t, "N_a", store.edges[0]["subject"])
	assert.Equal(t, "N_b", store.edges[0]["object"])
}

func TestFoldIsIdempotent(t *testing.T) {
	frag := fragment([]any{map[string]any{"id": "N_a", "type": "disease"}}, nil)
	store := &fakeStore{}
	require.NoError(t, Fold(context.Background(), store, frag))
	require.NoError(t, Fold(context.Background(), store, frag))
	assert.Len(t, store.nodes, 1)
}

func TestFoldDedupesLaterKeysWin(t *testing.T) {
	frag := fragment([]any{
		map[string]any{"id": "N_a", "type": "disease", "name": "first"},
		map[string]any{"id": "N_a", "type": "disease", "name": "second"},
	}, nil)
	store := &fakeStore{}
	require.NoError(t, Fold(context.Background(), store, frag))
	require.Len(t, store.nodes, 1)
	assert.Equal(t, "second", store.nodes[0]["name"])
}

func TestFoldRepairsCurieNameIntoID(t *testing.T) {
	frag := fragment([]any{
		map[string]any{"id": float64(7), "name": "MONDO:0004766", "type": "disease"},
	}, nil)
	store := &fakeStore{}
	require.NoError(t, Fold(context.Background(), store, frag))
	require.Len(t, store.nodes, 1)
	assert.Equal(t, "MONDO:0004766", store.nodes[0]["id"])
}

func TestFoldDropsAmbiguousNode(t *testing.T) {
	frag := fragment([]any{
		map[string]any{"id": float64(7), "name": "no curie here", "type": "disease"},
	}, nil)
	store := &fakeStore{}
	require.NoError(t, Fold(context.Background(), store, frag))
	assert.Empty(t, store.nodes)
}
