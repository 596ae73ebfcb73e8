package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosflow/engine/engine/cache"
	"github.com/rosflow/engine/engine/executor"
)

type fakeGraph struct{ nodes []map[string]any }

func (g *fakeGraph) UpsertNode(_ context.Context, _ string, props map[string]any) error {
	g.nodes = append(g.nodes, props)
	return nil
}
func (g *fakeGraph) UpsertEdge(context.Context, string, string, string, map[string]any) error {
	return nil
}
func (g *fakeGraph) Query(context.Context, string) ([]map[string]any, error) { return nil, nil }
func (g *fakeGraph) DeleteAll(context.Context) error                         { return nil }

const doc = `
info:
  version: "1.0.0"
  title: demo

workflow:
  a:
    code: union
    args:
      elements: []
  return:
    code: union
    args:
      elements: ["a"]
`

func TestPlanAndExecuteLinearChain(t *testing.T) {
	g := &fakeGraph{}
	wf, err := Plan([]byte(doc), Options{
		Capabilities: executor.Capabilities{Graph: g, Cache: cache.NewMemory()},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "return"}, wf.Order())

	result, err := wf.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{}}, result)
}

const cyclicDoc = `
info:
  version: "1.0.0"

workflow:
  a:
    code: union
    args:
      elements: ["return"]
  return:
    code: union
    args:
      elements: ["a"]
`

func TestPlanRejectsCycle(t *testing.T) {
	_, err := Plan([]byte(cyclicDoc), Options{})
	require.Error(t, err)
}

const badVersionDoc = `
info:
  version: "2.0.0"

workflow:
  return:
    code: union
    args:
      elements: []
`

func TestPlanRejectsUnsupportedVersion(t *testing.T) {
	_, err := Plan([]byte(badVersionDoc), Options{})
	require.Error(t, err)
}
