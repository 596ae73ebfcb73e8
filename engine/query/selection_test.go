package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosflow/engine/engine/core"
)

func TestEvalSelectionQuery(t *testing.T) {
	source := map[string]any{
		"result_list": []any{
			map[string]any{
				"result_graph": map[string]any{
					"node_list": []any{
						map[string]any{"id": "X", "type": "disease"},
						map[string]any{"id": "Y", "type": "gene"},
					},
				},
			},
		},
	}

	got, err := Eval("select $.[*].result_list.[*].[*].result_graph.node_list.[*] from $a", source)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "X", got[0].(map[string]any)["id"])
	assert.Equal(t, "Y", got[1].(map[string]any)["id"])
}

func TestParseSelectionMalformed(t *testing.T) {
	_, err := ParseSelection("not a query")
	require.Error(t, err)
	var bad *core.BadExpression
	assert.True(t, errors.As(err, &bad))
}
