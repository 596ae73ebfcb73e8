package typevalidate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/spec"
)

func catalog() spec.TypeCatalog {
	return spec.TypeCatalog{
		"string": spec.TypeDef{Description: "text"},
		"curie":  spec.TypeDef{Description: "identifier"},
	}
}

func TestValidateCleanDocument(t *testing.T) {
	doc := &spec.Document{
		Types: catalog(),
		Workflow: map[string]*spec.Job{
			"fetch": {
				Name: "fetch",
				Args: map[string]spec.ValueExpr{
					"id": {Kind: spec.ExprLit, Lit: "MONDO:001"},
				},
				Meta: map[string]spec.OperatorSignature{
					"main": {"id": spec.ArgMeta{Type: "curie", Required: true}},
				},
			},
		},
	}
	require.NoError(t, Validate(doc))
}

func TestValidateUnknownTypeAndMissingArg(t *testing.T) {
	doc := &spec.Document{
		Types: catalog(),
		Workflow: map[string]*spec.Job{
			"fetch": {
				Name: "fetch",
				Args: map[string]spec.ValueExpr{},
				Meta: map[string]spec.OperatorSignature{
					"main": {"id": spec.ArgMeta{Type: "gene", Required: true}},
				},
			},
		},
	}
	err := Validate(doc)
	require.Error(t, err)

	var vf *core.ValidationFailed
	require.True(t, errors.As(err, &vf))
	assert.Len(t, vf.Issues, 2)

	var gotUnknown, gotMissing bool
	for _, issue := range vf.Issues {
		switch issue.(type) {
		case *core.UnknownType:
			gotUnknown = true
		case *core.MissingRequiredArg:
			gotMissing = true
		}
	}
	assert.True(t, gotUnknown, "expected an UnknownType issue")
	assert.True(t, gotMissing, "expected a MissingRequiredArg issue")
}

func TestValidateJobWithoutSignatureIsSkipped(t *testing.T) {
	doc := &spec.Document{
		Types: catalog(),
		Workflow: map[string]*spec.Job{
			"noop": {Name: "noop"},
		},
	}
	require.NoError(t, Validate(doc))
}
