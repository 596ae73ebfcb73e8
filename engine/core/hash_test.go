package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStableJSONSortsMapKeys(t *testing.T) {
	a := StableJSON(map[string]any{"b": 1, "a": 2})
	b := StableJSON(map[string]any{"a": 2, "b": 1})
	assert.Equal(t, a, b)
	assert.Equal(t, `{"a":2,"b":1}`, string(a))
}

func TestStableJSONNestedStructures(t *testing.T) {
	v := map[string]any{"list": []any{1.0, "x", true, nil}}
	assert.Equal(t, `{"list":[1,"x",true,null]}`, string(StableJSON(v)))
}

func TestFingerprintIsStableAcrossKeyOrder(t *testing.T) {
	f1 := Fingerprint(map[string]any{"b": 1, "a": 2})
	f2 := Fingerprint(map[string]any{"a": 2, "b": 1})
	assert.Equal(t, f1, f2)
	assert.Len(t, f1, 64)
}

func TestFingerprintDiffersOnDifferentInput(t *testing.T) {
	f1 := Fingerprint(map[string]any{"a": 1})
	f2 := Fingerprint(map[string]any{"a": 2})
	assert.NotEqual(t, f1, f2)
}

func TestEncodeDecodeJSONRoundTrip(t *testing.T) {
	v := map[string]any{"a": []any{1.0, 2.0}, "b": "x"}
	encoded, err := EncodeJSON(v)
	assert.NoError(t, err)
	decoded, err := DecodeJSON(encoded)
	assert.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestDecodeJSONRejectsMalformedInput(t *testing.T) {
	_, err := DecodeJSON([]byte("{not json"))
	assert.Error(t, err)
	var capErr *CapabilityError
	assert.ErrorAs(t, err, &capErr)
}
