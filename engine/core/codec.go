package core

import "encoding/json"

// EncodeJSON serialises v into the canonical form written to the
// result cache.
func EncodeJSON(v any) ([]byte, error) {
	return StableJSON(v), nil
}

// DecodeJSON parses bytes previously produced by EncodeJSON back into
// a generic any-tree.
func DecodeJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &CapabilityError{Capability: "Cache", Cause: err}
	}
	return v, nil
}
