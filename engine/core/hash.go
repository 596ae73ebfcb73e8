package core

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"sort"
)

// WriteStableJSON writes a canonical JSON-like rendering of v into b.
// map[string]any keys are sorted recursively so that two semantically
// identical trees always produce byte-identical output; EncodeJSON uses
// it to serialise results before they are written to the cache.
func WriteStableJSON(b *bytes.Buffer, v any) {
	switch t := v.(type) {
	case map[string]any:
		writeStableMap(b, t)
	case []any:
		writeStableSlice(b, t)
	case string:
		writeJSONOrFallback(b, t)
	case float64, bool, nil:
		writeJSONOrFallback(b, t)
	default:
		writeReflected(b, v)
	}
}

func writeJSONOrFallback(b *bytes.Buffer, v any) {
	bs, err := json.Marshal(v)
	if err != nil {
		b.WriteString("null")
		return
	}
	b.Write(bs)
}

func writeStableMap(b *bytes.Buffer, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		writeJSONOrFallback(b, k)
		b.WriteByte(':')
		WriteStableJSON(b, m[k])
	}
	b.WriteByte('}')
}

func writeStableSlice(b *bytes.Buffer, s []any) {
	b.WriteByte('[')
	for i, e := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		WriteStableJSON(b, e)
	}
	b.WriteByte(']')
}

// writeReflected handles map/slice-shaped values that arrived as concrete
// Go types (e.g. map[string]string) rather than the generic any-trees
// produced by decoding YAML/JSON.
func writeReflected(b *bytes.Buffer, v any) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		b.WriteString("null")
		return
	}
	switch {
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		writeStableMap(b, m)
	case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = rv.Index(i).Interface()
		}
		writeStableSlice(b, s)
	default:
		writeJSONOrFallback(b, v)
	}
}

// StableJSON renders v using WriteStableJSON and returns the bytes; this
// is what gets written to the result cache under a job's key.
func StableJSON(v any) []byte {
	var buf bytes.Buffer
	WriteStableJSON(&buf, v)
	return buf.Bytes()
}

// Fingerprint returns the hex sha256 digest of v's canonical JSON form,
// so two trees that differ only in map key order fingerprint
// identically. The cache key templates in engine/cache are built from
// job and operator names, not from this digest.
func Fingerprint(v any) string {
	sum := sha256.Sum256(StableJSON(v))
	return hex.EncodeToString(sum[:])
}
