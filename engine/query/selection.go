// Package query implements the two embedded sublanguages jobs may use
// inside argument expressions (spec §4.5): the mandatory selection
// query (`select <path> from $<var>`) and the optional declarative
// concept-chain query.
package query

import (
	"regexp"
	"strings"

	"github.com/rosflow/engine/engine/core"
)

var selectionPattern = regexp.MustCompile(`^select\s+(.+?)\s+from\s+\$([A-Za-z_][A-Za-z0-9_]*)$`)

// Selection is a parsed `select <path> from $<var>` query.
type Selection struct {
	Path   string
	Source string
}

// ParseSelection parses the literal form of a selection query. A
// malformed string yields BadExpression.
func ParseSelection(text string) (*Selection, error) {
	m := selectionPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, &core.BadExpression{Text: text}
	}
	return &Selection{Path: m[1], Source: m[2]}, nil
}

// Eval evaluates a parsed path against a source tree and returns every
// matching subtree. The path grammar supports `$`, `.key`, `[*]`, and
// `.[*]` segments.
func (s *Selection) Eval(source any) ([]any, error) {
	segments, err := splitPath(s.Path)
	if err != nil {
		return nil, &core.BadExpression{Text: s.Path}
	}
	values := []any{source}
	for _, seg := range segments {
		values = stepPath(values, seg)
	}
	return values, nil
}

// splitPath tokenises a path pattern into its dot-separated segments,
// dropping the leading `$` root marker.
func splitPath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "$") {
		return nil, &core.BadExpression{Text: path}
	}
	path = strings.TrimPrefix(path, "$")
	var segments []string
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func stepPath(values []any, segment string) []any {
	if segment == "[*]" {
		// A wildcard expands a list into its elements; applied to a
		// non-list value (the query's root is often a single object) it
		// passes the value through unchanged.
		var out []any
		for _, v := range values {
			if list, ok := v.([]any); ok {
				out = append(out, list...)
				continue
			}
			out = append(out, v)
		}
		return out
	}
	var out []any
	for _, v := range values {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if val, ok := m[segment]; ok {
			out = append(out, val)
		}
	}
	return out
}

// Eval is the convenience one-shot form: parse text and evaluate it
// against source in one call.
func Eval(text string, source any) ([]any, error) {
	sel, err := ParseSelection(text)
	if err != nil {
		return nil, err
	}
	return sel.Eval(source)
}
