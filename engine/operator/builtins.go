package operator

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/rosflow/engine/engine/capability"
	"github.com/rosflow/engine/engine/core"
	"github.com/rosflow/engine/engine/query"
)

// errorMessagePaths are the gjson paths tried, in order, to lift a
// human-readable message out of a failing upstream body without a full
// JSON decode.
var errorMessagePaths = []string{"error.message", "error", "message", "detail"}

// requestsOperator performs an HTTP call: a plain GET, a JSON POST
// (`body`), or a declarative-query-driven POST (`MaQ`) whose generated
// questions are each posted and whose responses are aggregated.
type requestsOperator struct{}

func (o *requestsOperator) Invoke(ctx context.Context, event capability.Event) (any, error) {
	rawURL, _ := event.ResolvedArgs["url"].(string)
	url := fillPlaceholders(rawURL, event.ResolvedArgs)
	http := event.Workflow.HTTPClient()

	if maq, ok := event.ResolvedArgs["MaQ"].(string); ok {
		return invokeMaQ(ctx, http, url, maq)
	}
	if body, ok := event.ResolvedArgs["body"]; ok {
		resp, err := http.Post(ctx, url, body, nil)
		if err != nil {
			return nil, err
		}
		return decodeUpstream(resp)
	}
	resp, err := http.Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return decodeUpstream(resp)
}

func invokeMaQ(ctx context.Context, http capability.Http, url, maqText string) (any, error) {
	stmt, err := query.Parse(maqText)
	if err != nil {
		return nil, err
	}
	sel, ok := stmt.(*query.SelectStatement)
	if !ok {
		return nil, &core.BadExpression{Text: maqText}
	}

	var resultList []any
	for _, question := range query.Questions(sel) {
		resp, err := http.Post(ctx, url, questionPayload(question), nil)
		if err != nil {
			return nil, err
		}
		decoded, err := decodeUpstream(resp)
		if err != nil {
			return nil, err
		}
		if m, ok := decoded.(map[string]any); ok {
			if rl, ok := m["result_list"].([]any); ok {
				resultList = append(resultList, rl...)
			}
		}
	}
	return map[string]any{"result_list": resultList}, nil
}

func questionPayload(q query.QuestionGraph) map[string]any {
	nodes := make([]any, len(q.Nodes))
	for i, n := range q.Nodes {
		nodes[i] = map[string]any{"concept": n.Concept, "value": n.Value, "index": i}
	}
	edges := make([]any, len(q.Edges))
	for i, e := range q.Edges {
		edges[i] = map[string]any{"source": e.Source, "target": e.Target}
	}
	return map[string]any{"nodes": nodes, "edges": edges}
}

func fillPlaceholders(template string, args map[string]any) string {
	out := template
	for k, v := range args {
		out = strings.ReplaceAll(out, "{"+k+"}", fmt.Sprint(v))
	}
	return out
}

func decodeUpstream(resp capability.HTTPResponse) (any, error) {
	if resp.Status != 200 && resp.Status != 202 {
		return nil, &core.UpstreamError{Status: resp.Status, Body: string(resp.Body), Message: upstreamMessage(resp.Body)}
	}
	decoded, err := core.DecodeJSON(resp.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

// upstreamMessage returns the first populated field among
// errorMessagePaths, or "" if body isn't JSON or none are present.
func upstreamMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range errorMessagePaths {
		if r := gjson.GetBytes(body, path); r.Exists() && r.Type == gjson.String {
			return r.String()
		}
	}
	return ""
}

// getOperator is the GET-only convenience form, with optional
// top-level field renaming applied to the decoded result.
type getOperator struct{}

func (o *getOperator) Invoke(ctx context.Context, event capability.Event) (any, error) {
	rawURL, _ := event.ResolvedArgs["url"].(string)
	url := fillPlaceholders(rawURL, event.ResolvedArgs)

	resp, err := event.Workflow.HTTPClient().Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	decoded, err := decodeUpstream(resp)
	if err != nil {
		return nil, err
	}

	rename, _ := event.ResolvedArgs["rename"].(map[string]any)
	if len(rename) == 0 {
		return decoded, nil
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		return decoded, nil
	}
	return renameFields(m, rename), nil
}

func renameFields(m map[string]any, rename map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		newKey, ok := rename[k].(string)
		if !ok {
			newKey = k
		}
		out[newKey] = v
	}
	return out
}

// unionOperator returns the raw list of its `elements` jobs' results,
// unmerged: the shared extraction path's leading wildcard segment
// transparently handles both a single fragment and a list of
// fragments, so folding this list is equivalent to folding each
// element individually.
type unionOperator struct{}

func (o *unionOperator) Invoke(_ context.Context, event capability.Event) (any, error) {
	names := stringsOf(event.ResolvedArgs["elements"])
	out := make([]any, 0, len(names))
	for _, name := range names {
		if result, ok := event.Workflow.Result(name); ok {
			out = append(out, result)
		}
	}
	return out, nil
}

func stringsOf(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// validateOperator runs assertion rules against the shared graph: a
// query whose row count must satisfy a minimum, used by workflows that
// want to fail fast when an upstream call produced no usable data.
type validateOperator struct{}

func (o *validateOperator) Invoke(ctx context.Context, event capability.Event) (any, error) {
	text, _ := event.ResolvedArgs["query"].(string)
	rows, err := event.Workflow.Graph().Query(ctx, text)
	if err != nil {
		return nil, err
	}

	minCount := 0
	if n, ok := event.ResolvedArgs["min_count"].(float64); ok {
		minCount = int(n)
	}
	if len(rows) < minCount {
		return nil, fmt.Errorf("validation rule failed: got %d rows, want at least %d", len(rows), minCount)
	}
	return map[string]any{"passed": true, "count": float64(len(rows))}, nil
}

// templateOperator auto-dispatches a template-backed job: the
// template's own args fill in anything the invoking job didn't
// already resolve, then the call forwards to the template's
// underlying operator code.
type templateOperator struct {
	router         *Router
	templateArgs   map[string]any
	underlyingCode string
}

func (t *templateOperator) Invoke(ctx context.Context, event capability.Event) (any, error) {
	merged := make(map[string]any, len(event.ResolvedArgs)+len(t.templateArgs))
	for k, v := range t.templateArgs {
		merged[k] = v
	}
	for k, v := range event.ResolvedArgs {
		merged[k] = v
	}

	underlying, ok := t.router.lookup(t.underlyingCode)
	if !ok {
		return nil, errUnknownOperator(t.underlyingCode)
	}

	forwarded := event
	forwarded.Node = map[string]any{"code": t.underlyingCode, "args": merged}
	forwarded.ResolvedArgs = merged
	return underlying.Invoke(ctx, forwarded)
}
