package operator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosflow/engine/engine/capability"
	"github.com/rosflow/engine/engine/core"
)

type fakeHTTP struct {
	getResp  capability.HTTPResponse
	getErr   error
	postResp capability.HTTPResponse
	postErr  error
	gotURL   string
}

func (h *fakeHTTP) Get(_ context.Context, url string, _ map[string]string) (capability.HTTPResponse, error) {
	h.gotURL = url
	return h.getResp, h.getErr
}

func (h *fakeHTTP) Post(_ context.Context, url string, _ any, _ map[string]string) (capability.HTTPResponse, error) {
	h.gotURL = url
	return h.postResp, h.postErr
}

type httpFacade struct {
	*fakeFacade
	http *fakeHTTP
}

func (f *httpFacade) HTTPClient() capability.Http { return f.http }

func newHTTPFacade(http *fakeHTTP) *httpFacade {
	return &httpFacade{fakeFacade: newFakeFacade(), http: http}
}

func TestDecodeUpstreamReturnsDecodedBodyOnSuccess(t *testing.T) {
	resp := capability.HTTPResponse{Status: 200, Body: []byte(`{"a":1}`)}
	decoded, err := decodeUpstream(resp)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, decoded)
}

func TestDecodeUpstreamAcceptsAccepted202(t *testing.T) {
	resp := capability.HTTPResponse{Status: 202, Body: []byte(`{}`)}
	_, err := decodeUpstream(resp)
	assert.NoError(t, err)
}

func TestDecodeUpstreamLiftsErrorMessageFromBody(t *testing.T) {
	resp := capability.HTTPResponse{Status: 500, Body: []byte(`{"message":"upstream exploded"}`)}
	_, err := decodeUpstream(resp)
	require.Error(t, err)
	var upstream *core.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "upstream exploded", upstream.Message)
}

func TestDecodeUpstreamPrefersNestedErrorMessage(t *testing.T) {
	resp := capability.HTTPResponse{Status: 400, Body: []byte(`{"error":{"message":"bad request"},"message":"generic"}`)}
	_, err := decodeUpstream(resp)
	var upstream *core.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "bad request", upstream.Message)
}

func TestDecodeUpstreamFallsBackToEmptyMessageOnNonJSONBody(t *testing.T) {
	resp := capability.HTTPResponse{Status: 500, Body: []byte("not json")}
	_, err := decodeUpstream(resp)
	var upstream *core.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Empty(t, upstream.Message)
	assert.Equal(t, "not json", upstream.Body)
}

func TestRequestsOperatorGetFillsURLPlaceholders(t *testing.T) {
	http := &fakeHTTP{getResp: capability.HTTPResponse{Status: 200, Body: []byte(`{}`)}}
	event := capability.Event{
		Workflow:     newHTTPFacade(http),
		ResolvedArgs: map[string]any{"url": "http://x/{id}", "id": "42"},
	}
	_, err := (&requestsOperator{}).Invoke(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "http://x/42", http.gotURL)
}

func TestGetOperatorRenamesTopLevelFields(t *testing.T) {
	http := &fakeHTTP{getResp: capability.HTTPResponse{Status: 200, Body: []byte(`{"old":1}`)}}
	event := capability.Event{
		Workflow: newHTTPFacade(http),
		ResolvedArgs: map[string]any{
			"url":    "http://x",
			"rename": map[string]any{"old": "new"},
		},
	}
	result, err := (&getOperator{}).Invoke(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"new": float64(1)}, result)
}

func TestGetOperatorSurfacesUpstreamError(t *testing.T) {
	http := &fakeHTTP{getResp: capability.HTTPResponse{Status: 503, Body: []byte(`{"error":"down"}`)}}
	event := capability.Event{
		Workflow:     newHTTPFacade(http),
		ResolvedArgs: map[string]any{"url": "http://x"},
	}
	_, err := (&getOperator{}).Invoke(context.Background(), event)
	var upstream *core.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 503, upstream.Status)
	assert.Equal(t, "down", upstream.Message)
}

func TestUnionOperatorCollectsOnlyKnownResults(t *testing.T) {
	wf := newFakeFacade()
	wf.results["a"] = "val-a"
	event := capability.Event{
		Workflow:     wf,
		ResolvedArgs: map[string]any{"elements": []any{"a", "missing"}},
	}
	result, err := (&unionOperator{}).Invoke(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, []any{"val-a"}, result)
}

func TestValidateOperatorFailsBelowMinCount(t *testing.T) {
	wf := newFakeFacade()
	event := capability.Event{
		Workflow:     wf,
		ResolvedArgs: map[string]any{"query": "type=disease", "min_count": float64(1)},
	}
	_, err := (&validateOperator{}).Invoke(context.Background(), event)
	assert.Error(t, err)
}

func TestValidateOperatorPassesAtOrAboveMinCount(t *testing.T) {
	wf := newFakeFacade()
	event := capability.Event{
		Workflow:     wf,
		ResolvedArgs: map[string]any{"query": "", "min_count": float64(0)},
	}
	result, err := (&validateOperator{}).Invoke(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, true, result.(map[string]any)["passed"])
}
