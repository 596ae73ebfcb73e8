// Package httpclient implements the Http capability (spec §6) on top
// of resty: a single client per workflow run, following redirects and
// enforcing a default 60s timeout per the concurrency model (§5).
package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rosflow/engine/engine/capability"
	"github.com/rosflow/engine/engine/core"
)

// DefaultTimeout is the per-call HTTP timeout New applies when the
// caller hasn't configured one (spec §5).
const DefaultTimeout = 60 * time.Second

// Client implements capability.Http.
type Client struct {
	resty *resty.Client
}

// New builds an Http capability with the default timeout.
func New() *Client {
	return NewWithTimeout(DefaultTimeout)
}

// NewWithTimeout builds an Http capability with a custom timeout.
func NewWithTimeout(timeout time.Duration) *Client {
	r := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	return &Client{resty: r}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (capability.HTTPResponse, error) {
	resp, err := c.resty.R().SetContext(ctx).SetHeaders(headers).Get(url)
	return toResponse(resp, err)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(
	ctx context.Context,
	url string,
	body any,
	headers map[string]string,
) (capability.HTTPResponse, error) {
	resp, err := c.resty.R().SetContext(ctx).SetHeaders(headers).SetBody(body).Post(url)
	return toResponse(resp, err)
}

func toResponse(resp *resty.Response, err error) (capability.HTTPResponse, error) {
	if err != nil {
		return capability.HTTPResponse{}, &core.CapabilityError{Capability: "Http", Cause: err}
	}
	return capability.HTTPResponse{Status: resp.StatusCode(), Body: resp.Body()}, nil
}
