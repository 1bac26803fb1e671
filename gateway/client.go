package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

// TokenSource yields the current bearer token, "" when none is available.
// The session store is the primary source; a raw storage reader serves as
// fallback before the store has rehydrated.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a plain function to a TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// Client is the single gateway to the backend. It attaches the bearer
// credential when one exists and sends without it otherwise; rejecting
// unauthenticated access is the backend's job. Transport errors propagate
// to the caller unchanged: no retry, no backoff.
type Client struct {
	http *resty.Client
	log  core.Logger
}

func NewClient(conf *core.Config, log core.Logger, sources ...TokenSource) *Client {
	c := resty.New().
		SetBaseURL(conf.APIBaseURL).
		SetTimeout(conf.RequestTimeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)

	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		for _, src := range sources {
			if token := src.Token(); token != "" {
				req.SetAuthToken(token)
				break
			}
		}
		req.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	return &Client{http: c, log: log}
}

func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParamsFromValues(params)
	}
	if out != nil {
		req.SetResult(out)
	}
	return c.execute(req, http.MethodGet, path)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	return c.execute(req, http.MethodPost, path)
}

func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	return c.execute(req, http.MethodPatch, path)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	return c.execute(req, http.MethodPut, path)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.execute(c.http.R().SetContext(ctx), http.MethodDelete, path)
}

func (c *Client) execute(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if resp.IsError() {
		apiErr := newAPIError(resp.StatusCode(), resp.Body())
		c.log.Debug("api error", method, path, apiErr.StatusCode, apiErr.Message)
		return apiErr
	}
	return nil
}
