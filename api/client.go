package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jrsteele09/go-app-core/internal/config"
)

// RefreshHandler exchanges the current refresh token for a new access token.
// An empty string result means the session could not be refreshed and the
// caller must re-authenticate.
type RefreshHandler func(ctx context.Context) (string, error)

// Client is an authenticated JSON REST client. The bearer token and refresh
// handler live on the client rather than in package state so that independent
// sessions (and tests) can run in isolation.
//
// On a 401 the client invokes the refresh handler and retries the original
// request exactly once with the new token. Concurrent 401s share a single
// in-flight refresh. Non-401 failures and transport errors are never retried;
// they are normalized to *Error and returned immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger

	mu          sync.RWMutex
	accessToken string
	refresh     RefreshHandler

	refreshGroup singleflight.Group
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (the configured timeout
// is kept unless the supplied client sets its own)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger replaces the client's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client from the supplied API configuration
func New(cfg config.APIConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.GetAPIURL(), "/"),
		httpClient: &http.Client{Timeout: cfg.GetAPITimeout()},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAccessToken replaces the bearer token attached to subsequent requests.
// An empty token removes the Authorization header entirely.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// AccessToken returns the currently held bearer token ("" when anonymous)
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetRefreshTokenHandler registers the callback invoked on a 401. Only one
// handler is held at a time; the last registration wins. A nil handler
// disables refresh.
func (c *Client) SetRefreshTokenHandler(fn RefreshHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh = fn
}

func (c *Client) refreshHandler() RefreshHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresh
}

// Get issues a GET request. Query values, if any, are appended to the path.
// A non-nil out receives the decoded JSON response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with an optional JSON body
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with an optional JSON body
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a PATCH request with an optional JSON body
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return unknownError("encode request body: " + err.Error())
		}
	}
	return c.send(ctx, method, path, query, payload, out, false)
}

// send performs one attempt plus, for a first-time 401 with a registered
// handler, a single refresh-and-retry. retried guards the recursion: a request
// that has been retried once is never intercepted again.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, out any, retried bool) error {
	req, err := c.newRequest(ctx, method, path, query, payload)
	if err != nil {
		return unknownError(err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return unknownError(err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return unknownError("read response body: " + err.Error())
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return unknownError("decode response body: " + err.Error())
		}
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized && !retried && ctx.Value(refreshCtxKey{}) == nil {
		if handler := c.refreshHandler(); handler != nil {
			if token := c.runRefresh(ctx, handler); token != "" {
				return c.send(ctx, method, path, query, payload, out, true)
			}
		}
	}

	return normalizeError(resp.StatusCode, respBody)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// refreshCtxKey marks requests issued from inside the refresh handler so
// a 401 from the refresh exchange itself can never trigger another refresh
type refreshCtxKey struct{}

// runRefresh invokes the refresh handler, coalescing concurrent callers into
// one in-flight exchange. On success the new token is stored and returned; on
// failure (error or empty token) the stored token is cleared so the process
// reverts to anonymous.
func (c *Client) runRefresh(ctx context.Context, handler RefreshHandler) string {
	result, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		return handler(context.WithValue(ctx, refreshCtxKey{}, true))
	})
	token, _ := result.(string)

	if err != nil || token == "" {
		if err != nil {
			c.logger.Debug().Err(err).Msg("token refresh failed")
		}
		c.SetAccessToken("")
		return ""
	}

	c.SetAccessToken(token)
	return token
}

// normalizeError converts a non-2xx response into *Error. Structured error
// bodies pass through verbatim; anything else becomes UNKNOWN_ERROR.
func normalizeError(status int, body []byte) *Error {
	apiErr := &Error{}
	if len(body) > 0 && json.Unmarshal(body, apiErr) == nil && apiErr.Code != "" {
		apiErr.Status = status
		return apiErr
	}

	e := unknownError(http.StatusText(status))
	e.Status = status
	return e
}
