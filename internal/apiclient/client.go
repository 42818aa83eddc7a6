// Package apiclient talks to the admin REST API on behalf of a session.
//
// Fetch is the authenticated request primitive. It runs at most two rounds:
// the initial request and, after a 401 and a successful token refresh, one
// retry with fresh headers. A 401 that survives that ends in
// ErrLoginRequired; any other response is handed back untouched.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/dmitrijs2005/adminconsole/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

// TokenStore is what Fetch needs from a session.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, access, refresh string) error
}

type Client struct {
	base      *url.URL
	http      *http.Client
	logger    logging.Logger
	refreshes singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpoint joins an already escaped path onto the base URL.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	raw := strings.TrimRight(c.base.EscapedPath(), "/") + path
	if p, err := url.PathUnescape(raw); err == nil {
		u.Path, u.RawPath = p, raw
	} else {
		u.Path, u.RawPath = raw, ""
	}
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Fetch sends an authenticated request. See the package comment for the
// refresh policy. The caller owns the returned body.
func (c *Client) Fetch(ctx context.Context, tokens TokenStore, method, path string, query url.Values, body []byte) (*http.Response, error) {
	target := c.endpoint(path, query)

	resp, err := c.send(ctx, tokens, method, target, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	c.logger.Debug(ctx, "access token rejected", "method", method, "path", path)

	refreshed, err := c.refresh(ctx, tokens)
	if err != nil {
		drain(resp)
		return nil, err
	}
	if refreshed {
		drain(resp)
		resp, err = c.send(ctx, tokens, method, target, body)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.logger.Info(ctx, "session expired", "method", method, "path", path, "refreshed", refreshed)
		return nil, ErrLoginRequired
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, tokens TokenStore, method, target string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	access, err := tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	return resp, nil
}

// refresh reports whether new tokens were stored. A missing refresh token or
// a non-2xx answer is "not refreshed", not an error.
func (c *Client) refresh(ctx context.Context, tokens TokenStore) (bool, error) {
	rt, err := tokens.RefreshToken(ctx)
	if err != nil {
		return false, err
	}
	if rt == "" {
		return false, nil
	}

	v, err, shared := c.refreshes.Do(rt, func() (any, error) {
		return c.exchange(ctx, rt)
	})
	if err != nil {
		return false, err
	}
	pair, _ := v.(*models.TokenPair)
	if pair == nil {
		return false, nil
	}

	if err := tokens.SetTokens(ctx, pair.Token, pair.RefreshToken); err != nil {
		return false, err
	}
	c.logger.Debug(ctx, "tokens refreshed", "shared", shared)
	return true, nil
}

func (c *Client) exchange(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	target := c.endpoint("/refresh-token", url.Values{"token": {refreshToken}})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	defer drain(resp)

	if !ok(resp.StatusCode) {
		c.logger.Info(ctx, "refresh rejected", "status", resp.StatusCode)
		return nil, nil
	}

	var pair models.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("decode refresh response: %w", err)
	}
	return &pair, nil
}

// Login exchanges credentials for tokens. It does not go through Fetch and
// sends no Authorization header.
func (c *Client) Login(ctx context.Context, email, password string) (models.TokenPair, error) {
	payload, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return models.TokenPair{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/login", nil), bytes.NewReader(payload))
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("login: %w", err)
	}
	defer drain(resp)

	if !ok(resp.StatusCode) {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return models.TokenPair{}, &LoginError{StatusCode: resp.StatusCode, Message: string(text)}
	}

	var pair models.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return models.TokenPair{}, fmt.Errorf("decode login response: %w", err)
	}
	return pair, nil
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
