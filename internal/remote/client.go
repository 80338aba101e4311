// Package remote talks to the storefront REST backend. Each type in this
// package implements one of the repository interfaces over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnauthorized is returned when the backend answers 401 on an authenticated call.
var ErrUnauthorized = errors.New("remote: unauthorized")

// APIError is any non-2xx answer other than 401.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: backend returned %d", e.Status)
	}
	return fmt.Sprintf("remote: backend returned %d: %s", e.Status, e.Message)
}

// TokenFunc yields the bearer token for authenticated calls ("" when logged out).
type TokenFunc func(ctx context.Context) (string, error)

// Client is a thin JSON-over-HTTP client. No retries.
type Client struct {
	baseURL        string
	http           *http.Client
	timeout        time.Duration
	token          TokenFunc
	onUnauthorized func(ctx context.Context)
	log            *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeout applies to whichever http.Client is in use, without mutating
// a client passed through WithHTTPClient.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

func WithToken(fn TokenFunc) Option { return func(c *Client) { c.token = fn } }

// WithUnauthorizedHook runs fn after a 401 on an authenticated call,
// typically to drop the local session.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   func(context.Context) (string, error) { return "", nil },
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 && c.http.Timeout != c.timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// Close releases idle connections.
func (c *Client) Close() { c.http.CloseIdleConnections() }

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, true, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, true, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encode %s: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return fmt.Errorf("remote: build %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("remote: token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("remote: read %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && auth {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	for _, s := range []string{body.Message, body.Error, body.Msg} {
		if s != "" {
			return s
		}
	}
	return ""
}
