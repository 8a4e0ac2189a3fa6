// Package api provides the client for the radio backend's REST API:
// auth, station search, favorites and recommendations.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

const refreshPath = "/api/auth/refresh"

// Client is a radio backend API client. It attaches the bearer token to
// every authenticated request and performs exactly one transparent
// refresh-and-retry when such a request is rejected with 401.
type Client struct {
	baseURL    string
	httpClient *http.Client
	clientID   string

	mu           sync.Mutex
	token        string
	refreshToken string
}

// Config represents API client configuration.
type Config struct {
	BaseURL  string
	Timeout  time.Duration // Zero means 10s
	ClientID string        // Optional stable installation id, sent as X-Client-Id
}

// New creates a new backend API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base URL")
	}

	return &Client{
		baseURL:    base.String(),
		httpClient: &http.Client{Timeout: timeout},
		clientID:   cfg.ClientID,
	}, nil
}

// SetTokens installs a token pair, e.g. one restored from the local
// store.
func (c *Client) SetTokens(token, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.refreshToken = refreshToken
}

// Tokens returns the current token pair.
func (c *Client) Tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, c.refreshToken
}

// Authenticated reports whether a bearer token is held.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// doJSON performs a JSON request against the backend. For authed
// requests a 401 triggers one refresh-and-retry when a refresh token is
// held; refresh failures surface the original 401.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	err := c.send(ctx, method, path, query, body, out, authed)
	if err == nil || !authed || path == refreshPath || !errors.Is(err, ErrUnauthorized) {
		return err
	}

	c.mu.Lock()
	hasRefresh := c.refreshToken != ""
	c.mu.Unlock()
	if !hasRefresh {
		return err
	}

	zlog.Debug().Str("path", path).Msg("api: token rejected, refreshing")
	if rerr := c.Refresh(ctx); rerr != nil {
		zlog.Warn().Err(rerr).Msg("api: token refresh failed")
		return err
	}
	return c.send(ctx, method, path, query, body, out, authed)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-Id", c.clientID)
	}
	if authed {
		c.mu.Lock()
		token := c.token
		c.mu.Unlock()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode >= 400 {
		return errors.Wrapf(classifyStatus(resp.StatusCode), "%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrap(err, "failed to parse response")
		}
	}
	return nil
}
