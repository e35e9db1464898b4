package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/amirgolp/flashcard/internal/logging"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorBody    = 64 << 10
	requestIDHeader = "X-Request-ID"
)

// Config holds the connection settings for a Client.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the flashcard backend.
type Client struct {
	baseURL *url.URL
	authed  *http.Client
	anon    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	base   *http.Client
	tokens oauth2.TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Its transport is
// wrapped with the bearer-token transport for authenticated calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.base = client
		}
	}
}

// WithTokenSource supplies bearer tokens for authenticated endpoints.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithRateLimit caps outgoing requests. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for cfg.BaseURL.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("backend base url required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", raw)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		baseURL: parsed,
		base:    &http.Client{Timeout: timeout},
		logger:  logging.NewNop(),
	}
	WithRateLimit(cfg.RequestsPerSecond, cfg.Burst)(client)
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "backend")

	transport := client.base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	client.anon = &http.Client{Transport: transport, Timeout: client.base.Timeout}
	client.authed = client.anon
	if client.tokens != nil {
		client.authed = &http.Client{
			Transport: &oauth2.Transport{Source: client.tokens, Base: transport},
			Timeout:   client.base.Timeout,
		}
	}
	return client, nil
}

// BaseURL returns the backend root the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doJSON sends an authenticated request with an optional JSON body and
// decodes a JSON response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := newJSONRequest(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return err
	}
	return c.send(ctx, c.authed, req, path, out)
}

func newJSONRequest(ctx context.Context, method, target string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) send(ctx context.Context, client *http.Client, req *http.Request, path string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	req.Header.Set("Accept", "application/json")
	if id, ok := logging.RequestIDFromContext(ctx); ok {
		req.Header.Set(requestIDHeader, id)
	}

	logger := logging.WithContext(ctx, c.logger)
	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		logger.Debug("request failed",
			logging.String(logging.FieldMethod, req.Method),
			logging.String(logging.FieldPath, path),
			logging.Duration("latency", latency),
			logging.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	logger.Debug("request completed",
		logging.String(logging.FieldMethod, req.Method),
		logging.String(logging.FieldPath, path),
		logging.Int(logging.FieldStatus, resp.StatusCode),
		logging.Duration("latency", latency))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(body),
			Method:     req.Method,
			Path:       path,
		}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", req.Method, path, err)
	}
	return nil
}

// Page selects a window of a list endpoint. Zero values leave the backend
// defaults in place.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) values() url.Values {
	q := url.Values{}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

func itemPath(collection, id string) string {
	return collection + url.PathEscape(id)
}
