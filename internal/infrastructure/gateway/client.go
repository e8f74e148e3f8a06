// Package gateway is the HTTP client for the remote marketplace service.
//
// Every method maps the remote status code onto the domain sentinel errors:
//
//	401 → domain.ErrUnauthorized   403 → domain.ErrForbidden
//	404 → domain.ErrNotFound       400/409 → domain.ErrConflict
//	other non-2xx → *StatusError   network failure → domain.ErrUnavailable
//
// The bearer credential is read from a ports.CredentialSource on each request
// and is never logged.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

const (
	DefaultBaseURL = "https://future-makers-market-backend.onrender.com/api/v1"
	defaultTimeout = 15 * time.Second
	// maxErrorBody caps how much of an error response is kept for the message.
	maxErrorBody = 4 << 10
)

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// ObserveFunc receives one call per completed request. code is 0 when the request
// never got a response.
type ObserveFunc func(endpoint string, code int, elapsed time.Duration)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers a per-request callback, used for metrics.
func WithObserver(fn ObserveFunc) Option {
	return func(c *Client) { c.observe = fn }
}

// Client implements ports.Gateway over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      ports.CredentialSource
	observe    ObserveFunc
	log        zerolog.Logger
}

var _ ports.Gateway = (*Client)(nil)

// New creates a gateway client. Requests carry no credential until
// UseCredentials is called.
func New(cfg Config, log zerolog.Logger, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseCredentials sets where the bearer credential is read from.
func (c *Client) UseCredentials(src ports.CredentialSource) {
	c.creds = src
}

// StatusError is returned for non-2xx responses that have no domain mapping.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("remote service returned %d", e.Code)
	}
	return fmt.Sprintf("remote service returned %d: %s", e.Code, e.Detail)
}

// request describes one call to the remote service.
type request struct {
	method   string
	path     string
	endpoint string // stable label for logs and metrics
	query    url.Values
	body     any
	form     url.Values
	// anonymous requests never carry the credential.
	anonymous bool
}

// do sends req and decodes a 2xx JSON body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.body != nil:
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if !req.anonymous && c.creds != nil {
		if tok := c.creds.Credential(); tok != "" {
			httpReq.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.record(req, reqID, 0, elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", req.endpoint, ctxErr)
		}
		return fmt.Errorf("%s: %w: %v", req.endpoint, domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	c.record(req, reqID, resp.StatusCode, elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readDetail(resp.Body)
		return fmt.Errorf("%s: %w", req.endpoint, statusToError(resp.StatusCode, detail))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: decode response: %w", req.endpoint, err)
	}
	return nil
}

func (c *Client) record(req request, reqID string, code int, elapsed time.Duration) {
	if c.observe != nil {
		c.observe(req.endpoint, code, elapsed)
	}
	evt := c.log.Debug()
	if code == 0 || code >= 500 {
		evt = c.log.Warn()
	}
	evt.Str("endpoint", req.endpoint).
		Str("method", req.method).
		Str("request_id", reqID).
		Int("status", code).
		Dur("elapsed", elapsed).
		Msg("remote request")
}

func statusToError(code int, detail string) error {
	switch code {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusConflict:
		if detail != "" {
			return fmt.Errorf("%w: %s", domain.ErrConflict, detail)
		}
		return domain.ErrConflict
	}
	return &StatusError{Code: code, Detail: detail}
}

// readDetail extracts the "detail" field of an error body, falling back to the
// raw text.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &env) == nil && len(env.Detail) > 0 {
		var s string
		if json.Unmarshal(env.Detail, &s) == nil {
			return s
		}
		return string(env.Detail)
	}
	return strings.TrimSpace(string(raw))
}
