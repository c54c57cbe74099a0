// Package transport performs the JSON-over-HTTP exchanges used by the catalog
// and remote store clients. Each call is one bounded attempt: it applies the
// credential, waits on the outbound limiter and classifies the outcome as a
// decoded body, a *errors.APIError, a *errors.TimeoutError or a
// *errors.CanceledError.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

// Client provides HTTP client functionality with authentication.
type Client struct {
	http      *http.Client
	auth      Authenticator
	limiter   *rate.Limiter
	timeout   time.Duration
	service   string
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each attempt. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outbound requests to r per second with the given burst.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// WithService names the upstream in errors.
func WithService(name string) Option {
	return func(c *Client) {
		c.service = name
	}
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:      &http.Client{},
		auth:      auth,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		timeout:   constants.RequestTimeout,
		service:   "upstream",
		userAgent: constants.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-attempt bound.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Request describes a single JSON exchange.
type Request struct {
	Method    string
	URL       string
	Body      any    // marshaled as JSON when non-nil
	APIKey    string // applied through the Authenticator when non-empty
	Operation string // names the call in timeout and cancellation errors
}

// Do performs one attempt of r and decodes a 2xx body into target.
// target may be nil to discard the body.
func (c *Client) Do(ctx context.Context, r Request, target any) error {
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	if r.Operation == "" {
		r.Operation = r.Method + " " + r.URL
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(attemptCtx); err != nil {
		return c.throttled(ctx, r, err)
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return errors.WrapParse("json", "request body", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(attemptCtx, r.Method, r.URL, body)
	if err != nil {
		return errors.WrapResource("create", "request", r.Method+" "+r.URL, err)
	}
	if r.APIKey != "" {
		c.auth.Apply(req, r.APIKey)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.classify(ctx, attemptCtx, r, err)
	}

	if err := DecodeResponse(resp, c.service, r.URL, target); err != nil {
		if attemptCtx.Err() != nil {
			return c.classify(ctx, attemptCtx, r, err)
		}
		return err
	}
	return nil
}

// Get performs a GET and decodes the body into target.
func (c *Client) Get(ctx context.Context, url, apiKey string, target any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: url, APIKey: apiKey}, target)
}

// throttled maps a failed limiter wait. The limiter refuses up front when
// the next token would arrive after the attempt deadline, so anything other
// than a caller cancellation counts as a timeout.
func (c *Client) throttled(parent context.Context, r Request, err error) error {
	if stderrors.Is(parent.Err(), context.Canceled) {
		return &errors.CanceledError{Operation: r.Operation, Err: err}
	}
	return errors.NewTimeoutError(r.Operation, c.timeout.String(), "outbound rate limit for "+c.service)
}

// classify maps a failed attempt onto cancellation, timeout or an I/O error.
// Cancellation of the caller's context wins over the attempt's own deadline.
func (c *Client) classify(parent, attempt context.Context, r Request, err error) error {
	if stderrors.Is(parent.Err(), context.Canceled) {
		return &errors.CanceledError{Operation: r.Operation, Err: err}
	}
	if parent.Err() != nil || stderrors.Is(attempt.Err(), context.DeadlineExceeded) {
		return errors.NewTimeoutError(r.Operation, c.timeout.String(), "no response from "+c.service)
	}
	return errors.WrapIO("request", r.URL, err)
}
