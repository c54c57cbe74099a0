package library

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

// Option configures a Client.
type Option func(*config) error

type config struct {
	remoteURL  string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zerolog.Logger
	now        func() time.Time
}

func defaults() *config {
	return &config{
		timeout: constants.RequestTimeout,
		now:     time.Now,
	}
}

// WithRemote sets the base URL of the remote saved-books API. An empty URL
// leaves the client local-only.
func WithRemote(baseURL string) Option {
	return func(c *config) error {
		c.remoteURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		return nil
	}
}

// WithRemoteToken sends token as a bearer credential to the remote API.
func WithRemoteToken(token string) Option {
	return func(c *config) error {
		c.token = strings.TrimSpace(token)
		return nil
	}
}

// WithTimeout bounds each remote attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.NewValidationError("timeout", d, "must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithHTTPClient replaces the HTTP client used for the remote API.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithLogger sets the logger used for fallbacks and corrupt payloads.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithClock overrides the time source used to stamp SavedAt.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "cannot be nil")
		}
		c.now = now
		return nil
	}
}
