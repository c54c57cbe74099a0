package search

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

// Option configures a Client.
type Option func(*config) error

type config struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zerolog.Logger
	rateLimit  rate.Limit
	burst      int
}

func defaults() *config {
	return &config{
		baseURL:   constants.DefaultCatalogURL,
		timeout:   constants.RequestTimeout,
		rateLimit: rate.Inf,
		burst:     1,
	}
}

// WithBaseURL sets the catalog volumes endpoint.
func WithBaseURL(u string) Option {
	return func(c *config) error {
		u = strings.TrimRight(strings.TrimSpace(u), "/")
		if u == "" {
			return errors.NewValidationError("base_url", u, "cannot be empty")
		}
		c.baseURL = u
		return nil
	}
}

// WithAPIKey sets the catalog credential. Keys that do not look like a
// catalog key are kept but never sent.
func WithAPIKey(key string) Option {
	return func(c *config) error {
		c.apiKey = key
		return nil
	}
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.NewValidationError("timeout", d, "must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithLogger sets the logger used for degrade and supersede events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithRateLimit caps outbound catalog requests per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *config) error {
		if perSecond <= 0 {
			return errors.NewValidationError("rate_limit", perSecond, "must be positive")
		}
		c.rateLimit = rate.Limit(perSecond)
		c.burst = burst
		return nil
	}
}
