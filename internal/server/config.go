package server

import (
	"time"

	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings. When Token is set every non-public route
	// requires "Authorization: Bearer <Token>".
	Token string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         constants.DefaultServerHost,
		Port:         constants.DefaultServerPort,
		PathPrefix:   "/api",
		CORSEnabled:  true,
		CORSOrigins:  []string{},
		RateLimit:    constants.DefaultRateLimit,
		CacheTTL:     constants.ListCacheTTL,
		ReadTimeout:  constants.ServerReadTimeout,
		WriteTimeout: constants.ServerWriteTimeout,
		IdleTimeout:  constants.ServerIdleTimeout,
	}
}
