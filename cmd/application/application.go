// Package application provides the application interface for booksearch
// commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested against a Mock:
//
//	mock := &application.Mock{
//	    SearcherFunc: func() (search.Searcher, error) {
//	        return fakeSearcher, nil
//	    },
//	}
//	cmd := search.NewCommand(mock)
package application

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/joshwilensky/Google-Books-Search/pkg/library"
	"github.com/joshwilensky/Google-Books-Search/pkg/search"
)

// Application provides what commands need from the CLI application.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Searcher returns the catalog client, created lazily and shared.
	Searcher() (search.Searcher, error)

	// Library returns the saved-books client, created lazily and shared.
	Library() (library.Library, error)

	// CatalogKey returns the configured catalog API key, possibly empty.
	CatalogKey() string

	// Debounce returns the quiet period used by interactive suggestions.
	Debounce() time.Duration

	// RequestTimeout returns the bound on a single outbound request.
	RequestTimeout() time.Duration

	// Server returns the settings for booksearch serve.
	Server() ServerSettings

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// ServerSettings are the configured defaults for the saved-books server.
// Command flags override them.
type ServerSettings struct {
	Host          string
	Port          int
	MongoURI      string
	MongoDatabase string
	RateLimit     int
	CORSOrigins   []string
	Token         string
}
