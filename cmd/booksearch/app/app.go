// Package app provides the application context and dependency management
// for the booksearch CLI: configuration, logging, the lazily created
// catalog and saved-books clients, and their lifecycle.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/joshwilensky/Google-Books-Search/cmd/application"
	"github.com/joshwilensky/Google-Books-Search/internal/store"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/library"
	"github.com/joshwilensky/Google-Books-Search/pkg/search"
)

// Compile-time interface check to ensure proper implementation.
var _ application.Application = (*App)(nil)

// App represents the booksearch application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// lazy-initialized singletons
	mu       sync.RWMutex
	searcher search.Searcher
	library  library.Library
	local    store.Store
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// CatalogKey returns the configured catalog API key.
func (a *App) CatalogKey() string {
	return a.config.CatalogKey
}

// Debounce returns the interactive suggestion quiet period.
func (a *App) Debounce() time.Duration {
	return a.config.Debounce
}

// RequestTimeout returns the per-request bound, falling back to the default.
func (a *App) RequestTimeout() time.Duration {
	if a.config.RequestTimeout > 0 {
		return a.config.RequestTimeout
	}
	return constants.RequestTimeout
}

// Server returns the configured saved-books server settings.
func (a *App) Server() application.ServerSettings {
	return application.ServerSettings{
		Host:          a.config.Host,
		Port:          a.config.Port,
		MongoURI:      a.config.MongoURI,
		MongoDatabase: a.config.MongoDatabase,
		RateLimit:     a.config.RateLimit,
		CORSOrigins:   a.config.CORSOrigins,
		Token:         a.config.APIToken,
	}
}

// Searcher returns the catalog client, creating it lazily if needed.
func (a *App) Searcher() (search.Searcher, error) {
	a.mu.RLock()
	if a.searcher != nil {
		s := a.searcher
		a.mu.RUnlock()
		return s, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// double-check after acquiring write lock
	if a.searcher != nil {
		return a.searcher, nil
	}

	client, err := search.New(a.searchOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "catalog client", "", err)
	}
	a.searcher = client
	return client, nil
}

// Library returns the saved-books client, creating it and its local store
// lazily if needed.
func (a *App) Library() (library.Library, error) {
	a.mu.RLock()
	if a.library != nil {
		l := a.library
		a.mu.RUnlock()
		return l, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.library != nil {
		return a.library, nil
	}

	local, err := store.Open(a.config.LocalStore, a.config.LocalPath)
	if err != nil {
		return nil, errors.WrapResource("open", "local store", a.config.LocalStore, err)
	}

	client, err := library.New(local, a.libraryOptions()...)
	if err != nil {
		_ = local.Close()
		return nil, errors.WrapResource("create", "library", "", err)
	}

	a.local = local
	a.library = client
	return client, nil
}

// Shutdown cancels pending catalog work and closes the local store.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.searcher != nil {
		a.searcher.CancelPending()
	}
	if a.local != nil {
		if err := a.local.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close local store during shutdown")
			return err
		}
		a.local = nil
	}
	return nil
}

func (a *App) searchOptions() []search.Option {
	opts := []search.Option{
		search.WithAPIKey(a.config.CatalogKey),
		search.WithLogger(a.logger),
	}
	if a.config.CatalogURL != "" {
		opts = append(opts, search.WithBaseURL(a.config.CatalogURL))
	}
	if a.config.RequestTimeout > 0 {
		opts = append(opts, search.WithTimeout(a.config.RequestTimeout))
	}
	if a.config.CatalogRateLimit > 0 {
		opts = append(opts, search.WithRateLimit(a.config.CatalogRateLimit, 1))
	}
	return opts
}

func (a *App) libraryOptions() []library.Option {
	opts := []library.Option{library.WithLogger(a.logger)}
	if a.config.APIBase != "" {
		opts = append(opts, library.WithRemote(a.config.APIBase))
	}
	if a.config.APIToken != "" {
		opts = append(opts, library.WithRemoteToken(a.config.APIToken))
	}
	if a.config.RequestTimeout > 0 {
		opts = append(opts, library.WithTimeout(a.config.RequestTimeout))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSearcher sets a custom catalog client (useful for testing).
func WithSearcher(s search.Searcher) Option {
	return func(a *App) error {
		a.searcher = s
		return nil
	}
}

// WithLibrary sets a custom saved-books client (useful for testing).
func WithLibrary(l library.Library) Option {
	return func(a *App) error {
		a.library = l
		return nil
	}
}
