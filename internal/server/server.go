// Package server provides the saved-books HTTP API: list, save and delete
// records in a repository, with a WebSocket channel that tells connected
// clients to reload after every change.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/joshwilensky/Google-Books-Search/internal/server/cache"
	"github.com/joshwilensky/Google-Books-Search/internal/server/repository"
	ws "github.com/joshwilensky/Google-Books-Search/internal/server/websocket"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	repo      repository.Repository
	cache     *cache.Cache
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// New creates a new server over repo. A nil logger uses the default logger.
func New(repo repository.Repository, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if repo == nil {
		return nil, errors.NewConfigError("server", "a repository is required", nil)
	}
	if logger == nil {
		logger = logging.Default()
	}

	defaults := DefaultConfig()
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = defaults.PathPrefix
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		repo:  repo,
		cache: cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		wsHub: ws.NewHub(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true // Allow all origins for WebSocket
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}, nil
}

// Start starts the WebSocket hub.
func (s *Server) Start() {
	s.logger.Debug().Msg("Starting WebSocket hub")
	go s.wsHub.Run(s.ctx)
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// HTTPServer returns an http.Server for addr using the configured timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Shutdown stops background services and closes the repository.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	if err := s.repo.Close(ctx); err != nil {
		return errors.WrapResource("close", "repository", "", err)
	}
	return nil
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
