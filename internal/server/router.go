package server

import (
	"net/http"
	"strings"

	"github.com/joshwilensky/Google-Books-Search/internal/server/handlers"
	"github.com/joshwilensky/Google-Books-Search/internal/server/middleware"
	"github.com/joshwilensky/Google-Books-Search/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.repo,
		s.cache,
		s.wsHub,
		s.upgrader,
		s.logger,
		s.startTime,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints (no auth required)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	// Collection
	mux.HandleFunc(prefix+"/books", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleListBooks(w, r)
		case http.MethodPost:
			h.HandleSaveBook(w, r)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})

	// Single record
	mux.HandleFunc(prefix+"/books/", func(w http.ResponseWriter, r *http.Request) {
		id := extractPathParam(r.URL.Path, prefix+"/books/")
		if id == "" {
			response.NotFound(w, "Saved book not found", "No id in path")
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.HandleGetBook(w, r, id)
		case http.MethodDelete:
			h.HandleDeleteBook(w, r, id)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})

	// Real-time updates
	mux.HandleFunc(prefix+"/updates/ws", h.HandleWebSocket)
}

// applyMiddleware wraps handler with middleware chain. Recovery is
// outermost, then request IDs and logging, so every request is logged with
// its ID even when rejected further in.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	var chain []func(http.Handler) http.Handler
	chain = append(chain,
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logger(s.logger),
	)

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, s.logger)))
	}

	if cfg.Token != "" {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.Token = cfg.Token
		authConfig.PublicPaths = []string{"/health", cfg.PathPrefix + "/health", cfg.PathPrefix + "/ready", cfg.PathPrefix + "/updates/ws"}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	return middleware.Chain(chain...)(handler)
}

// extractPathParam extracts the path segment following prefix.
func extractPathParam(path, prefix string) string {
	trimmed := strings.TrimPrefix(path, prefix)
	id, _, _ := strings.Cut(trimmed, "/")
	return id
}
