// Package handlers provides HTTP request handlers for the saved-books API.
package handlers

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/joshwilensky/Google-Books-Search/internal/server/cache"
	"github.com/joshwilensky/Google-Books-Search/internal/server/repository"
	ws "github.com/joshwilensky/Google-Books-Search/internal/server/websocket"
)

// maxBodyBytes bounds a POSTed record.
const maxBodyBytes = 1 << 20

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	repo      repository.Repository
	cache     *cache.Cache
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	startTime time.Time
	now       func() time.Time
}

// New creates a new Handlers instance.
func New(
	repo repository.Repository,
	cache *cache.Cache,
	wsHub *ws.Hub,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
	startTime time.Time,
) *Handlers {
	return &Handlers{
		repo:      repo,
		cache:     cache,
		wsHub:     wsHub,
		upgrader:  upgrader,
		logger:    logger,
		startTime: startTime,
		now:       time.Now,
	}
}
