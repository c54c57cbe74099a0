// Package serve provides the saved-books API server command.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joshwilensky/Google-Books-Search/cmd/application"
	"github.com/joshwilensky/Google-Books-Search/internal/server"
	"github.com/joshwilensky/Google-Books-Search/internal/server/repository"
	"github.com/joshwilensky/Google-Books-Search/internal/server/repository/memory"
	"github.com/joshwilensky/Google-Books-Search/internal/server/repository/mongo"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
)

// NewCommand creates the serve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "library",
		Aliases: []string{"server"},
		Short:   "Start the saved-books API server",
		Long: `Start the saved-books REST API that booksearch uses as its remote store.

Endpoints:
  GET    /api/books        list saved books, newest first
  POST   /api/books        save a book (upsert by id)
  GET    /api/books/{id}   fetch one saved book
  DELETE /api/books/{id}   remove a saved book
  GET    /api/updates/ws   WebSocket reload notifications

Books are stored in MongoDB when --mongo-uri is set, otherwise in memory.`,
		Example: `  # In-memory store on the default port
  booksearch serve

  # MongoDB with a bearer token
  booksearch serve --mongo-uri mongodb://localhost:27017 --token s3cret

  # Allow a browser front end
  booksearch serve --cors-origins http://localhost:3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, app)
		},
	}

	// flags left unset fall back to the configured server settings
	cmd.Flags().String("host", constants.DefaultServerHost, "Bind address")
	cmd.Flags().Int("port", constants.DefaultServerPort, "Server port")
	cmd.Flags().String("mongo-uri", "", "MongoDB connection string (empty for in-memory)")
	cmd.Flags().String("mongo-db", constants.DefaultMongoDatabase, "MongoDB database name")
	cmd.Flags().Int("rate-limit", constants.DefaultRateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated, empty for all)")
	cmd.Flags().String("token", "", "Bearer token required by the books API (empty to disable)")

	return cmd
}

func runServer(cmd *cobra.Command, app application.Application) error {
	ctx := cmd.Context()
	logger := app.Logger()

	settings := resolveSettings(cmd, app.Server())

	cfg := server.DefaultConfig()
	cfg.Host = settings.Host
	cfg.Port = settings.Port
	cfg.RateLimit = settings.RateLimit
	cfg.CORSOrigins = settings.CORSOrigins
	cfg.Token = settings.Token

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port out of range: %d", cfg.Port)
	}

	repo, err := openRepository(ctx, settings.MongoURI, settings.MongoDatabase, logger)
	if err != nil {
		return err
	}

	srv, err := server.New(repo, cfg, logger)
	if err != nil {
		_ = repo.Close(context.Background())
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("prefix", cfg.PathPrefix).
		Bool("auth", cfg.Token != "").
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting saved-books server")

	srv.Start()

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	return startWithGracefulShutdown(ctx, cmd, srv.HTTPServer(addr), srv, logger)
}

// resolveSettings overlays explicitly set flags on the configured settings.
func resolveSettings(cmd *cobra.Command, s application.ServerSettings) application.ServerSettings {
	flags := cmd.Flags()
	if flags.Changed("host") || s.Host == "" {
		s.Host = mustGetString(cmd, "host")
	}
	if flags.Changed("port") || s.Port == 0 {
		s.Port = mustGetInt(cmd, "port")
	}
	if flags.Changed("mongo-uri") {
		s.MongoURI = mustGetString(cmd, "mongo-uri")
	}
	if flags.Changed("mongo-db") || s.MongoDatabase == "" {
		s.MongoDatabase = mustGetString(cmd, "mongo-db")
	}
	if flags.Changed("rate-limit") {
		s.RateLimit = mustGetInt(cmd, "rate-limit")
	}
	if flags.Changed("cors-origins") {
		s.CORSOrigins = mustGetStringSlice(cmd, "cors-origins")
	}
	if flags.Changed("token") {
		s.Token = mustGetString(cmd, "token")
	}
	return s
}

func openRepository(ctx context.Context, uri, database string, logger *zerolog.Logger) (repository.Repository, error) {
	if uri == "" {
		logger.Warn().Msg("No MongoDB URI configured, saved books are kept in memory")
		return memory.New(), nil
	}
	if database == "" {
		database = constants.DefaultMongoDatabase
	}

	repo, err := mongo.Connect(ctx, uri, database)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("database", database).Msg("Connected to MongoDB")
	return repo, nil
}

func startWithGracefulShutdown(ctx context.Context, cmd *cobra.Command, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")

		fmt.Fprintf(cmd.OutOrStdout(), "Saved-books API listening on %s\n", httpServer.Addr)
		fmt.Fprintln(cmd.OutOrStdout(), "   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn().Err(shutdownErr).Msg("Background services shutdown had issues")
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received via context")
		fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down API server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Fprintln(cmd.OutOrStdout(), "API server stopped gracefully")
		return nil
	}
}

func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
