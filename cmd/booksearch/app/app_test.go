package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/library"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
	"github.com/joshwilensky/Google-Books-Search/pkg/search"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		CatalogURL: "http://127.0.0.1:1/volumes",
		LocalStore: "memory",
		LocalPath:  t.TempDir(),
		LogFormat:  "json",
		LogOutput:  "discard",
	}
}

func newTestApp(t *testing.T, config *Config, opts ...Option) *App {
	t.Helper()
	isolate(t)
	opts = append([]Option{WithConfig(config), WithLogger(logging.NewNopLogger())}, opts...)
	app, err := New("1.0.0", "abc123", "2026-01-01", "test", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app
}

func TestApp_New(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	assert.Equal(t, "1.0.0", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2026-01-01", app.Date())
	assert.Equal(t, "test", app.BuiltBy())
	assert.NotNil(t, app.Logger())
	assert.Equal(t, "memory", app.Config().LocalStore)
}

func TestApp_SearcherSingleton(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]search.Searcher, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			s, err := app.Searcher()
			assert.NoError(t, err)
			results[idx] = s
		}(i)
	}
	wg.Wait()

	for _, s := range results {
		assert.Same(t, results[0], s)
	}
}

func TestApp_SearcherUsesConfig(t *testing.T) {
	var gotKey string
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		_ = json.NewEncoder(w).Encode(books.VolumesResponse{
			TotalItems: 1,
			Items:      []books.Volume{{ID: "v1", VolumeInfo: books.VolumeInfo{Title: "Dune"}}},
		})
	}))
	defer catalog.Close()

	config := testConfig(t)
	config.CatalogURL = catalog.URL
	config.CatalogKey = "AIzaSyA1234567890abcdefghijkl"
	app := newTestApp(t, config)

	s, err := app.Searcher()
	require.NoError(t, err)
	page, err := s.SearchPaged(context.Background(), "dune", 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, config.CatalogKey, gotKey)
}

func TestApp_SearcherRateLimit(t *testing.T) {
	var hits int
	var mu sync.Mutex
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(books.VolumesResponse{})
	}))
	defer catalog.Close()

	config := testConfig(t)
	config.CatalogURL = catalog.URL
	config.RequestTimeout = 200 * time.Millisecond
	config.CatalogRateLimit = 0.5
	app := newTestApp(t, config)

	s, err := app.Searcher()
	require.NoError(t, err)

	_, err = s.SearchPaged(context.Background(), "dune", 0, 10)
	require.NoError(t, err)

	_, err = s.SearchPaged(context.Background(), "dune", 10, 10)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits)
}

func TestApp_Library(t *testing.T) {
	t.Run("local only", func(t *testing.T) {
		app := newTestApp(t, testConfig(t))

		lib, err := app.Library()
		require.NoError(t, err)
		again, err := app.Library()
		require.NoError(t, err)
		assert.Same(t, lib, again)

		_, err = lib.Save(context.Background(), books.FromRecord(books.SavedRecord{ID: "a", Title: "Dune"}))
		require.NoError(t, err)
		list, err := lib.List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "a", list[0].ID)
	})

	t.Run("file store under local path", func(t *testing.T) {
		config := testConfig(t)
		config.LocalStore = "file"
		app := newTestApp(t, config)

		lib, err := app.Library()
		require.NoError(t, err)
		_, err = lib.Save(context.Background(), books.FromRecord(books.SavedRecord{ID: "a"}))
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(config.LocalPath, "booksearch.saved.json"))
	})

	t.Run("unknown store", func(t *testing.T) {
		config := testConfig(t)
		config.LocalStore = "postgres"
		app := newTestApp(t, config)

		_, err := app.Library()
		assert.Error(t, err)
	})

	t.Run("remote with token", func(t *testing.T) {
		var auth string
		remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		}))
		defer remote.Close()

		config := testConfig(t)
		config.APIBase = remote.URL
		config.APIToken = "s3cret"
		app := newTestApp(t, config)

		lib, err := app.Library()
		require.NoError(t, err)
		list, err := lib.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Equal(t, "Bearer s3cret", auth)
	})

	t.Run("injected library", func(t *testing.T) {
		injected, err := library.New(nil)
		require.NoError(t, err)
		app := newTestApp(t, testConfig(t), WithLibrary(injected))

		lib, err := app.Library()
		require.NoError(t, err)
		assert.Same(t, injected, lib)
	})
}

func TestApp_ServerSettings(t *testing.T) {
	config := testConfig(t)
	config.Host = "0.0.0.0"
	config.Port = 4000
	config.APIToken = "s3cret"
	config.CORSOrigins = []string{"http://a"}
	app := newTestApp(t, config)

	s := app.Server()
	assert.Equal(t, "0.0.0.0", s.Host)
	assert.Equal(t, 4000, s.Port)
	assert.Equal(t, "s3cret", s.Token)
	assert.Equal(t, []string{"http://a"}, s.CORSOrigins)
}

func TestApp_RootCommand(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	t.Run("version", func(t *testing.T) {
		root := app.createRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"version"})
		require.NoError(t, root.ExecuteContext(context.Background()))
		assert.Contains(t, out.String(), "booksearch 1.0.0")
		assert.Contains(t, out.String(), "abc123")
	})

	t.Run("flags update config", func(t *testing.T) {
		root := app.createRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"saved", "list", "-o", "json", "-q"})
		require.NoError(t, root.ExecuteContext(context.Background()))
		assert.Equal(t, "json", app.OutputFormat())
		assert.True(t, app.Config().Quiet)
		assert.JSONEq(t, `[]`, out.String())
	})

	t.Run("every command is grouped", func(t *testing.T) {
		root := app.createRootCommand()
		for _, cmd := range root.Commands() {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				continue
			}
			assert.NotEmpty(t, cmd.GroupID, cmd.Name())
		}
	})
}
