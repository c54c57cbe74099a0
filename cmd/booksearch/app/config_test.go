package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
)

// isolate points HOME at an empty directory and clears the environment
// keys the tests read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	// empty values count as unset
	for _, key := range []string{
		"GOOGLE_BOOKS_KEY", "API_BASE", "API_TOKEN", "LOCAL_STORE", "LOCAL_PATH",
		"REQUEST_TIMEOUT", "DEBOUNCE", "CATALOG_RATE_LIMIT", "HOST", "PORT", "RATE_LIMIT", "CORS_ORIGINS",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
	} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadConfigDefaults(t *testing.T) {
	home := isolate(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultCatalogURL, config.CatalogURL)
	assert.Equal(t, constants.RequestTimeout, config.RequestTimeout)
	assert.Equal(t, constants.DebounceWindow, config.Debounce)
	assert.Equal(t, "file", config.LocalStore)
	assert.Equal(t, filepath.Join(home, constants.AppDirName), config.LocalPath)
	assert.Equal(t, constants.DefaultServerPort, config.Port)
	assert.Equal(t, constants.DefaultMongoDatabase, config.MongoDatabase)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.APIBase)
	assert.Empty(t, config.LogLevel)
	assert.Zero(t, config.CatalogRateLimit)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("GOOGLE_BOOKS_KEY", " AIzaSyA1234567890abcdefghijkl ")
	t.Setenv("API_BASE", "http://localhost:3001")
	t.Setenv("API_TOKEN", "s3cret")
	t.Setenv("LOCAL_STORE", "sqlite")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("DEBOUNCE", "100ms")
	t.Setenv("CATALOG_RATE_LIMIT", "2.5")
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ORIGINS", "http://a, http://b")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "AIzaSyA1234567890abcdefghijkl", config.CatalogKey)
	assert.Equal(t, "http://localhost:3001", config.APIBase)
	assert.Equal(t, "s3cret", config.APIToken)
	assert.Equal(t, "sqlite", config.LocalStore)
	assert.Equal(t, 2*time.Second, config.RequestTimeout)
	assert.Equal(t, 100*time.Millisecond, config.Debounce)
	assert.Equal(t, 2.5, config.CatalogRateLimit)
	assert.Equal(t, 8081, config.Port)
	assert.Equal(t, []string{"http://a", "http://b"}, config.CORSOrigins)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "booksearch.yaml")
	content := `api_base: https://books.example.com
local_store: memory
local_path: ~/books
cors_origins:
  - https://app.example.com
rate_limit: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), constants.FilePermissions))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, path, config.ConfigFile)
	assert.Equal(t, "https://books.example.com", config.APIBase)
	assert.Equal(t, "memory", config.LocalStore)
	assert.Equal(t, filepath.Join(home, "books"), config.LocalPath)
	assert.Equal(t, []string{"https://app.example.com"}, config.CORSOrigins)
	assert.Equal(t, 10, config.RateLimit)

	_, err = LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format)
	assert.Equal(t, "warn", config.LogLevel)

	config.UpdateFromFlags(false, true, false, "json", "error")
	assert.True(t, config.Quiet)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "error", config.LogLevel)
}
