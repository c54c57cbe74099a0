// Package store defines the local durable key-value store behind the
// saved-books library, and opens one of its backends by name.
package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/joshwilensky/Google-Books-Search/internal/store/filestore"
	"github.com/joshwilensky/Google-Books-Search/internal/store/memstore"
	"github.com/joshwilensky/Google-Books-Search/internal/store/sqlitestore"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

// Store holds raw payloads under namespaced keys.
type Store interface {
	// Get returns the payload stored at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the payload stored at key.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases the backend.
	Close() error
}

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the backend named kind rooted at dir.
func Open(kind, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendFile:
		return filestore.New(dir)
	case BackendSQLite:
		return sqlitestore.Open(filepath.Join(dir, constants.DefaultLocalDatabase))
	case BackendMemory:
		return memstore.New(), nil
	default:
		return nil, errors.NewConfigError("local_store", "unknown backend "+kind+" (want file, sqlite or memory)", nil)
	}
}
