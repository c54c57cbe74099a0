// Package library manages the saved-books collection.
//
// When a remote API is configured every operation tries it first; any
// remote failure is logged and the operation is served from the local
// store instead. Without a remote the local store is the only backend.
// The local collection is one JSON array under a single key, upserted by
// record ID.
package library

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/joshwilensky/Google-Books-Search/internal/store"
	"github.com/joshwilensky/Google-Books-Search/internal/store/memstore"
	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Library = (*Client)(nil)

// Library is the saved-books contract.
type Library interface {
	List(ctx context.Context) ([]books.SavedRecord, error)
	Save(ctx context.Context, c books.Candidate) (books.SavedRecord, error)
	Delete(ctx context.Context, ref books.Ref) error
}

// Client is a saved-books client. It is safe for concurrent use.
type Client struct {
	remote *remote
	local  store.Store
	logger *zerolog.Logger
	now    func() time.Time

	// guards read-modify-write of the local payload
	mu sync.Mutex
}

// New creates a client over local. A nil local uses an in-memory store.
func New(local store.Store, opts ...Option) (*Client, error) {
	cfg := defaults()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.WrapResource("create", "library client", "", err)
		}
	}
	if local == nil {
		local = memstore.New()
	}
	logger := cfg.logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		remote: newRemote(cfg),
		local:  local,
		logger: logger,
		now:    cfg.now,
	}, nil
}

// HasRemote reports whether a remote API is configured.
func (c *Client) HasRemote() bool {
	return c.remote != nil
}

// List returns the saved collection, newest first for the local store.
func (c *Client) List(ctx context.Context) ([]books.SavedRecord, error) {
	res := tryRemote(ctx, c, "list", func(ctx context.Context) ([]books.SavedRecord, error) {
		return c.remote.list(ctx)
	})
	if res.ok {
		out := make([]books.SavedRecord, 0, len(res.value))
		for _, r := range res.value {
			out = append(out, canonical(r))
		}
		return out, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Save normalizes candidate and upserts it by ID.
func (c *Client) Save(ctx context.Context, candidate books.Candidate) (books.SavedRecord, error) {
	rec, err := books.Normalize(candidate, c.now())
	if err != nil {
		return books.SavedRecord{}, err
	}

	res := tryRemote(ctx, c, "save", func(ctx context.Context) (books.SavedRecord, error) {
		return c.remote.save(ctx, rec)
	})
	if res.ok {
		return canonical(res.value), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load(ctx)
	if err != nil {
		return books.SavedRecord{}, err
	}
	list, stored := upsert(list, rec)
	if err := c.store(ctx, list); err != nil {
		return books.SavedRecord{}, err
	}
	return stored, nil
}

// Delete removes the record ref resolves to. Deleting an absent record succeeds.
func (c *Client) Delete(ctx context.Context, ref books.Ref) error {
	id, err := ref.Resolve()
	if err != nil {
		return err
	}

	res := tryRemote(ctx, c, "delete", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.remote.delete(ctx, id)
	})
	if res.ok {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	list, err := c.load(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, r := range list {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return c.store(ctx, kept)
}

// tryRemote runs fn against the remote API, if any, turning every failure
// into a logged fallback.
func tryRemote[T any](ctx context.Context, c *Client, op string, fn func(context.Context) (T, error)) remoteResult[T] {
	if c.remote == nil {
		return fallback[T](nil)
	}
	v, err := fn(ctx)
	if err != nil && (errors.IsNotFound(err) || errors.StatusCode(err) == http.StatusNotFound) {
		c.logger.Debug().
			Err(err).
			Str("operation", op).
			Msg("Remote store has no such record; using local store")
		return fallback[T](err)
	}
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("operation", op).
			Int("status", errors.StatusCode(err)).
			Msg("Remote store unavailable; using local store")
		return fallback[T](err)
	}
	return served(v)
}

// load reads the local collection. An unreadable payload reads as empty.
func (c *Client) load(ctx context.Context) ([]books.SavedRecord, error) {
	data, ok, err := c.local.Get(ctx, constants.SavedBooksKey)
	if err != nil {
		return nil, err
	}
	list := []books.SavedRecord{}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(data, &list); err != nil {
		c.logger.Warn().
			Err(errors.WrapParse("json", constants.SavedBooksKey, err)).
			Msg("Local saved list is unreadable; treating it as empty")
		return []books.SavedRecord{}, nil
	}
	if list == nil {
		list = []books.SavedRecord{}
	}
	for i := range list {
		list[i] = canonical(list[i])
	}
	return list, nil
}

func (c *Client) store(ctx context.Context, list []books.SavedRecord) error {
	data, err := json.Marshal(list)
	if err != nil {
		return errors.WrapParse("json", constants.SavedBooksKey, err)
	}
	return c.local.Set(ctx, constants.SavedBooksKey, data)
}

// upsert replaces the record with rec's ID in place, merging non-empty
// fields, or inserts rec at the front.
func upsert(list []books.SavedRecord, rec books.SavedRecord) ([]books.SavedRecord, books.SavedRecord) {
	for i := range list {
		if list[i].ID == rec.ID {
			list[i] = list[i].Merge(rec)
			return list, list[i]
		}
	}
	out := make([]books.SavedRecord, 0, len(list)+1)
	out = append(out, rec)
	return append(out, list...), rec
}

// canonical fills ID from alternate identifiers and defaults Authors.
func canonical(r books.SavedRecord) books.SavedRecord {
	if r.ID == "" {
		if r.VolumeID != "" {
			r.ID = r.VolumeID
		} else {
			r.ID = r.MongoID
		}
	}
	if r.Authors == nil {
		r.Authors = []string{}
	}
	return r
}
