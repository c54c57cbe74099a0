// Package memory is an in-process Repository for tests and for running the
// server without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/joshwilensky/Google-Books-Search/internal/server/repository"
	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

var _ repository.Repository = (*Repository)(nil)

// Repository keeps records in a map.
type Repository struct {
	mu      sync.RWMutex
	records map[string]books.SavedRecord
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{records: make(map[string]books.SavedRecord)}
}

// List returns records ordered by SavedAt, newest first.
func (r *Repository) List(_ context.Context) ([]books.SavedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]books.SavedRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

// Get returns the record with id.
func (r *Repository) Get(_ context.Context, id string) (books.SavedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return books.SavedRecord{}, errors.NewNotFoundError("saved book", id)
	}
	return rec, nil
}

// Upsert stores rec under its ID.
func (r *Repository) Upsert(_ context.Context, rec books.SavedRecord) (books.SavedRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = rec
	return rec, nil
}

// Delete removes the record with id.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return errors.NewNotFoundError("saved book", id)
	}
	delete(r.records, id)
	return nil
}

// Ping always succeeds.
func (r *Repository) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (r *Repository) Close(_ context.Context) error { return nil }
