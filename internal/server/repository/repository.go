// Package repository defines the storage contract behind the saved-books API.
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

// Repository stores saved records keyed by ID.
type Repository interface {
	// List returns every record, most recently saved first.
	List(ctx context.Context) ([]books.SavedRecord, error)

	// Get returns the record with id. A missing record is a NotFoundError.
	Get(ctx context.Context, id string) (books.SavedRecord, error)

	// Upsert inserts rec or replaces the record with the same ID.
	Upsert(ctx context.Context, rec books.SavedRecord) (books.SavedRecord, error)

	// Delete removes the record with id. A missing record is a NotFoundError.
	Delete(ctx context.Context, id string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	Close(ctx context.Context) error
}

// Normalize fills the canonical ID from the alternate identifiers and stamps
// SavedAt when the caller left it empty.
func Normalize(rec books.SavedRecord, now time.Time) (books.SavedRecord, error) {
	for _, id := range []string{rec.ID, rec.MongoID, rec.VolumeID} {
		if id = strings.TrimSpace(id); id != "" {
			rec.ID = id
			break
		}
	}
	if strings.TrimSpace(rec.ID) == "" {
		return books.SavedRecord{}, errors.NewValidationError("id", rec.ID, "a saved book needs an id")
	}
	rec.MongoID = ""
	rec.VolumeID = ""
	if rec.Authors == nil {
		rec.Authors = []string{}
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = now.UTC()
	}
	return rec, nil
}
