package application

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/library"
	"github.com/joshwilensky/Google-Books-Search/pkg/search"
)

var _ Application = (*Mock)(nil)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	SearcherFunc     func() (search.Searcher, error)
	LibraryFunc      func() (library.Library, error)
	CatalogKeyFunc   func() string
	ServerFunc       func() ServerSettings
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	DebounceValue    time.Duration
	TimeoutValue     time.Duration
}

// Searcher returns a searcher using the mock function or nil.
func (m *Mock) Searcher() (search.Searcher, error) {
	if m.SearcherFunc != nil {
		return m.SearcherFunc()
	}
	return nil, nil
}

// Library returns a library using the mock function or nil.
func (m *Mock) Library() (library.Library, error) {
	if m.LibraryFunc != nil {
		return m.LibraryFunc()
	}
	return nil, nil
}

// CatalogKey returns the key using the mock function or "".
func (m *Mock) CatalogKey() string {
	if m.CatalogKeyFunc != nil {
		return m.CatalogKeyFunc()
	}
	return ""
}

// Debounce returns DebounceValue, or the default window when unset.
func (m *Mock) Debounce() time.Duration {
	if m.DebounceValue > 0 {
		return m.DebounceValue
	}
	return constants.DebounceWindow
}

// RequestTimeout returns TimeoutValue, or the default bound when unset.
func (m *Mock) RequestTimeout() time.Duration {
	if m.TimeoutValue > 0 {
		return m.TimeoutValue
	}
	return constants.RequestTimeout
}

// Server returns settings using the mock function or zero settings.
func (m *Mock) Server() ServerSettings {
	if m.ServerFunc != nil {
		return m.ServerFunc()
	}
	return ServerSettings{}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns "dev".
func (m *Mock) Version() string { return "dev" }

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// SearcherStub is a search.Searcher whose behavior is set per test.
type SearcherStub struct {
	SearchPagedFunc func(ctx context.Context, query string, offset, pageSize int) (*books.SearchPage, error)
	GetByIDFunc     func(ctx context.Context, id string) (*books.CatalogItem, error)

	mu      sync.Mutex
	queries []string
}

var _ search.Searcher = (*SearcherStub)(nil)

// SearchPaged records query and calls SearchPagedFunc, or returns an empty page.
func (s *SearcherStub) SearchPaged(ctx context.Context, query string, offset, pageSize int) (*books.SearchPage, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	if s.SearchPagedFunc != nil {
		return s.SearchPagedFunc(ctx, query, offset, pageSize)
	}
	return books.EmptyPage(), nil
}

// GetByID calls GetByIDFunc, or reports the volume as missing.
func (s *SearcherStub) GetByID(ctx context.Context, id string) (*books.CatalogItem, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, id)
	}
	return nil, errors.NewNotFoundError("volume", id)
}

// CancelPending does nothing.
func (s *SearcherStub) CancelPending() {}

// Queries returns the queries passed to SearchPaged, in call order.
func (s *SearcherStub) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// LibraryStub is a library.Library whose behavior is set per test.
type LibraryStub struct {
	ListFunc   func(ctx context.Context) ([]books.SavedRecord, error)
	SaveFunc   func(ctx context.Context, c books.Candidate) (books.SavedRecord, error)
	DeleteFunc func(ctx context.Context, ref books.Ref) error
}

var _ library.Library = (*LibraryStub)(nil)

// List calls ListFunc, or returns no records.
func (l *LibraryStub) List(ctx context.Context) ([]books.SavedRecord, error) {
	if l.ListFunc != nil {
		return l.ListFunc(ctx)
	}
	return []books.SavedRecord{}, nil
}

// Save calls SaveFunc, or normalizes c with the current time.
func (l *LibraryStub) Save(ctx context.Context, c books.Candidate) (books.SavedRecord, error) {
	if l.SaveFunc != nil {
		return l.SaveFunc(ctx, c)
	}
	return books.Normalize(c, time.Now())
}

// Delete calls DeleteFunc, or succeeds.
func (l *LibraryStub) Delete(ctx context.Context, ref books.Ref) error {
	if l.DeleteFunc != nil {
		return l.DeleteFunc(ctx, ref)
	}
	return nil
}
