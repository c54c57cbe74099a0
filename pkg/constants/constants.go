// Package constants provides shared constants used throughout the booksearch codebase.
// This includes timeouts, page sizes, suggestion limits, storage keys and
// default endpoints that must agree between the clients, the CLI and the server.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// RequestTimeout bounds a single HTTP attempt against the catalog or the remote store
	RequestTimeout = 8000 * time.Millisecond

	// DebounceWindow is the quiet period a typed query must survive before suggestions are fetched
	DebounceWindow = 350 * time.Millisecond

	// ServerReadTimeout is the read timeout of the saved-books server
	ServerReadTimeout = 15 * time.Second

	// ServerWriteTimeout is the write timeout of the saved-books server
	ServerWriteTimeout = 15 * time.Second

	// ServerIdleTimeout is the idle timeout of the saved-books server
	ServerIdleTimeout = 60 * time.Second

	// ShutdownTimeout is how long the server waits for in-flight requests on shutdown
	ShutdownTimeout = 10 * time.Second

	// ListCacheTTL is how long the server caches the saved-books listing
	ListCacheTTL = 30 * time.Second

	// DatabaseTimeout bounds a single repository call on the server
	DatabaseTimeout = 5 * time.Second
)

// Paging constants for the catalog volumes API
const (
	// DefaultPageSize is used when a caller passes a non-positive page size
	DefaultPageSize = 20

	// MaxPageSize is the largest maxResults the catalog accepts
	MaxPageSize = 40

	// SuggestionFetchSize is the number of volumes fetched to build live suggestions
	SuggestionFetchSize = 20
)

// Suggestion constants
const (
	// MaxAuthorSuggestions is the default cap on author suggestions
	MaxAuthorSuggestions = 6

	// MaxBookSuggestions is the default cap on book suggestions
	MaxBookSuggestions = 10

	// SnippetLength is the maximum number of characters kept from a description
	SnippetLength = 120

	// MinSuggestChars is the minimum trimmed query length that triggers suggestions
	MinSuggestChars = 3

	// UntitledTitle is shown for volumes without a title
	UntitledTitle = "Untitled"

	// AuthorSuggestionDescription is the sample text attached to author suggestions
	AuthorSuggestionDescription = "Search books by this author"
)

// Storage constants
const (
	// SavedBooksKey is the single namespaced key holding the local saved list
	SavedBooksKey = "booksearch.saved"

	// AppDirName names both the config file (~/.booksearch.yaml) and the local data directory (~/.booksearch)
	AppDirName = ".booksearch"

	// DefaultLocalFile is the file name of the file-backed local store
	DefaultLocalFile = "saved.json"

	// DefaultLocalDatabase is the file name of the sqlite-backed local store
	DefaultLocalDatabase = "saved.db"

	// DefaultMongoDatabase is the database used by the server's mongo repository
	DefaultMongoDatabase = "googlebooks"

	// BooksCollection is the mongo collection of saved books
	BooksCollection = "books"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like API keys (rw-------)
	SecureFilePermissions = 0600
)

// Endpoint constants
const (
	// DefaultCatalogURL is the Google Books volumes endpoint
	DefaultCatalogURL = "https://www.googleapis.com/books/v1/volumes"

	// BooksAPIPath is the path of the saved-books API, relative to the remote base URL
	BooksAPIPath = "/api/books"

	// DefaultServerHost is the default listen host for booksearch serve
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default listen port for booksearch serve
	DefaultServerPort = 3001

	// DefaultRateLimit is the default per-client request rate of the server, per minute
	DefaultRateLimit = 120

	// UserAgent is sent on every outbound request
	UserAgent = "booksearch/1.0"
)

// Service names used in errors and logs
const (
	// CatalogService names the external catalog
	CatalogService = "google-books"

	// RemoteStoreService names the remote saved-books API
	RemoteStoreService = "remote-store"
)
