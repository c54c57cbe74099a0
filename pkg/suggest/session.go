package suggest

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
)

// Pager fetches a page of catalog results.
type Pager interface {
	SearchPaged(ctx context.Context, query string, offset, pageSize int) (*books.SearchPage, error)
}

// Result is one delivery of live suggestions.
type Result struct {
	Query       string
	Suggestions Suggestions
	Generation  uint64
}

// Session turns a stream of typed input into debounced suggestion
// deliveries. Input shorter than the minimum clears suggestions at once;
// longer input is searched after the quiet window. Results of inputs that
// have since been replaced are dropped, and search errors deliver empty
// suggestions.
type Session struct {
	pager      Pager
	deliver    func(Result)
	debouncer  *Debouncer
	minChars   int
	fetchSize  int
	maxAuthors int
	maxBooks   int
	logger     *zerolog.Logger

	// serializes deliveries
	deliverMu sync.Mutex
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithWindow sets the debounce window.
func WithWindow(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.debouncer = NewDebouncer(d)
		}
	}
}

// WithMinChars sets the minimum trimmed input length.
func WithMinChars(n int) SessionOption {
	return func(s *Session) {
		s.minChars = n
	}
}

// WithLimits sets the suggestion caps.
func WithLimits(maxAuthors, maxBooks int) SessionOption {
	return func(s *Session) {
		s.maxAuthors = maxAuthors
		s.maxBooks = maxBooks
	}
}

// WithSessionLogger sets the logger for hidden search errors.
func WithSessionLogger(logger *zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session delivering results to deliver.
func NewSession(pager Pager, deliver func(Result), opts ...SessionOption) *Session {
	s := &Session{
		pager:      pager,
		deliver:    deliver,
		debouncer:  NewDebouncer(constants.DebounceWindow),
		minChars:   constants.MinSuggestChars,
		fetchSize:  constants.SuggestionFetchSize,
		maxAuthors: constants.MaxAuthorSuggestions,
		maxBooks:   constants.MaxBookSuggestions,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Input records the current text of the search box. It returns the
// generation the eventual Result for this text will carry.
func (s *Session) Input(ctx context.Context, text string) uint64 {
	q := strings.TrimSpace(text)
	if utf8.RuneCountInString(q) < s.minChars {
		gen := s.debouncer.Cancel()
		s.emit(Result{Query: q, Suggestions: Empty(), Generation: gen})
		return gen
	}

	return s.debouncer.Trigger(func(gen uint64) {
		s.fetch(ctx, q, gen)
	})
}

// Close drops any pending or in-flight suggestion.
func (s *Session) Close() {
	s.debouncer.Cancel()
}

func (s *Session) fetch(ctx context.Context, q string, gen uint64) {
	page, err := s.pager.SearchPaged(ctx, q, 0, s.fetchSize)
	if !s.debouncer.Current(gen) {
		return
	}

	out := Empty()
	if err != nil {
		s.logger.Debug().Err(err).Str("query", q).Msg("Hiding suggestion error")
	} else {
		out = Build(page.Items, s.maxAuthors, s.maxBooks)
	}
	s.emit(Result{Query: q, Suggestions: out, Generation: gen})
}

func (s *Session) emit(r Result) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if !s.debouncer.Current(r.Generation) {
		return
	}
	s.deliver(r)
}
