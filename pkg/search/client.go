// Package search queries the book catalog.
//
// A Client keeps at most one SearchPaged call in flight: starting a new one
// cancels the previous call, and a call whose generation has been overtaken
// never returns a page, even if its HTTP response arrived. When the catalog
// rejects the configured API key the client stops sending it for the rest
// of its life and retries the failed request once without it.
//
// Example usage:
//
//	client, err := search.New(search.WithAPIKey(os.Getenv("GOOGLE_BOOKS_KEY")))
//	if err != nil {
//	    return err
//	}
//	page, err := client.SearchPaged(ctx, "dune", 0, 20)
//	switch {
//	case errors.IsSuperseded(err):
//	    // a newer search replaced this one
//	case errors.IsTimeout(err):
//	    // the catalog did not answer in time
//	}
package search

import (
	"context"
	stderrors "errors"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/joshwilensky/Google-Books-Search/internal/auth"
	"github.com/joshwilensky/Google-Books-Search/internal/transport"
	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Searcher = (*Client)(nil)

// Searcher is the catalog contract used by the CLI and the suggestion session.
type Searcher interface {
	SearchPaged(ctx context.Context, query string, offset, pageSize int) (*books.SearchPage, error)
	GetByID(ctx context.Context, id string) (*books.CatalogItem, error)
	CancelPending()
}

// Client is a catalog client. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *transport.Client
	latch   *auth.Latch
	logger  *zerolog.Logger

	// generation of the most recently started SearchPaged call
	gen atomic.Uint64

	mu       sync.Mutex
	cancel   context.CancelFunc
	inflight uint64
}

// New creates a catalog client.
func New(opts ...Option) (*Client, error) {
	cfg := defaults()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.WrapResource("create", "search client", "", err)
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = logging.Default()
	}

	httpOpts := []transport.Option{
		transport.WithTimeout(cfg.timeout),
		transport.WithService(constants.CatalogService),
		transport.WithRateLimit(cfg.rateLimit, cfg.burst),
	}
	if cfg.httpClient != nil {
		httpOpts = append(httpOpts, transport.WithHTTPClient(cfg.httpClient))
	}

	c := &Client{
		baseURL: cfg.baseURL,
		http:    transport.New(&transport.QueryAuth{Param: "key"}, httpOpts...),
		latch:   auth.NewLatch(cfg.apiKey),
		logger:  logger,
	}

	if cfg.apiKey != "" && !c.latch.Usable() {
		logger.Warn().
			Str("state", auth.NewChecker().Check(cfg.apiKey).State.String()).
			Msg("Ignoring configured API key; searching without it")
	}

	return c, nil
}

// KeyUsable reports whether the API key is still attached to requests.
func (c *Client) KeyUsable() bool {
	return c.latch.Usable()
}

// SearchPaged fetches one page of results for query.
// A blank query returns an empty page without contacting the catalog.
func (c *Client) SearchPaged(ctx context.Context, query string, offset, pageSize int) (*books.SearchPage, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return books.EmptyPage(), nil
	}
	offset, pageSize = normalizePaging(offset, pageSize)

	callCtx, gen := c.begin(ctx)
	defer c.finish(gen)

	params := url.Values{}
	params.Set("q", q)
	params.Set("startIndex", strconv.Itoa(offset))
	params.Set("maxResults", strconv.Itoa(pageSize))

	var resp books.VolumesResponse
	err := c.fetch(callCtx, "search", c.baseURL+"?"+params.Encode(), &resp)

	if c.gen.Load() != gen {
		c.logger.Debug().
			Str("query", q).
			Uint64("generation", gen).
			Msg("Dropping superseded search result")
		return nil, errors.NewSupersededError("search")
	}
	if err != nil {
		return nil, err
	}

	items := make([]books.CatalogItem, 0, len(resp.Items))
	for _, v := range resp.Items {
		items = append(items, v.Item())
	}
	return books.NewSearchPage(items, offset, pageSize, resp.TotalItems), nil
}

// GetByID fetches a single volume. It does not take part in SearchPaged's
// cancellation.
func (c *Client) GetByID(ctx context.Context, id string) (*books.CatalogItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewValidationError("id", id, "cannot be empty")
	}

	var v books.Volume
	if err := c.fetch(ctx, "get volume", c.baseURL+"/"+url.PathEscape(id), &v); err != nil {
		return nil, err
	}
	if v.ID == "" {
		return nil, errors.NewNotFoundError("volume", id)
	}
	item := v.Item()
	return &item, nil
}

// CancelPending cancels the in-flight SearchPaged call, if any. Its caller
// receives a superseded error.
func (c *Client) CancelPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen.Add(1)
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// begin cancels the previous call and registers a new generation.
func (c *Client) begin(parent context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	gen := c.gen.Add(1)
	c.cancel = cancel
	c.inflight = gen
	return ctx, gen
}

// finish releases the context of gen if it is still the registered call.
func (c *Client) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight == gen && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// fetch performs a GET with the current credential. A key rejection turns
// the credential off and repeats the request once without it.
func (c *Client) fetch(ctx context.Context, op, rawURL string, target any) error {
	key := c.latch.Key()
	req := transport.Request{URL: rawURL, APIKey: key, Operation: op}

	err := c.http.Do(ctx, req, target)
	if err == nil || key == "" {
		return err
	}

	var apiErr *errors.APIError
	if !stderrors.As(err, &apiErr) || !auth.IsKeyRejection(apiErr.StatusCode, apiErr.Message) {
		return err
	}

	if c.latch.Disable() {
		c.logger.Warn().
			Err(errors.NewAuthenticationError(constants.CatalogService, "api_key", apiErr.Message, apiErr)).
			Int("status", apiErr.StatusCode).
			Msg("Catalog rejected API key; continuing without it")
	}

	req.APIKey = ""
	return c.http.Do(ctx, req, target)
}

// normalizePaging applies the default page size and a zero floor on offset.
// Sizes above the catalog maximum are passed through; the catalog rejects them.
func normalizePaging(offset, pageSize int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	return offset, pageSize
}
