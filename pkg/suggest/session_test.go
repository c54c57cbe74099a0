package suggest_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
	"github.com/joshwilensky/Google-Books-Search/pkg/suggest"
)

// fakePager records queries and answers with one item per query.
type fakePager struct {
	mu      sync.Mutex
	queries []string
	block   map[string]chan struct{}
	err     error
}

func (p *fakePager) SearchPaged(ctx context.Context, query string, offset, pageSize int) (*books.SearchPage, error) {
	p.mu.Lock()
	p.queries = append(p.queries, query)
	wait := p.block[query]
	p.mu.Unlock()

	if wait != nil {
		<-wait
	}
	if p.err != nil {
		return nil, p.err
	}
	items := []books.CatalogItem{item(query, query, "Author of "+query)}
	return books.NewSearchPage(items, offset, pageSize, 1), nil
}

func (p *fakePager) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queries...)
}

type collector struct {
	mu      sync.Mutex
	results []suggest.Result
	ch      chan suggest.Result
}

func newCollector() *collector {
	return &collector{ch: make(chan suggest.Result, 16)}
}

func (c *collector) deliver(r suggest.Result) {
	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
	c.ch <- r
}

func (c *collector) next(t *testing.T) suggest.Result {
	t.Helper()
	select {
	case r := <-c.ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no suggestion delivered")
		return suggest.Result{}
	}
}

func (c *collector) none(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case r := <-c.ch:
		t.Fatalf("unexpected delivery for %q", r.Query)
	case <-time.After(wait):
	}
}

func newSession(p suggest.Pager, c *collector) *suggest.Session {
	return suggest.NewSession(p, c.deliver,
		suggest.WithWindow(30*time.Millisecond),
		suggest.WithSessionLogger(logging.NewNopLogger()),
	)
}

func TestSessionDebounces(t *testing.T) {
	p := &fakePager{}
	c := newCollector()
	s := newSession(p, c)
	defer s.Close()

	ctx := context.Background()
	var last uint64
	for _, text := range []string{"dun", "dune", "dune m", "dune messiah"} {
		last = s.Input(ctx, text)
	}

	r := c.next(t)
	assert.Equal(t, "dune messiah", r.Query)
	assert.Equal(t, last, r.Generation)
	require.Len(t, r.Suggestions.Books, 1)
	assert.Equal(t, "dune messiah", r.Suggestions.Books[0].ID)
	assert.Equal(t, []string{"dune messiah"}, p.seen())
	c.none(t, 100*time.Millisecond)
}

func TestSessionMinChars(t *testing.T) {
	p := &fakePager{}
	c := newCollector()
	s := newSession(p, c)
	defer s.Close()

	s.Input(context.Background(), "  du ")
	r := c.next(t)
	assert.Equal(t, "du", r.Query)
	assert.Equal(t, 0, r.Suggestions.Len())

	c.none(t, 80*time.Millisecond)
	assert.Empty(t, p.seen())
}

func TestSessionShortInputCancelsPending(t *testing.T) {
	p := &fakePager{}
	c := newCollector()
	s := newSession(p, c)
	defer s.Close()

	s.Input(context.Background(), "dune")
	s.Input(context.Background(), "d")

	r := c.next(t)
	assert.Equal(t, "d", r.Query)
	c.none(t, 100*time.Millisecond)
	assert.Empty(t, p.seen())
}

func TestSessionDropsStaleResults(t *testing.T) {
	release := make(chan struct{})
	p := &fakePager{block: map[string]chan struct{}{"dune": release}}
	c := newCollector()
	s := newSession(p, c)
	defer s.Close()

	ctx := context.Background()
	s.Input(ctx, "dune")
	require.Eventually(t, func() bool { return len(p.seen()) == 1 }, time.Second, 5*time.Millisecond)

	s.Input(ctx, "emma")
	r := c.next(t)
	assert.Equal(t, "emma", r.Query)

	close(release)
	c.none(t, 100*time.Millisecond)
}

func TestSessionHidesErrors(t *testing.T) {
	p := &fakePager{err: errors.New("catalog down")}
	c := newCollector()
	s := newSession(p, c)
	defer s.Close()

	s.Input(context.Background(), "dune")
	r := c.next(t)
	assert.Equal(t, "dune", r.Query)
	assert.NotNil(t, r.Suggestions.Authors)
	assert.Equal(t, 0, r.Suggestions.Len())
}

func TestDebouncer(t *testing.T) {
	d := suggest.NewDebouncer(20 * time.Millisecond)
	fired := make(chan uint64, 4)

	d.Trigger(func(gen uint64) { fired <- gen })
	last := d.Trigger(func(gen uint64) { fired <- gen })

	select {
	case gen := <-fired:
		assert.Equal(t, last, gen)
	case <-time.After(time.Second):
		t.Fatal("debouncer never fired")
	}
	assert.True(t, d.Current(last))

	d.Trigger(func(gen uint64) { fired <- gen })
	d.Cancel()
	select {
	case <-fired:
		t.Fatal("canceled trigger fired")
	case <-time.After(60 * time.Millisecond):
	}
}
