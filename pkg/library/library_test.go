package library_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshwilensky/Google-Books-Search/internal/store/memstore"
	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/library"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newLocal(t *testing.T, opts ...library.Option) (*library.Client, *memstore.Store) {
	t.Helper()
	local := memstore.New()
	opts = append([]library.Option{
		library.WithLogger(logging.NewNopLogger()),
		library.WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	c, err := library.New(local, opts...)
	require.NoError(t, err)
	return c, local
}

func record(id, title string) books.Candidate {
	return books.FromRecord(books.SavedRecord{ID: id, Title: title, Authors: []string{"A"}})
}

func TestLocalUpsert(t *testing.T) {
	ctx := context.Background()
	c, _ := newLocal(t)
	assert.False(t, c.HasRemote())

	_, err := c.Save(ctx, record("a", "First"))
	require.NoError(t, err)
	_, err = c.Save(ctx, record("b", "Other"))
	require.NoError(t, err)
	saved, err := c.Save(ctx, record("a", "Second"))
	require.NoError(t, err)
	assert.Equal(t, "Second", saved.Title)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "new records go to the front")
	assert.Equal(t, "a", list[1].ID, "updates stay in place")
	assert.Equal(t, "Second", list[1].Title)
}

func TestLocalMergeKeepsFields(t *testing.T) {
	ctx := context.Background()
	c, _ := newLocal(t)

	_, err := c.Save(ctx, books.FromRecord(books.SavedRecord{ID: "a", Title: "T", Image: "http://img", Description: "<b>Bold</b>"}))
	require.NoError(t, err)
	_, err = c.Save(ctx, books.FromRecord(books.SavedRecord{ID: "a", Title: "T2"}))
	require.NoError(t, err)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "T2", list[0].Title)
	assert.Equal(t, "http://img", list[0].Image)
	assert.Equal(t, "Bold", list[0].Description)
	assert.Equal(t, fixedNow, list[0].SavedAt)
}

func TestSaveFromVolume(t *testing.T) {
	c, _ := newLocal(t)
	v := books.Volume{ID: "vol", VolumeInfo: books.VolumeInfo{
		Title:       "Dune",
		Description: "<p>Desert <i>planet</i></p>",
		ImageLinks:  &books.ImageLinks{SmallThumbnail: "http://s"},
	}}

	rec, err := c.Save(context.Background(), books.FromVolume(v))
	require.NoError(t, err)
	assert.Equal(t, "vol", rec.ID)
	assert.Equal(t, "Desert planet", rec.Description)
	assert.Equal(t, "http://s", rec.Image)
	assert.NotNil(t, rec.Authors)

	_, err = c.Save(context.Background(), books.FromRecord(books.SavedRecord{Title: "no id"}))
	assert.True(t, errors.IsValidationError(err))
}

func TestLocalDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newLocal(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := c.Save(ctx, record(id, id))
		require.NoError(t, err)
	}

	require.NoError(t, c.Delete(ctx, books.RefID("b")))
	require.NoError(t, c.Delete(ctx, books.RefID("missing")))
	require.NoError(t, c.Delete(ctx, books.Ref{VolumeID: "c"}))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	err = c.Delete(ctx, books.Ref{})
	assert.True(t, errors.IsValidationError(err))
}

func TestCorruptLocalPayload(t *testing.T) {
	ctx := context.Background()
	tl := logging.NewTestLogger(t)
	local := memstore.New()
	require.NoError(t, local.Set(ctx, constants.SavedBooksKey, []byte("{not json")))

	c, err := library.New(local, library.WithLogger(tl.Logger))
	require.NoError(t, err)

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	tl.AssertContains(t, "unreadable")

	_, err = c.Save(ctx, record("a", "A"))
	require.NoError(t, err)
	list, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLocalPayloadFormat(t *testing.T) {
	ctx := context.Background()
	c, local := newLocal(t)
	_, err := c.Save(ctx, record("a", "A"))
	require.NoError(t, err)

	data, ok, err := local.Get(ctx, constants.SavedBooksKey)
	require.NoError(t, err)
	require.True(t, ok)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "a", raw[0]["id"])
	assert.Contains(t, raw[0], "savedAt")
}

// fakeRemote is an in-memory /api/books server.
type fakeRemote struct {
	mu     sync.Mutex
	books  map[string]books.SavedRecord
	auth   []string
	status int
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/books":
		out := []books.SavedRecord{}
		for _, b := range f.books {
			out = append(out, b)
		}
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodPost && r.URL.Path == "/api/books":
		var rec books.SavedRecord
		_ = json.NewDecoder(r.Body).Decode(&rec)
		f.books[rec.ID] = rec
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(rec)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/books/"):
		delete(f.books, strings.TrimPrefix(r.URL.Path, "/api/books/"))
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestRemoteFirst(t *testing.T) {
	ctx := context.Background()
	fr := &fakeRemote{books: map[string]books.SavedRecord{}}
	srv := httptest.NewServer(fr)
	defer srv.Close()

	c, local := newLocal(t, library.WithRemote(srv.URL+"/"), library.WithRemoteToken("s3cret"))
	assert.True(t, c.HasRemote())

	saved, err := c.Save(ctx, record("a", "Remote"))
	require.NoError(t, err)
	assert.Equal(t, "Remote", saved.Title)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	require.NoError(t, c.Delete(ctx, books.RefID("a")))
	assert.Empty(t, fr.books)

	_, ok, err := local.Get(ctx, constants.SavedBooksKey)
	require.NoError(t, err)
	assert.False(t, ok, "local store untouched while the remote serves")

	for _, h := range fr.auth {
		assert.Equal(t, "Bearer s3cret", h)
	}
}

func TestRemoteFallback(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		ctx := context.Background()
		fr := &fakeRemote{books: map[string]books.SavedRecord{}, status: http.StatusInternalServerError}
		srv := httptest.NewServer(fr)
		defer srv.Close()

		tl := logging.NewTestLogger(t)
		c, err := library.New(memstore.New(), library.WithRemote(srv.URL), library.WithLogger(tl.Logger))
		require.NoError(t, err)

		_, err = c.Save(ctx, record("a", "Local"))
		require.NoError(t, err)
		list, err := c.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Local", list[0].Title)
		require.NoError(t, c.Delete(ctx, books.RefID("a")))

		list, err = c.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
		tl.AssertContains(t, "Remote store unavailable")
		tl.AssertContains(t, `"status":500`)
	})

	t.Run("absent remote record is not an outage", func(t *testing.T) {
		ctx := context.Background()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"book not found"}`))
		}))
		defer srv.Close()

		tl := logging.NewTestLogger(t)
		local := memstore.New()
		c, err := library.New(local, library.WithRemote(srv.URL), library.WithLogger(tl.Logger))
		require.NoError(t, err)

		require.NoError(t, c.Delete(ctx, books.RefID("missing")))

		tl.AssertContains(t, "Remote store has no such record")
		tl.AssertContains(t, `"level":"debug"`)
		tl.AssertNotContains(t, "Remote store unavailable")
		tl.AssertNotContains(t, `"level":"warn"`)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, _ := newLocal(t, library.WithRemote(url))
		_, err := c.Save(context.Background(), record("a", "A"))
		require.NoError(t, err)
		list, err := c.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		c, _ := newLocal(t, library.WithRemote(srv.URL), library.WithTimeout(50*time.Millisecond))
		list, err := c.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("undecodable body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		c, _ := newLocal(t, library.WithRemote(srv.URL))
		_, err := c.Save(context.Background(), record("a", "A"))
		require.NoError(t, err)
		list, err := c.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestRemoteRecordsCanonicalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":"m1","title":"Mongo keyed"},{"volumeId":"v1","title":"Volume keyed"}]`))
	}))
	defer srv.Close()

	c, _ := newLocal(t, library.WithRemote(srv.URL))
	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m1", list[0].ID)
	assert.Equal(t, "v1", list[1].ID)
	assert.NotNil(t, list[0].Authors)
}

func TestConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	c, _ := newLocal(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Save(ctx, record(string(rune('a'+i%5)), "t"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}
