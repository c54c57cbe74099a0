package library

import (
	"context"
	"net/http"
	"net/url"

	"github.com/joshwilensky/Google-Books-Search/internal/transport"
	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

// remoteResult is the outcome of a remote step: either a value, or a signal
// to fall back to the local store. err is kept for logging only.
type remoteResult[T any] struct {
	value T
	ok    bool
	err   error
}

func fallback[T any](err error) remoteResult[T] {
	return remoteResult[T]{err: err}
}

func served[T any](v T) remoteResult[T] {
	return remoteResult[T]{value: v, ok: true}
}

// remote talks to the /api/books endpoints.
type remote struct {
	endpoint string
	token    string
	http     *transport.Client
}

func newRemote(cfg *config) *remote {
	if cfg.remoteURL == "" {
		return nil
	}
	opts := []transport.Option{
		transport.WithTimeout(cfg.timeout),
		transport.WithService(constants.RemoteStoreService),
	}
	if cfg.httpClient != nil {
		opts = append(opts, transport.WithHTTPClient(cfg.httpClient))
	}
	return &remote{
		endpoint: cfg.remoteURL + constants.BooksAPIPath,
		token:    cfg.token,
		http:     transport.New(&transport.BearerAuth{}, opts...),
	}
}

func (r *remote) list(ctx context.Context) ([]books.SavedRecord, error) {
	var out []books.SavedRecord
	err := r.http.Do(ctx, transport.Request{
		Method:    http.MethodGet,
		URL:       r.endpoint,
		APIKey:    r.token,
		Operation: "list saved",
	}, &out)
	if err != nil {
		return nil, errors.WrapRemote("list", r.endpoint, err)
	}
	return out, nil
}

func (r *remote) save(ctx context.Context, rec books.SavedRecord) (books.SavedRecord, error) {
	var out books.SavedRecord
	err := r.http.Do(ctx, transport.Request{
		Method:    http.MethodPost,
		URL:       r.endpoint,
		Body:      rec,
		APIKey:    r.token,
		Operation: "save",
	}, &out)
	if err != nil {
		return books.SavedRecord{}, errors.WrapRemote("save", r.endpoint, err)
	}
	if out.ID == "" && out.VolumeID == "" && out.MongoID == "" {
		return rec, nil
	}
	return out, nil
}

func (r *remote) delete(ctx context.Context, id string) error {
	target := r.endpoint + "/" + url.PathEscape(id)
	err := r.http.Do(ctx, transport.Request{
		Method:    http.MethodDelete,
		URL:       target,
		APIKey:    r.token,
		Operation: "delete",
	}, nil)
	return errors.WrapRemote("delete", target, err)
}
