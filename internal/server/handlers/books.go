package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/joshwilensky/Google-Books-Search/internal/server/repository"
	"github.com/joshwilensky/Google-Books-Search/internal/server/response"
	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
	"github.com/joshwilensky/Google-Books-Search/pkg/logging"
)

// HandleListBooks handles GET /api/books.
func (h *Handlers) HandleListBooks(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.List(); ok {
		response.OK(w, cached)
		return
	}

	records, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, r, "list", err)
		return
	}
	h.cache.SetList(records)
	response.OK(w, records)
}

// HandleGetBook handles GET /api/books/{id}.
func (h *Handlers) HandleGetBook(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get", err)
		return
	}
	response.OK(w, rec)
}

// HandleSaveBook handles POST /api/books. Saving an existing ID replaces it.
func (h *Handlers) HandleSaveBook(w http.ResponseWriter, r *http.Request) {
	var rec books.SavedRecord
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&rec); err != nil {
		response.ErrorFromType(w, errors.WrapParse("json", "request body", err))
		return
	}

	rec, err := repository.Normalize(rec, h.now())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	saved, err := h.repo.Upsert(r.Context(), rec)
	if err != nil {
		h.fail(w, r, "save", err)
		return
	}

	h.changed("save")
	logging.FromContext(r.Context()).Info().
		Str("volume_id", saved.ID).
		Msg("Saved book")
	response.OK(w, saved)
}

// HandleDeleteBook handles DELETE /api/books/{id}.
func (h *Handlers) HandleDeleteBook(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete", err)
		return
	}

	h.changed("delete")
	logging.FromContext(r.Context()).Info().
		Str("volume_id", id).
		Msg("Deleted book")
	response.NoContent(w)
}

// changed drops the cached listing and tells connected clients to reload.
func (h *Handlers) changed(reason string) {
	h.cache.Invalidate()
	h.wsHub.Reload(reason)
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if !errors.IsNotFound(err) {
		logging.FromContext(r.Context()).Error().
			Err(err).
			Str("operation", op).
			Msg("Repository operation failed")
	}
	response.ErrorFromType(w, err)
}
