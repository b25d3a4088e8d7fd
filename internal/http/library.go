package httpapp

import (
	"net/http"

	"github.com/cesargomez89/hummingbird/internal/http/dto"
)

// ListTracks serves the index snapshot. A view parameter other than the
// active view reads the catalog directly without switching the index.
func (h *Handler) ListTracks(w http.ResponseWriter, r *http.Request) {
	view := h.Index.View()
	if p := r.URL.Query().Get("view"); p != "" {
		parsed, errs := dto.ParseViewMode(p)
		if len(errs) > 0 {
			h.respondValidation(w, errs)
			return
		}
		view = parsed
	}

	if view == h.Index.View() {
		h.respondJSON(w, http.StatusOK, dto.NewLibraryResponse(view, h.Index.Entries()))
		return
	}

	entries, err := h.Repo.ListEntries(view)
	if err != nil {
		h.Logger.Error("Failed to list entries", "view", view, "error", err)
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewLibraryResponse(view, entries))
}

func (h *Handler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	sort, errs := dto.ParseAlbumSort(r.URL.Query().Get("sort"))
	if len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	albums, err := h.Repo.ListAlbums(sort)
	if err != nil {
		h.Logger.Error("Failed to list albums", "sort", sort, "error", err)
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewAlbumsResponse(sort, albums))
}

func (h *Handler) ListAlbumTracks(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid album id")
		return
	}

	album, err := h.Repo.GetAlbum(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	entries, err := h.Repo.ListAlbumEntries(id)
	if err != nil {
		h.Logger.Error("Failed to list album entries", "album_id", id, "error", err)
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewAlbumTracksResponse(*album, entries))
}

func (h *Handler) SetView(w http.ResponseWriter, r *http.Request) {
	var req dto.ViewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, errs := dto.ParseViewMode(req.View)
	if len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	if err := h.Index.SetView(view); err != nil {
		h.Logger.Error("Failed to switch view", "view", view, "error", err)
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewLibraryStateResponse(h.Index.View(), h.Index.Len()))
}

// ReloadLibrary re-reads the catalog. On failure the previous snapshot
// stays in place and the client gets the error.
func (h *Handler) ReloadLibrary(w http.ResponseWriter, r *http.Request) {
	if err := h.Index.Load(); err != nil {
		h.Logger.Error("Library reload failed", "error", err)
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewLibraryStateResponse(h.Index.View(), h.Index.Len()))
}

// PlayLibrary queues the whole library in view order and starts at the
// top.
func (h *Handler) PlayLibrary(w http.ResponseWriter, r *http.Request) {
	if err := h.Queue.PlayAll(); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}
