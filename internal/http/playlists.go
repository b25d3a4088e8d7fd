package httpapp

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cesargomez89/hummingbird/internal/constants"
	"github.com/cesargomez89/hummingbird/internal/http/dto"
)

func (h *Handler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.Repo.ListPlaylists()
	if err != nil {
		h.Logger.Error("Failed to list playlists", "error", err)
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewPlaylistsResponse(playlists))
}

func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaylistCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	playlist, err := h.Repo.CreatePlaylist(req.TrimmedName())
	if err != nil {
		h.Logger.Error("Failed to create playlist", "name", req.TrimmedName(), "error", err)
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, playlist)
}

func (h *Handler) RenamePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	var req dto.PlaylistRenameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	if err := h.Repo.RenamePlaylist(id, req.TrimmedName()); err != nil {
		h.respondFailure(w, err)
		return
	}
	playlist, err := h.Repo.GetPlaylist(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, playlist)
}

func (h *Handler) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	if err := h.Repo.DeletePlaylist(id); err != nil {
		h.respondFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPlaylistTracks(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	playlist, err := h.Repo.GetPlaylist(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	entries, err := h.Repo.PlaylistEntries(id)
	if err != nil {
		h.Logger.Error("Failed to list playlist entries", "playlist_id", id, "error", err)
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewPlaylistTracksResponse(*playlist, entries))
}

func (h *Handler) AddPlaylistTrack(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	var req dto.PlaylistTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	if err := h.Repo.AddPlaylistEntry(id, *req.TrackID); err != nil {
		h.respondFailure(w, err)
		return
	}
	playlist, err := h.Repo.GetPlaylist(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, playlist)
}

func (h *Handler) RemovePlaylistTrack(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	trackID, err := urlID(r, "trackID")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}

	if err := h.Repo.RemovePlaylistEntry(id, trackID); err != nil {
		h.respondFailure(w, err)
		return
	}
	playlist, err := h.Repo.GetPlaylist(id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, playlist)
}

// ExportPlaylist renders the playlist as an extended M3U download. The
// export buffers first so a failed lookup still gets a clean error
// response.
func (h *Handler) ExportPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	var buf bytes.Buffer
	playlist, err := h.Exporter.Export(&buf, id)
	if err != nil {
		h.respondFailure(w, err)
		return
	}

	w.Header().Set("Content-Type", constants.MimeTypeM3U)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", playlist.Name+".m3u"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("Failed to write playlist export", "playlist_id", id, "error", err)
	}
}

func (h *Handler) PlayPlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	if err := h.Queue.PlayPlaylist(id); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) QueuePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	if err := h.Queue.QueuePlaylist(id); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.queueSnapshot(w, http.StatusOK)
}
