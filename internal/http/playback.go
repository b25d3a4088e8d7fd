package httpapp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cesargomez89/hummingbird/internal/http/dto"
)

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.status(w)
}

// Play starts the picked track, or the current queue when the body
// names none.
func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	var req dto.PlayRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	var err error
	if req.TrackID != nil {
		err = h.Queue.PlayEntry(*req.TrackID)
	} else {
		err = h.Engine.Play()
	}
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Pause(); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Toggle(); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Stop(); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Next(); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Previous(); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) Seek(w http.ResponseWriter, r *http.Request) {
	var req dto.SeekRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	target := time.Duration(*req.PositionMs) * time.Millisecond
	if err := h.Engine.Seek(target); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) SetVolume(w http.ResponseWriter, r *http.Request) {
	var req dto.VolumeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	if err := h.Engine.SetVolume(*req.Level); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) ToggleShuffle(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Engine.ToggleShuffle(); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) SetRepeat(w http.ResponseWriter, r *http.Request) {
	var req dto.RepeatRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	if err := h.Engine.SetRepeat(req.DomainMode()); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

// GetArt serves the embedded artwork of the playing track as raw image
// bytes.
func (h *Handler) GetArt(w http.ResponseWriter, r *http.Request) {
	art, ok := h.Enricher.Artwork()
	if !ok {
		h.respondError(w, http.StatusNotFound, "no artwork for current track")
		return
	}
	w.Header().Set("Content-Type", art.MIME)
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	if _, err := w.Write(art.Data); err != nil {
		h.Logger.Error("Failed to write artwork", "error", err)
	}
}
