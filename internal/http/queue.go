package httpapp

import (
	"net/http"
	"strconv"

	"github.com/cesargomez89/hummingbird/internal/http/dto"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetQueue(w http.ResponseWriter, r *http.Request) {
	h.queueSnapshot(w, http.StatusOK)
}

func (h *Handler) AddToQueue(w http.ResponseWriter, r *http.Request) {
	var req dto.QueueAddRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	var err error
	if req.Position != nil {
		err = h.Queue.QueueEntryAt(*req.TrackID, *req.Position)
	} else {
		err = h.Queue.QueueEntry(*req.TrackID)
	}
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.queueSnapshot(w, http.StatusCreated)
}

func (h *Handler) ReplaceQueue(w http.ResponseWriter, r *http.Request) {
	var req dto.QueueReplaceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	if err := h.Queue.ReplaceTracks(req.TrackIDs); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.queueSnapshot(w, http.StatusOK)
}

func (h *Handler) QueueAlbum(w http.ResponseWriter, r *http.Request) {
	var req dto.QueueAlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	var err error
	if req.Play {
		err = h.Queue.PlayAlbum(*req.AlbumID)
	} else {
		err = h.Queue.QueueAlbum(*req.AlbumID)
	}
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.queueSnapshot(w, http.StatusOK)
}

func (h *Handler) JumpQueue(w http.ResponseWriter, r *http.Request) {
	var req dto.QueueJumpRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	var err error
	if req.Unshuffled {
		err = h.Engine.JumpUnshuffled(*req.Index)
	} else {
		err = h.Engine.Jump(*req.Index)
	}
	if err != nil {
		h.respondFailure(w, err)
		return
	}
	h.status(w)
}

func (h *Handler) MoveQueueEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.QueueMoveRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.respondValidation(w, errs)
		return
	}

	if err := h.Engine.MoveEntry(*req.From, *req.To); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.queueSnapshot(w, http.StatusOK)
}

func (h *Handler) RemoveQueueEntry(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		h.respondError(w, http.StatusBadRequest, "invalid queue index")
		return
	}

	if err := h.Engine.RemoveAt(index); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.queueSnapshot(w, http.StatusOK)
}

func (h *Handler) ClearQueue(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.ClearQueue(); err != nil {
		h.respondFailure(w, err)
		return
	}
	h.queueSnapshot(w, http.StatusOK)
}
