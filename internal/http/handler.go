package httpapp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cesargomez89/hummingbird/internal/app"
	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/events"
	"github.com/cesargomez89/hummingbird/internal/http/dto"
	"github.com/cesargomez89/hummingbird/internal/library"
	"github.com/cesargomez89/hummingbird/internal/logger"
	"github.com/cesargomez89/hummingbird/internal/playback"
	"github.com/cesargomez89/hummingbird/internal/store"
	"github.com/cesargomez89/hummingbird/internal/tags"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Engine   *playback.Engine
	Index    *library.Index
	Repo     *store.DB
	Queue    *app.QueueService
	Exporter *app.PlaylistExporter
	Enricher *tags.Enricher
	Bus      *events.Bus
	Logger   *logger.Logger
}

func NewHandler(engine *playback.Engine, index *library.Index, repo *store.DB,
	queue *app.QueueService, exporter *app.PlaylistExporter, enricher *tags.Enricher,
	bus *events.Bus, log *logger.Logger) *Handler {
	return &Handler{
		Engine:   engine,
		Index:    index,
		Repo:     repo,
		Queue:    queue,
		Exporter: exporter,
		Enricher: enricher,
		Bus:      bus,
		Logger:   log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/library", func(r chi.Router) {
		r.Get("/tracks", h.ListTracks)
		r.Get("/albums", h.ListAlbums)
		r.Get("/albums/{id}/tracks", h.ListAlbumTracks)
		r.Put("/view", h.SetView)
		r.Post("/reload", h.ReloadLibrary)
		r.Post("/play", h.PlayLibrary)
	})

	r.Route("/playback", func(r chi.Router) {
		r.Get("/", h.GetStatus)
		r.Post("/play", h.Play)
		r.Post("/pause", h.Pause)
		r.Post("/toggle", h.Toggle)
		r.Post("/stop", h.Stop)
		r.Post("/next", h.Next)
		r.Post("/previous", h.Previous)
		r.Post("/seek", h.Seek)
		r.Post("/volume", h.SetVolume)
		r.Post("/shuffle", h.ToggleShuffle)
		r.Put("/repeat", h.SetRepeat)
		r.Get("/art", h.GetArt)
	})

	r.Route("/queue", func(r chi.Router) {
		r.Get("/", h.GetQueue)
		r.Post("/", h.AddToQueue)
		r.Delete("/", h.ClearQueue)
		r.Post("/replace", h.ReplaceQueue)
		r.Post("/album", h.QueueAlbum)
		r.Post("/jump", h.JumpQueue)
		r.Post("/move", h.MoveQueueEntry)
		r.Delete("/{index}", h.RemoveQueueEntry)
	})

	r.Route("/playlists", func(r chi.Router) {
		r.Get("/", h.ListPlaylists)
		r.Post("/", h.CreatePlaylist)
		r.Put("/{id}", h.RenamePlaylist)
		r.Delete("/{id}", h.DeletePlaylist)
		r.Get("/{id}/tracks", h.ListPlaylistTracks)
		r.Post("/{id}/tracks", h.AddPlaylistTrack)
		r.Delete("/{id}/tracks/{trackID}", h.RemovePlaylistTrack)
		r.Get("/{id}/export", h.ExportPlaylist)
		r.Post("/{id}/play", h.PlayPlaylist)
		r.Post("/{id}/queue", h.QueuePlaylist)
	})

	r.Get("/events", h.Events)
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, dto.ErrorResponse{Error: msg})
}

func (h *Handler) respondValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	h.respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:  dto.ToResponse(errs),
		Fields: dto.ToMap(errs),
	})
}

// respondFailure maps service errors onto the API's status codes.
func (h *Handler) respondFailure(w http.ResponseWriter, err error) {
	h.respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	var catErr *domain.CatalogError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSeekOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEmptyQueue):
		return http.StatusConflict
	case errors.As(err, &catErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON fills v from the request body. An empty body is fine; the
// request's Validate decides whether the fields it needed were there.
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func (h *Handler) status(w http.ResponseWriter) {
	h.respondJSON(w, http.StatusOK, dto.NewStatusResponse(h.Engine.Status()))
}

func (h *Handler) queueSnapshot(w http.ResponseWriter, status int) {
	entries := h.Engine.Queue()
	st := h.Engine.Status()
	h.respondJSON(w, status, dto.NewQueueResponse(entries, st.QueueIndex))
}
