package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

// APIHandler serves the JSON endpoints next to the websocket.
type APIHandler struct {
	service *app.QuizService
	log     *zap.Logger
}

func NewAPIHandler(service *app.QuizService, log *zap.Logger) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{service: service, log: log}
}

// ListHighScores returns the stored records in insertion order.
func (h *APIHandler) ListHighScores(w http.ResponseWriter, r *http.Request) {
	records := h.service.HighScores().List(r.Context())
	writeJSON(w, http.StatusOK, highScoresPayload{Records: records, Rows: app.Render(records)})
}

// ClearHighScores wipes every stored record.
func (h *APIHandler) ClearHighScores(w http.ResponseWriter, r *http.Request) {
	if err := h.service.HighScores().Clear(r.Context()); err != nil {
		h.log.Warn("clear high scores failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "could not clear high scores"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession reports the live state of a play session.
func (h *APIHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrControllerClosed):
		writeJSON(w, http.StatusNotFound, errorPayload{Message: domain.ErrSessionNotFound.Error()})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: err.Error()})
	default:
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
