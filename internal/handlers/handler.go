package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"chat_widget/internal/db"
)

// Handler contains shared dependencies for the message store handlers.
type Handler struct {
	store  db.MessageStore
	logger zerolog.Logger
	limit  int
}

func NewHandler(store db.MessageStore, logger zerolog.Logger, limit int) *Handler {
	if limit < 1 {
		limit = 1000
	}
	return &Handler{store: store, logger: logger, limit: limit}
}

func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("encode response")
	}
}

func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
