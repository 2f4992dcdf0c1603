package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chat_widget/internal/db"
	"chat_widget/internal/metrics"
	"chat_widget/internal/models"
)

const maxMessageBody = 16 * 1024

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.store.ListMessages(r.Context(), h.limit)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		h.logger.Error().Err(err).Msg("list messages")
		h.Error(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	h.JSON(w, http.StatusOK, messages)
}

func (h *Handler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	var message models.Message
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBody))
	if err := decoder.Decode(&message); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.AppendMessage(r.Context(), &message); err != nil {
		if errors.Is(err, db.ErrInvalidMessage) {
			h.Error(w, http.StatusBadRequest, "text is required for user messages")
			return
		}
		metrics.StoreErrors.WithLabelValues("append").Inc()
		h.logger.Error().Err(err).Msg("append message")
		h.Error(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	metrics.MessagesAppended.WithLabelValues(message.Sender()).Inc()
	h.JSON(w, http.StatusCreated, message)
}
