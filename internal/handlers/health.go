package handlers

import "net/http"

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("store ping failed")
		h.JSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Store: "unreachable"})
		return
	}
	h.JSON(w, http.StatusOK, HealthResponse{Status: "ok", Store: "ok"})
}
