package handler

import (
	"context"
	"log/slog"
	"net/http"

	"minisocial/internal/common"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "health check: database unreachable", slog.Any("error", err))
		common.RespondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
