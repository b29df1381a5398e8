package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/prefkeeper/pkg/api"
)

// healthTimeout ограничение на проверку хранилища
const healthTimeout = 2 * time.Second

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger    *slog.Logger
	pinger    Pinger
	replicaID string
	storage   string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, pinger Pinger, replicaID, storageDriver string) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		pinger:    pinger,
		replicaID: replicaID,
		storage:   storageDriver,
	}
}

// Health обрабатывает GET /api/v1/health.
// 503, если хранилище недоступно.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := api.HealthResponse{
		Status:    "ok",
		ReplicaID: h.replicaID,
		Storage:   h.storage,
	}
	status := http.StatusOK

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Error("storage health check failed", slog.Any("error", err))
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	sendJSON(w, h.logger, resp, status)
}
