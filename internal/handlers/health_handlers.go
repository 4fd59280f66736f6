package handlers

import (
	"context"
	"net/http"
	"time"

	"carehq/internal/caching"
	"carehq/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const probeTimeout = 3 * time.Second

// HealthHandlers exposes liveness and readiness probes.
type HealthHandlers struct {
	pool     *pgxpool.Pool
	cacheSvc caching.CacheService
	storage  services.StorageService
}

func NewHealthHandlers(pool *pgxpool.Pool, cacheSvc caching.CacheService, storage services.StorageService) *HealthHandlers {
	return &HealthHandlers{
		pool:     pool,
		cacheSvc: cacheSvc,
		storage:  storage,
	}
}

// Live handles GET /health/live. The process answering is the check.
func (h *HealthHandlers) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready, probing each backing dependency with a
// short deadline.
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
		"storage":  "ok",
	}
	healthy := true

	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := h.cacheSvc.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}
	if err := h.storage.Healthy(ctx); err != nil {
		checks["storage"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]interface{}{
		"healthy": healthy,
		"checks":  checks,
	})
}
