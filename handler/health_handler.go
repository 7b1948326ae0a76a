package handler

import (
	"context"
	"fmt"
	"log/slog"

	"review-processor/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler implementation.
type healthHandler struct {
	pool     *pgxpool.Pool
	upstream config.UpstreamConfig
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pool *pgxpool.Pool, upstream config.UpstreamConfig, logger *slog.Logger) HealthHandler {
	return &healthHandler{
		pool:     pool,
		upstream: upstream,
		logger:   logger,
	}
}

// CheckHealth checks the health of the service.
func (h *healthHandler) CheckHealth(ctx context.Context) error {
	h.logger.Info("performing health check")
	return nil
}

// CheckDependencies checks the health of external dependencies.
func (h *healthHandler) CheckDependencies(ctx context.Context) error {
	h.logger.Info("checking dependencies health")

	if h.pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	if err := h.pool.Ping(ctx); err != nil {
		h.logger.Error("database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	if !h.upstream.HasCredentials() {
		h.logger.Warn("upstream credentials missing, submissions will fail until configured")
	}

	h.logger.Info("all dependencies are healthy")

	return nil
}
