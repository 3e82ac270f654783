package handler

import (
	"context"
	"time"

	"skillproof/internal/database"
	"skillproof/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    database.DB
	cache Pinger
}

func NewHealthHandler(db database.DB, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	healthy := true
	if h.db == nil || h.db.Ping(ctx) != nil {
		dbStatus = "unavailable"
		healthy = false
	}

	// cache outage degrades listing performance but does not fail health
	cacheStatus := "ok"
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		cacheStatus = "unavailable"
	}

	data := map[string]any{
		"database": dbStatus,
		"cache":    cacheStatus,
	}
	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
