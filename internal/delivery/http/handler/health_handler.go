package handler

import (
	"context"
	"time"

	"jobscout/internal/pkg/response"
	"jobscout/internal/scheduler"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness plus the state of the dependencies the
// service cannot work without. The cache is optional, so a failing cache
// ping degrades the report without failing it.
type HealthHandler struct {
	db     Pinger
	cache  Pinger
	states func() map[string]scheduler.State
}

func NewHealthHandler(db, cache Pinger, states func() map[string]scheduler.State) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, states: states}
}

func (h *HealthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}
	app.Get("/healthz", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error"
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["cache"] = "bypassed"
		} else {
			checks["cache"] = "ok"
		}
	}

	data := map[string]any{"checks": checks}
	if h.states != nil {
		data["tasks"] = h.states()
	}

	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", data)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
