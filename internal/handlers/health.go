package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"csdash/internal/tagger"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness for load balancers and operators.
type HealthHandler struct {
	db    Pinger // nil when running without a database
	vocab *tagger.Holder
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(database Pinger, vocab *tagger.Holder) *HealthHandler {
	return &HealthHandler{db: database, vocab: vocab}
}

// Check returns the service status as JSON. A degraded vocabulary keeps the
// service up; an unreachable database does not.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	snap := h.vocab.Current()
	body := fiber.Map{
		"status":   "ok",
		"keywords": len(snap.Vocabulary),
		"degraded": snap.Degraded,
		"database": "disabled",
	}

	status := fiber.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			body["status"] = "error"
			body["database"] = err.Error()
			status = fiber.StatusServiceUnavailable
		} else {
			body["database"] = "ok"
		}
	}

	return c.Status(status).JSON(body)
}
