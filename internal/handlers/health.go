package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by every backing service health can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	database Pinger
	cache    Pinger
}

// NewHealthHandler builds the health handler. cache may be nil when Redis
// is not configured.
func NewHealthHandler(database, cache Pinger) *HealthHandler {
	return &HealthHandler{database: database, cache: cache}
}

func (h *HealthHandler) Banner(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "FRAUDGEN API is running"})
}

// HealthCheck reports 503 when the database is unreachable. The cache is
// optional and never fails the check.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	status := fiber.StatusOK
	services := fiber.Map{
		"database": "connected",
		"redis":    "disabled",
	}

	if h.database != nil {
		if err := h.database.Ping(ctx); err != nil {
			services["database"] = "disconnected"
			status = fiber.StatusServiceUnavailable
		}
	}
	if h.cache != nil {
		services["redis"] = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			services["redis"] = "disconnected"
		}
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   state,
		"version":  "1.0.0",
		"services": services,
	})
}
