package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	store Pinger
	blob  string
}

// NewHealthHandler takes the store pinger (nil for the in-memory store) and
// the name of the blob backend.
func NewHealthHandler(store Pinger, blobBackend string) *HealthHandler {
	return &HealthHandler{store: store, blob: blobBackend}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, storeStatus := "ok", "memory"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		storeStatus = "ok"
		if err := h.store(ctx); err != nil {
			requestLogger(c).Error("health check failed", "operation", "health", "error", err)
			status, storeStatus = "degraded", "unhealthy"
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Store:     storeStatus,
		Blob:      h.blob,
	})
}
