package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/identity"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// requestLogger returns slog's default logger tagged with the request and
// owner ids.
func requestLogger(c *fiber.Ctx) *slog.Logger {
	logger := slog.Default()
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		logger = logger.With("request_id", rid)
	}
	if owner, ok := c.Locals("owner_id").(string); ok && owner != "" {
		logger = logger.With("owner_id", owner)
	}
	return logger
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

// respondError maps a service error onto the HTTP taxonomy. Store and
// upstream failures are logged and reported but never echoed to the client.
func respondError(c *fiber.Ctx, operation, entityID string, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: verr.Fields,
		})
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, identity.ErrNoSession):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrNotFoundOrForbidden):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Not found"})
	case errors.Is(err, services.ErrDuplicateEmail), errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, services.ErrUploadRejected):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	}

	status, msg := fiber.StatusServiceUnavailable, services.ErrUpstreamUnavailable.Error()
	if errors.Is(err, services.ErrTimeout) || errors.Is(err, repository.ErrTimeout) {
		status, msg = fiber.StatusGatewayTimeout, services.ErrTimeout.Error()
	}
	logger := requestLogger(c).With("operation", operation)
	if entityID != "" {
		logger = logger.With("entity_id", entityID)
	}
	logger.Error("request failed", "status", status, "error", err)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func session(c *fiber.Ctx) (identity.Session, error) {
	return identity.FromCtx(c)
}

// listOptions reads ?limit, ?offset and ?order=asc.
func listOptions(c *fiber.Ctx) []repository.ListOption {
	var opts []repository.ListOption
	if c.Query("order") == "asc" {
		opts = append(opts, repository.OrderBy("created_at ASC"))
	}
	if limit := c.QueryInt("limit", 0); limit > 0 {
		opts = append(opts, repository.Paginate(limit, c.QueryInt("offset", 0)))
	}
	return opts
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &services.ValidationError{Fields: map[string]string{key: "must be an integer"}}
	}
	return &n, nil
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &services.ValidationError{Fields: map[string]string{key: "must be an integer"}}
	}
	return &n, nil
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &services.ValidationError{Fields: map[string]string{key: "must be true or false"}}
	}
	return &b, nil
}
