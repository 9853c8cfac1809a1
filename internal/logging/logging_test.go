package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository/memory"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSystemLog_MapsKnownAttrs(t *testing.T) {
	record := slog.NewRecord(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), slog.LevelError, "store call failed", 0)
	record.AddAttrs(
		slog.String("owner_id", "user-1"),
		slog.String("entity_id", "client-9"),
		slog.String("operation", "update_client"),
		slog.String("error", "store unavailable: connection refused"),
		slog.Float64("latency_ms", 12.6),
		slog.String("route", "/api/clients/:id"),
	)

	entry := toSystemLog(record, []slog.Attr{slog.String("request_id", "req-1")})

	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "store call failed", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	require.NotNil(t, entry.OwnerID)
	assert.Equal(t, "user-1", *entry.OwnerID)
	require.NotNil(t, entry.EntityID)
	assert.Equal(t, "client-9", *entry.EntityID)
	assert.Equal(t, "update_client", entry.Operation)
	assert.Equal(t, 13, entry.LatencyMs)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, map[string]interface{}{"route": "/api/clients/:id"}, extra)
}

func TestToSystemLog_CopiesBorrowedStrings(t *testing.T) {
	buf := []byte("client-AAAA")
	record := slog.NewRecord(time.Now(), slog.LevelError, "lookup failed", 0)
	record.AddAttrs(slog.String("entity_id", utils.UnsafeString(buf)))

	entry := toSystemLog(record, nil)
	copy(buf, "client-BBBB")

	require.NotNil(t, entry.EntityID)
	assert.Equal(t, "client-AAAA", *entry.EntityID)
}

func TestPGHandler_KeepsRouteParamsPerRequest(t *testing.T) {
	sink := &pgSink{buffer: make([]models.SystemLog, 0, pgBatchSize)}
	logger := slog.New(&PGHandler{sink: sink})

	app := fiber.New()
	app.Get("/clients/:id", func(c *fiber.Ctx) error {
		logger.Error("client lookup failed",
			"operation", "get_client",
			"entity_id", c.Params("id"),
			"request_id", c.Get("X-Request-ID"),
		)
		return c.SendStatus(fiber.StatusServiceUnavailable)
	})

	ids := []string{"AAAAAAAAAAAAAAAA", "BBBBBBBBBBBBBBBB", "CCCCCCCCCCCCCCCC"}
	for _, id := range ids {
		req := httptest.NewRequest(http.MethodGet, "/clients/"+id, nil)
		req.Header.Set("X-Request-ID", "req-"+id)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.buffer, len(ids))
	for i, id := range ids {
		require.NotNil(t, sink.buffer[i].EntityID)
		assert.Equal(t, id, *sink.buffer[i].EntityID)
		assert.Equal(t, "req-"+id, sink.buffer[i].RequestID)
	}
}

func TestPGHandler_OnlyErrors(t *testing.T) {
	h := &PGHandler{}
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var info, errs bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h).With("request_id", "req-7")

	logger.Info("hello")
	logger.Error("boom")

	assert.Contains(t, info.String(), `"msg":"hello"`)
	assert.Contains(t, info.String(), `"msg":"boom"`)
	assert.NotContains(t, errs.String(), "hello")
	assert.Contains(t, errs.String(), `"request_id":"req-7"`)
}

func TestCleaner_RemovesDeadRefreshTokens(t *testing.T) {
	stores := memory.New().Stores()
	ctx := context.Background()
	_, err := stores.Users.GetOrCreate(ctx, &models.User{ID: "u", Email: "u@example.com"})
	require.NoError(t, err)
	require.NoError(t, stores.RefreshTokens.Create(ctx, &models.RefreshToken{UserID: "u", TokenHash: "expired", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, stores.RefreshTokens.Create(ctx, &models.RefreshToken{UserID: "u", TokenHash: "valid", ExpiresAt: time.Now().Add(time.Hour)}))

	NewCleaner(nil, stores.RefreshTokens).RunOnce(ctx)

	_, err = stores.RefreshTokens.FindActive(ctx, "valid")
	assert.NoError(t, err)
	n, err := stores.RefreshTokens.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
