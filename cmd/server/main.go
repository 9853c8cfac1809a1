package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/blob"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/config"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/database"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/logging"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository/memory"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/routes"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	stdout := logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	// Relational store
	var (
		db     *gorm.DB
		stores repository.Stores
		pinger handlers.Pinger
	)
	switch cfg.StoreDriver {
	case "memory":
		slog.Warn("using in-memory store; data is lost on restart")
		stores = memory.New().Stores()
	case "postgres":
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required")
			os.Exit(1)
		}
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		stores = repository.NewStores(db, cfg.StoreTimeout)
		pinger = func(ctx context.Context) error { return database.Ping(ctx, db) }
	default:
		slog.Error("unknown STORE_DRIVER", "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	var pgLogHandler *logging.PGHandler
	if db != nil {
		pgLogHandler = logging.NewPGHandler(db)
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))
	}

	// Log and refresh token cleanup (daily)
	cleanupDone := make(chan struct{})
	logging.NewCleaner(db, stores.RefreshTokens).Start(cleanupDone)

	// Blob store
	var blobs blob.Store
	var localBlobs *blob.LocalStore
	switch cfg.BlobBackend {
	case "azure":
		azure, err := blob.NewAzureStore(cfg.AzureStorageAccountURL, cfg.AzureStorageContainer)
		if err != nil {
			slog.Error("azure blob store init failed", "error", err)
			os.Exit(1)
		}
		blobs = azure
	case "local":
		var err error
		localBlobs, err = blob.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			slog.Error("local blob store init failed", "dir", cfg.UploadDir, "error", err)
			os.Exit(1)
		}
		blobs = localBlobs
	default:
		slog.Error("unknown BLOB_BACKEND", "backend", cfg.BlobBackend)
		os.Exit(1)
	}

	loc := cfg.Location()

	// Services
	authService := services.NewAuthService(stores, cfg)
	clientService := services.NewClientService(stores, loc)
	boatService := services.NewBoatService(stores, blobs)
	dashboardService := services.NewDashboardService(stores, loc)
	uploadService := services.NewUploadService(blobs)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    routes.UploadBodyLimit,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	if localBlobs != nil {
		app.Static(cfg.UploadBaseURL, localBlobs.Dir(), fiber.Static{MaxAge: 3600})
	}

	routes.Setup(app, cfg, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Health:    handlers.NewHealthHandler(pinger, cfg.BlobBackend),
		Clients:   handlers.NewClientHandler(clientService),
		Boats:     handlers.NewBoatHandler(boatService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Uploads:   handlers.NewUploadHandler(uploadService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver, "blob", cfg.BlobBackend)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "request_id", c.Locals("requestid"), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
