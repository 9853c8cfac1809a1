package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/config"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	jsonBodyLimit   = 4 * 1024 * 1024
	UploadBodyLimit = 50 * 1024 * 1024
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Clients   *handlers.ClientHandler
	Boats     *handlers.BoatHandler
	Dashboard *handlers.DashboardHandler
	Uploads   *handlers.UploadHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	app.Get("/metrics", middleware.AdminToken(cfg.AdminToken), adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP
	auth := api.Group("/auth", middleware.BodyLimit(jsonBodyLimit))
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	protect := middleware.JWTProtected(cfg)

	// Multipart uploads get the app-wide limit instead of the JSON one.
	api.Post("/uploads/images", protect, h.Uploads.Images)

	protected := api.Group("", protect, middleware.BodyLimit(jsonBodyLimit))
	protected.Post("/auth/logout", h.Auth.Logout)
	protected.Get("/me", h.Auth.Me)

	clients := protected.Group("/clients")
	clients.Get("/", h.Clients.List)
	clients.Post("/", h.Clients.Create)
	clients.Get("/search", h.Clients.Search)
	clients.Get("/:id", h.Clients.Get)
	clients.Put("/:id", h.Clients.Update)
	clients.Delete("/:id", h.Clients.Delete)
	clients.Put("/:id/reminder", h.Clients.SetReminder)
	clients.Delete("/:id/reminder", h.Clients.ClearReminder)

	protected.Get("/reminders", h.Dashboard.Reminders)

	boats := protected.Group("/boats")
	boats.Get("/", h.Boats.List)
	boats.Post("/", h.Boats.Create)
	boats.Get("/search", h.Boats.Search)
	boats.Get("/:id", h.Boats.Get)
	boats.Put("/:id", h.Boats.Update)
	boats.Delete("/:id", h.Boats.Delete)
	boats.Post("/:id/images", h.Boats.AddImages)

	protected.Get("/dashboard", h.Dashboard.Dashboard)
	protected.Get("/dashboard/stats", h.Dashboard.Stats)
}
