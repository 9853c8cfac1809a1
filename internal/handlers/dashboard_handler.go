package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, now: time.Now}
}

func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "dashboard", "", err)
	}
	resp, err := h.dashboardService.GetDashboard(c.UserContext(), s.UserID, h.now())
	if err != nil {
		return respondError(c, "dashboard", "", err)
	}
	return c.JSON(resp)
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "dashboard_stats", "", err)
	}
	stats, err := h.dashboardService.GetDashboardStats(c.UserContext(), s.UserID, h.now())
	if err != nil {
		return respondError(c, "dashboard_stats", "", err)
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) Reminders(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return respondError(c, "list_reminders", "", err)
	}
	buckets, err := h.dashboardService.GetReminderBuckets(c.UserContext(), s.UserID, h.now())
	if err != nil {
		return respondError(c, "list_reminders", "", err)
	}
	return c.JSON(dto.RemindersResponse{Buckets: buckets, Total: buckets.Total()})
}
