package dto

import "github.com/ahmetcoskunkizilkaya/broker-crm/internal/reminders"

type DashboardStats struct {
	ClientCount          int64 `json:"client_count"`
	BoatCount            int64 `json:"boat_count"`
	PortfolioValue       int64 `json:"portfolio_value"`
	TotalActiveReminders int   `json:"total_active_reminders"`
}

type RemindersResponse struct {
	reminders.Buckets
	Total int `json:"total"`
}

type DashboardResponse struct {
	Stats     DashboardStats               `json:"stats"`
	Reminders reminders.Buckets            `json:"reminders"`
	Priority  []reminders.PriorityReminder `json:"priority"`
}
