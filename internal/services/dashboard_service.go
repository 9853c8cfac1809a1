package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/pricing"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/reminders"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	clients repository.ClientStore
	boats   repository.BoatStore
	loc     *time.Location
}

// NewDashboardService builds the service. Reminder buckets are computed on
// calendar days in loc.
func NewDashboardService(stores repository.Stores, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{clients: stores.Clients, boats: stores.Boats, loc: loc}
}

type dashboardData struct {
	clientCount int64
	boatCount   int64
	prices      []models.Boat
	withDates   []models.Client
}

// load runs the four independent reads concurrently.
func (s *DashboardService) load(ctx context.Context, ownerID string) (*dashboardData, error) {
	var d dashboardData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.clients.CountByOwner(ctx, ownerID)
		d.clientCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.boats.CountByOwner(ctx, ownerID)
		d.boatCount = n
		return err
	})
	g.Go(func() error {
		boats, err := s.boats.ListPrices(ctx, ownerID)
		d.prices = boats
		return err
	})
	g.Go(func() error {
		clients, err := s.clients.ListWithReminders(ctx, ownerID)
		d.withDates = clients
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr(err)
	}
	return &d, nil
}

func (s *DashboardService) GetDashboardStats(ctx context.Context, ownerID string, now time.Time) (*dto.DashboardStats, error) {
	d, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	stats := s.stats(d, reminders.Categorize(d.withDates, now.In(s.loc)))
	return &stats, nil
}

func (s *DashboardService) GetReminderBuckets(ctx context.Context, ownerID string, now time.Time) (reminders.Buckets, error) {
	clients, err := s.clients.ListWithReminders(ctx, ownerID)
	if err != nil {
		return reminders.Buckets{}, storeErr(err)
	}
	return reminders.Categorize(clients, now.In(s.loc)), nil
}

func (s *DashboardService) GetDashboard(ctx context.Context, ownerID string, now time.Time) (*dto.DashboardResponse, error) {
	d, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	buckets := reminders.Categorize(d.withDates, now.In(s.loc))
	return &dto.DashboardResponse{
		Stats:     s.stats(d, buckets),
		Reminders: buckets,
		Priority:  reminders.PriorityList(buckets, reminders.DashboardLimit),
	}, nil
}

func (s *DashboardService) stats(d *dashboardData, buckets reminders.Buckets) dto.DashboardStats {
	return dto.DashboardStats{
		ClientCount:          d.clientCount,
		BoatCount:            d.boatCount,
		PortfolioValue:       pricing.PortfolioValue(d.prices),
		TotalActiveReminders: buckets.Total(),
	}
}
