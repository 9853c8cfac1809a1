package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"gorm.io/gorm"
)

type ClientRepository struct {
	*Owned[models.Client]
}

var _ ClientStore = (*ClientRepository)(nil)

func NewClientRepository(db *gorm.DB, timeout time.Duration) *ClientRepository {
	return &ClientRepository{Owned: NewOwned[models.Client](db, timeout, "client")}
}

func (r *ClientRepository) EmailExists(ctx context.Context, ownerID, email, excludeID string) (bool, error) {
	var n int64
	err := r.call(ctx, "email_exists", func(db *gorm.DB) error {
		q := db.Model(&models.Client{}).Scopes(ForOwner(ownerID)).Where("email = ?", email)
		if excludeID != "" {
			q = q.Where("id <> ?", excludeID)
		}
		return q.Count(&n).Error
	})
	return n > 0, err
}

func (r *ClientRepository) ListWithReminders(ctx context.Context, ownerID string) ([]models.Client, error) {
	clients := make([]models.Client, 0)
	err := r.call(ctx, "list_reminders", func(db *gorm.DB) error {
		return db.Scopes(ForOwner(ownerID)).
			Where("to_contact IS NOT NULL").
			Order("to_contact ASC").
			Find(&clients).Error
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) Search(ctx context.Context, ownerID string, criteria ClientSearch) ([]models.Client, error) {
	clients := make([]models.Client, 0)
	err := r.call(ctx, "search", func(db *gorm.DB) error {
		q := db.Scopes(ForOwner(ownerID))
		if criteria.Name != "" {
			q = q.Where("name ILIKE ?", contains(criteria.Name))
		}
		if criteria.Email != "" {
			q = q.Where("email ILIKE ?", contains(criteria.Email))
		}
		if criteria.ModelInterest != "" {
			q = q.Where("model_interest ILIKE ?", contains(criteria.ModelInterest))
		}
		if criteria.MinBudget != nil {
			q = q.Where("budget >= ?", *criteria.MinBudget)
		}
		if criteria.MaxBudget != nil {
			q = q.Where("budget <= ?", *criteria.MaxBudget)
		}
		if criteria.HasReminder != nil {
			if *criteria.HasReminder {
				q = q.Where("to_contact IS NOT NULL")
			} else {
				q = q.Where("to_contact IS NULL")
			}
		}
		return q.Order(DefaultOrder).Find(&clients).Error
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}
