package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"gorm.io/gorm"
)

type BoatRepository struct {
	*Owned[models.Boat]
}

var _ BoatStore = (*BoatRepository)(nil)

func NewBoatRepository(db *gorm.DB, timeout time.Duration) *BoatRepository {
	return &BoatRepository{Owned: NewOwned[models.Boat](db, timeout, "boat", "Images")}
}

// AddImages appends image rows to a boat the owner holds.
func (r *BoatRepository) AddImages(ctx context.Context, ownerID, boatID string, images []models.Image) (*models.Boat, error) {
	if _, err := r.GetByIDForOwner(ctx, boatID, ownerID); err != nil {
		return nil, err
	}
	if len(images) > 0 {
		for i := range images {
			images[i].BoatID = boatID
		}
		err := r.call(ctx, "add_images", func(db *gorm.DB) error {
			return db.Create(&images).Error
		})
		if err != nil {
			return nil, err
		}
	}
	return r.GetByIDForOwner(ctx, boatID, ownerID)
}

func (r *BoatRepository) CountImageRefs(ctx context.Context, ownerID, url string) (int64, error) {
	var n int64
	err := r.call(ctx, "count_image_refs", func(db *gorm.DB) error {
		return db.Model(&models.Image{}).
			Joins("JOIN boats ON boats.id = images.boat_id").
			Where("boats.user_id = ? AND images.url = ?", ownerID, url).
			Count(&n).Error
	})
	return n, err
}

// ListPrices loads only the price columns, for portfolio valuation.
func (r *BoatRepository) ListPrices(ctx context.Context, ownerID string) ([]models.Boat, error) {
	boats := make([]models.Boat, 0)
	err := r.call(ctx, "list_prices", func(db *gorm.DB) error {
		return db.Select("id", "user_id", "price", "price_cents", "currency").
			Scopes(ForOwner(ownerID)).
			Find(&boats).Error
	})
	if err != nil {
		return nil, err
	}
	return boats, nil
}

func (r *BoatRepository) Search(ctx context.Context, ownerID string, criteria BoatSearch) ([]models.Boat, error) {
	boats := make([]models.Boat, 0)
	err := r.call(ctx, "search", func(db *gorm.DB) error {
		q := db.Preload("Images").Scopes(ForOwner(ownerID))
		if criteria.Brand != "" {
			q = q.Where("brand ILIKE ?", contains(criteria.Brand))
		}
		if criteria.Model != "" {
			q = q.Where("model ILIKE ?", contains(criteria.Model))
		}
		if criteria.Location != "" {
			q = q.Where("location ILIKE ?", contains(criteria.Location))
		}
		if criteria.MinYear != nil {
			q = q.Where("year >= ?", *criteria.MinYear)
		}
		if criteria.MaxYear != nil {
			q = q.Where("year <= ?", *criteria.MaxYear)
		}
		if criteria.MinSize != nil {
			q = q.Where("size >= ?", *criteria.MinSize)
		}
		if criteria.MaxSize != nil {
			q = q.Where("size <= ?", *criteria.MaxSize)
		}
		if criteria.MinPrice != nil {
			q = q.Where("price_cents >= ?", *criteria.MinPrice*100)
		}
		if criteria.MaxPrice != nil {
			q = q.Where("price_cents <= ?", *criteria.MaxPrice*100)
		}
		return q.Order(DefaultOrder).Find(&boats).Error
	})
	if err != nil {
		return nil, err
	}
	return boats, nil
}
