package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

var _ UserStore = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB, timeout time.Duration) *UserRepository {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &UserRepository{db: db, timeout: timeout}
}

func (r *UserRepository) call(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	return run(ctx, r.db, r.timeout, "user", op, fn)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.call(ctx, "get", func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&user).Error
	}); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.call(ctx, "get_by_email", func(db *gorm.DB) error {
		return db.Where("email = ?", email).First(&user).Error
	}); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.call(ctx, "create", func(db *gorm.DB) error {
		return db.Create(user).Error
	})
}

// GetOrCreate returns the user with user.ID, inserting user when absent. A
// concurrent insert of the same id is resolved by re-reading the winner; when
// the conflict was on the email instead, ErrDuplicate is returned.
func (r *UserRepository) GetOrCreate(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := r.GetByID(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := r.Create(ctx, user); err != nil {
		if !errors.Is(err, ErrDuplicate) {
			return nil, err
		}
		winner, rerr := r.GetByID(ctx, user.ID)
		if errors.Is(rerr, ErrNotFound) {
			return nil, err
		}
		return winner, rerr
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch Patch) (*models.User, error) {
	if len(patch) > 0 {
		err := r.call(ctx, "update", func(db *gorm.DB) error {
			res := db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}(patch))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}
