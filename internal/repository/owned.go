package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/metrics"
	"gorm.io/gorm"
)

// DefaultTimeout bounds every store call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Owned is the GORM implementation of OwnedRepository. Typed repositories
// embed it and add entity specific queries.
type Owned[T any] struct {
	db       *gorm.DB
	timeout  time.Duration
	entity   string
	preloads []string
}

func NewOwned[T any](db *gorm.DB, timeout time.Duration, entity string, preloads ...string) *Owned[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Owned[T]{db: db, timeout: timeout, entity: entity, preloads: preloads}
}

var _ OwnedRepository[struct{}] = (*Owned[struct{}])(nil)

// call runs fn under the store timeout, translates its error and records
// the outcome.
func (r *Owned[T]) call(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	return run(ctx, r.db, r.timeout, r.entity, op, fn)
}

func run(ctx context.Context, db *gorm.DB, timeout time.Duration, entity, op string, fn func(db *gorm.DB) error) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(db.WithContext(ctx))
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	err = translate(err)
	metrics.ObserveStore(entity, op, outcome(err), start)
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}

func (r *Owned[T]) withPreloads(db *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		db = db.Preload(p)
	}
	return db
}

func (r *Owned[T]) ListByOwner(ctx context.Context, ownerID string, opts ...ListOption) ([]T, error) {
	o := BuildListOptions(opts)
	rows := make([]T, 0)
	err := r.call(ctx, "list", func(db *gorm.DB) error {
		q := r.withPreloads(db).Scopes(ForOwner(ownerID)).Order(o.Order)
		if o.Limit > 0 {
			q = q.Limit(o.Limit).Offset(o.Offset)
		}
		return q.Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Owned[T]) GetByIDForOwner(ctx context.Context, id, ownerID string) (*T, error) {
	var row T
	err := r.call(ctx, "get", func(db *gorm.DB) error {
		return r.withPreloads(db).Scopes(ForOwner(ownerID)).Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Owned[T]) Create(ctx context.Context, row *T) error {
	return r.call(ctx, "create", func(db *gorm.DB) error {
		return db.Create(row).Error
	})
}

// UpdateForOwner checks ownership first, then applies the patch with an
// UPDATE that is itself scoped by id and owner. A row deleted between the two
// statements yields ErrNotFound rather than a raw store error.
func (r *Owned[T]) UpdateForOwner(ctx context.Context, id, ownerID string, patch Patch) (*T, error) {
	existing, err := r.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return existing, nil
	}

	err = r.call(ctx, "update", func(db *gorm.DB) error {
		res := db.Model(new(T)).Scopes(ForOwner(ownerID)).Where("id = ?", id).Updates(map[string]interface{}(patch))
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
	return r.GetByIDForOwner(ctx, id, ownerID)
}

func (r *Owned[T]) DeleteForOwner(ctx context.Context, id, ownerID string) error {
	if _, err := r.GetByIDForOwner(ctx, id, ownerID); err != nil {
		return err
	}
	return r.call(ctx, "delete", func(db *gorm.DB) error {
		res := db.Scopes(ForOwner(ownerID)).Where("id = ?", id).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Owned[T]) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.call(ctx, "count", func(db *gorm.DB) error {
		return db.Model(new(T)).Scopes(ForOwner(ownerID)).Count(&n).Error
	})
	return n, err
}
