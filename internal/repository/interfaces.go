package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
)

// Patch maps column names to new values. A nil value clears the column.
type Patch map[string]interface{}

// ListOptions controls ordering and paging of ListByOwner.
type ListOptions struct {
	Order  string
	Limit  int
	Offset int
}

type ListOption func(*ListOptions)

const DefaultOrder = "created_at DESC"

// OrderBy overrides the default newest-first ordering. Only "created_at ASC"
// and "created_at DESC" are understood by every store.
func OrderBy(order string) ListOption {
	return func(o *ListOptions) { o.Order = order }
}

func Paginate(limit, offset int) ListOption {
	return func(o *ListOptions) {
		o.Limit = limit
		o.Offset = offset
	}
}

func BuildListOptions(opts []ListOption) ListOptions {
	o := ListOptions{Order: DefaultOrder}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Order == "" {
		o.Order = DefaultOrder
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// OwnedRepository is the ownership-scoped CRUD contract shared by every
// entity that carries a user_id. A row owned by another user is reported as
// ErrNotFound, exactly like a missing row.
type OwnedRepository[T any] interface {
	ListByOwner(ctx context.Context, ownerID string, opts ...ListOption) ([]T, error)
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*T, error)
	Create(ctx context.Context, row *T) error
	UpdateForOwner(ctx context.Context, id, ownerID string, patch Patch) (*T, error)
	DeleteForOwner(ctx context.Context, id, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

type ClientSearch struct {
	Name          string
	Email         string
	ModelInterest string
	MinBudget     *int64
	MaxBudget     *int64
	HasReminder   *bool
}

type BoatSearch struct {
	Brand    string
	Model    string
	Location string
	MinYear  *int
	MaxYear  *int
	MinSize  *int
	MaxSize  *int
	// MinPrice and MaxPrice are whole currency units.
	MinPrice *int64
	MaxPrice *int64
}

type ClientStore interface {
	OwnedRepository[models.Client]
	EmailExists(ctx context.Context, ownerID, email, excludeID string) (bool, error)
	ListWithReminders(ctx context.Context, ownerID string) ([]models.Client, error)
	Search(ctx context.Context, ownerID string, criteria ClientSearch) ([]models.Client, error)
}

type BoatStore interface {
	OwnedRepository[models.Boat]
	AddImages(ctx context.Context, ownerID, boatID string, images []models.Image) (*models.Boat, error)
	ListPrices(ctx context.Context, ownerID string) ([]models.Boat, error)
	Search(ctx context.Context, ownerID string, criteria BoatSearch) ([]models.Boat, error)
	// CountImageRefs counts the owner's image rows that point at url.
	CountImageRefs(ctx context.Context, ownerID, url string) (int64, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	GetOrCreate(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, patch Patch) (*models.User, error)
}

type RefreshTokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindActive(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeByHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Stores bundles every store the services need.
type Stores struct {
	Users         UserStore
	Clients       ClientStore
	Boats         BoatStore
	RefreshTokens RefreshTokenStore
}
