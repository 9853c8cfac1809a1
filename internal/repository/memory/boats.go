package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
)

type BoatStore struct{ s *Store }

var _ repository.BoatStore = (*BoatStore)(nil)

func (s *Store) Boats() *BoatStore { return &BoatStore{s: s} }

func cloneBoat(b models.Boat) models.Boat {
	if b.Images != nil {
		b.Images = append([]models.Image(nil), b.Images...)
	} else {
		b.Images = []models.Image{}
	}
	return b
}

func (bs *BoatStore) collectLocked(ownerID, order string, keep func(models.Boat) bool) []models.Boat {
	rows := make([]row[models.Boat], 0)
	for _, r := range bs.s.boats {
		if r.val.UserID == ownerID && keep(r.val) {
			rows = append(rows, r)
		}
	}
	sortRows(rows, func(b models.Boat) time.Time { return b.CreatedAt }, order)
	out := make([]models.Boat, len(rows))
	for i, r := range rows {
		out[i] = cloneBoat(r.val)
	}
	return out
}

func (bs *BoatStore) ListByOwner(ctx context.Context, ownerID string, opts ...repository.ListOption) ([]models.Boat, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	o := repository.BuildListOptions(opts)

	bs.s.mu.RLock()
	defer bs.s.mu.RUnlock()
	return page(bs.collectLocked(ownerID, o.Order, func(models.Boat) bool { return true }), o), nil
}

func (bs *BoatStore) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Boat, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	bs.s.mu.RLock()
	defer bs.s.mu.RUnlock()

	r, ok := bs.s.boats[id]
	if !ok || r.val.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	b := cloneBoat(r.val)
	return &b, nil
}

func (bs *BoatStore) Create(ctx context.Context, b *models.Boat) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	bs.s.mu.Lock()
	defer bs.s.mu.Unlock()

	if _, ok := bs.s.users[b.UserID]; !ok {
		return fmt.Errorf("%w: user %s does not exist", repository.ErrUnavailable, b.UserID)
	}
	if b.ID == "" {
		b.ID = newID()
	}
	if _, exists := bs.s.boats[b.ID]; exists {
		return repository.ErrDuplicate
	}

	now := bs.s.now()
	b.CreatedAt = now
	b.UpdatedAt = now
	for i := range b.Images {
		if b.Images[i].ID == "" {
			b.Images[i].ID = newID()
		}
		b.Images[i].BoatID = b.ID
		b.Images[i].CreatedAt = now
	}
	bs.s.boats[b.ID] = row[models.Boat]{seq: bs.s.nextSeqLocked(), val: cloneBoat(*b)}
	return nil
}

func (bs *BoatStore) UpdateForOwner(ctx context.Context, id, ownerID string, patch repository.Patch) (*models.Boat, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	bs.s.mu.Lock()
	defer bs.s.mu.Unlock()

	r, ok := bs.s.boats[id]
	if !ok || r.val.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	updated := cloneBoat(r.val)
	if len(patch) == 0 {
		return &updated, nil
	}
	if err := applyBoatPatch(&updated, patch); err != nil {
		return nil, err
	}
	updated.UpdatedAt = bs.s.now()
	r.val = updated
	bs.s.boats[id] = r
	out := cloneBoat(updated)
	return &out, nil
}

func applyBoatPatch(b *models.Boat, patch repository.Patch) error {
	for col, v := range patch {
		var err error
		switch col {
		case "brand":
			b.Brand, err = patchStringPtr(v)
		case "model":
			b.Model, err = patchStringPtr(v)
		case "year":
			b.Year, err = patchIntPtr(v)
		case "size":
			b.Size, err = patchIntPtr(v)
		case "price":
			b.Price, err = patchStringPtr(v)
		case "price_cents":
			b.PriceCents, err = patchInt64Ptr(v)
		case "currency":
			b.Currency, err = patchStringPtr(v)
		case "location":
			b.Location, err = patchStringPtr(v)
		case "description":
			b.Description, err = patchStringPtr(v)
		case "equipment":
			b.Equipment, err = patchStringPtr(v)
		case "owner":
			b.Owner, err = patchStringPtr(v)
		case "engine":
			b.Engine, err = patchStringPtr(v)
		case "engine_hours":
			b.EngineHours, err = patchIntPtr(v)
		default:
			err = fmt.Errorf("memory: unknown boat column %q", col)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (bs *BoatStore) DeleteForOwner(ctx context.Context, id, ownerID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	bs.s.mu.Lock()
	defer bs.s.mu.Unlock()

	r, ok := bs.s.boats[id]
	if !ok || r.val.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(bs.s.boats, id)
	return nil
}

func (bs *BoatStore) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	bs.s.mu.RLock()
	defer bs.s.mu.RUnlock()

	var n int64
	for _, r := range bs.s.boats {
		if r.val.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (bs *BoatStore) AddImages(ctx context.Context, ownerID, boatID string, images []models.Image) (*models.Boat, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	bs.s.mu.Lock()
	defer bs.s.mu.Unlock()

	r, ok := bs.s.boats[boatID]
	if !ok || r.val.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	now := bs.s.now()
	updated := cloneBoat(r.val)
	for _, img := range images {
		if img.ID == "" {
			img.ID = newID()
		}
		img.BoatID = boatID
		img.CreatedAt = now
		updated.Images = append(updated.Images, img)
	}
	r.val = updated
	bs.s.boats[boatID] = r
	out := cloneBoat(updated)
	return &out, nil
}

func (bs *BoatStore) CountImageRefs(ctx context.Context, ownerID, url string) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	bs.s.mu.RLock()
	defer bs.s.mu.RUnlock()

	var n int64
	for _, r := range bs.s.boats {
		if r.val.UserID != ownerID {
			continue
		}
		for _, img := range r.val.Images {
			if img.URL == url {
				n++
			}
		}
	}
	return n, nil
}

func (bs *BoatStore) ListPrices(ctx context.Context, ownerID string) ([]models.Boat, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	bs.s.mu.RLock()
	defer bs.s.mu.RUnlock()

	boats := bs.collectLocked(ownerID, repository.DefaultOrder, func(models.Boat) bool { return true })
	out := make([]models.Boat, len(boats))
	for i, b := range boats {
		out[i] = models.Boat{ID: b.ID, UserID: b.UserID, Price: b.Price, PriceCents: b.PriceCents, Currency: b.Currency}
	}
	return out, nil
}

func (bs *BoatStore) Search(ctx context.Context, ownerID string, criteria repository.BoatSearch) ([]models.Boat, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	bs.s.mu.RLock()
	defer bs.s.mu.RUnlock()

	return bs.collectLocked(ownerID, repository.DefaultOrder, func(b models.Boat) bool {
		if !containsFold(b.Brand, criteria.Brand) || !containsFold(b.Model, criteria.Model) ||
			!containsFold(b.Location, criteria.Location) {
			return false
		}
		if !intInRange(b.Year, criteria.MinYear, criteria.MaxYear) || !intInRange(b.Size, criteria.MinSize, criteria.MaxSize) {
			return false
		}
		if criteria.MinPrice != nil && (b.PriceCents == nil || *b.PriceCents < *criteria.MinPrice*100) {
			return false
		}
		if criteria.MaxPrice != nil && (b.PriceCents == nil || *b.PriceCents > *criteria.MaxPrice*100) {
			return false
		}
		return true
	}), nil
}

func intInRange(v, lo, hi *int) bool {
	if lo == nil && hi == nil {
		return true
	}
	if v == nil {
		return false
	}
	if lo != nil && *v < *lo {
		return false
	}
	if hi != nil && *v > *hi {
		return false
	}
	return true
}
