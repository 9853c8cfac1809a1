package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
)

type ClientStore struct{ s *Store }

var _ repository.ClientStore = (*ClientStore)(nil)

func (s *Store) Clients() *ClientStore { return &ClientStore{s: s} }

func (cs *ClientStore) ListByOwner(ctx context.Context, ownerID string, opts ...repository.ListOption) ([]models.Client, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	o := repository.BuildListOptions(opts)

	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()
	return page(cs.collectLocked(ownerID, o.Order, func(models.Client) bool { return true }), o), nil
}

func (cs *ClientStore) collectLocked(ownerID, order string, keep func(models.Client) bool) []models.Client {
	rows := make([]row[models.Client], 0)
	for _, r := range cs.s.clients {
		if r.val.UserID == ownerID && keep(r.val) {
			rows = append(rows, r)
		}
	}
	sortRows(rows, func(c models.Client) time.Time { return c.CreatedAt }, order)
	out := make([]models.Client, len(rows))
	for i, r := range rows {
		out[i] = r.val
	}
	return out
}

func (cs *ClientStore) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Client, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	r, ok := cs.s.clients[id]
	if !ok || r.val.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	c := r.val
	return &c, nil
}

func (cs *ClientStore) Create(ctx context.Context, c *models.Client) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	if _, ok := cs.s.users[c.UserID]; !ok {
		return fmt.Errorf("%w: user %s does not exist", repository.ErrUnavailable, c.UserID)
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if _, exists := cs.s.clients[c.ID]; exists {
		return repository.ErrDuplicate
	}
	if cs.emailTakenLocked(c.UserID, c.Email, "") {
		return repository.ErrDuplicate
	}

	now := cs.s.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	cs.s.clients[c.ID] = row[models.Client]{seq: cs.s.nextSeqLocked(), val: *c}
	return nil
}

func (cs *ClientStore) emailTakenLocked(ownerID, email, excludeID string) bool {
	for id, r := range cs.s.clients {
		if id != excludeID && r.val.UserID == ownerID && r.val.Email == email {
			return true
		}
	}
	return false
}

func (cs *ClientStore) UpdateForOwner(ctx context.Context, id, ownerID string, patch repository.Patch) (*models.Client, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	r, ok := cs.s.clients[id]
	if !ok || r.val.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	if len(patch) == 0 {
		c := r.val
		return &c, nil
	}

	updated := r.val
	if err := applyClientPatch(&updated, patch); err != nil {
		return nil, err
	}
	if updated.Email != r.val.Email && cs.emailTakenLocked(ownerID, updated.Email, id) {
		return nil, repository.ErrDuplicate
	}
	updated.UpdatedAt = cs.s.now()
	r.val = updated
	cs.s.clients[id] = r
	return &updated, nil
}

func applyClientPatch(c *models.Client, patch repository.Patch) error {
	for col, v := range patch {
		var err error
		switch col {
		case "name":
			c.Name, err = patchString(v)
		case "email":
			c.Email, err = patchString(v)
		case "phone":
			c.Phone, err = patchStringPtr(v)
		case "state":
			c.State, err = patchStringPtr(v)
		case "model_interest":
			c.ModelInterest, err = patchStringPtr(v)
		case "budget":
			c.Budget, err = patchInt64Ptr(v)
		case "communication":
			c.Communication, err = patchStringPtr(v)
		case "to_contact":
			c.ToContact, err = patchTimePtr(v)
		case "to_contact_text":
			c.ToContactText, err = patchStringPtr(v)
		default:
			err = fmt.Errorf("memory: unknown client column %q", col)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (cs *ClientStore) DeleteForOwner(ctx context.Context, id, ownerID string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	r, ok := cs.s.clients[id]
	if !ok || r.val.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(cs.s.clients, id)
	return nil
}

func (cs *ClientStore) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	var n int64
	for _, r := range cs.s.clients {
		if r.val.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (cs *ClientStore) EmailExists(ctx context.Context, ownerID, email, excludeID string) (bool, error) {
	if err := checkCtx(ctx); err != nil {
		return false, err
	}
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()
	return cs.emailTakenLocked(ownerID, email, excludeID), nil
}

func (cs *ClientStore) ListWithReminders(ctx context.Context, ownerID string) ([]models.Client, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	out := cs.collectLocked(ownerID, repository.DefaultOrder, func(c models.Client) bool { return c.ToContact != nil })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ToContact.Before(*out[j].ToContact) })
	return out, nil
}

func (cs *ClientStore) Search(ctx context.Context, ownerID string, criteria repository.ClientSearch) ([]models.Client, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	return cs.collectLocked(ownerID, repository.DefaultOrder, func(c models.Client) bool {
		if !containsFold(&c.Name, criteria.Name) || !containsFold(&c.Email, criteria.Email) ||
			!containsFold(c.ModelInterest, criteria.ModelInterest) {
			return false
		}
		if criteria.MinBudget != nil && (c.Budget == nil || *c.Budget < *criteria.MinBudget) {
			return false
		}
		if criteria.MaxBudget != nil && (c.Budget == nil || *c.Budget > *criteria.MaxBudget) {
			return false
		}
		if criteria.HasReminder != nil && *criteria.HasReminder != (c.ToContact != nil) {
			return false
		}
		return true
	}), nil
}
