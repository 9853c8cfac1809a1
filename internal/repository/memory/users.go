package memory

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
)

type UserStore struct{ s *Store }

var _ repository.UserStore = (*UserStore)(nil)

func (s *Store) Users() *UserStore { return &UserStore{s: s} }

func (us *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	u, ok := us.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (us *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	for _, u := range us.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (us *UserStore) Create(ctx context.Context, user *models.User) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	return us.createLocked(user)
}

func (us *UserStore) createLocked(user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if _, exists := us.s.users[user.ID]; exists {
		return repository.ErrDuplicate
	}
	for _, u := range us.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.Role == "" {
		user.Role = models.RoleBroker
	}
	now := us.s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	us.s.users[user.ID] = *user
	return nil
}

func (us *UserStore) GetOrCreate(ctx context.Context, user *models.User) (*models.User, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	if u, ok := us.s.users[user.ID]; ok {
		return &u, nil
	}
	if err := us.createLocked(user); err != nil {
		return nil, err
	}
	created := *user
	return &created, nil
}

func (us *UserStore) Update(ctx context.Context, id string, patch repository.Patch) (*models.User, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	u, ok := us.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for col, v := range patch {
		var err error
		switch col {
		case "email":
			u.Email, err = patchString(v)
		case "name":
			u.Name, err = patchStringPtr(v)
		case "company":
			u.Company, err = patchStringPtr(v)
		case "phone":
			u.Phone, err = patchStringPtr(v)
		case "role":
			u.Role, err = patchString(v)
		case "is_active":
			u.IsActive, err = patchBool(v)
		case "password":
			u.Password, err = patchString(v)
		}
		if err != nil {
			return nil, err
		}
	}
	u.UpdatedAt = us.s.now()
	us.s.users[id] = u
	return &u, nil
}

type RefreshTokenStore struct{ s *Store }

var _ repository.RefreshTokenStore = (*RefreshTokenStore)(nil)

func (s *Store) RefreshTokens() *RefreshTokenStore { return &RefreshTokenStore{s: s} }

func (ts *RefreshTokenStore) Create(ctx context.Context, token *models.RefreshToken) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	if token.ID == "" {
		token.ID = newID()
	}
	for _, t := range ts.s.refreshTokens {
		if t.TokenHash == token.TokenHash {
			return repository.ErrDuplicate
		}
	}
	token.CreatedAt = ts.s.now()
	ts.s.refreshTokens[token.ID] = *token
	return nil
}

func (ts *RefreshTokenStore) FindActive(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	ts.s.mu.RLock()
	defer ts.s.mu.RUnlock()

	for _, t := range ts.s.refreshTokens {
		if t.TokenHash == tokenHash && !t.Revoked {
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (ts *RefreshTokenStore) Revoke(ctx context.Context, id string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	if t, ok := ts.s.refreshTokens[id]; ok {
		t.Revoked = true
		ts.s.refreshTokens[id] = t
	}
	return nil
}

func (ts *RefreshTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	for id, t := range ts.s.refreshTokens {
		if t.TokenHash == tokenHash {
			t.Revoked = true
			ts.s.refreshTokens[id] = t
		}
	}
	return nil
}

func (ts *RefreshTokenStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	var n int64
	for id, t := range ts.s.refreshTokens {
		if t.Revoked || t.ExpiresAt.Before(before) {
			delete(ts.s.refreshTokens, id)
			n++
		}
	}
	return n, nil
}
