package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/identity"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
)

// ensureBroker returns the user row for the session, inserting it from the
// session's profile claims when it does not exist yet.
func ensureBroker(ctx context.Context, users repository.UserStore, s identity.Session) (*models.User, error) {
	if s.UserID == "" || s.Email == "" {
		return nil, ErrUnauthorized
	}
	user, err := users.GetOrCreate(ctx, &models.User{
		ID:       s.UserID,
		Email:    normalizeEmail(s.Email),
		Name:     optional(s.Name),
		Company:  optional(s.Company),
		Role:     models.RoleBroker,
		IsActive: true,
	})
	if err != nil {
		// another account already holds the session's email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUnauthorized
		}
		return nil, storeErr(err)
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}

	// fill profile fields the row is missing from the session claims
	patch := repository.Patch{}
	if user.Name == nil && optional(s.Name) != nil {
		patch["name"] = *optional(s.Name)
	}
	if user.Company == nil && optional(s.Company) != nil {
		patch["company"] = *optional(s.Company)
	}
	if len(patch) > 0 {
		if user, err = users.Update(ctx, user.ID, patch); err != nil {
			return nil, storeErr(err)
		}
	}
	return user, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// optional maps blank input to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
