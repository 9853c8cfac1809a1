package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/identity"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/google/uuid"
)

const reminderDateLayout = "2006-01-02"

type ClientService struct {
	clients repository.ClientStore
	users   repository.UserStore
	loc     *time.Location
}

// NewClientService builds the service. Date-only reminders are read as
// midnight in loc.
func NewClientService(stores repository.Stores, loc *time.Location) *ClientService {
	if loc == nil {
		loc = time.Local
	}
	return &ClientService{clients: stores.Clients, users: stores.Users, loc: loc}
}

func (s *ClientService) ListClients(ctx context.Context, ownerID string, opts ...repository.ListOption) ([]models.Client, error) {
	clients, err := s.clients.ListByOwner(ctx, ownerID, opts...)
	if err != nil {
		return nil, storeErr(err)
	}
	return clients, nil
}

func (s *ClientService) GetClient(ctx context.Context, ownerID, id string) (*models.Client, error) {
	c, err := s.clients.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

func (s *ClientService) SearchClients(ctx context.Context, ownerID string, criteria repository.ClientSearch) ([]models.Client, error) {
	clients, err := s.clients.Search(ctx, ownerID, criteria)
	if err != nil {
		return nil, storeErr(err)
	}
	return clients, nil
}

func (s *ClientService) CreateClient(ctx context.Context, session identity.Session, req *dto.ClientRequest) (*models.Client, error) {
	if _, err := ensureBroker(ctx, s.users, session); err != nil {
		return nil, err
	}
	ownerID := session.UserID

	req.Email = normalizeEmail(req.Email)
	fields := fieldErrors{}
	if strings.TrimSpace(req.Name) == "" {
		fields.add("name", "is required")
	}
	if req.Email == "" {
		fields.add("email", "is required")
	}
	fields.merge(validateStruct(req))
	if err := fields.err(); err != nil {
		return nil, err
	}

	exists, err := s.clients.EmailExists(ctx, ownerID, req.Email, "")
	if err != nil {
		return nil, storeErr(err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	client := models.Client{
		ID:            uuid.NewString(),
		UserID:        ownerID,
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		Phone:         optional(req.Phone),
		State:         optional(req.Company),
		ModelInterest: optional(req.BoatType),
		Budget:        BudgetFromToken(req.Budget),
		Communication: optional(req.Notes),
	}
	if err := s.clients.Create(ctx, &client); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, storeErr(err)
	}

	slog.Info("client created", "owner_id", ownerID, "entity_id", client.ID)
	return &client, nil
}

// UpdateClient overwrites only the fields given as non-empty strings. There
// is no way to blank a field through this call.
func (s *ClientService) UpdateClient(ctx context.Context, ownerID, id string, req *dto.ClientRequest) (*models.Client, error) {
	req.Email = normalizeEmail(req.Email)
	if fields := validateStruct(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	current, err := s.clients.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}

	patch := repository.Patch{}
	setIfPresent(patch, "name", req.Name)
	setIfPresent(patch, "phone", req.Phone)
	setIfPresent(patch, "state", req.Company)
	setIfPresent(patch, "model_interest", req.BoatType)
	setIfPresent(patch, "communication", req.Notes)
	if budget := BudgetFromToken(req.Budget); budget != nil {
		patch["budget"] = *budget
	}
	if req.Email != "" && req.Email != current.Email {
		exists, err := s.clients.EmailExists(ctx, ownerID, req.Email, id)
		if err != nil {
			return nil, storeErr(err)
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
		patch["email"] = req.Email
	}

	updated, err := s.clients.UpdateForOwner(ctx, id, ownerID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, storeErr(err)
	}
	return updated, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, ownerID, id string) error {
	if err := s.clients.DeleteForOwner(ctx, id, ownerID); err != nil {
		return storeErr(err)
	}
	slog.Info("client deleted", "owner_id", ownerID, "entity_id", id)
	return nil
}

// SetReminder writes the follow-up date and note together.
func (s *ClientService) SetReminder(ctx context.Context, ownerID, id string, req *dto.ReminderRequest) (*models.Client, error) {
	fields := fieldErrors{}
	fields.merge(validateStruct(req))
	at, err := s.parseReminderDate(req.Date)
	if err != nil {
		fields.add("date", err.Error())
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	patch := repository.Patch{"to_contact": at, "to_contact_text": nil}
	if note := optional(req.Note); note != nil {
		patch["to_contact_text"] = *note
	}
	c, err := s.clients.UpdateForOwner(ctx, id, ownerID, patch)
	if err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

func (s *ClientService) ClearReminder(ctx context.Context, ownerID, id string) (*models.Client, error) {
	c, err := s.clients.UpdateForOwner(ctx, id, ownerID, repository.Patch{
		"to_contact":      nil,
		"to_contact_text": nil,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return c, nil
}

func (s *ClientService) parseReminderDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(reminderDateLayout, raw, s.loc); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}

func setIfPresent(patch repository.Patch, column, value string) {
	if v := strings.TrimSpace(value); v != "" {
		patch[column] = v
	}
}
