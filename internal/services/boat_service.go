package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/blob"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/identity"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/pricing"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/google/uuid"
)

const (
	minBoatYear     = 1900
	blobCleanupWait = 10 * time.Second
)

type BoatService struct {
	boats repository.BoatStore
	users repository.UserStore
	blobs blob.Store
	now   func() time.Time
}

func NewBoatService(stores repository.Stores, blobs blob.Store) *BoatService {
	return &BoatService{boats: stores.Boats, users: stores.Users, blobs: blobs, now: time.Now}
}

func (s *BoatService) ListBoats(ctx context.Context, ownerID string, opts ...repository.ListOption) ([]models.Boat, error) {
	boats, err := s.boats.ListByOwner(ctx, ownerID, opts...)
	if err != nil {
		return nil, storeErr(err)
	}
	return boats, nil
}

func (s *BoatService) GetBoat(ctx context.Context, ownerID, id string) (*models.Boat, error) {
	b, err := s.boats.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

func (s *BoatService) SearchBoats(ctx context.Context, ownerID string, criteria repository.BoatSearch) ([]models.Boat, error) {
	boats, err := s.boats.Search(ctx, ownerID, criteria)
	if err != nil {
		return nil, storeErr(err)
	}
	return boats, nil
}

// CreateBoat persists a listing with its already-uploaded images. When the
// write fails the referenced blobs are removed again.
func (s *BoatService) CreateBoat(ctx context.Context, session identity.Session, req *dto.BoatRequest) (*models.Boat, error) {
	fields := fieldErrors{}
	if strings.TrimSpace(req.Model) == "" {
		fields.add("model", "is required")
	}
	if strings.TrimSpace(req.Price) == "" {
		fields.add("price", "is required")
	}
	fields.merge(validateStruct(req))
	s.checkYear(fields, req.Year)
	checkSize(fields, req.Size)
	s.checkImages(fields, "images", session.UserID, req.Images)

	var price pricing.Price
	if _, bad := fields["price"]; !bad {
		var err error
		price, err = pricing.Parse(req.Price, req.Currency)
		addPriceError(fields, err)
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if _, err := ensureBroker(ctx, s.users, session); err != nil {
		s.cleanupBlobs(ctx, session.UserID, req.Images)
		return nil, err
	}

	boat := models.Boat{
		ID:          uuid.NewString(),
		UserID:      session.UserID,
		Brand:       optional(req.Brand),
		Model:       optional(req.Model),
		Year:        req.Year,
		Size:        roundSize(req.Size),
		Price:       optional(pricing.FormatDisplay(price.Currency, req.Price)),
		PriceCents:  &price.Cents,
		Currency:    &price.Currency,
		Location:    optional(req.Location),
		Description: optional(req.Description),
		Equipment:   optional(req.Equipment),
		Owner:       optional(req.Owner),
		Engine:      optional(req.Engine),
		EngineHours: req.EngineHours,
		Images:      imagesFromURLs(req.Images),
	}
	if err := s.boats.Create(ctx, &boat); err != nil {
		s.cleanupBlobs(ctx, session.UserID, req.Images)
		return nil, storeErr(err)
	}

	slog.Info("boat created", "owner_id", session.UserID, "entity_id", boat.ID, "images", len(boat.Images))
	return &boat, nil
}

// UpdateBoat overwrites the fields given as non-empty values. A price is
// always validated but only changed when a currency comes with it.
func (s *BoatService) UpdateBoat(ctx context.Context, ownerID, id string, req *dto.BoatRequest) (*models.Boat, error) {
	fields := fieldErrors{}
	fields.merge(validateStruct(req))
	s.checkYear(fields, req.Year)
	checkSize(fields, req.Size)

	patch := repository.Patch{}
	if _, bad := fields["price"]; !bad && strings.TrimSpace(req.Price) != "" {
		if strings.TrimSpace(req.Currency) == "" {
			_, err := pricing.ParseAmount(req.Price)
			addPriceError(fields, err)
		} else {
			price, err := pricing.Parse(req.Price, req.Currency)
			addPriceError(fields, err)
			if err == nil {
				patch["price"] = pricing.FormatDisplay(price.Currency, req.Price)
				patch["price_cents"] = price.Cents
				patch["currency"] = price.Currency
			}
		}
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	setIfPresent(patch, "brand", req.Brand)
	setIfPresent(patch, "model", req.Model)
	setIfPresent(patch, "location", req.Location)
	setIfPresent(patch, "description", req.Description)
	setIfPresent(patch, "equipment", req.Equipment)
	setIfPresent(patch, "owner", req.Owner)
	setIfPresent(patch, "engine", req.Engine)
	if req.Year != nil {
		patch["year"] = *req.Year
	}
	if size := roundSize(req.Size); size != nil {
		patch["size"] = *size
	}
	if req.EngineHours != nil {
		patch["engine_hours"] = *req.EngineHours
	}

	b, err := s.boats.UpdateForOwner(ctx, id, ownerID, patch)
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

func (s *BoatService) AddImages(ctx context.Context, ownerID, boatID string, req *dto.AttachImagesRequest) (*models.Boat, error) {
	fields := fieldErrors{}
	fields.merge(validateStruct(req))
	s.checkImages(fields, "urls", ownerID, req.URLs)
	if err := fields.err(); err != nil {
		return nil, err
	}
	b, err := s.boats.AddImages(ctx, ownerID, boatID, imagesFromURLs(req.URLs))
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

// DeleteBoat removes the listing and then, best effort, its image blobs.
func (s *BoatService) DeleteBoat(ctx context.Context, ownerID, id string) error {
	b, err := s.boats.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return storeErr(err)
	}
	if err := s.boats.DeleteForOwner(ctx, id, ownerID); err != nil {
		return storeErr(err)
	}

	urls := make([]string, len(b.Images))
	for i, img := range b.Images {
		urls[i] = img.URL
	}
	s.cleanupBlobs(ctx, ownerID, urls)
	slog.Info("boat deleted", "owner_id", ownerID, "entity_id", id)
	return nil
}

// cleanupBlobs deletes the owner's uploaded objects that no remaining image
// row points at. It runs even when ctx is already cancelled; failures are
// logged only.
func (s *BoatService) cleanupBlobs(ctx context.Context, ownerID string, urls []string) {
	if s.blobs == nil || len(urls) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), blobCleanupWait)
	defer cancel()

	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if seen[u] || !blob.OwnedBy(s.blobs, u, ownerID) {
			continue
		}
		seen[u] = true
		refs, err := s.boats.CountImageRefs(ctx, ownerID, u)
		if err != nil {
			slog.Warn("blob cleanup skipped", "owner_id", ownerID, "operation", "blob_delete", "url", u, "error", err)
			continue
		}
		if refs > 0 {
			continue
		}
		if err := s.blobs.Delete(ctx, u); err != nil && !errors.Is(err, blob.ErrUnknownURL) {
			slog.Warn("blob cleanup failed", "owner_id", ownerID, "operation", "blob_delete", "url", u, "error", err)
		}
	}
}

// checkImages accepts only URLs of blobs uploaded under ownerID.
func (s *BoatService) checkImages(fields fieldErrors, field, ownerID string, urls []string) {
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if s.blobs == nil || !blob.OwnedBy(s.blobs, u, ownerID) {
			fields.add(field, "must only reference images uploaded by this account")
			return
		}
	}
}

// checkSize rejects sizes that round down to zero; the column stores whole
// numbers.
func checkSize(fields fieldErrors, size *float64) {
	if size != nil && math.Round(*size) < 1 {
		fields.add("size", "must be at least 1 once rounded to a whole number")
	}
}

func (s *BoatService) checkYear(fields fieldErrors, year *int) {
	if year == nil {
		return
	}
	maxYear := s.now().Year() + 1
	if *year < minBoatYear || *year > maxYear {
		fields.add("year", fmt.Sprintf("must be between %d and %d", minBoatYear, maxYear))
	}
}

func addPriceError(fields fieldErrors, err error) {
	switch {
	case err == nil:
	case errors.Is(err, pricing.ErrUnsupportedCurrency):
		fields.add("currency", "must be one of EUR, USD, GBP")
	default:
		fields.add("price", "must be a number greater than 0 and at most 1,000,000,000")
	}
}

func roundSize(size *float64) *int {
	if size == nil {
		return nil
	}
	n := int(math.Round(*size))
	return &n
}

func imagesFromURLs(urls []string) []models.Image {
	images := make([]models.Image, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		images = append(images, models.Image{
			ID:       uuid.NewString(),
			Filename: path.Base(u),
			URL:      u,
		})
	}
	return images
}
