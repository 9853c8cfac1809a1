package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/identity"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoatService(t *testing.T) (*BoatService, *fakeBlobs) {
	t.Helper()
	blobs := &fakeBlobs{}
	svc := NewBoatService(newStores(t), blobs)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return svc, blobs
}

func validBoat() *dto.BoatRequest {
	return &dto.BoatRequest{
		Brand:    "Beneteau",
		Model:    "Oceanis 46.1",
		Year:     ptr(2021),
		Size:     ptr(14.6),
		Price:    "1250000",
		Currency: "eur",
		Location: "Palma",
	}
}

func TestCreateBoat(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBoatService(t)

	req := validBoat()
	req.Images = []string{blobURL(brokerA, "boat-1.jpg"), blobURL(brokerA, "boat-2.jpg")}
	b, err := svc.CreateBoat(ctx, brokerA, req)
	require.NoError(t, err)

	assert.Equal(t, brokerA.UserID, b.UserID)
	assert.Equal(t, "Oceanis 46.1", *b.Model)
	assert.Equal(t, 15, *b.Size)
	assert.Equal(t, "EUR 1250000", *b.Price)
	assert.Equal(t, int64(125_000_000), *b.PriceCents)
	assert.Equal(t, "EUR", *b.Currency)
	require.Len(t, b.Images, 2)
	assert.Equal(t, "boat-1.jpg", b.Images[0].Filename)

	got, err := svc.GetBoat(ctx, brokerA.UserID, b.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 2)
}

func TestCreateBoat_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBoatService(t)

	_, err := svc.CreateBoat(ctx, brokerA, &dto.BoatRequest{})
	requireFields(t, err, "model", "price")

	tests := []struct {
		name  string
		edit  func(*dto.BoatRequest)
		field string
	}{
		{"year too old", func(r *dto.BoatRequest) { r.Year = ptr(1850) }, "year"},
		{"year in the future", func(r *dto.BoatRequest) { r.Year = ptr(2028) }, "year"},
		{"zero size", func(r *dto.BoatRequest) { r.Size = ptr(0.0) }, "size"},
		{"size rounding to zero", func(r *dto.BoatRequest) { r.Size = ptr(0.3) }, "size"},
		{"oversized", func(r *dto.BoatRequest) { r.Size = ptr(250.0) }, "size"},
		{"non-numeric price", func(r *dto.BoatRequest) { r.Price = "on request" }, "price"},
		{"price above cap", func(r *dto.BoatRequest) { r.Price = "2000000000" }, "price"},
		{"unsupported currency", func(r *dto.BoatRequest) { r.Currency = "JPY" }, "currency"},
		{"negative engine hours", func(r *dto.BoatRequest) { r.EngineHours = ptr(-1) }, "engine_hours"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBoat()
			tt.edit(req)
			_, err := svc.CreateBoat(ctx, brokerA, req)
			requireFields(t, err, tt.field)
		})
	}

	req := validBoat()
	req.Year = ptr(2027)
	_, err = svc.CreateBoat(ctx, brokerA, req)
	assert.NoError(t, err, "next year's models are accepted")

	req = validBoat()
	req.Size = ptr(0.5)
	b, err := svc.CreateBoat(ctx, brokerA, req)
	require.NoError(t, err)
	assert.Equal(t, 1, *b.Size)
}

func TestCreateBoat_RemovesBlobsOnFailure(t *testing.T) {
	svc, blobs := newBoatService(t)
	req := validBoat()
	req.Images = []string{blobURL(brokerA, "boat-1.jpg"), blobURL(brokerA, "boat-2.jpg")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.CreateBoat(ctx, brokerA, req)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ElementsMatch(t, []string{"broker-a/boat-1.jpg", "broker-a/boat-2.jpg"}, blobs.deleted)

	blobs.deleted = nil
	noEmail := identity.Session{UserID: "no-email"}
	req.Images = []string{blobURL(noEmail, "boat-1.jpg"), blobURL(noEmail, "boat-2.jpg")}
	_, err = svc.CreateBoat(context.Background(), noEmail, req)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Len(t, blobs.deleted, 2)
}

func TestCreateBoat_FailureKeepsBlobsOtherBoatsUse(t *testing.T) {
	svc, blobs := newBoatService(t)
	shared := blobURL(brokerA, "boat-1.jpg")
	req := validBoat()
	req.Images = []string{shared}
	_, err := svc.CreateBoat(context.Background(), brokerA, req)
	require.NoError(t, err)

	req.Images = []string{shared, blobURL(brokerA, "boat-2.jpg")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.CreateBoat(ctx, brokerA, req)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, []string{"broker-a/boat-2.jpg"}, blobs.deletedNames())
}

func TestBoatImages_MustBelongToCaller(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newBoatService(t)

	req := validBoat()
	req.Images = []string{blobURL(brokerA, "boat-1.jpg")}
	own, err := svc.CreateBoat(ctx, brokerA, req)
	require.NoError(t, err)

	foreign := []string{
		blobURL(brokerA, "boat-1.jpg"),
		fakeBlobBase + "boat-1.jpg",
		"https://elsewhere.example.com/boat-1.jpg",
	}
	for _, u := range foreign {
		req := validBoat()
		req.Images = []string{u}
		_, err := svc.CreateBoat(ctx, brokerB, req)
		requireFields(t, err, "images")
	}

	theirs, err := svc.CreateBoat(ctx, brokerB, validBoat())
	require.NoError(t, err)
	_, err = svc.AddImages(ctx, brokerB.UserID, theirs.ID, &dto.AttachImagesRequest{URLs: foreign[:1]})
	requireFields(t, err, "urls")

	require.NoError(t, svc.DeleteBoat(ctx, brokerB.UserID, theirs.ID))
	assert.Empty(t, blobs.deletedNames(), "another broker's blobs are never touched")

	got, err := svc.GetBoat(ctx, brokerA.UserID, own.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
	assert.Equal(t, blobURL(brokerA, "boat-1.jpg"), got.Images[0].URL)
}

func TestUpdateBoat_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBoatService(t)
	b, err := svc.CreateBoat(ctx, brokerA, validBoat())
	require.NoError(t, err)

	_, err = svc.UpdateBoat(ctx, brokerA.UserID, b.ID, &dto.BoatRequest{Price: "on request"})
	requireFields(t, err, "price")
	_, err = svc.UpdateBoat(ctx, brokerA.UserID, b.ID, &dto.BoatRequest{Size: ptr(0.3)})
	requireFields(t, err, "size")

	got, err := svc.GetBoat(ctx, brokerA.UserID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR 1250000", *got.Price)
	assert.Equal(t, 15, *got.Size)
}

func TestUpdateBoat_PriceNeedsCurrency(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBoatService(t)
	b, err := svc.CreateBoat(ctx, brokerA, validBoat())
	require.NoError(t, err)

	updated, err := svc.UpdateBoat(ctx, brokerA.UserID, b.ID, &dto.BoatRequest{Price: "990000", Location: "Antibes"})
	require.NoError(t, err)
	assert.Equal(t, "EUR 1250000", *updated.Price)
	assert.Equal(t, int64(125_000_000), *updated.PriceCents)
	assert.Equal(t, "Antibes", *updated.Location)
	assert.Equal(t, "Oceanis 46.1", *updated.Model)

	updated, err = svc.UpdateBoat(ctx, brokerA.UserID, b.ID, &dto.BoatRequest{Price: "990000", Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "USD 990000", *updated.Price)
	assert.Equal(t, int64(99_000_000), *updated.PriceCents)
	assert.Equal(t, "USD", *updated.Currency)

	_, err = svc.UpdateBoat(ctx, brokerA.UserID, b.ID, &dto.BoatRequest{Price: "free", Currency: "USD"})
	requireFields(t, err, "price")
}

func TestBoatOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newBoatService(t)
	req := validBoat()
	req.Images = []string{blobURL(brokerA, "boat-1.jpg")}
	b, err := svc.CreateBoat(ctx, brokerA, req)
	require.NoError(t, err)

	_, err = svc.GetBoat(ctx, brokerB.UserID, b.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	_, err = svc.UpdateBoat(ctx, brokerB.UserID, b.ID, &dto.BoatRequest{Location: "Elsewhere"})
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	_, err = svc.AddImages(ctx, brokerB.UserID, b.ID, &dto.AttachImagesRequest{URLs: []string{blobURL(brokerB, "x.jpg")}})
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	assert.ErrorIs(t, svc.DeleteBoat(ctx, brokerB.UserID, b.ID), ErrNotFoundOrForbidden)
	assert.Empty(t, blobs.deleted)

	found, err := svc.SearchBoats(ctx, brokerB.UserID, repository.BoatSearch{Brand: "bene"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestAddImagesAndDeleteBoat(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newBoatService(t)
	b, err := svc.CreateBoat(ctx, brokerA, validBoat())
	require.NoError(t, err)

	_, err = svc.AddImages(ctx, brokerA.UserID, b.ID, &dto.AttachImagesRequest{})
	requireFields(t, err, "urls")

	withImages, err := svc.AddImages(ctx, brokerA.UserID, b.ID, &dto.AttachImagesRequest{
		URLs: []string{blobURL(brokerA, "boat-3.jpg"), blobURL(brokerA, "boat-4.jpg")},
	})
	require.NoError(t, err)
	assert.Len(t, withImages.Images, 2)

	// a second listing reusing one photo keeps that blob alive
	other := validBoat()
	other.Images = []string{blobURL(brokerA, "boat-4.jpg")}
	second, err := svc.CreateBoat(ctx, brokerA, other)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBoat(ctx, brokerA.UserID, b.ID))
	assert.Equal(t, []string{"broker-a/boat-3.jpg"}, blobs.deletedNames())

	require.NoError(t, svc.DeleteBoat(ctx, brokerA.UserID, second.ID))
	assert.ElementsMatch(t, []string{"broker-a/boat-3.jpg", "broker-a/boat-4.jpg"}, blobs.deletedNames())

	_, err = svc.GetBoat(ctx, brokerA.UserID, b.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
}

func TestSearchBoats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBoatService(t)
	_, err := svc.CreateBoat(ctx, brokerA, validBoat())
	require.NoError(t, err)
	cheap := validBoat()
	cheap.Brand = "Jeanneau"
	cheap.Price = "180000"
	_, err = svc.CreateBoat(ctx, brokerA, cheap)
	require.NoError(t, err)

	found, err := svc.SearchBoats(ctx, brokerA.UserID, repository.BoatSearch{MaxPrice: ptr(int64(500_000))})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Jeanneau", *found[0].Brand)
}
