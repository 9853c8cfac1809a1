package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/dto"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClient_FullScenario(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newStores(t), time.UTC)

	c, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{
		Name:     "Jane Doe",
		Email:    "Jane@Example.com ",
		Phone:    "+49 (170) 123-4567",
		Company:  "Doe Holdings",
		BoatType: "Sailing yacht",
		Budget:   "1m-5m",
		Notes:    "Prefers email",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, brokerA.UserID, c.UserID)
	assert.Equal(t, "jane@example.com", c.Email)
	assert.Equal(t, "Doe Holdings", *c.State)
	assert.Equal(t, "Sailing yacht", *c.ModelInterest)
	require.NotNil(t, c.Budget)
	assert.Equal(t, int64(3_000_000), *c.Budget)
	assert.Nil(t, c.ToContact)

	got, err := svc.GetClient(ctx, brokerA.UserID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, got.Email)

	list, err := svc.ListClients(ctx, brokerA.UserID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateClient_DuplicateEmailPerOwner(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newStores(t), time.UTC)

	_, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane again", Email: "JANE@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// another broker may hold the same contact
	_, err = svc.CreateClient(ctx, brokerB, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com"})
	assert.NoError(t, err)
}

func TestCreateClient_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newStores(t), time.UTC)

	_, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{})
	requireFields(t, err, "name", "email")

	_, err = svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane", Email: "not-an-email"})
	requireFields(t, err, "email")

	_, err = svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com", Phone: "call me"})
	requireFields(t, err, "phone")
}

func TestCreateClient_RequiresSession(t *testing.T) {
	svc := NewClientService(newStores(t), time.UTC)
	_, err := svc.CreateClient(context.Background(), identity.Session{UserID: brokerA.UserID}, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateClient_UnknownBudgetIsNil(t *testing.T) {
	svc := NewClientService(newStores(t), time.UTC)
	c, err := svc.CreateClient(context.Background(), brokerA, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com", Budget: "lots"})
	require.NoError(t, err)
	assert.Nil(t, c.Budget)
}

// Empty strings mean "not provided"; only Notes changes here.
func TestUpdateClient_EmptyPhoneIsNotProvided(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newStores(t), time.UTC)
	c, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{
		Name: "Jane", Email: "jane@example.com", Phone: "+441234567", Budget: "500k-1m",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateClient(ctx, brokerA.UserID, c.ID, &dto.ClientRequest{Phone: "", Notes: "Call after boat show"})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, "jane@example.com", updated.Email)
	assert.Equal(t, "+441234567", *updated.Phone)
	assert.Equal(t, int64(750_000), *updated.Budget)
	assert.Equal(t, "Call after boat show", *updated.Communication)
}

func TestUpdateClient_EmailConflict(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newStores(t), time.UTC)
	_, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	john, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "John", Email: "john@example.com"})
	require.NoError(t, err)

	_, err = svc.UpdateClient(ctx, brokerA.UserID, john.ID, &dto.ClientRequest{Email: "jane@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// re-submitting the client's own email is not a conflict
	same, err := svc.UpdateClient(ctx, brokerA.UserID, john.ID, &dto.ClientRequest{Email: "John@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", same.Email)
}

func TestClientOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newStores(t), time.UTC)
	c, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = svc.GetClient(ctx, brokerB.UserID, c.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	_, err = svc.UpdateClient(ctx, brokerB.UserID, c.ID, &dto.ClientRequest{Name: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	_, err = svc.SetReminder(ctx, brokerB.UserID, c.ID, &dto.ReminderRequest{Date: "2026-11-01"})
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	err = svc.DeleteClient(ctx, brokerB.UserID, c.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	list, err := svc.ListClients(ctx, brokerB.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.GetClient(ctx, brokerA.UserID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
}

func TestDeleteClient(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newStores(t), time.UTC)
	c, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClient(ctx, brokerA.UserID, c.ID))
	_, err = svc.GetClient(ctx, brokerA.UserID, c.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
	assert.ErrorIs(t, svc.DeleteClient(ctx, brokerA.UserID, c.ID), ErrNotFoundOrForbidden)
}

func TestSetReminder_DateOnlyUsesLocation(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+2", 2*60*60)
	svc := NewClientService(newStores(t), loc)
	c, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	updated, err := svc.SetReminder(ctx, brokerA.UserID, c.ID, &dto.ReminderRequest{Date: "2026-11-03", Note: "Send brochure"})
	require.NoError(t, err)
	require.NotNil(t, updated.ToContact)
	assert.True(t, updated.ToContact.Equal(time.Date(2026, 11, 3, 0, 0, 0, 0, loc)))
	assert.Equal(t, "Send brochure", *updated.ToContactText)

	updated, err = svc.SetReminder(ctx, brokerA.UserID, c.ID, &dto.ReminderRequest{Date: "2026-11-04T15:30:00Z"})
	require.NoError(t, err)
	assert.True(t, updated.ToContact.Equal(time.Date(2026, 11, 4, 15, 30, 0, 0, time.UTC)))
	assert.Nil(t, updated.ToContactText, "a reminder without note drops the old note")
}

func TestSetReminder_InvalidDate(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newStores(t), time.UTC)
	c, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = svc.SetReminder(ctx, brokerA.UserID, c.ID, &dto.ReminderRequest{Date: "next tuesday"})
	requireFields(t, err, "date")

	_, err = svc.SetReminder(ctx, brokerA.UserID, c.ID, &dto.ReminderRequest{})
	requireFields(t, err, "date")
}

func TestClearReminder(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newStores(t), time.UTC)
	c, err := svc.CreateClient(ctx, brokerA, &dto.ClientRequest{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	_, err = svc.SetReminder(ctx, brokerA.UserID, c.ID, &dto.ReminderRequest{Date: "2026-11-03", Note: "Call"})
	require.NoError(t, err)

	cleared, err := svc.ClearReminder(ctx, brokerA.UserID, c.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.ToContact)
	assert.Nil(t, cleared.ToContactText)
}

func TestBudgetFromToken(t *testing.T) {
	cases := map[string]*int64{
		"under-500k": ptr(int64(500_000)),
		"500k-1m":    ptr(int64(750_000)),
		"1m-5m":      ptr(int64(3_000_000)),
		"5m-10m":     ptr(int64(7_500_000)),
		"10m-plus":   ptr(int64(15_000_000)),
		"":           nil,
		"a lot":      nil,
	}
	for token, want := range cases {
		assert.Equal(t, want, BudgetFromToken(token), token)
	}
}
