package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/blob"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/identity"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

var (
	brokerA = identity.Session{UserID: "broker-a", Email: "anna@harbour.test", Name: "Anna", Company: "Harbour Yachts"}
	brokerB = identity.Session{UserID: "broker-b", Email: "ben@marina.test", Name: "Ben"}
)

func newStores(t *testing.T) repository.Stores {
	t.Helper()
	return memory.New().Stores()
}

// fakeBlobs records every Put and Delete.
type fakeBlobs struct {
	mu      sync.Mutex
	put     []string
	deleted []string
	failPut bool
}

const fakeBlobBase = "https://blobs.test/boats/"

func (f *fakeBlobs) Put(_ context.Context, name string, _ []byte, _ string) (string, error) {
	if f.failPut {
		return "", errors.New("storage offline")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put = append(f.put, name)
	return fakeBlobBase + name, nil
}

func (f *fakeBlobs) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, strings.TrimPrefix(url, fakeBlobBase))
	return nil
}

func (f *fakeBlobs) Owner(url string) (string, error) {
	name, ok := strings.CutPrefix(url, fakeBlobBase)
	if !ok {
		return "", blob.ErrUnknownURL
	}
	owner, _, _ := strings.Cut(name, "/")
	if owner == name {
		return "", nil
	}
	return owner, nil
}

func (f *fakeBlobs) deletedNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// blobURL is the URL an upload by owner would have been given.
func blobURL(owner identity.Session, file string) string {
	return fakeBlobBase + owner.UserID + "/" + file
}

func requireFields(t *testing.T, err error, fields ...string) {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	for _, f := range fields {
		require.Contains(t, verr.Fields, f)
	}
}

func ptr[T any](v T) *T { return &v }
