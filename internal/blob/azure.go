package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	azblobblob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureStore writes objects to a single Azure Blob Storage container.
// Credentials come from the default Azure chain (environment, workload
// identity, managed identity, az cli).
type AzureStore struct {
	client    *azblob.Client
	container string
	baseURL   string
}

var _ Store = (*AzureStore)(nil)

func NewAzureStore(accountURL, container string) (*AzureStore, error) {
	if accountURL == "" || container == "" {
		return nil, errors.New("azure blob store requires account url and container")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azure blob client: %w", err)
	}
	return &AzureStore{
		client:    client,
		container: container,
		baseURL:   strings.TrimRight(client.URL(), "/") + "/" + container,
	}, nil
}

func (s *AzureStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	name, err := objectName(name)
	if err != nil {
		return "", err
	}
	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &azblobblob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := s.client.UploadBuffer(ctx, s.container, name, data, opts); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *AzureStore) Delete(ctx context.Context, url string) error {
	name, err := nameFromURL(s.baseURL, url)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil
		}
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (s *AzureStore) Owner(url string) (string, error) {
	name, err := nameFromURL(s.baseURL, url)
	if err != nil {
		return "", err
	}
	return ownerOf(name), nil
}
