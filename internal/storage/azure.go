package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"songlake/internal/domain"
)

var _ ObjectStore = (*AzureStore)(nil)

// AzureStore lists and deletes blobs in Azure Blob Storage. Containers play
// the role of buckets.
type AzureStore struct {
	client *azblob.Client
}

// NewAzureStore creates an AzureStore from a connection string, or from an
// account name and shared key.
func NewAzureStore(creds domain.StorageCredentials) (*AzureStore, error) {
	if creds.AzureConnectionString != "" {
		client, err := azblob.NewClientFromConnectionString(creds.AzureConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("create Azure blob client: %w", err)
		}
		return &AzureStore{client: client}, nil
	}
	if creds.AzureAccountName == "" || creds.AzureAccountKey == "" {
		return nil, fmt.Errorf("Azure connection string or account name and key are required")
	}
	cred, err := azblob.NewSharedKeyCredential(creds.AzureAccountName, creds.AzureAccountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", creds.AzureAccountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure blob client: %w", err)
	}
	return &AzureStore{client: client}, nil
}

// NewAzurePurger creates an ObjectPurger over Azure Blob Storage.
func NewAzurePurger(creds domain.StorageCredentials) (*ObjectPurger, error) {
	store, err := NewAzureStore(creds)
	if err != nil {
		return nil, err
	}
	return NewObjectPurger(store, ParseAzurePath), nil
}

// ListKeys implements ObjectStore.
func (s *AzureStore) ListKeys(ctx context.Context, container, prefix string) ([]string, error) {
	pager := s.client.NewListBlobsFlatPager(container, &azblob.ListBlobsFlatOptions{Prefix: &prefix})
	var keys []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list blobs az://%s/%s: %w", container, prefix, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				keys = append(keys, *item.Name)
			}
		}
	}
	return keys, nil
}

// DeleteKeys implements ObjectStore. Blobs already gone are skipped.
func (s *AzureStore) DeleteKeys(ctx context.Context, container string, keys []string) error {
	for _, k := range keys {
		_, err := s.client.DeleteBlob(ctx, container, k, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
			return fmt.Errorf("delete az://%s/%s: %w", container, k, err)
		}
	}
	return nil
}
