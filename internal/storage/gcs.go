package storage

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"songlake/internal/domain"
)

var _ ObjectStore = (*GCSStore)(nil)

// GCSStore lists and deletes objects in Google Cloud Storage.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore creates a GCSStore authenticated with a service-account key
// file, or with application default credentials when none is configured.
func NewGCSStore(ctx context.Context, creds domain.StorageCredentials) (*GCSStore, error) {
	var opts []option.ClientOption
	if creds.GCSKeyFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, creds.GCSKeyFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

// NewGCSPurger creates an ObjectPurger over GCS.
func NewGCSPurger(ctx context.Context, creds domain.StorageCredentials) (*ObjectPurger, error) {
	store, err := NewGCSStore(ctx, creds)
	if err != nil {
		return nil, err
	}
	return NewObjectPurger(store, ParseGCSPath), nil
}

// ListKeys implements ObjectStore.
func (s *GCSStore) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return keys, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list objects gs://%s/%s: %w", bucket, prefix, err)
		}
		keys = append(keys, attrs.Name)
	}
}

// DeleteKeys implements ObjectStore. Objects already gone are skipped.
func (s *GCSStore) DeleteKeys(ctx context.Context, bucket string, keys []string) error {
	b := s.client.Bucket(bucket)
	for _, k := range keys {
		err := b.Object(k).Delete(ctx)
		if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("delete gs://%s/%s: %w", bucket, k, err)
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
