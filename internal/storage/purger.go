package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"songlake/internal/domain"
)

// Purger empties an output destination so a table write replaces every file
// a previous run left behind.
type Purger interface {
	Purge(ctx context.Context, uri string) error
}

// NewPurger returns the Purger for the storage type of uri.
func NewPurger(ctx context.Context, uri string, creds domain.StorageCredentials) (Purger, error) {
	switch domain.StorageTypeOf(uri) {
	case domain.StorageTypeS3:
		return NewS3Purger(creds)
	case domain.StorageTypeGCS:
		return NewGCSPurger(ctx, creds)
	case domain.StorageTypeAzure:
		return NewAzurePurger(creds)
	default:
		return LocalPurger{}, nil
	}
}

var _ Purger = LocalPurger{}

// LocalPurger removes a directory tree on the local filesystem and recreates
// it empty.
type LocalPurger struct{}

// Purge implements Purger.
func (LocalPurger) Purge(_ context.Context, uri string) error {
	dir := filepath.Clean(strings.TrimPrefix(uri, "file://"))
	if dir == "." || dir == string(filepath.Separator) {
		return fmt.Errorf("refusing to purge %q", uri)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// ObjectStore is the listing and deletion surface of a bucket-based object
// store.
type ObjectStore interface {
	ListKeys(ctx context.Context, bucket, prefix string) ([]string, error)
	DeleteKeys(ctx context.Context, bucket string, keys []string) error
}

// deleteBatchSize is the S3 DeleteObjects limit, applied to every store.
const deleteBatchSize = 1000

var _ Purger = (*ObjectPurger)(nil)

// ObjectPurger deletes every object under a URI prefix.
type ObjectPurger struct {
	store ObjectStore
	parse func(uri string) (bucket, key string, err error)
}

// NewObjectPurger wraps store. parse splits a URI into bucket and prefix.
func NewObjectPurger(store ObjectStore, parse func(string) (string, string, error)) *ObjectPurger {
	return &ObjectPurger{store: store, parse: parse}
}

// Purge implements Purger. A bucket root is never purged.
func (p *ObjectPurger) Purge(ctx context.Context, uri string) error {
	bucket, prefix, err := p.parse(uri)
	if err != nil {
		return err
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fmt.Errorf("refusing to purge bucket root %q", uri)
	}
	prefix += "/"

	keys, err := p.store.ListKeys(ctx, bucket, prefix)
	if err != nil {
		return fmt.Errorf("list %s: %w", uri, err)
	}
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))
		if err := p.store.DeleteKeys(ctx, bucket, keys[start:end]); err != nil {
			return fmt.Errorf("delete under %s: %w", uri, err)
		}
	}
	return nil
}
