package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"songlake/internal/domain"
)

// s3API is the subset of *s3.Client used by S3Store.
type s3API interface {
	s3.ListObjectsV2APIClient
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

var _ ObjectStore = (*S3Store)(nil)

// S3Store lists and deletes objects in S3 or an S3-compatible store.
type S3Store struct {
	client s3API
}

// NewS3Store creates an S3Store from static credentials. A custom endpoint
// without a scheme is assumed to be HTTPS and addressed path-style unless
// URL style is "vhost".
func NewS3Store(creds domain.StorageCredentials) (*S3Store, error) {
	if !creds.HasS3() {
		return nil, fmt.Errorf("S3 key id and secret are required")
	}
	region := creds.S3Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			creds.S3KeyID, creds.S3Secret, creds.S3SessionToken,
		),
	}
	if creds.S3Endpoint != "" {
		endpoint := creds.S3Endpoint
		if !strings.Contains(endpoint, "://") {
			endpoint = "https://" + endpoint
		}
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = creds.S3URLStyle != "vhost"
	}
	return &S3Store{client: s3.New(opts)}, nil
}

// NewS3Purger creates an ObjectPurger over S3.
func NewS3Purger(creds domain.StorageCredentials) (*ObjectPurger, error) {
	store, err := NewS3Store(creds)
	if err != nil {
		return nil, err
	}
	return NewObjectPurger(store, ParseS3Path), nil
}

// ListKeys implements ObjectStore.
func (s *S3Store) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	pager := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	var keys []string
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects s3://%s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// DeleteKeys implements ObjectStore. keys must not exceed 1000 entries.
func (s *S3Store) DeleteKeys(ctx context.Context, bucket string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	ids := make([]types.ObjectIdentifier, len(keys))
	for i, k := range keys {
		ids[i] = types.ObjectIdentifier{Key: aws.String(k)}
	}
	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("delete objects in %s: %w", bucket, err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("delete %d objects in %s failed, first %s: %s",
			len(out.Errors), bucket, aws.ToString(first.Key), aws.ToString(first.Message))
	}
	return nil
}
