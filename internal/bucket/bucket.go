// Package bucket provides the narrow object-store capability the sift
// pipeline needs: paginated listing, streamed reads, and streamed
// writes against a single bucket opened with a single set of
// credentials. Source and destination are independent Store instances.
package bucket

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/s3blob" // S3 driver
)

// Object is one listed object's metadata, scoped to one listing pass.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time // always UTC
}

// Store is the capability interface over one bucket.
type Store interface {
	// Name returns the bucket name, for logging and reporting.
	Name() string

	// List streams every object to fn in listing order. The backend
	// paginates internally; objects already delivered to fn remain
	// valid if a later page request fails.
	List(ctx context.Context, fn func(Object) error) error

	// Get opens a streamed reader for one object.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Put writes one object from r, overwriting any existing object
	// under the same key.
	Put(ctx context.Context, key string, r io.Reader) error

	// Close releases the underlying bucket handle.
	Close() error
}

// Config identifies one bucket plus the account used to reach it.
type Config struct {
	Bucket   string
	Profile  string // shared-config profile; empty uses ambient credentials
	Region   string
	Endpoint string // custom endpoint for B2/R2/MinIO
}

// Open opens an S3-compatible bucket.
// For AWS: s3://bucket-name?region=us-east-1&profile=prod
// For custom endpoints the endpoint and path-style params are added.
func Open(ctx context.Context, cfg Config) (Store, error) {
	bucketURL := fmt.Sprintf("s3://%s", cfg.Bucket)

	params := url.Values{}
	if cfg.Region != "" {
		params.Set("region", cfg.Region)
	}
	if cfg.Profile != "" {
		params.Set("profile", cfg.Profile)
	}
	if cfg.Endpoint != "" {
		params.Set("endpoint", cfg.Endpoint)
		// Custom endpoints usually need path-style addressing
		params.Set("s3ForcePathStyle", "true")
	}
	if len(params) > 0 {
		bucketURL = bucketURL + "?" + params.Encode()
	}

	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", cfg.Bucket, err)
	}

	return &blobStore{bucket: b, name: cfg.Bucket}, nil
}

// NewStore wraps an already opened blob.Bucket. Tests use this with the
// memblob and fileblob drivers.
func NewStore(b *blob.Bucket, name string) Store {
	return &blobStore{bucket: b, name: name}
}

type blobStore struct {
	bucket *blob.Bucket
	name   string
}

func (s *blobStore) Name() string { return s.name }

func (s *blobStore) List(ctx context.Context, fn func(Object) error) error {
	it := s.bucket.List(&blob.ListOptions{})
	for {
		obj, err := it.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list bucket %s: %w", s.name, err)
		}
		if obj.IsDir {
			continue
		}
		rec := Object{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.ModTime.UTC(),
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

func (s *blobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", s.name, key, err)
	}
	return r, nil
}

func (s *blobStore) Put(ctx context.Context, key string, r io.Reader) error {
	w, err := s.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("create writer %s/%s: %w", s.name, key, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("write %s/%s: %w", s.name, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer %s/%s: %w", s.name, key, err)
	}
	return nil
}

func (s *blobStore) Close() error {
	if s.bucket != nil {
		return s.bucket.Close()
	}
	return nil
}
