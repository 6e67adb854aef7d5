package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/votesecure/platform/config"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API. The platform
// uses it for voter avatar images.
type Storage struct {
	backend ObjectStorage
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// FromConfig builds the configured backend, or returns (nil, nil) when
// object storage is disabled.
func FromConfig(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "minio":
		backend, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return NewStorage(backend), nil
	case "gcs":
		backend, err := NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return NewStorage(backend), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// AvatarKey is the object key under which a user's avatar is stored.
func AvatarKey(userID int) string {
	return fmt.Sprintf("avatars/%d", userID)
}

// EnsureBucket ensures the configured bucket exists.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Put uploads an object to the configured bucket.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an object in the configured bucket.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes an object from the configured bucket.
func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Bucket returns the configured bucket name.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}
