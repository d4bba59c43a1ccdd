package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrObjectNotFound is returned by Get/GetSize when the key is absent.
var ErrObjectNotFound = errors.New("storage: object not found")

// Storage is the object storage capability used for application documents
// and avatars. Keys are slash separated and never start with "/".
type Storage interface {
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get opens the object for streaming. The read is bound to ctx.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the plain retrieval URL.
	GetURL(ctx context.Context, key string) (string, error)

	// GetSignedURL mints a URL that stays valid for expiry.
	GetSignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	GetSize(ctx context.Context, key string) (int64, error)

	// RequiresSignedURL tells writers whether objects saved now can only be
	// read through a signed URL.
	RequiresSignedURL() bool
}

type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // local
	BaseURL    string // public URL prefix
	Bucket     string // s3/r2
	Region     string // s3
	AccessKey  string // s3/r2
	SecretKey  string // s3/r2
	Endpoint   string // r2 or custom s3
	UseSSL     bool   // s3/r2
	PublicRead bool
	SigningKey string // local signed URLs
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
