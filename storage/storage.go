package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"bucketindex/config"
	"bucketindex/listing"
	"bucketindex/paths"
)

// Delimiter groups nested keys into a single common prefix
const Delimiter = "/"

// DefaultContentType is used when the provider does not report one
const DefaultContentType = "application/octet-stream"

// Bucket is the read-only view of a storage bucket used by the index
type Bucket interface {
	// List performs one single-level listing of prefix
	List(ctx context.Context, prefix string) (*listing.Result, error)
	// Open starts fetching an object. The caller must close Body.
	Open(ctx context.Context, key string) (*Object, error)
	// ObjectURL is the direct provider link for key
	ObjectURL(key string) string
	// GetBucketName describes the bucket for logs
	GetBucketName() string
}

// Object is an object body being streamed from the provider
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	ETag          string
	LastModified  string
}

// UpstreamError reports a non-2xx answer from the provider
type UpstreamError struct {
	Op     string
	Status string
	Code   int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream returned %s", e.Op, e.Status)
}

// New builds the backend selected in cfg
func New(cfg *config.Config, logger *log.Logger) (Bucket, error) {
	switch cfg.Backend {
	case config.BackendHTTP:
		return NewHTTPBucket(cfg.BaseURL, cfg.S3, cfg.UpstreamTimeout, logger)
	case config.BackendMinio:
		return NewMinioBucket(cfg.Minio, cfg.UpstreamTimeout, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// EscapeKey escapes each segment of an object key, keeping the separators
func EscapeKey(key string) string {
	return paths.EscapeKey(key)
}
