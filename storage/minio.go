package storage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bucketindex/config"
	"bucketindex/listing"
	"bucketindex/metrics"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioBucket implements Bucket using the MinIO client, for buckets that
// need credentials the public endpoints cannot carry
type MinioBucket struct {
	client     *minio.Client
	bucketName string
	timeout    time.Duration
	logger     *log.Logger
}

// NewMinioBucket creates a new MinIO backed bucket
func NewMinioBucket(cfg config.MinioConfig, timeout time.Duration, logger *log.Logger) (*MinioBucket, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[MINIO] ", log.LstdFlags)
	}

	// Region is set so the client skips the bucket-location lookup
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinioBucket{
		client:     client,
		bucketName: cfg.BucketName,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// List lists one level below prefix
func (s *MinioBucket) List(ctx context.Context, prefix string) (*listing.Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	})

	res, err := collectObjects(prefix, objectCh)
	metrics.UpstreamDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues("list", metrics.Result(err)).Inc()
	if err != nil {
		return nil, toUpstreamError("list", err)
	}
	return res, nil
}

// collectObjects drains a listing channel. Entries ending in the delimiter
// are common prefixes.
func collectObjects(prefix string, objectCh <-chan minio.ObjectInfo) (*listing.Result, error) {
	b := listing.NewBuilder(prefix)
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		if strings.HasSuffix(object.Key, Delimiter) {
			b.AddFolder(object.Key)
			continue
		}
		b.AddFile(object.Key)
		b.SetMeta(object.Key, listing.ObjectMeta{
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}
	return b.Result(), nil
}

// Open fetches an object from MinIO
func (s *MinioBucket) Open(ctx context.Context, key string) (*Object, error) {
	start := time.Now()
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err == nil {
		// GetObject is lazy; Stat performs the request
		var info minio.ObjectInfo
		info, err = obj.Stat()
		if err == nil {
			metrics.UpstreamDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
			metrics.UpstreamRequests.WithLabelValues("get", "ok").Inc()

			contentType := info.ContentType
			if contentType == "" {
				contentType = DefaultContentType
			}
			return &Object{
				Body:          obj,
				ContentType:   contentType,
				ContentLength: info.Size,
				ETag:          info.ETag,
				LastModified:  info.LastModified.UTC().Format(time.RFC1123),
			}, nil
		}
		obj.Close()
	}

	metrics.UpstreamRequests.WithLabelValues("get", "error").Inc()
	return nil, toUpstreamError("get "+key, err)
}

// ObjectURL returns the path-style link for key
func (s *MinioBucket) ObjectURL(key string) string {
	u := s.client.EndpointURL()
	return strings.TrimRight(u.String(), "/") + "/" + EscapeKey(s.bucketName) + "/" + EscapeKey(key)
}

// GetBucketName returns the bucket name
func (s *MinioBucket) GetBucketName() string {
	return s.bucketName
}

func toUpstreamError(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode != 0 {
		return &UpstreamError{Op: op, Status: fmt.Sprintf("%d %s", resp.StatusCode, resp.Code), Code: resp.StatusCode}
	}
	return fmt.Errorf("%s: %w", op, err)
}
