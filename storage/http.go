package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bucketindex/config"
	"bucketindex/listing"
	"bucketindex/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

const unsignedPayload = "UNSIGNED-PAYLOAD"

// HTTPBucket talks to a bucket through its public REST endpoints.
// Requests are SigV4 signed when credentials are configured.
type HTTPBucket struct {
	base    string
	client  *http.Client
	timeout time.Duration
	signer  *v4.Signer
	creds   aws.Credentials
	region  string
	logger  *log.Logger
}

// NewHTTPBucket creates a bucket rooted at baseURL
func NewHTTPBucket(baseURL string, s3 config.S3Config, timeout time.Duration, logger *log.Logger) (*HTTPBucket, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[STORAGE] ", log.LstdFlags)
	}

	base := strings.TrimRight(baseURL, "/")
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	// Timeout bounds connecting and waiting for headers only; proxied
	// bodies may legitimately stream for longer.
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
	}

	b := &HTTPBucket{
		base:    base,
		client:  &http.Client{Transport: tr},
		timeout: timeout,
		region:  s3.Region,
		logger:  logger,
	}
	if s3.AccessKeyID != "" {
		b.signer = v4.NewSigner()
		b.creds = aws.Credentials{
			AccessKeyID:     s3.AccessKeyID,
			SecretAccessKey: s3.SecretAccessKey,
			Source:          "static",
		}
	}
	return b, nil
}

// List fetches one page of `?prefix=<p>&delimiter=/` and parses it
func (b *HTTPBucket) List(ctx context.Context, prefix string) (*listing.Result, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	q := url.Values{}
	q.Set("prefix", prefix)
	q.Set("delimiter", Delimiter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.base+"/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}

	start := time.Now()
	resp, err := b.do(req)
	metrics.UpstreamDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		metrics.UpstreamRequests.WithLabelValues("list", "error").Inc()
		return nil, &UpstreamError{Op: "list", Status: resp.Status, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	metrics.UpstreamRequests.WithLabelValues("list", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}

	res := listing.Parse(body, prefix)
	if res.Truncated {
		b.logger.Printf("Listing of %q was truncated by the provider, showing the first page only", prefix)
	}
	return res, nil
}

// Open issues the object GET and hands back the streaming body
func (b *HTTPBucket) Open(ctx context.Context, key string) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.ObjectURL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build object request: %w", err)
	}

	start := time.Now()
	resp, err := b.do(req)
	metrics.UpstreamDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("failed to fetch object: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		metrics.UpstreamRequests.WithLabelValues("get", "error").Inc()
		return nil, &UpstreamError{Op: "get " + key, Status: resp.Status, Code: resp.StatusCode}
	}
	metrics.UpstreamRequests.WithLabelValues("get", "ok").Inc()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = DefaultContentType
	}
	return &Object{
		Body:          resp.Body,
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		ETag:          resp.Header.Get("ETag"),
		LastModified:  resp.Header.Get("Last-Modified"),
	}, nil
}

// ObjectURL returns <base>/<escaped key>
func (b *HTTPBucket) ObjectURL(key string) string {
	return b.base + "/" + EscapeKey(key)
}

// GetBucketName returns the base url
func (b *HTTPBucket) GetBucketName() string {
	return b.base
}

func (b *HTTPBucket) do(req *http.Request) (*http.Response, error) {
	if b.signer != nil {
		req.Header.Set("x-amz-content-sha256", unsignedPayload)
		err := b.signer.SignHTTP(
			req.Context(), b.creds, req, unsignedPayload, "s3", b.region, time.Now().UTC(),
			func(o *v4.SignerOptions) { o.DisableURIPathEscaping = true },
		)
		if err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
	}
	return b.client.Do(req)
}
