package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public bucket browsed when S3_BASE_URL is unset
const DefaultBaseURL = "https://geonet-open-data.s3-ap-southeast-2.amazonaws.com"

// Storage backends
const (
	BackendHTTP  = "http"
	BackendMinio = "minio"
)

// Config holds all application configuration
type Config struct {
	Port            string
	Backend         string
	BaseURL         string
	UseProxy        bool
	UpstreamTimeout time.Duration
	CorsOrigin      string
	ProxyRateLimit  int
	MetricsAddr     string
	LogToFile       bool
	S3              S3Config
	Minio           MinioConfig
}

// S3Config holds optional SigV4 credentials for the http backend.
// Requests are sent unsigned when AccessKeyID is empty.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// MinioConfig holds MinIO configuration
type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

// Load configuration from environment or use defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		Backend:         strings.ToLower(getEnv("STORAGE_BACKEND", BackendHTTP)),
		BaseURL:         strings.TrimRight(getEnv("S3_BASE_URL", DefaultBaseURL), "/"),
		UseProxy:        getEnvBool("USE_PROXY", false),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		CorsOrigin:      getEnv("CORS_ORIGIN", ""),
		ProxyRateLimit:  getEnvInt("PROXY_RATE_LIMIT", 0),
		MetricsAddr:     getEnv("METRICS_ADDR", ""),
		LogToFile:       getEnvBool("LOG_FILE", true),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
		Minio: MinioConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:          getEnvBool("MINIO_USE_SSL", false),
			BucketName:      getEnv("MINIO_BUCKET_NAME", "public"),
			Region:          getEnv("MINIO_REGION", "us-east-1"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot fall back to a default
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid S3_BASE_URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid S3_BASE_URL %q: scheme must be http or https", c.BaseURL)
		}
	case BackendMinio:
		if c.Minio.Endpoint == "" || c.Minio.BucketName == "" {
			return fmt.Errorf("minio backend requires MINIO_ENDPOINT and MINIO_BUCKET_NAME")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Backend)
	}
	if c.ProxyRateLimit < 0 {
		c.ProxyRateLimit = 0
	}
	return nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// Helper function to get a boolean from environment variable.
// Only "true" enables a flag, matching the USE_PROXY convention.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return strings.EqualFold(value, "true")
}

// Helper function to get duration from environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// Helper function to get int from environment variable
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
