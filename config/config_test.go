package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_BACKEND", "S3_BASE_URL", "USE_PROXY", "UPSTREAM_TIMEOUT", "PROXY_RATE_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, BackendHTTP, cfg.Backend)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.False(t, cfg.UseProxy)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 0, cfg.ProxyRateLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("S3_BASE_URL", "http://localhost:9000/bucket/")
	t.Setenv("USE_PROXY", "true")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("PROXY_RATE_LIMIT", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/bucket", cfg.BaseURL)
	assert.True(t, cfg.UseProxy)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 60, cfg.ProxyRateLimit)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("USE_PROXY", "yes")
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	t.Setenv("PROXY_RATE_LIMIT", "many")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.UseProxy)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 0, cfg.ProxyRateLimit)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"STORAGE_BACKEND": "ftp"}},
		{name: "base url without scheme", env: map[string]string{"S3_BASE_URL": "bucket.example.com"}},
		{name: "base url with ftp scheme", env: map[string]string{"S3_BASE_URL": "ftp://bucket.example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
