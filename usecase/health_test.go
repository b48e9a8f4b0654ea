package usecase

import (
	"context"
	"testing"
	"time"

	"ytmcp/pkg/inflight"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthStatus(t *testing.T) {
	cache := newTestCache(t, time.Hour)
	registry := inflight.NewRegistry()
	svc := NewHealthService(cache, registry, "http://localhost:8080")

	status := svc.GetStatus(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "youtube-mcp-server", status.Service)
	assert.Equal(t, "stdio", status.Mode)
	assert.Equal(t, cache.Dir(), status.CacheDir)
	assert.True(t, status.CacheExists)
	assert.Equal(t, "http://localhost:8080/files", status.FileServerURL)
	assert.Equal(t, 0, status.ActiveDownloads)
	assert.True(t, status.MCPEnabled)
	assert.Equal(t, 0, status.MCPSessions)

	_, err := time.Parse(time.RFC3339, status.Timestamp)
	require.NoError(t, err)
}

func TestHealthReflectsCounters(t *testing.T) {
	cache := newTestCache(t, time.Hour)
	registry := inflight.NewRegistry()
	svc := NewHealthService(cache, registry, "http://localhost:8080")

	svc.SetMode("http")
	svc.SetSessionCounter(func() int { return 4 })
	require.True(t, registry.TryAcquire("k1"))
	defer registry.Release("k1")

	status := svc.GetStatus(context.Background())
	assert.Equal(t, "http", status.Mode)
	assert.Equal(t, 1, status.ActiveDownloads)
	assert.Equal(t, 4, status.MCPSessions)
}
