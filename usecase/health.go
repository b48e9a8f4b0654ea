package usecase

import (
	"context"
	"os"
	"sync"
	"time"

	domainCache "ytmcp/domains/cache"
	domainHealth "ytmcp/domains/health"
	"ytmcp/pkg/inflight"
)

type healthService struct {
	cache     domainCache.ICacheUsecase
	downloads *inflight.Registry
	baseURL   string

	mu       sync.RWMutex
	mode     string
	sessions func() int
}

func NewHealthService(cache domainCache.ICacheUsecase, downloads *inflight.Registry, baseURL string) domainHealth.IHealthUsecase {
	return &healthService{
		cache:     cache,
		downloads: downloads,
		baseURL:   baseURL,
		mode:      "stdio",
	}
}

func (s *healthService) SetMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

func (s *healthService) SetSessionCounter(counter func() int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = counter
}

func (s *healthService) GetStatus(ctx context.Context) domainHealth.ServerStatus {
	s.mu.RLock()
	mode := s.mode
	counter := s.sessions
	s.mu.RUnlock()

	sessions := 0
	if counter != nil {
		sessions = counter()
	}

	cacheDir := s.cache.Dir()
	_, statErr := os.Stat(cacheDir)

	return domainHealth.ServerStatus{
		Status:          "healthy",
		Service:         "youtube-mcp-server",
		Mode:            mode,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		CacheDir:        cacheDir,
		CacheExists:     statErr == nil,
		FileServerURL:   s.baseURL + "/files",
		ActiveDownloads: s.downloads.Len(),
		MCPEnabled:      true,
		MCPSessions:     sessions,
	}
}
