package cache

import (
	"context"
	"time"

	"ytmcp/pkg/cachekey"
)

// Entry describes one completed artifact owned by the cache.
type Entry struct {
	Key            string        `json:"key"`
	FilePath       string        `json:"file_path"`
	Kind           cachekey.Kind `json:"kind"`
	SizeBytes      int64         `json:"size_bytes"`
	CreatedAt      time.Time     `json:"created_at"`
	LastAccessedAt time.Time     `json:"last_accessed_at"`
}

// FileInfo is the list-cache view of a cached file.
type FileInfo struct {
	Filename    string  `json:"filename"`
	Key         string  `json:"cache_key"`
	Kind        string  `json:"type"`
	Size        int64   `json:"size"`
	SizeMB      float64 `json:"size_mb"`
	Modified    string  `json:"modified"`
	ResourceURI string  `json:"resource_uri,omitempty"`
}

type CacheStats struct {
	TotalSize int64  `json:"total_size"`
	HumanSize string `json:"human_size"`
}

type CacheSettings struct {
	MaxAgeDays      int `json:"max_age_days"`
	CleanupInterval int `json:"cleanup_interval_mins"` // in minutes
}

type ICacheUsecase interface {
	// Lookup returns the entry for key if present and younger than the TTL;
	// stale entries are reported absent and left for the sweeper.
	Lookup(key string) (Entry, bool)
	// Store registers filePath as the artifact for key, replacing any prior
	// entry. The file becomes cache-owned.
	Store(key, filePath string, kind cachekey.Kind, sizeBytes int64) Entry
	// EvictOlderThan removes every entry (and backing file) older than ttl
	// and reports how many were evicted.
	EvictOlderThan(ttl time.Duration) int

	ListFiles() ([]FileInfo, error)
	GetStats(ctx context.Context) (CacheStats, error)
	GetSettings(ctx context.Context) (CacheSettings, error)
	SaveSettings(ctx context.Context, settings CacheSettings) error
	StartBackgroundCleanup(ctx context.Context)
	Dir() string
}
