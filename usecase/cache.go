package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	domainCache "ytmcp/domains/cache"
	"ytmcp/pkg/cachekey"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

var artifactExtensions = map[string]cachekey.Kind{
	".mp4":  cachekey.KindVideo,
	".mp3":  cachekey.KindAudio,
	".json": cachekey.KindTranscript,
}

type cacheService struct {
	dir         string
	settingsURI string

	mu         sync.RWMutex
	ttl        time.Duration
	sweepEvery time.Duration
	// index maps cache key to its entry. File modification time stays the
	// age authority so lookup and the sweeper always agree on staleness,
	// restarts included.
	index map[string]domainCache.Entry
}

func NewCacheService(dir, storagesDir string, ttl, sweepEvery time.Duration) domainCache.ICacheUsecase {
	s := &cacheService{
		dir:         dir,
		settingsURI: fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", filepath.Join(storagesDir, "settings.db")),
		ttl:         ttl,
		sweepEvery:  sweepEvery,
		index:       make(map[string]domainCache.Entry),
	}
	if settings, err := s.GetSettings(context.Background()); err == nil {
		s.applySettings(settings)
	}
	return s
}

func (s *cacheService) Dir() string {
	return s.dir
}

func (s *cacheService) currentTTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ttl
}

func (s *cacheService) Lookup(key string) (domainCache.Entry, bool) {
	ttl := s.currentTTL()

	s.mu.RLock()
	entry, ok := s.index[key]
	s.mu.RUnlock()

	if ok {
		info, err := os.Stat(entry.FilePath)
		if err != nil || time.Since(info.ModTime()) > ttl {
			// Stale or missing: report absent, the sweeper reclaims it.
			return domainCache.Entry{}, false
		}
		entry.LastAccessedAt = time.Now()
		s.mu.Lock()
		s.index[key] = entry
		s.mu.Unlock()
		return entry, true
	}

	// Not indexed: adopt a file left by a previous process, same staleness
	// formula as above.
	for ext, kind := range artifactExtensions {
		path := filepath.Join(s.dir, key+ext)
		info, err := os.Stat(path)
		if err != nil || time.Since(info.ModTime()) > ttl {
			continue
		}
		entry = domainCache.Entry{
			Key:            key,
			FilePath:       path,
			Kind:           kind,
			SizeBytes:      info.Size(),
			CreatedAt:      info.ModTime(),
			LastAccessedAt: time.Now(),
		}
		s.mu.Lock()
		s.index[key] = entry
		s.mu.Unlock()
		return entry, true
	}
	return domainCache.Entry{}, false
}

func (s *cacheService) Store(key, filePath string, kind cachekey.Kind, sizeBytes int64) domainCache.Entry {
	now := time.Now()
	entry := domainCache.Entry{
		Key:            key,
		FilePath:       filePath,
		Kind:           kind,
		SizeBytes:      sizeBytes,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	s.mu.Lock()
	s.index[key] = entry
	s.mu.Unlock()
	return entry
}

// EvictOlderThan walks the cache directory and removes every artifact whose
// age exceeds ttl. The index entry goes first, the file second, so a
// concurrent Lookup can never hand out a path mid-deletion.
func (s *cacheService) EvictOlderThan(ttl time.Duration) int {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		logrus.Errorf("[CACHE] Cannot read cache dir: %v", err)
		return 0
	}

	count := 0
	cutoff := time.Now().Add(-ttl)
	for _, f := range files {
		if f.IsDir() || f.Name() == ".gitignore" {
			continue
		}
		info, err := f.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		key := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		s.mu.Lock()
		delete(s.index, key)
		s.mu.Unlock()

		path := filepath.Join(s.dir, f.Name())
		if err := os.Remove(path); err != nil {
			logrus.Errorf("[CACHE] Failed to delete %s: %v", path, err)
			continue
		}
		logrus.Infof("[CACHE] Deleted old file: %s", path)
		count++
	}
	return count
}

func (s *cacheService) ListFiles() ([]domainCache.FileInfo, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	out := make([]domainCache.FileInfo, 0, len(files))
	for _, f := range files {
		if f.IsDir() || f.Name() == ".gitignore" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}

		ext := filepath.Ext(f.Name())
		kind, known := artifactExtensions[ext]
		if !known {
			continue
		}
		key := strings.TrimSuffix(f.Name(), ext)

		fi := domainCache.FileInfo{
			Filename: f.Name(),
			Key:      key,
			Kind:     string(kind),
			Size:     info.Size(),
			SizeMB:   float64(info.Size()) / (1024 * 1024),
			Modified: info.ModTime().UTC().Format(time.RFC3339),
		}
		switch kind {
		case cachekey.KindAudio:
			fi.ResourceURI = "youtube://cache/audio/" + key
		case cachekey.KindTranscript:
			fi.ResourceURI = "youtube://cache/transcript/" + key
		}
		out = append(out, fi)
	}
	return out, nil
}

func (s *cacheService) GetStats(ctx context.Context) (domainCache.CacheStats, error) {
	var totalSize int64
	err := filepath.Walk(s.dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && info.Name() != ".gitignore" {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		return domainCache.CacheStats{}, err
	}
	return domainCache.CacheStats{
		TotalSize: totalSize,
		HumanSize: humanize.Bytes(uint64(totalSize)),
	}, nil
}

func (s *cacheService) GetSettings(ctx context.Context) (domainCache.CacheSettings, error) {
	db, err := sql.Open("sqlite3", s.settingsURI)
	if err != nil {
		return domainCache.CacheSettings{}, err
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_settings (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		return domainCache.CacheSettings{}, err
	}

	s.mu.RLock()
	settings := domainCache.CacheSettings{
		MaxAgeDays:      int(s.ttl / (24 * time.Hour)),
		CleanupInterval: int(s.sweepEvery / time.Minute),
	}
	s.mu.RUnlock()

	rows, err := db.Query(`SELECT key, value FROM global_settings WHERE key LIKE 'cache_%'`)
	if err != nil {
		return settings, nil
	}
	defer rows.Close()

	for rows.Next() {
		var key, val string
		if err := rows.Scan(&key, &val); err == nil {
			switch key {
			case "cache_max_age_days":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					settings.MaxAgeDays = n
				}
			case "cache_cleanup_interval":
				if n, err := strconv.Atoi(val); err == nil && n > 0 {
					settings.CleanupInterval = n
				}
			}
		}
	}
	return settings, nil
}

func (s *cacheService) SaveSettings(ctx context.Context, settings domainCache.CacheSettings) error {
	db, err := sql.Open("sqlite3", s.settingsURI)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_settings (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		return err
	}

	save := func(key, val string) error {
		_, err := db.Exec(`INSERT INTO global_settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, val)
		return err
	}
	if err := save("cache_max_age_days", strconv.Itoa(settings.MaxAgeDays)); err != nil {
		return err
	}
	if err := save("cache_cleanup_interval", strconv.Itoa(settings.CleanupInterval)); err != nil {
		return err
	}

	s.applySettings(settings)
	return nil
}

func (s *cacheService) applySettings(settings domainCache.CacheSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings.MaxAgeDays > 0 {
		s.ttl = time.Duration(settings.MaxAgeDays) * 24 * time.Hour
	}
	if settings.CleanupInterval > 0 {
		s.sweepEvery = time.Duration(settings.CleanupInterval) * time.Minute
	}
}

// StartBackgroundCleanup runs the retention sweeper until ctx is cancelled.
func (s *cacheService) StartBackgroundCleanup(ctx context.Context) {
	go func() {
		for {
			logrus.Info("[CACHE] Running scheduled cleanup...")
			if n := s.EvictOlderThan(s.currentTTL()); n > 0 {
				logrus.Infof("[CACHE] Evicted %d expired artifact(s)", n)
			}

			s.mu.RLock()
			interval := s.sweepEvery
			s.mu.RUnlock()
			if interval < time.Minute {
				interval = time.Minute
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}
		}
	}()
}
