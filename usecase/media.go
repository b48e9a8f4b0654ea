package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	domainCache "ytmcp/domains/cache"
	domainMedia "ytmcp/domains/media"
	"ytmcp/infrastructure/ytdlp"
	"ytmcp/pkg/cachekey"
	pkgError "ytmcp/pkg/error"
	"ytmcp/pkg/filetoken"
	"ytmcp/pkg/inflight"

	"github.com/sirupsen/logrus"
)

// Extractor is the media engine as seen by the orchestrator. Declared here
// so tests can substitute a fake without spawning subprocesses.
type Extractor interface {
	Download(ctx context.Context, url string, kind cachekey.Kind, quality, outputPath string) (ytdlp.Info, error)
	Probe(ctx context.Context, url string) (ytdlp.Info, error)
}

// TokenIssuer mints signed file access tokens.
type TokenIssuer interface {
	Issue(filePath string, ttl time.Duration) (string, error)
}

type mediaService struct {
	cache     domainCache.ICacheUsecase
	extractor Extractor
	tokens    TokenIssuer
	downloads *inflight.Registry
	baseURL   string
}

func NewMediaService(cache domainCache.ICacheUsecase, extractor Extractor, tokens TokenIssuer, downloads *inflight.Registry, baseURL string) domainMedia.IMediaUsecase {
	return &mediaService{
		cache:     cache,
		extractor: extractor,
		tokens:    tokens,
		downloads: downloads,
		baseURL:   baseURL,
	}
}

func (s *mediaService) signedURL(filePath string) (string, string, error) {
	token, err := s.tokens.Issue(filePath, filetoken.DefaultTTL)
	if err != nil {
		return "", "", err
	}
	expires := time.Now().Add(filetoken.DefaultTTL).UTC().Format(time.RFC3339)
	return s.baseURL + "/files/" + token, expires, nil
}

func (s *mediaService) fromEntry(entry domainCache.Entry, title string, duration float64, cached bool) (domainMedia.DownloadResponse, error) {
	url, expires, err := s.signedURL(entry.FilePath)
	if err != nil {
		return domainMedia.DownloadResponse{Error: err.Error()}, err
	}
	return domainMedia.DownloadResponse{
		Success:   true,
		FilePath:  entry.FilePath,
		URL:       url,
		Title:     title,
		Duration:  duration,
		Size:      entry.SizeBytes,
		Cached:    cached,
		ExpiresAt: expires,
	}, nil
}

// Resolve serves url's artifact from cache when fresh, otherwise downloads
// it. At most one download per fingerprint runs at a time; a second caller
// gets DownloadInProgressError instead of a queue slot.
func (s *mediaService) Resolve(ctx context.Context, url string, kind cachekey.Kind, quality string) (domainMedia.DownloadResponse, error) {
	if quality == "" {
		quality = kind.DefaultQuality()
	}
	key := cachekey.Derive(url, kind, quality)

	if entry, ok := s.cache.Lookup(key); ok {
		logrus.Debugf("[MEDIA] Cache hit for %s (%s)", key, kind)
		return s.fromEntry(entry, "", 0, true)
	}

	if !s.downloads.TryAcquire(key) {
		err := pkgError.DownloadInProgressError(fmt.Sprintf("download already in progress for %s", url))
		return domainMedia.DownloadResponse{Error: err.Error()}, err
	}
	defer s.downloads.Release(key)

	// Re-check under the slot: a concurrent caller may have finished the
	// download between Lookup and TryAcquire.
	if entry, ok := s.cache.Lookup(key); ok {
		return s.fromEntry(entry, "", 0, true)
	}

	logrus.Infof("[MEDIA] Downloading %s as %s (quality %s)", url, kind, quality)
	// The subprocess runs on a detached context so a dropped client cannot
	// leave a truncated artifact in the cache directory.
	template := filepath.Join(s.cache.Dir(), key+".%(ext)s")
	info, err := s.extractor.Download(context.Background(), url, kind, quality, template)
	if err != nil {
		collab := pkgError.CollaboratorError{Collaborator: "yt-dlp", Message: err.Error()}
		logrus.Errorf("[MEDIA] %v", collab)
		return domainMedia.DownloadResponse{Error: collab.Message}, collab
	}

	finalPath := filepath.Join(s.cache.Dir(), key+kind.Ext())
	stat, err := os.Stat(finalPath)
	if err != nil {
		collab := pkgError.CollaboratorError{Collaborator: "yt-dlp", Message: "download finished but artifact is missing: " + err.Error()}
		logrus.Errorf("[MEDIA] %v", collab)
		return domainMedia.DownloadResponse{Error: collab.Message}, collab
	}

	entry := s.cache.Store(key, finalPath, kind, stat.Size())
	return s.fromEntry(entry, info.Title, info.Duration, false)
}

func (s *mediaService) Metadata(ctx context.Context, url string) (domainMedia.VideoInfo, error) {
	info, err := s.extractor.Probe(ctx, url)
	if err != nil {
		return domainMedia.VideoInfo{}, pkgError.CollaboratorError{Collaborator: "yt-dlp", Message: err.Error()}
	}
	return domainMedia.VideoInfo{
		Title:       info.Title,
		Description: info.Description,
		Duration:    info.Duration,
		Uploader:    info.Uploader,
		UploadDate:  info.UploadDate,
		ViewCount:   info.ViewCount,
		LikeCount:   info.LikeCount,
		Thumbnail:   info.Thumbnail,
		Formats:     len(info.Formats),
		Subtitles:   info.SubtitleLanguages(),
	}, nil
}
