package media

import (
	"context"

	"ytmcp/pkg/cachekey"
)

// DownloadRequest asks for a video or audio artifact of a YouTube URL.
type DownloadRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

// DownloadResponse mirrors what the tools return to callers: a local path
// plus a signed, short-lived URL for remote retrieval.
type DownloadResponse struct {
	Success   bool    `json:"success"`
	FilePath  string  `json:"file_path,omitempty"`
	URL       string  `json:"url,omitempty"`
	Title     string  `json:"title,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	Size      int64   `json:"size,omitempty"`
	Cached    bool    `json:"cached"`
	ExpiresAt string  `json:"expires_at,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// VideoInfo is the collaborator-reported metadata set, passed through
// without interpretation.
type VideoInfo struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    float64  `json:"duration"`
	Uploader    string   `json:"uploader"`
	UploadDate  string   `json:"upload_date,omitempty"`
	ViewCount   int64    `json:"view_count"`
	LikeCount   int64    `json:"like_count,omitempty"`
	Thumbnail   string   `json:"thumbnail"`
	Formats     int      `json:"formats"`
	Subtitles   []string `json:"subtitles"`
}

type IMediaUsecase interface {
	// Resolve returns a cached artifact or downloads a fresh one. It fails
	// with pkgError.DownloadInProgressError when the same fingerprint is
	// already being fetched, and pkgError.CollaboratorError when the
	// extraction engine reports a failure.
	Resolve(ctx context.Context, url string, kind cachekey.Kind, quality string) (DownloadResponse, error)
	Metadata(ctx context.Context, url string) (VideoInfo, error)
}
