package transcript

import (
	"context"

	"ytmcp/domains/media"
)

// TranscribeRequest asks for a transcript of a YouTube URL. APIKey overrides
// the server-wide AssemblyAI credential for this call only.
type TranscribeRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"assemblyai_key,omitempty"`
}

type Result struct {
	Success       bool    `json:"success"`
	Text          string  `json:"text,omitempty"`
	TranscriptURL string  `json:"transcript_url,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
	ExpiresAt     string  `json:"expires_at,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// CombinedResult keeps the audio and transcript stages separate so callers
// can tell a download failure apart from a transcription failure.
type CombinedResult struct {
	Audio      media.DownloadResponse `json:"audio"`
	Transcript Result                 `json:"transcript"`
}

type ITranscriptUsecase interface {
	Transcribe(ctx context.Context, request TranscribeRequest) (CombinedResult, error)
}
