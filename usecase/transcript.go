package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	domainCache "ytmcp/domains/cache"
	domainMedia "ytmcp/domains/media"
	domainTranscript "ytmcp/domains/transcript"
	"ytmcp/infrastructure/assemblyai"
	"ytmcp/pkg/cachekey"
	pkgError "ytmcp/pkg/error"
	"ytmcp/pkg/filetoken"
	"ytmcp/pkg/inflight"

	"github.com/sirupsen/logrus"
)

// Transcriber is the transcription collaborator. request-scoped API keys
// are passed per call so a shared client never holds caller credentials.
type Transcriber interface {
	Transcribe(ctx context.Context, apiKey, audioPath string) (assemblyai.Transcript, error)
}

type transcriptService struct {
	media         domainMedia.IMediaUsecase
	cache         domainCache.ICacheUsecase
	transcriber   Transcriber
	tokens        TokenIssuer
	jobs          *inflight.Registry
	defaultAPIKey string
	baseURL       string
}

func NewTranscriptService(media domainMedia.IMediaUsecase, cache domainCache.ICacheUsecase, transcriber Transcriber, tokens TokenIssuer, jobs *inflight.Registry, defaultAPIKey, baseURL string) domainTranscript.ITranscriptUsecase {
	return &transcriptService{
		media:         media,
		cache:         cache,
		transcriber:   transcriber,
		tokens:        tokens,
		jobs:          jobs,
		defaultAPIKey: defaultAPIKey,
		baseURL:       baseURL,
	}
}

func (s *transcriptService) signedURL(filePath string) (string, error) {
	token, err := s.tokens.Issue(filePath, filetoken.DefaultTTL)
	if err != nil {
		return "", err
	}
	return s.baseURL + "/files/" + token, nil
}

// Transcribe resolves the audio artifact first, then runs it through the
// transcription provider. The two stages report independently so a caller
// can tell which one failed.
func (s *transcriptService) Transcribe(ctx context.Context, request domainTranscript.TranscribeRequest) (domainTranscript.CombinedResult, error) {
	apiKey := request.APIKey
	if apiKey == "" {
		apiKey = s.defaultAPIKey
	}
	if apiKey == "" {
		err := pkgError.ValidationError("AssemblyAI API key is required: set ASSEMBLYAI_API_KEY or pass assemblyai_key")
		return domainTranscript.CombinedResult{
			Transcript: domainTranscript.Result{Error: err.Error()},
		}, err
	}

	audio, err := s.media.Resolve(ctx, request.URL, cachekey.KindAudio, cachekey.KindAudio.DefaultQuality())
	if err != nil {
		return domainTranscript.CombinedResult{Audio: audio}, err
	}

	// The transcript artifact shares the audio fingerprint, so a repeat
	// call for the same URL reads the stored provider JSON instead of
	// paying for a second job.
	key := cachekey.Derive(request.URL, cachekey.KindTranscript, cachekey.KindAudio.DefaultQuality())
	if entry, ok := s.cache.Lookup(key); ok {
		logrus.Debugf("[TRANSCRIPT] Cache hit for %s", key)
		return s.fromStored(audio, entry)
	}

	// At most one provider job per fingerprint, same rule as downloads.
	if !s.jobs.TryAcquire(key) {
		jobErr := pkgError.DownloadInProgressError(fmt.Sprintf("transcription already in progress for %s", request.URL))
		return domainTranscript.CombinedResult{
			Audio:      audio,
			Transcript: domainTranscript.Result{Error: jobErr.Error()},
		}, jobErr
	}
	defer s.jobs.Release(key)

	// Re-check under the slot: a concurrent caller may have stored the
	// transcript between Lookup and TryAcquire.
	if entry, ok := s.cache.Lookup(key); ok {
		return s.fromStored(audio, entry)
	}

	logrus.Infof("[TRANSCRIPT] Transcribing %s", audio.FilePath)
	// The provider job runs on a detached context so a dropped client
	// still leaves a finished transcript in the cache.
	transcript, err := s.transcriber.Transcribe(context.Background(), apiKey, audio.FilePath)
	if err != nil {
		collab := pkgError.CollaboratorError{Collaborator: "assemblyai", Message: err.Error()}
		logrus.Errorf("[TRANSCRIPT] %v", collab)
		return domainTranscript.CombinedResult{
			Audio:      audio,
			Transcript: domainTranscript.Result{Error: collab.Message},
		}, collab
	}

	transcriptPath := filepath.Join(s.cache.Dir(), key+cachekey.KindTranscript.Ext())
	if err := os.WriteFile(transcriptPath, transcript.Raw, 0o644); err != nil {
		logrus.Errorf("[TRANSCRIPT] Failed to persist transcript %s: %v", transcriptPath, err)
	} else {
		s.cache.Store(key, transcriptPath, cachekey.KindTranscript, int64(len(transcript.Raw)))
	}

	result := domainTranscript.Result{
		Success:    true,
		Text:       transcript.Text,
		Duration:   transcript.AudioDuration,
		Confidence: transcript.Confidence,
	}
	if url, err := s.signedURL(transcriptPath); err == nil {
		result.TranscriptURL = url
		result.ExpiresAt = audio.ExpiresAt
	}
	return domainTranscript.CombinedResult{Audio: audio, Transcript: result}, nil
}

func (s *transcriptService) fromStored(audio domainMedia.DownloadResponse, entry domainCache.Entry) (domainTranscript.CombinedResult, error) {
	raw, err := os.ReadFile(entry.FilePath)
	if err != nil {
		collab := pkgError.CollaboratorError{Collaborator: "cache", Message: "stored transcript unreadable: " + err.Error()}
		return domainTranscript.CombinedResult{
			Audio:      audio,
			Transcript: domainTranscript.Result{Error: collab.Message},
		}, collab
	}

	transcript, err := assemblyai.ParseTranscript(raw)
	if err != nil {
		collab := pkgError.CollaboratorError{Collaborator: "cache", Message: "stored transcript malformed: " + err.Error()}
		return domainTranscript.CombinedResult{
			Audio:      audio,
			Transcript: domainTranscript.Result{Error: collab.Message},
		}, collab
	}

	result := domainTranscript.Result{
		Success:    true,
		Text:       transcript.Text,
		Duration:   transcript.AudioDuration,
		Confidence: transcript.Confidence,
	}
	if url, err := s.signedURL(entry.FilePath); err == nil {
		result.TranscriptURL = url
		result.ExpiresAt = audio.ExpiresAt
	}
	return domainTranscript.CombinedResult{Audio: audio, Transcript: result}, nil
}
