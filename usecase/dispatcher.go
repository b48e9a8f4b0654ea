package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	domainCache "ytmcp/domains/cache"
	domainMedia "ytmcp/domains/media"
	domainProtocol "ytmcp/domains/protocol"
	domainTranscript "ytmcp/domains/transcript"
	"ytmcp/pkg/cachekey"
	pkgError "ytmcp/pkg/error"
	"ytmcp/validations"

	"github.com/sirupsen/logrus"
)

type dispatcherService struct {
	media      domainMedia.IMediaUsecase
	transcript domainTranscript.ITranscriptUsecase
	cache      domainCache.ICacheUsecase
}

func NewDispatcherService(media domainMedia.IMediaUsecase, transcript domainTranscript.ITranscriptUsecase, cache domainCache.ICacheUsecase) domainProtocol.IDispatcher {
	return &dispatcherService{
		media:      media,
		transcript: transcript,
		cache:      cache,
	}
}

func urlProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "YouTube video URL",
	}
}

func (s *dispatcherService) ListTools(ctx context.Context) []domainProtocol.Tool {
	return []domainProtocol.Tool{
		{
			Name:        domainProtocol.ToolDownloadVideo,
			Description: "Download a YouTube video in MP4 format",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": urlProperty(),
					"quality": map[string]any{
						"type":        "string",
						"description": "Video quality (best, 1080, 720, 480, 360)",
						"default":     "best",
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        domainProtocol.ToolDownloadAudio,
			Description: "Download audio from YouTube video in MP3 format",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": urlProperty(),
					"quality": map[string]any{
						"type":        "string",
						"description": "Audio bitrate (320, 256, 192, 128)",
						"default":     "192",
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        domainProtocol.ToolTranscribe,
			Description: "Download and transcribe YouTube video audio",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": urlProperty(),
					"assemblyai_key": map[string]any{
						"type":        "string",
						"description": "AssemblyAI API key (optional if set in environment)",
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        domainProtocol.ToolGetInfo,
			Description: "Get metadata about a YouTube video",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": urlProperty(),
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        domainProtocol.ToolListCache,
			Description: "List all cached YouTube files. Use this to see what videos/audio/transcripts are already downloaded. You can also access cached files via resources: youtube://cache/list",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
				"required":   []string{},
			},
		},
	}
}

func stringArg(arguments map[string]any, key string) string {
	if v, ok := arguments[key].(string); ok {
		return v
	}
	return ""
}

// errResult maps an error into a transport-safe result. Typed errors carry
// their code across the boundary; anything else is reported verbatim.
func errResult(err error) domainProtocol.ToolResult {
	result := domainProtocol.ToolResult{Error: err.Error()}
	if generic, ok := err.(pkgError.GenericError); ok {
		result.Code = generic.ErrCode()
	}
	return result
}

func (s *dispatcherService) CallTool(ctx context.Context, name string, arguments map[string]any) domainProtocol.ToolResult {
	logrus.Debugf("[DISPATCH] Tool call: %s", name)

	switch name {
	case domainProtocol.ToolDownloadVideo:
		return s.callDownload(ctx, arguments, cachekey.KindVideo)
	case domainProtocol.ToolDownloadAudio:
		return s.callDownload(ctx, arguments, cachekey.KindAudio)
	case domainProtocol.ToolTranscribe:
		return s.callTranscribe(ctx, arguments)
	case domainProtocol.ToolGetInfo:
		return s.callGetInfo(ctx, arguments)
	case domainProtocol.ToolListCache:
		return s.callListCache(ctx)
	default:
		return domainProtocol.ToolResult{
			Error: fmt.Sprintf("Unknown tool: %s", name),
			Code:  "UNKNOWN_TOOL",
		}
	}
}

func (s *dispatcherService) callDownload(ctx context.Context, arguments map[string]any, kind cachekey.Kind) domainProtocol.ToolResult {
	request := domainMedia.DownloadRequest{
		URL:     stringArg(arguments, "url"),
		Quality: stringArg(arguments, "quality"),
	}
	if err := validations.ValidateDownload(ctx, request); err != nil {
		return errResult(err)
	}

	response, err := s.media.Resolve(ctx, request.URL, kind, request.Quality)
	if err != nil {
		return errResult(err)
	}
	return domainProtocol.ToolResult{Success: true, Payload: response}
}

func (s *dispatcherService) callTranscribe(ctx context.Context, arguments map[string]any) domainProtocol.ToolResult {
	request := domainTranscript.TranscribeRequest{
		URL:    stringArg(arguments, "url"),
		APIKey: stringArg(arguments, "assemblyai_key"),
	}
	if err := validations.ValidateTranscribe(ctx, request); err != nil {
		return errResult(err)
	}

	combined, err := s.transcript.Transcribe(ctx, request)
	if err != nil {
		result := errResult(err)
		// The audio stage may have succeeded even when transcription did
		// not; keep it so the caller does not re-download.
		result.Payload = combined
		return result
	}
	return domainProtocol.ToolResult{Success: true, Payload: combined}
}

func (s *dispatcherService) callGetInfo(ctx context.Context, arguments map[string]any) domainProtocol.ToolResult {
	request := domainMedia.DownloadRequest{URL: stringArg(arguments, "url")}
	if err := validations.ValidateDownload(ctx, request); err != nil {
		return errResult(err)
	}

	info, err := s.media.Metadata(ctx, request.URL)
	if err != nil {
		return errResult(err)
	}
	return domainProtocol.ToolResult{Success: true, Payload: info}
}

func (s *dispatcherService) callListCache(ctx context.Context) domainProtocol.ToolResult {
	files, err := s.cache.ListFiles()
	if err != nil {
		return errResult(err)
	}
	return domainProtocol.ToolResult{
		Success: true,
		Payload: map[string]any{
			"success":     true,
			"cache_dir":   s.cache.Dir(),
			"total_files": len(files),
			"files":       files,
			"note":        "You can access these files using the resource URIs listed",
		},
	}
}

func (s *dispatcherService) ListResources(ctx context.Context) ([]domainProtocol.Resource, error) {
	resources := []domainProtocol.Resource{
		{
			URI:         domainProtocol.ResourceCacheList,
			Name:        "Cached Files List",
			Description: "List all cached YouTube downloads",
			MIMEType:    "application/json",
		},
	}

	files, err := s.cache.ListFiles()
	if err != nil {
		logrus.Errorf("[DISPATCH] Error listing cache files: %v", err)
		return resources, nil
	}

	for _, f := range files {
		switch cachekey.Kind(f.Kind) {
		case cachekey.KindAudio:
			resources = append(resources, domainProtocol.Resource{
				URI:         f.ResourceURI,
				Name:        "Audio: " + f.Key,
				Description: "Cached audio file",
				MIMEType:    "audio/mpeg",
			})
		case cachekey.KindTranscript:
			resources = append(resources, domainProtocol.Resource{
				URI:         f.ResourceURI,
				Name:        "Transcript: " + f.Key,
				Description: "Cached transcript",
				MIMEType:    "application/json",
			})
		}
	}
	return resources, nil
}

func (s *dispatcherService) ReadResource(ctx context.Context, uri string) (domainProtocol.ResourceContent, error) {
	switch {
	case uri == domainProtocol.ResourceCacheList:
		files, err := s.cache.ListFiles()
		if err != nil {
			return domainProtocol.ResourceContent{}, err
		}
		text, err := json.MarshalIndent(files, "", "  ")
		if err != nil {
			return domainProtocol.ResourceContent{}, err
		}
		return domainProtocol.ResourceContent{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(text),
		}, nil

	case strings.HasPrefix(uri, domainProtocol.ResourceSchemePrefix+"audio/"):
		key := strings.TrimPrefix(uri, domainProtocol.ResourceSchemePrefix+"audio/")
		entry, ok := s.cache.Lookup(key)
		if !ok || entry.Kind != cachekey.KindAudio {
			return domainProtocol.ResourceContent{}, pkgError.NotFoundError(fmt.Sprintf("Audio file not found: %s", key))
		}
		raw, err := os.ReadFile(entry.FilePath)
		if err != nil {
			return domainProtocol.ResourceContent{}, err
		}
		return domainProtocol.ResourceContent{
			URI:      uri,
			MIMEType: "audio/mpeg",
			Blob:     base64.StdEncoding.EncodeToString(raw),
		}, nil

	case strings.HasPrefix(uri, domainProtocol.ResourceSchemePrefix+"transcript/"):
		key := strings.TrimPrefix(uri, domainProtocol.ResourceSchemePrefix+"transcript/")
		entry, ok := s.cache.Lookup(key)
		if !ok || entry.Kind != cachekey.KindTranscript {
			return domainProtocol.ResourceContent{}, pkgError.NotFoundError(fmt.Sprintf("Transcript file not found: %s", key))
		}
		raw, err := os.ReadFile(entry.FilePath)
		if err != nil {
			return domainProtocol.ResourceContent{}, err
		}
		return domainProtocol.ResourceContent{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(raw),
		}, nil

	default:
		return domainProtocol.ResourceContent{}, pkgError.NotFoundError(fmt.Sprintf("Unknown resource URI: %s", uri))
	}
}
