// Package protocol defines the transport-agnostic dispatch contract shared
// by the stdio and HTTP bindings. Both translate wire format only; tool
// semantics live behind this interface exactly once.
package protocol

import "context"

const (
	ToolDownloadVideo = "youtube_download_video"
	ToolDownloadAudio = "youtube_download_audio"
	ToolTranscribe    = "youtube_transcribe"
	ToolGetInfo       = "youtube_get_info"
	ToolListCache     = "youtube_list_cache"
)

const (
	PromptQuickSummary  = "youtube-quick-summary"
	PromptToNotes       = "youtube-to-notes"
	PromptExtractQuotes = "youtube-extract-quotes"
	PromptToBlog        = "youtube-to-blog"
)

const (
	ResourceSchemePrefix = "youtube://cache/"
	ResourceCacheList    = "youtube://cache/list"
)

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ToolResult is the unit of work crossing the dispatcher boundary. A tool
// call always produces a result, never a panic across the transport.
type ToolResult struct {
	Success bool   `json:"success"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

// ResourceContent carries either Text or a base64 Blob, mirroring how
// text-based transports ship binary content.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Arguments   []PromptArgument `json:"arguments"`
}

type PromptMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type IDispatcher interface {
	ListTools(ctx context.Context) []Tool
	// CallTool routes name to its handler. Unknown names and argument
	// validation failures come back as structured error results.
	CallTool(ctx context.Context, name string, arguments map[string]any) ToolResult
	ListResources(ctx context.Context) ([]Resource, error)
	ReadResource(ctx context.Context, uri string) (ResourceContent, error)
	ListPrompts(ctx context.Context) []Prompt
	GetPrompt(ctx context.Context, name string, arguments map[string]string) ([]PromptMessage, error)
}
