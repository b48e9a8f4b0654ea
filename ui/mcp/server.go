// Package mcp binds the dispatcher to the standard MCP stdio transport.
// All tool, resource, and prompt semantics live in the dispatcher; this
// layer only translates between mcp-go types and the domain contract.
package mcp

import (
	"context"
	"fmt"
	"strings"

	domainProtocol "ytmcp/domains/protocol"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type Server struct {
	dispatcher domainProtocol.IDispatcher
	mcpServer  *server.MCPServer
}

func NewServer(dispatcher domainProtocol.IDispatcher, version string) *Server {
	s := &Server{
		dispatcher: dispatcher,
		mcpServer: server.NewMCPServer(
			"youtube-mcp-server",
			version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(true, true),
			server.WithPromptCapabilities(true),
		),
	}

	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// ServeStdio blocks serving the protocol over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(domainProtocol.ToolDownloadVideo,
			mcp.WithDescription("Download a YouTube video in MP4 format"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("url",
				mcp.Required(),
				mcp.Description("YouTube video URL"),
			),
			mcp.WithString("quality",
				mcp.Description("Video quality (best, 1080, 720, 480, 360)"),
				mcp.DefaultString("best"),
			),
		),
		s.dispatch(domainProtocol.ToolDownloadVideo),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(domainProtocol.ToolDownloadAudio,
			mcp.WithDescription("Download audio from YouTube video in MP3 format"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("url",
				mcp.Required(),
				mcp.Description("YouTube video URL"),
			),
			mcp.WithString("quality",
				mcp.Description("Audio bitrate (320, 256, 192, 128)"),
				mcp.DefaultString("192"),
			),
		),
		s.dispatch(domainProtocol.ToolDownloadAudio),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(domainProtocol.ToolTranscribe,
			mcp.WithDescription("Download and transcribe YouTube video audio"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("url",
				mcp.Required(),
				mcp.Description("YouTube video URL"),
			),
			mcp.WithString("assemblyai_key",
				mcp.Description("AssemblyAI API key (optional if set in environment)"),
			),
		),
		s.dispatch(domainProtocol.ToolTranscribe),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(domainProtocol.ToolGetInfo,
			mcp.WithDescription("Get metadata about a YouTube video"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("url",
				mcp.Required(),
				mcp.Description("YouTube video URL"),
			),
		),
		s.dispatch(domainProtocol.ToolGetInfo),
	)

	s.mcpServer.AddTool(
		mcp.NewTool(domainProtocol.ToolListCache,
			mcp.WithDescription("List all cached YouTube files. Use this to see what videos/audio/transcripts are already downloaded. You can also access cached files via resources: youtube://cache/list"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.dispatch(domainProtocol.ToolListCache),
	)
}

// dispatch adapts one named tool to the dispatcher contract.
func (s *Server) dispatch(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := s.dispatcher.CallTool(ctx, name, request.GetArguments())
		if !result.Success {
			msg := result.Error
			if result.Code != "" {
				msg = result.Code + ": " + msg
			}
			return mcp.NewToolResultError(msg), nil
		}

		fallback := fmt.Sprintf("%s completed", name)
		return mcp.NewToolResultStructured(result.Payload, fallback), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcp.NewResource(
			domainProtocol.ResourceCacheList,
			"Cached Files List",
			mcp.WithResourceDescription("List all cached YouTube downloads"),
			mcp.WithMIMEType("application/json"),
		),
		s.readResource,
	)

	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			domainProtocol.ResourceSchemePrefix+"audio/{key}",
			"Cached Audio",
			mcp.WithTemplateDescription("Cached audio file"),
			mcp.WithTemplateMIMEType("audio/mpeg"),
		),
		s.readResource,
	)

	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			domainProtocol.ResourceSchemePrefix+"transcript/{key}",
			"Cached Transcript",
			mcp.WithTemplateDescription("Cached transcript"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.readResource,
	)
}

func (s *Server) readResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	content, err := s.dispatcher.ReadResource(ctx, request.Params.URI)
	if err != nil {
		return nil, err
	}

	if content.Blob != "" {
		return []mcp.ResourceContents{
			mcp.BlobResourceContents{
				URI:      content.URI,
				MIMEType: content.MIMEType,
				Blob:     content.Blob,
			},
		}, nil
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      content.URI,
			MIMEType: content.MIMEType,
			Text:     content.Text,
		},
	}, nil
}

func (s *Server) registerPrompts() {
	for _, prompt := range s.dispatcher.ListPrompts(context.Background()) {
		opts := []mcp.PromptOption{mcp.WithPromptDescription(prompt.Description)}
		for _, arg := range prompt.Arguments {
			argOpts := []mcp.ArgumentOption{mcp.ArgumentDescription(arg.Description)}
			if arg.Required {
				argOpts = append(argOpts, mcp.RequiredArgument())
			}
			opts = append(opts, mcp.WithArgument(arg.Name, argOpts...))
		}

		name := prompt.Name
		description := prompt.Description
		s.mcpServer.AddPrompt(mcp.NewPrompt(name, opts...), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			messages, err := s.dispatcher.GetPrompt(ctx, name, request.Params.Arguments)
			if err != nil {
				return nil, err
			}

			out := make([]mcp.PromptMessage, 0, len(messages))
			for _, m := range messages {
				role := mcp.RoleUser
				if strings.EqualFold(m.Role, "assistant") {
					role = mcp.RoleAssistant
				}
				out = append(out, mcp.NewPromptMessage(role, mcp.NewTextContent(m.Text)))
			}
			return mcp.NewGetPromptResult(description, out), nil
		})
	}
}
