package mcp

import (
	"context"
	"errors"
	"testing"

	domainProtocol "ytmcp/domains/protocol"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct {
	lastTool string
	lastArgs map[string]any
	result   domainProtocol.ToolResult
	content  domainProtocol.ResourceContent
}

func (d *stubDispatcher) ListTools(_ context.Context) []domainProtocol.Tool { return nil }

func (d *stubDispatcher) CallTool(_ context.Context, name string, arguments map[string]any) domainProtocol.ToolResult {
	d.lastTool = name
	d.lastArgs = arguments
	return d.result
}

func (d *stubDispatcher) ListResources(_ context.Context) ([]domainProtocol.Resource, error) {
	return nil, nil
}

func (d *stubDispatcher) ReadResource(_ context.Context, uri string) (domainProtocol.ResourceContent, error) {
	if d.content.URI == "" {
		return domainProtocol.ResourceContent{}, errors.New("not found")
	}
	return d.content, nil
}

func (d *stubDispatcher) ListPrompts(_ context.Context) []domainProtocol.Prompt {
	return []domainProtocol.Prompt{
		{
			Name:        domainProtocol.PromptQuickSummary,
			Description: "Get a quick summary of a YouTube video",
			Arguments: []domainProtocol.PromptArgument{
				{Name: "url", Description: "YouTube video URL", Required: true},
			},
		},
	}
}

func (d *stubDispatcher) GetPrompt(_ context.Context, name string, arguments map[string]string) ([]domainProtocol.PromptMessage, error) {
	return []domainProtocol.PromptMessage{{Role: "user", Text: "summarize " + arguments["url"]}}, nil
}

func TestNewServer(t *testing.T) {
	srv := NewServer(&stubDispatcher{}, "v-test")
	require.NotNil(t, srv)
	require.NotNil(t, srv.mcpServer)
}

func TestDispatchForwardsArguments(t *testing.T) {
	dispatcher := &stubDispatcher{result: domainProtocol.ToolResult{
		Success: true,
		Payload: map[string]any{"title": "A Talk"},
	}}
	srv := NewServer(dispatcher, "v-test")

	handler := srv.dispatch(domainProtocol.ToolGetInfo)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"url": "https://youtu.be/x"}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	assert.Equal(t, domainProtocol.ToolGetInfo, dispatcher.lastTool)
	assert.Equal(t, "https://youtu.be/x", dispatcher.lastArgs["url"])
}

func TestDispatchMapsFailureToToolError(t *testing.T) {
	dispatcher := &stubDispatcher{result: domainProtocol.ToolResult{
		Error: "no such video",
		Code:  "COLLABORATOR_ERROR",
	}}
	srv := NewServer(dispatcher, "v-test")

	handler := srv.dispatch(domainProtocol.ToolDownloadAudio)
	result, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestReadResourceTextAndBlob(t *testing.T) {
	dispatcher := &stubDispatcher{content: domainProtocol.ResourceContent{
		URI:      domainProtocol.ResourceCacheList,
		MIMEType: "application/json",
		Text:     "[]",
	}}
	srv := NewServer(dispatcher, "v-test")

	req := mcp.ReadResourceRequest{}
	req.Params.URI = domainProtocol.ResourceCacheList

	contents, err := srv.readResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "[]", text.Text)

	dispatcher.content = domainProtocol.ResourceContent{
		URI:      "youtube://cache/audio/abc",
		MIMEType: "audio/mpeg",
		Blob:     "bWVkaWE=",
	}
	req.Params.URI = dispatcher.content.URI

	contents, err = srv.readResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	blob, ok := contents[0].(mcp.BlobResourceContents)
	require.True(t, ok)
	assert.Equal(t, "bWVkaWE=", blob.Blob)
}
