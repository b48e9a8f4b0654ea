package rest

import (
	"encoding/json"
	"strings"
	"time"

	"ytmcp/config"
	domainProtocol "ytmcp/domains/protocol"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// MCP exposes the dispatcher over plain HTTP using a JSON-RPC style
// envelope, for clients that cannot speak the stdio transport.
type MCP struct {
	Dispatcher domainProtocol.IDispatcher
	Sessions   *SessionStore
	APIKey     string
}

type rpcRequest struct {
	JSONRPC    string         `json:"jsonrpc"`
	ID         any            `json:"id"`
	Params     map[string]any `json:"params"`
	ClientInfo map[string]any `json:"clientInfo"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

func InitRestMCP(app fiber.Router, dispatcher domainProtocol.IDispatcher, sessions *SessionStore, apiKey string) MCP {
	rest := MCP{Dispatcher: dispatcher, Sessions: sessions, APIKey: apiKey}

	if apiKey == "" {
		logrus.Warn("[HTTP] MCP_API_KEY not set, MCP endpoints are unauthenticated")
	}

	group := app.Group("/mcp")
	group.Post("/initialize", rest.Initialize)
	group.Post("/list_tools", rest.ListTools)
	group.Post("/call_tool", rest.CallTool)
	group.Post("/list_resources", rest.ListResources)
	group.Post("/read_resource", rest.ReadResource)
	group.Post("/list_prompts", rest.ListPrompts)
	group.Post("/get_prompt", rest.GetPrompt)
	group.Get("/health", rest.ProtocolHealth)

	return rest
}

// authorized checks the bearer credential. An empty configured key leaves
// the endpoints open, which is the documented local-use default.
func (handler *MCP) authorized(c *fiber.Ctx) bool {
	if handler.APIKey == "" {
		return true
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	return strings.TrimPrefix(auth, "Bearer ") == handler.APIKey
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}

// parseRequest tolerates an empty or malformed body; the envelope id then
// defaults to 1, matching what callers expect back.
func parseRequest(c *fiber.Ctx) rpcRequest {
	req := rpcRequest{ID: float64(1)}
	_ = json.Unmarshal(c.Body(), &req)
	if req.ID == nil {
		req.ID = float64(1)
	}
	return req
}

func reply(c *fiber.Ctx, id any, result any) error {
	return c.JSON(rpcResponse{JSONRPC: "2.0", Result: result, ID: id})
}

func replyError(c *fiber.Ctx, id any, err error) error {
	return c.JSON(rpcResponse{
		JSONRPC: "2.0",
		Error:   &rpcError{Code: -32603, Message: "Internal error", Data: err.Error()},
		ID:      id,
	})
}

func (handler *MCP) Initialize(c *fiber.Ctx) error {
	if !handler.authorized(c) {
		return unauthorized(c)
	}
	req := parseRequest(c)

	sessionID := handler.Sessions.Create(req.ClientInfo)
	return reply(c, req.ID, fiber.Map{
		"protocolVersion": "1.0",
		"serverInfo": fiber.Map{
			"name":    "youtube-mcp-server",
			"version": config.Global.App.Version,
		},
		"capabilities": fiber.Map{
			"tools":     true,
			"resources": true,
			"prompts":   true,
		},
		"sessionId": sessionID,
	})
}

func (handler *MCP) ListTools(c *fiber.Ctx) error {
	if !handler.authorized(c) {
		return unauthorized(c)
	}
	req := parseRequest(c)

	tools := handler.Dispatcher.ListTools(c.UserContext())
	return reply(c, req.ID, fiber.Map{"tools": tools})
}

func (handler *MCP) CallTool(c *fiber.Ctx) error {
	if !handler.authorized(c) {
		return unauthorized(c)
	}
	req := parseRequest(c)

	name, _ := req.Params["name"].(string)
	arguments, _ := req.Params["arguments"].(map[string]any)

	result := handler.Dispatcher.CallTool(c.UserContext(), name, arguments)

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return replyError(c, req.ID, err)
	}
	return reply(c, req.ID, fiber.Map{
		"content": []fiber.Map{
			{"type": "text", "text": string(text)},
		},
	})
}

func (handler *MCP) ListResources(c *fiber.Ctx) error {
	if !handler.authorized(c) {
		return unauthorized(c)
	}
	req := parseRequest(c)

	resources, err := handler.Dispatcher.ListResources(c.UserContext())
	if err != nil {
		return replyError(c, req.ID, err)
	}
	return reply(c, req.ID, fiber.Map{"resources": resources})
}

func (handler *MCP) ReadResource(c *fiber.Ctx) error {
	if !handler.authorized(c) {
		return unauthorized(c)
	}
	req := parseRequest(c)

	uri, _ := req.Params["uri"].(string)
	content, err := handler.Dispatcher.ReadResource(c.UserContext(), uri)
	if err != nil {
		return replyError(c, req.ID, err)
	}
	return reply(c, req.ID, fiber.Map{"contents": []domainProtocol.ResourceContent{content}})
}

func (handler *MCP) ListPrompts(c *fiber.Ctx) error {
	if !handler.authorized(c) {
		return unauthorized(c)
	}
	req := parseRequest(c)

	prompts := handler.Dispatcher.ListPrompts(c.UserContext())
	return reply(c, req.ID, fiber.Map{"prompts": prompts})
}

func (handler *MCP) GetPrompt(c *fiber.Ctx) error {
	if !handler.authorized(c) {
		return unauthorized(c)
	}
	req := parseRequest(c)

	name, _ := req.Params["name"].(string)
	arguments := make(map[string]string)
	if raw, ok := req.Params["arguments"].(map[string]any); ok {
		for k, v := range raw {
			if s, ok := v.(string); ok {
				arguments[k] = s
			}
		}
	}

	messages, err := handler.Dispatcher.GetPrompt(c.UserContext(), name, arguments)
	if err != nil {
		return replyError(c, req.ID, err)
	}
	return reply(c, req.ID, fiber.Map{"messages": messages})
}

func (handler *MCP) ProtocolHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"protocol":  "mcp",
		"version":   "1.0",
		"server":    "youtube-mcp-server",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
