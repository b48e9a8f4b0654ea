package health

import "context"

// ServerStatus is the /health payload: process state plus the coordination
// counters worth watching (in-flight downloads, HTTP sessions).
type ServerStatus struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	Mode            string `json:"mode"`
	Timestamp       string `json:"timestamp"`
	CacheDir        string `json:"cache_dir"`
	CacheExists     bool   `json:"cache_exists"`
	FileServerURL   string `json:"file_server_url"`
	ActiveDownloads int    `json:"active_downloads"`
	MCPEnabled      bool   `json:"mcp_enabled"`
	MCPSessions     int    `json:"mcp_sessions"`
}

type IHealthUsecase interface {
	GetStatus(ctx context.Context) ServerStatus
	// SetSessionCounter registers the HTTP transport's session count
	// source. The stdio transport never calls it.
	SetSessionCounter(counter func() int)
	SetMode(mode string)
}
