package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App      AppConfig
	Paths    PathsConfig
	Cache    CacheConfig
	Security SecurityConfig
	APIKeys  APIKeysConfig
	YTDLP    YTDLPConfig
}

type AppConfig struct {
	Version  string
	Port     string
	Debug    bool
	BaseURL  string
	HTTPMode bool
}

type PathsConfig struct {
	Storages string
	Cache    string
	Temp     string
}

type CacheConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type SecurityConfig struct {
	// JWTSecret signs file access tokens. Empty means generate one at
	// startup; tokens then do not survive a restart.
	JWTSecret string
	// MCPAPIKey is the bearer credential for the HTTP transport. Empty
	// disables authentication entirely, which is the documented insecure
	// default for local use.
	MCPAPIKey string
}

type APIKeysConfig struct {
	AssemblyAI string
}

type YTDLPConfig struct {
	BinaryPath string
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	storages := getEnv("PATH_STORAGES", "storages")

	cfg := &Config{
		App: AppConfig{
			Version:  "v1.2.0",
			Port:     getEnv("APP_PORT", "8080"),
			Debug:    getEnvBool("APP_DEBUG", false),
			BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),
			HTTPMode: getEnvBool("HTTP_MODE", false),
		},
		Paths: PathsConfig{
			Storages: storages,
			Cache:    getEnv("CACHE_DIR", filepath.Join(storages, "cache")),
			Temp:     getEnv("TEMP_DIR", filepath.Join(storages, "tmp")),
		},
		Cache: CacheConfig{
			TTL:           time.Duration(getEnvInt("CACHE_TTL_DAYS", 7)) * 24 * time.Hour,
			SweepInterval: time.Duration(getEnvInt("CLEANUP_INTERVAL_MINUTES", 60)) * time.Minute,
		},
		Security: SecurityConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			MCPAPIKey: getEnv("MCP_API_KEY", ""),
		},
		APIKeys: APIKeysConfig{
			AssemblyAI: getEnv("ASSEMBLYAI_API_KEY", ""),
		},
		YTDLP: YTDLPConfig{
			BinaryPath: getEnv("YTDLP_PATH", "yt-dlp"),
		},
	}

	Global = cfg
	return cfg, nil
}
