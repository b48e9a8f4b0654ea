package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Env reads go through viper so .env file values and plain environment
// variables resolve the same way. The os.Getenv fallback covers callers
// that never ran utils.LoadConfig.
func getEnv(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := getEnv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := getEnv(key, ""); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}
