package utils

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig wires up env-driven configuration: a .env file when present,
// then plain environment variables through viper.
func LoadConfig(path string) {
	_ = godotenv.Load()

	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
