package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	GameServiceURL string
	RedisAddr      string // empty means in-memory token store
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		GameServiceURL: getEnv("GAME_SERVICE_URL", "http://localhost:3000"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
