package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
)

// Config - настройки приложения из окружения
type Config struct {
	DatabaseURL string
	StorageType string // postgres | in-memory
	Port        string
	CacheTTL    time.Duration
	DBMaxConns  int
	DBMinConns  int
	JobTimeout  time.Duration
}

// Load читает .env (если есть) и собирает конфигурацию
func Load() Config {
	if err := gotenv.Load(); err != nil {
		slog.Warn("No .env file found, using OS environment")
	}
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StorageType: getEnv("STORAGE_TYPE", "postgres"),
		Port:        getEnv("PORT", "8080"),
		CacheTTL:    time.Duration(getEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:  getEnvInt("DB_MIN_CONNS", 2),
		JobTimeout:  time.Duration(getEnvInt("JOB_TIMEOUT_SECONDS", 600)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
