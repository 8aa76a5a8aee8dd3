package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// QuestBaseURL is the base URL of the remote question-bank service.
	QuestBaseURL string
	QuestTimeout time.Duration

	// AuthSecret verifies bearer tokens issued by the auth service. Empty
	// means the API runs open (dev default) with an anonymous subject.
	AuthSecret string

	// HistoryDBPath is the SQLite file recording finished exam results.
	HistoryDBPath string

	// SessionTTL is how long an idle session survives before the reaper
	// collects it.
	SessionTTL time.Duration

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		QuestBaseURL:   getEnv("QUEST_BASE_URL", "https://questions.prepquest.app/api/v2"),
		QuestTimeout:   time.Duration(getEnvInt("QUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		AuthSecret:     getEnv("AUTH_SECRET", ""),
		HistoryDBPath:  getEnv("HISTORY_DB_PATH", "./prepquest_history.db"),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_MINUTES", 180)) * time.Minute,
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
