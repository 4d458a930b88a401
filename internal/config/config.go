package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ScoutConfig holds configuration for the scout API server.
type ScoutConfig struct {
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	LogLevel string
	LogFile  string

	GeminiAPIKey string
	LLMModel     string

	// Pipeline limits, in characters of serialized JSON.
	PayloadBudget int
	PostDataLimit int

	// ArtifactDir enables debug artifact persistence when non-empty.
	ArtifactDir string
}

// LoadScout reads scout configuration from environment variables and an
// optional .env file.
func LoadScout() (*ScoutConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &ScoutConfig{
		BindAddr:         getEnvOrDefault("SCOUT_BIND_ADDR", "127.0.0.1:8199"),
		PortCandidates:   getEnvListOrDefault("SCOUT_PORT_CANDIDATES", []string{"127.0.0.1:8199", "127.0.0.1:8200", "127.0.0.1:8201"}),
		PortAutoFallback: getEnvBoolOrDefault("SCOUT_PORT_AUTO_FALLBACK", true),
		LogLevel:         strings.ToLower(getEnvOrDefault("SCOUT_LOG_LEVEL", "info")),
		LogFile:          getEnvOrDefault("SCOUT_LOG_FILE", "logs/scout.log"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		LLMModel:         getEnvOrDefault("SCOUT_LLM_MODEL", "gemini-2.5-flash"),
		PayloadBudget:    getEnvIntOrDefault("SCOUT_PAYLOAD_BUDGET", 80000),
		PostDataLimit:    getEnvIntOrDefault("SCOUT_POST_DATA_LIMIT", 2000),
		ArtifactDir:      getEnvOrDefault("SCOUT_ARTIFACT_DIR", ""),
	}

	if cfg.PayloadBudget < 1000 {
		cfg.PayloadBudget = 1000
	}
	if cfg.PostDataLimit < 100 {
		cfg.PostDataLimit = 100
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
