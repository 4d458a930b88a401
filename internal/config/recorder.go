package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
)

// RecorderConfig holds configuration for the passive HAR recorder.
type RecorderConfig struct {
	CDPAddress string
	CDPPort    int

	TabURLFilter string
	Output       string
	MaxBodyBytes int

	LogLevel string
	LogFile  string
}

// LoadRecorder reads recorder configuration from environment variables and
// an optional .env file.
func LoadRecorder() (*RecorderConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &RecorderConfig{
		CDPAddress:   getEnvOrDefault("CHROMIUM_CDP_ADDRESS", "127.0.0.1"),
		CDPPort:      getEnvIntOrDefault("CHROMIUM_CDP_PORT", 9220),
		TabURLFilter: getEnvOrDefault("RECORDER_TAB_URL_FILTER", ""),
		Output:       getEnvOrDefault("RECORDER_OUTPUT", "./capture.har"),
		MaxBodyBytes: getEnvIntOrDefault("RECORDER_MAX_BODY_BYTES", 1024*1024),
		LogLevel:     getEnvOrDefault("RECORDER_LOG_LEVEL", "info"),
		LogFile:      getEnvOrDefault("RECORDER_LOG_FILE", "logs/recorder.log"),
	}

	return cfg, nil
}

// CDPURL returns the CDP HTTP endpoint used by the chromedp remote
// allocator.
func (c *RecorderConfig) CDPURL() string {
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}
