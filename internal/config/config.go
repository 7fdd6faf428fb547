package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}

	CWA struct {
		APIKey        string
		BaseURL       string
		ClientTimeout time.Duration
	}

	Health struct {
		ProbeSchedule string
		ProbeLocation string
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "10s"))

	// Upstream CWA open-data API configuration
	cfg.CWA.APIKey = getEnv("CWA_API_KEY", "")
	cfg.CWA.BaseURL = getEnv("CWA_BASE_URL", "https://opendata.cwa.gov.tw/api/v1/rest/datastore")
	cfg.CWA.ClientTimeout = parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "10s"))

	// Health probe configuration
	cfg.Health.ProbeSchedule = getEnv("HEALTH_PROBE_SCHEDULE", "@every 5m")
	cfg.Health.ProbeLocation = getEnv("HEALTH_PROBE_LOCATION", "臺北市")

	return cfg, nil
}

// Validate fails fast on settings the service cannot run without.
func (c *Config) Validate() error {
	if c.CWA.APIKey == "" {
		return fmt.Errorf("CWA_API_KEY is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}
