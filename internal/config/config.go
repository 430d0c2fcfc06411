package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

// Config holds everything the client needs to talk to the BidStock API and
// persist its session.
type Config struct {
	// BaseURL of the BidStock API, without a trailing slash.
	BaseURL string
	// StatePath is the JSON file holding the persisted session
	// (the "user" and "token" pair).
	StatePath string
	// RequestTimeout bounds every single API call.
	RequestTimeout time.Duration
	// RateLimit and RateBurst throttle outgoing requests.
	RateLimit float64
	RateBurst int
	// MockAddr is the listen address of the embedded mock API.
	MockAddr string
	// MockSecret signs the mock API's bearer tokens.
	MockSecret string
}

// Load reads configuration from the environment, with a .env file as
// fallback and sane defaults for everything.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		utils.Debug("no .env file found, using environment and defaults", nil)
	}

	return Config{
		BaseURL:        envOr("BIDSTOCK_API_URL", "http://localhost:8080"),
		StatePath:      statePath(),
		RequestTimeout: envDuration("BIDSTOCK_TIMEOUT_SECONDS", 15*time.Second),
		RateLimit:      envFloat("BIDSTOCK_RATE_LIMIT", 10),
		RateBurst:      envInt("BIDSTOCK_RATE_BURST", 5),
		MockAddr:       envOr("BIDSTOCK_MOCK_ADDR", ":8080"),
		MockSecret:     envOr("BIDSTOCK_MOCK_SECRET", "bidstock-dev-secret"),
	}
}

func statePath() string {
	if p := os.Getenv("BIDSTOCK_STATE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "bidstock-session.json"
	}
	return filepath.Join(home, ".bidstock", "session.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		utils.Warn("invalid integer in environment, using default", map[string]any{"key": key, "value": v})
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		utils.Warn("invalid number in environment, using default", map[string]any{"key": key, "value": v})
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		utils.Warn("invalid duration in environment, using default", map[string]any{"key": key, "value": v})
	}
	return fallback
}
