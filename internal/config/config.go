package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by DOXA_ENV_FILE (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("DOXA_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("DOXA_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// APIKey returns the static bearer token guarding /v1 routes.
// Empty disables authentication.
func APIKey() string {
	return os.Getenv("DOXA_API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 10 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("DOXA_RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 10
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("DOXA_RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("DOXA_LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// SessionTTL returns how long an idle session survives before the sweeper
// drops it. Defaults to 1h.
func SessionTTL() time.Duration {
	ttl, err := time.ParseDuration(os.Getenv("DOXA_SESSION_TTL"))
	if err != nil || ttl <= 0 {
		return time.Hour
	}
	return ttl
}

// SweepInterval returns how often the idle-session sweeper runs.
// Defaults to 5m.
func SweepInterval() time.Duration {
	interval, err := time.ParseDuration(os.Getenv("DOXA_SWEEP_INTERVAL"))
	if err != nil || interval <= 0 {
		return 5 * time.Minute
	}
	return interval
}

// ShutdownTimeout returns how long the server waits for in-flight requests
// on shutdown. Defaults to 10s.
func ShutdownTimeout() time.Duration {
	timeout, err := time.ParseDuration(os.Getenv("DOXA_SHUTDOWN_TIMEOUT"))
	if err != nil || timeout <= 0 {
		return 10 * time.Second
	}
	return timeout
}
