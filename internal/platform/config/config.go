package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	// JWTSecret is the one signing secret shared by all services. Tokens
	// minted by the user service are verified against it everywhere.
	JWTSecret string
	TokenTTL  time.Duration

	// Peer service base URLs seed the discovery table. Inter-service calls
	// resolve through discovery, never through these values directly.
	UserServiceURL       string
	TaskServiceURL       string
	SubmissionServiceURL string

	DiscoveryRefreshInterval time.Duration

	BreakerFailureThreshold int
	BreakerCooldown         time.Duration
	BreakerCallTimeout      time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "taskhive"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		JWTSecret: secret,
		TokenTTL:  envDuration("TOKEN_TTL", 24*time.Hour),

		UserServiceURL:       envString("USER_SERVICE_URL", "http://localhost:8081"),
		TaskServiceURL:       envString("TASK_SERVICE_URL", "http://localhost:8082"),
		SubmissionServiceURL: envString("SUBMISSION_SERVICE_URL", "http://localhost:8083"),

		DiscoveryRefreshInterval: envDuration("DISCOVERY_REFRESH_INTERVAL", 30*time.Second),

		BreakerFailureThreshold: 5,
		BreakerCooldown:         envDuration("BREAKER_COOLDOWN", 30*time.Second),
		BreakerCallTimeout:      envDuration("BREAKER_CALL_TIMEOUT", 2*time.Second),
	}, nil
}

func envString(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
