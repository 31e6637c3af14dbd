package config

import (
	"os"
	"strconv"
	"time"
)

// Agent captures process level configuration. It is built once in main and
// threaded explicitly through construction; nothing reads the environment
// after startup.
type Agent struct {
	Addr string

	// ExternalURL is the public base URL of this agent, used inside
	// credential offers and authorization request reference URIs.
	ExternalURL string

	// DefaultDIDMethod selects the identifier method used when a command
	// does not name one (e.g. "did:key").
	DefaultDIDMethod string

	// SigningSecret seeds the agent's ed25519 signing key.
	SigningSecret string

	PostgresURL string
	RedisURL    string

	KafkaBrokers    string
	EventTopic      string
	ProjectionRetry RetryConfig
}

// RetryConfig bounds the asynchronous projection retry worker.
type RetryConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

// FromEnv builds an Agent config from environment variables so main stays lean.
func FromEnv() Agent {
	cfg := Agent{
		Addr:             envOr("SSI_AGENT_ADDR", ":3033"),
		ExternalURL:      envOr("SSI_AGENT_EXTERNAL_URL", "http://localhost:3033"),
		DefaultDIDMethod: envOr("SSI_AGENT_DID_METHOD", "did:key"),
		SigningSecret:    envOr("SSI_AGENT_SIGNING_SECRET", "dev-secret-change-in-production"),
		PostgresURL:      os.Getenv("SSI_AGENT_POSTGRES_URL"),
		RedisURL:         os.Getenv("SSI_AGENT_REDIS_URL"),
		KafkaBrokers:     os.Getenv("SSI_AGENT_KAFKA_BROKERS"),
		EventTopic:       envOr("SSI_AGENT_EVENT_TOPIC", "ssi-agent.events"),
		ProjectionRetry: RetryConfig{
			Interval:    envDurationOr("SSI_AGENT_PROJECTION_RETRY_INTERVAL", time.Second),
			MaxAttempts: envIntOr("SSI_AGENT_PROJECTION_RETRY_MAX_ATTEMPTS", 5),
		},
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
