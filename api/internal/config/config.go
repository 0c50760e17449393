package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Secret lifetime and key layout constants. These are passed explicitly into
// the services that need them rather than read ambiently at call sites.
const (
	// DefaultSecretTTL applies when a store request omits the ttl field or
	// sends a non-positive value.
	DefaultSecretTTL = 300 * time.Second

	// MaxSecretTTL clamps caller-supplied lifetimes. A "one-time" secret
	// that lingers for more than a week is a liability, not a feature.
	MaxSecretTTL = 7 * 24 * time.Hour

	// SecretKeyPrefix namespaces record keys in the backing store.
	SecretKeyPrefix = "secret:"
)

// Config holds all dynamic configuration for the service.
type Config struct {
	Environment    string // "development" or "production"
	Port           string
	PublicBaseURL  string // prefix for generated view links
	AllowedOrigins []string

	// APIKey is the shared static credential required on /api/store and
	// /api/view. The service never boots in production without one.
	APIKey string

	// StoreDriver selects the backing store: "redis" or "memory".
	StoreDriver string
	RedisURL    string
}

// Load parses the environment and applies sensible default fallbacks.
func Load() *Config {
	env := getEnv("EMBER_ENV", "production")

	// Fail fast: a missing API key in production would leave both
	// endpoints wide open.
	apiKey := getEnv("EMBER_API_KEY", "")
	if apiKey == "" {
		if env == "production" {
			log.Fatal("[FATAL] EMBER_API_KEY environment variable is required in production.")
		}
		// Predictable key for local development ONLY
		apiKey = "ember-dev-key"
	}

	driver := getEnv("STORE_DRIVER", "redis")
	if driver != "redis" && driver != "memory" {
		log.Fatalf("[FATAL] STORE_DRIVER must be \"redis\" or \"memory\", got %q.", driver)
	}
	if driver == "memory" && env == "production" {
		// The memory driver loses every secret on restart and cannot be
		// shared between replicas.
		log.Fatal("[FATAL] STORE_DRIVER=memory is not allowed in production.")
	}

	corsOrigins := getEnv("CORS_ALLOWED_ORIGINS", "")
	if corsOrigins == "" {
		if env == "production" {
			log.Fatal("[FATAL] CORS_ALLOWED_ORIGINS environment variable is required in production.")
		}
		corsOrigins = "http://localhost:5173"
	}

	port := getEnv("PORT", "3001")

	return &Config{
		Environment:    env,
		Port:           port,
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		AllowedOrigins: strings.Split(corsOrigins, ","),
		APIKey:         apiKey,
		StoreDriver:    driver,
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
