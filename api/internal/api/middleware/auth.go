package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"ember/api/internal/core/utils"
)

type AuthMiddleware struct {
	apiKey   string
	logger   *slog.Logger
	visitors sync.Map // thread-safe map for high-concurrency scaling
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewAuthMiddleware(apiKey string, logger *slog.Logger) *AuthMiddleware {
	m := &AuthMiddleware{
		apiKey: apiKey,
		logger: logger,
	}
	// Start cleanup worker as a managed method, not a global init
	go m.cleanupVisitors()
	return m
}

// ==============================================================================
// 1. Shared Credential Gate
// ==============================================================================

// RequireAPIKey rejects any request whose x-api-key header does not match the
// configured credential, before any core logic runs. The comparison is
// constant-time so the key cannot be guessed byte by byte.
func (m *AuthMiddleware) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userKey := r.Header.Get("x-api-key")

		if userKey == "" || !utils.CredentialsEqual(userKey, m.apiKey) {
			http.Error(w, `{"error": "Unauthorized: Invalid API Key"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ==============================================================================
// 2. Performance & Guessing Protection
// ==============================================================================

// RateLimit applies a per-address token bucket. Besides plain DoS protection,
// this bounds online guessing against password-gated records, which are
// otherwise retryable until their TTL expires.
func (m *AuthMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.Header.Get("X-Real-IP")
		if ip == "" {
			ip = r.RemoteAddr
		}

		v, _ := m.visitors.LoadOrStore(ip, &visitor{
			limiter:  rate.NewLimiter(rate.Limit(10), 30),
			lastSeen: time.Now(),
		})

		vis := v.(*visitor)
		vis.lastSeen = time.Now()

		if !vis.limiter.Allow() {
			http.Error(w, `{"error": "Rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) cleanupVisitors() {
	ticker := time.NewTicker(time.Minute)
	for range ticker.C {
		m.visitors.Range(func(key, value interface{}) bool {
			if time.Since(value.(*visitor).lastSeen) > 3*time.Minute {
				m.visitors.Delete(key)
			}
			return true
		})
	}
}
