// Package memory provides an in-process domain.SecretStore for local
// development and tests. It keeps the same contract as the Redis driver,
// including TTL expiry and an atomic GetDelete, but everything dies with the
// process.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"ember/api/internal/core/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// SecretRepo is a mutex-guarded expiring map. Reads evict expired entries
// lazily; a janitor goroutine sweeps the rest so abandoned records do not
// accumulate for a full process lifetime.
type SecretRepo struct {
	mu      sync.Mutex
	entries map[string]entry

	done      chan struct{}
	closeOnce sync.Once
}

func NewSecretRepo() *SecretRepo {
	r := &SecretRepo{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go r.sweepExpired(30 * time.Second)
	return r
}

func (r *SecretRepo) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = entry{
		value:     append([]byte(nil), value...),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (r *SecretRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookupLocked(key)
	if !ok {
		return nil, domain.ErrSecretNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// GetDelete reads and removes under a single lock hold, matching the per-key
// atomicity of Redis GETDEL: two racing callers can never both see the value.
func (r *SecretRepo) GetDelete(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lookupLocked(key)
	if !ok {
		return nil, domain.ErrSecretNotFound
	}
	delete(r.entries, key)
	return e.value, nil
}

func (r *SecretRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

func (r *SecretRepo) Ping(_ context.Context) error {
	select {
	case <-r.done:
		return errors.New("memory store closed")
	default:
		return nil
	}
}

func (r *SecretRepo) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}

// lookupLocked returns the live entry for key, evicting it first if its TTL
// has passed. Callers must hold r.mu.
func (r *SecretRepo) lookupLocked(key string) (entry, bool) {
	e, ok := r.entries[key]
	if !ok {
		return entry{}, false
	}
	if time.Now().After(e.expiresAt) {
		delete(r.entries, key)
		return entry{}, false
	}
	return e, true
}

func (r *SecretRepo) sweepExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			now := time.Now()
			r.mu.Lock()
			for key, e := range r.entries {
				if now.After(e.expiresAt) {
					delete(r.entries, key)
				}
			}
			r.mu.Unlock()
		}
	}
}
