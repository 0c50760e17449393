package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ember/api/internal/core/domain"
)

// SecretRepo implements domain.SecretStore on Redis. Redis gives the two
// guarantees the retrieval protocol leans on: per-key TTL expiry (SET with EX)
// and an atomic read-and-remove (GETDEL).
type SecretRepo struct {
	client goredis.UniversalClient
}

func NewSecretRepo(client goredis.UniversalClient) *SecretRepo {
	return &SecretRepo{client: client}
}

// Connect parses a redis:// URL, dials, and verifies the connection with a
// ping before handing the repo back.
func Connect(ctx context.Context, redisURL string) (*SecretRepo, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}

	return &SecretRepo{client: client}, nil
}

func (r *SecretRepo) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	return nil
}

func (r *SecretRepo) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			// Return a domain-specific error, not a Redis error
			return nil, domain.ErrSecretNotFound
		}
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}
	return value, nil
}

func (r *SecretRepo) GetDelete(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.GetDel(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrSecretNotFound
		}
		return nil, fmt.Errorf("redis GETDEL failed: %w", err)
	}
	return value, nil
}

func (r *SecretRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis DEL failed: %w", err)
	}
	return nil
}

func (r *SecretRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *SecretRepo) Close() error {
	return r.client.Close()
}
