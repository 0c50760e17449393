package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ember/api/internal/config"
	"ember/api/internal/core/domain"
	"ember/api/internal/core/services"
	"ember/api/internal/core/utils"
	"ember/api/internal/db/memory"
)

const testBaseURL = "http://localhost:3001"

func testConfig() *config.Config {
	return &config.Config{
		Environment:   "development",
		Port:          "3001",
		PublicBaseURL: testBaseURL,
		APIKey:        "test-api-key",
		StoreDriver:   "memory",
	}
}

// recordingStore captures the single write a store operation is allowed to make.
type recordingStore struct {
	key    string
	value  []byte
	ttl    time.Duration
	writes int
	reads  int
	setErr error
}

func (s *recordingStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.key, s.value, s.ttl = key, value, ttl
	s.writes++
	return nil
}

func (s *recordingStore) Get(context.Context, string) ([]byte, error) {
	s.reads++
	return nil, domain.ErrSecretNotFound
}

func (s *recordingStore) GetDelete(context.Context, string) ([]byte, error) {
	s.reads++
	return nil, domain.ErrSecretNotFound
}

func (s *recordingStore) Delete(context.Context, string) error { return nil }
func (s *recordingStore) Ping(context.Context) error           { return nil }
func (s *recordingStore) Close() error                         { return nil }

func TestStoreService_Store(t *testing.T) {
	t.Run("Missing Secret", func(t *testing.T) {
		svc := services.NewStoreService(&recordingStore{}, testConfig())

		link, err := svc.Store(context.Background(), services.StoreRequest{})

		assert.ErrorIs(t, err, domain.ErrMissingSecret)
		assert.Empty(t, link)
	})

	t.Run("Returns View Link With Random Token", func(t *testing.T) {
		store := &recordingStore{}
		svc := services.NewStoreService(store, testConfig())

		link, err := svc.Store(context.Background(), services.StoreRequest{
			EncryptedSecret: "abc",
			TTLSeconds:      60,
		})

		require.NoError(t, err)
		require.True(t, strings.HasPrefix(link, testBaseURL+"/api/view/"))

		token := strings.TrimPrefix(link, testBaseURL+"/api/view/")
		_, err = uuid.Parse(token)
		require.NoError(t, err, "token should be a UUID")

		assert.Equal(t, config.SecretKeyPrefix+token, store.key)
		assert.Equal(t, 60*time.Second, store.ttl)
	})

	t.Run("Tokens Are Unique Across Stores", func(t *testing.T) {
		store := &recordingStore{}
		svc := services.NewStoreService(store, testConfig())

		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			link, err := svc.Store(context.Background(), services.StoreRequest{EncryptedSecret: "x"})
			require.NoError(t, err)
			require.False(t, seen[link], "duplicate view link minted")
			seen[link] = true
		}
	})

	t.Run("Record Carries Verifier, Never Plaintext", func(t *testing.T) {
		store := &recordingStore{}
		svc := services.NewStoreService(store, testConfig())

		_, err := svc.Store(context.Background(), services.StoreRequest{
			EncryptedSecret: "x",
			AllowedIP:       "1.2.3.4",
			Password:        "p1",
		})
		require.NoError(t, err)

		record, err := domain.ParseRecord(store.value)
		require.NoError(t, err)

		assert.Equal(t, "x", record.EncryptedSecret)
		assert.Equal(t, "1.2.3.4", record.AllowedIP)
		assert.Equal(t, utils.PasswordVerifier("p1"), record.PasswordDigest)
		assert.NotContains(t, string(store.value), `"p1"`)
	})

	t.Run("No Password Means No Verifier", func(t *testing.T) {
		store := &recordingStore{}
		svc := services.NewStoreService(store, testConfig())

		_, err := svc.Store(context.Background(), services.StoreRequest{EncryptedSecret: "x"})
		require.NoError(t, err)

		record, err := domain.ParseRecord(store.value)
		require.NoError(t, err)
		assert.Empty(t, record.PasswordDigest)
	})

	t.Run("TTL Defaults When Absent", func(t *testing.T) {
		store := &recordingStore{}
		svc := services.NewStoreService(store, testConfig())

		_, err := svc.Store(context.Background(), services.StoreRequest{EncryptedSecret: "x"})
		require.NoError(t, err)
		assert.Equal(t, config.DefaultSecretTTL, store.ttl)
	})

	t.Run("TTL Clamped To Maximum", func(t *testing.T) {
		store := &recordingStore{}
		svc := services.NewStoreService(store, testConfig())

		_, err := svc.Store(context.Background(), services.StoreRequest{
			EncryptedSecret: "x",
			TTLSeconds:      int64((30 * 24 * time.Hour).Seconds()),
		})
		require.NoError(t, err)
		assert.Equal(t, config.MaxSecretTTL, store.ttl)
	})

	t.Run("Exactly One Write, No Reads", func(t *testing.T) {
		store := &recordingStore{}
		svc := services.NewStoreService(store, testConfig())

		_, err := svc.Store(context.Background(), services.StoreRequest{EncryptedSecret: "x"})
		require.NoError(t, err)
		assert.Equal(t, 1, store.writes)
		assert.Equal(t, 0, store.reads)
	})

	t.Run("Storage Failure", func(t *testing.T) {
		store := &recordingStore{setErr: errors.New("connection refused")}
		svc := services.NewStoreService(store, testConfig())

		link, err := svc.Store(context.Background(), services.StoreRequest{EncryptedSecret: "x"})

		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.Empty(t, link)
	})
}

func TestStoreService_AgainstMemoryDriver(t *testing.T) {
	store := memory.NewSecretRepo()
	defer store.Close()
	svc := services.NewStoreService(store, testConfig())

	link, err := svc.Store(context.Background(), services.StoreRequest{
		EncryptedSecret: "payload",
		TTLSeconds:      60,
	})
	require.NoError(t, err)

	token := strings.TrimPrefix(link, testBaseURL+"/api/view/")
	raw, err := store.Get(context.Background(), config.SecretKeyPrefix+token)
	require.NoError(t, err)

	record, err := domain.ParseRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "payload", record.EncryptedSecret)
}
