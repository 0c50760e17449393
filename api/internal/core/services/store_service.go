package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ember/api/internal/config"
	"ember/api/internal/core/domain"
	"ember/api/internal/core/utils"
)

// StoreRequest carries the caller's fields for a store operation, independent
// of any wire format.
type StoreRequest struct {
	EncryptedSecret string
	TTLSeconds      int64
	AllowedIP       string
	Password        string
}

// StoreService writes new secret records into the backing store. It performs
// exactly one store write per request and never reads.
type StoreService struct {
	store  domain.SecretStore
	config *config.Config
}

func NewStoreService(store domain.SecretStore, cfg *config.Config) *StoreService {
	return &StoreService{store: store, config: cfg}
}

// Store validates the request, mints an unguessable token, serializes the
// record and writes it with its TTL. It returns the one-time view link.
func (s *StoreService) Store(ctx context.Context, req StoreRequest) (string, error) {
	if req.EncryptedSecret == "" {
		return "", domain.ErrMissingSecret
	}

	record := &domain.SecretRecord{
		EncryptedSecret: req.EncryptedSecret,
		AllowedIP:       req.AllowedIP,
	}
	if req.Password != "" {
		record.PasswordDigest = utils.PasswordVerifier(req.Password)
	}

	payload, err := record.Marshal()
	if err != nil {
		return "", err
	}

	// uuid.NewString draws from crypto/rand; the token is never derived
	// from request input.
	token := uuid.NewString()

	err = s.store.SetWithTTL(ctx, config.SecretKeyPrefix+token, payload, clampTTL(req.TTLSeconds))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	return s.config.PublicBaseURL + "/api/view/" + token, nil
}

// clampTTL applies the default for absent or non-positive lifetimes and caps
// the rest at the configured maximum.
func clampTTL(seconds int64) time.Duration {
	if seconds <= 0 {
		return config.DefaultSecretTTL
	}
	ttl := time.Duration(seconds) * time.Second
	if ttl > config.MaxSecretTTL {
		return config.MaxSecretTTL
	}
	return ttl
}
