package services

import (
	"context"
	"errors"
	"fmt"

	"ember/api/internal/config"
	"ember/api/internal/core/domain"
	"ember/api/internal/core/utils"
)

// ViewService runs the retrieval protocol: fetch, gate checks in fixed order
// (existence, IP, password), then an atomic burn before disclosure. A record
// that fails a gate is left untouched so the rightful caller can retry within
// the TTL; a record that passes every gate is gone before its payload leaves
// this method.
type ViewService struct {
	store domain.SecretStore
}

func NewViewService(store domain.SecretStore) *ViewService {
	return &ViewService{store: store}
}

// View discloses the encrypted payload for token exactly once.
//
// callerAddr is the viewing caller's network address, already reduced to the
// first forwarded-for hop by the transport layer.
func (s *ViewService) View(ctx context.Context, token, providedPassword, callerAddr string) (string, error) {
	key := config.SecretKeyPrefix + token

	// 1. Fetch. A plain read: gate failures below must not consume the record.
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", domain.ErrSecretNotFound
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	// 2. Decode.
	record, err := domain.ParseRecord(raw)
	if err != nil {
		return "", err
	}

	// 3. IP gate.
	if record.AllowedIP != "" && record.AllowedIP != callerAddr {
		return "", domain.ErrIPNotAllowed
	}

	// 4. Password gate. Missing and wrong are distinct outcomes on purpose:
	// 401 tells the caller to supply a password, 403 that theirs is wrong.
	if record.PasswordDigest != "" {
		if providedPassword == "" {
			return "", domain.ErrPasswordRequired
		}
		if !utils.VerifierMatches(providedPassword, record.PasswordDigest) {
			return "", domain.ErrWrongPassword
		}
	}

	// 5. Burn, then disclose. GetDelete is atomic per key: of two callers
	// racing past the gates, exactly one observes the record here and the
	// other gets a not-found. The burn runs on a detached context so a
	// client disconnect at this point cannot cancel it.
	burned, err := s.store.GetDelete(context.WithoutCancel(ctx), key)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", domain.ErrSecretNotFound
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	final, err := domain.ParseRecord(burned)
	if err != nil {
		return "", err
	}
	return final.EncryptedSecret, nil
}
