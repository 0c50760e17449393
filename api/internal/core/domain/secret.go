package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SecretRecord is the unit of storage: one caller-supplied encrypted blob plus
// its disclosure gates. The JSON field names are the wire format of the stored
// value and must not change — records written by older deployments still need
// to parse.
type SecretRecord struct {
	EncryptedSecret string `json:"encryptedSecret"`
	AllowedIP       string `json:"allowedIp,omitempty"`
	// PasswordDigest is the sha256 hex verifier of the storing caller's
	// password, never the plaintext. Empty means no password gate.
	PasswordDigest string `json:"password,omitempty"`
}

// Marshal serializes the record for storage.
func (r *SecretRecord) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize secret record: %w", err)
	}
	return data, nil
}

// ParseRecord deserializes a stored payload. A record that does not decode, or
// decodes without its payload, can only mean the store manager misbehaved, so
// both cases surface as ErrCorruptRecord rather than a caller-visible detail.
func ParseRecord(raw []byte) (*SecretRecord, error) {
	var record SecretRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if record.EncryptedSecret == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrCorruptRecord)
	}
	return &record, nil
}

// SecretStore is the backing expiring key-value store contract. Implementations
// must provide per-key atomicity: GetDelete observes and removes a value as one
// operation, so two racing callers can never both receive the same record.
type SecretStore interface {
	// SetWithTTL writes value under key, expiring after ttl.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value for key, or ErrSecretNotFound if the key is
	// absent or expired. The record is left untouched.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetDelete atomically reads and removes the value for key, returning
	// ErrSecretNotFound if it was already gone.
	GetDelete(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	Close() error
}
