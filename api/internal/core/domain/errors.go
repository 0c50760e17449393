package domain

import "errors"

// Sentinel errors shared across the service and transport layers. Handlers map
// these onto HTTP statuses; services wrap them with context via %w.
var (
	// ErrMissingSecret: the store request carried no payload.
	ErrMissingSecret = errors.New("missing encryptedSecret")

	// ErrSecretNotFound covers never-existed, already-consumed and
	// TTL-expired tokens. The three causes are deliberately
	// indistinguishable so a caller cannot probe which one occurred.
	ErrSecretNotFound = errors.New("secret already viewed or expired")

	// ErrCorruptRecord: the stored bytes did not decode into a record.
	// Server-side invariant violation, never caller-caused.
	ErrCorruptRecord = errors.New("corrupted secret format")

	// ErrIPNotAllowed: the caller's address failed the IP gate.
	ErrIPNotAllowed = errors.New("access denied: IP address not allowed")

	// ErrPasswordRequired: the record is password-gated and none was given.
	ErrPasswordRequired = errors.New("password required")

	// ErrWrongPassword: the supplied password did not match the verifier.
	ErrWrongPassword = errors.New("incorrect password")

	// ErrStorage: the backing store was unreachable or an operation failed.
	ErrStorage = errors.New("secret storage unavailable")
)
