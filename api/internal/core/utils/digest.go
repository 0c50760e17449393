package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// PasswordVerifier derives the stored password verifier: a sha256 hex digest
// of the password's string form. It is deliberately deterministic and unsalted
// so the same password re-derives the same verifier at view time; the digest
// only ever lives inside a record that dies within its TTL.
func PasswordVerifier(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifierMatches compares a caller-supplied password against a stored
// verifier in constant time to defeat timing attacks.
func VerifierMatches(providedPassword, storedVerifier string) bool {
	derived := PasswordVerifier(providedPassword)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(storedVerifier)) == 1
}

// CredentialsEqual is the constant-time comparison used by the API key gate.
func CredentialsEqual(provided, required string) bool {
	return subtle.ConstantTimeCompare([]byte(provided), []byte(required)) == 1
}
