package utils

import "testing"

func TestPasswordVerifier(t *testing.T) {
	// Known vector: sha256("p1") in hex
	got := PasswordVerifier("p1")
	want := "f64551fcd6f07823cb87971cfb91446425da18286b3ab1ef935e0cbd7a69f68a"
	if got != want {
		t.Errorf("PasswordVerifier(\"p1\") = %s, want %s", got, want)
	}

	// Deterministic: same input always re-derives the same verifier
	if PasswordVerifier("p1") != got {
		t.Error("PasswordVerifier is not deterministic")
	}

	// Never the plaintext
	if PasswordVerifier("p1") == "p1" {
		t.Error("verifier must not equal the plaintext password")
	}
}

func TestVerifierMatches(t *testing.T) {
	stored := PasswordVerifier("correct horse battery staple")

	if !VerifierMatches("correct horse battery staple", stored) {
		t.Error("expected matching password to verify")
	}
	if VerifierMatches("wrong", stored) {
		t.Error("expected mismatching password to fail")
	}
	if VerifierMatches("", stored) {
		t.Error("expected empty password to fail")
	}
}

func TestCredentialsEqual(t *testing.T) {
	if !CredentialsEqual("key-123", "key-123") {
		t.Error("expected equal credentials to match")
	}
	if CredentialsEqual("key-123", "key-124") {
		t.Error("expected different credentials to mismatch")
	}
	if CredentialsEqual("", "key-123") {
		t.Error("expected empty credential to mismatch")
	}
}
