package services

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if strings.Contains(hash, "Secret123!") {
		t.Error("hash must not contain the plaintext password")
	}
	if len(strings.Split(hash, "$")) != 2 {
		t.Errorf("expected salt$hash format, got %q", hash)
	}

	// A fresh hash of the same password uses a new salt
	again, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == again {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	ok, err := VerifyPassword(hash, "Secret123!")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = VerifyPassword(hash, "WrongPass1!")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("not-a-valid-hash", "anything"); err == nil {
		t.Error("expected an error for a malformed stored hash")
	}
}
