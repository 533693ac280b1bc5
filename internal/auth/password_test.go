package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHasherConfigDefaults(t *testing.T) {
	cfg := HasherConfig{}
	cfg.ApplyDefaults()
	if cfg.Algorithm != "bcrypt" {
		t.Errorf("expected default algorithm bcrypt, got %q", cfg.Algorithm)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("expected default cost 12, got %d", cfg.BcryptCost)
	}
}

func TestNewHasherInvalidAlgorithm(t *testing.T) {
	if _, err := NewHasher(HasherConfig{Algorithm: "md5"}); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}

func TestBcryptHashAndVerify(t *testing.T) {
	h := &BcryptHasher{cost: 4} // minimum cost keeps the test fast

	digest, err := h.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if digest == "s3cret-password" {
		t.Error("digest must not equal the plaintext")
	}
	if err := h.Verify("s3cret-password", digest); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := h.Verify("wrong-password", digest); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestBcryptRejectsOverlongPassword(t *testing.T) {
	h := &BcryptHasher{cost: 4}
	if _, err := h.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("expected error for password over 72 bytes")
	}
}

func TestBcryptSaltedDigests(t *testing.T) {
	h := &BcryptHasher{cost: 4}
	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password must differ (random salt)")
	}
}

func TestArgon2HashAndVerify(t *testing.T) {
	h, err := NewHasher(HasherConfig{Algorithm: "argon2id", Argon2Memory: 8 * 1024})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	digest, err := h.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$") {
		t.Errorf("expected PHC-format digest, got %q", digest)
	}
	if err := h.Verify("s3cret-password", digest); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := h.Verify("wrong-password", digest); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestArgon2InvalidDigest(t *testing.T) {
	h := &Argon2Hasher{time: 1, memory: 8 * 1024, threads: 1, keyLen: 32, saltLen: 16}
	if err := h.Verify("password", "$2a$10$notargon"); err == nil {
		t.Error("expected error for non-argon2id digest")
	}
}
