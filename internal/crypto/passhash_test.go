package crypto

import (
	"bytes"
	"testing"
)

func TestRandBytes_LengthAndUniqueness(t *testing.T) {
	t.Parallel()

	a, err := RandBytes(SaltLen)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	if len(a) != SaltLen {
		t.Fatalf("len=%d, want=%d", len(a), SaltLen)
	}
	b, err := RandBytes(SaltLen)
	if err != nil {
		t.Fatalf("RandBytes(2): %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two subsequent RandBytes(%d) are equal", SaltLen)
	}
	if bytes.Equal(a, make([]byte, SaltLen)) {
		t.Fatalf("RandBytes returned all zeros")
	}
}

func TestHashPassword_DependsOnBothInputs(t *testing.T) {
	t.Parallel()

	pw := []byte("kitchen-secret-1")
	salt := []byte("0123456789abcdef")

	h1 := HashPassword(pw, salt)
	h2 := HashPassword(pw, salt)
	if len(h1) == 0 || !bytes.Equal(h1, h2) {
		t.Fatalf("hash not deterministic for same input")
	}

	if bytes.Equal(h1, HashPassword(pw, []byte("fedcba9876543210"))) {
		t.Fatalf("hash should differ when salt differs")
	}
	if bytes.Equal(h1, HashPassword([]byte("kitchen-secret-2"), salt)) {
		t.Fatalf("hash should differ when password differs")
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	pw := []byte("correct horse battery staple")
	salt := []byte("salty-salt-123456")

	hash := HashPassword(pw, salt)

	if !VerifyPassword(pw, salt, hash) {
		t.Fatalf("VerifyPassword: expected true for correct password")
	}
	if VerifyPassword([]byte("wrong"), salt, hash) {
		t.Fatalf("VerifyPassword: expected false for wrong password")
	}
	if VerifyPassword(pw, []byte("wrong-salt"), hash) {
		t.Fatalf("VerifyPassword: expected false for wrong salt")
	}
	if VerifyPassword([]byte{}, salt, hash) {
		t.Fatalf("VerifyPassword: expected false for empty password")
	}
}

func TestArgon2id_Adapter(t *testing.T) {
	t.Parallel()

	var h Argon2id

	salt, err := h.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	if len(salt) != SaltLen {
		t.Fatalf("salt len=%d, want=%d", len(salt), SaltLen)
	}

	pw := []byte("family-cookbook")
	digest := h.Hash(pw, salt)
	if !h.Verify(pw, salt, digest) {
		t.Fatalf("Verify: expected true for matching password")
	}
	if h.Verify([]byte("other"), salt, digest) {
		t.Fatalf("Verify: expected false for wrong password")
	}
}
