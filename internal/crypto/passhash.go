// Package crypto implements password hashing and verification for stored credentials.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32

	// SaltLen is the per-user salt size in bytes.
	SaltLen = 16
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns the Argon2id digest of password using the provided salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword compares password against the expected digest in constant time.
func VerifyPassword(password, salt, expected []byte) bool {
	got := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}

// Argon2id adapts the package functions to the credential store's hasher
// interface. The zero value is ready to use.
type Argon2id struct{}

// NewSalt returns a fresh per-user salt.
func (Argon2id) NewSalt() ([]byte, error) {
	return RandBytes(SaltLen)
}

// Hash returns the digest of password under salt.
func (Argon2id) Hash(password, salt []byte) []byte {
	return HashPassword(password, salt)
}

// Verify reports whether password matches the stored digest.
func (Argon2id) Verify(password, salt, expected []byte) bool {
	return VerifyPassword(password, salt, expected)
}
