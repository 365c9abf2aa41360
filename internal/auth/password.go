package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// PasswordHasher hashes passwords for storage and checks candidates against them
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

// ScryptHasher stores passwords as hex(derivedKey) + "." + hex(salt)
type ScryptHasher struct {
	N       int
	R       int
	P       int
	KeyLen  int
	SaltLen int
}

// NewScryptHasher returns a hasher with the production cost parameters
func NewScryptHasher() *ScryptHasher {
	return &ScryptHasher{
		N:       16384,
		R:       8,
		P:       1,
		KeyLen:  64,
		SaltLen: 16,
	}
}

func (h *ScryptHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, h.N, h.R, h.P, h.KeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// Check reports whether password matches hash. A malformed hash never matches.
func (h *ScryptHasher) Check(password, hash string) bool {
	encodedKey, encodedSalt, ok := strings.Cut(hash, ".")
	if !ok {
		return false
	}

	want, err := hex.DecodeString(encodedKey)
	if err != nil || len(want) == 0 {
		return false
	}
	salt, err := hex.DecodeString(encodedSalt)
	if err != nil {
		return false
	}

	got, err := scrypt.Key([]byte(password), salt, h.N, h.R, h.P, len(want))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(got, want) == 1
}
