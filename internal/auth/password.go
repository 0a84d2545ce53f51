package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Hasher derives argon2id password hashes encoded as base64(salt)$base64(key)
type Hasher struct {
	Time       uint32
	MemoryKB   uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength int
}

// Hash returns an encoded hash of password under a fresh random salt
func (h Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.Time, h.MemoryKB, h.Threads, h.KeyLength)
	return base64.StdEncoding.EncodeToString(salt) + "$" + base64.StdEncoding.EncodeToString(key), nil
}

// Verify reports whether password matches the encoded hash
func (h Hasher) Verify(password, encoded string) bool {
	saltPart, keyPart, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(saltPart)
	if err != nil {
		return false
	}
	key, err := base64.StdEncoding.DecodeString(keyPart)
	if err != nil || len(key) == 0 {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, h.Time, h.MemoryKB, h.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, computed) == 1
}
