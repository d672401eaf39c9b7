package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters; changing them invalidates stored hashes.
const (
	saltLen = 16
	keyLen  = 64
	n       = 16384
	r       = 8
	p       = 1
)

// Password derives a salted scrypt hash stored as "salt:hash" hex pairs.
func Password(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	derived, err := scrypt.Key([]byte(plaintext), salt, n, r, p, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive password hash: %w", err)
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(derived), nil
}

// Verify recomputes the hash with the stored salt and compares in constant time.
func Verify(plaintext, stored string) (bool, error) {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false, fmt.Errorf("malformed password hash")
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	expected, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	derived, err := scrypt.Key([]byte(plaintext), salt, n, r, p, len(expected))
	if err != nil {
		return false, fmt.Errorf("derive password hash: %w", err)
	}

	return subtle.ConstantTimeCompare(derived, expected) == 1, nil
}
