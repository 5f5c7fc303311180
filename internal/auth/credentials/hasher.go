package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// Verify compares a plaintext password with a stored hash. A mismatch
// returns (false, nil); a hash that cannot be parsed returns (false,
// err) so callers can tell a bad password from a corrupt record. It
// never logs either input.
func Verify(hash string, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hash),
		[]byte(password),
	)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("stored hash unusable: %w", err)
}

// RandomPassword returns 256 bits of entropy, base64-encoded. Used to
// seed the password hash of OAuth-only accounts; the plaintext is
// discarded, leaving the account with no password login path.
func RandomPassword() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
