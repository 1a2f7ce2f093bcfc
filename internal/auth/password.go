// Package auth implements the credential primitives: password hashing and
// bearer session tokens.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost used for stored credentials.
const DefaultBcryptCost = 12

// PasswordHasher hashes and checks plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(digest, plaintext string) (bool, error)
}

// BcryptHasher is the bcrypt PasswordHasher.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher at cost, falling back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Compare reports whether plaintext matches digest. A mismatch is not an error.
func (h *BcryptHasher) Compare(digest, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
