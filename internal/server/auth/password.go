package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the fixed bcrypt work factor.
const PasswordCost = 10

// Hasher derives and checks one-way password hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports (false, nil) on mismatch and an error only when the
	// stored hash itself is unusable.
	Verify(plaintext, hash string) (bool, error)
}

// BcryptHasher is a Hasher backed by bcrypt. Each Hash call draws a new salt
// and comparison runs in constant time.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: PasswordCost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
