package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHashService implements ports.HashService using bcrypt.
type BcryptHashService struct {
	cost int
}

// NewBcryptHashService creates a hash service with the given work factor.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewBcryptHashService(cost int) *BcryptHashService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHashService{cost: cost}
}

// Hash generates a salted bcrypt hash of the password.
func (s *BcryptHashService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A mismatch is not an error.
func (s *BcryptHashService) Verify(password string, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verifying password: %w", err)
}
