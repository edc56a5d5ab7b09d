package adminauth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	if strings.TrimSpace(plain) == "" {
		return "", fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ResolvePasswordHash prefers a configured bcrypt hash and otherwise hashes the plaintext password.
func ResolvePasswordHash(hash, plain string) (string, error) {
	if hash = strings.TrimSpace(hash); hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return "", fmt.Errorf("admin password hash is not bcrypt: %w", err)
		}
		return hash, nil
	}
	if plain == "" {
		return "", nil
	}
	return HashPassword(plain)
}
