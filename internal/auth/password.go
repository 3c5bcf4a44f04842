package auth

import (
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/ba5maa/FileBlogSystem/internal/logger"
)

// BcryptCost is the work factor used for new hashes.
const BcryptCost = 10

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. A malformed stored
// hash is logged and never matches.
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		logger.Warn("Stored password hash could not be verified", slog.String("error", err.Error()))
	}
	return false
}
