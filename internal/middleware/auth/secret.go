package auth

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedToken is returned for refresh tokens not shaped "<id>.<secret>".
var ErrMalformedToken = errors.New("malformed refresh token")

// HashSecret creates a bcrypt hash of an opaque token secret.
func HashSecret(secret string) (string, error) {
	// DefaultCost (10) is plenty for random 36-char secrets
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifySecret checks a plaintext secret against its stored bcrypt hash.
func VerifySecret(hashedSecret, providedSecret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(providedSecret))
}

// NewRefreshToken returns a fresh token id, its secret and the string handed
// to the client.
func NewRefreshToken() (id, secret, token string) {
	id = uuid.New().String()
	secret = uuid.New().String()
	return id, secret, id + "." + secret
}

// SplitRefreshToken separates "<id>.<secret>".
func SplitRefreshToken(token string) (id, secret string, err error) {
	id, secret, ok := strings.Cut(token, ".")
	if !ok || id == "" || secret == "" {
		return "", "", ErrMalformedToken
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", "", ErrMalformedToken
	}
	return id, secret, nil
}
