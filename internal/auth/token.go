package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrMalformedToken = errors.New("malformed token")

// NewToken issues an API token for memberID. The token is shown once; only
// the bcrypt hash of its secret is stored.
func NewToken(memberID string) (token, hash string, err error) {
	secret := strings.ReplaceAll(uuid.NewString(), "-", "")
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash token: %w", err)
	}
	return memberID + "." + secret, string(h), nil
}

// ParseToken splits "<memberID>.<secret>".
func ParseToken(token string) (memberID, secret string, err error) {
	memberID, secret, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || memberID == "" || secret == "" {
		return "", "", ErrMalformedToken
	}
	return memberID, secret, nil
}

// VerifySecret reports whether secret matches the stored hash.
func VerifySecret(hash, secret string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
