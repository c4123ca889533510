package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueAccessToken signs an HS256 bearer token whose subject is userID.
// It produces the tokens the API's auth middleware accepts.
func IssueAccessToken(userID, secret, issuer string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user ID is required")
	}
	if secret == "" {
		return "", errors.New("signing secret is required")
	}
	if ttl <= 0 {
		return "", errors.New("token lifetime must be positive")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
