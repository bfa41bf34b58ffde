package token

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the session token lifetime
const TokenTTL = 7 * 24 * time.Hour

const minSecretLen = 32

// Claims carried by a session token
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService reads JWT_SECRET from the environment and fails when the
// secret is missing or shorter than 32 bytes, so a weak deployment cannot
// boot at all
func NewTokenService() (*Service, error) {
	secret := os.Getenv("JWT_SECRET")
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLen)
	}
	return &Service{secret: []byte(secret), ttl: TokenTTL}, nil
}

// Sign issues an HS256 token for the given user
func (s *Service) Sign(userID uint, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning its claims
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
