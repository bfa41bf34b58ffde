package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) *Service {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	svc, err := NewTokenService()
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")
	_, err := NewTokenService()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "")
	_, err = NewTokenService()
	require.Error(t, err)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	svc := newTestService(t)

	signed, err := svc.Sign(42, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := newTestService(t)

	signed, err := svc.Sign(1, "user@example.com")
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = svc.Verify(tampered)
	require.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := newTestService(t)

	other := &Service{secret: []byte("ffffffffffffffffffffffffffffffff"), ttl: TokenTTL}
	signed, err := other.Sign(1, "user@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := newTestService(t)
	svc.ttl = -time.Minute

	signed, err := svc.Sign(1, "user@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.Error(t, err)
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	svc := newTestService(t)

	// alg "none" tokens must never pass
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	require.Error(t, err)
}
