package jwtinfra

import (
	"testing"
	"time"

	"github.com/go-rider-auth/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, secret string) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{JWTSecret: secret, JWTExpiry: time.Hour})
	require.NoError(t, err)
	return p
}

func TestNewProvider_MissingSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{})
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t, "s3cret")

	signed, err := p.Sign("acc1", "driver")
	require.NoError(t, err)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "acc1", claims.AccountID)
	assert.Equal(t, "acc1", claims.Subject)
	assert.Equal(t, "driver", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerify_WrongSecret(t *testing.T) {
	signed, err := newTestProvider(t, "one").Sign("acc1", "rider")
	require.NoError(t, err)

	_, err = newTestProvider(t, "two").Verify(signed)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	p := newTestProvider(t, "s3cret")
	p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, err := p.Sign("acc1", "rider")
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.Verify(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	p := newTestProvider(t, "s3cret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		AccountID: "acc1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.Error(t, err)
}

func TestSign_DeterministicForSameInstant(t *testing.T) {
	p := newTestProvider(t, "s3cret")
	fixed := time.Unix(1_700_000_000, 0)
	p.now = func() time.Time { return fixed }

	a, err := p.Sign("acc1", "rider")
	require.NoError(t, err)
	b, err := p.Sign("acc1", "rider")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSignVerification_CarriesScopeAndShortExpiry(t *testing.T) {
	p, err := NewProvider(&config.Config{JWTSecret: "s3cret", JWTExpiry: 24 * time.Hour, VerifyTokenExpiry: 15 * time.Minute})
	require.NoError(t, err)

	signed, err := p.SignVerification("acc1", "rider")
	require.NoError(t, err)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, ScopeEmailVerification, claims.Scope)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	session, err := p.Sign("acc1", "rider")
	require.NoError(t, err)
	claims, err = p.Verify(session)
	require.NoError(t, err)
	assert.Empty(t, claims.Scope)
}
