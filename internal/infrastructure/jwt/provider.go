package jwtinfra

import (
	"errors"
	"time"

	"github.com/go-rider-auth/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret is returned by NewProvider when no signing secret is configured.
var ErrMissingSecret = errors.New("jwt: signing secret is not configured")

const issuer = "go-rider-auth"

// ScopeEmailVerification marks a token that may only submit or request an email
// verification code. Session tokens carry no scope.
const ScopeEmailVerification = "email_verification"

// Claims holds the JWT payload fields.
type Claims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	Scope     string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a secret fixed at construction.
type Provider struct {
	secret       []byte
	expiry       time.Duration
	verifyExpiry time.Duration
	now          func() time.Time
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	expiry := cfg.JWTExpiry
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	verifyExpiry := cfg.VerifyTokenExpiry
	if verifyExpiry <= 0 {
		verifyExpiry = time.Hour
	}
	return &Provider{
		secret:       []byte(cfg.JWTSecret),
		expiry:       expiry,
		verifyExpiry: verifyExpiry,
		now:          time.Now,
	}, nil
}

// Sign issues a session token.
func (p *Provider) Sign(accountID, role string) (string, error) {
	return p.sign(accountID, role, "", p.expiry)
}

// SignVerification issues a short-lived token scoped to email verification. It is
// handed to unverified accounts at login instead of a session token.
func (p *Provider) SignVerification(accountID, role string) (string, error) {
	return p.sign(accountID, role, ScopeEmailVerification, p.verifyExpiry)
}

func (p *Provider) sign(accountID, role, scope string, ttl time.Duration) (string, error) {
	now := p.now()
	claims := Claims{
		AccountID: accountID,
		Role:      role,
		Scope:     scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
