package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid code")
	ErrCodeExpired        = errors.New("code expired")
	ErrAlreadyVerified    = errors.New("already verified")
	ErrNotFound           = errors.New("not found")
	ErrUnavailable        = errors.New("unavailable")
)
