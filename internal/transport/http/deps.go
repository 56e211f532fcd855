package http

import (
	"context"
	"time"

	"github.com/go-rider-auth/internal/application/notification"
	"github.com/go-rider-auth/internal/domain"
	jwtinfra "github.com/go-rider-auth/internal/infrastructure/jwt"
)

// AccountRepository is the minimal interface the router requires from an account store.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	MarkVerified(ctx context.Context, accountID string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, accountID, hash string, prevUpdatedAt, at time.Time) error
	Delete(ctx context.Context, a *domain.Account) error
}

// VerificationRepository is the minimal interface the router requires from a code store.
type VerificationRepository interface {
	Put(ctx context.Context, v *domain.VerificationCode) error
	Get(ctx context.Context, accountID, purpose string) (*domain.VerificationCode, error)
	RecordFailedAttempt(ctx context.Context, accountID, purpose, code string) (int, error)
	Delete(ctx context.Context, accountID, purpose string) error
	DeleteByOwner(ctx context.Context, accountID string) error
}

// PasswordHasher is the minimal interface the router requires from a password hasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) (bool, error)
}

// EventPublisher fans out account events. Optional.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data any) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo      AccountRepository
	VerificationRepo VerificationRepository
	Hasher           PasswordHasher
	JWTProvider      *jwtinfra.Provider
	Notifier         notification.Service
	Publisher        EventPublisher
}
