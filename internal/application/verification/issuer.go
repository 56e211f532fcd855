// Package verification hands out one-time codes.
package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rider-auth/internal/domain"
	"github.com/go-rider-auth/internal/metrics"
	"github.com/go-rider-auth/internal/pkg/otp"
)

type codeStore interface {
	Put(ctx context.Context, v *domain.VerificationCode) error
}

// Issuer writes a fresh code for an (account, purpose) pair, replacing any earlier one.
// It never touches the account itself.
type Issuer struct {
	store    codeStore
	generate func() (string, error)
	now      func() time.Time
}

type Option func(*Issuer)

// WithClock overrides the time source used for IssuedAt.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithGenerator overrides the code source.
func WithGenerator(gen func() (string, error)) Option {
	return func(i *Issuer) { i.generate = gen }
}

func NewIssuer(store codeStore, opts ...Option) *Issuer {
	i := &Issuer{store: store, generate: otp.Generate, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue generates a code and upserts it. The returned code is only valid once the
// store write has succeeded.
func (i *Issuer) Issue(ctx context.Context, accountID, purpose string) (string, error) {
	code, err := i.generate()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	v := &domain.VerificationCode{
		AccountID: accountID,
		Purpose:   purpose,
		Code:      code,
		IssuedAt:  i.now().UTC(),
	}
	if err := i.store.Put(ctx, v); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	metrics.CodesIssued.WithLabelValues(purpose).Inc()
	return code, nil
}
