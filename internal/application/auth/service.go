package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rider-auth/internal/domain"
	"github.com/go-rider-auth/internal/metrics"
	"github.com/go-rider-auth/internal/pkg/id"
	"github.com/go-rider-auth/internal/pkg/validate"
)

// RegisterResult carries the new account and the bearer token the client uses to
// submit its verification code. CodePending is set when the account was created
// but no code could be issued; a later login or code request issues one.
type RegisterResult struct {
	Account     *domain.Account
	Token       string
	CodePending bool
}

// LoginResult is either a session token (verified account) or a challenge
// (verification required, fresh code sent). A challenge never carries Token; it
// carries VerificationToken, which only the email confirmation routes accept.
type LoginResult struct {
	Account           *domain.Account
	Token             string
	VerificationToken string
	Challenge         bool
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error)
	SubmitCode(ctx context.Context, accountID, code string) (*domain.Account, error)
	RequestVerificationCode(ctx context.Context, accountID string) error
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	Me(ctx context.Context, accountID string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

type accountStore interface {
	Create(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	MarkVerified(ctx context.Context, accountID string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, accountID, hash string, prevUpdatedAt, at time.Time) error
	Delete(ctx context.Context, a *domain.Account) error
}

type codeStore interface {
	Get(ctx context.Context, accountID, purpose string) (*domain.VerificationCode, error)
	RecordFailedAttempt(ctx context.Context, accountID, purpose, code string) (int, error)
	Delete(ctx context.Context, accountID, purpose string) error
	DeleteByOwner(ctx context.Context, accountID string) error
}

type codeIssuer interface {
	Issue(ctx context.Context, accountID, purpose string) (string, error)
}

type passwordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) (bool, error)
}

type tokenSigner interface {
	Sign(accountID, role string) (string, error)
	SignVerification(accountID, role string) (string, error)
}

type notifier interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
	SendPasswordResetCode(ctx context.Context, to, name, code string) error
	SendWelcome(ctx context.Context, to, name string) error
}

type eventPublisher interface {
	Publish(ctx context.Context, subject string, data any) error
}

type service struct {
	accounts    accountStore
	codes       codeStore
	issuer      codeIssuer
	hasher      passwordHasher
	signer      tokenSigner
	notifier    notifier
	publisher   eventPublisher
	codeTTL     time.Duration
	maxAttempts int
	now         func() time.Time
}

type ServiceDeps struct {
	AccountRepo accountStore
	CodeRepo    codeStore
	CodeIssuer  codeIssuer
	Hasher      passwordHasher
	TokenSigner tokenSigner
	Notifier    notifier
	Publisher   eventPublisher // optional
	CodeTTL     time.Duration
	MaxAttempts int              // wrong submissions per code, defaults to 5
	Now         func() time.Time // optional, defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	ttl := deps.CodeTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	maxAttempts := deps.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &service{
		accounts:    deps.AccountRepo,
		codes:       deps.CodeRepo,
		issuer:      deps.CodeIssuer,
		hasher:      deps.Hasher,
		signer:      deps.TokenSigner,
		notifier:    deps.Notifier,
		publisher:   deps.Publisher,
		codeTTL:     ttl,
		maxAttempts: maxAttempts,
		now:         now,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	a := &domain.Account{
		AccountID:    id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.Registrations.WithLabelValues("conflict").Inc()
		} else {
			metrics.Registrations.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	// The account is committed; the bearer goes back even if no code is issued.
	token, err := s.sign(a)
	if err != nil {
		metrics.Registrations.WithLabelValues("error").Inc()
		return nil, err
	}
	res := &RegisterResult{Account: a, Token: token}

	code, err := s.issuer.Issue(ctx, a.AccountID, domain.PurposeEmailVerification)
	if err != nil {
		s.notificationFailed(ctx, "code", a.AccountID, err)
		res.CodePending = true
	} else {
		s.sendVerificationCode(ctx, a, code)
	}

	s.publish(ctx, domain.EventAccountRegistered, a)
	metrics.Registrations.WithLabelValues("created").Inc()
	return res, nil
}

// SubmitCode checks the code value first and its age second. A stale code is left
// in place so the next issuance can overwrite it.
func (s *service) SubmitCode(ctx context.Context, accountID, code string) (*domain.Account, error) {
	if err := validate.Struct(domain.SubmitCodeRequest{Code: code}); err != nil {
		metrics.Verifications.WithLabelValues("invalid").Inc()
		return nil, err
	}
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		s.countVerification(err)
		return nil, err
	}
	if a.Verified {
		metrics.Verifications.WithLabelValues("already_verified").Inc()
		return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrAlreadyVerified)
	}

	if err := s.checkCode(ctx, accountID, domain.PurposeEmailVerification, code); err != nil {
		s.countVerification(err)
		return nil, err
	}

	now := s.now().UTC()
	if err := s.accounts.MarkVerified(ctx, accountID, now); err != nil {
		s.countVerification(err)
		return nil, err
	}
	a.Verified = true
	a.UpdatedAt = now

	if err := s.codes.Delete(ctx, accountID, domain.PurposeEmailVerification); err != nil {
		slog.WarnContext(ctx, "failed to delete used verification code", "account_id", accountID, "err", err)
	}
	if err := s.notifier.SendWelcome(ctx, a.Email, a.Name); err != nil {
		s.notificationFailed(ctx, "email", a.AccountID, err)
	}
	s.publish(ctx, domain.EventAccountVerified, a)

	metrics.Verifications.WithLabelValues("verified").Inc()
	return a, nil
}

func (s *service) RequestVerificationCode(ctx context.Context, accountID string) error {
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if a.Verified {
		return fmt.Errorf("account %s: %w", accountID, domain.ErrAlreadyVerified)
	}
	code, err := s.issuer.Issue(ctx, a.AccountID, domain.PurposeEmailVerification)
	if err != nil {
		return fmt.Errorf("issue verification code: %w", err)
	}
	s.sendVerificationCode(ctx, a, code)
	s.publish(ctx, domain.EventVerificationRequested, a)
	return nil
}

// Login never returns a session token for an unverified account. Unknown email and
// wrong password produce the same error.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return nil, err
	}

	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.Logins.WithLabelValues("failure").Inc()
			return nil, invalidCredentials()
		}
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, err
	}

	ok, err := s.hasher.Verify(req.Password, a.PasswordHash)
	if err != nil {
		slog.WarnContext(ctx, "stored password hash is unreadable", "account_id", a.AccountID, "err", err)
	}
	if !ok {
		metrics.Logins.WithLabelValues("failure").Inc()
		return nil, invalidCredentials()
	}

	if !a.Verified {
		code, err := s.issuer.Issue(ctx, a.AccountID, domain.PurposeEmailVerification)
		if err != nil {
			metrics.Logins.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("issue verification code: %w", err)
		}
		s.sendVerificationCode(ctx, a, code)
		s.publish(ctx, domain.EventVerificationRequested, a)

		vt, err := s.signer.SignVerification(a.AccountID, a.Role)
		if err != nil {
			metrics.Logins.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("sign verification token: %w: %w", domain.ErrUnavailable, err)
		}
		metrics.Logins.WithLabelValues("challenge").Inc()
		return &LoginResult{Account: a, VerificationToken: vt, Challenge: true}, nil
	}

	token, err := s.sign(a)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.Logins.WithLabelValues("success").Inc()
	return &LoginResult{Account: a, Token: token}, nil
}

func (s *service) Me(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accounts.Get(ctx, accountID)
}

// DeleteAccount removes the account and its email guard, then every code it owns.
func (s *service) DeleteAccount(ctx context.Context, accountID string) error {
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, a); err != nil {
		return err
	}
	if err := s.codes.DeleteByOwner(ctx, accountID); err != nil {
		slog.WarnContext(ctx, "failed to cascade verification codes", "account_id", accountID, "err", err)
	}
	return nil
}

// RequestPasswordReset succeeds silently for unknown emails.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	req := domain.PasswordResetRequest{Email: domain.NormalizeEmail(email)}
	if err := validate.Struct(req); err != nil {
		return err
	}
	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	code, err := s.issuer.Issue(ctx, a.AccountID, domain.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("issue reset code: %w", err)
	}
	if err := s.notifier.SendPasswordResetCode(ctx, a.Email, a.Name, code); err != nil {
		s.notificationFailed(ctx, "email", a.AccountID, err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return err
	}
	a, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no reset code for this email: %w", domain.ErrInvalidCode)
		}
		return err
	}
	if err := s.checkCode(ctx, a.AccountID, domain.PurposePasswordReset, req.Code); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, a.AccountID, hash, a.UpdatedAt, s.now().UTC()); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, a.AccountID, domain.PurposePasswordReset); err != nil {
		slog.WarnContext(ctx, "failed to delete used reset code", "account_id", a.AccountID, "err", err)
	}
	s.publish(ctx, domain.EventPasswordReset, a)
	return nil
}

// checkCode loads the live code for (accountID, purpose) and matches it against the
// submitted value before looking at its age. A code that has taken maxAttempts wrong
// submissions rejects everything, the right value included, until it is reissued.
func (s *service) checkCode(ctx context.Context, accountID, purpose, submitted string) error {
	v, err := s.codes.Get(ctx, accountID, purpose)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no active code: %w", domain.ErrInvalidCode)
		}
		return err
	}
	if v.Attempts >= s.maxAttempts {
		return fmt.Errorf("code locked after %d attempts: %w", v.Attempts, domain.ErrInvalidCode)
	}
	if subtle.ConstantTimeCompare([]byte(v.Code), []byte(submitted)) != 1 {
		if _, err := s.codes.RecordFailedAttempt(ctx, accountID, purpose, v.Code); err != nil && !errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "failed to record code attempt", "account_id", accountID, "purpose", purpose, "err", err)
		}
		return fmt.Errorf("code mismatch: %w", domain.ErrInvalidCode)
	}
	if v.Expired(s.now(), s.codeTTL) {
		return fmt.Errorf("code issued at %s: %w", v.IssuedAt.Format(time.RFC3339), domain.ErrCodeExpired)
	}
	return nil
}

func (s *service) sign(a *domain.Account) (string, error) {
	token, err := s.signer.Sign(a.AccountID, a.Role)
	if err != nil {
		return "", fmt.Errorf("sign token: %w: %w", domain.ErrUnavailable, err)
	}
	return token, nil
}

func (s *service) sendVerificationCode(ctx context.Context, a *domain.Account, code string) {
	if err := s.notifier.SendVerificationCode(ctx, a.Email, a.Name, code); err != nil {
		s.notificationFailed(ctx, "email", a.AccountID, err)
	}
}

func (s *service) publish(ctx context.Context, subject string, a *domain.Account) {
	if s.publisher == nil {
		return
	}
	ev := domain.AccountEvent{
		AccountID:  a.AccountID,
		Email:      a.Email,
		Role:       a.Role,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, subject, ev); err != nil {
		s.notificationFailed(ctx, "event", a.AccountID, err)
	}
}

func (s *service) notificationFailed(ctx context.Context, kind, accountID string, err error) {
	metrics.NotificationFailures.WithLabelValues(kind).Inc()
	slog.WarnContext(ctx, "notification failed", "kind", kind, "account_id", accountID, "err", err)
}

func (s *service) countVerification(err error) {
	result := "error"
	switch {
	case errors.Is(err, domain.ErrInvalidCode):
		result = "invalid_code"
	case errors.Is(err, domain.ErrCodeExpired):
		result = "expired"
	case errors.Is(err, domain.ErrAlreadyVerified):
		result = "already_verified"
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	}
	metrics.Verifications.WithLabelValues(result).Inc()
}

func invalidCredentials() error {
	return fmt.Errorf("invalid credentials: %w", domain.ErrInvalidCredentials)
}
