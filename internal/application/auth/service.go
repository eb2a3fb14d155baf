package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/pkg/id"
	"github.com/go-otp-auth/internal/pkg/otpcode"
	"github.com/go-otp-auth/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// CodeTTL is how long an issued code stays valid.
const CodeTTL = 10 * time.Minute

type SignupCodeRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifySignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// SignupService drives email verification for new accounts.
type SignupService interface {
	RequestSignupCode(ctx context.Context, req SignupCodeRequest) error
	VerifySignupCode(ctx context.Context, req VerifySignupRequest) (*domain.User, error)
}

// PasswordRecoveryService drives the emailed-code password reset.
type PasswordRecoveryService interface {
	RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type Service interface {
	SignupService
	PasswordRecoveryService
}

type codeStore interface {
	Get(ctx context.Context, purpose domain.Purpose, identity string) (*domain.PendingCode, error)
	Put(ctx context.Context, p *domain.PendingCode) error
	PutIfAbsent(ctx context.Context, p *domain.PendingCode) error
	Delete(ctx context.Context, purpose domain.Purpose, identity string) error
	Consume(ctx context.Context, purpose domain.Purpose, identity, code string) error
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type notifier interface {
	SendSignupCode(ctx context.Context, to, name, code string) error
	SendResetCode(ctx context.Context, to, code string) error
}

// ServiceDeps holds the collaborators of the auth service. Signup and reset
// codes may live in different stores. Now, NewCode and HashCost are optional.
type ServiceDeps struct {
	SignupCodes codeStore
	ResetCodes  codeStore
	UserRepo    userStore
	Notifier    notifier
	Now         func() time.Time
	NewCode     func() (string, error)
	HashCost    int
}

type service struct {
	signupCodes codeStore
	resetCodes  codeStore
	userRepo    userStore
	notifier    notifier
	now         func() time.Time
	newCode     func() (string, error)
	hashCost    int
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		signupCodes: deps.SignupCodes,
		resetCodes:  deps.ResetCodes,
		userRepo:    deps.UserRepo,
		notifier:    deps.Notifier,
		now:         deps.Now,
		newCode:     deps.NewCode,
		hashCost:    deps.HashCost,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = otpcode.New
	}
	if s.hashCost == 0 {
		s.hashCost = bcrypt.DefaultCost
	}
	return s
}

func (s *service) RequestSignupCode(ctx context.Context, req SignupCodeRequest) error {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return badRequest(err)
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return err
	}
	code, err := s.issue(ctx, s.signupCodes, domain.PurposeSignup, req.Email, &domain.SignupPayload{
		DisplayName:  req.Name,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	if err := s.notifier.SendSignupCode(ctx, req.Email, req.Name, code); err != nil {
		return fmt.Errorf("send signup code: %w: %w", domain.ErrUpstream, err)
	}
	return nil
}

func (s *service) VerifySignupCode(ctx context.Context, req VerifySignupRequest) (*domain.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := validate.Struct(req); err != nil {
		return nil, badRequest(err)
	}
	entry, err := s.match(ctx, s.signupCodes, domain.PurposeSignup, req.Email, req.OTP)
	if err != nil {
		return nil, err
	}
	if entry.Payload == nil {
		return nil, fmt.Errorf("pending signup has no staged user: %w", domain.ErrUpstream)
	}
	if err := s.consume(ctx, s.signupCodes, entry); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &domain.User{
		Email:        entry.Identity,
		UserID:       id.New(),
		DisplayName:  entry.Payload.DisplayName,
		PasswordHash: entry.Payload.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		s.restore(ctx, s.signupCodes, entry)
		return nil, fmt.Errorf("create user: %w: %w", domain.ErrUpstream, err)
	}
	return u, nil
}

// RequestPasswordReset issues a reset code when the email belongs to a user.
// Unknown emails succeed silently so callers cannot enumerate accounts.
func (s *service) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return badRequest(err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.DebugContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("look up user: %w: %w", domain.ErrUpstream, err)
	}
	code, err := s.issue(ctx, s.resetCodes, domain.PurposeReset, req.Email, nil)
	if err != nil {
		return err
	}
	if err := s.notifier.SendResetCode(ctx, req.Email, code); err != nil {
		return fmt.Errorf("send reset code: %w: %w", domain.ErrUpstream, err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := validate.Struct(req); err != nil {
		return badRequest(err)
	}
	entry, err := s.match(ctx, s.resetCodes, domain.PurposeReset, req.Email, req.Code)
	if err != nil {
		return err
	}
	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.consume(ctx, s.resetCodes, entry); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, entry.Identity, hash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no account for this email: %w", domain.ErrNotFound)
		}
		s.restore(ctx, s.resetCodes, entry)
		return fmt.Errorf("update password: %w: %w", domain.ErrUpstream, err)
	}
	return nil
}

// issue writes a fresh code for (purpose, identity), replacing any previous one.
func (s *service) issue(ctx context.Context, store codeStore, purpose domain.Purpose, identity string, payload *domain.SignupPayload) (string, error) {
	code, err := s.newCode()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	p := &domain.PendingCode{
		Identity:  identity,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: s.now().Add(CodeTTL),
		Payload:   payload,
	}
	if err := store.Put(ctx, p); err != nil {
		return "", fmt.Errorf("store %s code: %w: %w", purpose, domain.ErrUpstream, err)
	}
	return code, nil
}

// match looks up the pending entry and checks expiry, then the code.
// An expired entry is deleted; a wrong code leaves the entry in place.
func (s *service) match(ctx context.Context, store codeStore, purpose domain.Purpose, identity, code string) (*domain.PendingCode, error) {
	entry, err := store.Get(ctx, purpose, identity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no pending %s request: %w", purpose, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load %s code: %w: %w", purpose, domain.ErrUpstream, err)
	}
	if entry.Expired(s.now()) {
		if err := store.Delete(ctx, purpose, identity); err != nil {
			slog.WarnContext(ctx, "failed to delete expired code", "purpose", purpose, "err", err)
		}
		return nil, fmt.Errorf("%s code expired: %w", purpose, domain.ErrExpired)
	}
	if entry.Code != code {
		return nil, fmt.Errorf("invalid %s code: %w", purpose, domain.ErrMismatch)
	}
	return entry, nil
}

// consume removes the matched entry. Of two concurrent verifications only one
// succeeds; the other gets ErrNotFound.
func (s *service) consume(ctx context.Context, store codeStore, entry *domain.PendingCode) error {
	if err := store.Consume(ctx, entry.Purpose, entry.Identity, entry.Code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no pending %s request: %w", entry.Purpose, domain.ErrNotFound)
		}
		return fmt.Errorf("consume %s code: %w: %w", entry.Purpose, domain.ErrUpstream, err)
	}
	return nil
}

// restore puts a consumed entry back after the completion step failed upstream,
// so the user can retry with the same code. A code issued in the meantime wins.
func (s *service) restore(ctx context.Context, store codeStore, entry *domain.PendingCode) {
	err := store.PutIfAbsent(context.WithoutCancel(ctx), entry)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConflict):
		slog.InfoContext(ctx, "newer code issued, consumed code not restored", "purpose", entry.Purpose)
	default:
		slog.WarnContext(ctx, "failed to restore consumed code", "purpose", entry.Purpose, "err", err)
	}
}

func (s *service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("password must be at most 72 bytes: %w", domain.ErrBadRequest)
		}
		return "", fmt.Errorf("hash password: %w: %w", domain.ErrUpstream, err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
}
