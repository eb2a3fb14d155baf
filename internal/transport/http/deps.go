package http

import (
	"context"
	"log/slog"

	"github.com/go-otp-auth/internal/domain"
	jwtinfra "github.com/go-otp-auth/internal/infrastructure/jwt"
)

// CodeStore is the pending-code store contract shared by the memory, redis and dynamo backings.
type CodeStore interface {
	Get(ctx context.Context, purpose domain.Purpose, identity string) (*domain.PendingCode, error)
	Put(ctx context.Context, p *domain.PendingCode) error
	PutIfAbsent(ctx context.Context, p *domain.PendingCode) error
	Delete(ctx context.Context, purpose domain.Purpose, identity string) error
	Consume(ctx context.Context, purpose domain.Purpose, identity, code string) error
}

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// DetailRepository is the minimal interface the router requires from a detail store.
type DetailRepository interface {
	Put(ctx context.Context, d *domain.Detail) error
	Scan(ctx context.Context) ([]domain.Detail, error)
}

// Notifier delivers verification codes.
type Notifier interface {
	SendSignupCode(ctx context.Context, to, name, code string) error
	SendResetCode(ctx context.Context, to, code string) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	SignupCodes CodeStore
	ResetCodes  CodeStore
	UserRepo    UserRepository
	DetailRepo  DetailRepository
	Notifier    Notifier
	JWTProvider *jwtinfra.Provider
	Logger      *slog.Logger
}
