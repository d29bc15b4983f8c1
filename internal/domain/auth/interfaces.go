package auth

import (
	"context"
	"time"

	"beautybook/internal/domain"
)

// UserRepository — only the methods the auth service uses
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByLoginOrPersonalID(ctx context.Context, login, personalID string) (bool, error)
	SetVerificationCode(ctx context.Context, userID int64, codeHash string, sentAt, expiresAt time.Time) error
	IncrementVerificationAttempts(ctx context.Context, userID int64) (int, error)
	MarkVerified(ctx context.Context, userID int64, at time.Time) error
	DeleteUnverified(ctx context.Context, userID int64) error
	DeleteExpiredUnverified(ctx context.Context, before time.Time) (int64, error)
}

// Mailer delivers the one-time code to the user's login address.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// TokenIssuer is satisfied by *jwt.Service.
type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}
