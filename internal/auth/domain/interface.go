package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_auth_repository.go -package=mocks github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain UserRepository,LoginAttemptRepository,OtpRepository,RefreshTokenRepository

// Lookups return (nil, nil) when no row matches.

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

type LoginAttemptRepository interface {
	GetByIdentifier(ctx context.Context, identifier string) (*LoginAttempt, error)
	RecordFailure(ctx context.Context, identifier, ip string) (*LoginAttempt, error)
	Lock(ctx context.Context, identifier string, until time.Time) error
	Reset(ctx context.Context, identifier string) error
}

type OtpRepository interface {
	Create(ctx context.Context, otp *Otp) error
	FindByCode(ctx context.Context, userID int64, otpType OtpType, code string) (*Otp, error)
	MarkUsed(ctx context.Context, id int64, at time.Time) (bool, error)
	DeleteExpiredUnused(ctx context.Context, before time.Time) (int64, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error
	Find(ctx context.Context, token string, userID int64) (*RefreshToken, error)
	Delete(ctx context.Context, token string, userID int64) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
