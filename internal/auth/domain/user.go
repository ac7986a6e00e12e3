package domain

import "time"

type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleCoordinator   Role = "COORDINATOR"
	RoleProfessional  Role = "PROFESSIONAL"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleCoordinator, RoleProfessional:
		return true
	}
	return false
}

type OtpType string

const OtpTypeLogin OtpType = "LOGIN"

// User.PasswordHash is only populated by lookups that explicitly ask for it.
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	DocumentNumber string
	PhoneNumber    string
	Active         bool
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

type RefreshToken struct {
	ID        int64
	Token     string
	UserID    int64
	IPAddress string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// LoginAttempt tracks consecutive failures for one identifier (the email).
type LoginAttempt struct {
	ID         int64
	Identifier string
	Attempts   int
	IPAddress  string
	LockUntil  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a *LoginAttempt) IsLocked(now time.Time) bool {
	return a != nil && a.LockUntil != nil && a.LockUntil.After(now)
}

type Otp struct {
	ID        int64
	Code      string
	Type      OtpType
	UserID    int64
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (o *Otp) Used() bool {
	return o.UsedAt != nil
}

func (o *Otp) Expired(now time.Time) bool {
	return !o.ExpiresAt.After(now)
}
