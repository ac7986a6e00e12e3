package dto

import (
	"time"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
)

// UserOutput is the sanitized user projection. It never carries the
// password hash.
type UserOutput struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	DocumentNumber string      `json:"documentNumber"`
	PhoneNumber    string      `json:"phoneNumber"`
	Active         bool        `json:"active"`
	LastLogin      *time.Time  `json:"lastLogin"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		DocumentNumber: u.DocumentNumber,
		PhoneNumber:    u.PhoneNumber,
		Active:         u.Active,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type CreateUserInput struct {
	Name           string `json:"name" validate:"required,min=3,max=50,personname"`
	Email          string `json:"email" validate:"required,max=233,email"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	Role           string `json:"role" validate:"required,oneof=ADMINISTRATOR COORDINATOR PROFESSIONAL"`
	DocumentNumber string `json:"documentNumber" validate:"required,min=5,max=12,numeric"`
	PhoneNumber    string `json:"phoneNumber" validate:"omitempty,min=7,max=15,numeric"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name           *string `json:"name" validate:"omitempty,min=3,max=50,personname"`
	Email          *string `json:"email" validate:"omitempty,max=233,email"`
	Password       *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role           *string `json:"role" validate:"omitempty,oneof=ADMINISTRATOR COORDINATOR PROFESSIONAL"`
	DocumentNumber *string `json:"documentNumber" validate:"omitempty,min=5,max=12,numeric"`
	PhoneNumber    *string `json:"phoneNumber" validate:"omitempty,min=7,max=15,numeric"`
	Active         *bool   `json:"active"`
}
