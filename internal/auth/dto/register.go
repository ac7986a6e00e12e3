package dto

// Emails are capped at 233 characters to leave room for the soft-delete
// suffix. Passwords are capped at bcrypt's 72 byte input limit.
type RegisterInput struct {
	Name           string `json:"name" validate:"required,min=3,max=50,personname"`
	Email          string `json:"email" validate:"required,max=233,email"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	DocumentNumber string `json:"documentNumber" validate:"required,min=5,max=12,numeric"`
	PhoneNumber    string `json:"phoneNumber" validate:"omitempty,min=7,max=15,numeric"`
}
