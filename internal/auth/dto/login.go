package dto

type LoginInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	IPAddress string `json:"-"`
}

type VerifyOtpInput struct {
	Email     string `json:"email" validate:"required,email"`
	Otp       string `json:"otp" validate:"required,len=6,numeric"`
	IPAddress string `json:"-"`
}

type PreLoginResponse struct {
	Message string `json:"message"`
	Otp     string `json:"otp"`
}

type LoginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         UserOutput `json:"user"`
}
