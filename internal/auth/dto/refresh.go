package dto

// RefreshInput is the JSON fallback for clients that cannot send the
// refresh cookie.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
