package auth

import (
	"github.com/angelmondragon/wardrop-backend/internal/admins"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token paired with the presented access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest changes the signed-in admin's display name.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// TokenResponse contains the tokens and admin produced by a successful login or refresh.
type TokenResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	Admin        *admins.AdminDTO `json:"admin,omitempty"`
}
