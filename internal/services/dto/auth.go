package dto

import (
	"jobportal_backend/internal/models"
)

type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6,max=72"`
	Role     models.UserRole `json:"role" validate:"omitempty,is-user-role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

// UpdateProfileRequest - nil fields are left untouched.
type UpdateProfileRequest struct {
	Name       *string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone      *string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	Location   *string   `json:"location,omitempty" validate:"omitempty,max=100"`
	Bio        *string   `json:"bio,omitempty" validate:"omitempty,max=500"`
	Skills     *[]string `json:"skills,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
	Experience *string   `json:"experience,omitempty" validate:"omitempty,max=5000"`
	Education  *string   `json:"education,omitempty" validate:"omitempty,max=5000"`
}
