package auth

import (
	"github.com/google/uuid"

	"github.com/bizlink/leadgen-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token and user produced by a successful login.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// RegisterRequest contains the payload for onboarding a new user. Role
// defaults to business when omitted; the storefront fields are only honored
// for business registrations.
type RegisterRequest struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	Role         string  `json:"role,omitempty" validate:"omitempty,oneof=admin business customer"`
	BusinessName *string `json:"business_name,omitempty"`
	Category     *string `json:"category,omitempty"`
	Location     *string `json:"location,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// RegisterResponse reports the created identifiers. BusinessID is only set
// for business registrations.
type RegisterResponse struct {
	Message    string     `json:"message"`
	UserID     uuid.UUID  `json:"user_id"`
	BusinessID *uuid.UUID `json:"business_id,omitempty"`
}

// UpdateProfileRequest captures the caller-editable profile fields.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Bio     *string `json:"bio,omitempty"`
}

// SeedRequest bootstraps the first admin user. Key must match the
// server-side seed secret.
type SeedRequest struct {
	Key      string `json:"key" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}
