package domain

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=4"`
}

// Principal is the authenticated caller
type Principal struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
}

type AuthCheckResponse struct {
	Authenticated bool `json:"authenticated"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
