package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is the counterparty who received a loan
type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Document  string    `json:"document" db:"document"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	Notes     string    `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	OwnerID   uuid.UUID `json:"-" db:"owner_id"`
}

type CreateClientRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Document string `json:"document" validate:"max=14"`
	Phone    string `json:"phone" validate:"max=20"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

type UpdateClientRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Document *string `json:"document" validate:"omitempty,max=14"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
}

type ClientDetailResponse struct {
	Client *Client `json:"client"`
	Loans  []*Loan `json:"loans"`
}
