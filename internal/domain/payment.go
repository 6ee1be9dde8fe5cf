package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentTypePrincipal = "principal"
	PaymentTypeInterest  = "interest"
	PaymentTypeBoth      = "both"
)

// Payment represents a single payment applied against a loan
type Payment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	LoanID      uuid.UUID       `json:"loan_id" db:"loan_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	PaymentType string          `json:"payment_type" db:"payment_type"`
	Notes       string          `json:"notes" db:"notes"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	OwnerID     uuid.UUID       `json:"-" db:"owner_id"`
}

// ReducesPrincipal reports whether the payment counts against the principal.
func (p *Payment) ReducesPrincipal() bool {
	return p.PaymentType == PaymentTypePrincipal || p.PaymentType == PaymentTypeBoth
}

type CreatePaymentRequest struct {
	LoanID      string `json:"loan_id" validate:"required,uuid"`
	Amount      string `json:"amount" validate:"required,money"`
	PaymentDate string `json:"payment_date" validate:"required"`
	PaymentType string `json:"payment_type" validate:"required,oneof=principal interest both"`
	Notes       string `json:"notes"`
}
