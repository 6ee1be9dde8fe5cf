package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive    = "active"
	LoanStatusPaid      = "paid"
	LoanStatusOverdue   = "overdue"
	LoanStatusCancelled = "cancelled"
)

const (
	InterestPeriodWeekly   = "weekly"
	InterestPeriodBiweekly = "biweekly"
	InterestPeriodMonthly  = "monthly"
)

// LoanStatuses lists every value the status column accepts.
var LoanStatuses = []string{LoanStatusActive, LoanStatusPaid, LoanStatusOverdue, LoanStatusCancelled}

// InterestPeriods lists every supported compounding period.
var InterestPeriods = []string{InterestPeriodWeekly, InterestPeriodBiweekly, InterestPeriodMonthly}

// IsValidLoanStatus reports whether status is one of LoanStatuses.
func IsValidLoanStatus(status string) bool {
	for _, s := range LoanStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidInterestPeriod reports whether period is one of InterestPeriods.
func IsValidInterestPeriod(period string) bool {
	for _, p := range InterestPeriods {
		if p == period {
			return true
		}
	}
	return false
}

// Loan represents a principal amount lent to a client
type Loan struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ClientID        uuid.UUID       `json:"client_id" db:"client_id"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	InterestRate    decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	InterestPeriod  string          `json:"interest_period" db:"interest_period"`
	StartDate       time.Time       `json:"start_date" db:"start_date"`
	DueDate         time.Time       `json:"due_date" db:"due_date"`
	Status          string          `json:"status" db:"status"`
	Notes           string          `json:"notes" db:"notes"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	OwnerID         uuid.UUID       `json:"-" db:"owner_id"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	ClientID        string `json:"client_id" validate:"required,uuid"`
	PrincipalAmount string `json:"principal_amount" validate:"required,money"`
	InterestRate    string `json:"interest_rate" validate:"required,money"`
	InterestPeriod  string `json:"interest_period" validate:"required,oneof=weekly biweekly monthly"`
	StartDate       string `json:"start_date" validate:"required"`
	DueDate         string `json:"due_date" validate:"required"`
	Notes           string `json:"notes"`
}

// UpdateLoanRequest carries a partial update; nil fields are left untouched.
type UpdateLoanRequest struct {
	PrincipalAmount *string `json:"principal_amount" validate:"omitempty,money"`
	InterestRate    *string `json:"interest_rate" validate:"omitempty,money"`
	InterestPeriod  *string `json:"interest_period" validate:"omitempty,oneof=weekly biweekly monthly"`
	StartDate       *string `json:"start_date"`
	DueDate         *string `json:"due_date"`
	Status          *string `json:"status" validate:"omitempty,oneof=active paid overdue cancelled"`
	Notes           *string `json:"notes"`
}

// CalculateInterestRequest takes plain numbers, like the loan detail view sends them.
type CalculateInterestRequest struct {
	PrincipalAmount float64 `json:"principal_amount" validate:"gte=0"`
	InterestRate    float64 `json:"interest_rate" validate:"gte=0"`
	InterestPeriod  string  `json:"interest_period" validate:"required,oneof=weekly biweekly monthly"`
	StartDate       string  `json:"start_date" validate:"required"`
	EndDate         string  `json:"end_date" validate:"required"`
}

type CalculateInterestResponse struct {
	Periods        int    `json:"periods"`
	InterestAmount string `json:"interest_amount"`
	TotalAmount    string `json:"total_amount"`
	FinalAmount    string `json:"final_amount"`
}

type OutstandingResponse struct {
	LoanID      uuid.UUID       `json:"loan_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Overpaid    bool            `json:"overpaid"`
}

// LoanSummary holds the figures derived from a loan and its payments.
type LoanSummary struct {
	TotalPaid      decimal.Decimal           `json:"total_paid"`
	PrincipalPaid  decimal.Decimal           `json:"principal_paid"`
	InterestPaid   decimal.Decimal           `json:"interest_paid"`
	Outstanding    decimal.Decimal           `json:"outstanding"`
	Overpaid       bool                      `json:"overpaid"`
	InterestToDate CalculateInterestResponse `json:"interest_to_date"`
	Overdue        OverdueStatus             `json:"overdue"`
}

type LoanDetailResponse struct {
	Loan     *Loan       `json:"loan"`
	Client   *Client     `json:"client,omitempty"`
	Payments []*Payment  `json:"payments"`
	Summary  LoanSummary `json:"summary"`
}

// OverdueStatus is the read-time overdue classification of a loan. It is never
// written back to the status column.
type OverdueStatus struct {
	Overdue     bool   `json:"overdue"`
	DaysOverdue int    `json:"days_overdue"`
	Severity    string `json:"severity,omitempty"`
}

const (
	SeverityRecent   = "recent"
	SeverityModerate = "moderate"
	SeverityCritical = "critical"
)

type OverdueLoan struct {
	Loan   *Loan         `json:"loan"`
	Client *Client       `json:"client,omitempty"`
	Status OverdueStatus `json:"status"`
}
