package service

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	testOwner = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testNow   = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time {
	return testNow
}

func testLoan(clientID uuid.UUID, principal string, due time.Time) *domain.Loan {
	return &domain.Loan{
		ID:              uuid.New(),
		ClientID:        clientID,
		PrincipalAmount: decimal.RequireFromString(principal),
		InterestRate:    decimal.NewFromInt(10),
		InterestPeriod:  domain.InterestPeriodWeekly,
		StartDate:       testNow.AddDate(0, 0, -14),
		DueDate:         due,
		Status:          domain.LoanStatusActive,
		OwnerID:         testOwner,
	}
}

func testPayment(loanID uuid.UUID, amount, paymentType string) *domain.Payment {
	return &domain.Payment{
		ID:          uuid.New(),
		LoanID:      loanID,
		Amount:      decimal.RequireFromString(amount),
		PaymentDate: testNow,
		PaymentType: paymentType,
		OwnerID:     testOwner,
	}
}

func ptr[T any](v T) *T {
	return &v
}
