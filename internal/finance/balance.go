package finance

import (
	"time"

	"github.com/segyhp/loan-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// OutstandingPrincipal subtracts every principal or both payment from the
// principal. Interest payments never reduce it. The result is not clamped, so
// a negative value means the loan has been overpaid.
func OutstandingPrincipal(principal decimal.Decimal, payments []*domain.Payment) decimal.Decimal {
	return principal.Sub(PrincipalPaid(payments))
}

// PrincipalPaid sums the payments that count against the principal.
func PrincipalPaid(payments []*domain.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.ReducesPrincipal() {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// TotalPaid sums every payment regardless of type.
func TotalPaid(payments []*domain.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// IsOverpaid reports whether an outstanding balance went below zero.
func IsOverpaid(outstanding decimal.Decimal) bool {
	return outstanding.IsNegative()
}

// Summarize derives the loan detail figures from a loan and its payments.
func Summarize(loan *domain.Loan, payments []*domain.Payment, now time.Time) domain.LoanSummary {
	totalPaid := TotalPaid(payments)
	principalPaid := PrincipalPaid(payments)
	outstanding := loan.PrincipalAmount.Sub(principalPaid)

	return domain.LoanSummary{
		TotalPaid:      totalPaid,
		PrincipalPaid:  principalPaid,
		InterestPaid:   totalPaid.Sub(principalPaid),
		Outstanding:    outstanding,
		Overpaid:       IsOverpaid(outstanding),
		InterestToDate: InterestToDate(loan, now).Response(),
		Overdue:        ClassifyOverdue(loan, now),
	}
}
