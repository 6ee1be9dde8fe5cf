package finance

import (
	"time"

	"github.com/segyhp/loan-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// DashboardAggregates folds loans and payments into the dashboard figures.
// loans may include any status; only active loans count towards the lent
// total and the monthly interest estimate.
func DashboardAggregates(totalClients int, loans []*domain.Loan, payments []*domain.Payment, now time.Time) domain.DashboardStats {
	stats := domain.DashboardStats{
		TotalClients:    totalClients,
		TotalLoans:      len(loans),
		TotalLent:       decimal.Zero,
		MonthlyInterest: decimal.Zero,
	}

	for _, loan := range loans {
		if IsOverdue(loan, now) {
			stats.TotalOverdue++
		}
		if loan.Status != domain.LoanStatusActive {
			continue
		}
		stats.TotalActiveLoans++
		stats.TotalLent = stats.TotalLent.Add(loan.PrincipalAmount)
		stats.MonthlyInterest = stats.MonthlyInterest.Add(MonthlyInterest(loan))
	}

	stats.TotalReceived = TotalPaid(payments)
	stats.TotalOnStreet = stats.TotalLent.Sub(stats.TotalReceived)
	stats.MonthlyInterest = stats.MonthlyInterest.Round(2)

	return stats
}
