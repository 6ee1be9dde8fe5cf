package finance

import (
	"time"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

// Severity thresholds in days overdue.
const (
	recentMaxDays   = 7
	moderateMaxDays = 30
)

// IsOverdue reports whether an active loan is past its due date. The stored
// status gates the predicate: paid or cancelled loans are never overdue.
func IsOverdue(loan *domain.Loan, now time.Time) bool {
	return loan.Status == domain.LoanStatusActive && utils.IsDateOverdue(loan.DueDate, now)
}

// ClassifyOverdue computes the read-time overdue classification of a loan.
func ClassifyOverdue(loan *domain.Loan, now time.Time) domain.OverdueStatus {
	if !IsOverdue(loan, now) {
		return domain.OverdueStatus{}
	}

	days := utils.DaysSince(loan.DueDate, now)
	return domain.OverdueStatus{
		Overdue:     true,
		DaysOverdue: days,
		Severity:    Severity(days),
	}
}

// Severity maps days overdue to a display tier.
func Severity(daysOverdue int) string {
	switch {
	case daysOverdue <= recentMaxDays:
		return domain.SeverityRecent
	case daysOverdue <= moderateMaxDays:
		return domain.SeverityModerate
	default:
		return domain.SeverityCritical
	}
}
