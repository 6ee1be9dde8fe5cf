// Package finance holds the loan financial engine: compound-interest
// projection, payment allocation, overdue classification and dashboard
// aggregation. Every function is a pure computation over its arguments.
package finance

import (
	"time"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/pkg/utils"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// periodLengthDays uses a fixed 30-day month, not calendar months.
var periodLengthDays = map[string]int{
	domain.InterestPeriodWeekly:   7,
	domain.InterestPeriodBiweekly: 14,
	domain.InterestPeriodMonthly:  30,
}

// periodsPerMonth is the flat monthly approximation used by the dashboard.
var periodsPerMonth = map[string]int{
	domain.InterestPeriodWeekly:   4,
	domain.InterestPeriodBiweekly: 2,
	domain.InterestPeriodMonthly:  1,
}

// InterestResult is the outcome of a compound-interest projection. Amounts keep
// full precision; round them with Response or utils.Money at the boundary.
type InterestResult struct {
	Periods        int
	InterestAmount decimal.Decimal
	FinalAmount    decimal.Decimal
}

// Response formats the result with two-decimal strings.
func (r InterestResult) Response() domain.CalculateInterestResponse {
	return domain.CalculateInterestResponse{
		Periods:        r.Periods,
		InterestAmount: utils.Money(r.InterestAmount),
		TotalAmount:    utils.Money(r.FinalAmount),
		FinalAmount:    utils.Money(r.FinalAmount),
	}
}

// ElapsedPeriods returns how many whole compounding periods fit between start
// and end. Unknown periods yield zero.
func ElapsedPeriods(period string, start, end time.Time) int {
	length, ok := periodLengthDays[period]
	if !ok {
		return 0
	}
	return utils.ElapsedDays(start, end) / length
}

// CompoundInterest projects principal × (1 + ratePercent/100)^periods, where
// periods is the number of whole periods elapsed between start and end.
func CompoundInterest(principal, ratePercent decimal.Decimal, period string, start, end time.Time) InterestResult {
	return Compound(principal, ratePercent, ElapsedPeriods(period, start, end))
}

// Compound applies ratePercent for a fixed number of periods.
func Compound(principal, ratePercent decimal.Decimal, periods int) InterestResult {
	if periods <= 0 {
		return InterestResult{
			Periods:        0,
			InterestAmount: decimal.Zero,
			FinalAmount:    principal,
		}
	}

	factor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	final := principal.Mul(factor.Pow(decimal.NewFromInt(int64(periods))))

	return InterestResult{
		Periods:        periods,
		InterestAmount: final.Sub(principal),
		FinalAmount:    final,
	}
}

// MonthlyInterest estimates the interest a loan accrues in one month using
// the fixed periods-per-month table (weekly 4, biweekly 2, monthly 1).
func MonthlyInterest(loan *domain.Loan) decimal.Decimal {
	return Compound(loan.PrincipalAmount, loan.InterestRate, periodsPerMonth[loan.InterestPeriod]).InterestAmount
}

// InterestToDate projects a loan from its start date up to now.
func InterestToDate(loan *domain.Loan, now time.Time) InterestResult {
	return CompoundInterest(loan.PrincipalAmount, loan.InterestRate, loan.InterestPeriod, loan.StartDate, now)
}
