package finance

import (
	"testing"

	"github.com/segyhp/loan-ledger/internal/domain"

	"github.com/stretchr/testify/assert"
)

func payment(amount, paymentType string) *domain.Payment {
	return &domain.Payment{Amount: d(amount), PaymentType: paymentType}
}

func TestOutstandingPrincipal(t *testing.T) {
	tests := []struct {
		name     string
		payments []*domain.Payment
		expected string
	}{
		{
			name:     "no payments",
			payments: nil,
			expected: "1000",
		},
		{
			name: "interest payments leave principal untouched",
			payments: []*domain.Payment{
				payment("100", domain.PaymentTypeInterest),
				payment("50", domain.PaymentTypeInterest),
			},
			expected: "1000",
		},
		{
			name: "principal payments reduce the balance",
			payments: []*domain.Payment{
				payment("200", domain.PaymentTypePrincipal),
				payment("100", domain.PaymentTypeInterest),
				payment("150", domain.PaymentTypePrincipal),
			},
			expected: "650",
		},
		{
			name: "both counts against principal",
			payments: []*domain.Payment{
				payment("300", domain.PaymentTypeBoth),
				payment("100", domain.PaymentTypeInterest),
				payment("200", domain.PaymentTypePrincipal),
			},
			expected: "500",
		},
		{
			name: "overpayment goes negative",
			payments: []*domain.Payment{
				payment("800", domain.PaymentTypePrincipal),
				payment("250.50", domain.PaymentTypeBoth),
			},
			expected: "-50.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := OutstandingPrincipal(d("1000"), tt.payments)
			assert.True(t, result.Equal(d(tt.expected)), "expected %s, got %s", tt.expected, result)
		})
	}
}

func TestIsOverpaid(t *testing.T) {
	assert.True(t, IsOverpaid(d("-0.01")))
	assert.False(t, IsOverpaid(d("0")))
	assert.False(t, IsOverpaid(d("10")))
}

func TestSummarize(t *testing.T) {
	loan := &domain.Loan{
		PrincipalAmount: d("1000"),
		InterestRate:    d("10"),
		InterestPeriod:  domain.InterestPeriodWeekly,
		StartDate:       baseDate,
		DueDate:         baseDate.AddDate(0, 0, 14),
		Status:          domain.LoanStatusActive,
	}
	payments := []*domain.Payment{
		payment("300", domain.PaymentTypeBoth),
		payment("100", domain.PaymentTypeInterest),
		payment("200", domain.PaymentTypePrincipal),
	}
	now := baseDate.AddDate(0, 0, 28)

	summary := Summarize(loan, payments, now)

	assert.True(t, summary.TotalPaid.Equal(d("600")))
	assert.True(t, summary.PrincipalPaid.Equal(d("500")))
	assert.True(t, summary.InterestPaid.Equal(d("100")))
	assert.True(t, summary.Outstanding.Equal(d("500")))
	assert.False(t, summary.Overpaid)
	assert.Equal(t, 4, summary.InterestToDate.Periods)
	assert.Equal(t, "1464.10", summary.InterestToDate.TotalAmount)
	assert.True(t, summary.Overdue.Overdue)
	assert.Equal(t, 14, summary.Overdue.DaysOverdue)
	assert.Equal(t, domain.SeverityModerate, summary.Overdue.Severity)
}
