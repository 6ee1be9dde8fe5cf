package domain

import (
	"encoding/json"

	"github.com/segyhp/loan-ledger/pkg/utils"
)

// Monetary fields stay decimal.Decimal in memory and are written to JSON as
// strings with exactly two fractional digits. Decoding accepts any decimal
// string, so cached stats read back unchanged.

func (l Loan) MarshalJSON() ([]byte, error) {
	type loan Loan
	return json.Marshal(struct {
		loan
		PrincipalAmount string `json:"principal_amount"`
		InterestRate    string `json:"interest_rate"`
	}{
		loan:            loan(l),
		PrincipalAmount: utils.Money(l.PrincipalAmount),
		InterestRate:    utils.Money(l.InterestRate),
	})
}

func (p Payment) MarshalJSON() ([]byte, error) {
	type payment Payment
	return json.Marshal(struct {
		payment
		Amount string `json:"amount"`
	}{
		payment: payment(p),
		Amount:  utils.Money(p.Amount),
	})
}

func (s DashboardStats) MarshalJSON() ([]byte, error) {
	type stats DashboardStats
	return json.Marshal(struct {
		stats
		TotalLent       string `json:"total_lent"`
		TotalReceived   string `json:"total_received"`
		TotalOnStreet   string `json:"total_on_street"`
		MonthlyInterest string `json:"monthly_interest"`
	}{
		stats:           stats(s),
		TotalLent:       utils.Money(s.TotalLent),
		TotalReceived:   utils.Money(s.TotalReceived),
		TotalOnStreet:   utils.Money(s.TotalOnStreet),
		MonthlyInterest: utils.Money(s.MonthlyInterest),
	})
}

func (o OutstandingResponse) MarshalJSON() ([]byte, error) {
	type outstanding OutstandingResponse
	return json.Marshal(struct {
		outstanding
		Outstanding string `json:"outstanding"`
	}{
		outstanding: outstanding(o),
		Outstanding: utils.Money(o.Outstanding),
	})
}

func (s LoanSummary) MarshalJSON() ([]byte, error) {
	type summary LoanSummary
	return json.Marshal(struct {
		summary
		TotalPaid     string `json:"total_paid"`
		PrincipalPaid string `json:"principal_paid"`
		InterestPaid  string `json:"interest_paid"`
		Outstanding   string `json:"outstanding"`
	}{
		summary:       summary(s),
		TotalPaid:     utils.Money(s.TotalPaid),
		PrincipalPaid: utils.Money(s.PrincipalPaid),
		InterestPaid:  utils.Money(s.InterestPaid),
		Outstanding:   utils.Money(s.Outstanding),
	})
}
