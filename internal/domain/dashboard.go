package domain

import "github.com/shopspring/decimal"

// DashboardStats are the portfolio-wide figures shown on the dashboard
type DashboardStats struct {
	TotalClients     int             `json:"total_clients"`
	TotalLoans       int             `json:"total_loans"`
	TotalActiveLoans int             `json:"total_active_loans"`
	TotalLent        decimal.Decimal `json:"total_lent"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	TotalOnStreet    decimal.Decimal `json:"total_on_street"`
	TotalOverdue     int             `json:"total_overdue"`
	MonthlyInterest  decimal.Decimal `json:"monthly_interest"`
}
