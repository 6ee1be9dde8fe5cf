package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/finance"
	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/tracing"
	customError "github.com/segyhp/loan-ledger/pkg/errors"

	"github.com/xuri/excelize/v2"
)

const (
	loansSheet    = "Loans"
	paymentsSheet = "Payments"
)

var loanReportHeaders = []string{
	"Client", "Principal", "Rate (%)", "Period", "Start date", "Due date",
	"Status", "Total paid", "Outstanding", "Interest to date", "Days overdue",
}

var paymentReportHeaders = []string{"Client", "Loan", "Date", "Type", "Amount", "Notes"}

type ReportService struct {
	ClientRepo  repository.ClientRepository
	LoanRepo    repository.LoanRepository
	PaymentRepo repository.PaymentRepository
	logger      *slog.Logger
	now         Clock
}

func NewReportService(
	clientRepo repository.ClientRepository,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		ClientRepo:  clientRepo,
		LoanRepo:    loanRepo,
		PaymentRepo: paymentRepo,
		logger:      loggerOrDefault(logger),
		now:         time.Now,
	}
}

// LoansWorkbook writes the owner's portfolio as an XLSX workbook to w
func (s *ReportService) LoansWorkbook(ctx context.Context, ownerID uuid.UUID, w io.Writer) error {
	ctx, span := tracing.Tracer().Start(ctx, "ReportService.LoansWorkbook")
	defer span.End()

	clients, err := s.ClientRepo.List(ctx, ownerID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	loans, err := s.LoanRepo.List(ctx, ownerID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	payments, err := s.PaymentRepo.List(ctx, ownerID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	f, err := s.buildWorkbook(clients, loans, payments)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "loan report exported",
		slog.Int("loans", len(loans)),
		slog.Int("payments", len(payments)))
	return nil
}

func (s *ReportService) buildWorkbook(clients []*domain.Client, loans []*domain.Loan, payments []*domain.Payment) (*excelize.File, error) {
	now := s.now()

	clientNames := make(map[uuid.UUID]string, len(clients))
	for _, c := range clients {
		clientNames[c.ID] = c.Name
	}

	paymentsByLoan := make(map[uuid.UUID][]*domain.Payment)
	for _, p := range payments {
		paymentsByLoan[p.LoanID] = append(paymentsByLoan[p.LoanID], p)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", loansSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(paymentsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRow(f, loansSheet, 1, toCells(loanReportHeaders)); err != nil {
		return nil, err
	}
	for i, loan := range loans {
		summary := finance.Summarize(loan, paymentsByLoan[loan.ID], now)
		row := []any{
			clientNames[loan.ClientID],
			loan.PrincipalAmount.InexactFloat64(),
			loan.InterestRate.InexactFloat64(),
			loan.InterestPeriod,
			loan.StartDate.Format(time.DateOnly),
			loan.DueDate.Format(time.DateOnly),
			loan.Status,
			summary.TotalPaid.Round(2).InexactFloat64(),
			summary.Outstanding.Round(2).InexactFloat64(),
			summary.InterestToDate.InterestAmount,
			summary.Overdue.DaysOverdue,
		}
		if err := writeRow(f, loansSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, paymentsSheet, 1, toCells(paymentReportHeaders)); err != nil {
		return nil, err
	}
	loanClients := make(map[uuid.UUID]string, len(loans))
	for _, loan := range loans {
		loanClients[loan.ID] = clientNames[loan.ClientID]
	}
	for i, p := range payments {
		row := []any{
			loanClients[p.LoanID],
			p.LoanID.String(),
			p.PaymentDate.Format(time.DateOnly),
			p.PaymentType,
			p.Amount.InexactFloat64(),
			p.Notes,
		}
		if err := writeRow(f, paymentsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	f.SetColWidth(loansSheet, "A", "A", 25)
	f.SetColWidth(loansSheet, "B", "K", 14)
	f.SetColWidth(paymentsSheet, "A", "B", 36)
	f.SetColWidth(paymentsSheet, "C", "E", 12)
	f.SetColWidth(paymentsSheet, "F", "F", 30)
	f.SetActiveSheet(0)

	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
