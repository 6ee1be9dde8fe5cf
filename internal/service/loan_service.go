package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/finance"
	"github.com/segyhp/loan-ledger/internal/metrics"
	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/tracing"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
	"github.com/segyhp/loan-ledger/pkg/utils"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type LoanService struct {
	LoanRepo    repository.LoanRepository
	ClientRepo  repository.ClientRepository
	PaymentRepo repository.PaymentRepository
	Dashboard   cache.DashboardCache
	logger      *slog.Logger
	now         Clock
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	clientRepo repository.ClientRepository,
	paymentRepo repository.PaymentRepository,
	dashboard cache.DashboardCache,
	logger *slog.Logger,
) *LoanService {
	return &LoanService{
		LoanRepo:    loanRepo,
		ClientRepo:  clientRepo,
		PaymentRepo: paymentRepo,
		Dashboard:   dashboard,
		logger:      loggerOrDefault(logger),
		now:         time.Now,
	}
}

// Create opens a new active loan for an existing client
func (s *LoanService) Create(ctx context.Context, ownerID uuid.UUID, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	ctx, span := tracing.Tracer().Start(ctx, "LoanService.Create")
	defer span.End()

	clientID, err := uuid.Parse(request.ClientID)
	if err != nil {
		return nil, customError.WrapValidation("client_id must be a valid UUID")
	}

	principal, err := parseMoney("principal_amount", request.PrincipalAmount)
	if err != nil {
		return nil, err
	}
	rate, err := parseRate(request.InterestRate)
	if err != nil {
		return nil, err
	}
	if !domain.IsValidInterestPeriod(request.InterestPeriod) {
		return nil, customError.WrapValidation("interest_period must be weekly, biweekly or monthly")
	}

	startDate, dueDate, err := parseLoanDates(request.StartDate, request.DueDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.ClientRepo.GetByID(ctx, ownerID, clientID); err != nil {
		return nil, lookupError(err, customError.WrapClientNotFound(clientID.String()))
	}

	now := s.now().UTC()
	loan := &domain.Loan{
		ID:              uuid.New(),
		ClientID:        clientID,
		PrincipalAmount: principal,
		InterestRate:    rate,
		InterestPeriod:  request.InterestPeriod,
		StartDate:       startDate,
		DueDate:         dueDate,
		Status:          domain.LoanStatusActive,
		Notes:           request.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
		OwnerID:         ownerID,
	}

	if err := s.LoanRepo.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	metrics.LoansCreated.WithLabelValues(loan.InterestPeriod).Inc()
	invalidateDashboard(ctx, s.Dashboard, s.logger, ownerID)
	s.logger.InfoContext(ctx, "loan created",
		slog.String("loan_id", loan.ID.String()),
		slog.String("client_id", clientID.String()),
		slog.String("principal_amount", loan.PrincipalAmount.StringFixed(2)))

	return loan, nil
}

// Get returns a loan with its client, payments and derived summary
func (s *LoanService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.LoanDetailResponse, error) {
	ctx, span := tracing.Tracer().Start(ctx, "LoanService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("loan.id", id.String()))

	loan, err := s.LoanRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapLoanNotFound(id.String()))
	}

	payments, err := s.PaymentRepo.ListByLoan(ctx, ownerID, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	client, err := s.ClientRepo.GetByID(ctx, ownerID, loan.ClientID)
	if err != nil {
		return nil, lookupError(err, customError.WrapClientNotFound(loan.ClientID.String()))
	}

	return &domain.LoanDetailResponse{
		Loan:     loan,
		Client:   client,
		Payments: payments,
		Summary:  finance.Summarize(loan, payments, s.now()),
	}, nil
}

// List returns the owner's loans, optionally filtered by stored status
func (s *LoanService) List(ctx context.Context, ownerID uuid.UUID, status string) ([]*domain.Loan, error) {
	var (
		loans []*domain.Loan
		err   error
	)

	if status == "" {
		loans, err = s.LoanRepo.List(ctx, ownerID)
	} else {
		if !domain.IsValidLoanStatus(status) {
			return nil, customError.WrapInvalidStatus(status)
		}
		loans, err = s.LoanRepo.ListByStatus(ctx, ownerID, status)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// ListByClient returns the loans of one client
func (s *LoanService) ListByClient(ctx context.Context, ownerID, clientID uuid.UUID) ([]*domain.Loan, error) {
	if _, err := s.ClientRepo.GetByID(ctx, ownerID, clientID); err != nil {
		return nil, lookupError(err, customError.WrapClientNotFound(clientID.String()))
	}

	loans, err := s.LoanRepo.ListByClient(ctx, ownerID, clientID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// Update applies a partial update. Status only changes when the request sets it.
func (s *LoanService) Update(ctx context.Context, ownerID, id uuid.UUID, request *domain.UpdateLoanRequest) (*domain.Loan, error) {
	ctx, span := tracing.Tracer().Start(ctx, "LoanService.Update")
	defer span.End()

	loan, err := s.LoanRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapLoanNotFound(id.String()))
	}

	if request.PrincipalAmount != nil {
		if loan.PrincipalAmount, err = parseMoney("principal_amount", *request.PrincipalAmount); err != nil {
			return nil, err
		}
	}
	if request.InterestRate != nil {
		if loan.InterestRate, err = parseRate(*request.InterestRate); err != nil {
			return nil, err
		}
	}
	if request.InterestPeriod != nil {
		if !domain.IsValidInterestPeriod(*request.InterestPeriod) {
			return nil, customError.WrapValidation("interest_period must be weekly, biweekly or monthly")
		}
		loan.InterestPeriod = *request.InterestPeriod
	}
	if request.StartDate != nil {
		if loan.StartDate, err = parseDateField("start_date", *request.StartDate); err != nil {
			return nil, err
		}
	}
	if request.DueDate != nil {
		if loan.DueDate, err = parseDateField("due_date", *request.DueDate); err != nil {
			return nil, err
		}
	}
	if loan.DueDate.Before(loan.StartDate) {
		return nil, customError.WrapInvalidDateRange(loan.StartDate.Format(time.DateOnly), loan.DueDate.Format(time.DateOnly))
	}
	if request.Status != nil {
		if !domain.IsValidLoanStatus(*request.Status) {
			return nil, customError.WrapInvalidStatus(*request.Status)
		}
		loan.Status = *request.Status
	}
	if request.Notes != nil {
		loan.Notes = *request.Notes
	}
	loan.UpdatedAt = s.now().UTC()

	if err := s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, lookupError(err, customError.WrapLoanNotFound(id.String()))
	}

	invalidateDashboard(ctx, s.Dashboard, s.logger, ownerID)
	s.logger.InfoContext(ctx, "loan updated",
		slog.String("loan_id", loan.ID.String()),
		slog.String("status", loan.Status))

	return loan, nil
}

// Delete removes a loan and its payments
func (s *LoanService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	ctx, span := tracing.Tracer().Start(ctx, "LoanService.Delete")
	defer span.End()

	if err := s.LoanRepo.Delete(ctx, ownerID, id); err != nil {
		return lookupError(err, customError.WrapLoanNotFound(id.String()))
	}

	invalidateDashboard(ctx, s.Dashboard, s.logger, ownerID)
	s.logger.InfoContext(ctx, "loan deleted", slog.String("loan_id", id.String()))
	return nil
}

// Overdue lists active loans past their due date with client and severity
func (s *LoanService) Overdue(ctx context.Context, ownerID uuid.UUID) ([]*domain.OverdueLoan, error) {
	ctx, span := tracing.Tracer().Start(ctx, "LoanService.Overdue")
	defer span.End()

	now := s.now()
	loans, err := s.LoanRepo.ListOverdue(ctx, ownerID, now)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	clients, err := s.ClientRepo.List(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	byID := make(map[uuid.UUID]*domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}

	result := make([]*domain.OverdueLoan, 0, len(loans))
	for _, loan := range loans {
		status := finance.ClassifyOverdue(loan, now)
		if !status.Overdue {
			continue
		}
		result = append(result, &domain.OverdueLoan{
			Loan:   loan,
			Client: byID[loan.ClientID],
			Status: status,
		})
	}

	span.SetAttributes(attribute.Int("loans.overdue", len(result)))
	return result, nil
}

// Outstanding returns the principal still owed on a loan. A negative value means overpaid.
func (s *LoanService) Outstanding(ctx context.Context, ownerID, id uuid.UUID) (*domain.OutstandingResponse, error) {
	loan, err := s.LoanRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapLoanNotFound(id.String()))
	}

	payments, err := s.PaymentRepo.ListByLoan(ctx, ownerID, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	outstanding := finance.OutstandingPrincipal(loan.PrincipalAmount, payments)
	return &domain.OutstandingResponse{
		LoanID:      loan.ID,
		Outstanding: outstanding,
		Overpaid:    finance.IsOverpaid(outstanding),
	}, nil
}

// InterestToDate projects a stored loan from its start date until now
func (s *LoanService) InterestToDate(ctx context.Context, ownerID, id uuid.UUID) (*domain.CalculateInterestResponse, error) {
	loan, err := s.LoanRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapLoanNotFound(id.String()))
	}

	metrics.InterestCalculations.WithLabelValues(loan.InterestPeriod).Inc()
	response := finance.InterestToDate(loan, s.now()).Response()
	return &response, nil
}

// CalculateInterest projects arbitrary loan terms without touching storage
func (s *LoanService) CalculateInterest(ctx context.Context, request *domain.CalculateInterestRequest) (*domain.CalculateInterestResponse, error) {
	_, span := tracing.Tracer().Start(ctx, "LoanService.CalculateInterest")
	defer span.End()

	if request.PrincipalAmount < 0 || request.InterestRate < 0 {
		return nil, customError.WrapValidation("principal_amount and interest_rate must not be negative")
	}
	if !domain.IsValidInterestPeriod(request.InterestPeriod) {
		return nil, customError.WrapValidation("interest_period must be weekly, biweekly or monthly")
	}

	start, err := parseDateField("start_date", request.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDateField("end_date", request.EndDate)
	if err != nil {
		return nil, err
	}

	result := finance.CompoundInterest(
		utils.DecimalFromFloat(request.PrincipalAmount),
		utils.DecimalFromFloat(request.InterestRate),
		request.InterestPeriod,
		start,
		end,
	)
	metrics.InterestCalculations.WithLabelValues(request.InterestPeriod).Inc()
	span.SetAttributes(attribute.Int("interest.periods", result.Periods))

	response := result.Response()
	return &response, nil
}

// Upper bounds of the NUMERIC(15, 2) amount and NUMERIC(5, 2) rate columns.
var (
	maxAmount       = decimal.RequireFromString("9999999999999.99")
	maxInterestRate = decimal.RequireFromString("999.99")
)

func parseMoney(field, value string) (decimal.Decimal, error) {
	amount, err := utils.DecimalFromString(value)
	if err != nil {
		return decimal.Zero, customError.WrapValidation(field + " must be a decimal amount")
	}
	if amount.IsNegative() {
		return decimal.Zero, customError.WrapValidation(field + " must not be negative")
	}
	if amount.GreaterThan(maxAmount) {
		return decimal.Zero, customError.WrapValidation(field + " must not exceed " + maxAmount.String())
	}
	return amount, nil
}

func parseRate(value string) (decimal.Decimal, error) {
	rate, err := parseMoney("interest_rate", value)
	if err != nil {
		return decimal.Zero, err
	}
	if rate.GreaterThan(maxInterestRate) {
		return decimal.Zero, customError.WrapValidation("interest_rate must not exceed " + maxInterestRate.String())
	}
	return rate, nil
}

func parseDateField(field, value string) (time.Time, error) {
	date, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, customError.WrapValidation(field + " must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}
	return date, nil
}

func parseLoanDates(startValue, dueValue string) (time.Time, time.Time, error) {
	start, err := parseDateField("start_date", startValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	due, err := parseDateField("due_date", dueValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if due.Before(start) {
		return time.Time{}, time.Time{}, customError.WrapInvalidDateRange(startValue, dueValue)
	}
	return start, due, nil
}
