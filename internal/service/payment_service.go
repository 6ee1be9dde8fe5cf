package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/metrics"
	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/tracing"
	customError "github.com/segyhp/loan-ledger/pkg/errors"

	"go.opentelemetry.io/otel/attribute"
)

type PaymentService struct {
	PaymentRepo repository.PaymentRepository
	LoanRepo    repository.LoanRepository
	Dashboard   cache.DashboardCache
	logger      *slog.Logger
	now         Clock
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	loanRepo repository.LoanRepository,
	dashboard cache.DashboardCache,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		PaymentRepo: paymentRepo,
		LoanRepo:    loanRepo,
		Dashboard:   dashboard,
		logger:      loggerOrDefault(logger),
		now:         time.Now,
	}
}

// Create records a payment against a loan of the same owner
func (s *PaymentService) Create(ctx context.Context, ownerID uuid.UUID, request *domain.CreatePaymentRequest) (*domain.Payment, error) {
	ctx, span := tracing.Tracer().Start(ctx, "PaymentService.Create")
	defer span.End()

	loanID, err := uuid.Parse(request.LoanID)
	if err != nil {
		return nil, customError.WrapValidation("loan_id must be a valid UUID")
	}

	amount, err := parseMoney("amount", request.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, customError.WrapValidation("amount must be greater than zero")
	}

	switch request.PaymentType {
	case domain.PaymentTypePrincipal, domain.PaymentTypeInterest, domain.PaymentTypeBoth:
	default:
		return nil, customError.WrapValidation("payment_type must be principal, interest or both")
	}

	paymentDate, err := parseDateField("payment_date", request.PaymentDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.LoanRepo.GetByID(ctx, ownerID, loanID); err != nil {
		return nil, lookupError(err, customError.WrapLoanNotFound(loanID.String()))
	}

	payment := &domain.Payment{
		ID:          uuid.New(),
		LoanID:      loanID,
		Amount:      amount,
		PaymentDate: paymentDate,
		PaymentType: request.PaymentType,
		Notes:       request.Notes,
		CreatedAt:   s.now().UTC(),
		OwnerID:     ownerID,
	}

	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	span.SetAttributes(attribute.String("payment.type", payment.PaymentType))
	metrics.PaymentsRecorded.WithLabelValues(payment.PaymentType).Inc()
	invalidateDashboard(ctx, s.Dashboard, s.logger, ownerID)
	s.logger.InfoContext(ctx, "payment recorded",
		slog.String("payment_id", payment.ID.String()),
		slog.String("loan_id", loanID.String()),
		slog.String("payment_type", payment.PaymentType),
		slog.String("amount", payment.Amount.StringFixed(2)))

	return payment, nil
}

// List returns every payment of the owner
func (s *PaymentService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Payment, error) {
	payments, err := s.PaymentRepo.List(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

// ListByLoan returns the payments of one loan
func (s *PaymentService) ListByLoan(ctx context.Context, ownerID, loanID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.LoanRepo.GetByID(ctx, ownerID, loanID); err != nil {
		return nil, lookupError(err, customError.WrapLoanNotFound(loanID.String()))
	}

	payments, err := s.PaymentRepo.ListByLoan(ctx, ownerID, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

// Delete removes a payment record
func (s *PaymentService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.PaymentRepo.Delete(ctx, ownerID, id); err != nil {
		return lookupError(err, customError.WrapPaymentNotFound(id.String()))
	}

	invalidateDashboard(ctx, s.Dashboard, s.logger, ownerID)
	s.logger.InfoContext(ctx, "payment deleted", slog.String("payment_id", id.String()))
	return nil
}
