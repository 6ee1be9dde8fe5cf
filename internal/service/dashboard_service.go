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
)

type DashboardService struct {
	ClientRepo  repository.ClientRepository
	LoanRepo    repository.LoanRepository
	PaymentRepo repository.PaymentRepository
	Cache       cache.DashboardCache
	ttl         time.Duration
	logger      *slog.Logger
	now         Clock
}

// NewDashboardService builds the service. A zero ttl disables caching.
func NewDashboardService(
	clientRepo repository.ClientRepository,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	dashboardCache cache.DashboardCache,
	ttl time.Duration,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		ClientRepo:  clientRepo,
		LoanRepo:    loanRepo,
		PaymentRepo: paymentRepo,
		Cache:       dashboardCache,
		ttl:         ttl,
		logger:      loggerOrDefault(logger),
		now:         time.Now,
	}
}

// Stats returns the owner's dashboard, served from cache when fresh
func (s *DashboardService) Stats(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error) {
	ctx, span := tracing.Tracer().Start(ctx, "DashboardService.Stats")
	defer span.End()

	if s.cacheEnabled() {
		cached, err := s.Cache.Get(ctx, ownerID)
		switch {
		case err != nil:
			metrics.CacheOperations.WithLabelValues("error").Inc()
			s.logger.WarnContext(ctx, "dashboard cache read failed",
				slog.String("owner_id", ownerID.String()),
				slog.Any("error", customError.WrapCacheError(err)))
		case cached != nil:
			metrics.CacheOperations.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.CacheOperations.WithLabelValues("miss").Inc()
		}
	}

	return s.Refresh(ctx, ownerID)
}

// Refresh recomputes the dashboard and stores it in the cache
func (s *DashboardService) Refresh(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error) {
	stats, err := s.compute(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.Cache.Set(ctx, ownerID, stats, s.ttl); err != nil {
			metrics.CacheOperations.WithLabelValues("error").Inc()
			s.logger.WarnContext(ctx, "dashboard cache write failed",
				slog.String("owner_id", ownerID.String()),
				slog.Any("error", customError.WrapCacheError(err)))
		}
	}

	return stats, nil
}

// Invalidate drops the cached dashboard of an owner
func (s *DashboardService) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	invalidateDashboard(ctx, s.Cache, s.logger, ownerID)
}

func (s *DashboardService) compute(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error) {
	totalClients, err := s.ClientRepo.Count(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	loans, err := s.LoanRepo.List(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.PaymentRepo.List(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	stats := finance.DashboardAggregates(totalClients, loans, payments, s.now())
	return &stats, nil
}

func (s *DashboardService) cacheEnabled() bool {
	return s.Cache != nil && s.ttl > 0
}
