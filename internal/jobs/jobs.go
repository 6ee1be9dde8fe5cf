// Package jobs holds the scheduled background work. Jobs only read loan
// state; the stored status column is never changed here.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/finance"
	"github.com/segyhp/loan-ledger/internal/metrics"
	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/tracing"

	"github.com/robfig/cron/v3"
)

// DashboardRefresher recomputes and caches an owner's dashboard
type DashboardRefresher interface {
	Refresh(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error)
}

// OverdueReport tallies overdue loans per severity tier
type OverdueReport struct {
	Recent   int
	Moderate int
	Critical int
}

func (r OverdueReport) Total() int {
	return r.Recent + r.Moderate + r.Critical
}

type Runner struct {
	LoanRepo  repository.LoanRepository
	Dashboard cache.DashboardCache
	Refresher DashboardRefresher
	logger    *slog.Logger
	now       func() time.Time
}

func NewRunner(loanRepo repository.LoanRepository, dashboard cache.DashboardCache, refresher DashboardRefresher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		LoanRepo:  loanRepo,
		Dashboard: dashboard,
		Refresher: refresher,
		logger:    logger,
		now:       time.Now,
	}
}

// ReportOverdue classifies every owner's overdue loans, publishes the
// loans_overdue gauge and drops the owners' cached dashboards.
func (j *Runner) ReportOverdue(ctx context.Context) (OverdueReport, error) {
	ctx, span := tracing.Tracer().Start(ctx, "jobs.ReportOverdue")
	defer span.End()

	owners, err := j.LoanRepo.ListOwners(ctx)
	if err != nil {
		return OverdueReport{}, fmt.Errorf("list owners: %w", err)
	}

	now := j.now()
	var total OverdueReport

	for _, ownerID := range owners {
		loans, err := j.LoanRepo.ListOverdue(ctx, ownerID, now)
		if err != nil {
			return total, fmt.Errorf("list overdue loans for %s: %w", ownerID, err)
		}

		var report OverdueReport
		for _, loan := range loans {
			status := finance.ClassifyOverdue(loan, now)
			switch status.Severity {
			case domain.SeverityRecent:
				report.Recent++
			case domain.SeverityModerate:
				report.Moderate++
			case domain.SeverityCritical:
				report.Critical++
			}
		}

		j.logger.InfoContext(ctx, "overdue loans",
			slog.String("owner_id", ownerID.String()),
			slog.Int("recent", report.Recent),
			slog.Int("moderate", report.Moderate),
			slog.Int("critical", report.Critical))

		if j.Dashboard != nil {
			if err := j.Dashboard.Invalidate(ctx, ownerID); err != nil {
				j.logger.WarnContext(ctx, "dashboard cache invalidation failed",
					slog.String("owner_id", ownerID.String()),
					slog.Any("error", err))
			}
		}

		total.Recent += report.Recent
		total.Moderate += report.Moderate
		total.Critical += report.Critical
	}

	metrics.LoansOverdue.WithLabelValues(domain.SeverityRecent).Set(float64(total.Recent))
	metrics.LoansOverdue.WithLabelValues(domain.SeverityModerate).Set(float64(total.Moderate))
	metrics.LoansOverdue.WithLabelValues(domain.SeverityCritical).Set(float64(total.Critical))

	return total, nil
}

// WarmDashboards recomputes the cached dashboard of every owner. It keeps
// going past individual failures and returns how many owners were refreshed.
func (j *Runner) WarmDashboards(ctx context.Context) (int, error) {
	ctx, span := tracing.Tracer().Start(ctx, "jobs.WarmDashboards")
	defer span.End()

	owners, err := j.LoanRepo.ListOwners(ctx)
	if err != nil {
		return 0, fmt.Errorf("list owners: %w", err)
	}

	refreshed := 0
	for _, ownerID := range owners {
		if _, err := j.Refresher.Refresh(ctx, ownerID); err != nil {
			j.logger.ErrorContext(ctx, "dashboard refresh failed",
				slog.String("owner_id", ownerID.String()),
				slog.Any("error", err))
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// Register schedules both jobs on c
func (j *Runner) Register(c *cron.Cron, overdueSpec, dashboardSpec string, timeout time.Duration) error {
	if _, err := c.AddFunc(overdueSpec, j.wrap("overdue report", timeout, func(ctx context.Context) error {
		report, err := j.ReportOverdue(ctx)
		if err == nil {
			j.logger.InfoContext(ctx, "overdue report finished", slog.Int("overdue", report.Total()))
		}
		return err
	})); err != nil {
		return fmt.Errorf("schedule overdue report: %w", err)
	}

	if _, err := c.AddFunc(dashboardSpec, j.wrap("dashboard warm", timeout, func(ctx context.Context) error {
		refreshed, err := j.WarmDashboards(ctx)
		if err == nil {
			j.logger.InfoContext(ctx, "dashboards warmed", slog.Int("owners", refreshed))
		}
		return err
	})); err != nil {
		return fmt.Errorf("schedule dashboard warm: %w", err)
	}

	return nil
}

func (j *Runner) wrap(name string, timeout time.Duration, run func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		j.logger.Info("running job", slog.String("job", name))
		if err := run(ctx); err != nil {
			j.logger.Error("job failed", slog.String("job", name), slog.Any("error", err))
			return
		}
		j.logger.Debug("job done", slog.String("job", name), slog.Duration("duration", time.Since(start)))
	}
}
