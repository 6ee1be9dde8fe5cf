// Package service implements the loan ledger use cases on top of the
// repositories, the Redis cache and the finance engine.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/metrics"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

// lookupError maps a repository miss to notFound and anything else to a
// database error.
func lookupError(err error, notFound *customError.BusinessError) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return customError.WrapDatabaseError(err)
}

// invalidateDashboard drops the owner's cached stats. Failures are logged only.
func invalidateDashboard(ctx context.Context, dashboard cache.DashboardCache, logger *slog.Logger, ownerID uuid.UUID) {
	if dashboard == nil {
		return
	}
	if err := dashboard.Invalidate(ctx, ownerID); err != nil {
		metrics.CacheOperations.WithLabelValues("error").Inc()
		logger.WarnContext(ctx, "dashboard cache invalidation failed",
			slog.String("owner_id", ownerID.String()),
			slog.Any("error", err))
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
