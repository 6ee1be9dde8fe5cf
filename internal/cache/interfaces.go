package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/domain"
)

// ErrSessionNotFound is returned for unknown or expired session tokens
var ErrSessionNotFound = errors.New("session not found")

// DashboardCache stores computed dashboard stats per owner
type DashboardCache interface {
	// Get returns the cached stats, or nil on a miss
	Get(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error)

	// Set stores stats for ttl
	Set(ctx context.Context, ownerID uuid.UUID, stats *domain.DashboardStats, ttl time.Duration) error

	// Invalidate drops the cached stats
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

// SessionStore maps opaque session tokens to the authenticated principal
type SessionStore interface {
	Create(ctx context.Context, token string, principal *domain.Principal, ttl time.Duration) error
	Get(ctx context.Context, token string) (*domain.Principal, error)
	Delete(ctx context.Context, token string) error
}
