package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	dashboardKeyPrefix = "dashboard:"
	sessionKeyPrefix   = "session:"
)

type redisDashboardCache struct {
	client *redis.Client
}

func NewDashboardCache(client *redis.Client) DashboardCache {
	return &redisDashboardCache{client: client}
}

func dashboardKey(ownerID uuid.UUID) string {
	return dashboardKeyPrefix + ownerID.String()
}

func (c *redisDashboardCache) Get(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error) {
	raw, err := c.client.Get(ctx, dashboardKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode cached dashboard: %w", err)
	}

	return &stats, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, ownerID uuid.UUID, stats *domain.DashboardStats, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, dashboardKey(ownerID), raw, ttl).Err()
}

func (c *redisDashboardCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	return c.client.Del(ctx, dashboardKey(ownerID)).Err()
}

type redisSessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) Create(ctx context.Context, token string, principal *domain.Principal, ttl time.Duration) error {
	raw, err := json.Marshal(principal)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sessionKeyPrefix+token, raw, ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, token string) (*domain.Principal, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var principal domain.Principal
	if err := json.Unmarshal(raw, &principal); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &principal, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}
