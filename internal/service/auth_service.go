package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/auth"
	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/metrics"
	"github.com/segyhp/loan-ledger/internal/repository"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
)

// AuthService guards the API with a single shared password
type AuthService struct {
	SettingRepo     repository.SettingRepository
	Sessions        cache.SessionStore
	owner           domain.Principal
	defaultPassword string
	sessionTTL      time.Duration
	logger          *slog.Logger
}

func NewAuthService(
	settingRepo repository.SettingRepository,
	sessions cache.SessionStore,
	ownerID uuid.UUID,
	ownerName string,
	defaultPassword string,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		SettingRepo:     settingRepo,
		Sessions:        sessions,
		owner:           domain.Principal{OwnerID: ownerID, Name: ownerName},
		defaultPassword: defaultPassword,
		sessionTTL:      sessionTTL,
		logger:          loggerOrDefault(logger),
	}
}

// SessionTTL is how long a login stays valid
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// EnsurePassword seeds the default password hash when none is stored.
// It reports whether a hash was written.
func (s *AuthService) EnsurePassword(ctx context.Context) (bool, error) {
	_, err := s.SettingRepo.Get(ctx, domain.SettingSystemPassword)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, customError.WrapDatabaseError(err)
	}

	if err := s.SetPassword(ctx, s.defaultPassword); err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "default access password installed")
	return true, nil
}

// SetPassword overwrites the stored hash
func (s *AuthService) SetPassword(ctx context.Context, password string) error {
	if len(password) < 4 {
		return customError.WrapValidation("password must have at least 4 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.SettingRepo.Set(ctx, domain.SettingSystemPassword, hash); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// Login verifies password and opens a session. It returns the session token.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	ok, err := s.verify(ctx, password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", err
	}
	if !ok {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		s.logger.WarnContext(ctx, "login rejected")
		return "", customError.WrapInvalidCredentials()
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		return "", err
	}

	principal := s.owner
	if err := s.Sessions.Create(ctx, token, &principal, s.sessionTTL); err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", customError.WrapCacheError(err)
	}

	metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	s.logger.InfoContext(ctx, "login accepted", slog.String("owner_id", principal.OwnerID.String()))
	return token, nil
}

// Authenticate resolves a session token to its principal
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, customError.WrapUnauthorized()
	}

	principal, err := s.Sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, customError.WrapUnauthorized()
		}
		return nil, customError.WrapCacheError(err)
	}
	return principal, nil
}

// Logout drops the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.Sessions.Delete(ctx, token); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

// ChangePassword replaces the shared password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, request *domain.ChangePasswordRequest) error {
	ok, err := s.verify(ctx, request.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return customError.WrapInvalidCredentials()
	}

	if err := s.SetPassword(ctx, request.NewPassword); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "access password changed")
	return nil
}

func (s *AuthService) verify(ctx context.Context, password string) (bool, error) {
	setting, err := s.SettingRepo.Get(ctx, domain.SettingSystemPassword)
	if errors.Is(err, sql.ErrNoRows) {
		if err := s.SetPassword(ctx, s.defaultPassword); err != nil {
			return false, err
		}
		s.logger.InfoContext(ctx, "default access password installed")
		return subtle.ConstantTimeCompare([]byte(password), []byte(s.defaultPassword)) == 1, nil
	}
	if err != nil {
		return false, customError.WrapDatabaseError(err)
	}
	return auth.CheckPassword(password, setting.Value), nil
}
