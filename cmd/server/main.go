package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/config"
	"github.com/segyhp/loan-ledger/internal/handler"
	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/service"
	"github.com/segyhp/loan-ledger/internal/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		logger.Error("failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Error("failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(context.Background(), db); err != nil {
			logger.Error("failed to apply schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database schema applied")
	}

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	dashboardCache := cache.NewDashboardCache(redisClient)
	sessions := cache.NewSessionStore(redisClient)

	// Initialize services
	authService := service.NewAuthService(
		settingRepo, sessions,
		cfg.OwnerID(), cfg.Auth.OwnerName, cfg.Auth.DefaultPassword, cfg.Auth.SessionTTL,
		logger,
	)
	if _, err := authService.EnsurePassword(context.Background()); err != nil {
		logger.Error("failed to seed access password", slog.Any("error", err))
		os.Exit(1)
	}

	clientService := service.NewClientService(clientRepo, loanRepo, dashboardCache, logger)
	loanService := service.NewLoanService(loanRepo, clientRepo, paymentRepo, dashboardCache, logger)
	paymentService := service.NewPaymentService(paymentRepo, loanRepo, dashboardCache, logger)
	dashboardService := service.NewDashboardService(clientRepo, loanRepo, paymentRepo, dashboardCache, cfg.Cache.DashboardTTL, logger)
	reportService := service.NewReportService(clientRepo, loanRepo, paymentRepo, logger)

	// Setup routes
	router := handler.NewRouter(handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.Auth.CookieSecure),
		Client:    handler.NewClientHandler(clientService),
		Loan:      handler.NewLoanHandler(loanService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Dashboard: handler.NewDashboardHandler(dashboardService, reportService),
		Health:    handler.NewHealthHandler(db, redisClient),
	}, authService, cfg.Server.CORSOrigin, logger)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", server.Addr), slog.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}

	logger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
