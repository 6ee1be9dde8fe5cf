package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/segyhp/loan-ledger/internal/service"
	"github.com/segyhp/loan-ledger/pkg/response"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const idPattern = "{id:[0-9a-fA-F-]{36}}"

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth      *AuthHandler
	Client    *ClientHandler
	Loan      *LoanHandler
	Payment   *PaymentHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
}

// NewRouter mounts the API. Everything under /api/v1 needs a session except
// login, logout and check.
func NewRouter(h Handlers, authService *service.AuthService, corsOrigin string, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	// Health check
	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", h.Health.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(response.JSONMiddleware)

	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/check", h.Auth.Check).Methods(http.MethodGet)

	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(authService))

	protected.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/change-password", h.Auth.ChangePassword).Methods(http.MethodPost)

	protected.HandleFunc("/clients", h.Client.List).Methods(http.MethodGet)
	protected.HandleFunc("/clients", h.Client.Create).Methods(http.MethodPost)
	protected.HandleFunc("/clients/search", h.Client.Search).Methods(http.MethodGet)
	protected.HandleFunc("/clients/"+idPattern, h.Client.Get).Methods(http.MethodGet)
	protected.HandleFunc("/clients/"+idPattern, h.Client.Update).Methods(http.MethodPut)
	protected.HandleFunc("/clients/"+idPattern, h.Client.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/clients/"+idPattern+"/loans", h.Loan.ListByClient).Methods(http.MethodGet)

	protected.HandleFunc("/loans", h.Loan.List).Methods(http.MethodGet)
	protected.HandleFunc("/loans", h.Loan.Create).Methods(http.MethodPost)
	protected.HandleFunc("/loans/overdue", h.Loan.Overdue).Methods(http.MethodGet)
	protected.HandleFunc("/loans/calculate-interest", h.Loan.CalculateInterest).Methods(http.MethodPost)
	protected.HandleFunc("/loans/"+idPattern, h.Loan.Get).Methods(http.MethodGet)
	protected.HandleFunc("/loans/"+idPattern, h.Loan.Update).Methods(http.MethodPut)
	protected.HandleFunc("/loans/"+idPattern, h.Loan.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/loans/"+idPattern+"/outstanding", h.Loan.Outstanding).Methods(http.MethodGet)
	protected.HandleFunc("/loans/"+idPattern+"/interest", h.Loan.Interest).Methods(http.MethodGet)
	protected.HandleFunc("/loans/"+idPattern+"/payments", h.Payment.ListByLoan).Methods(http.MethodGet)

	protected.HandleFunc("/payments", h.Payment.List).Methods(http.MethodGet)
	protected.HandleFunc("/payments", h.Payment.Create).Methods(http.MethodPost)
	protected.HandleFunc("/payments/"+idPattern, h.Payment.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/dashboard/stats", h.Dashboard.Stats).Methods(http.MethodGet)
	protected.HandleFunc("/reports/loans.xlsx", h.Dashboard.LoansReport).Methods(http.MethodGet)

	return response.CORSMiddleware(corsOrigin)(response.LoggingMiddleware(logger)(router))
}
