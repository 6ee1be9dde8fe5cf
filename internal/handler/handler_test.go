package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/auth"
	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/mocks"
	"github.com/segyhp/loan-ledger/internal/service"
	customError "github.com/segyhp/loan-ledger/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testToken = "session-token"

var testOwner = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type testEnv struct {
	router    http.Handler
	clients   *mocks.MockClientRepository
	loans     *mocks.MockLoanRepository
	payments  *mocks.MockPaymentRepository
	settings  *mocks.MockSettingRepository
	sessions  *mocks.MockSessionStore
	dashboard *mocks.MockDashboardCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		clients:   &mocks.MockClientRepository{},
		loans:     &mocks.MockLoanRepository{},
		payments:  &mocks.MockPaymentRepository{},
		settings:  &mocks.MockSettingRepository{},
		sessions:  &mocks.MockSessionStore{},
		dashboard: &mocks.MockDashboardCache{},
	}
	env.sessions.On("Get", mock.Anything, testToken).Return(&domain.Principal{OwnerID: testOwner, Name: "Sistema"}, nil).Maybe()
	env.sessions.On("Get", mock.Anything, mock.Anything).Return(nil, cache.ErrSessionNotFound).Maybe()
	env.dashboard.On("Invalidate", mock.Anything, testOwner).Return(nil).Maybe()

	authService := service.NewAuthService(env.settings, env.sessions, testOwner, "Sistema", "151612", 720*time.Hour, logger)
	handlers := Handlers{
		Auth:    NewAuthHandler(authService, false),
		Client:  NewClientHandler(service.NewClientService(env.clients, env.loans, env.dashboard, logger)),
		Loan:    NewLoanHandler(service.NewLoanService(env.loans, env.clients, env.payments, env.dashboard, logger)),
		Payment: NewPaymentHandler(service.NewPaymentService(env.payments, env.loans, env.dashboard, logger)),
		Dashboard: NewDashboardHandler(
			service.NewDashboardService(env.clients, env.loans, env.payments, env.dashboard, 0, logger),
			service.NewReportService(env.clients, env.loans, env.payments, logger),
		),
		Health: &HealthHandler{checks: map[string]HealthCheck{}},
	}
	env.router = NewRouter(handlers, authService, "*", logger)
	return env
}

func (e *testEnv) do(method, path string, body any, authenticated bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: testToken})
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		setupMocks     func(e *testEnv)
		expectedStatus int
		checkResponse  func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name: "correct password sets cookie",
			body: domain.LoginRequest{Password: "151612"},
			setupMocks: func(e *testEnv) {
				hash, _ := auth.HashPassword("151612")
				e.settings.On("Get", mock.Anything, domain.SettingSystemPassword).Return(&domain.Setting{Value: hash}, nil)
				e.sessions.On("Create", mock.Anything, mock.Anything, mock.Anything, 720*time.Hour).Return(nil)
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				cookies := w.Result().Cookies()
				require.Len(t, cookies, 1)
				assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
				assert.True(t, cookies[0].HttpOnly)
				assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
				assert.Equal(t, 30*24*3600, cookies[0].MaxAge)

				var login domain.LoginResponse
				require.NoError(t, json.Unmarshal(decode(t, w).Data, &login))
				assert.Equal(t, cookies[0].Value, login.Token)
			},
		},
		{
			name: "wrong password",
			body: domain.LoginRequest{Password: "nope"},
			setupMocks: func(e *testEnv) {
				hash, _ := auth.HashPassword("151612")
				e.settings.On("Get", mock.Anything, domain.SettingSystemPassword).Return(&domain.Setting{Value: hash}, nil)
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, customError.ErrCodeInvalidCredentials, decode(t, w).Error)
				assert.Empty(t, w.Result().Cookies())
			},
		},
		{
			name:           "missing password",
			body:           map[string]string{},
			setupMocks:     func(e *testEnv) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setupMocks(env)

			w := env.do(http.MethodPost, "/api/v1/auth/login", tt.body, false)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestAuthHandler_CheckAndMe(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/auth/check", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, string(decode(t, w).Data))

	w = env.do(http.MethodGet, "/api/v1/auth/check", nil, true)
	assert.JSONEq(t, `{"authenticated":true}`, string(decode(t, w).Data))

	w = env.do(http.MethodGet, "/api/v1/auth/me", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var principal domain.Principal
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &principal))
	assert.Equal(t, testOwner, principal.OwnerID)
}

func TestAuthHandler_BearerToken(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.On("Delete", mock.Anything, testToken).Return(nil)

	w := env.do(http.MethodPost, "/api/v1/auth/logout", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	env.sessions.AssertExpectations(t)
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/loans", "/api/v1/clients", "/api/v1/dashboard/stats", "/api/v1/auth/me"} {
		t.Run(path, func(t *testing.T) {
			w := env.do(http.MethodGet, path, nil, false)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, customError.ErrCodeUnauthorized, decode(t, w).Error)
		})
	}

	env.loans.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestLoanHandler_Create(t *testing.T) {
	clientID := uuid.New()

	tests := []struct {
		name           string
		body           map[string]any
		setupMocks     func(e *testEnv)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "created",
			body: map[string]any{
				"client_id": clientID.String(), "principal_amount": "1000.00", "interest_rate": "10",
				"interest_period": "weekly", "start_date": "2024-01-01", "due_date": "2024-02-01",
			},
			setupMocks: func(e *testEnv) {
				e.clients.On("GetByID", mock.Anything, testOwner, clientID).Return(&domain.Client{ID: clientID}, nil)
				e.loans.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "three decimal places",
			body: map[string]any{
				"client_id": clientID.String(), "principal_amount": "1000.123", "interest_rate": "10",
				"interest_period": "weekly", "start_date": "2024-01-01", "due_date": "2024-02-01",
			},
			setupMocks:     func(e *testEnv) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  customError.ErrCodeValidation,
		},
		{
			name: "interest rate above column bound",
			body: map[string]any{
				"client_id": clientID.String(), "principal_amount": "1000", "interest_rate": "1000",
				"interest_period": "weekly", "start_date": "2024-01-01", "due_date": "2024-02-01",
			},
			setupMocks:     func(e *testEnv) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  customError.ErrCodeValidation,
		},
		{
			name: "principal above column bound",
			body: map[string]any{
				"client_id": clientID.String(), "principal_amount": "10000000000000", "interest_rate": "10",
				"interest_period": "weekly", "start_date": "2024-01-01", "due_date": "2024-02-01",
			},
			setupMocks:     func(e *testEnv) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  customError.ErrCodeValidation,
		},
		{
			name: "due before start",
			body: map[string]any{
				"client_id": clientID.String(), "principal_amount": "1000", "interest_rate": "10",
				"interest_period": "monthly", "start_date": "2024-02-01", "due_date": "2024-01-01",
			},
			setupMocks:     func(e *testEnv) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  customError.ErrCodeInvalidDateRange,
		},
		{
			name: "unknown client",
			body: map[string]any{
				"client_id": clientID.String(), "principal_amount": "1000", "interest_rate": "10",
				"interest_period": "monthly", "start_date": "2024-01-01", "due_date": "2024-03-01",
			},
			setupMocks: func(e *testEnv) {
				e.clients.On("GetByID", mock.Anything, testOwner, clientID).Return(nil, sql.ErrNoRows)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  customError.ErrCodeClientNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setupMocks(env)

			w := env.do(http.MethodPost, "/api/v1/loans", tt.body, true)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decode(t, w).Error)
				return
			}

			var loan domain.Loan
			require.NoError(t, json.Unmarshal(decode(t, w).Data, &loan))
			assert.Equal(t, domain.LoanStatusActive, loan.Status)
			assert.True(t, loan.PrincipalAmount.Equal(decimal.NewFromInt(1000)))
			assert.NotContains(t, w.Body.String(), "owner_id")
		})
	}
}

func TestLoanHandler_CalculateInterest(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/loans/calculate-interest", map[string]any{
		"principal_amount": 1000,
		"interest_rate":    10,
		"interest_period":  "weekly",
		"start_date":       "2024-01-01",
		"end_date":         "2024-01-15",
	}, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"periods":2,"interest_amount":"210.00","total_amount":"1210.00","final_amount":"1210.00"}`,
		string(decode(t, w).Data))
}

func TestLoanHandler_Get_NotFound(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.loans.On("GetByID", mock.Anything, testOwner, id).Return(nil, sql.ErrNoRows)

	w := env.do(http.MethodGet, "/api/v1/loans/"+id.String(), nil, true)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, customError.ErrCodeLoanNotFound, decode(t, w).Error)
}

func TestLoanHandler_Overdue(t *testing.T) {
	env := newTestEnv(t)
	client := &domain.Client{ID: uuid.New(), Name: "Maria"}
	loan := &domain.Loan{
		ID: uuid.New(), ClientID: client.ID, PrincipalAmount: decimal.NewFromInt(500),
		InterestRate: decimal.NewFromInt(5), InterestPeriod: domain.InterestPeriodMonthly,
		StartDate: time.Now().AddDate(0, -2, 0), DueDate: time.Now().Add(-20 * 24 * time.Hour),
		Status: domain.LoanStatusActive,
	}
	env.loans.On("ListOverdue", mock.Anything, testOwner, mock.Anything).Return([]*domain.Loan{loan}, nil)
	env.clients.On("List", mock.Anything, testOwner).Return([]*domain.Client{client}, nil)

	w := env.do(http.MethodGet, "/api/v1/loans/overdue", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	var overdue []domain.OverdueLoan
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &overdue))
	require.Len(t, overdue, 1)
	assert.Equal(t, "Maria", overdue[0].Client.Name)
	assert.Equal(t, domain.SeverityModerate, overdue[0].Status.Severity)
}

func TestLoanHandler_List_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/loans?status=late", nil, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, customError.ErrCodeInvalidStatus, decode(t, w).Error)
}

func TestPaymentHandler_Create(t *testing.T) {
	env := newTestEnv(t)
	loanID := uuid.New()
	env.loans.On("GetByID", mock.Anything, testOwner, loanID).Return(&domain.Loan{ID: loanID}, nil)
	env.payments.On("Create", mock.Anything, mock.Anything).Return(nil)

	w := env.do(http.MethodPost, "/api/v1/payments", map[string]any{
		"loan_id": loanID.String(), "amount": "99.90", "payment_date": "2024-03-01", "payment_type": "interest",
	}, true)

	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodPost, "/api/v1/payments", map[string]any{
		"loan_id": loanID.String(), "amount": "99.90", "payment_date": "2024-03-01", "payment_type": "fee",
	}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientHandler_CRUD(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.clients.On("Create", mock.Anything, mock.Anything).Return(nil)
	env.clients.On("Search", mock.Anything, testOwner, "Silva").Return([]*domain.Client{{ID: id, Name: "Maria Silva"}}, nil)
	env.clients.On("Delete", mock.Anything, testOwner, id).Return(nil)

	w := env.do(http.MethodPost, "/api/v1/clients", map[string]any{"name": "Maria Silva"}, true)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(http.MethodGet, "/api/v1/clients/search?term=Silva", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var found []domain.Client
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &found))
	assert.Len(t, found, 1)

	w = env.do(http.MethodDelete, "/api/v1/clients/"+id.String(), nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/v1/clients", map[string]any{"phone": "123"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_Stats(t *testing.T) {
	env := newTestEnv(t)
	env.clients.On("Count", mock.Anything, testOwner).Return(3, nil)
	env.loans.On("List", mock.Anything, testOwner).Return([]*domain.Loan{}, nil)
	env.payments.On("List", mock.Anything, testOwner).Return([]*domain.Payment{}, nil)

	w := env.do(http.MethodGet, "/api/v1/dashboard/stats", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	var stats domain.DashboardStats
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &stats))
	assert.Equal(t, 3, stats.TotalClients)
	assert.True(t, stats.TotalOnStreet.IsZero())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &raw))
	assert.Equal(t, "0.00", raw["total_lent"])
	assert.Equal(t, "0.00", raw["monthly_interest"])
}

func TestDashboardHandler_Stats_MoneyFormat(t *testing.T) {
	env := newTestEnv(t)
	loan := &domain.Loan{
		ID:              uuid.New(),
		PrincipalAmount: decimal.NewFromInt(1000),
		InterestRate:    decimal.NewFromInt(10),
		InterestPeriod:  domain.InterestPeriodBiweekly,
		StartDate:       time.Now().AddDate(0, 0, -7),
		DueDate:         time.Now().AddDate(0, 1, 0),
		Status:          domain.LoanStatusActive,
		OwnerID:         testOwner,
	}
	payment := &domain.Payment{LoanID: loan.ID, Amount: decimal.NewFromInt(200), PaymentType: domain.PaymentTypePrincipal}
	env.clients.On("Count", mock.Anything, testOwner).Return(1, nil)
	env.loans.On("List", mock.Anything, testOwner).Return([]*domain.Loan{loan}, nil)
	env.payments.On("List", mock.Anything, testOwner).Return([]*domain.Payment{payment}, nil)

	w := env.do(http.MethodGet, "/api/v1/dashboard/stats", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &raw))
	assert.Equal(t, "1000.00", raw["total_lent"])
	assert.Equal(t, "200.00", raw["total_received"])
	assert.Equal(t, "800.00", raw["total_on_street"])
	assert.Equal(t, "210.00", raw["monthly_interest"])
}

func TestLoanHandler_Outstanding(t *testing.T) {
	env := newTestEnv(t)
	loan := &domain.Loan{ID: uuid.New(), PrincipalAmount: decimal.NewFromInt(1000), Status: domain.LoanStatusActive, OwnerID: testOwner}
	payments := []*domain.Payment{
		{Amount: decimal.NewFromInt(200), PaymentType: domain.PaymentTypePrincipal},
		{Amount: decimal.NewFromInt(100), PaymentType: domain.PaymentTypeInterest},
		{Amount: decimal.NewFromInt(150), PaymentType: domain.PaymentTypePrincipal},
	}
	env.loans.On("GetByID", mock.Anything, testOwner, loan.ID).Return(loan, nil)
	env.payments.On("ListByLoan", mock.Anything, testOwner, loan.ID).Return(payments, nil)

	w := env.do(http.MethodGet, "/api/v1/loans/"+loan.ID.String()+"/outstanding", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &raw))
	assert.Equal(t, "650.00", raw["outstanding"])
	assert.Equal(t, false, raw["overpaid"])
}

func TestDashboardHandler_LoansReport(t *testing.T) {
	env := newTestEnv(t)
	env.clients.On("List", mock.Anything, testOwner).Return([]*domain.Client{}, nil)
	env.loans.On("List", mock.Anything, testOwner).Return([]*domain.Loan{}, nil)
	env.payments.On("List", mock.Anything, testOwner).Return([]*domain.Payment{}, nil)

	w := env.do(http.MethodGet, "/api/v1/reports/loans.xlsx", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestHealthHandler_Ready(t *testing.T) {
	h := &HealthHandler{checks: map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	}}

	w := httptest.NewRecorder()
	h.Ready(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &status))
	assert.Equal(t, "ok", status.Checks["database"])
	assert.Contains(t, status.Checks["redis"], "connection refused")
}

func TestValidator_Money(t *testing.T) {
	v := NewValidator()
	type payload struct {
		Amount string `json:"amount" validate:"required,money"`
	}

	for value, valid := range map[string]bool{
		"0": true, "10": true, "10.5": true, "10.55": true,
		"10.555": false, "-1": false, "1e3": false, "1,50": false, ".5": false,
	} {
		err := v.Struct(payload{Amount: value})
		assert.Equal(t, valid, err == nil, value)
	}
}

func TestValidator_RegistrationFailurePanics(t *testing.T) {
	assert.NotPanics(t, func() { NewValidator() })
	assert.Panics(t, func() {
		mustRegister(NewValidator(), "", func(fl validator.FieldLevel) bool { return true })
	})
}

func TestRouter_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/nothing-here", nil, true)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error)
}
