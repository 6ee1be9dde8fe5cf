package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route template and status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes request latency
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LoansCreated counts loans created by interest period
	LoansCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loans_created_total",
			Help: "Loans created",
		},
		[]string{"interest_period"},
	)

	// PaymentsRecorded counts payments by allocation type
	PaymentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_recorded_total",
			Help: "Payments recorded",
		},
		[]string{"payment_type"},
	)

	// InterestCalculations counts compound-interest projections served
	InterestCalculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interest_calculations_total",
			Help: "Compound-interest projections served",
		},
		[]string{"interest_period"},
	)

	// LoansOverdue is the last observed number of overdue loans per severity
	LoansOverdue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "loans_overdue",
			Help: "Overdue loans by severity, as of the last scheduler run",
		},
		[]string{"severity"},
	)

	// CacheOperations counts dashboard cache lookups and failures
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_cache_operations_total",
			Help: "Dashboard cache lookups by result",
		},
		[]string{"result"},
	)

	// LoginAttempts counts shared-password logins by outcome
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)
)
