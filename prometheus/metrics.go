package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobportal_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_register_total",
			Help: "Total number of user registrations by role",
		},
		[]string{"role"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// StatusCategoryCounter counts responses by 2xx/4xx/5xx
	StatusCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_credentials", "inactive_user", "email_taken" etc.
	)

	// SweepCounter counts expiration sweeps by trigger and outcome
	SweepCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_expiration_sweeps_total",
			Help: "Total number of job expiration sweeps",
		},
		[]string{"trigger", "result"}, // trigger is "schedule" or "listing"
	)

	// ExpiredJobsCounter counts jobs moved to expired
	ExpiredJobsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_jobs_expired_total",
			Help: "Total number of jobs moved to expired by the sweeper",
		},
		[]string{"trigger"},
	)

	// CompanyTransitionCounter counts admin company status changes
	CompanyTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_company_transitions_total",
			Help: "Total number of company status transitions",
		},
		[]string{"from", "to"},
	)

	// CascadedRevocationsCounter counts jobs revoked because their company was rejected or revoked
	CascadedRevocationsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobportal_jobs_cascade_revoked_total",
			Help: "Total number of jobs revoked by a company transition",
		},
	)

	// JobOperationCounter counts job mutations
	JobOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_job_operations_total",
			Help: "Total number of job operations",
		},
		[]string{"operation"}, // operation can be "create", "update", "status", "delete"
	)

	// ApplicationCounter counts application operations
	ApplicationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_application_operations_total",
			Help: "Total number of application operations",
		},
		[]string{"operation"}, // operation can be "create", "status", "rate_limited"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobportal_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Sweep duration
	SweepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobportal_expiration_sweep_duration_seconds",
			Help:    "Duration of job expiration sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobportal_info",
			Help: "Information about the job portal service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(StatusCategoryCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(SweepCounter)
	prometheus.MustRegister(ExpiredJobsCounter)
	prometheus.MustRegister(CompanyTransitionCounter)
	prometheus.MustRegister(CascadedRevocationsCounter)
	prometheus.MustRegister(JobOperationCounter)
	prometheus.MustRegister(ApplicationCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SweepDuration)

	// Register gauges
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackSweep measures a sweep and records its outcome. Call the returned
// function once the sweep finished.
func TrackSweep(trigger string) func(expired int64, err error) {
	start := time.Now()
	return func(expired int64, err error) {
		SweepDuration.With(prometheus.Labels{"trigger": trigger}).Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		SweepCounter.With(prometheus.Labels{"trigger": trigger, "result": result}).Inc()
		if expired > 0 {
			ExpiredJobsCounter.With(prometheus.Labels{"trigger": trigger}).Add(float64(expired))
		}
	}
}

// RecordCompanyTransition records a company status change and its cascade
func RecordCompanyTransition(from, to string, revokedJobs int64) {
	CompanyTransitionCounter.With(prometheus.Labels{"from": from, "to": to}).Inc()
	if revokedJobs > 0 {
		CascadedRevocationsCounter.Add(float64(revokedJobs))
	}
}

// RecordJobOperation records a job operation
func RecordJobOperation(operation string) {
	JobOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordApplicationOperation records an application operation
func RecordApplicationOperation(operation string) {
	ApplicationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return ""
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			if err := next(c); err != nil {
				c.Error(err)
			}

			// Record request duration
			duration := time.Since(start).Seconds()
			status := c.Response().Status
			endpoint := c.Path()
			method := c.Request().Method
			labels := prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   strconv.Itoa(status),
			}

			// Record metrics
			RequestDuration.With(labels).Observe(duration)
			HTTPRequestCounter.With(labels).Inc()
			if category := statusCategory(status); category != "" {
				StatusCategoryCounter.With(prometheus.Labels{"category": category}).Inc()
			}

			return nil
		}
	}
}
