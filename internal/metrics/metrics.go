package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	loansCreatedTotal     prometheus.Counter
	loanTransitionsTotal  *prometheus.CounterVec
	documentsUploadsTotal *prometheus.CounterVec
)

// Register initializes the collectors and returns the /metrics handler.
func Register() http.Handler {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "In-flight requests by method and route",
		}, []string{"method", "path"})

		loansCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loan_requests_created_total",
			Help: "Loan requests submitted by clients",
		})

		loanTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_status_transitions_total",
			Help: "Loan status transitions by target status",
		}, []string{"to"})

		documentsUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "document_uploads_total",
			Help: "Document uploads by result",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			httpInflight,
			loansCreatedTotal,
			loanTransitionsTotal,
			documentsUploadsTotal,
		)
	})

	return promhttp.Handler()
}

// Middleware instruments every request. Route templates (":id") are used
// as the path label to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		httpInflight.WithLabelValues(method, path).Inc()
		start := time.Now()

		c.Next()

		httpInflight.WithLabelValues(method, path).Dec()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func LoanCreated() {
	if loansCreatedTotal != nil {
		loansCreatedTotal.Inc()
	}
}

func LoanTransition(to string) {
	if loanTransitionsTotal != nil {
		loanTransitionsTotal.WithLabelValues(to).Inc()
	}
}

func DocumentUpload(result string) {
	if documentsUploadsTotal != nil {
		documentsUploadsTotal.WithLabelValues(result).Inc()
	}
}
