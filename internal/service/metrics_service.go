package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	applicationsSubmitted prometheus.Counter
	applicationsWithdrawn prometheus.Counter
	statusUpdates         prometheus.Counter
	emailsSent            prometheus.Counter
	emailsFailed          prometheus.Counter
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	applicationsSubmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "applications_submitted_total",
		Help: "Total bursary applications submitted",
	})

	applicationsWithdrawn := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "applications_withdrawn_total",
		Help: "Total bursary applications withdrawn",
	})

	statusUpdates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "application_status_updates_total",
		Help: "Total application status history entries appended",
	})

	emailsSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_emails_sent_total",
		Help: "Total notification emails delivered to the SMTP transport",
	})

	emailsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_emails_failed_total",
		Help: "Total notification emails that failed to send",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal,
		applicationsSubmitted, applicationsWithdrawn, statusUpdates,
		emailsSent, emailsFailed, goroutines)

	return &MetricsService{
		registry:              registry,
		handler:               promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:       requestDuration,
		requestTotal:          requestTotal,
		applicationsSubmitted: applicationsSubmitted,
		applicationsWithdrawn: applicationsWithdrawn,
		statusUpdates:         statusUpdates,
		emailsSent:            emailsSent,
		emailsFailed:          emailsFailed,
	}
}

// Handler exposes the scrape endpoint handler.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records request metrics.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// IncApplicationSubmitted counts a successful submission.
func (s *MetricsService) IncApplicationSubmitted() { s.applicationsSubmitted.Inc() }

// IncApplicationWithdrawn counts a withdrawal.
func (s *MetricsService) IncApplicationWithdrawn() { s.applicationsWithdrawn.Inc() }

// IncStatusUpdate counts an appended history entry.
func (s *MetricsService) IncStatusUpdate() { s.statusUpdates.Inc() }

// IncEmailSent counts a delivered notification.
func (s *MetricsService) IncEmailSent() { s.emailsSent.Inc() }

// IncEmailFailed counts a failed notification send.
func (s *MetricsService) IncEmailFailed() { s.emailsFailed.Inc() }
