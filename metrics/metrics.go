package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks application lifecycle events and HTTP latency.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	ApplicationConflicts  prometheus.Counter
	StatusTransitions     *prometheus.CounterVec
	NotificationsAppended prometheus.Counter
	NotificationsFailed   prometheus.Counter
	SubmitRateLimited     prometheus.Counter
	RequestDuration       *prometheus.HistogramVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_applications_submitted_total",
			Help: "Total number of applications accepted by the ledger",
		}),
		ApplicationConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_application_conflicts_total",
			Help: "Total number of submissions rejected as duplicates",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jobboard_status_transitions_total",
			Help: "Total number of committed application status changes by new status",
		}, []string{"status"}),
		NotificationsAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_notifications_appended_total",
			Help: "Total number of notifications written to the outbox",
		}),
		NotificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_notifications_failed_total",
			Help: "Total number of notifications dropped after the ledger write succeeded",
		}),
		SubmitRateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "jobboard_submit_rate_limited_total",
			Help: "Total number of submissions rejected by the rate limiter",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route pattern",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "code"}),
	}
}

func (m *Metrics) IncrementSubmitted() {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.Inc()
}

func (m *Metrics) IncrementConflict() {
	if m == nil {
		return
	}
	m.ApplicationConflicts.Inc()
}

func (m *Metrics) IncrementTransition(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementNotificationAppended() {
	if m == nil {
		return
	}
	m.NotificationsAppended.Inc()
}

func (m *Metrics) IncrementNotificationFailed() {
	if m == nil {
		return
	}
	m.NotificationsFailed.Inc()
}

func (m *Metrics) IncrementRateLimited() {
	if m == nil {
		return
	}
	m.SubmitRateLimited.Inc()
}

// ObserveRequest records the duration of a request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(route, method string, code int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(code)).Observe(time.Since(start).Seconds())
}
