package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expensetracker"

var (
	ExpensesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "expenses_total",
			Help:      "Expenses written through the ingestion pipeline.",
		},
		[]string{"action"},
	)

	IngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"error"},
	)

	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "deliveries_total",
		},
		[]string{"status"},
	)

	MailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mail",
			Name:      "deliveries_total",
		},
		[]string{"status"},
	)

	RecurringProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recurring",
			Name:      "processed_total",
		},
		[]string{"status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}

func ObserveIngest(action string, elapsed time.Duration, err error) {
	IngestDuration.WithLabelValues(strconv.FormatBool(err != nil)).Observe(elapsed.Seconds())
	if err == nil {
		ExpensesIngested.WithLabelValues(action).Inc()
	}
}

func ObserveWebhook(err error) {
	WebhookDeliveries.WithLabelValues(status(err)).Inc()
}

func ObserveMail(err error) {
	MailDeliveries.WithLabelValues(status(err)).Inc()
}

func ObserveRecurring(err error) {
	RecurringProcessed.WithLabelValues(status(err)).Inc()
}

func ObserveHTTP(method, route string, code int, elapsed time.Duration) {
	HTTPDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}
