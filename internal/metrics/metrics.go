package metrics

import (
	"github.com/Domenick1991/airport/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "airport"

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Business rule violations by error kind.",
	}, []string{"kind"})

	FlightsScheduled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flights_scheduled_total",
		Help:      "Flights that passed scheduling validation and were stored.",
	})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Committed orders.",
	})

	TicketsSold = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_sold_total",
		Help:      "Tickets in committed orders.",
	})
)

// ObserveError counts err when it is a business rule violation.
func ObserveError(err error) {
	if kind, ok := domain.KindOf(err); ok {
		ValidationFailures.WithLabelValues(string(kind)).Inc()
	}
}
