package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	calendarBuilds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prokat",
			Name:      "calendar_builds_total",
			Help:      "Count of booking calendars built.",
		},
	)

	rangesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "prokat",
			Name:      "booking_ranges_dropped_total",
			Help:      "Count of malformed booked ranges skipped during calendar build.",
		},
	)

	validations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prokat",
			Name:      "validations_total",
			Help:      "Count of rental range validations by result and error kind.",
		},
		[]string{"result", "kind"},
	)

	billableDays = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "prokat",
			Name:      "quote_billable_days",
			Help:      "Billable days of accepted rental quotes.",
			Buckets:   []float64{1, 2, 3, 5, 7, 10, 14, 21, 30, 60, 90},
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prokat",
			Name:      "http_requests_total",
			Help:      "Count of API requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(calendarBuilds, rangesDropped, validations, billableDays, httpRequests)
	})
}

func IncCalendarBuild() {
	calendarBuilds.Inc()
}

func AddRangesDropped(n int) {
	if n > 0 {
		rangesDropped.Add(float64(n))
	}
}

// IncValidation records a validation outcome. kind is empty for accepted ranges.
func IncValidation(accepted bool, kind string) {
	result := "rejected"
	if accepted {
		result = "accepted"
		kind = "none"
	}
	validations.WithLabelValues(result, kind).Inc()
}

func ObserveBillableDays(days int) {
	billableDays.Observe(float64(days))
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
