package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status.",
		},
		[]string{"endpoint", "method", "status"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_created_total",
			Help:      "Bookings accepted into WAITING state.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated)
	})
}

// IncHTTP increments the request counter for an endpoint label.
func IncHTTP(endpoint, method string, status int) {
	httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
}

// IncBookingCreated counts one accepted booking.
func IncBookingCreated() {
	bookingsCreated.Inc()
}
