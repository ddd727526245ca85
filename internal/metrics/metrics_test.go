package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	// Repeated registration must not panic.
	Register()
	Register()

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/health", "GET", "200"))
	IncHTTP("/health", "GET", 200)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("/health", "GET", "200"))
	assert.Equal(t, before+1, after)

	bookingsBefore := testutil.ToFloat64(bookingsCreated)
	IncBookingCreated()
	assert.Equal(t, bookingsBefore+1, testutil.ToFloat64(bookingsCreated))
}
