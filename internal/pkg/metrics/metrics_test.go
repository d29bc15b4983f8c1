package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBooking("reserve", "ok")
	m.ObserveBooking("reserve", "ok")
	m.ObserveNotification("email", "booking_created", errors.New("smtp down"))
	m.ObserveNotification("hub", "booking_created", nil)
	m.AddUnverifiedSwept(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingOperations.WithLabelValues("reserve", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailed.WithLabelValues("email", "booking_created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("hub", "booking_created")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.UnverifiedSwept))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveBooking("cancel", "ok")
		m.ObserveSlotCache(true)
		m.IncRateLimited()
	})
}
