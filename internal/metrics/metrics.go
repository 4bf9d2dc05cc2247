package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "detailbooking",
		Name:      "bookings_created_total",
		Help:      "Bookings persisted successfully.",
	})

	slotConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "detailbooking",
		Name:      "slot_conflicts_total",
		Help:      "Booking attempts rejected because the slot was already taken.",
	})

	notificationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "detailbooking",
		Name:      "notification_failures_total",
		Help:      "Confirmation notifications that could not be queued or sent.",
	})

	availabilityQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "detailbooking",
		Name:      "availability_queries_total",
		Help:      "Availability queries by outcome.",
	}, []string{"outcome"})
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, slotConflicts, notificationFailures, availabilityQueries)
	})
}

func IncBookingCreated()       { bookingsCreated.Inc() }
func IncSlotConflict()         { slotConflicts.Inc() }
func IncNotificationFailure()  { notificationFailures.Inc() }
func IncAvailability(o string) { availabilityQueries.WithLabelValues(o).Inc() }
