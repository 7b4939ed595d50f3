package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meetingbook"

var (
	once sync.Once

	emailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Count of email deliveries by type and outcome.",
		},
		[]string{"type", "status"},
	)

	emailDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "email_send_duration_seconds",
			Help:      "Time spent handing an email to the SMTP server.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Count of booking lifecycle transitions.",
		},
		[]string{"transition"},
	)

	remindersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_dispatched_total",
			Help:      "Count of reminders dispatched by the periodic job.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(emailsTotal, emailDuration, bookingTransitions, remindersTotal)
	})
}

func Handler() http.Handler {
	Register()

	return promhttp.Handler()
}

func IncEmail(emailType, status string) {
	emailsTotal.WithLabelValues(emailType, status).Inc()
}

func ObserveEmailDuration(emailType string, seconds float64) {
	emailDuration.WithLabelValues(emailType).Observe(seconds)
}

func IncBookingTransition(transition string) {
	bookingTransitions.WithLabelValues(transition).Inc()
}

func IncReminder() {
	remindersTotal.Inc()
}
