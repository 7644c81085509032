package event

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var (
	pollsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Total number of event poll cycles",
			Name:      "event_polls_total",
			Namespace: "galaxy",
		},
	)
	pollErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Total number of failed event poll cycles",
			Name:      "event_poll_errors_total",
			Namespace: "galaxy",
		},
	)
	eventsDeliveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Total number of events delivered to subscribers",
			Name:      "events_delivered_total",
			Namespace: "galaxy",
		},
	)
	activeSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Number of active event subscriptions",
			Name:      "active_subscriptions",
			Namespace: "galaxy",
		},
	)
)

func incPollCounter() {
	pollsTotal.Inc()
}

func incPollErrorCounter() {
	pollErrorsTotal.Inc()
}

func addDeliveredEvents(n int) {
	eventsDeliveredTotal.Add(float64(n))
}

func updateActiveSubscriptions(delta float64) {
	activeSubscriptions.Add(delta)
}

func init() {
	prometheus.MustRegister(
		pollsTotal,
		pollErrorsTotal,
		eventsDeliveredTotal,
		activeSubscriptions,
	)
}
