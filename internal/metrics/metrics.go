package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CommandsAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sherlock13_commands_accepted_total",
			Help: "Inbound commands that passed validation and mutated state",
		},
		[]string{"tag"},
	)
	CommandsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sherlock13_commands_rejected_total",
			Help: "Inbound commands dropped without state change",
		},
		[]string{"reason"},
	)
	EventsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sherlock13_events_emitted_total",
			Help: "Outbound protocol events handed to dispatch",
		},
		[]string{"tag"},
	)
	SendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sherlock13_send_failures_total",
			Help: "Deliveries skipped because the recipient was unreachable",
		},
	)
)

func init() {
	prometheus.MustRegister(CommandsAccepted, CommandsRejected, EventsEmitted, SendFailures)
}
