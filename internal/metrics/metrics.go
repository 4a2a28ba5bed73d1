package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSent         = "sent"
	OutcomeFailed       = "failed"
	OutcomeDuplicate    = "duplicate"
	OutcomeMissingPhone = "missing_phone"
	OutcomeInvalidPhone = "invalid_phone"
	OutcomeDisabled     = "disabled"
)

var (
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_webhook_events_total",
			Help: "Total number of inbound platform events by kind",
		},
		[]string{"kind"},
	)

	SMSTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_webhook_sms_total",
			Help: "Total number of link text attempts by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	EmailTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_webhook_email_total",
			Help: "Total number of call summary emails by outcome",
		},
		[]string{"outcome"},
	)
)
