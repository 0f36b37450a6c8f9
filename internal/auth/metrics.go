package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels of the external login counter.
const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeAborted = "aborted"
	OutcomeFailed  = "failed"
)

var externalLogins = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "backoffice_external_login_total",
		Help: "Number of external login attempts, differentiated by provider and outcome.",
	},
	[]string{"provider", "outcome"},
)

func countLogin(provider, outcome string) {
	externalLogins.WithLabelValues(provider, outcome).Inc()
}
