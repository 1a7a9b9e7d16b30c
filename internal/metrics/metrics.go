package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the policy engine's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Registration outcomes by result ("success" or an error kind)
	RegistrationOutcome *prometheus.CounterVec

	// Authentication outcomes by branch ("override", "normal", "precheck") and result
	AuthOutcome *prometheus.CounterVec

	AppealsFiled    prometheus.Counter
	AutoWhitelisted prometheus.Counter
	RecoveredPanics *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RegistrationOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "email_policy_registration_outcomes_total",
			Help: "Registration decisions by outcome",
		}, []string{"outcome"}),

		AuthOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "email_policy_auth_outcomes_total",
			Help: "Authentication decisions by branch and outcome",
		}, []string{"branch", "outcome"}),

		AppealsFiled: f.NewCounter(prometheus.CounterOpts{
			Name: "email_policy_appeals_filed_total",
			Help: "Appeals filed, automatically or on request",
		}),

		AutoWhitelisted: f.NewCounter(prometheus.CounterOpts{
			Name: "email_policy_auto_whitelisted_total",
			Help: "Addresses added to the whitelist during registration",
		}),

		RecoveredPanics: f.NewCounterVec(prometheus.CounterOpts{
			Name: "email_policy_recovered_faults_total",
			Help: "Unexpected faults downgraded to failure results, by operation",
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementRegistration(outcome string) {
	if m != nil {
		m.RegistrationOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementAuth(branch, outcome string) {
	if m != nil {
		m.AuthOutcome.WithLabelValues(branch, outcome).Inc()
	}
}

func (m *Metrics) IncrementAppealsFiled() {
	if m != nil {
		m.AppealsFiled.Inc()
	}
}

func (m *Metrics) IncrementAutoWhitelisted() {
	if m != nil {
		m.AutoWhitelisted.Inc()
	}
}

func (m *Metrics) IncrementRecovered(operation string) {
	if m != nil {
		m.RecoveredPanics.WithLabelValues(operation).Inc()
	}
}
