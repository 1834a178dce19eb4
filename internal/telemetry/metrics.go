// Package telemetry registers Prometheus counters for the decision core.
// Everything lands on the default registry; embedders expose it however they
// serve /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsTotal counts validated recommendations by risk tier.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricecore_recommendations_total",
			Help: "Validated price recommendations produced, by risk tier.",
		},
		[]string{"tier"},
	)

	// GuardrailClampsTotal counts guardrail clamps by rule.
	GuardrailClampsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricecore_guardrail_clamps_total",
			Help: "Guardrail clamps applied, by rule id.",
		},
		[]string{"rule"},
	)

	// DecisionsTotal counts terminal workflow transitions by decision.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricecore_decisions_total",
			Help: "Approval requests decided, by decision.",
		},
		[]string{"decision"},
	)

	// AuthorityDeniedTotal counts decide attempts below the required rank.
	AuthorityDeniedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricecore_authority_denied_total",
			Help: "Decide attempts rejected for insufficient authority.",
		},
	)

	// InvalidStateTotal counts decide attempts on terminal requests.
	InvalidStateTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricecore_invalid_state_total",
			Help: "Decide attempts rejected because the request was already decided.",
		},
	)

	// AuditAppendsTotal counts durable audit ledger appends.
	AuditAppendsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricecore_audit_appends_total",
			Help: "Audit entries appended to the ledger.",
		},
	)
)
