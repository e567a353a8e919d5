package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MintsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wishd_mints_total",
		Help: "Confirmed daily-wish mints.",
	})

	SwapsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wishd_swaps_total",
		Help: "Confirmed swaps by direction.",
	}, []string{"direction"})

	ApprovalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wishd_approvals_total",
		Help: "Approval transactions submitted during swaps.",
	})

	ClaimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wishd_claims_total",
		Help: "Settled reward claims by mode.",
	}, []string{"mode"})

	AttributionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wishd_referral_attributions_total",
		Help: "One-shot referral attributions recorded.",
	})
)
