package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SwapTransitions counts swap status changes by origin and destination.
	SwapTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_swap_transitions_total",
		Help: "Total number of applied swap status transitions",
	}, []string{"from", "to"})

	// SwapTransitionRejections counts refused transition attempts by error code.
	SwapTransitionRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_swap_transition_rejections_total",
		Help: "Total number of refused swap status transitions",
	}, []string{"code"})

	// SwapsCreated counts new swap requests.
	SwapsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_swaps_created_total",
		Help: "Total number of swap requests created",
	})

	// FeedbackCreated counts submitted feedback entries.
	FeedbackCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_feedback_created_total",
		Help: "Total number of feedback entries submitted",
	})

	// AuthFailures counts rejected authentication attempts by error code.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_auth_failures_total",
		Help: "Total number of rejected authentication attempts",
	}, []string{"code"})

	// BroadcastsSent counts platform messages by outcome.
	BroadcastsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_broadcasts_total",
		Help: "Total number of platform broadcast messages by outcome",
	}, []string{"outcome"})
)
