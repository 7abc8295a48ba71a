// Package metrics registers the Prometheus instruments for the settlement
// engine and the notification hub.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsRecorded counts committed payment recordings, partitioned
	// by whether a proof was attached.
	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vaquita",
		Subsystem: "settlement",
		Name:      "payments_recorded_total",
		Help:      "Committed payment recordings.",
	}, []string{"with_proof"})

	// ProofValidations counts creator decisions on proofs of payment.
	ProofValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vaquita",
		Subsystem: "settlement",
		Name:      "proof_validations_total",
		Help:      "Proof validation decisions by outcome.",
	}, []string{"outcome"})

	// GroupsDeleted counts creator-gated cascade deletions.
	GroupsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaquita",
		Subsystem: "settlement",
		Name:      "groups_deleted_total",
		Help:      "Groups removed via cascade delete.",
	})

	// EventsPublished counts events handed to the notification hub.
	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaquita",
		Subsystem: "notify",
		Name:      "events_published_total",
		Help:      "Events published to group channels.",
	})

	// EventsDropped counts per-subscriber deliveries skipped because the
	// subscriber's buffer was full. Delivery is at-most-once by design.
	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vaquita",
		Subsystem: "notify",
		Name:      "events_dropped_total",
		Help:      "Deliveries dropped on slow or gone subscribers.",
	})

	// Subscribers tracks currently joined channel subscribers.
	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "vaquita",
		Subsystem: "notify",
		Name:      "subscribers",
		Help:      "Live group-channel subscribers.",
	})
)
