// Package metrics defines and registers all custom Prometheus metrics for the
// geonotes API. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "geonotes"

// ── Gate metrics ──────────────────────────────────────────────────────────────

// AuthDecisionsTotal counts decisions taken by the auth pipeline stages.
// Labels:
//   - stage: "authenticate" or "authorize"
//   - outcome: "allowed", "missing", "invalid" or "denied"
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authentication and authorization decisions.",
	},
	[]string{"stage", "outcome"},
)

// PipelineErrorsTotal counts failures rendered by the terminal error handler.
// Label:
//   - kind: the error kind (e.g. "forbidden", "not_found", "internal")
var PipelineErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_errors_total",
		Help:      "Total number of error responses, by error kind.",
	},
	[]string{"kind"},
)

// ── Note metrics ──────────────────────────────────────────────────────────────

// NotesMutationsTotal counts successful note mutations.
// Label:
//   - action: "created", "updated" or "deleted"
var NotesMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notes_mutations_total",
		Help:      "Total number of successful note mutations, by action.",
	},
	[]string{"action"},
)

// IdempotencyTotal counts Idempotency-Key lookups on note creation.
// Label:
//   - result: "hit" (replayed) or "miss" (new note created)
var IdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_total",
		Help:      "Total number of idempotency lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by final outcome.
// Label:
//   - result: "recorded", "failed" or "dropped" (queue full)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, by outcome.",
	},
	[]string{"result"},
)

// AuditProcessingDuration measures how long persisting a single audit event takes.
var AuditProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_processing_duration_seconds",
		Help:      "Duration of audit event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
