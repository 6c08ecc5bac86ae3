package models

import "time"

// SyncMetricsSnapshot aggregates gateway counters for the status endpoint.
type SyncMetricsSnapshot struct {
	OptimisticApplied  uint64    `json:"optimistic_applied"`
	OptimisticReverted uint64    `json:"optimistic_reverted"`
	Reconciles         uint64    `json:"reconciles"`
	PreservedEntities  uint64    `json:"preserved_entities"`
	UpstreamRequests   uint64    `json:"upstream_requests"`
	UpstreamFailures   uint64    `json:"upstream_failures"`
	AverageUpstreamMs  float64   `json:"average_upstream_ms"`
	RequestsTotal      uint64    `json:"requests_total"`
	AverageRequestMs   float64   `json:"average_request_ms"`
	GeneratedAt        time.Time `json:"generated_at"`
}
