package entities

import (
	"time"
)

// SearchEvent represents a single ranked search for analytics.
type SearchEvent struct {
	ID             string        `json:"id" db:"id"`
	Kind           CandidateKind `json:"kind" db:"kind"`
	Location       string        `json:"location" db:"location"`
	Query          string        `json:"query" db:"query"`
	SortSpec       string        `json:"sort_spec" db:"sort_spec"`
	CandidateCount int           `json:"candidate_count" db:"candidate_count"`
	DroppedCount   int           `json:"dropped_count" db:"dropped_count"`
	ResultCount    int           `json:"result_count" db:"result_count"`
	LatencyMs      int           `json:"latency_ms" db:"latency_ms"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}
