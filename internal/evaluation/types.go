package evaluation

import (
	"time"

	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/ranking"
)

// GoldenScenario is a labeled ranking batch with the ordering a reviewer expects.
// The embedded request carries kind, candidates, constraints and sort.
type GoldenScenario struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Difficulty  string `json:"difficulty"` // easy, medium, hard

	ranking.Request

	ExpectedTop []string `json:"expected_top"`
	MustExclude []string `json:"must_exclude,omitempty"`

	// ExpectedError names the error type the run must fail with, e.g. INVALID_CONSTRAINT
	ExpectedError string `json:"expected_error,omitempty"`
}

// EvalResult holds the evaluation outcome for a single scenario.
type EvalResult struct {
	ScenarioID     string                 `json:"scenario_id"`
	Kind           entities.CandidateKind `json:"kind"`
	RecallAtK      float64                `json:"recall_at_k"`
	MRRAtK         float64                `json:"mrr_at_k"`
	OrderAgreement float64                `json:"order_agreement"`
	Returned       []string               `json:"returned"`
	Excluded       []string               `json:"excluded_present,omitempty"`
	Dropped        int                    `json:"dropped"`
	Error          string                 `json:"error,omitempty"`
	ErrorMismatch  bool                   `json:"error_mismatch,omitempty"`
	Latency        time.Duration          `json:"latency_ns"`
}

// EvalSummary holds aggregate metrics across all golden scenarios.
type EvalSummary struct {
	K                 int                                     `json:"k"`
	TotalScenarios    int                                     `json:"total_scenarios"`
	Scored            int                                     `json:"scored"`
	AvgRecallAtK      float64                                 `json:"avg_recall_at_k"`
	AvgMRRAtK         float64                                 `json:"avg_mrr_at_k"`
	AvgOrderAgreement float64                                 `json:"avg_order_agreement"`
	AvgLatency        time.Duration                           `json:"avg_latency_ns"`
	ByKind            map[entities.CandidateKind]*KindSummary `json:"by_kind"`
	Results           []EvalResult                            `json:"results"`
}

// KindSummary holds metrics grouped by candidate kind.
type KindSummary struct {
	Count        int     `json:"count"`
	AvgRecallAtK float64 `json:"avg_recall_at_k"`
	AvgMRRAtK    float64 `json:"avg_mrr_at_k"`
}
