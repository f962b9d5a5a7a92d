package evaluation

import "fmt"

// Guardrails are the minimum aggregate scores an evaluation run must reach
type Guardrails struct {
	MinRecall float64 `json:"min_recall"`
	MinMRR    float64 `json:"min_mrr"`
}

// DefaultGuardrails returns the thresholds used by cmd/evaluate
func DefaultGuardrails() Guardrails {
	return Guardrails{MinRecall: 0.8, MinMRR: 0.8}
}

// Violation is one failed guardrail
type Violation struct {
	ScenarioID string `json:"scenario_id,omitempty"`
	Metric     string `json:"metric"`
	Message    string `json:"message"`
}

func (v Violation) String() string {
	if v.ScenarioID == "" {
		return fmt.Sprintf("%s: %s", v.Metric, v.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", v.Metric, v.ScenarioID, v.Message)
}

// CheckGuardrails returns every guardrail the summary violates.
// Excluded ids in the output and unexpected errors always count, whatever the thresholds.
func CheckGuardrails(s *EvalSummary, g Guardrails) []Violation {
	var out []Violation

	for _, res := range s.Results {
		if len(res.Excluded) > 0 {
			out = append(out, Violation{
				ScenarioID: res.ScenarioID,
				Metric:     "must_exclude",
				Message:    fmt.Sprintf("excluded ids returned: %v", res.Excluded),
			})
		}
		if res.ErrorMismatch {
			msg := "expected an error, got none"
			if res.Error != "" {
				msg = "unexpected error: " + res.Error
			}
			out = append(out, Violation{ScenarioID: res.ScenarioID, Metric: "error", Message: msg})
		}
	}

	if s.Scored == 0 {
		return out
	}
	if s.AvgRecallAtK < g.MinRecall {
		out = append(out, Violation{
			Metric:  "recall",
			Message: fmt.Sprintf("average recall@%d %.3f below %.3f", s.K, s.AvgRecallAtK, g.MinRecall),
		})
	}
	if s.AvgMRRAtK < g.MinMRR {
		out = append(out, Violation{
			Metric:  "mrr",
			Message: fmt.Sprintf("average mrr@%d %.3f below %.3f", s.K, s.AvgMRRAtK, g.MinMRR),
		})
	}
	return out
}
