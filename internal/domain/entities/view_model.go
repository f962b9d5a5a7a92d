package entities

// ViewModel is one ranked result as handed to display components:
// the candidate's own fields plus its score and derived display strings.
type ViewModel struct {
	Candidate
	Score      float64  `json:"score"`
	ScoreLabel string   `json:"score_label"`
	Position   int      `json:"position"`
	Badges     []string `json:"badges"`
	Highlights []string `json:"highlights,omitempty"`
	TotalPrice *float64 `json:"total_price,omitempty"`
}

// CandidateWarning reports a candidate that was dropped from a batch
type CandidateWarning struct {
	CandidateID string `json:"candidate_id"`
	Message     string `json:"message"`
}
