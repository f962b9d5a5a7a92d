package ranking

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/domain/entities"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

// Request is one ranking call: a raw batch plus the user's constraints and sort.
type Request struct {
	Kind        entities.CandidateKind  `json:"kind"`
	Candidates  []entities.RawCandidate `json:"candidates"`
	Constraints entities.ConstraintSet  `json:"constraints"`
	Sort        entities.SortSpec       `json:"sort"`
	Nights      int                     `json:"nights,omitempty"`
}

// Result is the ordered, filtered view of a batch
type Result struct {
	RunID           string                      `json:"run_id"`
	Items           []entities.ViewModel        `json:"items"`
	Warnings        []entities.CandidateWarning `json:"warnings"`
	PeerMedianPrice float64                     `json:"peer_median_price"`
	Received        int                         `json:"received"`
	Accepted        int                         `json:"accepted"`
	Matched         int                         `json:"matched"`
}

// Dropped returns the number of candidates rejected during normalization
func (r *Result) Dropped() int {
	return r.Received - r.Accepted
}

// Engine runs the normalize, score, filter, sort and present pipeline.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	scorer Scorer
	logger zerolog.Logger
}

// NewEngine creates a new ranking engine
func NewEngine(scorer Scorer, logger zerolog.Logger) *Engine {
	return &Engine{scorer: scorer, logger: logger}
}

// Scorer returns the scorer the engine ranks with
func (e *Engine) Scorer() Scorer {
	return e.scorer
}

// Run ranks one batch. Constraint errors fail the call before any candidate is
// looked at; invalid candidates are dropped and returned as warnings.
// Scores are computed against the median of every valid candidate, not only
// the ones that survive filtering.
func (e *Engine) Run(req Request) (*Result, error) {
	if err := ValidateConstraints(req.Kind, req.Constraints, req.Sort); err != nil {
		return nil, err
	}
	if req.Nights < 0 {
		return nil, apperrors.NewInvalidConstraintError("nights", "must be non-negative")
	}

	runID := uuid.NewString()
	norm := Normalize(req.Kind, req.Candidates)

	warnings := make([]entities.CandidateWarning, 0, len(norm.Dropped))
	for _, d := range norm.Dropped {
		e.logger.Warn().
			Str("run_id", runID).
			Str("kind", string(req.Kind)).
			Str("candidate_id", d.CandidateID).
			Str("reason", d.Message).
			Msg("dropping invalid candidate")
		warnings = append(warnings, entities.CandidateWarning{CandidateID: d.CandidateID, Message: d.Message})
	}

	scores := e.scorer.ScoreAll(norm.Candidates, norm.PeerMedianPrice)
	matched := Filter(norm.Candidates, req.Constraints)
	ordered := Sort(matched, req.Sort, scores)
	items := Present(ordered, scores, PresentOptions{
		PeerMedianPrice: norm.PeerMedianPrice,
		Nights:          req.Nights,
	})

	e.logger.Debug().
		Str("run_id", runID).
		Str("kind", string(req.Kind)).
		Int("received", len(req.Candidates)).
		Int("accepted", len(norm.Candidates)).
		Int("matched", len(matched)).
		Float64("peer_median_price", norm.PeerMedianPrice).
		Msg("ranking run complete")

	return &Result{
		RunID:           runID,
		Items:           items,
		Warnings:        warnings,
		PeerMedianPrice: norm.PeerMedianPrice,
		Received:        len(req.Candidates),
		Accepted:        len(norm.Candidates),
		Matched:         len(matched),
	}, nil
}
