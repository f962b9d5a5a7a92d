package ranking

import (
	"math"

	"github.com/tripwise/backend/internal/domain/entities"
)

const (
	// DefaultPrior is the rating a candidate with no reviews is pulled towards.
	DefaultPrior = 3.9
	// DefaultConfidence is the review volume at which the observed rating and the prior weigh equally.
	DefaultConfidence = 150
	// DefaultFeatureDivisor is the amenity count that earns the full feature bonus.
	DefaultFeatureDivisor = 12

	maxScore = 10.0
)

// Scores maps candidate id to composite score
type Scores map[string]float64

// ScoreBreakdown exposes every term of a composite score
type ScoreBreakdown struct {
	Shrunk    float64 `json:"shrunk"`
	BayesOn10 float64 `json:"bayes_on_10"`
	Bonus     float64 `json:"bonus"`
	Penalty   float64 `json:"penalty"`
	Total     float64 `json:"total"`
}

// Scorer computes bounded desirability scores. The zero value is not useful;
// start from DefaultScorer.
type Scorer struct {
	Prior          float64
	Confidence     float64
	FeatureDivisor float64
}

// DefaultScorer returns the scorer with the standard constants
func DefaultScorer() Scorer {
	return Scorer{
		Prior:          DefaultPrior,
		Confidence:     DefaultConfidence,
		FeatureDivisor: DefaultFeatureDivisor,
	}
}

// Score returns the composite score of c in [0, 10]
func (s Scorer) Score(c *entities.Candidate, peerMedianPrice float64) float64 {
	return s.Breakdown(c, peerMedianPrice).Total
}

// Breakdown returns the composite score of c together with its terms
func (s Scorer) Breakdown(c *entities.Candidate, peerMedianPrice float64) ScoreBreakdown {
	var b ScoreBreakdown

	b.Shrunk = s.shrink(c)
	b.BayesOn10 = clamp(b.Shrunk/5*maxScore, 0, maxScore)

	if c.Kind == entities.CandidateKindLodging && s.FeatureDivisor > 0 {
		b.Bonus = clamp(float64(c.FeatureCount)/s.FeatureDivisor, 0, 1)
	}

	if peerMedianPrice > 0 {
		b.Penalty = clamp((c.Price-peerMedianPrice)/peerMedianPrice, -1, 1)
	}

	b.Total = clamp(b.BayesOn10+b.Bonus-b.Penalty, 0, maxScore)
	return b
}

// shrink pulls the observed rating towards the prior in proportion to how few reviews back it.
func (s Scorer) shrink(c *entities.Candidate) float64 {
	v := 0.0
	if c.ReviewCount != nil && *c.ReviewCount > 0 {
		v = float64(*c.ReviewCount)
	}
	r := 0.0
	if c.Rating != nil {
		r = *c.Rating
	}
	m := s.Confidence
	if v+m <= 0 {
		return s.Prior
	}
	return (v/(v+m))*r + (m/(v+m))*s.Prior
}

// ScoreAll scores every candidate against the same peer median
func (s Scorer) ScoreAll(cands []entities.Candidate, peerMedianPrice float64) Scores {
	scores := make(Scores, len(cands))
	for i := range cands {
		scores[cands[i].ID] = s.Score(&cands[i], peerMedianPrice)
	}
	return scores
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
