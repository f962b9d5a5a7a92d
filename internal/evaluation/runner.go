package evaluation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/ranking"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

const DefaultK = 10

// Ranker ranks one batch; *ranking.Engine satisfies it.
type Ranker interface {
	Run(req ranking.Request) (*ranking.Result, error)
}

// Runner runs evaluation across a set of golden scenarios.
type Runner struct {
	ranker Ranker
	k      int
	logger zerolog.Logger
}

// NewRunner creates a runner scoring the top k results. k <= 0 uses DefaultK.
func NewRunner(ranker Ranker, k int, logger zerolog.Logger) *Runner {
	if k <= 0 {
		k = DefaultK
	}
	return &Runner{ranker: ranker, k: k, logger: logger}
}

// Run evaluates every scenario. It stops early only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, scenarios []GoldenScenario) (*EvalSummary, error) {
	summary := &EvalSummary{
		K:              r.k,
		TotalScenarios: len(scenarios),
		ByKind:         make(map[entities.CandidateKind]*KindSummary),
		Results:        make([]EvalResult, 0, len(scenarios)),
	}

	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := r.evaluate(sc)
		summary.Results = append(summary.Results, res)
		if res.Error == "" {
			r.updateSummary(summary, res)
		}
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) evaluate(sc GoldenScenario) EvalResult {
	res := EvalResult{ScenarioID: sc.ID, Kind: sc.Kind}

	start := time.Now()
	out, err := r.ranker.Run(sc.Request)
	res.Latency = time.Since(start)

	if err != nil {
		res.Error = err.Error()
		res.ErrorMismatch = sc.ExpectedError == "" || string(apperrors.TypeOf(err)) != sc.ExpectedError
		r.logger.Debug().Err(err).Str("scenario", sc.ID).Msg("scenario returned error")
		return res
	}
	if sc.ExpectedError != "" {
		res.ErrorMismatch = true
	}

	res.Returned = make([]string, len(out.Items))
	for i, item := range out.Items {
		res.Returned[i] = item.ID
	}
	res.Dropped = out.Dropped()
	res.RecallAtK = RecallAtK(sc.ExpectedTop, res.Returned, r.k)
	res.MRRAtK = MRRAtK(sc.ExpectedTop, res.Returned, r.k)
	res.OrderAgreement = OrderAgreement(sc.ExpectedTop, res.Returned)
	res.Excluded = Present(sc.MustExclude, res.Returned)
	return res
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.Scored++
	s.AvgRecallAtK += res.RecallAtK
	s.AvgMRRAtK += res.MRRAtK
	s.AvgOrderAgreement += res.OrderAgreement
	s.AvgLatency += res.Latency

	ks, ok := s.ByKind[res.Kind]
	if !ok {
		ks = &KindSummary{}
		s.ByKind[res.Kind] = ks
	}
	ks.Count++
	ks.AvgRecallAtK += res.RecallAtK
	ks.AvgMRRAtK += res.MRRAtK
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.Scored > 0 {
		n := float64(s.Scored)
		s.AvgRecallAtK /= n
		s.AvgMRRAtK /= n
		s.AvgOrderAgreement /= n
		s.AvgLatency /= time.Duration(s.Scored)
	}

	for _, ks := range s.ByKind {
		if ks.Count > 0 {
			n := float64(ks.Count)
			ks.AvgRecallAtK /= n
			ks.AvgMRRAtK /= n
		}
	}
}
