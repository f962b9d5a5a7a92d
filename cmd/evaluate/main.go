package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/tripwise/backend/internal/evaluation"
	"github.com/tripwise/backend/internal/infrastructure/observability"
	"github.com/tripwise/backend/internal/ranking"
	"github.com/tripwise/backend/pkg/config"
)

func main() {
	var goldenPath string
	var k int
	var guard evaluation.Guardrails
	defaults := evaluation.DefaultGuardrails()
	flag.StringVar(&goldenPath, "golden", "config/golden_scenarios.json", "golden scenario file")
	flag.IntVar(&k, "k", evaluation.DefaultK, "cut-off for recall and MRR")
	flag.Float64Var(&guard.MinRecall, "min-recall", defaults.MinRecall, "minimum average recall@k")
	flag.Float64Var(&guard.MinMRR, "min-mrr", defaults.MinMRR, "minimum average MRR@k")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.App.Environment)
	logger := *observability.GetLogger()

	scenarios, err := evaluation.LoadGoldenScenarios(goldenPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load golden scenarios")
	}
	if err := evaluation.ValidateGoldenScenarios(scenarios); err != nil {
		logger.Fatal().Err(err).Msg("invalid golden scenarios")
	}

	scorer := ranking.Scorer{
		Prior:          cfg.Ranking.Prior,
		Confidence:     cfg.Ranking.Confidence,
		FeatureDivisor: cfg.Ranking.FeatureDivisor,
	}
	runner := evaluation.NewRunner(ranking.NewEngine(scorer, logger), k, logger)

	summary, err := runner.Run(context.Background(), scenarios)
	if err != nil {
		logger.Fatal().Err(err).Msg("evaluation failed")
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	violations := evaluation.CheckGuardrails(summary, guard)
	for _, v := range violations {
		logger.Error().Str("metric", v.Metric).Str("scenario", v.ScenarioID).Msg(v.Message)
	}
	if len(violations) > 0 {
		os.Exit(1)
	}
}
