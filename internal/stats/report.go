package stats

import (
	"context"

	"github.com/verte-zerg/keyidle/internal/model"
	"github.com/verte-zerg/keyidle/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Results    []model.ChallengeResult
	Aggregates []model.ChallengeAggregate
	Top        []string
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	results, err := st.ListChallengeResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}

	window := cfg.CurveWindow
	if window <= 0 || window > len(results) {
		window = len(results)
	}
	aggs, err := st.ChallengeAggregates(ctx, cfg.Slot, window)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Results:    results,
		Aggregates: aggs,
		Top:        TopChallengesByAttempts(aggs, cfg.Top),
	}, nil
}
