package stats

import (
	"github.com/verte-zerg/keyidle/internal/catalog"
	"github.com/verte-zerg/keyidle/internal/model"
)

// FailureWeights returns one weight per challenge in catalog order: the
// failure rate from aggs, or zero for challenges never attempted.
func FailureWeights(defs []catalog.ChallengeDef, aggs []model.ChallengeAggregate) []float64 {
	byID := make(map[string]model.ChallengeAggregate, len(aggs))
	for _, agg := range aggs {
		byID[agg.ChallengeID] = agg
	}
	weights := make([]float64, len(defs))
	for i, def := range defs {
		agg, ok := byID[def.ID]
		if !ok || agg.Completed+agg.Failed == 0 {
			continue
		}
		weights[i] = 1 - SuccessRate(agg.Completed, agg.Failed)
	}
	return weights
}
