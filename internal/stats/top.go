package stats

import (
	"sort"

	"github.com/verte-zerg/keyidle/internal/model"
)

// TopChallengesByAttempts returns the ids of the n most attempted challenges.
func TopChallengesByAttempts(aggs []model.ChallengeAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.ChallengeAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ti := sorted[i].Completed + sorted[i].Failed
		tj := sorted[j].Completed + sorted[j].Failed
		if ti == tj {
			return sorted[i].ChallengeID < sorted[j].ChallengeID
		}
		return ti > tj
	})
	n = min(n, len(sorted))
	out := make([]string, 0, n)
	for _, agg := range sorted[:n] {
		out = append(out, agg.ChallengeID)
	}
	return out
}
