package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidates closest to input, best first. Exact and
// prefix matches rank above edit-distance matches; distant candidates are
// dropped.
func Suggest(input string, candidates []string, limit int) []string {
	token := strings.ToLower(strings.TrimSpace(input))
	if token == "" || limit <= 0 {
		return nil
	}
	type scored struct {
		val   string
		score float64
	}
	results := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		lower := strings.ToLower(cand)
		var score float64
		switch {
		case token == lower:
			score = 1.0
		case strings.HasPrefix(lower, token) && len(token) >= 2:
			score = 0.9
		default:
			dist := levenshtein.ComputeDistance(token, lower)
			if dist > distanceLimit(len(lower)) {
				continue
			}
			score = 0.72 - 0.08*float64(dist)
		}
		results = append(results, scored{val: cand, score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.val)
	}
	return out
}

func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
