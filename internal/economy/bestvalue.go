package economy

import "time"

// DefaultBestValueRefresh is the minimum time between recommendations.
const DefaultBestValueRefresh = 5 * time.Second

// BestValue returns the id of the automated producer with the lowest
// cost/productionRate ratio. Ties keep the first producer encountered.
func BestValue(producers []Producer) string {
	bestID := ""
	bestRatio := 0.0
	for _, p := range producers {
		if p.IsManual() || p.ProductionRate <= 0 {
			continue
		}
		ratio := Cost(p) / p.ProductionRate
		if bestID == "" || ratio < bestRatio {
			bestID = p.ID
			bestRatio = ratio
		}
	}
	return bestID
}

// BestValueCache throttles BestValue so the recommendation does not flicker
// as costs creep between ticks.
type BestValueCache struct {
	ID         string
	ComputedAt time.Time
	Valid      bool
}

// Resolve returns the cache, recomputed when it is empty, when force is set,
// or when at least refresh has elapsed since the last computation.
func (c BestValueCache) Resolve(producers []Producer, now time.Time, refresh time.Duration, force bool) BestValueCache {
	if c.Valid && !force && now.Sub(c.ComputedAt) < refresh {
		return c
	}
	return BestValueCache{
		ID:         BestValue(producers),
		ComputedAt: now,
		Valid:      true,
	}
}
