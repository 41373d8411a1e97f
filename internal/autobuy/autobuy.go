// Package autobuy periodically purchases the best-value affordable producer.
package autobuy

import (
	"math"
	"time"

	"github.com/verte-zerg/keyidle/internal/catalog"
	"github.com/verte-zerg/keyidle/internal/economy"
)

// Config holds the automation interval curve and speed-upgrade costs.
type Config struct {
	BaseInterval  time.Duration
	Step          time.Duration
	MinInterval   time.Duration
	MaxLevel      int
	SpeedBaseCost float64
	SpeedGrowth   float64
}

// ConfigFromBalance extracts the auto-buy constants from a catalog balance.
func ConfigFromBalance(b catalog.Balance) Config {
	return Config{
		BaseInterval:  time.Duration(b.AutoBuyBaseIntervalMs) * time.Millisecond,
		Step:          time.Duration(b.AutoBuyStepMs) * time.Millisecond,
		MinInterval:   time.Duration(b.AutoBuyMinIntervalMs) * time.Millisecond,
		MaxLevel:      b.AutoBuyMaxLevel,
		SpeedBaseCost: b.AutoBuySpeedBaseCost,
		SpeedGrowth:   b.AutoBuySpeedGrowth,
	}
}

// State is the mutable automation state.
type State struct {
	Enabled      bool
	SpeedLevel   int
	LastPurchase time.Time
}

// Interval returns max(minInterval, baseInterval - level*step).
func (c Config) Interval(level int) time.Duration {
	iv := c.BaseInterval - time.Duration(level)*c.Step
	if iv < c.MinInterval {
		return c.MinInterval
	}
	return iv
}

// SpeedUpgradeCost returns floor(speedBaseCost * speedGrowth^level).
func (c Config) SpeedUpgradeCost(level int) float64 {
	return math.Floor(c.SpeedBaseCost * math.Pow(c.SpeedGrowth, float64(level)))
}

// CanUpgradeSpeed reports whether level is below the cap.
func (c Config) CanUpgradeSpeed(level int) bool {
	return level < c.MaxLevel
}

// SetEnabled switches automation. Enabling restarts the timer so the first
// purchase waits a full interval.
func SetEnabled(s *State, enabled bool, now time.Time) {
	if enabled && !s.Enabled {
		s.LastPurchase = now
	}
	s.Enabled = enabled
}

// Due reports whether a purchase cycle should run at now.
func (c Config) Due(s State, now time.Time) bool {
	return s.Enabled && now.Sub(s.LastPurchase) >= c.Interval(s.SpeedLevel)
}

// Until returns the time left before the next cycle, never negative.
func (c Config) Until(s State, now time.Time) time.Duration {
	left := c.Interval(s.SpeedLevel) - now.Sub(s.LastPurchase)
	if left < 0 {
		return 0
	}
	return left
}

// Select returns the index of the affordable eligible producer with the
// lowest current cost/productionRate ratio.
func Select(producers []economy.Producer, resources float64, eligible func(economy.Producer) bool) (int, bool) {
	best := -1
	bestRatio := 0.0
	for i, p := range producers {
		if p.IsManual() || p.ProductionRate <= 0 {
			continue
		}
		if eligible != nil && !eligible(p) {
			continue
		}
		if !economy.CanAfford(p, resources) {
			continue
		}
		ratio := economy.Cost(p) / p.ProductionRate
		if best < 0 || ratio < bestRatio {
			best = i
			bestRatio = ratio
		}
	}
	return best, best >= 0
}

// Run executes one automation cycle when due. Every attempted cycle restarts
// the timer, including cycles where nothing was affordable. It returns the
// remaining resources and the id of the purchased producer, if any.
func (c Config) Run(s *State, producers []economy.Producer, resources float64, now time.Time, eligible func(economy.Producer) bool) (float64, string) {
	if !c.Due(*s, now) {
		return resources, ""
	}
	s.LastPurchase = now
	idx, ok := Select(producers, resources, eligible)
	if !ok {
		return resources, ""
	}
	p, left, bought := economy.Purchase(producers[idx], resources)
	if !bought {
		return resources, ""
	}
	producers[idx] = p
	return left, p.ID
}
