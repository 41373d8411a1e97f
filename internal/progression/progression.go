// Package progression handles one-time feature unlocks and the repeatable
// click-power and auto-buy speed upgrades.
package progression

import (
	"math"

	"github.com/verte-zerg/keyidle/internal/autobuy"
	"github.com/verte-zerg/keyidle/internal/catalog"
)

// Feature upgrade ids referenced by the engine.
const (
	UpgradeTyping     = "typing"
	UpgradeChallenges = "challenges"
	UpgradeAutoBuy    = "autobuy"
)

// Config holds upgrade definitions and click-power constants.
type Config struct {
	Upgrades           []catalog.UpgradeDef
	BaseClickPower     float64
	ClickPowerBaseCost float64
	ClickPowerGrowth   float64
}

// ConfigFromCatalog extracts progression settings from a catalog.
func ConfigFromCatalog(c catalog.Catalog) Config {
	return Config{
		Upgrades:           c.Upgrades,
		BaseClickPower:     c.Balance.BaseClickPower,
		ClickPowerBaseCost: c.Balance.ClickPowerBaseCost,
		ClickPowerGrowth:   c.Balance.ClickPowerGrowth,
	}
}

// State tracks purchased one-time upgrades and the click-power level.
type State struct {
	Purchased       map[string]struct{}
	ClickPowerLevel int
}

// NewState returns an empty progression state.
func NewState() State {
	return State{Purchased: map[string]struct{}{}}
}

// Has reports whether the one-time upgrade id was purchased.
func (s State) Has(id string) bool {
	_, ok := s.Purchased[id]
	return ok
}

// Upgrade returns the definition of a one-time upgrade.
func (c Config) Upgrade(id string) (catalog.UpgradeDef, bool) {
	for _, u := range c.Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return catalog.UpgradeDef{}, false
}

// PurchaseUpgrade buys a one-time upgrade. It fails for unknown ids, when
// already owned, or when unaffordable.
func (c Config) PurchaseUpgrade(s *State, id string, resources float64) (float64, bool) {
	u, ok := c.Upgrade(id)
	if !ok || s.Has(id) || resources < u.Cost {
		return resources, false
	}
	if s.Purchased == nil {
		s.Purchased = map[string]struct{}{}
	}
	s.Purchased[id] = struct{}{}
	return resources - u.Cost, true
}

// ClickValue returns baseClickPower * 2^level.
func (c Config) ClickValue(level int) float64 {
	return c.BaseClickPower * math.Pow(2, float64(level))
}

// ClickPowerCost returns floor(clickPowerBaseCost * clickPowerGrowth^level).
func (c Config) ClickPowerCost(level int) float64 {
	return math.Floor(c.ClickPowerBaseCost * math.Pow(c.ClickPowerGrowth, float64(level)))
}

// PurchaseClickPower raises the click-power level by one.
func (c Config) PurchaseClickPower(s *State, resources float64) (float64, bool) {
	cost := c.ClickPowerCost(s.ClickPowerLevel)
	if resources < cost {
		return resources, false
	}
	s.ClickPowerLevel++
	return resources - cost, true
}

// PurchaseAutoBuySpeed raises the auto-buy speed level. It requires the
// automation upgrade and fails at the level cap.
func (c Config) PurchaseAutoBuySpeed(ac autobuy.Config, s State, ab *autobuy.State, resources float64) (float64, bool) {
	if !s.Has(UpgradeAutoBuy) || !ac.CanUpgradeSpeed(ab.SpeedLevel) {
		return resources, false
	}
	cost := ac.SpeedUpgradeCost(ab.SpeedLevel)
	if resources < cost {
		return resources, false
	}
	ab.SpeedLevel++
	return resources - cost, true
}
