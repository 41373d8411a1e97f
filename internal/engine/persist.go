package engine

import (
	"time"

	"github.com/verte-zerg/keyidle/internal/economy"
	"github.com/verte-zerg/keyidle/internal/save"
)

// Save captures the persisted subset of the state.
func (e *Engine) Save() save.Snapshot {
	resources := e.resources
	last := e.lastUpdate.UnixMilli()
	enabled := e.autoBuy.Enabled
	speed := e.autoBuy.SpeedLevel
	click := e.upgrades.ClickPowerLevel
	challenges := e.typing.ChallengesEnabled

	s := save.Snapshot{
		Version:           save.Version,
		Resources:         &resources,
		Producers:         make([]save.ProducerState, 0, len(e.producers)),
		LastUpdate:        &last,
		AutoBuyEnabled:    &enabled,
		AutoBuySpeedLevel: &speed,
		UnlockedProducers: make([]string, 0, len(e.visible)),
		PurchasedUpgrades: make([]string, 0, len(e.upgrades.Purchased)),
		ClickPowerLevel:   &click,
		ChallengesEnabled: &challenges,
	}
	for _, p := range e.producers {
		if p.IsManual() {
			continue
		}
		s.Producers = append(s.Producers, save.ProducerState{ID: p.ID, Quantity: p.Quantity, TotalSpent: p.TotalSpent})
	}
	for _, p := range e.producers {
		if _, ok := e.visible[p.ID]; ok {
			s.UnlockedProducers = append(s.UnlockedProducers, p.ID)
		}
	}
	for _, u := range e.cat.Upgrades {
		if e.upgrades.Has(u.ID) {
			s.PurchasedUpgrades = append(s.PurchasedUpgrades, u.ID)
		}
	}
	return s
}

// Load applies a decoded snapshot. Absent fields keep their current values;
// unknown producer and upgrade ids are ignored. A restored lastUpdate makes
// the next Update credit production for the time the game was closed. An
// enabled auto-buyer restarts its timer at load time.
func (e *Engine) Load(s save.Snapshot) {
	now := e.clock.Now()

	if s.Resources != nil {
		e.resources = *s.Resources
	}
	for _, ps := range s.Producers {
		idx, ok := economy.Find(e.producers, ps.ID)
		if !ok || e.producers[idx].IsManual() {
			continue
		}
		e.producers[idx].Quantity = ps.Quantity
		e.producers[idx].TotalSpent = ps.TotalSpent
	}
	if s.LastUpdate != nil {
		last := time.UnixMilli(*s.LastUpdate)
		if last.After(now) {
			last = now
		}
		e.lastUpdate = last
	}
	if s.AutoBuySpeedLevel != nil {
		level := *s.AutoBuySpeedLevel
		if level > e.auto.MaxLevel {
			level = e.auto.MaxLevel
		}
		e.autoBuy.SpeedLevel = level
	}
	if s.AutoBuyEnabled != nil {
		e.autoBuy.Enabled = *s.AutoBuyEnabled
		if e.autoBuy.Enabled {
			e.autoBuy.LastPurchase = now
		}
	}
	if s.UnlockedProducers != nil {
		visible := map[string]struct{}{}
		for _, id := range s.UnlockedProducers {
			if _, ok := economy.Find(e.producers, id); ok {
				visible[id] = struct{}{}
			}
		}
		e.visible = visible
	}
	if s.PurchasedUpgrades != nil {
		purchased := map[string]struct{}{}
		for _, id := range s.PurchasedUpgrades {
			if _, ok := e.prog.Upgrade(id); ok {
				purchased[id] = struct{}{}
			}
		}
		e.upgrades.Purchased = purchased
	}
	if s.ClickPowerLevel != nil {
		e.upgrades.ClickPowerLevel = *s.ClickPowerLevel
	}
	if s.ChallengesEnabled != nil {
		e.typing.ChallengesEnabled = *s.ChallengesEnabled
	}
	e.refreshBest(now, true)
}
