// Package engine owns the canonical game state and ties the economy, typing,
// automation and progression rules together. The engine is not safe for
// concurrent use; drivers serialize calls.
package engine

import (
	"time"

	"github.com/verte-zerg/keyidle/internal/autobuy"
	"github.com/verte-zerg/keyidle/internal/catalog"
	"github.com/verte-zerg/keyidle/internal/economy"
	"github.com/verte-zerg/keyidle/internal/generator"
	"github.com/verte-zerg/keyidle/internal/progression"
	"github.com/verte-zerg/keyidle/internal/typing"
)

// ChallengeObserver receives every finished challenge.
type ChallengeObserver func(typing.Outcome)

// Options configures a new Engine. Zero values select the built-in catalog,
// the wall clock and a time-seeded picker.
type Options struct {
	Catalog        *catalog.Catalog
	Clock          Clock
	Picker         typing.Picker
	OnChallengeEnd ChallengeObserver
}

// Engine is the mutable game aggregate.
type Engine struct {
	cat         catalog.Catalog
	clock       Clock
	mech        *typing.Mechanic
	auto        autobuy.Config
	prog        progression.Config
	bestRefresh time.Duration
	cheatBonus  float64
	observer    ChallengeObserver

	resources  float64
	producers  []economy.Producer
	visible    map[string]struct{}
	upgrades   progression.State
	autoBuy    autobuy.State
	typing     typing.State
	best       economy.BestValueCache
	lastUpdate time.Time
}

// New builds an engine in its initial state.
func New(opts Options) *Engine {
	cat := catalog.Default()
	if opts.Catalog != nil {
		cat = *opts.Catalog
	}
	clock := opts.Clock
	if clock == nil {
		clock = RealClock{}
	}
	picker := opts.Picker
	if picker == nil {
		picker = generator.New()
	}
	refresh := time.Duration(cat.Balance.BestValueRefreshMs) * time.Millisecond
	if refresh <= 0 {
		refresh = economy.DefaultBestValueRefresh
	}

	e := &Engine{
		cat:         cat,
		clock:       clock,
		mech:        typing.NewMechanic(typing.ConfigFromBalance(cat.Balance), cat.Challenges, picker),
		auto:        autobuy.ConfigFromBalance(cat.Balance),
		prog:        progression.ConfigFromCatalog(cat),
		bestRefresh: refresh,
		cheatBonus:  cat.Balance.CheatBonus,
		observer:    opts.OnChallengeEnd,
	}
	e.init(clock.Now())
	return e
}

func (e *Engine) init(now time.Time) {
	e.resources = 0
	e.producers = economy.NewProducers(e.cat.Producers)
	e.visible = map[string]struct{}{}
	e.upgrades = progression.NewState()
	e.autoBuy = autobuy.State{}
	e.typing = typing.NewState()
	e.lastUpdate = now
	e.refreshBest(now, true)
}

// SetChallengeObserver replaces the challenge outcome hook.
func (e *Engine) SetChallengeObserver(fn ChallengeObserver) {
	e.observer = fn
}

// Catalog returns the static configuration the engine was built with.
func (e *Engine) Catalog() catalog.Catalog {
	return e.cat
}

// Now reads the engine clock.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Resources returns the current resource pool.
func (e *Engine) Resources() float64 {
	return e.resources
}

// Click adds the current click value to resources.
func (e *Engine) Click() {
	e.resources += e.prog.ClickValue(e.upgrades.ClickPowerLevel)
}

// Cheat adds a flat bonus outside the regular economy.
func (e *Engine) Cheat() {
	e.resources += e.cheatBonus
}

// TypeChar feeds one typed character to the typing mechanic. It reports
// false while typing is locked.
func (e *Engine) TypeChar(ch rune) bool {
	if !e.upgrades.Has(progression.UpgradeTyping) {
		return false
	}
	now := e.clock.Now()
	res := e.mech.HandleChar(&e.typing, ch, now, e.upgrades.Has(progression.UpgradeChallenges))
	e.resources += res.Reward
	e.notify(res.Outcomes...)
	return true
}

// TriggerChallenge starts a challenge on demand. It fails while challenges
// are locked or one is already active.
func (e *Engine) TriggerChallenge() bool {
	if !e.upgrades.Has(progression.UpgradeChallenges) {
		return false
	}
	return e.mech.Trigger(&e.typing, e.clock.Now())
}

// PurchaseProducer buys one unit of a visible automated producer.
func (e *Engine) PurchaseProducer(id string) bool {
	idx, ok := economy.Find(e.producers, id)
	if !ok || !economy.Visible(e.producers[idx], e.visible) {
		return false
	}
	p, left, bought := economy.Purchase(e.producers[idx], e.resources)
	if !bought {
		return false
	}
	e.producers[idx] = p
	e.resources = left
	e.refreshBest(e.clock.Now(), true)
	return true
}

// PurchaseUpgrade buys a one-time feature upgrade.
func (e *Engine) PurchaseUpgrade(id string) bool {
	left, ok := e.prog.PurchaseUpgrade(&e.upgrades, id, e.resources)
	if !ok {
		return false
	}
	e.resources = left
	return true
}

// PurchaseClickPowerUpgrade doubles the click value.
func (e *Engine) PurchaseClickPowerUpgrade() bool {
	left, ok := e.prog.PurchaseClickPower(&e.upgrades, e.resources)
	if !ok {
		return false
	}
	e.resources = left
	return true
}

// PurchaseAutoBuySpeedUpgrade shortens the auto-buy interval by one step.
func (e *Engine) PurchaseAutoBuySpeedUpgrade() bool {
	left, ok := e.prog.PurchaseAutoBuySpeed(e.auto, e.upgrades, &e.autoBuy, e.resources)
	if !ok {
		return false
	}
	e.resources = left
	return true
}

// ToggleAutoBuy flips automation. It fails until the automation upgrade is
// owned.
func (e *Engine) ToggleAutoBuy() bool {
	if !e.upgrades.Has(progression.UpgradeAutoBuy) {
		return false
	}
	autobuy.SetEnabled(&e.autoBuy, !e.autoBuy.Enabled, e.clock.Now())
	return true
}

// ToggleChallenges flips automatic challenge triggering. Manual triggering
// is unaffected.
func (e *Engine) ToggleChallenges() bool {
	if !e.upgrades.Has(progression.UpgradeChallenges) {
		return false
	}
	e.typing.ChallengesEnabled = !e.typing.ChallengesEnabled
	return true
}

// Update advances the simulation to now. A now earlier than the previous
// update is treated as no elapsed time.
func (e *Engine) Update(now time.Time) {
	delta := now.Sub(e.lastUpdate)
	if delta < 0 {
		delta = 0
		now = e.lastUpdate
	}
	e.lastUpdate = now

	added := economy.ApplyUnlocks(e.producers, e.resources, e.visible)

	if rate := economy.TotalProduction(e.producers); rate > 0 {
		e.resources += rate * delta.Seconds()
	}

	left, bought := e.auto.Run(&e.autoBuy, e.producers, e.resources, now, e.isVisible)
	e.resources = left

	if out, ok := e.mech.CheckTimeout(&e.typing, now); ok {
		e.notify(out)
	}

	e.refreshBest(now, bought != "" || len(added) > 0)
}

// Reset returns all mutable state to its initial values.
func (e *Engine) Reset() {
	e.init(e.clock.Now())
}

func (e *Engine) isVisible(p economy.Producer) bool {
	return economy.Visible(p, e.visible)
}

func (e *Engine) visibleProducers() []economy.Producer {
	out := make([]economy.Producer, 0, len(e.producers))
	for _, p := range e.producers {
		if e.isVisible(p) {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) refreshBest(now time.Time, force bool) {
	e.best = e.best.Resolve(e.visibleProducers(), now, e.bestRefresh, force)
}

func (e *Engine) notify(outcomes ...typing.Outcome) {
	if e.observer == nil {
		return
	}
	for _, out := range outcomes {
		e.observer(out)
	}
}
