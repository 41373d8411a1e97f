package engine

import (
	"github.com/verte-zerg/keyidle/internal/economy"
	"github.com/verte-zerg/keyidle/internal/progression"
)

// View is the read-only projection rendered by front ends.
type View struct {
	Resources      float64        `json:"resources"`
	ProductionRate float64        `json:"productionRate"`
	Producers      []ProducerView `json:"producers"`
	BestValueID    string         `json:"bestValueId"`
	AutoBuy        AutoBuyView    `json:"autoBuy"`
	Upgrades       []UpgradeView  `json:"upgrades"`
	Typing         TypingView     `json:"typing"`
	ClickPower     ClickPowerView `json:"clickPower"`
}

// ProducerView is a producer with its derived cost and flags.
type ProducerView struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Manual         bool    `json:"manual"`
	Quantity       int     `json:"quantity"`
	TotalSpent     float64 `json:"totalSpent"`
	ProductionRate float64 `json:"productionRate"`
	Cost           float64 `json:"cost"`
	Affordable     bool    `json:"affordable"`
	Visible        bool    `json:"visible"`
}

type AutoBuyView struct {
	Unlocked         bool    `json:"unlocked"`
	Enabled          bool    `json:"enabled"`
	SpeedLevel       int     `json:"speedLevel"`
	MaxLevel         int     `json:"maxLevel"`
	IntervalMs       int64   `json:"intervalMs"`
	NextUpgradeCost  float64 `json:"nextUpgradeCost"`
	CanUpgrade       bool    `json:"canUpgrade"`
	MaxedOut         bool    `json:"maxedOut"`
	SecondsUntilNext float64 `json:"secondsUntilNext"`
}

type UpgradeView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Purchased   bool    `json:"purchased"`
	Affordable  bool    `json:"affordable"`
}

type TypingView struct {
	Unlocked            bool           `json:"unlocked"`
	WordsTyped          int            `json:"wordsTyped"`
	Streak              int            `json:"streak"`
	Multiplier          float64        `json:"multiplier"`
	WordsUntilChallenge int            `json:"wordsUntilChallenge"`
	ChallengesUnlocked  bool           `json:"challengesUnlocked"`
	ChallengesEnabled   bool           `json:"challengesEnabled"`
	Completed           int            `json:"completed"`
	Failed              int            `json:"failed"`
	Challenge           *ChallengeView `json:"challenge,omitempty"`
}

// ChallengeView projects the active challenge. Remaining counts down from
// the trigger while awaiting start and from the start once started.
type ChallengeView struct {
	ID               string  `json:"id"`
	Description      string  `json:"description"`
	Text             string  `json:"text"`
	Progress         int     `json:"progress"`
	Started          bool    `json:"started"`
	TimeLimitMs      int64   `json:"timeLimitMs"`
	RemainingSeconds float64 `json:"remainingSeconds"`
}

type ClickPowerView struct {
	Level      int     `json:"level"`
	Value      float64 `json:"value"`
	NextCost   float64 `json:"nextCost"`
	Affordable bool    `json:"affordable"`
}

// State returns the current view. Time-dependent fields are computed at the
// engine clock's now.
func (e *Engine) State() View {
	now := e.clock.Now()
	v := View{
		Resources:      e.resources,
		ProductionRate: economy.TotalProduction(e.producers),
		BestValueID:    e.best.ID,
	}

	v.Producers = make([]ProducerView, 0, len(e.producers))
	for _, p := range e.producers {
		v.Producers = append(v.Producers, ProducerView{
			ID:             p.ID,
			Name:           p.Name,
			Description:    p.Description,
			Manual:         p.IsManual(),
			Quantity:       p.Quantity,
			TotalSpent:     p.TotalSpent,
			ProductionRate: p.ProductionRate,
			Cost:           economy.Cost(p),
			Affordable:     economy.CanAfford(p, e.resources),
			Visible:        e.isVisible(p),
		})
	}

	unlocked := e.upgrades.Has(progression.UpgradeAutoBuy)
	speedCost := e.auto.SpeedUpgradeCost(e.autoBuy.SpeedLevel)
	maxed := !e.auto.CanUpgradeSpeed(e.autoBuy.SpeedLevel)
	v.AutoBuy = AutoBuyView{
		Unlocked:        unlocked,
		Enabled:         e.autoBuy.Enabled,
		SpeedLevel:      e.autoBuy.SpeedLevel,
		MaxLevel:        e.auto.MaxLevel,
		IntervalMs:      e.auto.Interval(e.autoBuy.SpeedLevel).Milliseconds(),
		NextUpgradeCost: speedCost,
		CanUpgrade:      unlocked && !maxed && e.resources >= speedCost,
		MaxedOut:        maxed,
	}
	if e.autoBuy.Enabled {
		v.AutoBuy.SecondsUntilNext = e.auto.Until(e.autoBuy, now).Seconds()
	}

	v.Upgrades = make([]UpgradeView, 0, len(e.cat.Upgrades))
	for _, u := range e.cat.Upgrades {
		owned := e.upgrades.Has(u.ID)
		v.Upgrades = append(v.Upgrades, UpgradeView{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Cost:        u.Cost,
			Purchased:   owned,
			Affordable:  !owned && e.resources >= u.Cost,
		})
	}

	t := e.typing
	v.Typing = TypingView{
		Unlocked:            e.upgrades.Has(progression.UpgradeTyping),
		WordsTyped:          t.WordsTyped,
		Streak:              t.Streak,
		Multiplier:          e.mech.Multiplier(t.Streak),
		WordsUntilChallenge: e.mech.WordsUntilChallenge(&t),
		ChallengesUnlocked:  e.upgrades.Has(progression.UpgradeChallenges),
		ChallengesEnabled:   t.ChallengesEnabled,
		Completed:           t.Completed,
		Failed:              t.Failed,
	}
	if c := t.Active; c != nil {
		v.Typing.Challenge = &ChallengeView{
			ID:               c.DefinitionID,
			Description:      c.Description,
			Text:             string(c.Text),
			Progress:         c.Progress,
			Started:          c.Started,
			TimeLimitMs:      c.TimeLimit.Milliseconds(),
			RemainingSeconds: c.Remaining(now).Seconds(),
		}
	}

	level := e.upgrades.ClickPowerLevel
	next := e.prog.ClickPowerCost(level)
	v.ClickPower = ClickPowerView{
		Level:      level,
		Value:      e.prog.ClickValue(level),
		NextCost:   next,
		Affordable: e.resources >= next,
	}
	return v
}
