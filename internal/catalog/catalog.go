// Package catalog provides the static game configuration: producers,
// one-time upgrades, typing challenges and balance constants.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Balance holds the numeric tuning of the economy and typing rewards.
type Balance struct {
	BaseClickPower     float64 `yaml:"base_click_power"`
	ClickPowerBaseCost float64 `yaml:"click_power_base_cost"`
	ClickPowerGrowth   float64 `yaml:"click_power_growth"`

	BaseCharValue             float64 `yaml:"base_char_value"`
	WordBonusMultiplier       float64 `yaml:"word_bonus_multiplier"`
	StreakStep                float64 `yaml:"streak_step"`
	MaxStreakMultiplier       float64 `yaml:"max_streak_multiplier"`
	ChallengeRewardMultiplier float64 `yaml:"challenge_reward_multiplier"`
	ChallengeStreakBonus      int     `yaml:"challenge_streak_bonus"`
	WordsPerChallenge         int     `yaml:"words_per_challenge"`

	BestValueRefreshMs int64 `yaml:"best_value_refresh_ms"`

	AutoBuyBaseIntervalMs int64   `yaml:"auto_buy_base_interval_ms"`
	AutoBuyStepMs         int64   `yaml:"auto_buy_step_ms"`
	AutoBuyMinIntervalMs  int64   `yaml:"auto_buy_min_interval_ms"`
	AutoBuyMaxLevel       int     `yaml:"auto_buy_max_level"`
	AutoBuySpeedBaseCost  float64 `yaml:"auto_buy_speed_base_cost"`
	AutoBuySpeedGrowth    float64 `yaml:"auto_buy_speed_growth"`

	CheatBonus float64 `yaml:"cheat_bonus"`
}

// ProducerDef is the static definition of one producer tier.
type ProducerDef struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	Manual          bool    `yaml:"manual"`
	BaseCost        float64 `yaml:"base_cost"`
	CostMultiplier  float64 `yaml:"cost_multiplier"`
	ProductionRate  float64 `yaml:"production_rate"`
	UnlockThreshold float64 `yaml:"unlock_threshold"`
}

// UpgradeDef is a one-time feature unlock.
type UpgradeDef struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Cost        float64 `yaml:"cost"`
}

// ChallengeDef is one entry of the typing challenge catalog.
type ChallengeDef struct {
	ID          string `yaml:"id"`
	Text        string `yaml:"text"`
	TimeLimitMs int64  `yaml:"time_limit_ms"`
	Description string `yaml:"description"`
}

// Catalog is the full static configuration of a game.
type Catalog struct {
	Balance    Balance        `yaml:"balance"`
	Producers  []ProducerDef  `yaml:"producers"`
	Upgrades   []UpgradeDef   `yaml:"upgrades"`
	Challenges []ChallengeDef `yaml:"challenges"`
}

// Default returns the built-in catalog.
func Default() Catalog {
	var c Catalog
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads a catalog override from path on top of the built-in catalog.
// Lists present in the file replace the defaults; balance keys override
// individually. An empty path or a missing file yields the defaults.
func Load(path string) (Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// Validate checks structural invariants the engine relies on.
func (c Catalog) Validate() error {
	seen := map[string]struct{}{}
	manual := 0
	for _, p := range c.Producers {
		if p.ID == "" {
			return fmt.Errorf("producer with empty id")
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("duplicate producer id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Manual {
			manual++
			continue
		}
		if p.BaseCost <= 0 {
			return fmt.Errorf("producer %q: base_cost must be > 0", p.ID)
		}
		if p.CostMultiplier <= 1 {
			return fmt.Errorf("producer %q: cost_multiplier must be > 1", p.ID)
		}
		if p.ProductionRate < 0 {
			return fmt.Errorf("producer %q: production_rate must be >= 0", p.ID)
		}
	}
	if manual > 1 {
		return fmt.Errorf("at most one manual producer is allowed, got %d", manual)
	}

	upgrades := map[string]struct{}{}
	for _, u := range c.Upgrades {
		if u.ID == "" {
			return fmt.Errorf("upgrade with empty id")
		}
		if _, ok := upgrades[u.ID]; ok {
			return fmt.Errorf("duplicate upgrade id %q", u.ID)
		}
		upgrades[u.ID] = struct{}{}
		if u.Cost < 0 {
			return fmt.Errorf("upgrade %q: cost must be >= 0", u.ID)
		}
	}

	for _, ch := range c.Challenges {
		if ch.Text == "" {
			return fmt.Errorf("challenge %q: text is empty", ch.ID)
		}
		if ch.TimeLimitMs <= 0 {
			return fmt.Errorf("challenge %q: time_limit_ms must be > 0", ch.ID)
		}
	}

	b := c.Balance
	if b.MaxStreakMultiplier < 1 {
		return fmt.Errorf("max_streak_multiplier must be >= 1")
	}
	if b.WordsPerChallenge <= 0 {
		return fmt.Errorf("words_per_challenge must be > 0")
	}
	if b.AutoBuyMinIntervalMs <= 0 || b.AutoBuyBaseIntervalMs < b.AutoBuyMinIntervalMs {
		return fmt.Errorf("auto-buy intervals must satisfy 0 < min <= base")
	}
	if b.AutoBuyMaxLevel < 0 {
		return fmt.Errorf("auto_buy_max_level must be >= 0")
	}
	return nil
}

// ProducerIDs lists producer ids in catalog order.
func (c Catalog) ProducerIDs() []string {
	ids := make([]string, 0, len(c.Producers))
	for _, p := range c.Producers {
		ids = append(ids, p.ID)
	}
	return ids
}

// UpgradeIDs lists one-time upgrade ids in catalog order.
func (c Catalog) UpgradeIDs() []string {
	ids := make([]string, 0, len(c.Upgrades))
	for _, u := range c.Upgrades {
		ids = append(ids, u.ID)
	}
	return ids
}
