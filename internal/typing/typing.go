// Package typing turns a stream of typed characters into resource rewards:
// per-character rewards with repeat damping, word bonuses scaled by a streak
// multiplier, and timed challenges.
package typing

import (
	"math"
	"time"

	"github.com/verte-zerg/keyidle/internal/catalog"
)

// RepeatDampAfter is the number of consecutive identical characters that
// still earn a character reward.
const RepeatDampAfter = 2

// Config holds the reward constants of the typing mechanic.
type Config struct {
	BaseCharValue             float64
	WordBonusMultiplier       float64
	StreakStep                float64
	MaxStreakMultiplier       float64
	ChallengeRewardMultiplier float64
	ChallengeStreakBonus      int
	WordsPerChallenge         int
}

// ConfigFromBalance extracts the typing constants from a catalog balance.
func ConfigFromBalance(b catalog.Balance) Config {
	return Config{
		BaseCharValue:             b.BaseCharValue,
		WordBonusMultiplier:       b.WordBonusMultiplier,
		StreakStep:                b.StreakStep,
		MaxStreakMultiplier:       b.MaxStreakMultiplier,
		ChallengeRewardMultiplier: b.ChallengeRewardMultiplier,
		ChallengeStreakBonus:      b.ChallengeStreakBonus,
		WordsPerChallenge:         b.WordsPerChallenge,
	}
}

// State is the mutable typing state owned by the engine.
type State struct {
	LastChar    rune
	RepeatCount int
	WordLength  int

	WordsTyped          int
	Streak              int
	WordsSinceChallenge int

	Active            *Challenge
	ChallengesEnabled bool
	Completed         int
	Failed            int
}

// NewState returns the initial typing state. Challenges auto-trigger by default.
func NewState() State {
	return State{ChallengesEnabled: true}
}

// Result reports what a single call produced.
type Result struct {
	Reward        float64
	WordCompleted bool
	Triggered     bool
	Outcomes      []Outcome
}

// Picker chooses an index in [0, n).
type Picker interface {
	Intn(n int) int
}

// Mechanic applies the typing rules to a State.
type Mechanic struct {
	cfg        Config
	challenges []catalog.ChallengeDef
	picker     Picker
}

// NewMechanic builds a Mechanic over a challenge catalog.
func NewMechanic(cfg Config, challenges []catalog.ChallengeDef, picker Picker) *Mechanic {
	return &Mechanic{cfg: cfg, challenges: challenges, picker: picker}
}

// IsBoundary reports whether ch ends a word.
func IsBoundary(ch rune) bool {
	switch ch {
	case ' ', '\n', '\r', '\t',
		'.', ',', '!', '?', ';', ':', '"', '\'', '(', ')', '[', ']', '{', '}', '-':
		return true
	}
	return false
}

// Multiplier returns min(maxStreakMultiplier, 1 + streak*streakStep).
func (m *Mechanic) Multiplier(streak int) float64 {
	mult := 1 + float64(streak)*m.cfg.StreakStep
	if mult > m.cfg.MaxStreakMultiplier {
		mult = m.cfg.MaxStreakMultiplier
	}
	if mult < 1 {
		mult = 1
	}
	return mult
}

// streakCap is the smallest streak that reaches the multiplier cap.
func (m *Mechanic) streakCap() int {
	if m.cfg.StreakStep <= 0 {
		return math.MaxInt32
	}
	return int(math.Ceil((m.cfg.MaxStreakMultiplier-1)/m.cfg.StreakStep - 1e-9))
}

// WordsUntilChallenge returns how many more words trigger a challenge.
func (m *Mechanic) WordsUntilChallenge(s *State) int {
	left := m.cfg.WordsPerChallenge - s.WordsSinceChallenge
	if left < 0 {
		return 0
	}
	return left
}

// HandleChar processes one typed character at time now. challengesUnlocked
// gates the automatic challenge trigger in addition to s.ChallengesEnabled.
func (m *Mechanic) HandleChar(s *State, ch rune, now time.Time, challengesUnlocked bool) Result {
	var res Result

	if out, ok := m.CheckTimeout(s, now); ok {
		res.Outcomes = append(res.Outcomes, out)
	}
	inChallenge := s.Active != nil
	if inChallenge {
		m.advanceChallenge(s, ch, now, &res)
	}

	if ch == s.LastChar && s.RepeatCount > 0 {
		s.RepeatCount++
	} else {
		s.LastChar = ch
		s.RepeatCount = 1
	}
	damped := s.RepeatCount > RepeatDampAfter

	if IsBoundary(ch) {
		if s.WordLength > 0 {
			res.Reward += m.completeWord(s, !inChallenge)
			res.WordCompleted = true
		}
		if res.WordCompleted && challengesUnlocked && m.shouldAutoTrigger(s) {
			res.Triggered = m.Trigger(s, now)
		}
		return res
	}

	if !damped {
		res.Reward += m.cfg.BaseCharValue * m.Multiplier(s.Streak)
	}
	s.WordLength++
	return res
}

// completeWord closes the current word. Words typed inside a challenge do
// not count toward the next automatic trigger.
func (m *Mechanic) completeWord(s *State, countsToward bool) float64 {
	reward := float64(s.WordLength) * m.cfg.BaseCharValue * m.cfg.WordBonusMultiplier * m.Multiplier(s.Streak)
	s.WordLength = 0
	s.WordsTyped++
	s.Streak++
	if countsToward {
		s.WordsSinceChallenge++
	}
	return reward
}

func (m *Mechanic) shouldAutoTrigger(s *State) bool {
	return s.ChallengesEnabled &&
		s.Active == nil &&
		s.WordsTyped > 0 &&
		s.WordsSinceChallenge >= m.cfg.WordsPerChallenge
}
