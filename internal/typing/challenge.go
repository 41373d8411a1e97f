package typing

import (
	"time"
)

// Failure reasons reported in Outcome.Reason.
const (
	ReasonCompleted = "completed"
	ReasonTimeout   = "timeout"
	ReasonMistype   = "mistype"
	ReasonNewline   = "newline"
)

// Challenge is the active timed challenge. The timer counts from the trigger
// while awaiting start and restarts when the player enters a blank line.
type Challenge struct {
	DefinitionID string
	Description  string
	Text         []rune
	TimeLimit    time.Duration
	TriggeredAt  time.Time
	StartedAt    time.Time
	Progress     int
	Started      bool
}

// Deadline returns the instant the challenge times out.
func (c *Challenge) Deadline() time.Time {
	return c.StartedAt.Add(c.TimeLimit)
}

// Remaining returns the time left before the deadline, never negative.
func (c *Challenge) Remaining(now time.Time) time.Duration {
	left := c.Deadline().Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Outcome describes how a challenge ended.
type Outcome struct {
	DefinitionID string
	TextLength   int
	Progress     int
	TriggeredAt  time.Time
	StartedAt    time.Time
	EndedAt      time.Time
	Completed    bool
	Reason       string
	Reward       float64
}

// Trigger starts a random challenge from the catalog. It fails when a
// challenge is already active or the catalog is empty.
func (m *Mechanic) Trigger(s *State, now time.Time) bool {
	if s.Active != nil || len(m.challenges) == 0 {
		return false
	}
	idx := 0
	if m.picker != nil && len(m.challenges) > 1 {
		idx = m.picker.Intn(len(m.challenges))
	}
	def := m.challenges[idx]
	s.Active = &Challenge{
		DefinitionID: def.ID,
		Description:  def.Description,
		Text:         []rune(def.Text),
		TimeLimit:    time.Duration(def.TimeLimitMs) * time.Millisecond,
		TriggeredAt:  now,
		StartedAt:    now,
	}
	s.WordsSinceChallenge = 0
	return true
}

// CheckTimeout fails the active challenge when its time limit has elapsed.
func (m *Mechanic) CheckTimeout(s *State, now time.Time) (Outcome, bool) {
	if s.Active == nil {
		return Outcome{}, false
	}
	if now.Sub(s.Active.StartedAt) <= s.Active.TimeLimit {
		return Outcome{}, false
	}
	return m.fail(s, now, ReasonTimeout), true
}

func (m *Mechanic) advanceChallenge(s *State, ch rune, now time.Time, res *Result) {
	c := s.Active
	if !c.Started {
		if ch == '\n' {
			c.Started = true
			c.StartedAt = now
		}
		return
	}
	if ch == '\n' {
		res.Outcomes = append(res.Outcomes, m.fail(s, now, ReasonNewline))
		return
	}
	if c.Progress < len(c.Text) && ch == c.Text[c.Progress] {
		c.Progress++
		if c.Progress == len(c.Text) {
			out := m.complete(s, now)
			res.Reward += out.Reward
			res.Outcomes = append(res.Outcomes, out)
		}
		return
	}
	res.Outcomes = append(res.Outcomes, m.fail(s, now, ReasonMistype))
}

func (m *Mechanic) complete(s *State, now time.Time) Outcome {
	c := s.Active
	reward := float64(len(c.Text)) * m.cfg.BaseCharValue * m.cfg.ChallengeRewardMultiplier * m.Multiplier(s.Streak)
	s.Completed++
	if limit := m.streakCap(); s.Streak < limit {
		s.Streak += m.cfg.ChallengeStreakBonus
		if s.Streak > limit {
			s.Streak = limit
		}
	}
	s.Active = nil
	return outcomeOf(c, now, true, ReasonCompleted, reward)
}

func (m *Mechanic) fail(s *State, now time.Time, reason string) Outcome {
	c := s.Active
	s.Failed++
	s.Streak = 0
	s.Active = nil
	return outcomeOf(c, now, false, reason, 0)
}

func outcomeOf(c *Challenge, now time.Time, completed bool, reason string, reward float64) Outcome {
	return Outcome{
		DefinitionID: c.DefinitionID,
		TextLength:   len(c.Text),
		Progress:     c.Progress,
		TriggeredAt:  c.TriggeredAt,
		StartedAt:    c.StartedAt,
		EndedAt:      now,
		Completed:    completed,
		Reason:       reason,
		Reward:       reward,
	}
}
