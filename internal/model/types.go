// Package model defines shared data structures.
package model

import "time"

// GameConfig defines driver settings for a play or serve session.
type GameConfig struct {
	Slot           string
	TickRate       int
	SaveInterval   time.Duration
	CatalogPath    string
	ChallengesPath string
	Seed           int64
	FocusHard      bool
	FocusFactor    float64
	FocusWindow    int
}

// ServerConfig defines the websocket driver settings.
type ServerConfig struct {
	Addr             string
	ActionsPerSecond float64
	Burst            int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Slot        string
	Since       *time.Time
	Last        int
	CurveWindow int
	Top         int
}

// SaveSlot describes one stored save.
type SaveSlot struct {
	Name      string
	Version   int
	Size      int
	UpdatedAt time.Time
}

// ChallengeResult captures one finished typing challenge.
type ChallengeResult struct {
	ID          int64
	RunID       string
	Slot        string
	ChallengeID string
	TextLength  int
	Progress    int
	Completed   bool
	Reason      string
	Reward      float64
	TriggeredAt time.Time
	StartedAt   time.Time
	EndedAt     time.Time
	DurationMs  int64
}

// ChallengeAggregate aggregates results of one challenge definition.
type ChallengeAggregate struct {
	ChallengeID string
	Completed   int
	Failed      int
	CharsTyped  int
	DurationMs  int64
	BestMs      int64
}
