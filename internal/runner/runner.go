// Package runner drives an engine at a fixed rate: it ticks the simulation,
// autosaves to a slot and records finished challenges.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/keyidle/internal/engine"
	"github.com/verte-zerg/keyidle/internal/model"
	"github.com/verte-zerg/keyidle/internal/save"
	"github.com/verte-zerg/keyidle/internal/typing"
)

const (
	// DefaultTickRate is the number of engine updates per second.
	DefaultTickRate = 10
	// DefaultSaveInterval is the autosave period.
	DefaultSaveInterval = 60 * time.Second
	// DefaultSlot names the save slot used when none is given.
	DefaultSlot = "main"
)

// Store is the persistence the runner needs.
type Store interface {
	PutSave(ctx context.Context, slot string, version int, data []byte, at time.Time) error
	GetSave(ctx context.Context, slot string) ([]byte, bool, error)
	InsertChallengeResults(ctx context.Context, results []model.ChallengeResult) error
}

// Runner owns the driver loop state for one engine. It is not safe for
// concurrent use.
type Runner struct {
	eng          *engine.Engine
	st           Store
	slot         string
	runID        string
	saveInterval time.Duration
	lastSave     time.Time
	pending      []model.ChallengeResult
}

// New wires r as the challenge observer of eng.
func New(eng *engine.Engine, st Store, slot string, saveInterval time.Duration) *Runner {
	if slot == "" {
		slot = DefaultSlot
	}
	if saveInterval <= 0 {
		saveInterval = DefaultSaveInterval
	}
	r := &Runner{
		eng:          eng,
		st:           st,
		slot:         slot,
		runID:        uuid.NewString(),
		saveInterval: saveInterval,
	}
	eng.SetChallengeObserver(r.record)
	return r
}

// Engine returns the driven engine.
func (r *Runner) Engine() *engine.Engine {
	return r.eng
}

// RunID identifies this process in challenge history.
func (r *Runner) RunID() string {
	return r.runID
}

// Slot returns the save slot name.
func (r *Runner) Slot() string {
	return r.slot
}

// Pending returns the number of challenge results not yet stored.
func (r *Runner) Pending() int {
	return len(r.pending)
}

// Restore loads the slot into the engine. It reports false when the slot is
// empty. A corrupt save returns an error and leaves the engine untouched.
func (r *Runner) Restore(ctx context.Context, now time.Time) (bool, error) {
	data, ok, err := r.st.GetSave(ctx, r.slot)
	if err != nil {
		return false, fmt.Errorf("failed to read save %q: %w", r.slot, err)
	}
	r.lastSave = now
	if !ok {
		return false, nil
	}
	snap, err := save.Decode(data)
	if err != nil {
		return false, fmt.Errorf("failed to load save %q: %w", r.slot, err)
	}
	r.eng.Load(snap)
	return true, nil
}

// Tick advances the engine to now and autosaves when the interval elapsed.
func (r *Runner) Tick(ctx context.Context, now time.Time) error {
	r.eng.Update(now)
	if now.Sub(r.lastSave) < r.saveInterval {
		return nil
	}
	return r.Save(ctx, now)
}

// Save writes the engine snapshot and stores pending challenge results.
func (r *Runner) Save(ctx context.Context, now time.Time) error {
	r.lastSave = now
	data, err := save.Encode(r.eng.Save())
	if err != nil {
		return err
	}
	packed, err := save.Compress(data)
	if err != nil {
		return err
	}
	if err := r.st.PutSave(ctx, r.slot, save.Version, packed, now); err != nil {
		return fmt.Errorf("failed to write save %q: %w", r.slot, err)
	}
	return r.Flush(ctx)
}

// Flush stores pending challenge results. Results stay pending on failure.
func (r *Runner) Flush(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}
	if err := r.st.InsertChallengeResults(ctx, r.pending); err != nil {
		return fmt.Errorf("failed to record challenges: %w", err)
	}
	r.pending = r.pending[:0]
	return nil
}

func (r *Runner) record(out typing.Outcome) {
	r.pending = append(r.pending, model.ChallengeResult{
		RunID:       r.runID,
		Slot:        r.slot,
		ChallengeID: out.DefinitionID,
		TextLength:  out.TextLength,
		Progress:    out.Progress,
		Completed:   out.Completed,
		Reason:      out.Reason,
		Reward:      out.Reward,
		TriggeredAt: out.TriggeredAt,
		StartedAt:   out.StartedAt,
		EndedAt:     out.EndedAt,
		DurationMs:  out.EndedAt.Sub(out.StartedAt).Milliseconds(),
	})
}
