// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/keyidle/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for save slots and challenge history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			slot TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			data BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS challenge_results (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			slot TEXT NOT NULL,
			challenge_id TEXT NOT NULL,
			text_length INTEGER NOT NULL,
			progress INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			reason TEXT NOT NULL,
			reward REAL NOT NULL,
			triggered_at TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_challenge_results_ended_at ON challenge_results(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_challenge_results_slot ON challenge_results(slot, challenge_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// PutSave stores the payload of a slot, replacing any previous one.
func (s *Store) PutSave(ctx context.Context, slot string, version int, data []byte, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saves (slot, version, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET version = excluded.version, data = excluded.data, updated_at = excluded.updated_at`,
		slot, version, data, at.UTC().Format(time.RFC3339Nano))
	return err
}

// GetSave returns the payload of a slot. ok is false when the slot is empty.
func (s *Store) GetSave(ctx context.Context, slot string) (data []byte, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM saves WHERE slot = ?`, slot)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// DeleteSave removes a slot. Deleting a missing slot is not an error.
func (s *Store) DeleteSave(ctx context.Context, slot string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	return err
}

// ListSlots returns stored slots ordered by name.
func (s *Store) ListSlots(ctx context.Context) ([]model.SaveSlot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot, version, length(data), updated_at FROM saves ORDER BY slot ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var slots []model.SaveSlot
	for rows.Next() {
		var slot model.SaveSlot
		var updatedAt string
		if err := rows.Scan(&slot.Name, &slot.Version, &slot.Size, &updatedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, err
		}
		slot.UpdatedAt = parsed
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// InsertChallengeResults stores finished challenges in one transaction.
func (s *Store) InsertChallengeResults(ctx context.Context, results []model.ChallengeResult) (err error) {
	if len(results) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO challenge_results (run_id, slot, challenge_id, text_length, progress, completed, reason, reward, triggered_at, started_at, ended_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, r := range results {
		completed := 0
		if r.Completed {
			completed = 1
		}
		if _, err = stmt.ExecContext(ctx,
			r.RunID,
			r.Slot,
			r.ChallengeID,
			r.TextLength,
			r.Progress,
			completed,
			r.Reason,
			r.Reward,
			r.TriggeredAt.UTC().Format(time.RFC3339Nano),
			r.StartedAt.UTC().Format(time.RFC3339Nano),
			r.EndedAt.UTC().Format(time.RFC3339Nano),
			r.DurationMs,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListChallengeResults returns results filtered by stats config, oldest first.
func (s *Store) ListChallengeResults(ctx context.Context, cfg model.StatsConfig) ([]model.ChallengeResult, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Slot != "" {
		clauses = append(clauses, "slot = ?")
		args = append(args, cfg.Slot)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, run_id, slot, challenge_id, text_length, progress, completed, reason, reward,
		triggered_at, started_at, ended_at, duration_ms
		FROM challenge_results
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.ChallengeResult
	for rows.Next() {
		var r model.ChallengeResult
		var completed int
		var triggeredAt, startedAt, endedAt string
		if err := rows.Scan(&r.ID, &r.RunID, &r.Slot, &r.ChallengeID, &r.TextLength, &r.Progress, &completed, &r.Reason, &r.Reward,
			&triggeredAt, &startedAt, &endedAt, &r.DurationMs); err != nil {
			return nil, err
		}
		r.Completed = completed != 0
		if r.TriggeredAt, err = time.Parse(time.RFC3339Nano, triggeredAt); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if r.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ChallengeAggregates aggregates the most recent window results of a slot
// per challenge definition.
func (s *Store) ChallengeAggregates(ctx context.Context, slot string, window int) ([]model.ChallengeAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT * FROM challenge_results
		WHERE (? = '' OR slot = ?)
		ORDER BY ended_at DESC, id DESC
		LIMIT ?
	)
	SELECT challenge_id,
		SUM(completed) AS completed,
		SUM(1 - completed) AS failed,
		SUM(CASE WHEN completed = 1 THEN text_length ELSE 0 END) AS chars_typed,
		SUM(CASE WHEN completed = 1 THEN duration_ms ELSE 0 END) AS duration_ms,
		COALESCE(MIN(CASE WHEN completed = 1 THEN duration_ms END), 0) AS best_ms
	FROM recent
	GROUP BY challenge_id
	ORDER BY challenge_id ASC`

	rows, err := s.db.QueryContext(ctx, query, slot, slot, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ChallengeAggregate
	for rows.Next() {
		var agg model.ChallengeAggregate
		if err := rows.Scan(&agg.ChallengeID, &agg.Completed, &agg.Failed, &agg.CharsTyped, &agg.DurationMs, &agg.BestMs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteChallengeResults removes the history of a slot.
func (s *Store) DeleteChallengeResults(ctx context.Context, slot string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM challenge_results WHERE slot = ?`, slot)
	return err
}
