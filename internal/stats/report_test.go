package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/keyidle/internal/model"
	"github.com/verte-zerg/keyidle/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "keyidle.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var results []model.ChallengeResult
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(6 * time.Second)
		id := "sphinx"
		if i == 2 {
			id = "boxing"
		}
		results = append(results, model.ChallengeResult{
			RunID:       "run",
			Slot:        "main",
			ChallengeID: id,
			TextLength:  30,
			Progress:    30,
			Completed:   true,
			Reason:      "completed",
			Reward:      150,
			TriggeredAt: start,
			StartedAt:   start,
			EndedAt:     end,
			DurationMs:  end.Sub(start).Milliseconds(),
		})
	}
	if err := st.InsertChallengeResults(ctx, results); err != nil {
		t.Fatalf("insert results: %v", err)
	}

	cfg := model.StatsConfig{
		Slot:        "main",
		Last:        2,
		CurveWindow: 2,
		Top:         1,
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if report.Results[1].ChallengeID != "boxing" {
		t.Fatalf("expected newest result last, got %+v", report.Results)
	}
	if len(report.Aggregates) != 2 {
		t.Fatalf("expected aggregates for 2 challenges, got %d", len(report.Aggregates))
	}
	if len(report.Top) != 1 || report.Top[0] != "boxing" {
		t.Fatalf("unexpected top challenges: %v", report.Top)
	}
}
