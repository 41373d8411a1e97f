package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/keyidle/internal/model"
)

func TestChallengeWPM(t *testing.T) {
	if got := ChallengeWPM(50, 60000); got != 10 {
		t.Fatalf("expected 10 WPM, got %v", got)
	}
	if got := ChallengeWPM(50, 0); got != 0 {
		t.Fatalf("expected 0 for zero duration, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
}

func TestResample(t *testing.T) {
	got := Resample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected resample: %v", got)
	}
	if got := Resample([]float64{1}, 5); len(got) != 1 {
		t.Fatalf("expected short series untouched, got %v", got)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	results := []model.ChallengeResult{
		{Completed: true, TextLength: 50, DurationMs: 60000, Reward: 100},
		{Completed: false, Reason: "timeout"},
		{Completed: false, Reason: "mistype"},
	}
	if err := RenderSummary(&buf, results); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Challenges: 3", "Failed: 2 (mistype 1, timeout 1)", "Success Rate: 33.33%", "Best WPM: 10.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, nil); err != nil || !strings.Contains(buf.String(), "No challenges") {
		t.Fatalf("expected empty message")
	}
}

func TestRenderCurveWidth(t *testing.T) {
	var results []model.ChallengeResult
	for i := 0; i < 100; i++ {
		results = append(results, model.ChallengeResult{
			Completed:  i%3 != 0,
			TextLength: 40,
			DurationMs: int64(5000 + i*10),
			EndedAt:    time.Unix(int64(i), 0),
		})
	}
	var buf bytes.Buffer
	if err := RenderCurve(&buf, results, 5, 40); err != nil {
		t.Fatalf("render curve: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected curve lines, got %q", buf.String())
	}
	if w := len(lines[1]); w > 40 {
		t.Fatalf("expected curve to fit 40 columns, got %d", w)
	}
}

func TestRenderChallengeTableOrder(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.ChallengeAggregate{
		{ChallengeID: "easy", Completed: 4},
		{ChallengeID: "hard", Completed: 1, Failed: 3},
	}
	if err := RenderChallengeTable(&buf, aggs); err != nil {
		t.Fatalf("render table: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "hard") > strings.Index(out, "easy") {
		t.Fatalf("expected hardest challenge first:\n%s", out)
	}
}
