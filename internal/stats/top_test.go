package stats

import (
	"testing"

	"github.com/verte-zerg/keyidle/internal/model"
)

func TestTopChallengesByAttempts(t *testing.T) {
	aggs := []model.ChallengeAggregate{
		{ChallengeID: "sphinx", Completed: 3, Failed: 1},
		{ChallengeID: "boxing", Completed: 2, Failed: 2},
		{ChallengeID: "liquor", Completed: 1},
	}
	top := TopChallengesByAttempts(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 challenges, got %d", len(top))
	}
	if top[0] != "boxing" || top[1] != "sphinx" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopChallengesByAttempts(aggs, 10); len(got) != 3 {
		t.Fatalf("expected limit clamped to 3, got %d", len(got))
	}
}
