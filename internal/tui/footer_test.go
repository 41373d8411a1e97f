package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/keyidle/internal/engine"
)

func TestRenderFooterFormats(t *testing.T) {
	v := engine.View{
		ClickPower: engine.ClickPowerView{Value: 2},
		Typing: engine.TypingView{
			Unlocked:            true,
			Streak:              4,
			Multiplier:          1.4,
			ChallengesUnlocked:  true,
			ChallengesEnabled:   true,
			WordsUntilChallenge: 6,
			Completed:           3,
			Failed:              1,
		},
		AutoBuy: engine.AutoBuyView{Unlocked: true, Enabled: true, SecondsUntilNext: 12.4},
	}
	out := renderFooter(v)
	if !containsAll(out, []string{"Click +2", "Streak 4 · x1.4", "Challenge in 6 words", "Won 3 · Lost 1", "Auto-buy in 12s"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterHidesLockedFeatures(t *testing.T) {
	out := renderFooter(engine.View{ClickPower: engine.ClickPowerView{Value: 1}})
	if out != "Click +1" {
		t.Fatalf("expected only click segment, got %q", out)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:       "0",
		12.5:    "12.5",
		999:     "999",
		1500:    "1.50K",
		2500000: "2.50M",
	}
	for in, want := range cases {
		if got := formatAmount(in); got != want {
			t.Fatalf("formatAmount(%v): expected %q, got %q", in, want, got)
		}
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
