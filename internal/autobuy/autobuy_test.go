package autobuy

import (
	"testing"
	"time"

	"github.com/verte-zerg/keyidle/internal/catalog"
	"github.com/verte-zerg/keyidle/internal/economy"
)

func testConfig() Config {
	return ConfigFromBalance(catalog.Default().Balance)
}

func testProducers() []economy.Producer {
	return economy.NewProducers([]catalog.ProducerDef{
		{ID: "keyboard", Manual: true},
		{ID: "cheap", BaseCost: 10, CostMultiplier: 2, ProductionRate: 0.1},
		{ID: "value", BaseCost: 100, CostMultiplier: 2, ProductionRate: 2},
	})
}

func TestIntervalCurve(t *testing.T) {
	c := testConfig()
	if got := c.Interval(0); got != 30*time.Second {
		t.Fatalf("expected 30s, got %v", got)
	}
	if got := c.Interval(5); got != 20*time.Second {
		t.Fatalf("expected 20s, got %v", got)
	}
	if got := c.Interval(14); got != 2*time.Second {
		t.Fatalf("expected floor 2s, got %v", got)
	}
	if got := c.Interval(40); got != 2*time.Second {
		t.Fatalf("expected floor 2s past cap, got %v", got)
	}
	if c.CanUpgradeSpeed(14) || !c.CanUpgradeSpeed(13) {
		t.Fatalf("expected cap at level 14")
	}
}

func TestSpeedUpgradeCost(t *testing.T) {
	c := testConfig()
	if got := c.SpeedUpgradeCost(0); got != 10000 {
		t.Fatalf("expected 10000, got %v", got)
	}
	if got := c.SpeedUpgradeCost(3); got != 33750 {
		t.Fatalf("expected 33750, got %v", got)
	}
}

func TestEnableWaitsFullInterval(t *testing.T) {
	c := testConfig()
	start := time.Unix(1000, 0)
	var s State
	SetEnabled(&s, true, start)
	producers := testProducers()

	left, id := c.Run(&s, producers, 1000, start.Add(29999*time.Millisecond), nil)
	if id != "" || left != 1000 {
		t.Fatalf("expected no purchase before interval, got %q", id)
	}
	left, id = c.Run(&s, producers, 1000, start.Add(30*time.Second), nil)
	if id != "value" {
		t.Fatalf("expected best-ratio purchase of value, got %q", id)
	}
	if left != 900 || producers[2].Quantity != 1 {
		t.Fatalf("unexpected state after purchase: left=%v qty=%d", left, producers[2].Quantity)
	}
	if !s.LastPurchase.Equal(start.Add(30 * time.Second)) {
		t.Fatalf("expected timer restarted")
	}
}

func TestFailedCycleStillWaits(t *testing.T) {
	c := testConfig()
	start := time.Unix(0, 0)
	var s State
	SetEnabled(&s, true, start)
	producers := testProducers()

	at := start.Add(30 * time.Second)
	if _, id := c.Run(&s, producers, 5, at, nil); id != "" {
		t.Fatalf("expected nothing affordable")
	}
	if !s.LastPurchase.Equal(at) {
		t.Fatalf("expected timer restarted after a failed cycle")
	}
	if _, id := c.Run(&s, producers, 1000, at.Add(time.Second), nil); id != "" {
		t.Fatalf("expected to wait a full interval before retrying, bought %q", id)
	}
}

func TestSelectRespectsEligibility(t *testing.T) {
	producers := testProducers()
	idx, ok := Select(producers, 1000, func(p economy.Producer) bool { return p.ID != "value" })
	if !ok || producers[idx].ID != "cheap" {
		t.Fatalf("expected cheap when value is ineligible")
	}
	if _, ok := Select(producers, 1, nil); ok {
		t.Fatalf("expected nothing affordable")
	}
}

func TestDisabledNeverRuns(t *testing.T) {
	c := testConfig()
	var s State
	producers := testProducers()
	if _, id := c.Run(&s, producers, 1e9, time.Unix(1e6, 0), nil); id != "" {
		t.Fatalf("expected disabled auto-buy to do nothing")
	}
}
