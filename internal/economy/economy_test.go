package economy

import (
	"testing"
	"time"

	"github.com/verte-zerg/keyidle/internal/catalog"
)

func testProducer() Producer {
	return NewProducer(catalog.ProducerDef{
		ID:             "intern",
		BaseCost:       120,
		CostMultiplier: 1.16,
		ProductionRate: 1,
	})
}

func TestCostScenario(t *testing.T) {
	p := testProducer()
	if got := Cost(p); got != 120 {
		t.Fatalf("expected cost 120, got %v", got)
	}
	p, left, ok := Purchase(p, 200)
	if !ok {
		t.Fatalf("expected purchase to succeed")
	}
	if p.Quantity != 1 || left != 80 || p.TotalSpent != 120 {
		t.Fatalf("unexpected state after purchase: qty=%d left=%v spent=%v", p.Quantity, left, p.TotalSpent)
	}
	if got := Cost(p); got != 139 {
		t.Fatalf("expected next cost 139, got %v", got)
	}
}

func TestCostStrictlyIncreasing(t *testing.T) {
	p := testProducer()
	prev := Cost(p)
	for q := 1; q < 60; q++ {
		p.Quantity = q
		cost := Cost(p)
		if cost <= prev {
			t.Fatalf("expected cost to increase at quantity %d: %v <= %v", q, cost, prev)
		}
		prev = cost
	}
}

func TestPurchaseFailureIsAtomic(t *testing.T) {
	p := testProducer()
	p.Quantity = 3
	p.TotalSpent = 400
	before := p
	got, left, ok := Purchase(p, Cost(p)-1)
	if ok {
		t.Fatalf("expected purchase to fail")
	}
	if got != before || left != Cost(p)-1 {
		t.Fatalf("expected no mutation on failure")
	}
}

func TestManualNeverPurchasable(t *testing.T) {
	m := NewProducer(catalog.ProducerDef{ID: "keyboard", Manual: true, BaseCost: 50, CostMultiplier: 2, ProductionRate: 5})
	if CanAfford(m, 1e12) {
		t.Fatalf("expected manual producer to be unaffordable")
	}
	m.Quantity = 10
	if got := TotalProduction([]Producer{m}); got != 0 {
		t.Fatalf("expected manual producer excluded from production, got %v", got)
	}
}

func TestTotalProduction(t *testing.T) {
	a := testProducer()
	a.Quantity = 2
	b := NewProducer(catalog.ProducerDef{ID: "macro", BaseCost: 15, CostMultiplier: 1.15, ProductionRate: 0.5})
	b.Quantity = 4
	if got := TotalProduction([]Producer{a, b}); got != 4 {
		t.Fatalf("expected 4/s, got %v", got)
	}
}

func TestBestValueTiesKeepFirst(t *testing.T) {
	a := NewProducer(catalog.ProducerDef{ID: "a", BaseCost: 10, CostMultiplier: 2, ProductionRate: 1})
	b := NewProducer(catalog.ProducerDef{ID: "b", BaseCost: 20, CostMultiplier: 2, ProductionRate: 2})
	c := NewProducer(catalog.ProducerDef{ID: "c", BaseCost: 100, CostMultiplier: 2, ProductionRate: 0})
	manual := NewProducer(catalog.ProducerDef{ID: "keyboard", Manual: true})
	if got := BestValue([]Producer{manual, a, b, c}); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
	a.Quantity = 1
	if got := BestValue([]Producer{manual, a, b, c}); got != "b" {
		t.Fatalf("expected b after a becomes pricier, got %q", got)
	}
}

func TestBestValueCacheThrottle(t *testing.T) {
	a := NewProducer(catalog.ProducerDef{ID: "a", BaseCost: 10, CostMultiplier: 2, ProductionRate: 1})
	b := NewProducer(catalog.ProducerDef{ID: "b", BaseCost: 15, CostMultiplier: 2, ProductionRate: 1})
	start := time.Unix(1000, 0)

	cache := BestValueCache{}.Resolve([]Producer{a, b}, start, DefaultBestValueRefresh, false)
	if cache.ID != "a" {
		t.Fatalf("expected a, got %q", cache.ID)
	}
	a.Quantity = 1
	cache = cache.Resolve([]Producer{a, b}, start.Add(4*time.Second), DefaultBestValueRefresh, false)
	if cache.ID != "a" {
		t.Fatalf("expected throttled recommendation a, got %q", cache.ID)
	}
	cache = cache.Resolve([]Producer{a, b}, start.Add(5*time.Second), DefaultBestValueRefresh, false)
	if cache.ID != "b" {
		t.Fatalf("expected refreshed recommendation b, got %q", cache.ID)
	}
	a.Quantity = 0
	cache = cache.Resolve([]Producer{a, b}, start.Add(6*time.Second), DefaultBestValueRefresh, true)
	if cache.ID != "a" {
		t.Fatalf("expected forced recommendation a, got %q", cache.ID)
	}
}

func TestApplyUnlocksMonotonic(t *testing.T) {
	producers := []Producer{
		NewProducer(catalog.ProducerDef{ID: "free", BaseCost: 1, CostMultiplier: 2, ProductionRate: 1}),
		NewProducer(catalog.ProducerDef{ID: "mid", BaseCost: 10, CostMultiplier: 2, ProductionRate: 1, UnlockThreshold: 50}),
		NewProducer(catalog.ProducerDef{ID: "high", BaseCost: 10, CostMultiplier: 2, ProductionRate: 1, UnlockThreshold: 500}),
	}
	visible := map[string]struct{}{}
	added := ApplyUnlocks(producers, 60, visible)
	if len(added) != 1 || added[0] != "mid" {
		t.Fatalf("expected mid unlocked, got %v", added)
	}
	if !Visible(producers[0], visible) {
		t.Fatalf("expected zero-threshold producer to be visible")
	}
	if Visible(producers[2], visible) {
		t.Fatalf("expected high to stay hidden")
	}
	if added := ApplyUnlocks(producers, 0, visible); len(added) != 0 {
		t.Fatalf("expected nothing new, got %v", added)
	}
	if _, ok := visible["mid"]; !ok {
		t.Fatalf("expected mid to stay visible after resources drop")
	}
}
