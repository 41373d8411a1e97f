// Package economy implements producer costs, purchases and production.
package economy

import (
	"math"

	"github.com/verte-zerg/keyidle/internal/catalog"
)

// Kind distinguishes the manual pseudo-producer from automated ones.
type Kind int

const (
	// Manual is the click-only entry; it never produces and is never bought.
	Manual Kind = iota
	// Automated producers generate resources every second.
	Automated
)

// Producer is one producer tier with its static config and owned quantity.
type Producer struct {
	Kind            Kind
	ID              string
	Name            string
	Description     string
	BaseCost        float64
	CostMultiplier  float64
	ProductionRate  float64
	UnlockThreshold float64

	Quantity   int
	TotalSpent float64
}

// NewProducer builds a zero-quantity producer from its catalog definition.
func NewProducer(def catalog.ProducerDef) Producer {
	p := Producer{
		Kind:            Automated,
		ID:              def.ID,
		Name:            def.Name,
		Description:     def.Description,
		BaseCost:        def.BaseCost,
		CostMultiplier:  def.CostMultiplier,
		ProductionRate:  def.ProductionRate,
		UnlockThreshold: def.UnlockThreshold,
	}
	if def.Manual {
		p.Kind = Manual
		p.BaseCost = 0
		p.ProductionRate = 0
	}
	return p
}

// NewProducers builds the producer list in catalog order.
func NewProducers(defs []catalog.ProducerDef) []Producer {
	out := make([]Producer, 0, len(defs))
	for _, def := range defs {
		out = append(out, NewProducer(def))
	}
	return out
}

// IsManual reports whether p is the manual pseudo-producer.
func (p Producer) IsManual() bool {
	return p.Kind == Manual
}

// Cost returns floor(baseCost * costMultiplier^quantity).
func Cost(p Producer) float64 {
	if p.IsManual() {
		return 0
	}
	return math.Floor(p.BaseCost * math.Pow(p.CostMultiplier, float64(p.Quantity)))
}

// CanAfford reports whether resources cover a positive cost.
func CanAfford(p Producer, resources float64) bool {
	cost := Cost(p)
	return cost > 0 && resources >= cost
}

// Purchase buys one unit of p. On failure the producer and resources are
// returned unchanged.
func Purchase(p Producer, resources float64) (Producer, float64, bool) {
	if !CanAfford(p, resources) {
		return p, resources, false
	}
	cost := Cost(p)
	p.Quantity++
	p.TotalSpent += cost
	return p, resources - cost, true
}

// TotalProduction sums productionRate * quantity over automated producers.
func TotalProduction(producers []Producer) float64 {
	total := 0.0
	for _, p := range producers {
		if p.IsManual() {
			continue
		}
		total += p.ProductionRate * float64(p.Quantity)
	}
	return total
}

// Find returns the index of the producer with the given id.
func Find(producers []Producer, id string) (int, bool) {
	for i, p := range producers {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}
