// Package generator provides the random source used to pick challenges.
package generator

import (
	"math/rand"
	"time"
)

// Generator picks uniformly random indexes.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a random index in [0, n). It returns 0 when n <= 1.
func (g *Generator) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return g.rnd.Intn(n)
}

// Weighted picks an index in [0, len(weights)) with probability proportional
// to 1 + weights[i]*factor, so higher weights are favored.
func (g *Generator) Weighted(weights []float64, factor float64) int {
	if len(weights) == 0 {
		return 0
	}
	total := 0.0
	scaled := make([]float64, len(weights))
	for i, w := range weights {
		v := 1.0 + w*factor
		if v < 0 {
			v = 0
		}
		scaled[i] = v
		total += v
	}
	if total <= 0 {
		return g.Intn(len(weights))
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for i, v := range scaled {
		acc += v
		if r <= acc {
			return i
		}
	}
	return len(weights) - 1
}

// Biased favors indexes with higher weights when the requested range matches
// the weight list, and falls back to a uniform pick otherwise.
type Biased struct {
	gen     *Generator
	weights []float64
	factor  float64
}

// Biased wraps g with per-index weights.
func (g *Generator) Biased(weights []float64, factor float64) *Biased {
	return &Biased{gen: g, weights: weights, factor: factor}
}

// Intn returns an index in [0, n).
func (b *Biased) Intn(n int) int {
	if len(b.weights) != n {
		return b.gen.Intn(n)
	}
	return b.gen.Weighted(b.weights, b.factor)
}
