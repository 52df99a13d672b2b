package ruin

import "github.com/vrp-engine/vrp-engine/vrp"

// weightedStrategy pairs a RuinStrategy with its selection weight.
type weightedStrategy struct {
	strategy vrp.RuinStrategy
	weight   int
}

// CompositeRuin picks one of its registered strategies per call via the
// random source's weighted draw, mirroring the way the teacher's
// NewScheduler/newScorerWithObserver select an implementation by name from a
// small registry — generalized here to weighted random selection since ruin
// choice is stochastic rather than config-fixed (§4.4.2).
type CompositeRuin struct {
	strategies []weightedStrategy
}

// NewCompositeRuin returns a CompositeRuin over strategies, each paired with
// a selection weight. Panics if strategies and weights differ in length. An
// empty strategy list or weights summing to zero or less are not rejected
// here; Ruin passes them to vrp.Random.Weighted, which panics on them.
func NewCompositeRuin(strategies []vrp.RuinStrategy, weights []int) *CompositeRuin {
	if len(strategies) != len(weights) {
		panic("vrp/ruin: NewCompositeRuin requires one weight per strategy")
	}
	pairs := make([]weightedStrategy, len(strategies))
	for i := range strategies {
		pairs[i] = weightedStrategy{strategy: strategies[i], weight: weights[i]}
	}
	return &CompositeRuin{strategies: pairs}
}

// Ruin implements vrp.RuinStrategy by delegating to one weighted-randomly
// chosen member strategy.
func (c *CompositeRuin) Ruin(ctx *vrp.RefinementContext) (*vrp.InsertionContext, error) {
	weights := make([]int, len(c.strategies))
	for i, s := range c.strategies {
		weights[i] = s.weight
	}
	idx := ctx.Random.Weighted(weights)
	return c.strategies[idx].strategy.Ruin(ctx)
}
