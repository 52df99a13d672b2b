package vrp

// InsertionProgress tracks how far a recreate pass has gotten: a cost slot,
// the fraction of jobs placed, and the total job count the pass started with.
// InsertionHeuristic.Run updates only Completeness; Cost stays nil unless the
// caller sets it.
type InsertionProgress struct {
	Cost         *float64
	Completeness float64
	Total        int
}

// InsertionContext bundles everything one recreate pass needs: the immutable
// problem, the mutable solution under construction, progress bookkeeping, and
// the random source handed on from the ruin step (InsertionHeuristic breaks
// ties by route and slot index and draws nothing from it). It is owned by a
// single goroutine for its entire lifetime — never shared across concurrent
// insertion attempts (§4.1, §5).
type InsertionContext struct {
	Problem  *Problem
	Solution *SolutionContext
	Progress InsertionProgress
	Random   Random
}

// NewInsertionContext bundles problem, solution, progress, and random into an
// InsertionContext.
func NewInsertionContext(problem *Problem, solution *SolutionContext, progress InsertionProgress, random Random) *InsertionContext {
	return &InsertionContext{Problem: problem, Solution: solution, Progress: progress, Random: random}
}
