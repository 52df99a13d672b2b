package vrp

import "math"

// insertionCandidate is one feasible place a job could go: either an existing
// route at routeIdx, or a brand new route opened from a free actor (newRoute
// non-nil). pos is the activity index the job's first task would occupy.
type insertionCandidate struct {
	routeIdx int
	newRoute *RouteContext
	pos      int
	cost     float64
}

// InsertionHeuristic implements the recreate phase (§4.3): given an
// InsertionContext whose Required list names the jobs to place, it inserts
// each one, one at a time, at its lowest-cost feasible position under the
// problem's constraint pipeline.
type InsertionHeuristic struct{}

// NewInsertionHeuristic returns an InsertionHeuristic. It carries no state of
// its own — every recreate pass is driven entirely by the InsertionContext
// passed to Run.
func NewInsertionHeuristic() *InsertionHeuristic { return &InsertionHeuristic{} }

// Run drives the recreate loop to completion: every job in ctx.Solution.Required
// ends up either inserted onto a route or recorded in ctx.Solution.Unassigned.
func (h *InsertionHeuristic) Run(ctx *InsertionContext) {
	pipeline := ctx.Problem.Constraint
	solution := ctx.Solution

	jobs := append([]*Job(nil), solution.Required...)
	for _, job := range jobs {
		best, lastViolation, found := h.bestCandidate(ctx, job)
		if !found {
			solution.RemoveRequired(job)
			solution.Unassigned[job.ID] = lastViolation
			continue
		}

		route := h.commit(ctx, job, best)
		pipeline.AcceptInsertion(solution, route, job)
		pipeline.AcceptRouteState(route)
		solution.RemoveRequired(job)

		if ctx.Progress.Total > 0 {
			placed := ctx.Progress.Total - len(solution.Required) - len(solution.Unassigned)
			ctx.Progress.Completeness = float64(placed) / float64(ctx.Progress.Total)
		}
	}

	for _, m := range pipeline.Modules() {
		m.AcceptSolutionState(solution)
	}
}

// bestCandidate enumerates every (route, position) pair feasible for job and
// returns the lowest-cost one, breaking ties by route index then slot index
// (§4.3 step 2). found is false if no route/position admits job at all, in
// which case lastViolation carries the final hard violation code observed.
func (h *InsertionHeuristic) bestCandidate(ctx *InsertionContext, job *Job) (insertionCandidate, ViolationCode, bool) {
	pipeline := ctx.Problem.Constraint
	solution := ctx.Solution

	var best insertionCandidate
	found := false
	var lastViolation ViolationCode

	tryRoute := func(routeIdx int, route *RouteContext) {
		if v := pipeline.EvaluateRoute(solution, route, job); v != nil {
			lastViolation = v.Code
			return
		}
		routeCost := pipeline.EstimateRoute(solution, route, job)

		for pos := 1; pos < len(route.Route.Activities); pos++ {
			trial := route.DeepCopy()
			stopped := false
			feasible := true
			activityCost := 0.0

			for i := range job.Tasks {
				insertAt := pos + i
				if insertAt >= len(trial.Route.Activities) {
					insertAt = len(trial.Route.Activities) - 1
				}
				if v := pipeline.EvaluateActivity(trial, job, i, insertAt); v != nil {
					lastViolation = v.Code
					feasible = false
					stopped = v.Stopped
					break
				}
				activityCost += pipeline.EstimateActivity(trial, job, i, insertAt)
				trial.Route.InsertTask(job, i, insertAt)
			}

			// A slot whose cost is NaN is never admitted as a candidate.
			total := routeCost + activityCost
			if feasible && !math.IsNaN(total) {
				candidate := insertionCandidate{routeIdx: routeIdx, pos: pos, cost: total}
				if !found || CompareFloats(total, best.cost) == Less {
					best, found = candidate, true
				}
			}

			if stopped {
				break
			}
		}
	}

	for idx, route := range solution.Routes {
		tryRoute(idx, route)
	}

	newRouteBase := len(solution.Routes)
	for offset, actor := range solution.Registry.FreeActors() {
		candidateRoute := NewRouteContext(NewRoute(actor))
		pipeline.AcceptRouteState(candidateRoute)
		tryRouteIdx := newRouteBase + offset
		tryRoute(tryRouteIdx, candidateRoute)
		if found && best.routeIdx == tryRouteIdx {
			best.newRoute = candidateRoute
		}
	}

	return best, lastViolation, found
}

// commit materializes the winning candidate: inserting job's tasks into an
// existing route, or promoting a synthesized new route into the solution and
// claiming its actor from the registry.
func (h *InsertionHeuristic) commit(ctx *InsertionContext, job *Job, best insertionCandidate) *RouteContext {
	solution := ctx.Solution

	var route *RouteContext
	if best.newRoute != nil {
		ctx.Solution.Registry.UseActor(best.newRoute.Route.Actor)
		solution.Routes = append(solution.Routes, best.newRoute)
		route = best.newRoute
	} else {
		route = solution.Routes[best.routeIdx]
	}

	for i := range job.Tasks {
		insertAt := best.pos + i
		if insertAt >= len(route.Route.Activities) {
			insertAt = len(route.Route.Activities) - 1
		}
		route.Route.InsertTask(job, i, insertAt)
	}

	return route
}
