// Package ruin holds the RuinStrategy implementations §4.4 describes:
// AdjustedStringRemoval and its supplemented siblings RandomRouteRemoval,
// RandomJobRemoval, and CompositeRuin. Like vrp/constraint, it imports vrp
// and is assembled by the caller — the evolutionary loop in vrp.Solver only
// ever sees the vrp.RuinStrategy interface.
package ruin

import (
	"math"

	"github.com/vrp-engine/vrp-engine/vrp"
)

const (
	algorithmSequential = 1
	algorithmPreserved  = 2
)

// AdjustedStringRemoval destroys a contiguous run ("string") of job
// activities straddling a randomly seeded position, across one or more
// routes, per §4.4. Two sub-strategies are drawn per route: Sequential
// removes one contiguous run; Preserved removes two runs separated by a gap
// whose length decays with alpha (longer gaps less likely).
type AdjustedStringRemoval struct {
	config vrp.RuinConfig
}

// NewAdjustedStringRemoval returns an AdjustedStringRemoval using config's
// LSMax/KSMax/Alpha parameters.
func NewAdjustedStringRemoval(config vrp.RuinConfig) *AdjustedStringRemoval {
	return &AdjustedStringRemoval{config: config}
}

// Ruin implements vrp.RuinStrategy.
func (r *AdjustedStringRemoval) Ruin(ctx *vrp.RefinementContext) (*vrp.InsertionContext, error) {
	parent := ctx.Population.Select()
	if parent == nil {
		return nil, vrp.NewInvariantError("AdjustedStringRemoval.Ruin", "population has no individuals to ruin")
	}
	solution := parent.Solution

	registry := vrp.NewRegistry(ctx.Problem.Fleet.Actors)
	var routes []*vrp.RouteContext
	for _, rc := range solution.Routes {
		if rc.Route.HasJobs() {
			registry.UseActor(rc.Route.Actor)
			routes = append(routes, rc.DeepCopy())
		}
	}
	if len(routes) == 0 {
		return buildInsertionContext(ctx, routes, registry, nil), nil
	}

	seedRouteIdx := ctx.Random.UniformInt(0, len(routes)-1)

	stringCount := round(ctx.Random.UniformReal(1, float64(r.config.KSMax)))
	if stringCount < 1 {
		stringCount = 1
	}
	if stringCount > len(routes) {
		stringCount = len(routes)
	}

	var removed []*vrp.Job
	for s := 0; s < stringCount; s++ {
		route := routes[(seedRouteIdx+s)%len(routes)]
		removed = append(removed, removeString(route, ctx.Random, r.config)...)
	}

	for _, route := range routes {
		ctx.Problem.Constraint.AcceptRouteState(route)
	}

	return buildInsertionContext(ctx, routes, registry, removed), nil
}

// removeString picks Sequential or Preserved for route and removes the
// corresponding job set, returning the removed jobs.
func removeString(route *vrp.RouteContext, random vrp.Random, config vrp.RuinConfig) []*vrp.Job {
	jobs := route.Route.Jobs()
	if len(jobs) == 0 {
		return nil
	}

	seedIdx := random.UniformInt(0, len(jobs)-1)
	lstring := round(random.UniformReal(1, float64(config.LSMax)))
	if lstring < 1 {
		lstring = 1
	}
	if lstring > len(jobs) {
		lstring = len(jobs)
	}

	algorithm := random.UniformInt(algorithmSequential, algorithmPreserved)

	if algorithm == algorithmSequential || lstring < 2 {
		start := clampWindowStart(seedIdx, lstring, len(jobs), random)
		picked := jobs[start : start+lstring]
		for _, job := range picked {
			route.Route.RemoveJob(job)
		}
		return append([]*vrp.Job(nil), picked...)
	}

	return removePreserved(route, jobs, seedIdx, lstring, random, config.Alpha)
}

// removePreserved splits lstring jobs into two contiguous runs separated by
// a gap sampled from an exponential decay governed by alpha (larger alpha,
// shorter expected gap), per §4.4's "probability decaying in alpha". When the
// sampled gap would push the second run past the route's job list, the gap is
// truncated to fit — the resolved Open Question in SPEC_FULL §9.
func removePreserved(route *vrp.RouteContext, jobs []*vrp.Job, seedIdx, lstring int, random vrp.Random, alpha float64) []*vrp.Job {
	firstLen := 1
	if lstring > 2 {
		firstLen = 1 + random.UniformInt(0, lstring-2)
	}
	secondLen := lstring - firstLen

	gap := sampleGap(random, alpha)

	start := clampWindowStart(seedIdx, firstLen, len(jobs), random)
	maxGap := len(jobs) - start - firstLen - secondLen
	if maxGap < 0 {
		maxGap = 0
	}
	if gap > maxGap {
		gap = maxGap
	}

	firstRun := jobs[start : start+firstLen]
	secondStart := start + firstLen + gap
	secondRun := jobs[secondStart : secondStart+secondLen]

	var removed []*vrp.Job
	removed = append(removed, firstRun...)
	removed = append(removed, secondRun...)
	for _, job := range removed {
		route.Route.RemoveJob(job)
	}
	return removed
}

// sampleGap draws an integer gap length via the inverse CDF of an
// exponential distribution with rate alpha: larger alpha concentrates mass
// near gap 0, smaller alpha allows longer gaps — "decaying in alpha".
func sampleGap(random vrp.Random, alpha float64) int {
	if alpha <= 0 {
		alpha = 0.01
	}
	u := random.UniformReal(1e-9, 1)
	gap := int(-math.Log(u) / alpha)
	if gap < 0 {
		gap = 0
	}
	return gap
}

// clampWindowStart places a window of length size so that seedIdx sits at a
// randomly drawn offset inside it (one UniformInt draw when size > 1), then
// clamps the window so it stays within [0, total).
func clampWindowStart(seedIdx, size, total int, random vrp.Random) int {
	offset := 0
	if size > 1 {
		offset = random.UniformInt(0, size-1)
	}
	start := seedIdx - offset
	if start < 0 {
		start = 0
	}
	if start+size > total {
		start = total - size
	}
	return start
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// buildInsertionContext wraps the ruined routes and removed jobs into a
// fresh InsertionContext ready for the insertion heuristic to recreate.
func buildInsertionContext(ctx *vrp.RefinementContext, routes []*vrp.RouteContext, registry *vrp.Registry, removed []*vrp.Job) *vrp.InsertionContext {
	solution := vrp.NewSolutionContext(registry)
	solution.Routes = routes
	solution.Required = removed

	progress := vrp.InsertionProgress{Total: ctx.Problem.Size()}
	return vrp.NewInsertionContext(ctx.Problem, solution, progress, ctx.Random)
}
