package ruin

import "github.com/vrp-engine/vrp-engine/vrp"

// RandomRouteRemoval removes every job from k uniformly-chosen routes
// wholesale — a coarser, cheaper contrast to AdjustedStringRemoval's
// targeted slicing (§4.4.1).
type RandomRouteRemoval struct {
	routes int
}

// NewRandomRouteRemoval returns a RandomRouteRemoval that empties routes
// distinct, non-empty routes per call (clamped to however many non-empty
// routes actually exist).
func NewRandomRouteRemoval(routes int) *RandomRouteRemoval {
	if routes < 1 {
		routes = 1
	}
	return &RandomRouteRemoval{routes: routes}
}

func (r *RandomRouteRemoval) Ruin(ctx *vrp.RefinementContext) (*vrp.InsertionContext, error) {
	parent := ctx.Population.Select()
	if parent == nil {
		return nil, vrp.NewInvariantError("RandomRouteRemoval.Ruin", "population has no individuals to ruin")
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

	k := r.routes
	if k > len(routes) {
		k = len(routes)
	}

	var removed []*vrp.Job
	chosen := make(map[int]struct{}, k)
	for len(chosen) < k {
		idx := ctx.Random.UniformInt(0, len(routes)-1)
		if _, ok := chosen[idx]; ok {
			continue
		}
		chosen[idx] = struct{}{}
		route := routes[idx]
		for _, job := range route.Route.Jobs() {
			route.Route.RemoveJob(job)
			removed = append(removed, job)
		}
		ctx.Problem.Constraint.AcceptRouteState(route)
	}

	return buildInsertionContext(ctx, routes, registry, removed), nil
}

// RandomJobRemoval removes n uniformly-chosen jobs regardless of which route
// carries them — the simplest possible ruin, used as a cheap contrast
// operator in CompositeRuin (§4.4.1).
type RandomJobRemoval struct {
	jobs int
}

// NewRandomJobRemoval returns a RandomJobRemoval that removes n jobs per
// call (clamped to however many jobs are actually on routes).
func NewRandomJobRemoval(jobs int) *RandomJobRemoval {
	if jobs < 1 {
		jobs = 1
	}
	return &RandomJobRemoval{jobs: jobs}
}

func (r *RandomJobRemoval) Ruin(ctx *vrp.RefinementContext) (*vrp.InsertionContext, error) {
	parent := ctx.Population.Select()
	if parent == nil {
		return nil, vrp.NewInvariantError("RandomJobRemoval.Ruin", "population has no individuals to ruin")
	}
	solution := parent.Solution

	registry := vrp.NewRegistry(ctx.Problem.Fleet.Actors)
	var routes []*vrp.RouteContext
	var allJobs []*vrp.Job
	var ownerOf []*vrp.RouteContext
	for _, rc := range solution.Routes {
		if rc.Route.HasJobs() {
			registry.UseActor(rc.Route.Actor)
			copyRc := rc.DeepCopy()
			routes = append(routes, copyRc)
			for _, job := range copyRc.Route.Jobs() {
				allJobs = append(allJobs, job)
				ownerOf = append(ownerOf, copyRc)
			}
		}
	}

	n := r.jobs
	if n > len(allJobs) {
		n = len(allJobs)
	}

	var removed []*vrp.Job
	touched := make(map[*vrp.RouteContext]struct{})
	chosen := make(map[int]struct{}, n)
	for len(chosen) < n {
		idx := ctx.Random.UniformInt(0, len(allJobs)-1)
		if _, ok := chosen[idx]; ok {
			continue
		}
		chosen[idx] = struct{}{}
		job := allJobs[idx]
		owner := ownerOf[idx]
		owner.Route.RemoveJob(job)
		removed = append(removed, job)
		touched[owner] = struct{}{}
	}
	for route := range touched {
		ctx.Problem.Constraint.AcceptRouteState(route)
	}

	return buildInsertionContext(ctx, routes, registry, removed), nil
}
