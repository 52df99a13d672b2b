package constraint

import (
	"gonum.org/v1/gonum/stat"

	"github.com/vrp-engine/vrp-engine/vrp"
)

// WorkBalanceFlavor selects what WorkBalance measures spread over: a route's
// peak capacity utilization, or its activity count (§4.2 "WorkBalance").
type WorkBalanceFlavor int

const (
	LoadBalanced WorkBalanceFlavor = iota
	ActivityBalanced
)

// LoadFunc scores how full a vehicle is at some point in its route, given the
// deepest capacity commitment reached from that point on (current) and the
// vehicle's own capacity vector (capacity). Translated from the original's
// generic load_func closure parameter into a Go function type: callers that
// need a different load metric — remaining volume instead of weight, say —
// supply their own rather than being stuck with componentMaxRatio.
type LoadFunc func(current, capacity vrp.Capacity) float64

// componentMaxRatio is the default LoadFunc: the largest current/capacity
// ratio across every dimension the vehicle actually carries capacity in.
// Dimensions where the vehicle declares zero or negative capacity are
// skipped rather than divided by zero.
func componentMaxRatio(current, capacity vrp.Capacity) float64 {
	ratio := 0.0
	for i, limit := range capacity {
		if limit <= 0 {
			continue
		}
		var have int
		if i < len(current) {
			have = current[i]
		}
		if r := float64(have) / float64(limit); r > ratio {
			ratio = r
		}
	}
	return ratio
}

// WorkBalanceModule contributes no hard constraints and owns no state of its
// own — it rides on CapacityModule's MAX_FUTURE_CAPACITY_KEY and
// RELOAD_INTERVALS and TimingModule's route totals — but it does shape
// insertion cost: every candidate placement is priced by how much it would
// spread, or fail to spread, work evenly across the fleet.
type WorkBalanceModule struct {
	flavor   WorkBalanceFlavor
	loadFunc LoadFunc
}

// NewWorkBalanceModule returns a WorkBalanceModule measuring flavor. For
// LoadBalanced it scores capacity utilization with componentMaxRatio;
// NewWorkBalanceModuleWithLoadFunc overrides that choice.
func NewWorkBalanceModule(flavor WorkBalanceFlavor) *WorkBalanceModule {
	return &WorkBalanceModule{flavor: flavor, loadFunc: componentMaxRatio}
}

// NewWorkBalanceModuleWithLoadFunc returns a LoadBalanced WorkBalanceModule
// using loadFunc in place of componentMaxRatio.
func NewWorkBalanceModuleWithLoadFunc(loadFunc LoadFunc) *WorkBalanceModule {
	return &WorkBalanceModule{flavor: LoadBalanced, loadFunc: loadFunc}
}

func (m *WorkBalanceModule) AcceptInsertion(*vrp.SolutionContext, *vrp.RouteContext, *vrp.Job) {}
func (m *WorkBalanceModule) AcceptRouteState(*vrp.RouteContext)                                {}
func (m *WorkBalanceModule) AcceptSolutionState(*vrp.SolutionContext)                          {}
func (m *WorkBalanceModule) StateKeys() []string                                              { return nil }

func (m *WorkBalanceModule) Constraints() []vrp.ConstraintVariant {
	return []vrp.ConstraintVariant{vrp.SoftRouteVariant(&workBalanceSoftRoute{flavor: m.flavor, loadFunc: m.loadFunc})}
}

// workBalanceSoftRoute prices a candidate (job, route) pair by the same
// max_cost(solution) scalar the objective's stdev is built from, scaled by
// the route's load ratio (LoadBalanced) or activity count (ActivityBalanced)
// — a route already carrying more than its share gets pricier to load
// further, nudging the insertion heuristic toward the lighter-loaded routes.
type workBalanceSoftRoute struct {
	flavor   WorkBalanceFlavor
	loadFunc LoadFunc
}

func (s *workBalanceSoftRoute) EstimateRoute(solution *vrp.SolutionContext, route *vrp.RouteContext, job *vrp.Job) float64 {
	maxCost := solutionMaxCost(solution.Routes)
	if s.flavor == ActivityBalanced {
		return float64(len(route.Route.Activities)) * maxCost
	}
	return maxCost * maxLoadRatio(route, s.loadFunc)
}

// WorkBalanceObjective estimates a solution's cost as the standard deviation,
// across its routes, of either capacity load ratio (LoadBalanced) or activity
// count (ActivityBalanced) — a solution where every actor carries an even
// share scores lower than one where a few actors carry most of the work.
// Only routes actually serving a job enter the spread: an idle, depot-only
// route isn't "imbalanced", it's simply unused.
type WorkBalanceObjective struct {
	flavor   WorkBalanceFlavor
	loadFunc LoadFunc
}

// NewWorkBalanceObjective returns a WorkBalanceObjective measuring flavor,
// scoring LoadBalanced capacity with componentMaxRatio.
func NewWorkBalanceObjective(flavor WorkBalanceFlavor) *WorkBalanceObjective {
	return &WorkBalanceObjective{flavor: flavor, loadFunc: componentMaxRatio}
}

// NewWorkBalanceObjectiveWithLoadFunc returns a LoadBalanced
// WorkBalanceObjective using loadFunc in place of componentMaxRatio. The
// objective and the SoftRoute contribution shaping insertion toward it
// should always be constructed with the same loadFunc.
func NewWorkBalanceObjectiveWithLoadFunc(loadFunc LoadFunc) *WorkBalanceObjective {
	return &WorkBalanceObjective{flavor: LoadBalanced, loadFunc: loadFunc}
}

func (o *WorkBalanceObjective) Estimate(solution *vrp.Solution) float64 {
	routes := make([]*vrp.RouteContext, 0, len(solution.Routes))
	for _, rc := range solution.Routes {
		if rc.Route.HasJobs() {
			routes = append(routes, rc)
		}
	}
	if len(routes) < 2 {
		return 0
	}

	values := make([]float64, len(routes))
	for i, rc := range routes {
		switch o.flavor {
		case ActivityBalanced:
			values[i] = float64(len(rc.Route.Activities))
		default:
			values[i] = maxLoadRatio(rc, o.loadFunc)
		}
	}
	return stat.StdDev(values, nil)
}

// maxLoadRatio is the maximum, over route's reload-interval start
// activities, of loadFunc applied to the capacity committed from that point
// onward (MAX_FUTURE_CAPACITY_KEY) against the vehicle's own capacity. A
// route with no RELOAD_INTERVALS state yet (CapacityModule hasn't run, or
// the route is empty) is treated as one interval spanning its whole length.
func maxLoadRatio(rc *vrp.RouteContext, loadFunc LoadFunc) float64 {
	intervals := reloadIntervalsOf(rc)
	capacity := rc.Route.Actor.Vehicle.Capacity

	ratio := 0.0
	for _, iv := range intervals {
		if iv.Start < 0 || iv.Start >= len(rc.Route.Activities) {
			continue
		}
		var current vrp.Capacity
		if v, ok := rc.State.Activity(vrp.MaxFutureCapacityKey, iv.Start); ok {
			current, _ = v.(vrp.Capacity)
		}
		if r := loadFunc(current, capacity); r > ratio {
			ratio = r
		}
	}
	return ratio
}

func reloadIntervalsOf(rc *vrp.RouteContext) []vrp.ReloadInterval {
	if v, ok := rc.State.Route(vrp.ReloadIntervalsKey); ok {
		if intervals, ok := v.([]vrp.ReloadInterval); ok && len(intervals) > 0 {
			return intervals
		}
	}
	return []vrp.ReloadInterval{{Start: 0, End: len(rc.Route.Activities) - 1}}
}

// solutionMaxCost is max_cost(solution): the largest total cost any single
// route in the solution would incur, vehicle and driver cost blocks summed,
// each block priced as fixed + per_distance*distance + the single largest of
// per_driving_time/per_service_time/per_waiting_time times the route's total
// duration. Used as a per-solution scalar multiplier, not a per-route value —
// every route in the solution is priced against the same worst-case route.
func solutionMaxCost(routes []*vrp.RouteContext) float64 {
	max := 0.0
	for _, rc := range routes {
		if c := routeCost(rc); c > max {
			max = c
		}
	}
	return max
}

func routeCost(rc *vrp.RouteContext) float64 {
	var distance, duration float64
	if v, ok := rc.State.Route(vrp.TotalDistanceKey); ok {
		distance = v.(float64)
	}
	if v, ok := rc.State.Route(vrp.TotalDurationKey); ok {
		duration = v.(float64)
	}

	actor := rc.Route.Actor
	return costBlock(actor.Vehicle.Costs, distance, duration) + costBlock(actor.Driver.Costs, distance, duration)
}

// costBlock prices one (vehicle or driver) cost block: a fixed charge, a
// per-distance charge, and a single time charge at whichever of the three
// time coefficients is largest — the original doesn't separately weight
// driving, service, and waiting time against three different time bases, it
// picks the steepest coefficient and applies it once against total duration.
func costBlock(costs vrp.Costs, distance, duration float64) float64 {
	timeRate := costs.PerDrivingTime
	if costs.PerServiceTime > timeRate {
		timeRate = costs.PerServiceTime
	}
	if costs.PerWaitingTime > timeRate {
		timeRate = costs.PerWaitingTime
	}
	return costs.Fixed + costs.PerDistance*distance + timeRate*duration
}
