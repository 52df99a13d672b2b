package constraint

import "github.com/vrp-engine/vrp-engine/vrp"

const (
	codeCapacityOverflow vrp.ViolationCode = iota + 200
)

// CapacityModule validates, at every point along a route, that the
// component-wise cumulative demand fits the actor's capacity vector (§4.2).
// Pickups add demand at the pickup activity and remove it again at the
// matching delivery; deliveries do the opposite; services and replacements
// contribute no net change.
type CapacityModule struct{}

// NewCapacityModule returns a CapacityModule.
func NewCapacityModule() *CapacityModule { return &CapacityModule{} }

func (m *CapacityModule) AcceptInsertion(*vrp.SolutionContext, *vrp.RouteContext, *vrp.Job) {}

// AcceptRouteState rebuilds CURRENT_CAPACITY_KEY, MAX_PAST_CAPACITY_KEY,
// MAX_FUTURE_CAPACITY_KEY per activity, and RELOAD_INTERVALS for the route.
func (m *CapacityModule) AcceptRouteState(route *vrp.RouteContext) {
	activities := route.Route.Activities
	n := len(activities)

	current := make([]vrp.Capacity, n)
	var running vrp.Capacity
	for i, a := range activities {
		running = running.Add(signedDemand(a))
		current[i] = running
	}

	maxPast := make([]vrp.Capacity, n)
	var runningMax vrp.Capacity
	for i := 0; i < n; i++ {
		runningMax = runningMax.Max(current[i])
		maxPast[i] = runningMax
	}

	maxFuture := make([]vrp.Capacity, n)
	var runningFutureMax vrp.Capacity
	for i := n - 1; i >= 0; i-- {
		runningFutureMax = runningFutureMax.Max(current[i])
		maxFuture[i] = runningFutureMax
	}

	for i := 0; i < n; i++ {
		route.State.SetActivity(vrp.CurrentCapacityKey, i, current[i])
		route.State.SetActivity(vrp.MaxPastCapacityKey, i, maxPast[i])
		route.State.SetActivity(vrp.MaxFutureCapacityKey, i, maxFuture[i])
	}

	route.State.SetRoute(vrp.ReloadIntervalsKey, reloadIntervals(activities))
}

func (m *CapacityModule) AcceptSolutionState(*vrp.SolutionContext) {}

func (m *CapacityModule) StateKeys() []string {
	return []string{vrp.CurrentCapacityKey, vrp.MaxPastCapacityKey, vrp.MaxFutureCapacityKey, vrp.ReloadIntervalsKey}
}

func (m *CapacityModule) Constraints() []vrp.ConstraintVariant {
	return []vrp.ConstraintVariant{vrp.HardActivityVariant(&capacityHardActivity{})}
}

type capacityHardActivity struct{}

// EvaluateActivity rejects a slot if inserting the task there would push
// cumulative demand, at that point or at any later point the insertion
// shifts, past the actor's capacity. Not reported Stopped: a later position in
// the same route may still fit, since cumulative demand is not monotonic in
// position (deliveries free up capacity).
func (h *capacityHardActivity) EvaluateActivity(route *vrp.RouteContext, job *vrp.Job, taskIndex, pos int) *vrp.ActivityViolation {
	task := job.Tasks[taskIndex]
	if len(task.Demand) == 0 {
		return nil
	}
	capacity := route.Route.Actor.Vehicle.Capacity
	if len(capacity) == 0 {
		return nil
	}

	delta := signedDemandFor(task)
	activities := route.Route.Activities

	var running vrp.Capacity
	for i, a := range activities {
		if i == pos {
			running = running.Add(delta)
			if !running.FitsIn(capacity) && !negativeFitsWithinZero(running) {
				return &vrp.ActivityViolation{Code: codeCapacityOverflow, Stopped: false}
			}
		}
		running = running.Add(signedDemand(a))
		if !running.FitsIn(capacity) && !negativeFitsWithinZero(running) {
			return &vrp.ActivityViolation{Code: codeCapacityOverflow, Stopped: false}
		}
	}
	return nil
}

// negativeFitsWithinZero reports whether every component of c is <= 0 — a
// route can always carry negative residual demand (e.g. a delivery whose
// pickup hasn't been modeled as occurring on this route), it only overflows
// when a component exceeds the actor's positive capacity.
func negativeFitsWithinZero(c vrp.Capacity) bool {
	for _, v := range c {
		if v > 0 {
			return false
		}
	}
	return true
}

func signedDemand(a vrp.Activity) vrp.Capacity {
	if a.Kind != vrp.ActivityTask {
		return nil
	}
	return signedDemandFor(*a.Task())
}

func signedDemandFor(task vrp.Task) vrp.Capacity {
	switch task.Kind {
	case vrp.TaskPickup:
		return task.Demand
	case vrp.TaskDelivery:
		return negate(task.Demand)
	default:
		return nil
	}
}

func negate(c vrp.Capacity) vrp.Capacity {
	out := make(vrp.Capacity, len(c))
	for i, v := range c {
		out[i] = -v
	}
	return out
}

// reloadIntervals partitions activity indices into maximal spans between
// consecutive ActivityReload stops (the Glossary's "reload interval"). A route
// with no reload stops is one interval spanning the whole route.
func reloadIntervals(activities []vrp.Activity) []vrp.ReloadInterval {
	var intervals []vrp.ReloadInterval
	start := 0
	for i, a := range activities {
		if a.Kind == vrp.ActivityReload {
			intervals = append(intervals, vrp.ReloadInterval{Start: start, End: i})
			start = i
		}
	}
	intervals = append(intervals, vrp.ReloadInterval{Start: start, End: len(activities) - 1})
	return intervals
}
