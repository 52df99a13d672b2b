// Package constraint holds the built-in ConstraintModule implementations
// spec.md §4.2 names: Timing, Capacity, Traveling, StrictLocking, Conditional,
// the supplemented Skills module, and WorkBalance. Each module implements
// vrp.ConstraintModule and contributes vrp.ConstraintVariant values; a caller
// assembles a vrp.Pipeline from whichever subset a problem needs, the same way
// the teacher's sim/kv and sim/latency packages implement sim interfaces and
// let the caller wire up concrete strategies.
package constraint

import (
	"math"

	"github.com/vrp-engine/vrp-engine/vrp"
)

// Timing violation codes. Assigned via iota in this file only — no other
// module may reuse these values, per §6 "modules must not collide".
const (
	codeTimeWindow vrp.ViolationCode = iota + 100
)

// TimingModule enforces time-window feasibility and prices the travel-time
// contribution of a candidate slot, using the problem's Transport oracle.
type TimingModule struct {
	transport vrp.Transport
}

// NewTimingModule returns a TimingModule that queries transport for travel
// times.
func NewTimingModule(transport vrp.Transport) *TimingModule {
	return &TimingModule{transport: transport}
}

func (m *TimingModule) AcceptInsertion(*vrp.SolutionContext, *vrp.RouteContext, *vrp.Job) {}

// AcceptRouteState rebuilds LATEST_ARRIVAL_KEY and WAITING_TIME_KEY for every
// activity, plus the route-level TOTAL_DISTANCE_KEY and TOTAL_DURATION_KEY
// totals, by forward-simulating the route from its start terminal.
func (m *TimingModule) AcceptRouteState(route *vrp.RouteContext) {
	activities := route.Route.Activities
	profile := route.Route.Actor.Vehicle.Profile

	arrival, waiting := simulateForward(m.transport, profile, activities)

	totalDistance, totalDuration := 0.0, 0.0
	for i := 1; i < len(activities); i++ {
		departure := arrival[i-1] + waiting[i-1] + activities[i-1].Duration
		totalDistance += m.transport.Distance(profile, activities[i-1].Location, activities[i].Location, departure)
		totalDuration += m.transport.Duration(profile, activities[i-1].Location, activities[i].Location, departure)
	}

	route.State.SetRoute(vrp.TotalDistanceKey, totalDistance)
	route.State.SetRoute(vrp.TotalDurationKey, totalDuration)

	for i := range activities {
		route.State.SetActivity(vrp.WaitingTimeKey, i, waiting[i])
		route.State.SetActivity(vrp.LatestArrivalKey, i, latestArrival(activities, m.transport, profile, i))
	}
}

func (m *TimingModule) AcceptSolutionState(*vrp.SolutionContext) {}

func (m *TimingModule) StateKeys() []string {
	return []string{vrp.TotalDistanceKey, vrp.TotalDurationKey, vrp.LatestArrivalKey, vrp.WaitingTimeKey}
}

func (m *TimingModule) Constraints() []vrp.ConstraintVariant {
	return []vrp.ConstraintVariant{
		vrp.HardActivityVariant(&timingHardActivity{module: m}),
		vrp.SoftActivityVariant(&timingSoftActivity{module: m}),
	}
}

type timingHardActivity struct{ module *TimingModule }

// EvaluateActivity rejects a slot whose arrival would miss every one of the
// task's time windows. A rejection is reported Stopped: forward arrival times
// are non-decreasing in pos for a FIFO route, so once a task arrives too late
// at position pos it will also arrive too late at every later position in the
// same route.
func (h *timingHardActivity) EvaluateActivity(route *vrp.RouteContext, job *vrp.Job, taskIndex, pos int) *vrp.ActivityViolation {
	task := job.Tasks[taskIndex]
	activities := route.Route.Activities
	if pos <= 0 || pos >= len(activities) {
		return &vrp.ActivityViolation{Code: codeTimeWindow, Stopped: true}
	}

	arrival, waiting := simulateForward(h.module.transport, route.Route.Actor.Vehicle.Profile, activities[:pos])
	prev := activities[pos-1]
	departure := arrival[pos-1] + waiting[pos-1] + prev.Duration
	travel := h.module.transport.Duration(route.Route.Actor.Vehicle.Profile, prev.Location, task.Location, departure)
	arrivalAtTask := departure + travel

	if len(task.TimeWindows) == 0 {
		return nil
	}
	for _, tw := range task.TimeWindows {
		if arrivalAtTask <= tw.End {
			return nil
		}
	}
	return &vrp.ActivityViolation{Code: codeTimeWindow, Stopped: true}
}

type timingSoftActivity struct{ module *TimingModule }

// EstimateActivity prices a slot by the travel time to reach it plus any
// waiting time incurred once there — the time-cost contribution §4.2
// describes.
func (s *timingSoftActivity) EstimateActivity(route *vrp.RouteContext, job *vrp.Job, taskIndex, pos int) float64 {
	task := job.Tasks[taskIndex]
	activities := route.Route.Activities
	if pos <= 0 || pos >= len(activities) {
		return 0
	}

	arrival, waiting := simulateForward(s.module.transport, route.Route.Actor.Vehicle.Profile, activities[:pos])
	prev := activities[pos-1]
	departure := arrival[pos-1] + waiting[pos-1] + prev.Duration
	travel := s.module.transport.Duration(route.Route.Actor.Vehicle.Profile, prev.Location, task.Location, departure)
	arrivalAtTask := departure + travel

	waitAtTask := 0.0
	if len(task.TimeWindows) > 0 && arrivalAtTask < task.TimeWindows[0].Start {
		waitAtTask = task.TimeWindows[0].Start - arrivalAtTask
	}

	return travel + waitAtTask
}

// simulateForward walks activities from its start terminal, returning the
// arrival and waiting time at each position. Recomputed on demand rather than
// read from cached RouteState: during a trial insertion the route's
// Activities slice is mutated ahead of any AcceptRouteState call, so a cache
// read here could observe stale values.
func simulateForward(transport vrp.Transport, profile string, activities []vrp.Activity) (arrival, waiting []float64) {
	n := len(activities)
	arrival = make([]float64, n)
	waiting = make([]float64, n)
	if n == 0 {
		return
	}
	arrival[0] = windowStart(activities[0])

	for i := 1; i < n; i++ {
		prev, cur := activities[i-1], activities[i]
		departure := arrival[i-1] + waiting[i-1] + prev.Duration
		travel := transport.Duration(profile, prev.Location, cur.Location, departure)
		raw := departure + travel
		start := windowStart(cur)
		if raw < start {
			arrival[i] = start
			waiting[i] = start - raw
		} else {
			arrival[i] = raw
		}
	}
	return
}

// latestArrival backward-propagates each activity's deadline: the latest time
// the route can arrive at position i and still meet every downstream time
// window, approximating travel times using the already-known forward arrival
// as the departure estimate.
func latestArrival(activities []vrp.Activity, transport vrp.Transport, profile string, i int) float64 {
	n := len(activities)
	deadline := windowEnd(activities[n-1])
	arrival, waiting := simulateForward(transport, profile, activities)

	for j := n - 2; j >= i; j-- {
		departure := arrival[j] + waiting[j] + activities[j].Duration
		travel := transport.Duration(profile, activities[j].Location, activities[j+1].Location, departure)
		candidate := deadline - travel - activities[j].Duration
		if ownDeadline := windowEnd(activities[j]); ownDeadline < candidate {
			candidate = ownDeadline
		}
		deadline = candidate
	}
	return deadline
}

func windowStart(a vrp.Activity) float64 {
	if len(a.TimeWindows) == 0 {
		return 0
	}
	return a.TimeWindows[0].Start
}

func windowEnd(a vrp.Activity) float64 {
	if len(a.TimeWindows) == 0 {
		return math.Inf(1)
	}
	return a.TimeWindows[0].End
}
