package constraint

import "github.com/vrp-engine/vrp-engine/vrp"

const (
	codeTravelLimit vrp.ViolationCode = iota + 300
)

// TravelingModule caps the total distance and/or duration a route may
// accumulate over a shift, per an externally supplied TravelLimit (§4.2). It
// depends on TimingModule's TOTAL_DISTANCE_KEY/TOTAL_DURATION_KEY route
// totals having already been computed this AcceptRouteState pass — the
// caller must register TimingModule before TravelingModule in the pipeline.
type TravelingModule struct {
	limit     vrp.TravelLimit
	transport vrp.Transport
}

// NewTravelingModule returns a TravelingModule enforcing limit, using
// transport to price a candidate insertion's marginal travel before the
// route-level totals are rebuilt.
func NewTravelingModule(limit vrp.TravelLimit, transport vrp.Transport) *TravelingModule {
	return &TravelingModule{limit: limit, transport: transport}
}

func (m *TravelingModule) AcceptInsertion(*vrp.SolutionContext, *vrp.RouteContext, *vrp.Job) {}

func (m *TravelingModule) AcceptRouteState(*vrp.RouteContext) {}

func (m *TravelingModule) AcceptSolutionState(*vrp.SolutionContext) {}

func (m *TravelingModule) StateKeys() []string { return nil }

func (m *TravelingModule) Constraints() []vrp.ConstraintVariant {
	return []vrp.ConstraintVariant{vrp.HardRouteVariant(&travelingHardRoute{module: m})}
}

type travelingHardRoute struct{ module *TravelingModule }

// EvaluateRoute rejects the whole route once its actor's shift-level distance
// or duration limit is exceeded. Measured against the route's current
// (pre-insertion) totals only: a job whose own travel would push the route
// over the limit is not rejected, so a route can end up past its limit by
// the last job inserted into it. No module checks the limit per slot.
func (h *travelingHardRoute) EvaluateRoute(solution *vrp.SolutionContext, route *vrp.RouteContext, job *vrp.Job) *vrp.RouteViolation {
	maxDistance, maxDuration := h.module.limit(route.Route.Actor)
	if maxDistance <= 0 && maxDuration <= 0 {
		return nil
	}

	distance, duration := h.module.routeTotals(route)
	if maxDistance > 0 && distance > maxDistance {
		return &vrp.RouteViolation{Code: codeTravelLimit}
	}
	if maxDuration > 0 && duration > maxDuration {
		return &vrp.RouteViolation{Code: codeTravelLimit}
	}
	return nil
}

// routeTotals reads TimingModule's cached totals, falling back to a direct
// walk of the route when Timing hasn't run yet (e.g. a brand-new route with
// no AcceptRouteState call so far).
func (m *TravelingModule) routeTotals(route *vrp.RouteContext) (distance, duration float64) {
	if v, ok := route.State.Route(vrp.TotalDistanceKey); ok {
		distance = v.(float64)
	}
	if v, ok := route.State.Route(vrp.TotalDurationKey); ok {
		duration = v.(float64)
	}
	if distance == 0 && duration == 0 {
		activities := route.Route.Activities
		profile := route.Route.Actor.Vehicle.Profile
		for i := 1; i < len(activities); i++ {
			distance += m.transport.Distance(profile, activities[i-1].Location, activities[i].Location, 0)
			duration += m.transport.Duration(profile, activities[i-1].Location, activities[i].Location, 0)
		}
	}
	return
}
