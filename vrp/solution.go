package vrp

// Opaque route/activity state keys shared across constraint modules (§6).
// String-keyed rather than a package-wide iota enum: a third-party module
// defined outside this core can pick its own namespaced key without a central
// registry to avoid collisions with the built-ins below.
const (
	TotalDistanceKey     = "TOTAL_DISTANCE_KEY"
	TotalDurationKey     = "TOTAL_DURATION_KEY"
	LatestArrivalKey     = "LATEST_ARRIVAL_KEY"
	WaitingTimeKey       = "WAITING_TIME_KEY"
	CurrentCapacityKey   = "CURRENT_CAPACITY_KEY"
	MaxPastCapacityKey   = "MAX_PAST_CAPACITY_KEY"
	MaxFutureCapacityKey = "MAX_FUTURE_CAPACITY_KEY"
	ReloadIntervalsKey   = "RELOAD_INTERVALS"
)

// ReloadInterval is a maximal activity-index span between two consecutive
// reload stops (or the route's bounds), used by the capacity module and by
// WorkBalance's load-balanced flavor.
type ReloadInterval struct {
	Start int
	End   int
}

// ActivityKind distinguishes the two depot terminals from a job task stop.
type ActivityKind int

const (
	ActivityStart ActivityKind = iota
	ActivityEnd
	ActivityTask
	ActivityReload
)

// Activity is one entry in a route's ordered sequence.
type Activity struct {
	Kind        ActivityKind
	Job         *Job // nil for depot terminals
	TaskIndex   int  // index into Job.Tasks, meaningful only when Kind == ActivityTask
	Location    Location
	Duration    float64
	TimeWindows []TimeWindow
}

// Task returns the job task this activity represents, or nil for a depot
// terminal.
func (a Activity) Task() *Task {
	if a.Kind != ActivityTask || a.Job == nil {
		return nil
	}
	return &a.Job.Tasks[a.TaskIndex]
}

// RouteState is the per-route cache of opaque keyed values constraint modules
// read and write. Route-level values are a single value per key; activity-level
// values are indexed by activity position within Route.Activities.
type RouteState struct {
	route    map[string]interface{}
	activity map[string]map[int]interface{}
}

// NewRouteState returns an empty RouteState.
func NewRouteState() *RouteState {
	return &RouteState{route: make(map[string]interface{}), activity: make(map[string]map[int]interface{})}
}

// SetRoute stores a route-level value under key.
func (s *RouteState) SetRoute(key string, value interface{}) { s.route[key] = value }

// Route returns the route-level value stored under key, if any.
func (s *RouteState) Route(key string) (interface{}, bool) {
	v, ok := s.route[key]
	return v, ok
}

// SetActivity stores a value for key at activity index idx.
func (s *RouteState) SetActivity(key string, idx int, value interface{}) {
	byIdx, ok := s.activity[key]
	if !ok {
		byIdx = make(map[int]interface{})
		s.activity[key] = byIdx
	}
	byIdx[idx] = value
}

// Activity returns the value stored for key at activity index idx, if any.
func (s *RouteState) Activity(key string, idx int) (interface{}, bool) {
	byIdx, ok := s.activity[key]
	if !ok {
		return nil, false
	}
	v, ok := byIdx[idx]
	return v, ok
}

// Clear removes all route- and activity-level values. The built-in modules do
// not call it: their AcceptRouteState implementations overwrite their own
// keys in place.
func (s *RouteState) Clear() {
	s.route = make(map[string]interface{})
	s.activity = make(map[string]map[int]interface{})
}

// Clone returns a deep copy: mutating the copy never affects the original, and
// vice versa. Values themselves (Capacity, float64, []ReloadInterval) are
// treated as immutable once stored and are copied by value or by slice copy.
func (s *RouteState) Clone() *RouteState {
	out := NewRouteState()
	for k, v := range s.route {
		out.route[k] = cloneStateValue(v)
	}
	for k, byIdx := range s.activity {
		cp := make(map[int]interface{}, len(byIdx))
		for idx, v := range byIdx {
			cp[idx] = cloneStateValue(v)
		}
		out.activity[k] = cp
	}
	return out
}

func cloneStateValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Capacity:
		return append(Capacity(nil), val...)
	case []ReloadInterval:
		return append([]ReloadInterval(nil), val...)
	default:
		return v
	}
}

// Route is an actor's ordered sequence of activities, bracketed by start and
// end depot terminals.
type Route struct {
	Actor      Actor
	Activities []Activity
}

// NewRoute returns an empty route for actor, bracketed by start/end terminals
// built from the actor's first shift. Actors with no shifts get a zero-value
// terminal pair: both terminals at Location 0 with a [0, 0] time window.
// NewProblem does not reject shiftless actors.
func NewRoute(actor Actor) *Route {
	var start, end Place
	if len(actor.Vehicle.Shifts) > 0 {
		shift := actor.Vehicle.Shifts[0]
		start = shift.Start
		if shift.End != nil {
			end = *shift.End
		} else {
			end = shift.Start
		}
	}
	return &Route{
		Actor: actor,
		Activities: []Activity{
			{Kind: ActivityStart, Location: start.Location, TimeWindows: []TimeWindow{start.Window}},
			{Kind: ActivityEnd, Location: end.Location, TimeWindows: []TimeWindow{end.Window}},
		},
	}
}

// ActivityCount returns the number of activities, including both terminals.
func (r *Route) ActivityCount() int { return len(r.Activities) }

// HasJobs reports whether the route serves at least one job task.
func (r *Route) HasJobs() bool {
	for _, a := range r.Activities {
		if a.Kind == ActivityTask {
			return true
		}
	}
	return false
}

// Jobs returns the distinct jobs served by this route, in first-appearance
// order.
func (r *Route) Jobs() []*Job {
	seen := make(map[string]struct{})
	var out []*Job
	for _, a := range r.Activities {
		if a.Kind != ActivityTask || a.Job == nil {
			continue
		}
		if _, ok := seen[a.Job.ID]; ok {
			continue
		}
		seen[a.Job.ID] = struct{}{}
		out = append(out, a.Job)
	}
	return out
}

// InsertTask inserts the activity for job task taskIndex at position pos, an
// index into Activities: the new activity takes index pos, so 1 means right
// after the start terminal.
func (r *Route) InsertTask(job *Job, taskIndex int, pos int) {
	task := job.Tasks[taskIndex]
	activity := Activity{
		Kind:        ActivityTask,
		Job:         job,
		TaskIndex:   taskIndex,
		Location:    task.Location,
		Duration:    task.Duration,
		TimeWindows: task.TimeWindows,
	}
	r.Activities = append(r.Activities, Activity{})
	copy(r.Activities[pos+1:], r.Activities[pos:])
	r.Activities[pos] = activity
}

// RemoveJob removes every activity belonging to job from the route, returning
// the number of activities removed.
func (r *Route) RemoveJob(job *Job) int {
	kept := r.Activities[:0:0]
	removed := 0
	for _, a := range r.Activities {
		if a.Kind == ActivityTask && a.Job != nil && a.Job.ID == job.ID {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	r.Activities = kept
	return removed
}

// DeepCopy returns an independent copy of the route. Activities reference
// shared, immutable *Job values, so a shallow per-element copy of the
// Activities slice is sufficient.
func (r *Route) DeepCopy() *Route {
	return &Route{
		Actor:      r.Actor,
		Activities: append([]Activity(nil), r.Activities...),
	}
}

// RouteContext pairs a Route with its RouteState cache (§4.1/§4.2).
type RouteContext struct {
	Route *Route
	State *RouteState
}

// NewRouteContext wraps route in a fresh, empty RouteState.
func NewRouteContext(route *Route) *RouteContext {
	return &RouteContext{Route: route, State: NewRouteState()}
}

// DeepCopy returns an independent copy of the RouteContext, satisfying the law
// in SPEC_FULL §8: copy, re-accept, and both caches must agree.
func (rc *RouteContext) DeepCopy() *RouteContext {
	return &RouteContext{Route: rc.Route.DeepCopy(), State: rc.State.Clone()}
}

// ViolationCode is the opaque reason a job could not be inserted anywhere in
// the solution (§7 insertion exhaustion).
type ViolationCode int

// SolutionContext is the mutable working state of one recreate pass: the set
// of routes under construction, the jobs still to place, the jobs ignored this
// round, the jobs given up on, and the actor registry.
type SolutionContext struct {
	Routes     []*RouteContext
	Required   []*Job
	Ignored    []*Job
	Unassigned map[string]ViolationCode
	Registry   *Registry
}

// NewSolutionContext returns an empty SolutionContext backed by registry.
func NewSolutionContext(registry *Registry) *SolutionContext {
	return &SolutionContext{
		Unassigned: make(map[string]ViolationCode),
		Registry:   registry,
	}
}

// RemoveRequired removes job from Required, returning true if it was present.
func (sc *SolutionContext) RemoveRequired(job *Job) bool {
	for i, j := range sc.Required {
		if j.ID == job.ID {
			sc.Required = append(sc.Required[:i], sc.Required[i+1:]...)
			return true
		}
	}
	return false
}

// Solution is an immutable snapshot of routes plus unassigned jobs — the
// product of a completed recreate pass, paired with its Cost inside an
// Individual.
type Solution struct {
	Routes     []*RouteContext
	Unassigned map[string]ViolationCode
}

// ToSolution freezes a completed SolutionContext (Required and Ignored must be
// empty) into a Solution.
func (sc *SolutionContext) ToSolution() *Solution {
	unassigned := make(map[string]ViolationCode, len(sc.Unassigned))
	for k, v := range sc.Unassigned {
		unassigned[k] = v
	}
	return &Solution{
		Routes:     append([]*RouteContext(nil), sc.Routes...),
		Unassigned: unassigned,
	}
}

// DeepCopy returns an independent copy of the solution and a registry deep
// copy consistent with it, for building a fresh InsertionContext without
// mutating the surviving population member. The built-in ruin operators do
// not call it: they copy each job-bearing RouteContext and build a new
// Registry themselves.
func (s *Solution) DeepCopy(registry *Registry) ([]*RouteContext, *Registry) {
	routes := make([]*RouteContext, len(s.Routes))
	for i, rc := range s.Routes {
		routes[i] = rc.DeepCopy()
	}
	return routes, registry.DeepCopy()
}
