// Package vrp implements the core of a vehicle routing problem solver: an
// insertion heuristic governed by a pluggable constraint pipeline, an Adjusted
// String Removal ruin operator, and an NSGA-II style dominance-ranked
// population. It consumes a validated Problem and emits Individual values;
// problem ingestion (CSV/JSON import), the CLI driver, and concrete distance
// matrices are collaborators outside this package.
//
// # Reading Guide
//
// Start with these files to understand the solver's shape:
//   - model.go: Problem, Job, Fleet, Transport — the immutable input
//   - solution.go: Solution, Route, RouteContext — the mutable working state
//   - insertion.go: the recreate heuristic that places jobs onto routes
//   - solver.go: the generational loop tying ruin, recreate, and population together
//
// # Sub-packages
//
//   - vrp/constraint: built-in ConstraintModule implementations (Timing, Capacity,
//     Traveling, StrictLocking, Conditional, Skills, WorkBalance)
//   - vrp/ruin: RuinStrategy implementations, including AdjustedStringRemoval
//   - vrp/population: DominancePopulation, non-dominated sort, crowding distance
//
// Sub-packages depend on vrp, never the reverse: a Pipeline is just a slice of
// ConstraintModule values assembled by the caller from vrp/constraint types, the
// same way a Population is assembled from vrp/population types.
package vrp

import "fmt"

// Location identifies a point in the transport matrix. The core never
// interprets a Location beyond using it as a key into Transport; concrete
// coordinates belong to the collaborator that built the matrix.
type Location int

// TimeWindow is a closed interval [Start, End] in the problem's time unit.
type TimeWindow struct {
	Start float64
	End   float64
}

func (tw TimeWindow) valid() bool { return tw.Start <= tw.End }

// TaskKind distinguishes the four task shapes spec.md §3 describes.
type TaskKind int

const (
	TaskService TaskKind = iota
	TaskPickup
	TaskDelivery
	TaskReplacement
)

func (k TaskKind) String() string {
	switch k {
	case TaskPickup:
		return "pickup"
	case TaskDelivery:
		return "delivery"
	case TaskReplacement:
		return "replacement"
	default:
		return "service"
	}
}

// Capacity is a per-dimension demand or capacity vector. All core arithmetic on
// capacities is component-wise; a nil Capacity behaves as an all-zero vector of
// matching length.
type Capacity []int

// Add returns the component-wise sum of c and other. If the lengths differ,
// the shorter vector is treated as zero-padded to the longer one's length.
func (c Capacity) Add(other Capacity) Capacity {
	return zipCapacity(c, other, func(a, b int) int { return a + b })
}

// Sub returns the component-wise difference c - other.
func (c Capacity) Sub(other Capacity) Capacity {
	return zipCapacity(c, other, func(a, b int) int { return a - b })
}

// FitsIn reports whether every component of c is <= the corresponding
// component of limit.
func (c Capacity) FitsIn(limit Capacity) bool {
	n := len(c)
	if len(limit) > n {
		n = len(limit)
	}
	for i := 0; i < n; i++ {
		if at(c, i) > at(limit, i) {
			return false
		}
	}
	return true
}

// Max returns the component-wise maximum of c and other.
func (c Capacity) Max(other Capacity) Capacity {
	return zipCapacity(c, other, func(a, b int) int {
		if a > b {
			return a
		}
		return b
	})
}

func at(c Capacity, i int) int {
	if i < len(c) {
		return c[i]
	}
	return 0
}

func zipCapacity(a, b Capacity, f func(int, int) int) Capacity {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Capacity, n)
	for i := 0; i < n; i++ {
		out[i] = f(at(a, i), at(b, i))
	}
	return out
}

// Task is one place a job's tour must visit: a location, a service duration, an
// optional set of feasible time windows, and the demand it contributes.
// Demand is always non-negative; its effect (added at a pickup, removed at a
// delivery, ignored at a service, net-zero at a replacement) is applied by the
// capacity constraint module based on Kind.
type Task struct {
	Kind        TaskKind
	Location    Location
	Duration    float64
	TimeWindows []TimeWindow // empty means unconstrained
	Demand      Capacity
}

// Job is either a single place to visit or a multi-task job whose tasks (e.g. a
// pickup and its matching delivery) must all be served, in the order given, by
// the same actor.
type Job struct {
	ID       string
	Tasks    []Task
	Priority *int     // nil means unset; no built-in module or objective reads it
	Skills   []string // required skills; nil/empty means none required
}

// Costs groups the linear cost coefficients spec.md §3 assigns to a vehicle or
// a driver. The work balance module's SoftRoute contribution reads these to
// price a route; the insertion heuristic and the objectives do not read them.
type Costs struct {
	Fixed          float64
	PerDistance    float64
	PerDrivingTime float64
	PerServiceTime float64
	PerWaitingTime float64
}

// Place pairs a Location with an optional TimeWindow, used for shift start/end
// and reload stops.
type Place struct {
	Location Location
	Window   TimeWindow
}

// Break is an optional, schedulable rest period within a shift.
type Break struct {
	Duration    float64
	TimeWindows []TimeWindow
}

// Shift is one working period of a vehicle: where and when it starts, where and
// when it (optionally) ends, its breaks, and its reload stops.
type Shift struct {
	Start   Place
	End     *Place // nil means open-ended (vehicle need not return)
	Breaks  []Break
	Reloads []Place
}

// Vehicle is the physical asset side of an Actor.
type Vehicle struct {
	ID       string
	Profile  string
	Costs    Costs
	Capacity Capacity
	Shifts   []Shift
	Skills   []string
}

// Driver is the human side of an Actor; it contributes its own cost block.
type Driver struct {
	ID    string
	Costs Costs
}

// Actor is a (vehicle, driver) pairing capable of performing a route.
type Actor struct {
	ID      string
	Vehicle Vehicle
	Driver  Driver
}

// Profile names a routing matrix; Transport implementations key their distance
// and duration tables by profile name.
type Profile struct {
	Name string
}

// Fleet is the set of actors and profiles available to the solver.
type Fleet struct {
	Actors   []Actor
	Profiles []Profile
}

// Transport is the read-only distance/duration oracle. Both methods must
// return non-negative values; symmetry (distance(a,b) == distance(b,a)) is a
// property of the caller's matrix, not a core requirement.
type Transport interface {
	Distance(profile string, from, to Location, departure float64) float64
	Duration(profile string, from, to Location, departure float64) float64
}

// TravelLimit returns the maximum distance and duration an actor's shift may
// accumulate; either may be 0 to mean "no limit" for that dimension.
type TravelLimit func(actor Actor) (maxDistance, maxDuration float64)

// Problem is the immutable input to a solver run: jobs, fleet, transport, the
// constraint pipeline, and the objective vector. Constructed once via
// NewProblem and never mutated afterward.
type Problem struct {
	Jobs       []*Job
	Fleet      Fleet
	Transport  Transport
	Constraint *Pipeline
	Objective  *MultiObjective

	jobsByID map[string]*Job
}

// NewProblem validates and assembles a Problem. It enforces the ingestion
// rules spec.md §6 requires: unique job IDs, non-negative demands per
// component, well-formed time windows, and a non-empty capacity vector whose
// dimensionality matches every task's demand vector.
func NewProblem(jobs []*Job, fleet Fleet, transport Transport, pipeline *Pipeline, objective *MultiObjective) (*Problem, error) {
	if transport == nil {
		return nil, newValidationError("transport", "transport oracle must not be nil")
	}
	if len(fleet.Actors) == 0 {
		return nil, newValidationError("fleet", "fleet must have at least one actor")
	}

	dim := -1
	seen := make(map[string]struct{}, len(jobs))
	byID := make(map[string]*Job, len(jobs))
	for _, job := range jobs {
		if job == nil {
			return nil, newValidationError("job", "nil job in job list")
		}
		if job.ID == "" {
			return nil, newValidationError("job", "job ID must not be empty")
		}
		if _, dup := seen[job.ID]; dup {
			return nil, newValidationError("job", fmt.Sprintf("duplicate job ID %q", job.ID))
		}
		seen[job.ID] = struct{}{}
		byID[job.ID] = job

		for _, task := range job.Tasks {
			for _, tw := range task.TimeWindows {
				if !tw.valid() {
					return nil, newValidationError("job", fmt.Sprintf("job %q has time window with start > end", job.ID))
				}
			}
			for _, component := range task.Demand {
				if component < 0 {
					return nil, newValidationError("job", fmt.Sprintf("job %q has negative demand component", job.ID))
				}
			}
			if len(task.Demand) > 0 {
				if dim == -1 {
					dim = len(task.Demand)
				} else if dim != len(task.Demand) {
					return nil, newValidationError("job", fmt.Sprintf("job %q demand dimensionality %d does not match prior %d", job.ID, len(task.Demand), dim))
				}
			}
		}
	}

	for _, actor := range fleet.Actors {
		if actor.ID == "" {
			return nil, newValidationError("actor", "actor ID must not be empty")
		}
		if dim != -1 && len(actor.Vehicle.Capacity) == 0 {
			return nil, newValidationError("actor", fmt.Sprintf("actor %q has empty capacity but jobs carry demand", actor.ID))
		}
		if dim != -1 && len(actor.Vehicle.Capacity) != dim {
			return nil, newValidationError("actor", fmt.Sprintf("actor %q capacity dimensionality %d does not match job demand dimensionality %d", actor.ID, len(actor.Vehicle.Capacity), dim))
		}
	}

	if pipeline == nil {
		pipeline = NewPipeline()
	}
	if objective == nil {
		objective = NewMultiObjective()
	}

	return &Problem{
		Jobs:       jobs,
		Fleet:      fleet,
		Transport:  transport,
		Constraint: pipeline,
		Objective:  objective,
		jobsByID:   byID,
	}, nil
}

// JobByID looks up a job by ID, returning nil if absent.
func (p *Problem) JobByID(id string) *Job { return p.jobsByID[id] }

// Size returns the total number of jobs in the problem.
func (p *Problem) Size() int { return len(p.Jobs) }
