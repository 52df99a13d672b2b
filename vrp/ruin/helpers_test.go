package ruin

import "github.com/vrp-engine/vrp-engine/vrp"

// fixedTransport is a fake Transport where distance and duration both equal
// the absolute difference between location indices.
type fixedTransport struct{}

func (fixedTransport) Distance(profile string, from, to vrp.Location, departure float64) float64 {
	return absDiff(from, to)
}

func (fixedTransport) Duration(profile string, from, to vrp.Location, departure float64) float64 {
	return absDiff(from, to)
}

func absDiff(from, to vrp.Location) float64 {
	d := int(to) - int(from)
	if d < 0 {
		d = -d
	}
	return float64(d)
}

// singlePopulation is a fixed-membership stub satisfying vrp.Population,
// returning the same individuals in the same order every call.
type singlePopulation struct {
	individuals []*vrp.Individual
}

func (p *singlePopulation) Add(ind *vrp.Individual) { p.individuals = append(p.individuals, ind) }
func (p *singlePopulation) Best() (*vrp.Individual, bool) {
	if len(p.individuals) == 0 {
		return nil, false
	}
	return p.individuals[0], true
}
func (p *singlePopulation) All() []*vrp.Individual { return p.individuals }
func (p *singlePopulation) Size() int              { return len(p.individuals) }
func (p *singlePopulation) Select() *vrp.Individual {
	best, _ := p.Best()
	return best
}

// buildLineRoute builds a route for actor visiting jobs c0..c(n-1), each at
// location i+1, in order — the "10x1 matrix" shape SPEC_FULL §8's scenarios
// describe: one route, one job per location.
func buildLineRoute(actorID string, n int) *vrp.RouteContext {
	actor := vrp.Actor{
		ID: actorID,
		Vehicle: vrp.Vehicle{
			ID:      actorID + "-vehicle",
			Profile: "car",
			Shifts: []vrp.Shift{{
				Start: vrp.Place{Location: 0, Window: vrp.TimeWindow{Start: 0, End: 1e6}},
				End:   &vrp.Place{Location: 0, Window: vrp.TimeWindow{Start: 0, End: 1e6}},
			}},
		},
	}
	route := vrp.NewRoute(actor)
	for i := 0; i < n; i++ {
		job := &vrp.Job{
			ID: jobID(i),
			Tasks: []vrp.Task{{
				Kind:        vrp.TaskService,
				Location:    vrp.Location(i + 1),
				TimeWindows: []vrp.TimeWindow{{Start: 0, End: 1e6}},
			}},
		}
		route.InsertTask(job, 0, i+1)
	}
	return vrp.NewRouteContext(route)
}

func jobID(i int) string {
	const digits = "0123456789"
	return "c" + string(digits[i])
}

func buildLineProblem(t testingT, actorID string, n int) *vrp.Problem {
	actor := vrp.Actor{
		ID: actorID,
		Vehicle: vrp.Vehicle{
			ID:      actorID + "-vehicle",
			Profile: "car",
			Shifts: []vrp.Shift{{
				Start: vrp.Place{Location: 0, Window: vrp.TimeWindow{Start: 0, End: 1e6}},
				End:   &vrp.Place{Location: 0, Window: vrp.TimeWindow{Start: 0, End: 1e6}},
			}},
		},
	}
	var jobs []*vrp.Job
	for i := 0; i < n; i++ {
		jobs = append(jobs, &vrp.Job{
			ID: jobID(i),
			Tasks: []vrp.Task{{
				Kind:        vrp.TaskService,
				Location:    vrp.Location(i + 1),
				TimeWindows: []vrp.TimeWindow{{Start: 0, End: 1e6}},
			}},
		})
	}
	problem, err := vrp.NewProblem(jobs, vrp.Fleet{Actors: []vrp.Actor{actor}}, fixedTransport{}, nil, nil)
	if err != nil {
		t.Fatalf("buildLineProblem: %v", err)
	}
	return problem
}

// testingT is the minimal subset of *testing.T this helper needs, so it can
// live in a non-_test.go-suffixed... (kept here since only test files use it).
type testingT interface {
	Fatalf(format string, args ...interface{})
}
