package vrp

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyPopulation is a minimal Population stub that records how many times
// Select was called and how many individuals were ever Added — enough to
// confirm the generational loop drives selection and survival through the
// Population interface rather than bypassing it.
type spyPopulation struct {
	mu         sync.Mutex
	selects    int
	added      []*Individual
	individual *Individual
}

func newSpyPopulation(seed *Individual) *spyPopulation {
	return &spyPopulation{individual: seed}
}

func (p *spyPopulation) Add(ind *Individual) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added = append(p.added, ind)
}

func (p *spyPopulation) Best() (*Individual, bool) { return p.individual, p.individual != nil }
func (p *spyPopulation) All() []*Individual        { return []*Individual{p.individual} }
func (p *spyPopulation) Size() int                 { return 1 }

// Select is what every production RuinStrategy calls to pick a parent
// (§4.5); recording calls here catches a regression where the generational
// loop's wiring stops reaching it.
func (p *spyPopulation) Select() *Individual {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selects++
	return p.individual
}

func (p *spyPopulation) selectCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selects
}

func (p *spyPopulation) addedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.added)
}

// recordingRuin mimics a real RuinStrategy's shape (select a parent, draw
// from ctx.Random, return a no-op InsertionContext) while recording which
// Random instance each concurrent attempt saw and the value it drew from it.
type recordingRuin struct {
	mu      sync.Mutex
	randoms []Random
	draws   []int
}

func (r *recordingRuin) Ruin(ctx *RefinementContext) (*InsertionContext, error) {
	parent := ctx.Population.Select()
	if parent == nil {
		return nil, NewInvariantError("recordingRuin.Ruin", "no parent available")
	}
	draw := ctx.Random.UniformInt(0, 1<<30)

	r.mu.Lock()
	r.randoms = append(r.randoms, ctx.Random)
	r.draws = append(r.draws, draw)
	r.mu.Unlock()

	registry := NewRegistry(ctx.Problem.Fleet.Actors)
	solution := NewSolutionContext(registry)
	return NewInsertionContext(ctx.Problem, solution, InsertionProgress{Total: ctx.Problem.Size()}, ctx.Random), nil
}

func testProblem(t *testing.T) *Problem {
	t.Helper()
	actor := Actor{ID: "a1", Vehicle: Vehicle{ID: "a1-vehicle"}}
	problem, err := NewProblem(nil, Fleet{Actors: []Actor{actor}}, fakeTransport{}, nil, NewMultiObjective())
	require.NoError(t, err)
	return problem
}

type fakeTransport struct{}

func (fakeTransport) Distance(string, Location, Location, float64) float64 { return 0 }
func (fakeTransport) Duration(string, Location, Location, float64) float64 { return 0 }

func newTestSolver(t *testing.T, ruinStrategy RuinStrategy, width int) (*Solver, *spyPopulation) {
	t.Helper()
	problem := testProblem(t)
	seed := NewIndividual(&Solution{Unassigned: map[string]ViolationCode{}}, problem.Objective)
	population := newSpyPopulation(seed)

	config := SolverConfig{Concurrency: width}
	log := logrus.NewEntry(logrus.New())
	solver := NewSolver(problem, population, ruinStrategy, NewDefaultRandom(1), config, log)
	return solver, population
}

func TestSolver_RunGeneration_CallsPopulationSelectPerAttempt(t *testing.T) {
	ruin := &recordingRuin{}
	solver, population := newTestSolver(t, ruin, 5)

	require.NoError(t, solver.runGeneration(0, 5))

	assert.Equal(t, 5, population.selectCount())
	assert.Equal(t, 5, population.addedCount())
}

func TestSolver_RunGeneration_GivesEveryAttemptItsOwnRandom(t *testing.T) {
	ruin := &recordingRuin{}
	solver, _ := newTestSolver(t, ruin, 8)

	require.NoError(t, solver.runGeneration(0, 8))

	seen := make(map[Random]struct{}, len(ruin.randoms))
	for _, r := range ruin.randoms {
		seen[r] = struct{}{}
	}
	assert.Len(t, ruin.randoms, 8)
	assert.Len(t, seen, 8, "every concurrent attempt must receive a distinct Random instance")
}

func TestSolver_RunGeneration_SharedCoordinatorRandomDrawsSeedsSequentially(t *testing.T) {
	// runGeneration must draw every attempt's seed from s.random before
	// dispatching any goroutine — calling it is only safe single-threaded.
	// A FakeRandom with a short, exhausted-after-width queue lets us assert
	// that exactly width seeds are drawn and no more.
	ruin := &recordingRuin{}
	problem := testProblem(t)
	seed := NewIndividual(&Solution{Unassigned: map[string]ViolationCode{}}, problem.Objective)
	population := newSpyPopulation(seed)

	coordinator := NewFakeRandom([]int{1, 2, 3}, nil)
	solver := NewSolver(problem, population, ruin, coordinator, SolverConfig{Concurrency: 3}, logrus.NewEntry(logrus.New()))

	require.NoError(t, solver.runGeneration(0, 3))
	assert.Len(t, ruin.randoms, 3)
}

func TestSolver_Run_StopsAtMaxGenerations(t *testing.T) {
	ruin := &recordingRuin{}
	solver, population := newTestSolver(t, ruin, 2)

	err := solver.Run(context.Background(), MaxGenerations(3))
	require.NoError(t, err)

	assert.Equal(t, 6, population.selectCount())
	assert.Equal(t, 6, population.addedCount())
}

func TestSolver_Run_PropagatesRuinError(t *testing.T) {
	failing := RuinStrategyFunc(func(*RefinementContext) (*InsertionContext, error) {
		return nil, NewInvariantError("failing.Ruin", "always fails")
	})
	solver, _ := newTestSolver(t, failing, 2)

	err := solver.Run(context.Background(), MaxGenerations(1))
	assert.Error(t, err)
}

func TestSolver_Run_StopsOnContextCancellation(t *testing.T) {
	ruin := &recordingRuin{}
	solver, _ := newTestSolver(t, ruin, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := solver.Run(ctx, MaxGenerations(100))
	assert.Error(t, err)
}

// RuinStrategyFunc adapts a plain function to RuinStrategy, the same way
// http.HandlerFunc adapts a function to http.Handler — useful for one-off
// strategies a test needs but no production caller ever will.
type RuinStrategyFunc func(ctx *RefinementContext) (*InsertionContext, error)

func (f RuinStrategyFunc) Ruin(ctx *RefinementContext) (*InsertionContext, error) { return f(ctx) }
