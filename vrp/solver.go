package vrp

import (
	"context"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Population is the interface the evolutionary loop drives; the concrete
// NSGA-II implementation lives in vrp/population and is assembled by the
// caller, the same way Pipeline is assembled from vrp/constraint modules.
type Population interface {
	Add(ind *Individual)
	Best() (*Individual, bool)
	All() []*Individual
	Size() int
	Select() *Individual
}

// RefinementContext is what a RuinStrategy needs to produce a fresh
// InsertionContext from the current population: the problem, the population
// to draw a parent from, the random source, and the current generation index.
type RefinementContext struct {
	Problem    *Problem
	Population Population
	Random     Random
	Generation int
}

// RuinStrategy destroys part of a parent solution, returning an
// InsertionContext whose Required list holds the jobs it unassigned (§4.4).
// The concrete strategies (AdjustedStringRemoval and its siblings) live in
// vrp/ruin.
type RuinStrategy interface {
	Ruin(ctx *RefinementContext) (*InsertionContext, error)
}

// TerminationFunc decides whether the evolutionary loop should stop before
// starting another generation.
type TerminationFunc func(generation int, population Population) bool

// MaxGenerations stops once generation reaches n.
func MaxGenerations(n int) TerminationFunc {
	return func(generation int, _ Population) bool { return generation >= n }
}

// WallClock stops once budget has elapsed since it was constructed.
func WallClock(budget time.Duration) TerminationFunc {
	deadline := time.Now().Add(budget)
	return func(_ int, _ Population) bool { return time.Now().After(deadline) }
}

// QualityThreshold stops once the population's best total cost is at or below
// threshold.
func QualityThreshold(threshold float64) TerminationFunc {
	return func(_ int, population Population) bool {
		best, ok := population.Best()
		return ok && best.Total() <= threshold
	}
}

// AnyOf stops as soon as any one of fns would stop.
func AnyOf(fns ...TerminationFunc) TerminationFunc {
	return func(generation int, population Population) bool {
		for _, fn := range fns {
			if fn(generation, population) {
				return true
			}
		}
		return false
	}
}

// Solver ties the ruin operator, the insertion heuristic, and the population
// together into the generational loop spec.md §2 describes: select parent →
// ruin → recreate → add to population → repeat until termination.
type Solver struct {
	problem    *Problem
	population Population
	ruin       RuinStrategy
	random     Random
	config     SolverConfig
	log        *logrus.Entry
}

// NewSolver assembles a Solver. log may be nil, in which case a
// logrus.StandardLogger entry is used.
func NewSolver(problem *Problem, population Population, ruin RuinStrategy, random Random, config SolverConfig, log *logrus.Entry) *Solver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Solver{problem: problem, population: population, ruin: ruin, random: random, config: config, log: log}
}

// Run executes generations until termination reports true or ctx is
// cancelled. Each generation dispatches a batch of concurrent ruin-recreate
// attempts — sized by config.Concurrency, defaulting to GOMAXPROCS — each
// owning its own InsertionContext built from a deep-copied snapshot (§5);
// only Population.Add touches shared state, and it serializes internally.
func (s *Solver) Run(ctx context.Context, termination TerminationFunc) error {
	width := s.config.Concurrency
	if width <= 0 {
		width = runtime.GOMAXPROCS(0)
	}

	for generation := 0; ; generation++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if termination(generation, s.population) {
			return nil
		}

		if err := s.runGeneration(generation, width); err != nil {
			s.log.WithError(err).WithField("generation", generation).Error("ruin-recreate attempt failed")
			return err
		}

		if best, ok := s.population.Best(); ok {
			s.log.WithFields(logrus.Fields{
				"generation":      generation,
				"population_size": s.population.Size(),
				"best_cost":       best.Total(),
			}).Info("generation complete")
		}
	}
}

// runGeneration dispatches width independent ruin-recreate attempts and adds
// every offspring they produce to the population. *DefaultRandom carries no
// internal locking, so no two concurrently-dispatched attempts may ever share
// one (vrp/random.go's DefaultRandom contract): every attempt's seed is drawn
// from s.random up front, sequentially, on this goroutine, before any
// attempt's own *DefaultRandom is constructed and handed to its own goroutine.
func (s *Solver) runGeneration(generation, width int) error {
	seeds := make([]int64, width)
	for i := range seeds {
		seeds[i] = int64(s.random.UniformInt(0, 1<<30))
	}

	group, _ := errgroup.WithContext(context.Background())
	offspring := make([]*Individual, width)

	for i := 0; i < width; i++ {
		i := i
		group.Go(func() error {
			refinement := &RefinementContext{
				Problem:    s.problem,
				Population: s.population,
				Random:     NewDefaultRandom(seeds[i]),
				Generation: generation,
			}
			insertionCtx, err := s.ruin.Ruin(refinement)
			if err != nil {
				return err
			}
			NewInsertionHeuristic().Run(insertionCtx)
			offspring[i] = NewIndividual(insertionCtx.Solution.ToSolution(), s.problem.Objective)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	for _, ind := range offspring {
		s.population.Add(ind)
	}
	return nil
}
