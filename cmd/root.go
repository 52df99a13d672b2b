// cmd/root.go
package cmd

import (
	"context"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vrp-engine/vrp-engine/vrp"
	"github.com/vrp-engine/vrp-engine/vrp/constraint"
	"github.com/vrp-engine/vrp-engine/vrp/population"
	"github.com/vrp-engine/vrp-engine/vrp/ruin"
)

var (
	jobCount       int
	vehicleCount   int
	vehicleCap     int
	generations    int
	seed           int64
	logLevel       string
	populationSize int
	offspringSize  int
	eliteSize      int
	lsMax          int
	ksMax          int
	alpha          float64
	concurrency    int
	timeoutSeconds int64
	configPath     string
)

var rootCmd = &cobra.Command{
	Use:   "vrp-engine",
	Short: "Ruin-and-recreate vehicle routing solver",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve a synthetic demo routing problem",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		logrus.Infof("Starting solve with %d jobs, %d vehicles, %d generations, seed=%d",
			jobCount, vehicleCount, generations, seed)

		problem, err := buildDemoProblem(jobCount, vehicleCount, vehicleCap)
		if err != nil {
			logrus.Fatalf("failed to build demo problem: %v", err)
		}

		config, err := resolveConfig()
		if err != nil {
			logrus.Fatalf("failed to load config: %v", err)
		}

		random := vrp.NewDefaultRandom(config.Seed)
		pop := population.NewDominancePopulation(config.Population, random)
		pop.Add(vrp.NewIndividual(initialSolution(problem, random), problem.Objective))

		ruinStrategy := ruin.NewCompositeRuin(
			[]vrp.RuinStrategy{
				ruin.NewAdjustedStringRemoval(config.Ruin),
				ruin.NewRandomRouteRemoval(1),
				ruin.NewRandomJobRemoval(3),
			},
			[]int{10, 3, 2},
		)

		solver := vrp.NewSolver(problem, pop, ruinStrategy, random, *config, logrus.NewEntry(logrus.StandardLogger()))

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
		defer cancel()

		if err := solver.Run(ctx, vrp.MaxGenerations(config.Generations)); err != nil {
			logrus.Fatalf("solve failed: %v", err)
		}

		best, ok := pop.Best()
		if !ok {
			logrus.Warn("no solution found")
			return
		}
		logrus.WithFields(logrus.Fields{
			"routes":     len(best.Solution.Routes),
			"unassigned": len(best.Solution.Unassigned),
			"total_cost": best.Total(),
		}).Info("Solve complete.")
	},
}

// resolveConfig loads a SolverConfig from --config when set, otherwise
// assembles one from the individual cobra flags. A config file takes every
// solver parameter from the file; flag-driven runs take them from the flags
// the operator actually set on the command line.
func resolveConfig() (*vrp.SolverConfig, error) {
	if configPath != "" {
		return vrp.LoadConfig(configPath)
	}

	config := vrp.SolverConfig{
		Ruin: vrp.RuinConfig{
			LSMax: lsMax,
			KSMax: ksMax,
			Alpha: alpha,
		},
		Population: vrp.PopulationConfig{
			PopulationSize: populationSize,
			OffspringSize:  offspringSize,
			EliteSize:      eliteSize,
		},
		Generations: generations,
		Seed:        seed,
		Concurrency: concurrency,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// buildDemoProblem assembles a small synthetic problem on a flat-grid
// distance oracle, since CSV/JSON problem import is a collaborator outside
// this core's scope.
func buildDemoProblem(jobs, vehicles, capacity int) (*vrp.Problem, error) {
	transport := gridTransport{}

	jobList := make([]*vrp.Job, 0, jobs)
	for i := 0; i < jobs; i++ {
		jobList = append(jobList, &vrp.Job{
			ID: jobIDFor(i),
			Tasks: []vrp.Task{{
				Kind:        vrp.TaskPickup,
				Location:    vrp.Location(i + 1),
				Duration:    5,
				TimeWindows: []vrp.TimeWindow{{Start: 0, End: 1e6}},
				Demand:      vrp.Capacity{1},
			}},
		})
	}

	actors := make([]vrp.Actor, 0, vehicles)
	for i := 0; i < vehicles; i++ {
		depot := vrp.Place{Location: 0, Window: vrp.TimeWindow{Start: 0, End: 1e6}}
		actors = append(actors, vrp.Actor{
			ID: vehicleIDFor(i),
			Vehicle: vrp.Vehicle{
				ID:       vehicleIDFor(i),
				Profile:  "default",
				Capacity: vrp.Capacity{capacity},
				Costs:    vrp.Costs{Fixed: 50, PerDistance: 1, PerDrivingTime: 0.1},
				Shifts:   []vrp.Shift{{Start: depot, End: &depot}},
			},
		})
	}

	noLimit := func(vrp.Actor) (float64, float64) { return 0, 0 }
	pipeline := vrp.NewPipeline(
		constraint.NewTimingModule(transport),
		constraint.NewCapacityModule(),
		constraint.NewTravelingModule(noLimit, transport),
		constraint.NewSkillsModule(),
		constraint.NewWorkBalanceModule(constraint.LoadBalanced),
	)
	objective := vrp.NewMultiObjective(constraint.NewWorkBalanceObjective(constraint.LoadBalanced))

	return vrp.NewProblem(jobList, vrp.Fleet{Actors: actors}, transport, pipeline, objective)
}

// initialSolution runs the insertion heuristic once over every job, from an
// empty set of routes, to produce the population's founding member — the
// generational loop's ruin strategies all operate on existing routes, so
// there must be at least one populated solution before the first ruin call.
func initialSolution(problem *vrp.Problem, random vrp.Random) *vrp.Solution {
	registry := vrp.NewRegistry(problem.Fleet.Actors)
	solution := vrp.NewSolutionContext(registry)
	solution.Required = append([]*vrp.Job(nil), problem.Jobs...)

	insertionCtx := vrp.NewInsertionContext(problem, solution, vrp.InsertionProgress{Total: problem.Size()}, random)
	vrp.NewInsertionHeuristic().Run(insertionCtx)

	return solution.ToSolution()
}

// gridTransport is a flat-grid distance oracle: distance and duration both
// equal the absolute difference between location indices.
type gridTransport struct{}

func (gridTransport) Distance(profile string, from, to vrp.Location, departure float64) float64 {
	return math.Abs(float64(to - from))
}

func (gridTransport) Duration(profile string, from, to vrp.Location, departure float64) float64 {
	return math.Abs(float64(to - from))
}

func jobIDFor(i int) string {
	return "job-" + itoa(i)
}

func vehicleIDFor(i int) string {
	return "vehicle-" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().IntVar(&jobCount, "jobs", 20, "Number of demo jobs to generate")
	runCmd.Flags().IntVar(&vehicleCount, "vehicles", 3, "Number of demo vehicles")
	runCmd.Flags().IntVar(&vehicleCap, "capacity", 10, "Per-vehicle demo capacity")
	runCmd.Flags().IntVar(&generations, "generations", 50, "Number of evolutionary generations to run")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().IntVar(&populationSize, "population-size", 10, "Population size")
	runCmd.Flags().IntVar(&offspringSize, "offspring-size", 4, "Offspring batch size per generation")
	runCmd.Flags().IntVar(&eliteSize, "elite-size", 2, "Elite size")
	runCmd.Flags().IntVar(&lsMax, "ls-max", 10, "Adjusted String Removal max string length")
	runCmd.Flags().IntVar(&ksMax, "ks-max", 2, "Adjusted String Removal max routes touched")
	runCmd.Flags().Float64Var(&alpha, "alpha", 0.01, "Adjusted String Removal preserved-split gap decay")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent offspring per generation (0 = GOMAXPROCS)")
	runCmd.Flags().Int64Var(&timeoutSeconds, "timeout", 30, "Wall-clock timeout in seconds")
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML SolverConfig file; overrides the individual solver flags above")

	rootCmd.AddCommand(runCmd)
}
