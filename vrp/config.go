package vrp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuinConfig groups Adjusted String Removal's tunables (§4.4).
type RuinConfig struct {
	LSMax int     `yaml:"ls_max"` // max string length cap
	KSMax int     `yaml:"ks_max"` // max routes touched per ruin
	Alpha float64 `yaml:"alpha"`  // preserved-split gap decay weight
}

// DefaultRuinConfig returns the defaults SPEC_FULL.md §4.4 calls "chosen to
// match reference behavior".
func DefaultRuinConfig() RuinConfig {
	return RuinConfig{LSMax: 10, KSMax: 2, Alpha: 0.01}
}

// PopulationConfig groups DominancePopulation's size parameters (§4.5).
type PopulationConfig struct {
	PopulationSize int `yaml:"population_size"`
	OffspringSize  int `yaml:"offspring_size"`
	EliteSize      int `yaml:"elite_size"`
}

// DefaultPopulationConfig returns a small but workable default population
// shape.
func DefaultPopulationConfig() PopulationConfig {
	return PopulationConfig{PopulationSize: 10, OffspringSize: 4, EliteSize: 2}
}

// SolverConfig groups the evolutionary loop's own parameters: how many
// generations to run concurrently dispatched offspring, and the random seed
// generations derive from.
type SolverConfig struct {
	Ruin        RuinConfig       `yaml:"ruin"`
	Population  PopulationConfig `yaml:"population"`
	Generations int              `yaml:"generations"`
	Seed        int64            `yaml:"seed"`
	Concurrency int              `yaml:"concurrency"` // 0 means runtime.GOMAXPROCS(0)
}

// DefaultSolverConfig returns a SolverConfig with every field defaulted.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		Ruin:        DefaultRuinConfig(),
		Population:  DefaultPopulationConfig(),
		Generations: 100,
		Seed:        1,
	}
}

// LoadConfig reads and validates a YAML SolverConfig file. Fields the file
// omits keep DefaultSolverConfig's values rather than zeroing out, so a
// config file only needs to name the parameters it wants to override.
func LoadConfig(path string) (*SolverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultSolverConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects a SolverConfig whose parameters could never produce a
// working solver: a ruin operator with no string length to cut, a
// population with no room for a founding member, or a generational loop
// that can never dispatch an attempt.
func (c *SolverConfig) Validate() error {
	if c.Ruin.LSMax < 1 {
		return fmt.Errorf("ruin.ls_max must be >= 1, got %d", c.Ruin.LSMax)
	}
	if c.Ruin.KSMax < 1 {
		return fmt.Errorf("ruin.ks_max must be >= 1, got %d", c.Ruin.KSMax)
	}
	if c.Population.PopulationSize < 1 {
		return fmt.Errorf("population.population_size must be >= 1, got %d", c.Population.PopulationSize)
	}
	if c.Population.OffspringSize < 0 {
		return fmt.Errorf("population.offspring_size must be >= 0, got %d", c.Population.OffspringSize)
	}
	if c.Population.EliteSize < 0 || c.Population.EliteSize >= c.Population.PopulationSize {
		return fmt.Errorf("population.elite_size must be in [0, population_size), got %d", c.Population.EliteSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("generations must be >= 1, got %d", c.Generations)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}
	return nil
}
