package vrp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig_OverridesOnlyNamedFields(t *testing.T) {
	path := writeConfigFile(t, "generations: 7\nseed: 42\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Generations)
	assert.Equal(t, int64(42), cfg.Seed)
	// Fields the file didn't mention keep DefaultSolverConfig's values.
	assert.Equal(t, DefaultRuinConfig(), cfg.Ruin)
	assert.Equal(t, DefaultPopulationConfig(), cfg.Population)
}

func TestLoadConfig_ParsesNestedBlocks(t *testing.T) {
	path := writeConfigFile(t, `
ruin:
  ls_max: 20
  ks_max: 4
  alpha: 0.5
population:
  population_size: 30
  offspring_size: 10
  elite_size: 3
generations: 200
seed: 9
concurrency: 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, RuinConfig{LSMax: 20, KSMax: 4, Alpha: 0.5}, cfg.Ruin)
	assert.Equal(t, PopulationConfig{PopulationSize: 30, OffspringSize: 10, EliteSize: 3}, cfg.Population)
	assert.Equal(t, 200, cfg.Generations)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 2, cfg.Concurrency)
}

func TestLoadConfig_MissingFileReturnsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_RejectsInvalidConfig(t *testing.T) {
	path := writeConfigFile(t, "generations: 0\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSolverConfig_Validate(t *testing.T) {
	valid := DefaultSolverConfig()
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*SolverConfig)
	}{
		{"ls_max too small", func(c *SolverConfig) { c.Ruin.LSMax = 0 }},
		{"ks_max too small", func(c *SolverConfig) { c.Ruin.KSMax = 0 }},
		{"population_size too small", func(c *SolverConfig) { c.Population.PopulationSize = 0 }},
		{"offspring_size negative", func(c *SolverConfig) { c.Population.OffspringSize = -1 }},
		{"elite_size exceeds population_size", func(c *SolverConfig) { c.Population.EliteSize = c.Population.PopulationSize + 1 }},
		{"generations too small", func(c *SolverConfig) { c.Generations = 0 }},
		{"concurrency negative", func(c *SolverConfig) { c.Concurrency = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultSolverConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
