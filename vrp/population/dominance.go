package population

import (
	"sort"
	"sync"

	"github.com/vrp-engine/vrp-engine/vrp"
)

// ranked pairs one individual with the rank (front index) and crowding
// distance NonDominatedSort/CrowdingDistances assigned it, for the single
// sort pass Add performs.
type ranked struct {
	individual *vrp.Individual
	rank       int
	crowding   float64
}

// DominancePopulation implements §4.5's bounded, dominance-ranked multiset:
// every Add recomputes NSGA-II rank and crowding distance over the whole set,
// reorders in place, deduplicates equivalent survivors, and truncates to
// population_size once the set exceeds population_size + offspring_size.
// Single-writer discipline per §5: Add takes an exclusive lock; the read
// methods take a brief read lock.
type DominancePopulation struct {
	mu          sync.RWMutex
	individuals []*vrp.Individual
	config      vrp.PopulationConfig
	maxSize     int
	random      vrp.Random
}

// NewDominancePopulation returns an empty DominancePopulation governed by
// config and drawing Select() choices from random. maxSize — population_size
// + offspring_size — is fixed at construction: Select()'s weights are defined
// against this configured ceiling, not against however many individuals
// happen to be alive at call time.
func NewDominancePopulation(config vrp.PopulationConfig, random vrp.Random) *DominancePopulation {
	return &DominancePopulation{config: config, maxSize: config.PopulationSize + config.OffspringSize, random: random}
}

// Add implements vrp.Population.
func (p *DominancePopulation) Add(ind *vrp.Individual) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.individuals = append(p.individuals, ind)
	p.individuals = reorderAndDeduplicate(p.individuals)

	limit := p.config.PopulationSize + p.config.OffspringSize
	if len(p.individuals) > limit {
		cut := p.config.PopulationSize
		if cut > len(p.individuals) {
			cut = len(p.individuals)
		}
		p.individuals = p.individuals[:cut]
	}
}

// reorderAndDeduplicate ranks individuals by NSGA-II front (lower first) and
// crowding distance (larger first) within a front, then removes any
// individual whose (crowding distance, fitness) pair duplicates a kept
// predecessor's under vrp.Epsilon tolerance — SPEC_FULL §9's resolution of
// the population dedup Open Question.
func reorderAndDeduplicate(individuals []*vrp.Individual) []*vrp.Individual {
	fronts := NonDominatedSort(individuals)

	var entries []ranked
	for rank, front := range fronts {
		result := CrowdingDistances(front)
		for i, ind := range front.Members {
			entries = append(entries, ranked{individual: ind, rank: rank, crowding: result.Distances[i]})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].rank != entries[j].rank {
			return entries[i].rank < entries[j].rank
		}
		return entries[i].crowding > entries[j].crowding
	})

	var kept []ranked
	for _, e := range entries {
		duplicate := false
		for _, k := range kept {
			if sameSurvivor(e, k) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, e)
		}
	}

	out := make([]*vrp.Individual, len(kept))
	for i, e := range kept {
		out[i] = e.individual
	}
	return out
}

func sameSurvivor(a, b ranked) bool {
	if !vrp.FloatsEqual(a.crowding, b.crowding) {
		return false
	}
	if len(a.individual.Fitness) != len(b.individual.Fitness) {
		return false
	}
	for i := range a.individual.Fitness {
		if !vrp.FloatsEqual(a.individual.Fitness[i], b.individual.Fitness[i]) {
			return false
		}
	}
	return true
}

// Best implements vrp.Population.
func (p *DominancePopulation) Best() (*vrp.Individual, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.individuals) == 0 {
		return nil, false
	}
	return p.individuals[0], true
}

// All implements vrp.Population.
func (p *DominancePopulation) All() []*vrp.Individual {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*vrp.Individual(nil), p.individuals...)
}

// Size implements vrp.Population.
func (p *DominancePopulation) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.individuals)
}

// Select implements vrp.Population: a weighted random pick where index i
// gets weight (max_size - i), doubled for i < elite_size — index 0 is always
// heaviest, and elites are doubly boosted (§4.5). max_size is the configured
// population_size + offspring_size ceiling, fixed at construction, not the
// live individual count: the weight an index carries must not drift as the
// population grows and shrinks across a generation.
func (p *DominancePopulation) Select() *vrp.Individual {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := len(p.individuals)
	if n == 0 {
		return nil
	}
	weights := make([]int, n)
	for i := 0; i < n; i++ {
		w := p.maxSize - i
		if i < p.config.EliteSize {
			w += p.maxSize - i
		}
		weights[i] = w
	}
	idx := p.random.Weighted(weights)
	return p.individuals[idx]
}
