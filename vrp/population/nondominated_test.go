package population

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vrp-engine/vrp-engine/vrp"
)

func individualWithFitness(fitness ...float64) *vrp.Individual {
	return &vrp.Individual{Fitness: fitness}
}

func TestNonDominatedSort_PartitionsIntoFronts(t *testing.T) {
	a := individualWithFitness(1, 3)
	b := individualWithFitness(3, 1)
	c := individualWithFitness(3, 3)
	d := individualWithFitness(2, 2)

	fronts := NonDominatedSort([]*vrp.Individual{a, b, c, d})
	assert.Len(t, fronts, 2)
	assert.ElementsMatch(t, []*vrp.Individual{a, b, d}, fronts[0].Members)
	assert.ElementsMatch(t, []*vrp.Individual{c}, fronts[1].Members)
}

func TestNonDominatedSort_UnionPartitionsInputExactly(t *testing.T) {
	individuals := []*vrp.Individual{
		individualWithFitness(1, 1),
		individualWithFitness(2, 2),
		individualWithFitness(3, 3),
		individualWithFitness(0, 5),
	}
	fronts := NonDominatedSort(individuals)

	seen := make(map[*vrp.Individual]bool)
	total := 0
	for _, f := range fronts {
		for _, m := range f.Members {
			assert.False(t, seen[m], "individual appeared in more than one front")
			seen[m] = true
			total++
		}
	}
	assert.Equal(t, len(individuals), total)
}

func TestNonDominatedSort_AllEqual_SingleFront(t *testing.T) {
	individuals := []*vrp.Individual{
		individualWithFitness(1, 1),
		individualWithFitness(1, 1),
		individualWithFitness(1, 1),
	}
	fronts := NonDominatedSort(individuals)
	assert.Len(t, fronts, 1)
	assert.Len(t, fronts[0].Members, 3)
}
