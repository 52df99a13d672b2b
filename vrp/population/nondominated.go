// Package population implements the NSGA-II-style ranking §4.5 describes:
// non-dominated sorting into fronts, crowding distance within a front, and
// DominancePopulation tying both into the bounded, weighted-selection
// multiset the evolutionary loop draws parents from. Like vrp/constraint and
// vrp/ruin, it imports vrp and is assembled by the caller.
package population

import "github.com/vrp-engine/vrp-engine/vrp"

// Front is one non-dominance tier: the members, in their original input
// order, that are dominated by nothing else remaining once earlier fronts
// are removed.
type Front struct {
	Members []*vrp.Individual
}

// Len returns the number of members in the front.
func (f *Front) Len() int { return len(f.Members) }

// NonDominatedSort partitions individuals into fronts F0, F1, ... per §4.5.1:
// F0 is the set no member of individuals dominates; F1 is non-dominated after
// removing F0; and so on. Members within a front retain their relative order
// from individuals.
func NonDominatedSort(individuals []*vrp.Individual) []*Front {
	n := len(individuals)
	dominatedBy := make([][]int, n)  // dominatedBy[i] = indices j that i dominates
	dominationCount := make([]int, n) // how many individuals dominate i

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if vrp.Dominates(individuals[i].Fitness, individuals[j].Fitness) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if vrp.Dominates(individuals[j].Fitness, individuals[i].Fitness) {
				dominationCount[i]++
			}
		}
	}

	var fronts []*Front
	remaining := dominationCount
	assigned := make([]bool, n)
	total := 0

	for total < n {
		var current []*vrp.Individual
		var currentIdx []int
		for i := 0; i < n; i++ {
			if !assigned[i] && remaining[i] == 0 {
				current = append(current, individuals[i])
				currentIdx = append(currentIdx, i)
			}
		}
		for _, i := range currentIdx {
			assigned[i] = true
		}
		total += len(currentIdx)
		fronts = append(fronts, &Front{Members: current})

		for _, i := range currentIdx {
			for _, j := range dominatedBy[i] {
				if !assigned[j] {
					remaining[j]--
				}
			}
		}

		if len(currentIdx) == 0 {
			// No progress possible (shouldn't happen for a well-formed
			// dominance relation); avoid an infinite loop.
			break
		}
	}
	return fronts
}
