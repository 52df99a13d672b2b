package population

import (
	"math"
	"sort"

	"github.com/vrp-engine/vrp-engine/vrp"
)

// CrowdingResult is one front's per-member crowding distances plus the
// per-axis spread (max - min) those distances were normalized against
// (§4.5.2).
type CrowdingResult struct {
	Distances []float64
	Spread    []float64
}

// CrowdingDistances computes crowding distance for every member of front. A
// front of size <= 2 assigns +Inf to every member (no meaningful density to
// measure); otherwise each objective axis contributes
// (next - prev) / spread / numObjectives to every interior member, and the
// two extremes on every axis get +Inf.
func CrowdingDistances(front *Front) CrowdingResult {
	n := len(front.Members)
	if n == 0 {
		return CrowdingResult{}
	}
	k := len(front.Members[0].Fitness)
	spread := make([]float64, k)

	if n <= 2 {
		distances := make([]float64, n)
		for i := range distances {
			distances[i] = math.Inf(1)
		}
		for a := 0; a < k; a++ {
			min, max := axisRange(front.Members, a)
			spread[a] = max - min
		}
		return CrowdingResult{Distances: distances, Spread: spread}
	}

	distances := make([]float64, n)
	for a := 0; a < k; a++ {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool {
			return front.Members[order[i]].Fitness[a] < front.Members[order[j]].Fitness[a]
		})

		min := front.Members[order[0]].Fitness[a]
		max := front.Members[order[n-1]].Fitness[a]
		spread[a] = max - min

		// A degenerate axis (every member identical on it) has no real
		// extremes to single out; leave every member's distance on this axis
		// untouched rather than arbitrarily picking two as infinite.
		if spread[a] == 0 {
			continue
		}

		distances[order[0]] = math.Inf(1)
		distances[order[n-1]] = math.Inf(1)

		for i := 1; i < n-1; i++ {
			next := front.Members[order[i+1]].Fitness[a]
			prev := front.Members[order[i-1]].Fitness[a]
			distances[order[i]] += (next - prev) / spread[a] / float64(k)
		}
	}
	return CrowdingResult{Distances: distances, Spread: spread}
}

func axisRange(members []*vrp.Individual, axis int) (min, max float64) {
	min, max = members[0].Fitness[axis], members[0].Fitness[axis]
	for _, m := range members[1:] {
		v := m.Fitness[axis]
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return
}
