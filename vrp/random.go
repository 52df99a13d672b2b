package vrp

import "math/rand"

// Random abstracts the three draw shapes the core ever needs: a uniform integer
// in an inclusive range, a uniform real in a half-open range, and an index drawn
// with probability proportional to a weight. Every stochastic decision in the
// core — which routes to ruin, which string length to cut, which parent to
// select — goes through exactly one of these three methods so that a scripted
// implementation can reproduce any run bit-for-bit.
type Random interface {
	// UniformInt returns an integer in [lo, hi], inclusive on both ends.
	UniformInt(lo, hi int) int
	// UniformReal returns a real in [lo, hi).
	UniformReal(lo, hi float64) float64
	// Weighted returns an index into weights, chosen with probability
	// proportional to weights[i]. Panics if weights is empty or sums to zero.
	Weighted(weights []int) int
}

// DefaultRandom wraps a single *rand.Rand. Not thread-safe: callers that
// dispatch concurrent ruin-recreate attempts must give each attempt its own
// DefaultRandom, derived from a per-attempt seed, rather than share one.
type DefaultRandom struct {
	source *rand.Rand
}

// NewDefaultRandom creates a DefaultRandom seeded deterministically from seed.
func NewDefaultRandom(seed int64) *DefaultRandom {
	return &DefaultRandom{source: rand.New(rand.NewSource(seed))}
}

func (d *DefaultRandom) UniformInt(lo, hi int) int {
	if hi < lo {
		panic("vrp: UniformInt called with hi < lo")
	}
	return lo + d.source.Intn(hi-lo+1)
}

func (d *DefaultRandom) UniformReal(lo, hi float64) float64 {
	if hi < lo {
		panic("vrp: UniformReal called with hi < lo")
	}
	return lo + d.source.Float64()*(hi-lo)
}

func (d *DefaultRandom) Weighted(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		panic("vrp: Weighted called with non-positive total weight")
	}
	pick := d.source.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if pick < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// FakeRandom consumes pre-planned draws in a fixed order, for deterministic
// tests that reproduce the scenarios in SPEC_FULL.md section 8. Each method
// pops the next value off its own queue; calling a method with an empty queue
// panics, since a test that runs out of scripted draws has a bug in its script,
// not in the algorithm under test.
type FakeRandom struct {
	ints  []int
	reals []float64
}

// NewFakeRandom creates a FakeRandom that will hand out ints and reals, in
// order, to UniformInt/Weighted and UniformReal calls respectively.
func NewFakeRandom(ints []int, reals []float64) *FakeRandom {
	return &FakeRandom{ints: append([]int(nil), ints...), reals: append([]float64(nil), reals...)}
}

func (f *FakeRandom) UniformInt(_, _ int) int {
	return f.nextInt()
}

func (f *FakeRandom) UniformReal(_, _ float64) float64 {
	return f.nextReal()
}

func (f *FakeRandom) Weighted(_ []int) int {
	return f.nextInt()
}

func (f *FakeRandom) nextInt() int {
	if len(f.ints) == 0 {
		panic("vrp: FakeRandom ran out of scripted int draws")
	}
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v
}

func (f *FakeRandom) nextReal() float64 {
	if len(f.reals) == 0 {
		panic("vrp: FakeRandom ran out of scripted real draws")
	}
	v := f.reals[0]
	f.reals = f.reals[1:]
	return v
}
