package boat

import "math/rand/v2"

// Random builds a boat of a randomly chosen kind with random in-range
// values. It returns the kind alongside the boat for callers that report it.
func Random(r *rand.Rand) (Kind, *Boat) {
	kinds := Kinds()
	var k Kind
	if r != nil {
		k = kinds[r.IntN(len(kinds))]
	} else {
		k = kinds[rand.IntN(len(kinds))]
	}
	return k, RandomOf(r, k)
}

// RandomOf builds a boat of kind k with random in-range values.
func RandomOf(r *rand.Rand, k Kind) *Boat {
	s := specs[k]
	return &Boat{
		kind:           k,
		weight:         pick(r, s.Weight),
		topSpeed:       pick(r, s.TopSpeed),
		characteristic: pick(r, s.Characteristic),
		code:           randomCode(r),
	}
}

func pick(r *rand.Rand, limits Range) int {
	n := limits.Max - limits.Min + 1
	if r != nil {
		return limits.Min + r.IntN(n)
	}
	return limits.Min + rand.IntN(n)
}
