package move

import (
	"iter"
	"math/rand/v2"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Union interleaves the moves of several generators at random.
//
// Each generator is capped at capEach moves. At every draw a generator is
// chosen with probability proportional to its remaining budget, so the
// interleaving is uniform over the pooled candidates. The sequence ends when
// every generator is exhausted or out of budget.
//
// Parameters:
//   - v: Vector the generators read
//   - rng: Seeded random source shared by the whole run
//   - capEach: Per-generator move cap
//   - gens: Generators to interleave
//
// Returns:
//   - iter.Seq[types.Move]: Interleaved moves
func Union(v *types.Vector, rng *rand.Rand, capEach int, gens ...Generator) iter.Seq[types.Move] {
	return func(yield func(types.Move) bool) {
		type source struct {
			next   func() (types.Move, bool)
			stop   func()
			budget int
		}

		sources := make([]*source, 0, len(gens))
		total := 0
		for _, g := range gens {
			budget := min(capEach, g.Size(v))
			if budget <= 0 {
				continue
			}
			next, stop := iter.Pull(g.Moves(v, rng, budget))
			sources = append(sources, &source{next: next, stop: stop, budget: budget})
			total += budget
		}
		defer func() {
			for _, s := range sources {
				s.stop()
			}
		}()

		for total > 0 {
			pick := rng.IntN(total)
			var src *source
			for _, s := range sources {
				if pick < s.budget {
					src = s
					break
				}
				pick -= s.budget
			}

			m, ok := src.next()
			if !ok {
				total -= src.budget
				src.budget = 0
				continue
			}
			src.budget--
			total--

			if !yield(m) {
				return
			}
		}
	}
}
