package move

import (
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Flip toggles one group, cascading conflicts when toggling to true.
type Flip struct {
	idx  *facts.ConflictIndex
	reps []int
}

// Compile-time assertion that Flip implements Generator.
var _ Generator = (*Flip)(nil)

// NewFlip creates a flip generator over the groups of idx.
func NewFlip(idx *facts.ConflictIndex) *Flip {
	return &Flip{idx: idx, reps: idx.Representatives()}
}

// Name returns "flip".
func (f *Flip) Name() string {
	return "flip"
}

// Size returns the number of groups.
func (f *Flip) Size(_ *types.Vector) int {
	return len(f.reps)
}

// Moves yields one flip per group in shuffled order. Groups that conflict
// with themselves are never flipped to true.
func (f *Flip) Moves(v *types.Vector, rng *rand.Rand, limit int) iter.Seq[types.Move] {
	order := slices.Clone(f.reps)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	return func(yield func(types.Move) bool) {
		emitted := 0
		for _, rep := range order {
			if emitted >= limit {
				return
			}

			var m types.Move
			if v.Value(rep).IsTrue() {
				m = Reject(f.idx, v, rep)
			} else {
				if f.idx.Blocked(rep) {
					continue
				}
				m = Confirm(f.idx, v, rep)
			}

			emitted++
			if !yield(m) {
				return
			}
		}
	}
}
