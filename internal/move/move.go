// Package move generates the atomic, conflict-safe moves explored by the
// local search.
//
// Every move folds in all group mates of each association it touches, and
// whenever a move newly confirms a group, every currently confirmed
// conflicting group is set to false in the same move.
package move

import (
	"iter"
	"math/rand/v2"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Generator produces candidate moves for one search step.
type Generator interface {
	// Name identifies the generator in logs and metrics.
	Name() string

	// Size estimates how many moves a full iteration would yield.
	Size(v *types.Vector) int

	// Moves returns a randomized sequence of at most limit moves.
	//
	// The sequence reads v lazily; v must hold the same values whenever
	// the sequence is resumed. Iteration need not be exhaustive.
	Moves(v *types.Vector, rng *rand.Rand, limit int) iter.Seq[types.Move]
}

// builder accumulates the changes of one move. A change once set for an
// association is never overwritten.
type builder struct {
	idx     *facts.ConflictIndex
	v       *types.Vector
	set     map[int]struct{}
	changes []types.Change
}

func newBuilder(idx *facts.ConflictIndex, v *types.Vector) *builder {
	return &builder{idx: idx, v: v, set: make(map[int]struct{}, 8)}
}

// group sets every mate of id to value.
func (b *builder) group(id int, value types.Confirmed) {
	for _, mate := range b.idx.GroupMates(id) {
		if _, ok := b.set[mate]; ok {
			continue
		}
		b.set[mate] = struct{}{}
		b.changes = append(b.changes, types.Change{Index: mate, Value: value})
	}
}

// cascade sets every currently confirmed association conflicting with id to false.
func (b *builder) cascade(id int) {
	for _, other := range b.idx.Conflicts(id) {
		if b.v.Value(other).IsTrue() {
			b.group(other, types.False)
		}
	}
}

func (b *builder) move() types.Move {
	return types.Move{Changes: b.changes}
}

// Confirm returns the move that confirms id's group and unconfirms every
// confirmed conflicting group.
func Confirm(idx *facts.ConflictIndex, v *types.Vector, id int) types.Move {
	b := newBuilder(idx, v)
	b.group(id, types.True)
	b.cascade(id)

	return b.move()
}

// Reject returns the move that sets id's group to false.
func Reject(idx *facts.ConflictIndex, v *types.Vector, id int) types.Move {
	b := newBuilder(idx, v)
	b.group(id, types.False)

	return b.move()
}
